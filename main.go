package main

import "github.com/mbeckers/serdex/cmd"

func main() {
	cmd.Execute()
}
