package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbeckers/serdex/cmd/bench"
	"github.com/mbeckers/serdex/cmd/node"
	"github.com/mbeckers/serdex/cmd/util"
	"github.com/mbeckers/serdex/lib/logging"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "serdex",
		Short: "extensible object serialization toolkit",
		Long: fmt.Sprintf(`serdex (v%s)

An extensible, type-directed serialization registry for Go.
Values are dispatched to registered codecs by runtime type,
turned into tagged node trees and packed into a portable
binary envelope.`, Version),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logging.InitLoggers(level)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of serdex",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("serdex v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(node.NodeCommands)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "fallback"
	RootCmd.PersistentFlags().String(key, "msgpack", util.WrapString("fallback codec to use (msgpack, gob, json)"))
	key = "context"
	RootCmd.PersistentFlags().String(key, "default", util.WrapString("context preset to use (default, compact)"))
	key = "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("enable per-tag operation counters"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warning", util.WrapString("log level (debug, info, warning, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
