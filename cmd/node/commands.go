package node

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbeckers/serdex/lib/serde"
	"github.com/mbeckers/serdex/lib/wire"
)

var (
	encodeCmd = &cobra.Command{
		Use:   "encode [input] [output]",
		Short: "Serializes a JSON document into a binary envelope",
		Long:  "Reads a JSON document, serializes it through the configured context and writes the binary envelope. Use - for stdin/stdout.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			var value any
			if err := json.Unmarshal(data, &value); err != nil {
				return fmt.Errorf("invalid JSON input: %w", err)
			}

			n, err := nodeCtx.Serialize(value)
			if err != nil {
				return err
			}

			envelope, err := wire.EncodeNode(n)
			if err != nil {
				return err
			}
			if err := writeOutput(args[1], envelope); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "encoded %d bytes (tag %s)\n", len(envelope), n.Tag)
			return nil
		},
	}

	decodeCmd = &cobra.Command{
		Use:   "decode [input] [output]",
		Short: "Deserializes a binary envelope back into JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			n, err := wire.DecodeNode(data)
			if err != nil {
				return err
			}

			value, err := nodeCtx.Deserialize(n)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return fmt.Errorf("decoded value is not JSON-representable: %w", err)
			}
			return writeOutput(args[1], append(out, '\n'))
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect [input]",
		Short: "Prints the node tree of a binary envelope",
		Long:  "Decodes the envelope structure without invoking any codec, so unknown tags can still be examined.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			n, err := wire.DecodeNode(data)
			if err != nil {
				return err
			}

			describeNode(cmd.OutOrStdout(), n, 0)
			return nil
		},
	}
)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// readInput reads a file, or stdin for "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes a file, or stdout for "-"
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// describeNode prints one node and recurses into nested tuple elements
func describeNode(w io.Writer, n *serde.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch repr := n.Repr.(type) {
	case serde.Bytes:
		fmt.Fprintf(w, "%s%s: bytes[%d]\n", indent, n.Tag, repr.Buffer.Len())

	case serde.Tuple:
		fmt.Fprintf(w, "%s%s: tuple[%d]\n", indent, n.Tag, len(repr.Elements))
		for i, elem := range repr.Elements {
			if child, ok := elem.(*serde.Node); ok {
				describeNode(w, child, depth+1)
				continue
			}
			fmt.Fprintf(w, "%s  [%d] %T = %v\n", indent, i, elem, elem)
		}

	default:
		fmt.Fprintf(w, "%s%s: unknown representation %T\n", indent, n.Tag, n.Repr)
	}
}
