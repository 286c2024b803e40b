package node

import (
	"github.com/spf13/cobra"

	"github.com/mbeckers/serdex/cmd/util"
	"github.com/mbeckers/serdex/lib/serde"
)

var (
	nodeCtx serde.ISerializationContext

	// NodeCommands represents the node command group
	NodeCommands = &cobra.Command{
		Use:               "node",
		Short:             "Encode, decode and inspect serialized nodes",
		PersistentPreRunE: setupContext,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add subcommands
	NodeCommands.AddCommand(encodeCmd)
	NodeCommands.AddCommand(decodeCmd)
	NodeCommands.AddCommand(inspectCmd)
}

// setupContext builds the serialization context from the configuration
func setupContext(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	nodeCtx, err = util.GetContext()
	return err
}
