package kv

import (
	"github.com/spf13/cobra"
)

var (
	// KeyValueCommands represents the raw storage command group
	KeyValueCommands = &cobra.Command{
		Use:   "kv",
		Short: "Perform raw operations on the configured storage",
		Long: `Perform raw operations on the configured storage.

Keys are used as given, persisted slices live under "persist:<id>".`,
	}
)

func init() {
	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
}
