package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dPersist/cmd/demo"
	"github.com/ValentinKolb/dPersist/cmd/kv"
	"github.com/ValentinKolb/dPersist/cmd/slice"
	"github.com/ValentinKolb/dPersist/cmd/util"
	"github.com/ValentinKolb/dPersist/lib/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dpersist",
		Short: "lazy persistence for in-memory state trees",
		Long: fmt.Sprintf(`dPersist (v%s)

Persists slices of an in-memory state tree to a key-value storage and
restores them lazily: nothing is read until a persisted field is touched,
and bursts of state changes are coalesced into a single write.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dPersist",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dPersist v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add Flags
	util.SetupStorageFlags(RootCmd)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(slice.InspectCmd)
	RootCmd.AddCommand(slice.PurgeCmd)
	RootCmd.AddCommand(slice.KeysCmd)
	RootCmd.AddCommand(demo.DemoCmd)
	RootCmd.AddCommand(versionCmd)
}

// setup binds the flags of the executed command and configures logging
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
