package demo

import (
	"fmt"
	"os"
	"time"

	"github.com/ValentinKolb/dPersist/cmd/util"
	"github.com/ValentinKolb/dPersist/lib/common"
	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/persist"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// DemoCmd runs the demo application against the configured storage
	DemoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Runs a small persisted application",
		Long: `Runs a small persisted application against the configured storage.

The application keeps a click counter in the slice "demo" and a profile in
the slice "demo-profile". The command dispatches a burst of clicks, flushes
and reports how many storage reads and writes were needed. Run it twice with
--storage sqlite to see the state being restored.`,
		RunE: run,
	}
)

func init() {
	key := "updates"
	DemoCmd.Flags().Int(key, 1000, util.WrapString("Number of click actions to dispatch"))
	key = "rename"
	DemoCmd.Flags().String(key, "", util.WrapString("Optional new name for the profile"))
	key = "metrics"
	DemoCmd.Flags().Bool(key, false, util.WrapString("Print the persist metrics in Prometheus format"))
}

func run(_ *cobra.Command, _ []string) error {
	return util.WithStorage(func(conf *common.ClientConfig, s storage.Storage) error {
		c, err := util.GetCodec(conf)
		if err != nil {
			return err
		}
		updates := viper.GetInt("updates")

		fmt.Println("Configuration:")
		fmt.Println(conf.String())

		counting := storage.NewCounting(s)
		app, err := NewApp(AppOptions{
			Storage: counting,
			Codec:   c,
			Delay:   conf.Delay,
			Clock:   clockwork.NewRealClock(),
			OnRehydrate: func(payload persist.RehydratePayload) {
				fmt.Printf("rehydrated %s\n", payload.Key)
			},
		})
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < updates; i++ {
			app.Store.Dispatch(container.Action{Type: ActionClick})
		}
		if name := viper.GetString("rename"); name != "" {
			app.Store.Dispatch(container.Action{Type: ActionRename, Payload: name})
		}
		if err := app.Persistor.Flush(); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Println()
		fmt.Printf("%-22s: %d in %s\n", "Dispatched", updates, elapsed)
		fmt.Printf("%-22s: %.0f\n", "Clicks", app.Clicks())
		printCounts(counting, RootKey)
		if viper.GetString("rename") != "" {
			fmt.Printf("%-22s: %v\n", "Profile", app.Profile())
		}
		printCounts(counting, ProfileKey)

		if viper.GetBool("metrics") {
			fmt.Println()
			persist.WritePrometheus(os.Stdout)
		}
		return nil
	})
}

// printCounts prints the storage operations issued for the slice id
func printCounts(counting *storage.Counting, id string) {
	key := persist.BuildKey(persist.Config{Key: id})
	fmt.Printf("%-22s: reads=%d writes=%d\n", key, counting.Reads(key), counting.Writes(key))
}
