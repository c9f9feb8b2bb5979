package slice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ValentinKolb/dPersist/cmd/util"
	"github.com/ValentinKolb/dPersist/lib/codec"
	"github.com/ValentinKolb/dPersist/lib/common"
	"github.com/ValentinKolb/dPersist/lib/persist"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/spf13/cobra"
)

var (
	// InspectCmd prints the decoded snapshot of a slice
	InspectCmd = &cobra.Command{
		Use:   "inspect [id]",
		Short: "Prints the stored snapshot of a persisted slice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStorage(func(conf *common.ClientConfig, s storage.Storage) error {
				c, err := util.GetCodec(conf)
				if err != nil {
					return err
				}
				return inspect(args[0], s, c)
			})
		},
	}

	// PurgeCmd removes the snapshot of a slice
	PurgeCmd = &cobra.Command{
		Use:   "purge [id]",
		Short: "Removes a persisted slice from the storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStorage(func(_ *common.ClientConfig, s storage.Storage) error {
				if err := s.RemoveItem(persist.BuildKey(persist.Config{Key: args[0]})); err != nil {
					return err
				}
				fmt.Printf("purged %s\n", args[0])
				return nil
			})
		},
	}

	// KeysCmd lists all persisted slices
	KeysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists the ids of all persisted slices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.WithStorage(func(_ *common.ClientConfig, s storage.Storage) error {
				ids, err := List(s)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			})
		},
	}
)

// List returns the ids of the slices stored in s.
func List(s storage.Storage) ([]string, error) {
	lister, ok := s.(storage.Lister)
	if !ok {
		return nil, storage.NewError(storage.RetCUnsupportedOperation, "storage can not list keys")
	}
	keys, err := lister.Keys(persist.KeyPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = strings.TrimPrefix(key, persist.KeyPrefix)
	}
	return ids, nil
}

// inspect prints the metadata and every field of the slice id
func inspect(id string, s storage.Storage, c codec.Codec) error {
	state, err := persist.GetStoredState(persist.Config{Key: id, Storage: s, Codec: c})
	if err != nil {
		return err
	}
	if state == nil {
		fmt.Printf("no snapshot stored for %s\n", id)
		return nil
	}

	meta := state.Meta()
	fmt.Printf("%-15s: %s\n", "key", persist.BuildKey(persist.Config{Key: id}))
	fmt.Printf("%-15s: %d\n", "version", meta.Version)

	fields := make([]string, 0, len(state))
	for field := range state {
		if field != persist.PersistKey {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	for _, field := range fields {
		text, err := c.Marshal(state[field])
		if err != nil {
			return err
		}
		fmt.Printf("%-15s: %s\n", field, strings.TrimSpace(text))
	}
	return nil
}
