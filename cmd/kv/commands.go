package kv

import (
	"fmt"

	"github.com/ValentinKolb/dPersist/cmd/util"
	"github.com/ValentinKolb/dPersist/lib/common"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			return util.WithStorage(func(_ *common.ClientConfig, s storage.Storage) error {
				if err := s.SetItem(key, value); err != nil {
					return err
				}
				fmt.Println("set successfully")
				return nil
			})
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return util.WithStorage(func(_ *common.ClientConfig, s storage.Storage) error {
				resp, ok, err := s.GetItem(key)
				if err != nil {
					return err
				}
				fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
				return nil
			})
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return util.WithStorage(func(_ *common.ClientConfig, s storage.Storage) error {
				if err := s.RemoveItem(key); err != nil {
					return err
				}
				fmt.Println("delete successfully")
				return nil
			})
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return util.WithStorage(func(_ *common.ClientConfig, s storage.Storage) error {
				_, found, err := s.GetItem(key)
				if err != nil {
					return err
				}
				fmt.Printf("key=%s, found=%t\n", key, found)
				return nil
			})
		},
	}
)
