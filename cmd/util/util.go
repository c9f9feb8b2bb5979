package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dPersist/lib/codec"
	"github.com/ValentinKolb/dPersist/lib/common"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStorageFlags adds the storage and persistence flags to a command
func SetupStorageFlags(cmd *cobra.Command) {
	key := "storage"
	cmd.PersistentFlags().String(key, string(common.StorageMemory), WrapString("Storage backend to use (memory, sqlite)"))

	key = "db"
	cmd.PersistentFlags().String(key, "dpersist.db", WrapString("Path of the sqlite database (only for --storage sqlite)"))

	key = "async"
	cmd.PersistentFlags().Bool(key, false, WrapString("Queue writes on a background worker instead of writing synchronously"))

	key = "codec"
	cmd.PersistentFlags().String(key, "json", WrapString("Codec used to encode snapshots (json, yaml)"))

	key = "delay"
	cmd.PersistentFlags().Duration(key, 100*time.Millisecond, WrapString("Debounce delay between a state change and the write of its slice"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level (debug, info, warn, error)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dpersist")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() (*common.ClientConfig, error) {
	conf := &common.ClientConfig{
		StorageType: common.StorageType(strings.ToLower(viper.GetString("storage"))),
		DBPath:      viper.GetString("db"),
		Async:       viper.GetBool("async"),
		Codec:       viper.GetString("codec"),
		Delay:       viper.GetDuration("delay"),
		LogLevel:    viper.GetString("log-level"),
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// GetCodec creates a codec based on configuration
func GetCodec(conf *common.ClientConfig) (codec.Codec, error) {
	return codec.ByName(conf.Codec)
}

// OpenStorage opens the configured storage backend. The returned function
// applies queued writes and releases the backend.
func OpenStorage(conf *common.ClientConfig) (storage.Storage, func() error, error) {
	var (
		backend storage.Storage
		closers []func() error
	)

	switch conf.StorageType {
	case common.StorageMemory:
		backend = storage.NewMemory()
	case common.StorageSQLite:
		db, err := storage.NewSQLite(conf.DBPath)
		if err != nil {
			return nil, nil, err
		}
		backend = db
		closers = append(closers, db.Close)
	default:
		return nil, nil, fmt.Errorf("invalid storage %s", conf.StorageType)
	}

	if conf.Async {
		async := storage.NewAsync(backend, nil)
		backend = async
		// the queue must drain before the backend closes
		closers = append([]func() error{async.Close}, closers...)
	}

	closeAll := func() error {
		for _, c := range closers {
			if err := c(); err != nil {
				return err
			}
		}
		return nil
	}
	return backend, closeAll, nil
}

// WithStorage opens the configured storage, runs fn and closes the storage.
func WithStorage(fn func(conf *common.ClientConfig, s storage.Storage) error) error {
	conf, err := GetClientConfig()
	if err != nil {
		return err
	}
	s, closeStorage, err := OpenStorage(conf)
	if err != nil {
		return err
	}

	runErr := fn(conf, s)
	if err := closeStorage(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
