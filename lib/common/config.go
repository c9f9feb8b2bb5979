package common

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// StorageType selects the storage backend of the cli
type StorageType string

const (
	StorageMemory StorageType = "memory"
	StorageSQLite StorageType = "sqlite"
)

// ClientConfig holds the configuration of the dpersist cli.
type ClientConfig struct {
	// Storage backend
	StorageType StorageType
	DBPath      string
	Async       bool

	// Codec name (json or yaml)
	Codec string

	// Write debounce delay of persisted slices
	Delay time.Duration

	// Logging configuration
	LogLevel string
}

// Validate checks the configuration for invalid combinations
func (c *ClientConfig) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("storage %q needs a database path (--db)", c.StorageType)
		}
	default:
		return fmt.Errorf("invalid storage %q. must be one of memory, sqlite", c.StorageType)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Type", string(c.StorageType))
	if c.StorageType == StorageSQLite {
		addField("Database", c.DBPath)
	}
	addField("Async Writes", fmt.Sprintf("%t", c.Async))

	addSection("Persistence")
	addField("Codec", c.Codec)
	addField("Delay", c.Delay.String())

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
