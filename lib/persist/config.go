package persist

import (
	"slices"
	"time"

	"github.com/ValentinKolb/dPersist/lib/codec"
	"github.com/ValentinKolb/dPersist/lib/lazy"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/jonboulle/clockwork"
)

// Config configures one persisted slice.
type Config struct {
	// Key identifies the slice, the storage key is KeyPrefix + Key. Required.
	Key string
	// Storage is the backend the slice is written to. Required.
	Storage storage.Storage

	// Version of the current schema. nil means DefaultVersion, see Versioned.
	Version *int
	// Delay debounces writes. Zero means DefaultDelay, NoDelay writes every
	// update immediately.
	Delay time.Duration

	// Whitelist limits persistence to the listed top level fields.
	// Mutually exclusive with Blacklist.
	Whitelist []string
	// Blacklist excludes the listed top level fields from persistence.
	Blacklist []string

	// StateReconciler merges the restored snapshot into the initial state.
	// Defaults to AutoMergeLevel1 (AutoMergeLevel2 for PersistCombineReducers).
	StateReconciler StateReconciler
	// Migrate brings a restored snapshot to Version, see CreateMigrate.
	Migrate MigrateFunc
	// Transforms are applied per field, see Transform.
	Transforms []Transform

	// Serialize and Deserialize override Codec for the snapshot, and for
	// every field unless the field hooks are set.
	Serialize   func(value any) (string, error)
	Deserialize func(text string) (any, error)
	// SerializeField and DeserializeField override the encoding of single
	// fields and of the metadata.
	SerializeField   func(value any) (string, error)
	DeserializeField func(text string) (any, error)
	// Codec is used when no override is set. Defaults to JSON.
	Codec codec.Codec

	// Combined makes PersistReducer build one lazy view per field of the
	// initial state instead of one view for the whole state. Set it when the
	// wrapped reducer reads fields of its state during initialization.
	Combined bool

	// Clock drives the debounce timer. Defaults to the real clock.
	Clock clockwork.Clock
	// OnError receives errors of writes triggered by the debounce timer.
	OnError func(key string, err error)
}

// Versioned returns a pointer to v for use as Config.Version.
func Versioned(v int) *int {
	return &v
}

// BuildKey returns the storage key of the slice.
func BuildKey(cfg Config) string {
	return KeyPrefix + cfg.Key
}

// Validate rejects configurations that can not work.
func (c Config) Validate() error {
	if c.Key == "" {
		return NewError(RetCInvalidConfig, "key must not be empty")
	}
	if c.Storage == nil {
		return NewError(RetCInvalidConfig, "storage must not be nil")
	}
	if len(c.Whitelist) > 0 && len(c.Blacklist) > 0 {
		return NewError(RetCInvalidConfig, "whitelist and blacklist are mutually exclusive")
	}
	if c.Delay < 0 && c.Delay != NoDelay {
		return NewError(RetCInvalidConfig, "delay must not be negative")
	}
	return nil
}

// CurrentVersion returns the configured version or DefaultVersion.
func (c Config) CurrentVersion() int {
	if c.Version == nil {
		return DefaultVersion
	}
	return *c.Version
}

// withDefaults fills every unset optional field.
func (c Config) withDefaults(reconciler StateReconciler) Config {
	if c.StateReconciler == nil {
		c.StateReconciler = reconciler
	}
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.Codec == nil {
		c.Codec = codec.NewJSONCodec()
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c
}

// persisted reports whether field is written to storage.
func (c Config) persisted(field string) bool {
	if field == PersistKey {
		return false
	}
	if len(c.Whitelist) > 0 {
		return slices.Contains(c.Whitelist, field)
	}
	return !slices.Contains(c.Blacklist, field)
}

func (c Config) serialize(value any) (string, error) {
	return c.marshal(c.Serialize, value)
}

func (c Config) deserialize(text string) (any, error) {
	return c.unmarshal(c.Deserialize, text)
}

func (c Config) serializeField(value any) (string, error) {
	if c.SerializeField != nil {
		return c.marshal(c.SerializeField, value)
	}
	return c.serialize(value)
}

func (c Config) deserializeField(text string) (any, error) {
	if c.DeserializeField != nil {
		return c.unmarshal(c.DeserializeField, text)
	}
	return c.deserialize(text)
}

func (c Config) marshal(hook func(any) (string, error), value any) (string, error) {
	if hook != nil {
		return hook(lazy.Materialize(value))
	}
	if c.Codec == nil {
		return codec.NewJSONCodec().Marshal(value)
	}
	return c.Codec.Marshal(value)
}

func (c Config) unmarshal(hook func(string) (any, error), text string) (any, error) {
	if hook != nil {
		return hook(text)
	}
	if c.Codec == nil {
		return codec.NewJSONCodec().Unmarshal(text)
	}
	return c.Codec.Unmarshal(text)
}
