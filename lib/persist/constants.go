package persist

import "time"

const (
	// DefaultVersion marks a snapshot written without a version.
	DefaultVersion = -1
	// KeyPrefix is prepended to Config.Key to build the storage key.
	KeyPrefix = "persist:"
	// PersistKey is the reserved snapshot field holding PersistMeta.
	PersistKey = "_persist"
	// DefaultDelay is the write debounce used when Config.Delay is zero.
	DefaultDelay = 100 * time.Millisecond
	// NoDelay disables debouncing, every update is written immediately.
	NoDelay time.Duration = -1
)

// Action types broadcast to the host container.
const (
	ActionPrefix    = "persist"
	ActionFlush     = ActionPrefix + "/FLUSH"
	ActionRehydrate = ActionPrefix + "/REHYDRATE"
	ActionPause     = ActionPrefix + "/PAUSE"
	ActionPersist   = ActionPrefix + "/PERSIST"
	ActionPurge     = ActionPrefix + "/PURGE"
	ActionRegister  = ActionPrefix + "/REGISTER"

	// actionGetEmptyState is never matched by a reducer, it makes a reducer
	// return its declared initial state.
	actionGetEmptyState = ActionPrefix + "/__GET_EMPTY_STATE"
)

// maxPendingActions bounds the actions a persistoid buffers before it is
// attached to a store. The oldest action is dropped when the buffer is full.
const maxPendingActions = 256
