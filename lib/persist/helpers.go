package persist

import (
	"slices"
	"sync"

	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// helpers bundles the persistoid of a wrapped reducer with its restore cache.
type helpers struct {
	cfg        Config
	persistoid *Persistoid

	mu         sync.Mutex
	done       bool
	reconciled any
}

// newHelpers expects a validated config with defaults applied.
func newHelpers(cfg Config) *helpers {
	return &helpers{
		cfg:        cfg,
		persistoid: newPersistoid(cfg),
	}
}

// restoreItem returns the supplier of the lazy views over initial.
//
// The first call reads the snapshot, migrates it and reconciles it with
// initial. Later calls return the cached result without touching storage.
// A call for a field outside the whitelist returns initial and does not
// restore.
//
// The reconciler runs while the cache is locked and must not read views
// backed by the same supplier.
func (h *helpers) restoreItem(initial any) lazy.Supplier {
	return func(field string) any {
		h.mu.Lock()
		defer h.mu.Unlock()

		if !h.done {
			if field != "" && len(h.cfg.Whitelist) > 0 && !slices.Contains(h.cfg.Whitelist, field) {
				return initial
			}
			h.restore(initial)
		}
		if h.reconciled == nil {
			return initial
		}
		return h.reconciled
	}
}

// restore fills the cache. Read and decode failures count as an empty store.
func (h *helpers) restore(initial any) {
	restored, err := GetStoredState(h.cfg)
	if err != nil {
		plog.Warningf("%s: restore failed, starting from the initial state: %v", BuildKey(h.cfg), err)
		restored = nil
	}
	if h.cfg.Migrate != nil {
		restored = h.cfg.Migrate(restored, h.cfg.CurrentVersion())
	}

	h.reconciled = h.cfg.StateReconciler(restored, initial, initial, h.cfg)
	h.done = true
	plog.Debugf("%s: restored (found: %t)", BuildKey(h.cfg), restored != nil)

	h.persistoid.Rehydrate(h.reconciled)
}

// handleRegister answers the register handshake of PersistStore.
func (h *helpers) handleRegister(action container.Action) {
	if action.Type != ActionRegister {
		return
	}
	if payload, ok := action.Payload.(RegisterPayload); ok && payload.Register != nil {
		payload.Register(h.persistoid)
	}
}

// combinedState builds a keyed state with one lazy view per field of
// initial, so reading one field does not materialize the others. Fields that
// are not persisted are kept as they are, and so are fields that already are
// views. A deferred view is the state of a nested persisted slice: the field
// is registered as nested and left to that slice.
func (h *helpers) combinedState(restore lazy.Supplier, initial any) any {
	fields, isMap := lazy.ValueOf(initial).(map[string]any)
	if !isMap {
		return lazy.New(restore)
	}

	combined := make(map[string]any, len(fields))
	for key, value := range fields {
		switch {
		case isNested(value):
			h.persistoid.SetNested(key)
			combined[key] = value
		case lazy.IsLazy(value), !h.cfg.persisted(key):
			combined[key] = value
		default:
			combined[key] = fieldView(restore, key, value)
		}
	}
	return combined
}

// fieldView reads key from the restored state, falling back to fallback.
func fieldView(restore lazy.Supplier, key string, fallback any) *lazy.View {
	return lazy.Of(func() any {
		if value, ok := container.Field(restore(key), key); ok && value != nil {
			return value
		}
		return fallback
	})
}
