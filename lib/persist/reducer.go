package persist

import (
	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// PersistReducer wraps reducer so that its state is restored lazily from
// cfg.Storage and written back after every change.
//
// On the first call (nil state) the declared initial state of reducer is
// wrapped in a lazy view backed by the restore path: storage is read when the
// view is first observed, never before. With cfg.Combined every field of the
// initial state gets its own view instead.
//
// The returned reducer must be used by a single store.
func PersistReducer(cfg Config, reducer container.Reducer) (container.Reducer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults(AutoMergeLevel1)
	h := newHelpers(cfg)

	var initialState any
	created := false
	getOrCreateInitial := func() any {
		if !created {
			initial := reducer(nil, container.Action{Type: actionGetEmptyState})
			if cfg.Combined {
				initialState = h.combinedState(h.restoreItem(initial), initial)
			} else {
				initialState = lazy.New(h.restoreItem(initial))
			}
			created = true
		}
		return initialState
	}

	return func(state any, action container.Action) any {
		h.handleRegister(action)

		if state == nil {
			state = getOrCreateInitial()
		}
		next := reducer(state, action)
		updateIfChanged(h, state, next)
		return next
	}, nil
}

// updateIfChanged schedules a write when next differs from prev. Combined and
// whitelisted states are compared field by field, so a changed container with
// unchanged persisted fields is not written. Any other state is compared by
// identity only, which keeps a whole-state view deferred.
func updateIfChanged(h *helpers, prev, next any) {
	if container.Same(prev, next) {
		return
	}
	if len(h.cfg.Whitelist) > 0 || h.cfg.Combined {
		h.persistoid.UpdateIfChanged(prev, next)
		return
	}
	h.persistoid.Update(next)
}
