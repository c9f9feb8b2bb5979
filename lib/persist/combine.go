package persist

import (
	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// PersistCombineReducers combines reducers like container.CombineReducers
// and persists the combined state as one slice.
//
// Every field of the initial state is an independent lazy view, so reading
// one field restores the slice but does not materialize the other fields.
// The state of a nested PersistReducer is passed through untouched. That
// slice persists itself, so its field is neither written nor reconciled here
// and reading another field never restores it.
//
// The store sees an outer view of the combined state. It is replaced whenever
// the combined state changes; until then reading it restores the slice on
// first access. StateReconciler defaults to AutoMergeLevel2.
func PersistCombineReducers(cfg Config, reducers map[string]container.Reducer) (container.Reducer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults(AutoMergeCombinedState)
	h := newHelpers(cfg)
	reducer := container.CombineReducers(reducers)

	var (
		inner any
		outer *lazy.View
	)
	getOrCreateInner := func() any {
		if outer == nil {
			initial := reducer(nil, container.Action{Type: actionGetEmptyState})
			restore := h.restoreItem(initial)
			inner = h.combinedState(restore, initial)
			outer = lazy.New(restore)
		}
		return inner
	}

	return func(state any, action container.Action) any {
		h.handleRegister(action)

		if state == nil {
			state = getOrCreateInner()
		}
		if v, isView := state.(*lazy.View); isView && v == outer {
			state = getOrCreateInner()
		}

		next := reducer(state, action)
		if !container.Same(state, next) {
			inner = next
			outer = lazy.Resolved(next)
			h.persistoid.UpdateIfChanged(state, next)
		}
		if outer == nil {
			// preloaded state, the initial views were never built
			inner = next
			outer = lazy.Resolved(next)
		}
		return outer
	}, nil
}
