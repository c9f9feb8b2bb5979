/*
Package persist persists slices of a container.Store state tree to a
storage.Storage and restores them lazily.

# Overview

A reducer wrapped with PersistReducer or PersistCombineReducers starts from a
lazy.View instead of its plain initial state. The view is backed by the
restore path:

	read snapshot -> migrate -> reconcile with the initial state -> rehydrate

which runs at most once, on the first read of the view. A slice nobody looks
at is never read from storage. For combined reducers every field has its own
view, so reading one field does not force the others. A nested persisted
reducer keeps its own deferred view and is neither written nor restored by
the enclosing slice.

After every transition that changes the slice, the Persistoid records the new
state and restarts a debounce timer (Config.Delay). Only the last state of a
burst is written.

# Snapshot Format

A slice is stored under "persist:" + Config.Key as a mapping from field name
to the encoded field, next to the reserved "_persist" field:

	{"count":"3","label":"\"clicks\"","_persist":"{\"version\":2,\"rehydrated\":false}"}

Fields are encoded independently with Config.Codec (JSON by default). The
snapshot encoding can be replaced with Serialize/Deserialize and the field
encoding with SerializeField/DeserializeField.

# Usage

	counter, err := persist.PersistReducer(persist.Config{
		Key:     "counter",
		Storage: storage.NewMemory(),
		Version: persist.Versioned(1),
	}, counterReducer)
	if err != nil {
		return err
	}
	store := container.New(counter)
	persistor := persist.PersistStore(store, nil, nil)
	defer persistor.Flush()

# Lifecycle

Persistor.Pause stops writing, Persistor.Persist resumes and writes what is
pending, Persistor.Flush writes immediately and Persistor.Purge removes every
slice from storage. Each also dispatches a marker action (ActionPause, ...)
to the store.
*/
package persist
