// Package container is a minimal host state container: a single state tree
// owned by a Store, changed only by dispatching actions through a Reducer.
//
// The persistence engine wraps reducers; it does not care how the container
// composes or dispatches them beyond the contract defined here:
//
//   - Reducer(nil, action) returns the reducer's initial state
//   - a reducer returns its input unchanged (same identity) when nothing changed
//   - CombineReducers builds a keyed state from child reducers and returns the
//     previous state object when no child produced a new value
//
// State trees are dynamic (maps, slices, primitives and *lazy.View values).
// Same compares them by identity, never structurally.
package container
