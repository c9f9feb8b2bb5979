package container

import (
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("container")

// ActionInit is dispatched once when a Store is created.
const ActionInit = "@@container/INIT"

// Action describes a state transition request.
type Action struct {
	// Type identifies the action.
	Type string
	// Key optionally scopes the action (e.g. to one persisted slice).
	Key string
	// Payload carries action specific data.
	Payload any
}

// Reducer computes the next state from the current state and an action.
// A nil state means the container is not initialized yet.
type Reducer func(state any, action Action) any

// Dispatcher accepts actions.
type Dispatcher interface {
	Dispatch(action Action)
}

// Store owns one state tree.
//
// Thread-safety: Dispatch and State are safe for concurrent use. Reducers run
// while the store lock is held and must not dispatch synchronously.
type Store struct {
	mu        sync.Mutex
	reducer   Reducer
	state     any
	listeners map[uint64]func()
	nextID    uint64
}

// New creates a store and dispatches ActionInit to compute the initial state.
func New(reducer Reducer) *Store {
	s := &Store{
		reducer:   reducer,
		listeners: make(map[uint64]func()),
	}
	s.Dispatch(Action{Type: ActionInit})
	return s
}

// Dispatch runs the reducer and notifies subscribers once the new state is
// in place.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	plog.Debugf("dispatched %s", action.Type)
	for _, l := range listeners {
		l()
	}
}

// State returns the current state tree.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every dispatch. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
