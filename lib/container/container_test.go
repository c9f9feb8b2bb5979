package container

import (
	"testing"

	"github.com/ValentinKolb/dPersist/lib/lazy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterReducer(state any, action Action) any {
	switch action.Type {
	case "inc":
		return lazy.ToNumber(state) + 1
	default:
		if state == nil {
			return 0.0
		}
		return state
	}
}

func nameReducer(state any, action Action) any {
	switch action.Type {
	case "rename":
		return action.Payload
	default:
		if state == nil {
			return "anon"
		}
		return state
	}
}

func TestStoreInitializesAndDispatches(t *testing.T) {
	store := New(counterReducer)
	assert.Equal(t, 0.0, store.State())

	notified := 0
	unsubscribe := store.Subscribe(func() { notified++ })
	store.Dispatch(Action{Type: "inc"})
	store.Dispatch(Action{Type: "inc"})
	assert.Equal(t, 2.0, store.State())
	assert.Equal(t, 2, notified)

	unsubscribe()
	store.Dispatch(Action{Type: "inc"})
	assert.Equal(t, 2, notified)
}

func TestCombineReducersKeepsIdentityWhenUnchanged(t *testing.T) {
	reducer := CombineReducers(map[string]Reducer{
		"count": counterReducer,
		"name":  nameReducer,
	})

	initial := reducer(nil, Action{Type: ActionInit})
	assert.Equal(t, map[string]any{"count": 0.0, "name": "anon"}, initial)

	same := reducer(initial, Action{Type: "noop"})
	assert.True(t, Same(initial, same))

	next := reducer(initial, Action{Type: "rename", Payload: "ada"})
	assert.False(t, Same(initial, next))
	assert.Equal(t, "ada", next.(map[string]any)["name"])
}

func TestCombineReducersKeepsLazyFieldsDeferred(t *testing.T) {
	calls := 0
	view := lazy.Of(func() any {
		calls++
		return 5.0
	})
	reducer := CombineReducers(map[string]Reducer{
		"count": counterReducer,
		"name":  nameReducer,
	})

	state := map[string]any{"count": view, "name": "anon"}
	next := reducer(state, Action{Type: "rename", Payload: "bob"})
	assert.Equal(t, 0, calls)
	assert.Same(t, view, next.(map[string]any)["count"])

	next = reducer(next, Action{Type: "inc"})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 6.0, next.(map[string]any)["count"])
}

func TestFieldAndFields(t *testing.T) {
	view := lazy.Of(func() any { return map[string]any{"b": 1.0, "a": 2.0} })
	value, ok := Field(view, "a")
	require.True(t, ok)
	assert.Equal(t, 2.0, value)
	assert.Equal(t, []string{"a", "b"}, Fields(view))
	assert.Equal(t, []string{"x"}, Fields(map[string]any{"x": nil}))

	_, ok = Field(42.0, "a")
	assert.False(t, ok)
	assert.Nil(t, Fields(nil))
}

func TestTypedMapsAreKeyed(t *testing.T) {
	type label string
	counts := map[string]int{"b": 2, "a": 1}

	value, ok := Field(counts, "a")
	require.True(t, ok)
	assert.Equal(t, 1, value)
	_, ok = Field(counts, "missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, Fields(counts))

	named := map[label]string{"x": "y"}
	value, ok = Field(named, "x")
	require.True(t, ok)
	assert.Equal(t, "y", value)

	assert.True(t, Keyed(counts))
	assert.True(t, Keyed(lazy.Resolved(named)))
	assert.True(t, Keyed(map[string]any{}))
	assert.False(t, Keyed(map[int]string{1: "a"}))
	assert.False(t, Keyed(struct{ A int }{1}))
	assert.False(t, Keyed(nil))
	assert.Empty(t, Fields(map[int]string{1: "a"}))
}

func TestSame(t *testing.T) {
	m := map[string]any{"a": 1.0}
	s := []any{1.0}
	v := lazy.Resolved(1.0)

	assert.True(t, Same(nil, nil))
	assert.False(t, Same(nil, m))
	assert.True(t, Same(m, m))
	assert.False(t, Same(m, map[string]any{"a": 1.0}))
	assert.True(t, Same(s, s))
	assert.False(t, Same(s, []any{1.0}))
	assert.True(t, Same(v, v))
	assert.False(t, Same(v, lazy.Resolved(1.0)))
	assert.True(t, Same(1.0, 1.0))
	assert.False(t, Same(1.0, 1))
	assert.True(t, Same("x", "x"))
}
