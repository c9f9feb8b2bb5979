package persist

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errReadOnly = errors.New("read only")

// readOnlyStorage rejects every write.
type readOnlyStorage struct {
	*storage.Memory
}

func (readOnlyStorage) SetItem(string, string) error { return errReadOnly }

// collector is a container.Dispatcher recording every action.
type collector struct {
	mu      sync.Mutex
	actions []container.Action
}

func (c *collector) Dispatch(action container.Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions = append(c.actions, action)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actions)
}

func TestTimerWriteErrorsAreReported(t *testing.T) {
	var reported []string
	p, err := NewPersistoid(Config{
		Key:     "broken",
		Storage: readOnlyStorage{storage.NewMemory()},
		Delay:   NoDelay,
		OnError: func(key string, err error) {
			assert.ErrorIs(t, err, errReadOnly)
			reported = append(reported, key)
		},
	})
	require.NoError(t, err)

	p.Update(map[string]any{"a": 1.0})
	assert.Equal(t, []string{"broken"}, reported)
}

func TestFlushReturnsStorageErrors(t *testing.T) {
	p, err := NewPersistoid(Config{
		Key:     "broken",
		Storage: readOnlyStorage{storage.NewMemory()},
		Clock:   clockwork.NewFakeClock(),
	})
	require.NoError(t, err)

	p.Update(map[string]any{"a": 1.0})
	err = p.Flush()
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, RetCStorage, perr.Code)
	assert.ErrorIs(t, err, errReadOnly)

	// nothing is pending any more
	assert.NoError(t, p.Flush())
}

func TestUpdateIfChangedComparesRelevantFields(t *testing.T) {
	clock := clockwork.NewFakeClock()
	counting := storage.NewCounting(storage.NewMemory())
	p, err := NewPersistoid(Config{Key: "k", Storage: counting, Clock: clock, Whitelist: []string{"a"}})
	require.NoError(t, err)

	shared := map[string]any{"x": 1.0}
	p.UpdateIfChanged(map[string]any{"a": shared, "b": 1.0}, map[string]any{"a": shared, "b": 2.0})
	require.NoError(t, p.Flush())
	assert.Equal(t, int64(0), counting.Writes("persist:k"))

	p.UpdateIfChanged(map[string]any{"a": shared}, map[string]any{"a": map[string]any{"x": 1.0}})
	require.NoError(t, p.Flush())
	assert.Equal(t, int64(1), counting.Writes("persist:k"))
}

func TestUpdateIfChangedDetectsKeyCountChanges(t *testing.T) {
	counting := storage.NewCounting(storage.NewMemory())
	p, err := NewPersistoid(Config{Key: "k", Storage: counting, Clock: clockwork.NewFakeClock()})
	require.NoError(t, err)

	p.UpdateIfChanged(map[string]any{"a": 1.0}, map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, p.Flush())
	assert.Equal(t, int64(1), counting.Writes("persist:k"))
}

func TestPendingActionsAreBounded(t *testing.T) {
	p, err := NewPersistoid(Config{Key: "k", Storage: storage.NewMemory()})
	require.NoError(t, err)

	for i := 0; i < maxPendingActions+10; i++ {
		p.Dispatch(container.Action{Type: "queued"})
	}

	c := &collector{}
	p.SetStore(c, nil)
	require.Eventually(t, func() bool { return c.len() == maxPendingActions }, time.Second, 5*time.Millisecond)
}

func TestSetStoreOnlyOnce(t *testing.T) {
	p, err := NewPersistoid(Config{Key: "k", Storage: storage.NewMemory()})
	require.NoError(t, err)

	first, second := &collector{}, &collector{}
	p.SetStore(first, nil)
	p.SetStore(second, nil)
	p.Dispatch(container.Action{Type: "ping"})

	require.Eventually(t, func() bool { return first.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, second.len())
}

func TestRehydrateAfterAttachNotifies(t *testing.T) {
	p, err := NewPersistoid(Config{Key: "k", Storage: storage.NewMemory()})
	require.NoError(t, err)

	c := &collector{}
	notified := make(chan RehydratePayload, 1)
	p.SetStore(c, func(payload RehydratePayload) { notified <- payload })
	p.Rehydrate(map[string]any{"a": 1.0})

	select {
	case payload := <-notified:
		assert.Equal(t, "k", payload.Key)
	case <-time.After(time.Second):
		t.Fatal("onRehydrate was not called")
	}
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.IsRestored())
}

func TestNonMappingStateFailsTheWrite(t *testing.T) {
	mem := storage.NewMemory()
	var reported []error
	p, err := NewPersistoid(Config{
		Key:     "scalar",
		Storage: mem,
		Delay:   NoDelay,
		OnError: func(_ string, err error) { reported = append(reported, err) },
	})
	require.NoError(t, err)

	p.Update(42.0)
	require.Len(t, reported, 1)
	var perr *Error
	require.ErrorAs(t, reported[0], &perr)
	assert.Equal(t, RetCSerialize, perr.Code)
	assert.Equal(t, uint64(1), counter("write_errors", "scalar").Get())

	_, ok, err := mem.GetItem("persist:scalar")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNestedFieldsAreNeitherWrittenNorCompared(t *testing.T) {
	counting := storage.NewCounting(storage.NewMemory())
	p, err := NewPersistoid(Config{Key: "outer", Storage: counting, Clock: clockwork.NewFakeClock()})
	require.NoError(t, err)
	p.SetNested("inner")

	p.UpdateIfChanged(
		map[string]any{"a": 1.0, "inner": map[string]any{"x": 1.0}},
		map[string]any{"a": 1.0, "inner": map[string]any{"x": 2.0}},
	)
	require.NoError(t, p.Flush())
	assert.Equal(t, int64(0), counting.Writes("persist:outer"))

	p.Update(map[string]any{"a": 2.0, "inner": map[string]any{"x": 2.0}})
	require.NoError(t, p.Flush())
	raw := stored(t, counting, "outer")
	assert.Equal(t, "2", raw["a"])
	assert.NotContains(t, raw, "inner")
}
