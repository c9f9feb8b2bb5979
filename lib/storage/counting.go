package storage

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Counting wraps a Storage and counts the operations issued per key.
// It is used by tests and the demo command to observe laziness and write
// coalescing.
type Counting struct {
	backend Storage
	stats   *xsync.MapOf[string, *OpStats]
}

// OpStats holds the operation counters for one key.
type OpStats struct {
	Reads   atomic.Int64
	Writes  atomic.Int64
	Removes atomic.Int64
}

// NewCounting wraps backend.
func NewCounting(backend Storage) *Counting {
	return &Counting{
		backend: backend,
		stats:   xsync.NewMapOf[string, *OpStats](),
	}
}

func (c *Counting) statsFor(key string) *OpStats {
	s, _ := c.stats.LoadOrCompute(key, func() *OpStats { return &OpStats{} })
	return s
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage.Storage)
// --------------------------------------------------------------------------

func (c *Counting) GetItem(key string) (string, bool, error) {
	c.statsFor(key).Reads.Add(1)
	return c.backend.GetItem(key)
}

func (c *Counting) GetItemSync(key string) (string, bool, error) {
	c.statsFor(key).Reads.Add(1)
	if r, ok := c.backend.(SyncReader); ok {
		return r.GetItemSync(key)
	}
	return c.backend.GetItem(key)
}

func (c *Counting) SetItem(key string, value string) error {
	c.statsFor(key).Writes.Add(1)
	return c.backend.SetItem(key, value)
}

func (c *Counting) RemoveItem(key string) error {
	c.statsFor(key).Removes.Add(1)
	return c.backend.RemoveItem(key)
}

func (c *Counting) Keys(prefix string) ([]string, error) {
	if l, ok := c.backend.(Lister); ok {
		return l.Keys(prefix)
	}
	return nil, NewError(RetCUnsupportedOperation, "backend cannot list keys")
}

// --------------------------------------------------------------------------
// Counters
// --------------------------------------------------------------------------

// Reads returns the number of reads issued for key.
func (c *Counting) Reads(key string) int64 {
	return c.statsFor(key).Reads.Load()
}

// Writes returns the number of writes issued for key.
func (c *Counting) Writes(key string) int64 {
	return c.statsFor(key).Writes.Load()
}

// Removes returns the number of removals issued for key.
func (c *Counting) Removes(key string) int64 {
	return c.statsFor(key).Removes.Load()
}

// Backend returns the wrapped storage.
func (c *Counting) Backend() Storage {
	return c.backend
}
