package storage

import (
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is an in-memory Storage backed by a concurrent map.
// It is the default backend for tests and for applications that only need
// persistence for the lifetime of the process.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	data *xsync.MapOf[string, string]
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{data: xsync.NewMapOf[string, string]()}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage.Storage)
// --------------------------------------------------------------------------

func (m *Memory) GetItem(key string) (string, bool, error) {
	value, ok := m.data.Load(key)
	return value, ok, nil
}

func (m *Memory) GetItemSync(key string) (string, bool, error) {
	return m.GetItem(key)
}

func (m *Memory) SetItem(key string, value string) error {
	m.data.Store(key, value)
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.data.Delete(key)
	return nil
}

func (m *Memory) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0)
	m.data.Range(func(key string, _ string) bool {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.data.Size()
}
