package storage

import (
	"database/sql"
	"errors"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLite is a durable Storage keeping every item as one row of a kv table.
// Use ":memory:" for an in-memory database, or a file path for persistent
// storage.
type SQLite struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLite opens (and if needed creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, WrapError(RetCInternalError, "open sqlite database", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, WrapError(RetCInternalError, "initialize schema", err)
	}
	plog.Infof("opened sqlite storage at %s", path)
	return s, nil
}

func (s *SQLite) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage.Storage)
// --------------------------------------------------------------------------

func (s *SQLite) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, NewError(RetCClosed, "sqlite storage is closed")
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, WrapError(RetCInternalError, "query item", err)
	}
	return value, true, nil
}

func (s *SQLite) GetItemSync(key string) (string, bool, error) {
	return s.GetItem(key)
}

func (s *SQLite) SetItem(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewError(RetCClosed, "sqlite storage is closed")
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return WrapError(RetCInternalError, "upsert item", err)
	}
	return nil
}

func (s *SQLite) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewError(RetCClosed, "sqlite storage is closed")
	}

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return WrapError(RetCInternalError, "delete item", err)
	}
	return nil
}

func (s *SQLite) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewError(RetCClosed, "sqlite storage is closed")
	}

	rows, err := s.db.Query(
		"SELECT key FROM kv WHERE substr(key, 1, length(?)) = ? ORDER BY key",
		prefix, prefix,
	)
	if err != nil {
		return nil, WrapError(RetCInternalError, "query keys", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, WrapError(RetCInternalError, "scan key", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(RetCInternalError, "iterate keys", err)
	}
	return keys, nil
}

// Close closes the underlying database. Further calls fail with RetCClosed.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
