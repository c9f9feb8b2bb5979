// Package storage defines the key-value contract the persistence engine
// writes snapshots to, together with the backends shipped with dPersist.
//
// The package focuses on:
//   - A minimal text key-value interface (Storage) that any backend can satisfy
//   - Optional capabilities discovered by type assertion (SyncReader, Lister)
//   - Unified error reporting with typed return codes
//
// Key Components:
//
//   - Storage Interface: GetItem, SetItem and RemoveItem. Failures are reported
//     as *Error values carrying a RetCode, so callers can branch on the kind of
//     failure instead of matching messages.
//
//   - SyncReader: implemented by backends that may answer reads asynchronously
//     but also provide a blocking accessor. The restore path of the engine
//     prefers it.
//
// Implementations:
//
//   - Memory: a concurrent in-memory map (xsync.MapOf). Suitable for tests and
//     process-lifetime persistence.
//
//   - SQLite: a durable single-table backend built on the pure Go
//     modernc.org/sqlite driver.
//
//   - Async: a write-behind queue in front of any backend. Writes return once
//     queued, a single worker applies them in order, and reads are ordered
//     behind the writes issued before them.
//
//   - Counting: a decorator counting reads, writes and removals per key.
package storage
