// Package storage provides database abstractions.
package storage

import "errors"

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Reader is the read-only view of a key-value store.
type Reader interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
}

// DB is the interface for key-value storage.
type DB interface {
	Reader
	Put(key, value []byte) error
	Delete(key []byte) error
	// View runs fn against a consistent point-in-time snapshot. Writes
	// committed while fn runs are not observed by r. The snapshot is
	// released when fn returns, on every path.
	View(fn func(r Reader) error) error
	Close() error
}

// Batch buffers writes and applies them atomically on Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by databases that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}
