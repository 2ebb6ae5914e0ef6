package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDB implements DB using Badger.
type BadgerDB struct {
	db *badger.DB
}

// NewBadger creates a new Badger database at the given path.
func NewBadger(path string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger's built-in logging.

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("database at %s is locked by another process (is another walletd instance running?): %w", path, err)
		}
		return nil, fmt.Errorf("open database at %s: %w", path, err)
	}
	return &BadgerDB{db: db}, nil
}

// NewBadgerInMemory opens a Badger instance that never touches disk.
func NewBadgerInMemory() (*BadgerDB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	return &BadgerDB{db: db}, nil
}

// txnReader serves reads from a single Badger transaction.
type txnReader struct {
	txn *badger.Txn
}

func (r txnReader) Get(key []byte) ([]byte, error) {
	item, err := r.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return val, nil
}

func (r txnReader) Has(key []byte) (bool, error) {
	_, err := r.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger has: %w", err)
	}
	return true, nil
}

func (r txnReader) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := r.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		val, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("badger value: %w", err)
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a value by key. Returns ErrKeyNotFound if the key does not exist.
func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		val, err = txnReader{txn}.Get(key)
		return err
	})
	return val, err
}

// Put stores a key-value pair.
func (b *BadgerDB) Put(key, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

// Delete removes a key.
func (b *BadgerDB) Delete(key []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// Has checks if a key exists.
func (b *BadgerDB) Has(key []byte) (bool, error) {
	var exists bool
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		exists, err = txnReader{txn}.Has(key)
		return err
	})
	return exists, err
}

// ForEach iterates over all keys with the given prefix.
func (b *BadgerDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		return txnReader{txn}.ForEach(prefix, fn)
	})
}

// View runs fn inside a single read-only Badger transaction, which gives
// snapshot isolation for every read fn performs.
func (b *BadgerDB) View(fn func(r Reader) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		return fn(txnReader{txn})
	})
}

// NewBatch returns a batch committed through Badger transactions.
func (b *BadgerDB) NewBatch() Batch {
	return &badgerBatch{db: b.db}
}

type batchOp struct {
	key   []byte
	value []byte // nil means delete
}

type badgerBatch struct {
	db  *badger.DB
	ops []batchOp
}

func (bb *badgerBatch) Put(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	bb.ops = append(bb.ops, batchOp{key: append([]byte(nil), key...), value: v})
	return nil
}

func (bb *badgerBatch) Delete(key []byte) error {
	bb.ops = append(bb.ops, batchOp{key: append([]byte(nil), key...)})
	return nil
}

// Commit applies the queued writes. A batch larger than one Badger
// transaction is split across several; only each chunk is atomic.
func (bb *badgerBatch) Commit() error {
	txn := bb.db.NewTransaction(true)
	defer func() { txn.Discard() }()

	for _, op := range bb.ops {
		err := apply(txn, op)
		if errors.Is(err, badger.ErrTxnTooBig) {
			if err := txn.Commit(); err != nil {
				return fmt.Errorf("badger batch commit: %w", err)
			}
			txn = bb.db.NewTransaction(true)
			err = apply(txn, op)
		}
		if err != nil {
			return fmt.Errorf("badger batch commit: %w", err)
		}
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("badger batch commit: %w", err)
	}
	bb.ops = nil
	return nil
}

func apply(txn *badger.Txn, op batchOp) error {
	if op.value == nil {
		return txn.Delete(op.key)
	}
	return txn.Set(op.key, op.value)
}

// Close closes the database.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}
