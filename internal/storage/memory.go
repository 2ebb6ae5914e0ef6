package storage

import (
	"sort"
	"strings"
	"sync"
)

// MemoryDB implements DB using an in-memory map.
// Reads may run concurrently; View holds the read lock for the duration
// of the callback so writers wait until the snapshot is released.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string][]byte),
	}
}

// memReader reads the map without locking; the caller holds mu.
type memReader struct {
	data map[string][]byte
}

func (r memReader) Get(key []byte) ([]byte, error) {
	v, ok := r.data[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r memReader) Has(key []byte) (bool, error) {
	_, ok := r.data[string(key)]
	return ok, nil
}

// ForEach visits keys in sorted order to match Badger's iteration order.
func (r memReader) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	p := string(prefix)
	keys := make([]string, 0)
	for k := range r.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := r.data[k]
		val := make([]byte, len(v))
		copy(val, v)
		if err := fn([]byte(k), val); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a value by key.
func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memReader{m.data}.Get(key)
}

// Put stores a key-value pair.
func (m *MemoryDB) Put(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.data[string(key)] = v
	m.mu.Unlock()
	return nil
}

// Delete removes a key.
func (m *MemoryDB) Delete(key []byte) error {
	m.mu.Lock()
	delete(m.data, string(key))
	m.mu.Unlock()
	return nil
}

// Has checks if a key exists.
func (m *MemoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memReader{m.data}.Has(key)
}

// ForEach iterates over all keys with the given prefix.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memReader{m.data}.ForEach(prefix, fn)
}

// View runs fn while holding the read lock.
func (m *MemoryDB) View(fn func(r Reader) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(memReader{m.data})
}

// NewBatch returns a batch applied under a single write lock.
func (m *MemoryDB) NewBatch() Batch {
	return &memoryBatch{db: m}
}

type memoryBatch struct {
	db  *MemoryDB
	ops []batchOp
}

func (mb *memoryBatch) Put(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	mb.ops = append(mb.ops, batchOp{key: append([]byte(nil), key...), value: v})
	return nil
}

func (mb *memoryBatch) Delete(key []byte) error {
	mb.ops = append(mb.ops, batchOp{key: append([]byte(nil), key...)})
	return nil
}

func (mb *memoryBatch) Commit() error {
	mb.db.mu.Lock()
	defer mb.db.mu.Unlock()
	for _, op := range mb.ops {
		if op.value == nil {
			delete(mb.db.data, string(op.key))
		} else {
			mb.db.data[string(op.key)] = op.value
		}
	}
	mb.ops = nil
	return nil
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	return nil
}
