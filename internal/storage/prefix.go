package storage

// PrefixDB wraps a DB and prepends a fixed prefix to all keys.
// This isolates the wallet and ledger namespaces within a single
// underlying database.
type PrefixDB struct {
	inner  DB
	prefix []byte
}

// NewPrefixDB creates a new PrefixDB wrapping inner with the given prefix.
func NewPrefixDB(inner DB, prefix []byte) *PrefixDB {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &PrefixDB{inner: inner, prefix: p}
}

// prefixed returns key with the prefix prepended.
func prefixed(prefix, key []byte) []byte {
	out := make([]byte, len(prefix)+len(key))
	copy(out, prefix)
	copy(out[len(prefix):], key)
	return out
}

// prefixReader applies the namespace prefix to a Reader.
type prefixReader struct {
	inner  Reader
	prefix []byte
}

func (r prefixReader) Get(key []byte) ([]byte, error) {
	return r.inner.Get(prefixed(r.prefix, key))
}

func (r prefixReader) Has(key []byte) (bool, error) {
	return r.inner.Has(prefixed(r.prefix, key))
}

// ForEach strips the namespace prefix so the caller sees only its
// logical keyspace.
func (r prefixReader) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	n := len(r.prefix)
	return r.inner.ForEach(prefixed(r.prefix, prefix), func(key, value []byte) error {
		return fn(key[n:], value)
	})
}

func (p *PrefixDB) reader() prefixReader {
	return prefixReader{inner: p.inner, prefix: p.prefix}
}

// Get retrieves a value by key.
func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.reader().Get(key)
}

// Put stores a key-value pair.
func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(prefixed(p.prefix, key), value)
}

// Delete removes a key.
func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(prefixed(p.prefix, key))
}

// Has checks if a key exists.
func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.reader().Has(key)
}

// ForEach iterates over all keys with the given prefix (within the PrefixDB namespace).
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return p.reader().ForEach(prefix, fn)
}

// View opens a snapshot on the inner DB and scopes it to this namespace.
func (p *PrefixDB) View(fn func(r Reader) error) error {
	return p.inner.View(func(r Reader) error {
		return fn(prefixReader{inner: r, prefix: p.prefix})
	})
}

// DeleteAll removes all keys under this PrefixDB's namespace from the inner DB.
func (p *PrefixDB) DeleteAll() error {
	// Collect all keys first to avoid modifying during iteration.
	var keys [][]byte
	err := p.inner.ForEach(p.prefix, func(key, _ []byte) error {
		k := make([]byte, len(key))
		copy(k, key)
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := p.inner.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op. The outer DB owns its lifecycle.
func (p *PrefixDB) Close() error {
	return nil
}

// NewBatch creates a batch that prepends the prefix to all keys, delegating
// to the inner DB's batch for atomic commits.
func (p *PrefixDB) NewBatch() Batch {
	return &prefixBatch{inner: NewBatch(p.inner), prefix: p.prefix}
}

type prefixBatch struct {
	inner  Batch
	prefix []byte
}

func (pb *prefixBatch) Put(key, value []byte) error {
	return pb.inner.Put(prefixed(pb.prefix, key), value)
}

func (pb *prefixBatch) Delete(key []byte) error {
	return pb.inner.Delete(prefixed(pb.prefix, key))
}

func (pb *prefixBatch) Commit() error {
	return pb.inner.Commit()
}

// NewBatch returns db's native batch, or a buffered fallback that applies
// writes one by one when db has no atomic batch support.
func NewBatch(db DB) Batch {
	if batcher, ok := db.(Batcher); ok {
		return batcher.NewBatch()
	}
	return &fallbackBatch{db: db}
}

// fallbackBatch buffers writes and applies them non-atomically.
type fallbackBatch struct {
	db  DB
	ops []batchOp
}

func (fb *fallbackBatch) Put(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	fb.ops = append(fb.ops, batchOp{key: append([]byte(nil), key...), value: v})
	return nil
}

func (fb *fallbackBatch) Delete(key []byte) error {
	fb.ops = append(fb.ops, batchOp{key: append([]byte(nil), key...)})
	return nil
}

func (fb *fallbackBatch) Commit() error {
	for _, op := range fb.ops {
		if op.value == nil {
			if err := fb.db.Delete(op.key); err != nil {
				return err
			}
		} else {
			if err := fb.db.Put(op.key, op.value); err != nil {
				return err
			}
		}
	}
	fb.ops = nil
	return nil
}
