package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
)

// ErrHeightRegression is returned when the local block count would shrink.
var ErrHeightRegression = errors.New("local block count cannot decrease")

var (
	keyNumBlocks    = []byte("n")
	keyBlockVersion = []byte("v")
)

// Store persists the local block count and block version.
type Store struct {
	db storage.DB
	mu sync.Mutex
}

// NewStore creates a block store over db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

func (s *Store) getUint(key []byte) (uint64, error) {
	data, err := s.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("ledger store: malformed value for %q", key)
	}
	return binary.BigEndian.Uint64(data), nil
}

func (s *Store) putUint(key []byte, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return s.db.Put(key, buf[:])
}

// NumBlocks returns the number of blocks held locally.
func (s *Store) NumBlocks() (uint64, error) {
	return s.getUint(keyNumBlocks)
}

// SetNumBlocks advances the local block count.
func (s *Store) SetNumBlocks(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.getUint(keyNumBlocks)
	if err != nil {
		return err
	}
	if n < cur {
		return fmt.Errorf("%w: %d < %d", ErrHeightRegression, n, cur)
	}
	return s.putUint(keyNumBlocks, n)
}

// BlockVersion returns the last stored block version, zero if unset.
func (s *Store) BlockVersion() (uint32, error) {
	v, err := s.getUint(keyBlockVersion)
	return uint32(v), err
}

// SetBlockVersion records the block version of the latest synced block.
func (s *Store) SetBlockVersion(v uint32) error {
	return s.putUint(keyBlockVersion, uint64(v))
}
