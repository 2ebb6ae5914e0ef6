package walletdb

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Store is the wallet database. Reads go through View snapshots; writes
// are serialized and each one commits as a single batch.
type Store struct {
	db storage.DB
	mu sync.Mutex
}

// New creates a wallet store backed by db.
func New(db storage.DB) *Store {
	return &Store{db: db}
}

// View runs fn against a point-in-time snapshot of the store. The
// snapshot is released when fn returns.
func (s *Store) View(fn func(c *Conn) error) error {
	return s.db.View(func(r storage.Reader) error {
		return fn(&Conn{r: r})
	})
}

// update runs fn with a reader over committed state and a batch that is
// committed only when fn succeeds.
func (s *Store) update(fn func(c *Conn, b storage.Batch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := storage.NewBatch(s.db)
	if err := fn(&Conn{r: s.db}, b); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("walletdb commit: %w", err)
	}
	return nil
}

func putJSON(b storage.Batch, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("walletdb marshal: %w", err)
	}
	return b.Put(key, data)
}

// identityFree fails when id is already used by either account kind.
func (c *Conn) identityFree(id types.AccountID) error {
	for _, prefix := range [][]byte{prefixAccount, prefixViewOnly} {
		ok, err := c.r.Has(idKey(prefix, id))
		if err != nil {
			return fmt.Errorf("walletdb has: %w", err)
		}
		if ok {
			return fmt.Errorf("%w: %s", ErrAccountExists, id)
		}
	}
	return nil
}

// addressFree fails when b58 is assigned to any account.
func (c *Conn) addressFree(b58 string) error {
	for _, prefix := range [][]byte{prefixAddress, prefixViewOnlyAddress} {
		ok, err := c.r.Has(addressKey(prefix, b58))
		if err != nil {
			return fmt.Errorf("walletdb has: %w", err)
		}
		if ok {
			return fmt.Errorf("%w: %s", ErrAddressExists, b58)
		}
	}
	return nil
}

// validKeys rejects keys that would not decode when the record is read
// back.
func validKeys(field string, keys ...types.PublicKey) error {
	for _, k := range keys {
		if _, err := types.ParsePublicKey(k[:]); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidKey, field, err)
		}
	}
	return nil
}

func putSubaddresses(c *Conn, b storage.Batch, subPrefix, addrPrefix []byte, id types.AccountID, subs []*Subaddress) error {
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if err := validKeys(fmt.Sprintf("subaddress %d spend key", sub.Index), sub.SpendPublicKey); err != nil {
			return err
		}
		if _, dup := seen[sub.Address]; dup {
			return fmt.Errorf("%w: %s", ErrAddressExists, sub.Address)
		}
		seen[sub.Address] = struct{}{}
		if err := c.addressFree(sub.Address); err != nil {
			return err
		}
		sub.AccountID = id
		if err := putJSON(b, subKey(subPrefix, id, sub.Index), sub); err != nil {
			return err
		}
		if err := b.Put(addressKey(addrPrefix, sub.Address), addressRef(id, sub.Index)); err != nil {
			return err
		}
	}
	return nil
}

// nextIndexAfter returns the smallest index above every index in subs,
// or current when that is larger.
func nextIndexAfter(current uint64, subs []*Subaddress) uint64 {
	for _, sub := range subs {
		if sub.Index >= current {
			current = sub.Index + 1
		}
	}
	return current
}

// CreateAccount stores a new spend-capable account with its initial
// subaddresses.
func (s *Store) CreateAccount(a *Account, subs []*Subaddress) error {
	if err := validKeys("account keys", a.ViewPublicKey, a.SpendPublicKey); err != nil {
		return err
	}
	return s.update(func(c *Conn, b storage.Batch) error {
		if err := c.identityFree(a.ID); err != nil {
			return err
		}
		if err := putSubaddresses(c, b, prefixSubaddress, prefixAddress, a.ID, subs); err != nil {
			return err
		}
		a.NextSubaddressIndex = nextIndexAfter(a.NextSubaddressIndex, subs)
		if a.NextBlockIndex < a.FirstBlockIndex {
			a.NextBlockIndex = a.FirstBlockIndex
		}
		return putJSON(b, idKey(prefixAccount, a.ID), a)
	})
}

// CreateViewOnlyAccount stores a new view-only account with its initial
// subaddresses.
func (s *Store) CreateViewOnlyAccount(a *ViewOnlyAccount, subs []*Subaddress) error {
	if err := validKeys("view key", a.ViewPublicKey); err != nil {
		return err
	}
	return s.update(func(c *Conn, b storage.Batch) error {
		if err := c.identityFree(a.ID); err != nil {
			return err
		}
		if err := putSubaddresses(c, b, prefixViewOnlySub, prefixViewOnlyAddress, a.ID, subs); err != nil {
			return err
		}
		a.NextSubaddressIndex = nextIndexAfter(a.NextSubaddressIndex, subs)
		if a.NextBlockIndex < a.FirstBlockIndex {
			a.NextBlockIndex = a.FirstBlockIndex
		}
		return putJSON(b, idKey(prefixViewOnly, a.ID), a)
	})
}

// AssignSubaddress reserves the account's next subaddress index, builds
// the subaddress for it with derive and stores both atomically.
func (s *Store) AssignSubaddress(id types.AccountID, comment string, derive func(a *Account, index uint64) (*Subaddress, error)) (*Subaddress, error) {
	var assigned *Subaddress
	err := s.update(func(c *Conn, b storage.Batch) error {
		a, err := c.GetAccount(id)
		if err != nil {
			return err
		}
		sub, err := derive(a, a.NextSubaddressIndex)
		if err != nil {
			return err
		}
		sub.Index = a.NextSubaddressIndex
		sub.Comment = comment
		if err := putSubaddresses(c, b, prefixSubaddress, prefixAddress, id, []*Subaddress{sub}); err != nil {
			return err
		}
		a.NextSubaddressIndex++
		assigned = sub
		return putJSON(b, idKey(prefixAccount, id), a)
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// ImportViewOnlySubaddresses adds externally derived subaddresses to a
// view-only account.
func (s *Store) ImportViewOnlySubaddresses(id types.AccountID, subs []*Subaddress) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		a, err := c.GetViewOnlyAccount(id)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			ok, err := c.r.Has(subKey(prefixViewOnlySub, id, sub.Index))
			if err != nil {
				return fmt.Errorf("walletdb has: %w", err)
			}
			if ok {
				return fmt.Errorf("%w: index %d", ErrAddressExists, sub.Index)
			}
		}
		if err := putSubaddresses(c, b, prefixViewOnlySub, prefixViewOnlyAddress, id, subs); err != nil {
			return err
		}
		a.NextSubaddressIndex = nextIndexAfter(a.NextSubaddressIndex, subs)
		return putJSON(b, idKey(prefixViewOnly, id), a)
	})
}

// PutTxo inserts or replaces an output of a spend-capable account.
func (s *Store) PutTxo(t *Txo) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		if _, err := c.GetAccount(t.AccountID); err != nil {
			return fmt.Errorf("%w: %w", ErrTxoAccount, err)
		}
		return putJSON(b, txoKey(prefixTxo, t.AccountID, t.ID), t)
	})
}

// PutViewOnlyTxo inserts or replaces an output of a view-only account.
func (s *Store) PutViewOnlyTxo(t *ViewOnlyTxo) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		if _, err := c.GetViewOnlyAccount(t.AccountID); err != nil {
			return fmt.Errorf("%w: %w", ErrTxoAccount, err)
		}
		return putJSON(b, txoKey(prefixViewOnlyTxo, t.AccountID, t.ID), t)
	})
}

// SetNextBlockIndex advances an account's sync cursor.
func (s *Store) SetNextBlockIndex(id types.AccountID, next uint64) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		a, err := c.GetAccount(id)
		if err != nil {
			return err
		}
		if next < a.NextBlockIndex {
			return fmt.Errorf("%w: %d < %d", ErrCursorRegression, next, a.NextBlockIndex)
		}
		a.NextBlockIndex = next
		return putJSON(b, idKey(prefixAccount, id), a)
	})
}

// SetViewOnlyNextBlockIndex advances a view-only account's sync cursor.
func (s *Store) SetViewOnlyNextBlockIndex(id types.AccountID, next uint64) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		a, err := c.GetViewOnlyAccount(id)
		if err != nil {
			return err
		}
		if next < a.NextBlockIndex {
			return fmt.Errorf("%w: %d < %d", ErrCursorRegression, next, a.NextBlockIndex)
		}
		a.NextBlockIndex = next
		return putJSON(b, idKey(prefixViewOnly, id), a)
	})
}

// deleteAll queues deletion of every key under prefix.
func deleteAll(c *Conn, b storage.Batch, prefix []byte) error {
	return c.r.ForEach(prefix, func(key, _ []byte) error {
		return b.Delete(key)
	})
}

func deleteSubaddresses(c *Conn, b storage.Batch, subPrefix, addrPrefix []byte, id types.AccountID) error {
	return forEachJSON(c.r, idKey(subPrefix, id), func(sub *Subaddress) error {
		if err := b.Delete(addressKey(addrPrefix, sub.Address)); err != nil {
			return err
		}
		return b.Delete(subKey(subPrefix, id, sub.Index))
	})
}

// RemoveAccount deletes an account with its subaddresses and outputs.
func (s *Store) RemoveAccount(id types.AccountID) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		if _, err := c.GetAccount(id); err != nil {
			return err
		}
		if err := deleteSubaddresses(c, b, prefixSubaddress, prefixAddress, id); err != nil {
			return err
		}
		if err := deleteAll(c, b, idKey(prefixTxo, id)); err != nil {
			return err
		}
		return b.Delete(idKey(prefixAccount, id))
	})
}

// RemoveViewOnlyAccount deletes a view-only account with its
// subaddresses and outputs.
func (s *Store) RemoveViewOnlyAccount(id types.AccountID) error {
	return s.update(func(c *Conn, b storage.Batch) error {
		if _, err := c.GetViewOnlyAccount(id); err != nil {
			return err
		}
		if err := deleteSubaddresses(c, b, prefixViewOnlySub, prefixViewOnlyAddress, id); err != nil {
			return err
		}
		if err := deleteAll(c, b, idKey(prefixViewOnlyTxo, id)); err != nil {
			return err
		}
		return b.Delete(idKey(prefixViewOnly, id))
	})
}
