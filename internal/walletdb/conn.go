package walletdb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Conn reads from a single consistent view of the wallet store.
type Conn struct {
	r storage.Reader
}

func getJSON[T any](r storage.Reader, key []byte, notFound error) (*T, error) {
	data, err := r.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("walletdb get: %w", err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("walletdb unmarshal: %w", err)
	}
	return &v, nil
}

func forEachJSON[T any](r storage.Reader, prefix []byte, fn func(*T) error) error {
	return r.ForEach(prefix, func(_, value []byte) error {
		var v T
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("walletdb unmarshal: %w", err)
		}
		return fn(&v)
	})
}

func listJSON[T any](r storage.Reader, prefix []byte) ([]*T, error) {
	var out []*T
	err := forEachJSON(r, prefix, func(v *T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// GetAccount returns a spend-capable account.
func (c *Conn) GetAccount(id types.AccountID) (*Account, error) {
	return getJSON[Account](c.r, idKey(prefixAccount, id), ErrAccountNotFound)
}

// ListAccounts returns all spend-capable accounts ordered by id.
func (c *Conn) ListAccounts() ([]*Account, error) {
	return listJSON[Account](c.r, prefixAccount)
}

// GetViewOnlyAccount returns a view-only account.
func (c *Conn) GetViewOnlyAccount(id types.AccountID) (*ViewOnlyAccount, error) {
	return getJSON[ViewOnlyAccount](c.r, idKey(prefixViewOnly, id), ErrViewOnlyAccountNotFound)
}

// ListViewOnlyAccounts returns all view-only accounts ordered by id.
func (c *Conn) ListViewOnlyAccounts() ([]*ViewOnlyAccount, error) {
	return listJSON[ViewOnlyAccount](c.r, prefixViewOnly)
}

// ListSubaddresses returns an account's assigned subaddresses by index.
func (c *Conn) ListSubaddresses(id types.AccountID) ([]*Subaddress, error) {
	return listJSON[Subaddress](c.r, idKey(prefixSubaddress, id))
}

// ListViewOnlySubaddresses returns a view-only account's subaddresses by index.
func (c *Conn) ListViewOnlySubaddresses(id types.AccountID) ([]*Subaddress, error) {
	return listJSON[Subaddress](c.r, idKey(prefixViewOnlySub, id))
}

// LookupAddress resolves a base58 address assigned to a spend-capable account.
func (c *Conn) LookupAddress(b58 string) (*Subaddress, error) {
	return c.lookup(prefixAddress, prefixSubaddress, b58)
}

// LookupViewOnlyAddress resolves a base58 address assigned to a view-only account.
func (c *Conn) LookupViewOnlyAddress(b58 string) (*Subaddress, error) {
	return c.lookup(prefixViewOnlyAddress, prefixViewOnlySub, b58)
}

func (c *Conn) lookup(indexPrefix, subPrefix []byte, b58 string) (*Subaddress, error) {
	ref, err := c.r.Get(addressKey(indexPrefix, b58))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, ErrSubaddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("walletdb address index: %w", err)
	}
	id, index, ok := parseAddressRef(ref)
	if !ok {
		return nil, fmt.Errorf("walletdb address index: malformed entry for %s", b58)
	}
	return getJSON[Subaddress](c.r, subKey(subPrefix, id, index), ErrSubaddressNotFound)
}

// TrackedSubaddresses returns the set of indexes assigned to an account.
func (c *Conn) TrackedSubaddresses(id types.AccountID) (txo.Subaddresses, error) {
	return c.tracked(prefixSubaddress, id)
}

// TrackedViewOnlySubaddresses returns the set of indexes imported for a
// view-only account.
func (c *Conn) TrackedViewOnlySubaddresses(id types.AccountID) (txo.Subaddresses, error) {
	return c.tracked(prefixViewOnlySub, id)
}

func (c *Conn) tracked(prefix []byte, id types.AccountID) (txo.Subaddresses, error) {
	set := txo.NewSubaddresses()
	err := forEachJSON(c.r, idKey(prefix, id), func(s *Subaddress) error {
		set[s.Index] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ListTxos returns every output tracked by an account.
func (c *Conn) ListTxos(id types.AccountID) ([]*Txo, error) {
	return listJSON[Txo](c.r, idKey(prefixTxo, id))
}

// ListViewOnlyTxos returns every output observed by a view-only account.
func (c *Conn) ListViewOnlyTxos(id types.AccountID) ([]*ViewOnlyTxo, error) {
	return listJSON[ViewOnlyTxo](c.r, idKey(prefixViewOnlyTxo, id))
}
