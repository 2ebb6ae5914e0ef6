package walletdb

import (
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// ClassifiedTxo is a stored output with its lifecycle state at one
// depth and local height.
type ClassifiedTxo struct {
	*Txo
	Status txo.Status `json:"status"`
}

// ClassifiedViewOnlyTxo is ClassifiedTxo for view-only outputs.
type ClassifiedViewOnlyTxo struct {
	*ViewOnlyTxo
	Status txo.Status `json:"status"`
}

type recorder interface {
	Record() txo.Record
}

// classify runs every item through the classifier in storage order. A
// non-nil subaddress skips outputs received anywhere else.
func classify[T recorder](items []T, ctx txo.Context, subaddress *uint64, keep func(T, txo.Status)) error {
	for _, item := range items {
		rec := item.Record()
		if subaddress != nil && (rec.SubaddressIndex == nil || *rec.SubaddressIndex != *subaddress) {
			continue
		}
		status, err := txo.Classify(rec, ctx)
		if err != nil {
			return err
		}
		keep(item, status)
	}
	return nil
}

// scope resolves the account, the optional address and the tracked set
// a query classifies against.
func (c *Conn) scope(id types.AccountID, address string, viewOnly bool, depth, localHeight uint64) (*uint64, txo.Context, error) {
	var (
		lookup  func(string) (*Subaddress, error)
		tracked func(types.AccountID) (txo.Subaddresses, error)
		err     error
	)
	if viewOnly {
		_, err = c.GetViewOnlyAccount(id)
		lookup, tracked = c.LookupViewOnlyAddress, c.TrackedViewOnlySubaddresses
	} else {
		_, err = c.GetAccount(id)
		lookup, tracked = c.LookupAddress, c.TrackedSubaddresses
	}
	if err != nil {
		return nil, txo.Context{}, err
	}
	sub, err := c.scopeAddress(lookup, id, address)
	if err != nil {
		return nil, txo.Context{}, err
	}
	set, err := tracked(id)
	if err != nil {
		return nil, txo.Context{}, err
	}
	return sub, txo.Context{Tracked: set, LocalHeight: localHeight, Depth: depth}, nil
}

// ClassifyTxos returns an account's outputs with their states. A
// non-empty address restricts the result to that subaddress.
func (c *Conn) ClassifyTxos(id types.AccountID, address string, depth, localHeight uint64) ([]ClassifiedTxo, error) {
	sub, ctx, err := c.scope(id, address, false, depth, localHeight)
	if err != nil {
		return nil, err
	}
	items, err := c.ListTxos(id)
	if err != nil {
		return nil, err
	}
	out := make([]ClassifiedTxo, 0, len(items))
	err = classify(items, ctx, sub, func(t *Txo, s txo.Status) {
		out = append(out, ClassifiedTxo{Txo: t, Status: s})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClassifyViewOnlyTxos is ClassifyTxos for view-only accounts.
func (c *Conn) ClassifyViewOnlyTxos(id types.AccountID, address string, depth, localHeight uint64) ([]ClassifiedViewOnlyTxo, error) {
	sub, ctx, err := c.scope(id, address, true, depth, localHeight)
	if err != nil {
		return nil, err
	}
	items, err := c.ListViewOnlyTxos(id)
	if err != nil {
		return nil, err
	}
	out := make([]ClassifiedViewOnlyTxo, 0, len(items))
	err = classify(items, ctx, sub, func(t *ViewOnlyTxo, s txo.Status) {
		out = append(out, ClassifiedViewOnlyTxo{ViewOnlyTxo: t, Status: s})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListTxosByStatus returns an account's outputs in one lifecycle state.
// A non-empty address restricts the result to that subaddress, in which
// case the account-scoped states are always empty.
func (c *Conn) ListTxosByStatus(id types.AccountID, address string, status txo.Status, depth, localHeight uint64) ([]*Txo, error) {
	all, err := c.ClassifyTxos(id, address, depth, localHeight)
	if err != nil {
		return nil, err
	}
	if address != "" && status.AccountScoped() {
		return nil, nil
	}
	var out []*Txo
	for _, o := range all {
		if o.Status == status {
			out = append(out, o.Txo)
		}
	}
	return out, nil
}

// ListViewOnlyTxosByStatus is ListTxosByStatus for view-only accounts.
func (c *Conn) ListViewOnlyTxosByStatus(id types.AccountID, address string, status txo.Status, depth, localHeight uint64) ([]*ViewOnlyTxo, error) {
	all, err := c.ClassifyViewOnlyTxos(id, address, depth, localHeight)
	if err != nil {
		return nil, err
	}
	if address != "" && status.AccountScoped() {
		return nil, nil
	}
	var out []*ViewOnlyTxo
	for _, o := range all {
		if o.Status == status {
			out = append(out, o.ViewOnlyTxo)
		}
	}
	return out, nil
}

// scopeAddress resolves address to a subaddress index of account id.
// An empty address means the whole account.
func (c *Conn) scopeAddress(lookup func(string) (*Subaddress, error), id types.AccountID, address string) (*uint64, error) {
	if address == "" {
		return nil, nil
	}
	sub, err := lookup(address)
	if err != nil {
		return nil, err
	}
	if sub.AccountID != id {
		return nil, ErrSubaddressNotFound
	}
	return &sub.Index, nil
}

// ListUnspent returns unspent outputs of an account or one of its addresses.
func (c *Conn) ListUnspent(id types.AccountID, address string, depth, localHeight uint64) ([]*Txo, error) {
	return c.ListTxosByStatus(id, address, txo.StatusUnspent, depth, localHeight)
}

// ListPending returns outputs whose spend is not yet final.
func (c *Conn) ListPending(id types.AccountID, address string, depth, localHeight uint64) ([]*Txo, error) {
	return c.ListTxosByStatus(id, address, txo.StatusPending, depth, localHeight)
}

// ListSpent returns outputs spent at or below localHeight - depth.
func (c *Conn) ListSpent(id types.AccountID, address string, depth, localHeight uint64) ([]*Txo, error) {
	return c.ListTxosByStatus(id, address, txo.StatusSpent, depth, localHeight)
}

// ListSecreted returns outputs the account minted that never came back.
func (c *Conn) ListSecreted(id types.AccountID, depth, localHeight uint64) ([]*Txo, error) {
	return c.ListTxosByStatus(id, "", txo.StatusSecreted, depth, localHeight)
}

// ListOrphaned returns outputs received at untracked subaddresses.
func (c *Conn) ListOrphaned(id types.AccountID, depth, localHeight uint64) ([]*Txo, error) {
	return c.ListTxosByStatus(id, "", txo.StatusOrphaned, depth, localHeight)
}

// ListViewOnlyUnspent returns unspent outputs of a view-only account or address.
func (c *Conn) ListViewOnlyUnspent(id types.AccountID, address string, depth, localHeight uint64) ([]*ViewOnlyTxo, error) {
	return c.ListViewOnlyTxosByStatus(id, address, txo.StatusUnspent, depth, localHeight)
}

// ListViewOnlyPending returns view-only outputs whose spend is not yet final.
func (c *Conn) ListViewOnlyPending(id types.AccountID, address string, depth, localHeight uint64) ([]*ViewOnlyTxo, error) {
	return c.ListViewOnlyTxosByStatus(id, address, txo.StatusPending, depth, localHeight)
}

// ListViewOnlySpent returns view-only outputs spent at or below localHeight - depth.
func (c *Conn) ListViewOnlySpent(id types.AccountID, address string, depth, localHeight uint64) ([]*ViewOnlyTxo, error) {
	return c.ListViewOnlyTxosByStatus(id, address, txo.StatusSpent, depth, localHeight)
}

// ListViewOnlyOrphaned returns view-only outputs at unimported subaddresses.
func (c *Conn) ListViewOnlyOrphaned(id types.AccountID, depth, localHeight uint64) ([]*ViewOnlyTxo, error) {
	return c.ListViewOnlyTxosByStatus(id, "", txo.StatusOrphaned, depth, localHeight)
}
