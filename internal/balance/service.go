// Package balance aggregates classified outputs into per-account,
// per-address and wallet-wide balances.
package balance

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"lukechampine.com/uint128"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/ledger"
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// DefaultMaxInputs is the input count limit of a single transaction.
const DefaultMaxInputs = 16

// Service answers balance and status queries. It holds no mutable state;
// every call reads one snapshot of the wallet store.
type Service struct {
	db        *walletdb.Store
	oracle    ledger.Oracle
	maxInputs int
	logger    zerolog.Logger
}

// NewService creates a balance service. maxInputs <= 0 selects
// DefaultMaxInputs.
func NewService(db *walletdb.Store, oracle ledger.Oracle, maxInputs int) *Service {
	if maxInputs <= 0 {
		maxInputs = DefaultMaxInputs
	}
	return &Service{
		db:        db,
		oracle:    oracle,
		maxInputs: maxInputs,
		logger:    klog.WithComponent("balance"),
	}
}

// heights reads the network and local block counts. Only a missing
// network height is LedgerUnavailable; the local count is a store read.
func (s *Service) heights(ctx context.Context) (network, local uint64, err error) {
	network, err = s.oracle.NetworkBlockCount(ctx)
	if err != nil {
		return 0, 0, wrapLedgerErr(err)
	}
	local, err = s.localHeight()
	if err != nil {
		return 0, 0, err
	}
	return network, local, nil
}

func (s *Service) localHeight() (uint64, error) {
	local, err := s.oracle.LocalBlockCount()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return local, nil
}

// tally accumulates one scope's outputs per lifecycle state.
type tally struct {
	totals  txo.Totals
	unspent []uint64
}

// statusQuery lists one scope's outputs in a single lifecycle state.
type statusQuery[T interface{ Record() txo.Record }] struct {
	status txo.Status
	list   func() ([]T, error)
}

func run[T interface{ Record() txo.Record }](queries []statusQuery[T]) (*tally, error) {
	t := &tally{}
	for _, q := range queries {
		items, err := q.list()
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			value := item.Record().Value
			t.totals.Add(q.status, value)
			if q.status == txo.StatusUnspent {
				t.unspent = append(t.unspent, value)
			}
		}
	}
	return t, nil
}

// tallyAccount sums the status queries of a spend-capable account. An
// empty address covers the whole account; otherwise secreted and
// orphaned are not queried.
func (s *Service) tallyAccount(c *walletdb.Conn, id types.AccountID, address string, local, depth uint64) (*tally, error) {
	queries := []statusQuery[*walletdb.Txo]{
		{txo.StatusUnspent, func() ([]*walletdb.Txo, error) { return c.ListUnspent(id, address, depth, local) }},
		{txo.StatusPending, func() ([]*walletdb.Txo, error) { return c.ListPending(id, address, depth, local) }},
		{txo.StatusSpent, func() ([]*walletdb.Txo, error) { return c.ListSpent(id, address, depth, local) }},
	}
	if address == "" {
		queries = append(queries,
			statusQuery[*walletdb.Txo]{txo.StatusSecreted, func() ([]*walletdb.Txo, error) { return c.ListSecreted(id, depth, local) }},
			statusQuery[*walletdb.Txo]{txo.StatusOrphaned, func() ([]*walletdb.Txo, error) { return c.ListOrphaned(id, depth, local) }},
		)
	}
	return run(queries)
}

// tallyViewOnlyAccount is tallyAccount for view-only accounts, which
// never hold secreted outputs.
func (s *Service) tallyViewOnlyAccount(c *walletdb.Conn, id types.AccountID, address string, local, depth uint64) (*tally, error) {
	queries := []statusQuery[*walletdb.ViewOnlyTxo]{
		{txo.StatusUnspent, func() ([]*walletdb.ViewOnlyTxo, error) { return c.ListViewOnlyUnspent(id, address, depth, local) }},
		{txo.StatusPending, func() ([]*walletdb.ViewOnlyTxo, error) { return c.ListViewOnlyPending(id, address, depth, local) }},
		{txo.StatusSpent, func() ([]*walletdb.ViewOnlyTxo, error) { return c.ListViewOnlySpent(id, address, depth, local) }},
	}
	if address == "" {
		queries = append(queries,
			statusQuery[*walletdb.ViewOnlyTxo]{txo.StatusOrphaned, func() ([]*walletdb.ViewOnlyTxo, error) { return c.ListViewOnlyOrphaned(id, depth, local) }},
		)
	}
	return run(queries)
}

func (s *Service) logBalance(scope, id string, depth uint64, b *Balance) {
	s.logger.Debug().
		Str("scope", scope).
		Str("id", id).
		Uint64("depth", depth).
		Str("unspent", b.Unspent.String()).
		Str("pending", b.Pending.String()).
		Str("spent", b.Spent.String()).
		Str("max_spendable", b.MaxSpendable.String()).
		Uint64("synced_blocks", b.SyncedBlocks).
		Msg("Balance computed")
}

// BalanceForAccount sums every output of a spend-capable account.
func (s *Service) BalanceForAccount(ctx context.Context, id types.AccountID, depth uint64) (*Balance, error) {
	network, local, err := s.heights(ctx)
	if err != nil {
		return nil, err
	}
	fee := s.oracle.CurrentFee()

	var b *Balance
	err = s.db.View(func(c *walletdb.Conn) error {
		account, err := c.GetAccount(id)
		if err != nil {
			return err
		}
		t, err := s.tallyAccount(c, id, "", local, depth)
		if err != nil {
			return err
		}
		b = &Balance{
			Sums:               sumsOf(t.totals),
			MaxSpendable:       maxSpendable(t.unspent, s.maxInputs, fee),
			NetworkBlockHeight: network,
			LocalBlockHeight:   local,
			SyncedBlocks:       account.NextBlockIndex,
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.logBalance("account", id.String(), depth, b)
	return b, nil
}

// BalanceForAddress sums the outputs received at one assigned subaddress.
// Secreted and orphaned are always zero at this scope.
func (s *Service) BalanceForAddress(ctx context.Context, address string, depth uint64) (*Balance, error) {
	network, local, err := s.heights(ctx)
	if err != nil {
		return nil, err
	}
	fee := s.oracle.CurrentFee()

	var b *Balance
	err = s.db.View(func(c *walletdb.Conn) error {
		sub, err := c.LookupAddress(address)
		if err != nil {
			return err
		}
		account, err := c.GetAccount(sub.AccountID)
		if err != nil {
			return err
		}
		t, err := s.tallyAccount(c, sub.AccountID, address, local, depth)
		if err != nil {
			return err
		}
		b = &Balance{
			Sums:               sumsOf(t.totals.ZeroAccountScoped()),
			MaxSpendable:       maxSpendable(t.unspent, s.maxInputs, fee),
			NetworkBlockHeight: network,
			LocalBlockHeight:   local,
			SyncedBlocks:       account.NextBlockIndex,
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.logBalance("address", address, depth, b)
	return b, nil
}

// BalanceForViewOnlyAccount sums every output of a view-only account.
// MaxSpendable and Secreted are always zero.
func (s *Service) BalanceForViewOnlyAccount(ctx context.Context, id types.AccountID, depth uint64) (*Balance, error) {
	network, local, err := s.heights(ctx)
	if err != nil {
		return nil, err
	}

	var b *Balance
	err = s.db.View(func(c *walletdb.Conn) error {
		account, err := c.GetViewOnlyAccount(id)
		if err != nil {
			return err
		}
		t, err := s.tallyViewOnlyAccount(c, id, "", local, depth)
		if err != nil {
			return err
		}
		sums := sumsOf(t.totals)
		sums.Secreted = uint128.Zero
		b = &Balance{
			Sums:               sums,
			NetworkBlockHeight: network,
			LocalBlockHeight:   local,
			SyncedBlocks:       account.NextBlockIndex,
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.logBalance("view_only_account", id.String(), depth, b)
	return b, nil
}

// BalanceForViewOnlyAddress sums the outputs received at one imported
// view-only subaddress.
func (s *Service) BalanceForViewOnlyAddress(ctx context.Context, address string, depth uint64) (*Balance, error) {
	network, local, err := s.heights(ctx)
	if err != nil {
		return nil, err
	}

	var b *Balance
	err = s.db.View(func(c *walletdb.Conn) error {
		sub, err := c.LookupViewOnlyAddress(address)
		if err != nil {
			return err
		}
		account, err := c.GetViewOnlyAccount(sub.AccountID)
		if err != nil {
			return err
		}
		t, err := s.tallyViewOnlyAccount(c, sub.AccountID, address, local, depth)
		if err != nil {
			return err
		}
		b = &Balance{
			Sums:               sumsOf(t.totals.ZeroAccountScoped()),
			NetworkBlockHeight: network,
			LocalBlockHeight:   local,
			SyncedBlocks:       account.NextBlockIndex,
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.logBalance("view_only_address", address, depth, b)
	return b, nil
}
