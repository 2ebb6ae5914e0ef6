package balance

import (
	"lukechampine.com/uint128"

	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Sums holds one total per lifecycle state.
type Sums struct {
	Unspent  uint128.Uint128
	Pending  uint128.Uint128
	Spent    uint128.Uint128
	Secreted uint128.Uint128
	Orphaned uint128.Uint128
}

func sumsOf(t txo.Totals) Sums {
	return Sums{
		Unspent:  t.Get(txo.StatusUnspent),
		Pending:  t.Get(txo.StatusPending),
		Spent:    t.Get(txo.StatusSpent),
		Secreted: t.Get(txo.StatusSecreted),
		Orphaned: t.Get(txo.StatusOrphaned),
	}
}

// Total returns the sum over all states.
func (s Sums) Total() uint128.Uint128 {
	return s.Unspent.Add(s.Pending).Add(s.Spent).Add(s.Secreted).Add(s.Orphaned)
}

// Balance is the result of a balance query for one account or address.
type Balance struct {
	Sums
	// MaxSpendable is the most one transaction can send. See maxSpendable.
	MaxSpendable       uint128.Uint128
	NetworkBlockHeight uint64
	LocalBlockHeight   uint64
	// SyncedBlocks is the owning account's next_block_index.
	SyncedBlocks uint64
}

// NetworkStatus describes the ledger the wallet is synced against.
type NetworkStatus struct {
	NetworkBlockHeight uint64
	LocalBlockHeight   uint64
	FeePmob            uint64
	BlockVersion       uint32
}

// WalletStatus is a wallet-wide snapshot. Sums cover spend-capable
// accounts only.
type WalletStatus struct {
	Sums
	NetworkBlockHeight  uint64
	LocalBlockHeight    uint64
	MinSyncedBlockIndex uint64
	AccountIDs          []types.AccountID
	AccountMap          map[types.AccountID]*walletdb.Account
	ViewOnlyAccountIDs  []types.AccountID
	ViewOnlyAccountMap  map[types.AccountID]*walletdb.ViewOnlyAccount
}
