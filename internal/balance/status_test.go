package balance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

func TestWalletStatus_Empty(t *testing.T) {
	f := newFixture(t)
	f.oracle.network = 20

	s, err := f.service.WalletStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(19), s.MinSyncedBlockIndex)
	assert.True(t, s.Total().IsZero())
	assert.Empty(t, s.AccountIDs)
	assert.Empty(t, s.ViewOnlyAccountIDs)
}

func TestWalletStatus_EmptyAtGenesis(t *testing.T) {
	f := newFixture(t)
	f.oracle.network = 0

	s, err := f.service.WalletStatus(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.MinSyncedBlockIndex)
}

func TestWalletStatus_FoldsAccountsAndSeparatesViewOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "alice", 9, 0)
	bob := f.account(t, "bob", 4, 0)
	watch := f.viewOnly(t, "watch", 2, 0)

	f.receive(t, alice, 0, 1, 100)
	f.receive(t, alice, 5, 1, 7)
	o := f.receive(t, bob, 0, 1, 50)
	f.spend(t, o, 2)
	f.secret(t, bob, 3)
	f.receiveViewOnly(t, watch, 0, 1, 1_000_000)

	s, err := f.service.WalletStatus(context.Background())
	require.NoError(t, err)
	eq(t, 100, s.Unspent, "unspent")
	eq(t, 50, s.Spent, "spent")
	eq(t, 3, s.Secreted, "secreted")
	eq(t, 7, s.Orphaned, "orphaned")
	assert.Equal(t, uint64(3), s.MinSyncedBlockIndex)

	assert.ElementsMatch(t, []types.AccountID{alice, bob}, s.AccountIDs)
	assert.Contains(t, s.AccountMap, alice)
	assert.NotContains(t, s.AccountMap, watch)
	assert.Equal(t, watch, s.ViewOnlyAccountIDs[0])
	assert.Equal(t, "watch", s.ViewOnlyAccountMap[watch].Name)
}

func TestWalletStatus_CursorBound(t *testing.T) {
	f := newFixture(t)
	f.account(t, "a", 0, 0)
	f.account(t, "b", 5, 0)
	f.account(t, "c", 12, 0)

	s, err := f.service.WalletStatus(context.Background())
	require.NoError(t, err)
	for _, a := range s.AccountMap {
		assert.LessOrEqual(t, s.MinSyncedBlockIndex, saturatingPrev(a.NextBlockIndex))
	}
	assert.Zero(t, s.MinSyncedBlockIndex)
}

func TestFoldSummaries(t *testing.T) {
	var one, two txo.Totals
	one.Add(txo.StatusUnspent, ^uint64(0))
	two.Add(txo.StatusUnspent, 1)
	two.Add(txo.StatusPending, 4)

	totals, minSynced := foldSummaries(100, []accountSummary{
		{account: &walletdb.Account{NextBlockIndex: 40}, totals: one},
		{account: &walletdb.Account{NextBlockIndex: 70}, totals: two},
	})
	assert.Equal(t, uint128.New(0, 1), totals.Get(txo.StatusUnspent))
	assert.True(t, totals.Get(txo.StatusPending).Equals64(4))
	assert.Equal(t, uint64(39), minSynced)
}

func TestNetworkStatus(t *testing.T) {
	f := newFixture(t)
	f.oracle.network = 30
	f.oracle.local = 25

	s, err := f.service.NetworkStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &NetworkStatus{
		NetworkBlockHeight: 30,
		LocalBlockHeight:   25,
		FeePmob:            testFee,
		BlockVersion:       2,
	}, s)
}

func TestMaxSpendable(t *testing.T) {
	tests := []struct {
		name      string
		values    []uint64
		maxInputs int
		fee       uint64
		want      uint64
	}{
		{"empty", nil, 16, 10, 0},
		{"fee exceeds total", []uint64{3, 4}, 16, 10, 0},
		{"fee equals total", []uint64{6, 4}, 16, 10, 0},
		{"all inputs", []uint64{30, 10, 20}, 16, 5, 55},
		{"largest first", []uint64{1, 100, 2, 50, 3}, 2, 10, 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maxSpendable(tt.values, tt.maxInputs, tt.fee)
			assert.True(t, got.Equals64(tt.want), "got %s, want %d", got, tt.want)
		})
	}
}

func TestMaxSpendable_Wide(t *testing.T) {
	max := ^uint64(0)
	got := maxSpendable([]uint64{max, max, max}, 16, 1)
	want := uint128.From64(max).Mul64(3).Sub64(1)
	assert.Equal(t, want, got)
}
