package balance

import (
	"context"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// accountSummary is one account's contribution to the wallet status.
type accountSummary struct {
	account *walletdb.Account
	totals  txo.Totals
}

// saturatingPrev returns n-1, or 0 when n is 0.
func saturatingPrev(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return n - 1
}

// foldSummaries combines per-account summaries into wallet totals and the
// lowest synced block index. With no accounts the index is the network
// tip.
func foldSummaries(networkHeight uint64, summaries []accountSummary) (txo.Totals, uint64) {
	var totals txo.Totals
	minSynced := saturatingPrev(networkHeight)
	for _, sum := range summaries {
		totals = totals.Plus(sum.totals)
		minSynced = min(minSynced, saturatingPrev(sum.account.NextBlockIndex))
	}
	return totals, minSynced
}

// NetworkStatus reports ledger heights, fee and block version.
func (s *Service) NetworkStatus(ctx context.Context) (*NetworkStatus, error) {
	network, local, err := s.heights(ctx)
	if err != nil {
		return nil, err
	}
	return &NetworkStatus{
		NetworkBlockHeight: network,
		LocalBlockHeight:   local,
		FeePmob:            s.oracle.CurrentFee(),
		BlockVersion:       s.oracle.CurrentBlockVersion(),
	}, nil
}

// WalletStatus totals every spend-capable account at depth zero and lists
// view-only accounts separately.
func (s *Service) WalletStatus(ctx context.Context) (*WalletStatus, error) {
	defer klog.Benchmark("wallet_status")()

	network, local, err := s.heights(ctx)
	if err != nil {
		return nil, err
	}

	var (
		summaries []accountSummary
		viewOnly  []*walletdb.ViewOnlyAccount
	)
	err = s.db.View(func(c *walletdb.Conn) error {
		accounts, err := c.ListAccounts()
		if err != nil {
			return err
		}
		summaries = make([]accountSummary, 0, len(accounts))
		for _, a := range accounts {
			t, err := s.tallyAccount(c, a.ID, "", local, 0)
			if err != nil {
				return err
			}
			summaries = append(summaries, accountSummary{account: a, totals: t.totals})
		}
		viewOnly, err = c.ListViewOnlyAccounts()
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	totals, minSynced := foldSummaries(network, summaries)
	status := &WalletStatus{
		Sums:                sumsOf(totals),
		NetworkBlockHeight:  network,
		LocalBlockHeight:    local,
		MinSyncedBlockIndex: minSynced,
		AccountIDs:          make([]types.AccountID, 0, len(summaries)),
		AccountMap:          make(map[types.AccountID]*walletdb.Account, len(summaries)),
		ViewOnlyAccountIDs:  make([]types.AccountID, 0, len(viewOnly)),
		ViewOnlyAccountMap:  make(map[types.AccountID]*walletdb.ViewOnlyAccount, len(viewOnly)),
	}
	for _, sum := range summaries {
		status.AccountIDs = append(status.AccountIDs, sum.account.ID)
		status.AccountMap[sum.account.ID] = sum.account
	}
	for _, a := range viewOnly {
		status.ViewOnlyAccountIDs = append(status.ViewOnlyAccountIDs, a.ID)
		status.ViewOnlyAccountMap[a.ID] = a
	}

	s.logger.Debug().
		Int("accounts", len(status.AccountIDs)).
		Int("view_only_accounts", len(status.ViewOnlyAccountIDs)).
		Uint64("min_synced_block_index", minSynced).
		Msg("Wallet status computed")
	return status, nil
}
