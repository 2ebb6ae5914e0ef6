package balance

import (
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// ClassifiedTxo is a stored output with its current lifecycle state.
type ClassifiedTxo = walletdb.ClassifiedTxo

// TxosForAccount lists an account's outputs with their states at depth.
// A non-nil status keeps only outputs in that state.
func (s *Service) TxosForAccount(id types.AccountID, status *txo.Status, depth uint64) ([]ClassifiedTxo, error) {
	local, err := s.localHeight()
	if err != nil {
		return nil, err
	}

	var out []ClassifiedTxo
	err = s.db.View(func(c *walletdb.Conn) error {
		all, err := c.ClassifyTxos(id, "", depth, local)
		if err != nil {
			return err
		}
		for _, o := range all {
			if status == nil || *status == o.Status {
				out = append(out, o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return out, nil
}
