package balance

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
)

// Balance query errors. Each is wrapped together with its cause, so
// errors.Is matches both.
var (
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage error")
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrInconsistentState = errors.New("inconsistent state")
)

// wrapStoreErr tags an error raised inside a wallet store read.
func wrapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, walletdb.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, txo.ErrInconsistentState):
		return fmt.Errorf("%w: %w", ErrInconsistentState, err)
	default:
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func wrapLedgerErr(err error) error {
	return fmt.Errorf("%w: %w", ErrLedgerUnavailable, err)
}
