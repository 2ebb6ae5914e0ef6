package walletdb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup miss below.
	ErrNotFound = errors.New("not found")

	ErrAccountNotFound         = fmt.Errorf("account %w", ErrNotFound)
	ErrViewOnlyAccountNotFound = fmt.Errorf("view-only account %w", ErrNotFound)
	ErrSubaddressNotFound      = fmt.Errorf("subaddress %w", ErrNotFound)

	ErrAccountExists    = errors.New("account already exists")
	ErrAddressExists    = errors.New("address already assigned")
	ErrCursorRegression = errors.New("next block index cannot move backwards")
	ErrTxoAccount       = errors.New("txo does not belong to a known account")
	ErrInvalidKey       = errors.New("invalid public key")
)
