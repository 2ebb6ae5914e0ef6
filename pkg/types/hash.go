// Package types defines core primitive types for the Klingnet wallet.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// AccountID identifies a spend-capable account. It is the BLAKE3 hash of
// the account's view and spend public keys.
type AccountID Hash

// TxoID identifies a tracked ledger output.
type TxoID Hash

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	decoded, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// HexToHash converts a hex string to a Hash.
// Returns an error if the string is not exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// ParseAccountID decodes a hex account id.
func ParseAccountID(s string) (AccountID, error) {
	h, err := HexToHash(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("invalid account id: %w", err)
	}
	return AccountID(h), nil
}

// IsZero returns true if the account id is all zeros.
func (a AccountID) IsZero() bool {
	return Hash(a).IsZero()
}

// String returns the hex-encoded account id.
func (a AccountID) String() string {
	return Hash(a).String()
}

// MarshalJSON encodes the account id as a hex string.
func (a AccountID) MarshalJSON() ([]byte, error) {
	return Hash(a).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into an account id.
func (a *AccountID) UnmarshalJSON(data []byte) error {
	return (*Hash)(a).UnmarshalJSON(data)
}

// String returns the hex-encoded txo id.
func (t TxoID) String() string {
	return Hash(t).String()
}

// MarshalJSON encodes the txo id as a hex string.
func (t TxoID) MarshalJSON() ([]byte, error) {
	return Hash(t).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into a txo id.
func (t *TxoID) UnmarshalJSON(data []byte) error {
	return (*Hash)(t).UnmarshalJSON(data)
}
