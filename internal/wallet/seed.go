// Package wallet derives account keys from BIP-39 mnemonics and seals
// the seed at rest.
package wallet

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// SeedSize is the length of a BIP-39 seed in bytes.
const SeedSize = 64

// ErrInvalidMnemonic is returned for mnemonics that fail BIP-39 checks.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// NewMnemonic creates a fresh 24-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic reports whether mnemonic has valid words and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 64-byte seed for mnemonic and passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	return seed, nil
}
