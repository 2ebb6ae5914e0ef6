package wallet

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	if err != nil {
		t.Fatalf("NewMnemonic() error: %v", err)
	}
	if words := strings.Fields(m); len(words) != 24 {
		t.Errorf("word count = %d, want 24", len(words))
	}
	if !ValidateMnemonic(m) {
		t.Error("generated mnemonic should be valid")
	}

	other, _ := NewMnemonic()
	if m == other {
		t.Error("two mnemonics should differ")
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		want     bool
	}{
		{"valid 12 words", testMnemonic, true},
		{"bad checksum", strings.Replace(testMnemonic, "about", "abandon", 1), false},
		{"unknown word", "zzz " + testMnemonic[len("abandon "):], false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.want {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	// BIP-39 reference vector with passphrase "TREZOR".
	want := "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
	seed, err := SeedFromMnemonic(testMnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if got := hex.EncodeToString(seed); got != want {
		t.Errorf("seed = %s, want %s", got, want)
	}
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	_, err := SeedFromMnemonic("not a mnemonic", "")
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("expected ErrInvalidMnemonic, got %v", err)
	}
}
