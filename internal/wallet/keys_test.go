package wallet

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

func testAccountKey(t *testing.T, account uint32) *AccountKey {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	k, err := NewAccountKey(seed, account)
	if err != nil {
		t.Fatalf("NewAccountKey() error: %v", err)
	}
	return k
}

func TestNewAccountKey_Deterministic(t *testing.T) {
	a := testAccountKey(t, 0)
	b := testAccountKey(t, 0)
	if a.ID() != b.ID() {
		t.Error("same seed and account should give the same id")
	}
	if !a.CanSpend() {
		t.Error("seed-derived key should be able to spend")
	}
	if a.ViewPublicKey() == a.SpendPublicKey() {
		t.Error("view and spend keys must differ")
	}
}

func TestNewAccountKey_AccountsDiffer(t *testing.T) {
	if testAccountKey(t, 0).ID() == testAccountKey(t, 1).ID() {
		t.Error("different account numbers should give different ids")
	}
}

func TestNewAccountKey_BadSeed(t *testing.T) {
	if _, err := NewAccountKey(make([]byte, 16), 0); err == nil {
		t.Error("expected error for short seed")
	}
}

func TestSubaddress(t *testing.T) {
	k := testAccountKey(t, 0)

	a0, err := k.Subaddress(0)
	if err != nil {
		t.Fatalf("Subaddress(0) error: %v", err)
	}
	a1, err := k.Subaddress(1)
	if err != nil {
		t.Fatalf("Subaddress(1) error: %v", err)
	}
	if a0.ViewPublicKey != k.ViewPublicKey() {
		t.Error("subaddress should carry the account view key")
	}
	if a0.SpendPublicKey == a1.SpendPublicKey {
		t.Error("subaddresses should have distinct spend keys")
	}

	parsed, err := types.ParsePublicAddress(a1.B58())
	if err != nil {
		t.Fatalf("ParsePublicAddress() error: %v", err)
	}
	if parsed != a1 {
		t.Error("b58 roundtrip mismatch")
	}

	if _, err := k.Subaddress(1 << 31); !errors.Is(err, ErrSubaddressIndex) {
		t.Errorf("expected ErrSubaddressIndex, got %v", err)
	}
}

func TestViewOnlyKey_MatchesFullKey(t *testing.T) {
	full := testAccountKey(t, 0)
	watch, err := NewViewOnlyKey(full.ViewPublicKey(), full.SpendXPub())
	if err != nil {
		t.Fatalf("NewViewOnlyKey() error: %v", err)
	}
	if watch.CanSpend() {
		t.Error("view-only key must not spend")
	}
	if watch.ID() != full.ID() {
		t.Error("view-only key should share the account id")
	}
	for i := uint64(0); i < 3; i++ {
		want, _ := full.Subaddress(i)
		got, err := watch.Subaddress(i)
		if err != nil {
			t.Fatalf("Subaddress(%d) error: %v", i, err)
		}
		if got != want {
			t.Errorf("subaddress %d differs between full and view-only key", i)
		}
	}
}

func TestViewOnlyKey_BadXPub(t *testing.T) {
	if _, err := NewViewOnlyKey(types.PublicKey{}, "not-an-xpub"); err == nil {
		t.Error("expected error for malformed xpub")
	}
}
