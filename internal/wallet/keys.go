package wallet

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip32"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Account derivation path: m/44'/8888'/account'. Below it, the hardened
// child 0' is the view key and the plain child 1 is the spend branch whose
// children are the per-subaddress spend keys.
const (
	PurposeBIP44     = bip32.FirstHardenedChild + 44
	CoinTypeKlingnet = bip32.FirstHardenedChild + 8888

	viewChild  = bip32.FirstHardenedChild + 0
	spendChild = 1
)

// ErrSubaddressIndex is returned for indexes outside the non-hardened range.
var ErrSubaddressIndex = errors.New("subaddress index out of range")

// AccountKey holds the public view key and the spend branch of one
// account. The branch is private for imported accounts and public for
// view-only ones.
type AccountKey struct {
	view  types.PublicKey
	spend *bip32.Key
}

// NewAccountKey derives the keys of account number account from seed.
func NewAccountKey(seed []byte, account uint32) (*AccountKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	root, err := derivePath(master, PurposeBIP44, CoinTypeKlingnet, bip32.FirstHardenedChild+account)
	if err != nil {
		return nil, err
	}
	view, err := derivePath(root, viewChild)
	if err != nil {
		return nil, err
	}
	spend, err := derivePath(root, spendChild)
	if err != nil {
		return nil, err
	}
	viewPub, err := types.ParsePublicKey(view.PublicKey().Key)
	if err != nil {
		return nil, err
	}
	return &AccountKey{view: viewPub, spend: spend}, nil
}

// NewViewOnlyKey builds an account key from a view public key and the
// serialized public spend branch.
func NewViewOnlyKey(view types.PublicKey, spendXPub string) (*AccountKey, error) {
	spend, err := bip32.B58Deserialize(spendXPub)
	if err != nil {
		return nil, fmt.Errorf("decode spend key: %w", err)
	}
	if spend.IsPrivate {
		spend = spend.PublicKey()
	}
	return &AccountKey{view: view, spend: spend}, nil
}

func derivePath(k *bip32.Key, indices ...uint32) (*bip32.Key, error) {
	for _, idx := range indices {
		child, err := k.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
		k = child
	}
	return k, nil
}

// ViewPublicKey returns the account's view public key.
func (k *AccountKey) ViewPublicKey() types.PublicKey {
	return k.view
}

// SpendPublicKey returns the public key of the spend branch.
func (k *AccountKey) SpendPublicKey() types.PublicKey {
	var pub types.PublicKey
	copy(pub[:], k.spend.PublicKey().Key)
	return pub
}

// SpendXPub serializes the public spend branch for view-only export.
func (k *AccountKey) SpendXPub() string {
	return k.spend.PublicKey().B58Serialize()
}

// CanSpend reports whether the key holds private spend material.
func (k *AccountKey) CanSpend() bool {
	return k.spend.IsPrivate
}

// ID returns the account id for these keys.
func (k *AccountKey) ID() types.AccountID {
	return types.AccountIDFromKeys(k.view, k.SpendPublicKey())
}

// Subaddress returns the public address at index.
func (k *AccountKey) Subaddress(index uint64) (types.PublicAddress, error) {
	if index >= uint64(bip32.FirstHardenedChild) {
		return types.PublicAddress{}, fmt.Errorf("%w: %d", ErrSubaddressIndex, index)
	}
	child, err := k.spend.NewChildKey(uint32(index))
	if err != nil {
		return types.PublicAddress{}, fmt.Errorf("derive subaddress %d: %w", index, err)
	}
	spend, err := types.ParsePublicKey(child.PublicKey().Key)
	if err != nil {
		return types.PublicAddress{}, err
	}
	return types.PublicAddress{ViewPublicKey: k.view, SpendPublicKey: spend}, nil
}
