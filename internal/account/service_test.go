package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testService(t *testing.T) *Service {
	t.Helper()
	db := walletdb.New(storage.NewMemory())
	return NewService(db, wallet.KDFParams{Memory: 64, Iterations: 1, Threads: 1})
}

func TestImport(t *testing.T) {
	s := testService(t)

	a, err := s.Import(ImportRequest{Mnemonic: testMnemonic, Password: "pw", Name: "Alice", FirstBlockIndex: 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), a.NextBlockIndex)
	assert.Equal(t, uint64(2), a.NextSubaddressIndex)
	assert.NotEmpty(t, a.EncryptedSeed)

	addrs, err := s.Addresses(a.ID)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "Main", addrs[0].Comment)

	parsed, err := types.ParsePublicAddress(addrs[0].Address)
	require.NoError(t, err)
	assert.Equal(t, a.ViewPublicKey, parsed.ViewPublicKey)

	seed, err := s.Seed(a.ID, "pw")
	require.NoError(t, err)
	want, _ := wallet.SeedFromMnemonic(testMnemonic, "")
	assert.Equal(t, want, seed)

	_, err = s.Seed(a.ID, "nope")
	assert.ErrorIs(t, err, wallet.ErrWrongPassword)
}

func TestImport_Duplicate(t *testing.T) {
	s := testService(t)
	_, err := s.Import(ImportRequest{Mnemonic: testMnemonic})
	require.NoError(t, err)

	_, err = s.Import(ImportRequest{Mnemonic: testMnemonic})
	assert.ErrorIs(t, err, walletdb.ErrAccountExists)

	other, err := s.Import(ImportRequest{Mnemonic: testMnemonic, AccountIndex: 1})
	require.NoError(t, err)
	assert.Empty(t, other.EncryptedSeed)
}

func TestImport_BadMnemonic(t *testing.T) {
	s := testService(t)
	_, err := s.Import(ImportRequest{Mnemonic: "one two three"})
	assert.ErrorIs(t, err, wallet.ErrInvalidMnemonic)
}

func TestAssignAddress(t *testing.T) {
	s := testService(t)
	a, err := s.Import(ImportRequest{Mnemonic: testMnemonic})
	require.NoError(t, err)

	sub, err := s.AssignAddress(a.ID, "invoice 7")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), sub.Index)

	seed, _ := wallet.SeedFromMnemonic(testMnemonic, "")
	key, _ := wallet.NewAccountKey(seed, 0)
	want, _ := key.Subaddress(2)
	assert.Equal(t, want.B58(), sub.Address)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.NextSubaddressIndex)
}

func TestImportViewOnly_SharesIdentity(t *testing.T) {
	s := testService(t)
	seed, _ := wallet.SeedFromMnemonic(testMnemonic, "")
	key, _ := wallet.NewAccountKey(seed, 0)

	vo, err := s.ImportViewOnly(ViewOnlyRequest{ViewPublicKey: key.ViewPublicKey(), SpendXPub: key.SpendXPub(), Name: "watch"})
	require.NoError(t, err)
	assert.Equal(t, key.ID(), vo.ID)

	// The same identity cannot also be imported as spend-capable.
	_, err = s.Import(ImportRequest{Mnemonic: testMnemonic})
	assert.ErrorIs(t, err, walletdb.ErrAccountExists)

	subs, err := s.ImportViewOnlySubaddresses(vo.ID, []uint64{4, 9}, "imported")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	want, _ := key.Subaddress(9)
	assert.Equal(t, want.B58(), subs[1].Address)

	list, err := s.ListViewOnly()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(10), list[0].NextSubaddressIndex)

	require.NoError(t, s.RemoveViewOnly(vo.ID))
	assert.ErrorIs(t, s.RemoveViewOnly(vo.ID), walletdb.ErrNotFound)
}

func TestImportViewOnly_BadKey(t *testing.T) {
	s := testService(t)
	_, err := s.ImportViewOnly(ViewOnlyRequest{SpendXPub: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestRemove(t *testing.T) {
	s := testService(t)
	a, err := s.Import(ImportRequest{Mnemonic: testMnemonic})
	require.NoError(t, err)

	require.NoError(t, s.Remove(a.ID))
	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, walletdb.ErrAccountNotFound)

	accounts, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
