package walletdb

import (
	"encoding/binary"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Key prefixes for the wallet store.
var (
	prefixAccount         = []byte("a/") // a/<account> -> Account JSON
	prefixViewOnly        = []byte("v/") // v/<account> -> ViewOnlyAccount JSON
	prefixSubaddress      = []byte("s/") // s/<account><index> -> Subaddress JSON
	prefixAddress         = []byte("S/") // S/<b58> -> <account><index>
	prefixViewOnlySub     = []byte("w/") // w/<account><index> -> Subaddress JSON
	prefixViewOnlyAddress = []byte("W/") // W/<b58> -> <account><index>
	prefixTxo             = []byte("t/") // t/<account><txo> -> Txo JSON
	prefixViewOnlyTxo     = []byte("o/") // o/<account><txo> -> ViewOnlyTxo JSON
)

func idKey(prefix []byte, id types.AccountID) []byte {
	key := make([]byte, len(prefix)+types.HashSize)
	copy(key, prefix)
	copy(key[len(prefix):], id[:])
	return key
}

// subKey builds prefix + account(32) + index(8).
func subKey(prefix []byte, id types.AccountID, index uint64) []byte {
	key := make([]byte, len(prefix)+types.HashSize+8)
	copy(key, prefix)
	copy(key[len(prefix):], id[:])
	binary.BigEndian.PutUint64(key[len(prefix)+types.HashSize:], index)
	return key
}

// txoKey builds prefix + account(32) + txo(32).
func txoKey(prefix []byte, id types.AccountID, txoID types.TxoID) []byte {
	key := make([]byte, len(prefix)+2*types.HashSize)
	copy(key, prefix)
	copy(key[len(prefix):], id[:])
	copy(key[len(prefix)+types.HashSize:], txoID[:])
	return key
}

func addressKey(prefix []byte, b58 string) []byte {
	key := make([]byte, len(prefix)+len(b58))
	copy(key, prefix)
	copy(key[len(prefix):], b58)
	return key
}

// addressRef is the value stored under an address index key.
func addressRef(id types.AccountID, index uint64) []byte {
	ref := make([]byte, types.HashSize+8)
	copy(ref, id[:])
	binary.BigEndian.PutUint64(ref[types.HashSize:], index)
	return ref
}

func parseAddressRef(ref []byte) (types.AccountID, uint64, bool) {
	if len(ref) != types.HashSize+8 {
		return types.AccountID{}, 0, false
	}
	var id types.AccountID
	copy(id[:], ref[:types.HashSize])
	return id, binary.BigEndian.Uint64(ref[types.HashSize:]), true
}
