// Package crypto provides hashing primitives for the Klingnet wallet.
package crypto

import (
	"encoding/binary"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// TxoID derives the id of the output at index within the transaction
// identified by txHash.
// TxoID = BLAKE3(txHash || index_be32).
func TxoID(txHash types.Hash, index uint32) types.TxoID {
	var buf [types.HashSize + 4]byte
	copy(buf[:types.HashSize], txHash[:])
	binary.BigEndian.PutUint32(buf[types.HashSize:], index)
	return types.TxoID(Hash(buf[:]))
}
