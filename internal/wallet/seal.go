package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// sealVersion tags the sealed seed layout:
// version(1) | salt(16) | memory(4) | iterations(4) | threads(1) | nonce(24) | ciphertext.
const sealVersion = 1

const (
	saltSize       = 16
	sealHeaderSize = 1 + saltSize + 4 + 4 + 1
)

var (
	// ErrSealedSeed is returned for sealed data that cannot be parsed.
	ErrSealedSeed = errors.New("malformed sealed seed")
	// ErrWrongPassword is returned when authentication of the seed fails.
	ErrWrongPassword = errors.New("wrong password")
)

// KDFParams are the Argon2id cost parameters used to seal a seed.
type KDFParams struct {
	Memory     uint32 // KiB
	Iterations uint32
	Threads    uint8
}

// DefaultKDFParams returns the daemon's Argon2id costs.
func DefaultKDFParams() KDFParams {
	return KDFParams{Memory: 64 * 1024, Iterations: 3, Threads: 4}
}

func sealKey(password, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Threads, chacha20poly1305.KeySize)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SealSeed encrypts seed under password. The account id is bound as
// associated data, so a sealed seed cannot be moved to another account.
func SealSeed(seed, password []byte, id types.AccountID, p KDFParams) ([]byte, error) {
	out := make([]byte, sealHeaderSize, sealHeaderSize+chacha20poly1305.NonceSizeX+len(seed)+chacha20poly1305.Overhead)
	out[0] = sealVersion
	salt := out[1 : 1+saltSize]
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	binary.BigEndian.PutUint32(out[1+saltSize:], p.Memory)
	binary.BigEndian.PutUint32(out[5+saltSize:], p.Iterations)
	out[9+saltSize] = p.Threads

	key := sealKey(password, salt, p)
	defer wipe(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out = append(out, nonce...)
	return aead.Seal(out, nonce, seed, id[:]), nil
}

// OpenSeed reverses SealSeed.
func OpenSeed(sealed, password []byte, id types.AccountID) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if len(sealed) < sealHeaderSize+nonceSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: %d bytes", ErrSealedSeed, len(sealed))
	}
	if sealed[0] != sealVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSealedSeed, sealed[0])
	}
	salt := sealed[1 : 1+saltSize]
	p := KDFParams{
		Memory:     binary.BigEndian.Uint32(sealed[1+saltSize:]),
		Iterations: binary.BigEndian.Uint32(sealed[5+saltSize:]),
		Threads:    sealed[9+saltSize],
	}
	nonce := sealed[sealHeaderSize : sealHeaderSize+nonceSize]
	ciphertext := sealed[sealHeaderSize+nonceSize:]

	key := sealKey(password, salt, p)
	defer wipe(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	seed, err := aead.Open(nil, nonce, ciphertext, id[:])
	if err != nil {
		return nil, ErrWrongPassword
	}
	return seed, nil
}
