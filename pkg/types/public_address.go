package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// PublicKeySize is the length of a compressed secp256k1 public key.
const PublicKeySize = 33

// Address version bytes prepended to the base58 payload.
const (
	MainnetAddressVersion byte = 0x4b
	TestnetAddressVersion byte = 0x74
)

// checksumSize is the number of BLAKE3 bytes appended to an encoded address.
const checksumSize = 4

// encodedAddressSize is version(1) + view(33) + spend(33) + checksum(4).
const encodedAddressSize = 1 + 2*PublicKeySize + checksumSize

// activeVersion is the address version used by B58().
// Set once at startup via SetAddressVersion(). Default is mainnet.
var activeVersion = MainnetAddressVersion

// SetAddressVersion sets the active address version byte (call once at startup).
func SetAddressVersion(v byte) {
	activeVersion = v
}

// GetAddressVersion returns the currently active address version byte.
func GetAddressVersion() byte {
	return activeVersion
}

// ErrInvalidAddress is returned when an encoded address cannot be decoded.
var ErrInvalidAddress = errors.New("invalid public address")

// PublicKey is a compressed secp256k1 public key.
type PublicKey [PublicKeySize]byte

// String returns the hex-encoded key.
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// MarshalJSON encodes the key as a hex string.
func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a hex string into a key.
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePublicKeyHex(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParsePublicKey validates a compressed public key and returns it.
func ParsePublicKey(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(b))
	}
	if _, err := secp256k1.ParsePubKey(b); err != nil {
		return PublicKey{}, fmt.Errorf("parse public key: %w", err)
	}
	var k PublicKey
	copy(k[:], b)
	return k, nil
}

// ParsePublicKeyHex decodes and validates a hex-encoded compressed public key.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid hex: %w", err)
	}
	return ParsePublicKey(b)
}

// PublicAddress is the externally shareable address of a subaddress:
// the account's view public key plus the subaddress spend public key.
type PublicAddress struct {
	ViewPublicKey  PublicKey
	SpendPublicKey PublicKey
}

// AccountIDFromKeys derives the account id from the account's root view
// and spend public keys.
func AccountIDFromKeys(view, spend PublicKey) AccountID {
	var buf [2 * PublicKeySize]byte
	copy(buf[:PublicKeySize], view[:])
	copy(buf[PublicKeySize:], spend[:])
	return AccountID(blake3.Sum256(buf[:]))
}

func addressChecksum(payload []byte) []byte {
	sum := blake3.Sum256(payload)
	return sum[:checksumSize]
}

// B58 encodes the address with the active version byte.
func (a PublicAddress) B58() string {
	payload := make([]byte, 0, encodedAddressSize)
	payload = append(payload, activeVersion)
	payload = append(payload, a.ViewPublicKey[:]...)
	payload = append(payload, a.SpendPublicKey[:]...)
	payload = append(payload, addressChecksum(payload)...)
	return base58.Encode(payload)
}

// String returns the base58 encoding.
func (a PublicAddress) String() string {
	return a.B58()
}

// ParsePublicAddress decodes a base58 address encoded with the active
// version byte and validates both keys.
func ParsePublicAddress(s string) (PublicAddress, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return PublicAddress{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != encodedAddressSize {
		return PublicAddress{}, fmt.Errorf("%w: length %d, want %d", ErrInvalidAddress, len(raw), encodedAddressSize)
	}
	body, sum := raw[:len(raw)-checksumSize], raw[len(raw)-checksumSize:]
	if !bytes.Equal(addressChecksum(body), sum) {
		return PublicAddress{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}
	if body[0] != activeVersion {
		return PublicAddress{}, fmt.Errorf("%w: version 0x%02x, want 0x%02x", ErrInvalidAddress, body[0], activeVersion)
	}

	view, err := ParsePublicKey(body[1 : 1+PublicKeySize])
	if err != nil {
		return PublicAddress{}, fmt.Errorf("%w: view key: %v", ErrInvalidAddress, err)
	}
	spend, err := ParsePublicKey(body[1+PublicKeySize:])
	if err != nil {
		return PublicAddress{}, fmt.Errorf("%w: spend key: %v", ErrInvalidAddress, err)
	}
	return PublicAddress{ViewPublicKey: view, SpendPublicKey: spend}, nil
}
