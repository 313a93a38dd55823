// Package wallet decodes externally supplied key material into a sender
// identity and validates recipient addresses.
package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Key material errors.
var (
	// ErrInvalidKeyMaterial is returned when the supplied key is neither
	// a base58 64-byte keypair nor a 128-char hex string.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrKeyMismatch is returned when the embedded public key does not
	// match the one derived from the seed.
	ErrKeyMismatch = errors.New("public key does not match seed")

	// ErrInvalidAddress is returned when an address is not a 32-byte
	// base58 value on the ed25519 curve.
	ErrInvalidAddress = errors.New("invalid address")
)

const hexKeyLen = 128 // 64 bytes hex-encoded

// Keypair is a decoded sender identity.
type Keypair struct {
	priv   ed25519.PrivateKey
	pubkey string
}

// Load decodes key material in either of the two accepted encodings:
// a 128-character hex string or a base58 string, both carrying the
// standard 64-byte seed||pubkey keypair layout.
func Load(material string) (*Keypair, error) {
	if material == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKeyMaterial)
	}

	var raw []byte
	var err error
	if len(material) == hexKeyLen {
		raw, err = hex.DecodeString(material)
	} else {
		raw, err = base58.Decode(material)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyMaterial, len(raw), ed25519.PrivateKeySize)
	}

	priv := ed25519.PrivateKey(raw)

	// Cross-check the embedded public key against the seed-derived one.
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !priv.Equal(derived) {
		return nil, ErrKeyMismatch
	}

	pub := priv.Public().(ed25519.PublicKey)
	return &Keypair{
		priv:   priv,
		pubkey: base58.Encode(pub),
	}, nil
}

// Pubkey returns the base58-encoded public key.
func (k *Keypair) Pubkey() string {
	return k.pubkey
}

// PublicKeyBytes returns the raw 32-byte public key.
func (k *Keypair) PublicKeyBytes() []byte {
	return k.priv.Public().(ed25519.PublicKey)
}

// Sign signs a message with the keypair's private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// ValidateAddress checks that an address decodes to 32 base58 bytes
// lying on the ed25519 curve. Off-curve values are program-derived
// accounts, which cannot receive a plain system transfer.
func ValidateAddress(address string) error {
	raw, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: got %d bytes, want 32", ErrInvalidAddress, len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("%w: not on curve", ErrInvalidAddress)
	}
	return nil
}
