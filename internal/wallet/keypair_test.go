package wallet

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
)

func testKeyBytes(t *testing.T) []byte {
	t.Helper()
	seed := bytes.Repeat([]byte{0x42}, ed25519.SeedSize)
	return ed25519.NewKeyFromSeed(seed)
}

func TestLoad_Base58(t *testing.T) {
	raw := testKeyBytes(t)

	kp, err := Load(base58.Encode(raw))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantPubkey := base58.Encode(raw[ed25519.SeedSize:])
	if kp.Pubkey() != wantPubkey {
		t.Errorf("Pubkey mismatch: expected %s, got %s", wantPubkey, kp.Pubkey())
	}
	if !bytes.Equal(kp.PublicKeyBytes(), raw[ed25519.SeedSize:]) {
		t.Error("PublicKeyBytes should match the embedded public key")
	}
}

func TestLoad_Hex(t *testing.T) {
	raw := testKeyBytes(t)

	kpHex, err := Load(hex.EncodeToString(raw))
	if err != nil {
		t.Fatalf("Load (hex) failed: %v", err)
	}
	kpB58, err := Load(base58.Encode(raw))
	if err != nil {
		t.Fatalf("Load (base58) failed: %v", err)
	}

	if kpHex.Pubkey() != kpB58.Pubkey() {
		t.Errorf("Both encodings should decode the same key: %s vs %s", kpHex.Pubkey(), kpB58.Pubkey())
	}
}

func TestLoad_Rejects(t *testing.T) {
	raw := testKeyBytes(t)

	cases := map[string]string{
		"empty":        "",
		"not base58":   "0OIl+/=",
		"wrong length": base58.Encode(raw[:32]),
	}
	for name, material := range cases {
		if _, err := Load(material); !errors.Is(err, ErrInvalidKeyMaterial) {
			t.Errorf("%s: expected ErrInvalidKeyMaterial, got %v", name, err)
		}
	}
}

func TestLoad_KeyMismatch(t *testing.T) {
	raw := append([]byte(nil), testKeyBytes(t)...)
	raw[ed25519.SeedSize] ^= 0xff // corrupt the embedded public key

	if _, err := Load(base58.Encode(raw)); !errors.Is(err, ErrKeyMismatch) {
		t.Errorf("Expected ErrKeyMismatch, got %v", err)
	}
}

func TestSign_Verifies(t *testing.T) {
	raw := testKeyBytes(t)
	kp, err := Load(base58.Encode(raw))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	msg := []byte("transfer message bytes")
	sig := kp.Sign(msg)

	if !ed25519.Verify(ed25519.PublicKey(kp.PublicKeyBytes()), msg, sig) {
		t.Error("Signature should verify against the keypair's public key")
	}
}

func TestValidateAddress(t *testing.T) {
	raw := testKeyBytes(t)
	valid := base58.Encode(raw[ed25519.SeedSize:])
	if err := ValidateAddress(valid); err != nil {
		t.Errorf("Valid address rejected: %v", err)
	}

	// System program ID is a canonical on-curve-checkable constant.
	if err := ValidateAddress("11111111111111111111111111111111"); err != nil {
		t.Errorf("System program address rejected: %v", err)
	}

	if err := ValidateAddress("not-base58-0OIl"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("Expected ErrInvalidAddress for non-base58, got %v", err)
	}

	short := base58.Encode([]byte{1, 2, 3})
	if err := ValidateAddress(short); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("Expected ErrInvalidAddress for short value, got %v", err)
	}

	// y=2 is a canonical encoding with no matching x coordinate.
	offCurve := base58.Encode(append([]byte{2}, bytes.Repeat([]byte{0}, 31)...))
	if err := ValidateAddress(offCurve); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("Expected ErrInvalidAddress for off-curve value, got %v", err)
	}
}
