package suisig_test

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suigate/mint-gateway/pkg/suisig"
)

// signer is a deterministic test wallet: an ed25519 key plus the Sui address
// it controls.
type signer struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address string
}

func newSigner(t *testing.T) *signer {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	address, err := suisig.AddressFromPublicKey(pub)
	require.NoError(t, err)
	return &signer{priv: priv, pub: pub, address: address}
}

func (s *signer) authMessage() []byte {
	return []byte(fmt.Sprintf("Mint authorization\naddress=%s\nevent=genesis-drop\nnonce=42", s.address))
}

// sign produces a raw 64-byte signature over the personal message digest.
func (s *signer) sign(message []byte) []byte {
	digest := suisig.PersonalMessageDigest(message)
	return ed25519.Sign(s.priv, digest[:])
}

// suiWireSignature frames the signature the way Sui wallets serialize it:
// flag || signature || publicKey.
func (s *signer) suiWireSignature(message []byte) []byte {
	sig := s.sign(message)
	wire := make([]byte, 0, 97)
	wire = append(wire, suisig.SchemeFlagEd25519)
	wire = append(wire, sig...)
	wire = append(wire, s.pub...)
	return wire
}

func TestIsValidAddress(t *testing.T) {
	valid := "0x" + strings.Repeat("ab", 32)
	tests := []struct {
		address string
		want    bool
	}{
		{valid, true},
		{strings.ToUpper(valid[2:]), false}, // missing prefix
		{"0x" + strings.ToUpper(valid[2:]), true},
		{"", false},
		{"0x123", false},
		{valid + "ff", false},
		{"0x" + strings.Repeat("zz", 32), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, suisig.IsValidAddress(tt.address), "address %q", tt.address)
	}
}

func TestAddressFromPublicKey(t *testing.T) {
	s := newSigner(t)
	assert.True(t, suisig.IsValidAddress(s.address))

	_, err := suisig.AddressFromPublicKey(s.pub[:16])
	assert.Error(t, err)
}

func TestVerify_WireShapes(t *testing.T) {
	s := newSigner(t)
	message := s.authMessage()
	sig := s.sign(message)

	flagged := append([]byte{suisig.SchemeFlagEd25519}, sig...)
	flaggedKey := append([]byte{suisig.SchemeFlagEd25519}, s.pub...)

	tests := []struct {
		name      string
		signature []byte
		publicKey []byte
	}{
		{"bare 64-byte with key", sig, s.pub},
		{"bare 64-byte with flagged key", sig, flaggedKey},
		{"65-byte flagged", flagged, s.pub},
		{"97-byte self-contained", s.suiWireSignature(message), nil},
		{"98-byte with flagged key", append(flagged, flaggedKey...), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, suisig.Verify(tt.signature, message, s.address, tt.publicKey))
		})
	}
}

func TestVerify_RejectsMalformed(t *testing.T) {
	s := newSigner(t)
	message := s.authMessage()
	sig := s.sign(message)
	wire := s.suiWireSignature(message)

	other := newSigner(t)
	otherWire := other.suiWireSignature(message)

	tests := []struct {
		name      string
		signature []byte
		message   []byte
		address   string
		publicKey []byte
	}{
		{"empty signature", nil, message, s.address, s.pub},
		{"empty message", wire, nil, s.address, nil},
		{"truncated 50-byte signature", wire[:50], message, s.address, nil},
		{"oversized signature", append(wire, 0xff, 0xff), message, s.address, nil},
		{"unknown scheme flag", append([]byte{0x01}, wire[1:]...), message, s.address, nil},
		{"bare signature without public key", sig, message, s.address, nil},
		{"key does not control address", otherWire, message, s.address, nil},
		{"tampered signature", append([]byte{}, wire...), append([]byte{}, message...), s.address, nil},
		{"message without address line", wire, []byte("Mint authorization\nnonce=42"), s.address, nil},
		{"address mismatch", wire, []byte("Mint authorization\naddress=0x" + strings.Repeat("11", 32)), s.address, nil},
	}
	tests[7].signature[10] ^= 0x01 // tamper after framing

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, suisig.Verify(tt.signature, tt.message, tt.address, tt.publicKey))
		})
	}
}

func TestVerify_MessageCandidates(t *testing.T) {
	s := newSigner(t)

	t.Run("canonical after CRLF normalization", func(t *testing.T) {
		canonical := s.authMessage()
		submitted := []byte(strings.ReplaceAll(string(canonical), "\n", "\r\n"))
		wire := s.suiWireSignature(canonical)
		assert.True(t, suisig.Verify(wire, submitted, s.address, nil))
	})

	t.Run("raw bytes signed as-is", func(t *testing.T) {
		raw := []byte(fmt.Sprintf("Mint authorization\r\naddress=%s\r\nnonce=7", s.address))
		wire := s.suiWireSignature(raw)
		assert.True(t, suisig.Verify(wire, raw, s.address, nil))
	})

	t.Run("hex encoded payload", func(t *testing.T) {
		payload := s.authMessage()
		wire := s.suiWireSignature(payload)
		submitted := []byte(hex.EncodeToString(payload))
		assert.True(t, suisig.Verify(wire, submitted, s.address, nil))
	})

	t.Run("0x-prefixed hex encoded payload", func(t *testing.T) {
		payload := s.authMessage()
		wire := s.suiWireSignature(payload)
		submitted := []byte("0x" + hex.EncodeToString(payload))
		assert.True(t, suisig.Verify(wire, submitted, s.address, nil))
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		canonical := s.authMessage()
		wire := s.suiWireSignature(canonical)
		for i := 0; i < 5; i++ {
			assert.True(t, suisig.Verify(wire, canonical, s.address, nil))
		}
	})
}

func TestPersonalMessageDigest(t *testing.T) {
	// digest must change with the message and be stable for equal input
	a := suisig.PersonalMessageDigest([]byte("hello"))
	b := suisig.PersonalMessageDigest([]byte("hello"))
	c := suisig.PersonalMessageDigest([]byte("hello!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// length prefix is part of the digest input: a message embedding
	// another's bytes plus garbage must not collide
	long := suisig.PersonalMessageDigest(append([]byte("hello"), 0))
	assert.NotEqual(t, a, long)
}
