package suisig

import (
	"crypto/ed25519"
	"encoding/hex"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/pkg/leb128"
	"github.com/suigate/mint-gateway/pkg/logger"
	"golang.org/x/crypto/blake2b"
)

// Sui ed25519 wire constants. Ed25519 is the only scheme the gateway
// accepts; other scheme flags fail closed.
const (
	SchemeFlagEd25519 byte = 0x00

	signatureSize = ed25519.SignatureSize // 64
	publicKeySize = ed25519.PublicKeySize // 32
)

// intentPersonalMessage is the Sui intent prefix for personal message
// signing: scope=PersonalMessage(3), version=0, app=0.
var intentPersonalMessage = []byte{3, 0, 0}

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// IsValidAddress reports whether s is a well-formed Sui address
// (0x followed by 64 hex characters).
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// AddressFromPublicKey derives the Sui address controlled by the given
// ed25519 public key: 0x + hex(blake2b-256(flag || publicKey)).
func AddressFromPublicKey(publicKey []byte) (string, error) {
	if len(publicKey) != publicKeySize {
		return "", errors.Wrapf(ErrMalformedSignature, "public key must be %d bytes, got %d", publicKeySize, len(publicKey))
	}
	payload := make([]byte, 0, 1+publicKeySize)
	payload = append(payload, SchemeFlagEd25519)
	payload = append(payload, publicKey...)
	sum := blake2b.Sum256(payload)
	return "0x" + hex.EncodeToString(sum[:]), nil
}

// PersonalMessageDigest computes the digest a Sui wallet signs for a personal
// message: blake2b-256 over the intent prefix followed by the BCS-encoded
// message bytes (ULEB128 length prefix, then the raw bytes).
func PersonalMessageDigest(message []byte) [32]byte {
	payload := make([]byte, 0, len(intentPersonalMessage)+len(message)+5)
	payload = append(payload, intentPersonalMessage...)
	payload = leb128.AppendUint64(payload, uint64(len(message)))
	payload = append(payload, message...)
	return blake2b.Sum256(payload)
}

// Sentinel causes for signature normalization failures. Verify collapses all
// of them into false; they exist so failures stay distinguishable in logs.
var (
	ErrMalformedSignature = errors.New("malformed signature payload")
	ErrUnsupportedScheme  = errors.New("unsupported signature scheme")
	ErrMissingPublicKey   = errors.New("public key not supplied")
)

// normalizeSignature reduces the accepted wire shapes to a raw 64-byte
// signature and a 32-byte public key:
//
//	64:  bare signature, public key supplied out of band (32, or 33 flag-prefixed)
//	65:  scheme flag + signature, public key supplied out of band
//	97:  scheme flag + signature + public key
//	98:  scheme flag + signature + flag-prefixed public key
//
// Any other length fails closed.
func normalizeSignature(signature, publicKey []byte) (sig, pub []byte, err error) {
	trimKey := func(key []byte) ([]byte, error) {
		switch len(key) {
		case publicKeySize:
			return key, nil
		case publicKeySize + 1:
			if key[0] != SchemeFlagEd25519 {
				return nil, errors.Wrapf(ErrUnsupportedScheme, "public key scheme flag 0x%02x", key[0])
			}
			return key[1:], nil
		case 0:
			return nil, ErrMissingPublicKey
		default:
			return nil, errors.Wrapf(ErrMalformedSignature, "public key length %d", len(key))
		}
	}

	switch len(signature) {
	case signatureSize:
		pub, err = trimKey(publicKey)
		if err != nil {
			return nil, nil, err
		}
		return signature, pub, nil
	case signatureSize + 1:
		if signature[0] != SchemeFlagEd25519 {
			return nil, nil, errors.Wrapf(ErrUnsupportedScheme, "scheme flag 0x%02x", signature[0])
		}
		pub, err = trimKey(publicKey)
		if err != nil {
			return nil, nil, err
		}
		return signature[1:], pub, nil
	case 1 + signatureSize + publicKeySize, 1 + signatureSize + publicKeySize + 1:
		if signature[0] != SchemeFlagEd25519 {
			return nil, nil, errors.Wrapf(ErrUnsupportedScheme, "scheme flag 0x%02x", signature[0])
		}
		pub, err = trimKey(signature[1+signatureSize:])
		if err != nil {
			return nil, nil, err
		}
		return signature[1 : 1+signatureSize], pub, nil
	default:
		return nil, nil, errors.Wrapf(ErrMalformedSignature, "signature length %d", len(signature))
	}
}

// Verify reports whether signature was produced by the key controlling
// claimedAddress over the authorization message. publicKey may be empty when
// the signature payload is self-contained (97/98-byte shapes).
//
// Verify never panics and never returns an error: every malformed input
// collapses to false at this boundary, with the reason logged.
func Verify(signature, message []byte, claimedAddress string, publicKey []byte) bool {
	log := logger.With(slog.String("package", "suisig"))

	if len(signature) == 0 || len(message) == 0 {
		return false
	}

	auth, err := parseAuthMessageAny(message)
	if err != nil {
		log.Debug("rejecting signature: unparseable authorization message", slog.Any("error", err))
		return false
	}
	// The embedded address must match the claimed one, otherwise a valid
	// signature could be replayed for a different address.
	if !strings.EqualFold(auth.Address, claimedAddress) {
		log.Debug("rejecting signature: address mismatch",
			slog.String("claimed", claimedAddress),
			slog.String("embedded", auth.Address),
		)
		return false
	}

	sig, pub, err := normalizeSignature(signature, publicKey)
	if err != nil {
		log.Debug("rejecting signature: normalization failed", slog.Any("error", err))
		return false
	}

	derived, err := AddressFromPublicKey(pub)
	if err != nil {
		return false
	}
	if !strings.EqualFold(derived, claimedAddress) {
		log.Debug("rejecting signature: public key does not control claimed address",
			slog.String("claimed", claimedAddress),
			slog.String("derived", derived),
		)
		return false
	}

	// Wallet clients disagree on the exact byte framing of the signed
	// message. Try each canonicalization in order; the first candidate that
	// verifies wins and no further candidates are attempted, so repeated
	// calls with the same inputs are deterministic.
	for _, candidate := range messageCandidates {
		encoded, err := candidate.fn(message, auth)
		if err != nil || len(encoded) == 0 {
			continue
		}
		digest := PersonalMessageDigest(encoded)
		if ed25519.Verify(ed25519.PublicKey(pub), digest[:], sig) {
			log.Debug("signature verified", slog.String("candidate", candidate.name))
			return true
		}
	}

	log.Debug("rejecting signature: no message candidate verified",
		slog.String("address", claimedAddress),
		slog.Int("candidates", len(messageCandidates)),
	)
	return false
}
