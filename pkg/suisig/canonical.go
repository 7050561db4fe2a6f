package suisig

import (
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// messageCandidate is one pure reinterpretation of the submitted message
// bytes. Candidates are tried in a fixed order and the first one whose
// digest verifies wins.
//
// Each entry exists because a specific wallet client frames the signed bytes
// that way. Do not extend the list without a concrete wallet behavior to
// cite; unverifiable entries only widen the attack surface.
type messageCandidate struct {
	name string
	fn   func(raw []byte, auth *AuthMessage) ([]byte, error)
}

// messageCandidates, in trial order:
//
//  1. canonical: the server's own reconstruction of the parsed message.
//     Wallets that sign the canonical text after their own LF normalization
//     land here.
//  2. raw: the bytes exactly as submitted, for wallets that sign the
//     submitted buffer untouched (CRLF and all).
//  3. utf8: the submitted bytes re-encoded as valid UTF-8. Some wallet
//     bridges round-trip the message through a lossy string conversion.
//  4. hex: the submitted bytes are a hex string of the real payload.
//  5. hex0x: same, with a 0x prefix.
var messageCandidates = []messageCandidate{
	{
		name: "canonical",
		fn: func(_ []byte, auth *AuthMessage) ([]byte, error) {
			return auth.Canonical(), nil
		},
	},
	{
		name: "raw",
		fn: func(raw []byte, _ *AuthMessage) ([]byte, error) {
			return raw, nil
		},
	},
	{
		name: "utf8",
		fn: func(raw []byte, _ *AuthMessage) ([]byte, error) {
			return []byte(strings.ToValidUTF8(string(raw), "")), nil
		},
	},
	{
		name: "hex",
		fn: func(raw []byte, _ *AuthMessage) ([]byte, error) {
			return decodeHexString(string(raw))
		},
	},
	{
		name: "hex0x",
		fn: func(raw []byte, _ *AuthMessage) ([]byte, error) {
			text := string(raw)
			if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
				return nil, errors.New("no 0x prefix")
			}
			return decodeHexString(text[2:])
		},
	},
}

func decodeHexString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty hex string")
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return decoded, nil
}
