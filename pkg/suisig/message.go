package suisig

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// AuthMessage is the canonical authorization message a wallet signs: a
// human-readable header line followed by key=value lines, one of which must
// be the address line.
type AuthMessage struct {
	Header string
	Keys   []string // in original order
	Values map[string]string
	// Address is the value of the "address" line, kept aside since every
	// caller needs it.
	Address string
}

var (
	ErrEmptyMessage   = errors.New("empty authorization message")
	ErrMissingAddress = errors.New("authorization message has no address line")
)

// ParseAuthMessage decodes raw message bytes into the canonical key-value
// form. The first line is a human-readable header and is not interpreted;
// subsequent non-empty lines must be key=value pairs. Lines are tolerant of
// CRLF endings and surrounding whitespace.
func ParseAuthMessage(message []byte) (*AuthMessage, error) {
	text := strings.ReplaceAll(string(message), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	auth := &AuthMessage{
		Header: strings.TrimSpace(lines[0]),
		Values: make(map[string]string),
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, errors.Errorf("line %q is not a key=value pair", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if _, exists := auth.Values[key]; !exists {
			auth.Keys = append(auth.Keys, key)
		}
		auth.Values[key] = value
	}

	auth.Address = auth.Values["address"]
	if auth.Address == "" {
		return nil, ErrMissingAddress
	}
	return auth, nil
}

// parseAuthMessageAny parses the message, also accepting hex-encoded
// submissions (with or without a 0x prefix) from wallets that hex the signed
// bytes before transport. The plain interpretation wins when both parse.
func parseAuthMessageAny(message []byte) (*AuthMessage, error) {
	auth, err := ParseAuthMessage(message)
	if err == nil {
		return auth, nil
	}

	text := strings.TrimSpace(string(message))
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	decoded, decodeErr := decodeHexString(text)
	if decodeErr != nil {
		return nil, err
	}
	if auth, hexErr := ParseAuthMessage(decoded); hexErr == nil {
		return auth, nil
	}
	return nil, err
}

// Canonical re-encodes the parsed message into the server's canonical byte
// form: header, then key=value lines in original order, LF separated, no
// trailing newline.
func (m *AuthMessage) Canonical() []byte {
	var b strings.Builder
	b.WriteString(m.Header)
	for _, key := range m.Keys {
		b.WriteString("\n")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(m.Values[key])
	}
	return []byte(b.String())
}
