package suisig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthMessage(t *testing.T) {
	address := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	t.Run("happy path", func(t *testing.T) {
		auth, err := ParseAuthMessage([]byte("Mint authorization\naddress=" + address + "\nevent=drop-1\nnonce=9"))
		require.NoError(t, err)
		assert.Equal(t, "Mint authorization", auth.Header)
		assert.Equal(t, address, auth.Address)
		assert.Equal(t, []string{"address", "event", "nonce"}, auth.Keys)
		assert.Equal(t, "drop-1", auth.Values["event"])
	})

	t.Run("crlf and padding tolerated", func(t *testing.T) {
		auth, err := ParseAuthMessage([]byte("Mint authorization\r\n  address = " + address + " \r\n\r\nnonce=1\r\n"))
		require.NoError(t, err)
		assert.Equal(t, address, auth.Address)
		assert.Equal(t, "1", auth.Values["nonce"])
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := ParseAuthMessage([]byte("  \n "))
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("missing address line", func(t *testing.T) {
		_, err := ParseAuthMessage([]byte("Mint authorization\nnonce=1"))
		assert.ErrorIs(t, err, ErrMissingAddress)
	})

	t.Run("malformed line", func(t *testing.T) {
		_, err := ParseAuthMessage([]byte("Mint authorization\naddress=" + address + "\nnot a pair"))
		assert.Error(t, err)
	})
}

func TestCanonicalRoundTrip(t *testing.T) {
	address := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	raw := []byte("Mint authorization\r\naddress=" + address + "\r\nnonce=5\r\n")

	auth, err := ParseAuthMessage(raw)
	require.NoError(t, err)

	canonical := auth.Canonical()
	assert.Equal(t, "Mint authorization\naddress="+address+"\nnonce=5", string(canonical))

	// canonical form is a fixed point
	reparsed, err := ParseAuthMessage(canonical)
	require.NoError(t, err)
	assert.Equal(t, canonical, reparsed.Canonical())
}
