package leb128

import (
	"github.com/suigate/mint-gateway/common/errs"
)

// Unsigned LEB128 varints, as used by the BCS length prefix in signed
// personal messages.

const (
	ErrEmpty        = errs.ErrorKind("leb128: empty byte sequence")
	ErrUnterminated = errs.ErrorKind("leb128: unterminated byte sequence")
	ErrOverflow     = errs.ErrorKind("leb128: uint64 overflow")
)

// maxLen is the longest encoding of a uint64: ceil(64/7) bytes.
const maxLen = 10

// AppendUint64 appends the ULEB128 encoding of v to buf.
func AppendUint64(buf []byte, v uint64) []byte {
	for v >= 0b1000_0000 {
		buf = append(buf, byte(v)|0b1000_0000)
		v >>= 7
	}
	return append(buf, byte(v))
}

// EncodeUint64 returns the ULEB128 encoding of v.
func EncodeUint64(v uint64) []byte {
	return AppendUint64(make([]byte, 0, maxLen), v)
}

// DecodeUint64 decodes a ULEB128 value from the front of data, returning the
// value and the number of bytes consumed.
func DecodeUint64(data []byte) (n uint64, length int, err error) {
	if len(data) == 0 {
		return 0, 0, ErrEmpty
	}
	for i, b := range data {
		if i >= maxLen || (i == maxLen-1 && b > 1) {
			return 0, 0, ErrOverflow
		}
		n |= uint64(b&0b0111_1111) << (7 * i)
		// if the high bit is not set, then this is the last byte
		if b&0b1000_0000 == 0 {
			return n, i + 1, nil
		}
	}
	return 0, 0, ErrUnterminated
}
