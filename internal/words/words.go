// Package words decomposes arbitrary-precision integers into fixed-width
// 32-bit words and fixed-length byte strings suitable for C array
// initializers.
//
// Word sequences are little-endian at the word level: index 0 holds the
// least-significant 32 bits.
package words

import (
	"errors"
	"fmt"
	"math/big"
)

// WordBits is the width of a single word.
const WordBits = 32

// Sentinel errors for encoding operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrOutOfRange indicates a value does not fit in the requested word count.
	ErrOutOfRange = errors.New("integer out of range")

	// ErrMessageLength indicates a message does not fit in its declared length.
	ErrMessageLength = errors.New("message does not fit in declared length")

	// ErrNegative indicates a negative or missing value.
	ErrNegative = errors.New("value must be a non-negative integer")
)

// Policy controls what happens to bits beyond the encoded width.
type Policy int

const (
	// Checked rejects values that do not fit with ErrOutOfRange.
	Checked Policy = iota

	// Truncate silently keeps only the low words.
	Truncate
)

// String returns the policy name as used in family definitions.
func (p Policy) String() string {
	switch p {
	case Checked:
		return "checked"
	case Truncate:
		return "truncate"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

var wordMask = big.NewInt(0xffffffff)

// Words splits x into exactly n 32-bit words, least-significant first.
// The input is not modified.
func Words(x *big.Int, n int, policy Policy) ([]uint32, error) {
	if x == nil || x.Sign() < 0 {
		return nil, ErrNegative
	}
	if n <= 0 {
		return nil, fmt.Errorf("word count must be positive, got %d", n)
	}

	rest := new(big.Int).Set(x)
	low := new(big.Int)
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		low.And(rest, wordMask)
		out[i] = uint32(low.Uint64())
		rest.Rsh(rest, WordBits)
	}

	if policy == Checked && rest.Sign() != 0 {
		return nil, fmt.Errorf("%w: %d bits do not fit in %d words", ErrOutOfRange, x.BitLen(), n)
	}
	return out, nil
}

// HexWords is Words with every word rendered as a 10-character hex literal
// (0x followed by 8 lowercase digits).
func HexWords(x *big.Int, n int, policy Policy) ([]string, error) {
	ws, err := Words(x, n, policy)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = fmt.Sprintf("0x%08x", w)
	}
	return out, nil
}

// FromWords reassembles little-endian 32-bit words into an integer.
func FromWords(ws []uint32) *big.Int {
	x := new(big.Int)
	for i := len(ws) - 1; i >= 0; i-- {
		x.Lsh(x, WordBits)
		x.Or(x, big.NewInt(int64(ws[i])))
	}
	return x
}

// MessageBytes encodes msg as exactly length big-endian bytes.
func MessageBytes(msg *big.Int, length int) ([]byte, error) {
	if msg == nil || msg.Sign() < 0 {
		return nil, ErrNegative
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrNegative, length)
	}

	need := (msg.BitLen() + 7) / 8
	if need > length {
		return nil, fmt.Errorf("%w: value needs %d bytes, declared %d", ErrMessageLength, need, length)
	}

	out := make([]byte, length)
	msg.FillBytes(out)
	return out, nil
}
