// Package ww implements fixed-width arrays of word.Word, little-endian
// (index 0 is the least significant word). zz (integers) and pp (binary
// polynomials) share this physical representation; ww only knows about
// word positions and bit positions, never about which algebra is layered
// on top (spec.md §3.2).
package ww

import (
	"encoding/binary"

	"github.com/agievich/bee2go/internal/word"
)

// Word arrays are plain little-endian []word.Word slices; the package
// defines no named array type. Callers that received an array as a (ptr, n) pair in the C original pass it here simply as a slice of
// explicit length n; Go slices already carry their own length, so every
// function below takes n only when it differs from len(a) (e.g. a caller
// wants to treat a longer backing array as logically shorter).

// WordLen returns the index of the topmost non-zero word plus 1 ("word
// size" in spec.md §3.1). Returns 0 for an all-zero array.
func WordLen(a []word.Word) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// BitLen returns the position of the topmost 1-bit plus 1. Returns 0 for an
// all-zero array.
func BitLen(a []word.Word) int {
	n := WordLen(a)
	if n == 0 {
		return 0
	}
	return (n-1)*word.Bits + word.BitLen(a[n-1])
}

// IsZero reports whether every word of a is zero. Not constant-time.
func IsZero(a []word.Word) bool {
	for _, w := range a {
		if w != 0 {
			return false
		}
	}
	return true
}

// CTIsZero is the constant-time counterpart of IsZero: it always scans all
// of a and never branches on the values, as required of any routine the
// Safe-tagged reduction/compare families call on secret input (spec.md §5).
func CTIsZero(a []word.Word) bool {
	var acc word.Word
	for _, w := range a {
		acc |= w
	}
	return acc == 0
}

// Cmp compares a and b (equal length) as unsigned base-2^Bits integers.
// Not constant-time: used only on public lengths/moduli.
func Cmp(a, b []word.Word) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// CTCmp compares a and b (equal length) like Cmp, returning -1, 0 or 1. It
// scans every word from the most significant down in one pass with no early
// exit, so the number of iterations never depends on which words differ or
// in which direction.
func CTCmp(a, b []word.Word) int {
	var lt, gt word.Word
	for i := len(a) - 1; i >= 0; i-- {
		eq := word.CTEq(a[i], b[i])
		thisLt := word.CTLess(a[i], b[i]) &^ lt &^ gt
		thisGt := word.CTLess(b[i], a[i]) &^ lt &^ gt
		lt |= thisLt &^ eq
		gt |= thisGt &^ eq
	}
	switch {
	case lt != 0:
		return -1
	case gt != 0:
		return 1
	default:
		return 0
	}
}

// Bit returns bit i of a (0 or 1).
func Bit(a []word.Word, i int) int {
	wi, bi := i/word.Bits, uint(i%word.Bits)
	if wi >= len(a) {
		return 0
	}
	return int((a[wi] >> bi) & 1)
}

// SetBit sets bit i of a to v (0 or 1).
func SetBit(a []word.Word, i int, v int) {
	wi, bi := i/word.Bits, uint(i%word.Bits)
	if v != 0 {
		a[wi] |= word.Word(1) << bi
	} else {
		a[wi] &^= word.Word(1) << bi
	}
}

// Copy copies min(len(dst), len(src)) words from src to dst and zero-extends
// any remaining words of dst.
func Copy(dst, src []word.Word) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// ShiftLeftBits shifts a left by d bits (0 <= d < Bits), writing into c
// (len(c) == len(a)); returns the bits shifted out of the top, right-aligned
// in a word.Word.
func ShiftLeftBits(c, a []word.Word, d int) word.Word {
	if d == 0 {
		copy(c, a)
		return 0
	}
	var carry word.Word
	for i := 0; i < len(a); i++ {
		w := a[i]
		c[i] = (w << uint(d)) | carry
		carry = w >> uint(word.Bits-d)
	}
	return carry
}

// ShiftRightBits shifts a right by d bits (0 <= d < Bits), writing into c.
func ShiftRightBits(c, a []word.Word, d int) word.Word {
	if d == 0 {
		copy(c, a)
		return 0
	}
	var carry word.Word
	for i := len(a) - 1; i >= 0; i-- {
		w := a[i]
		c[i] = (w >> uint(d)) | carry
		carry = w << uint(word.Bits-d)
	}
	return carry
}

// FromBytes parses a little-endian byte slice into a word array of length
// n = ceil(len(b)/8), zero-padding the top word.
func FromBytes(b []byte) []word.Word {
	n := (len(b) + 7) / 8
	a := make([]word.Word, n)
	buf := make([]byte, n*8)
	copy(buf, b)
	for i := 0; i < n; i++ {
		a[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return a
}

// ToBytes serializes a as exactly no little-endian bytes, truncating or
// zero-padding as needed (the caller knows the ring/curve's external byte
// length, which need not be a multiple of 8).
func ToBytes(a []word.Word, no int) []byte {
	buf := make([]byte, len(a)*8)
	for i, w := range a {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	out := make([]byte, no)
	copy(out, buf)
	return out
}
