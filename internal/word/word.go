// Package word provides machine-word primitives for the multi-precision
// layers built on top of it (ww, zz, pp). A Word is a uint64: the teacher's
// field-arithmetic files (e.g. crypto/bn254_fp.go) work one level up on
// *big.Int, but every layer underneath a ring descriptor in this module
// needs to reason about individual 64-bit limbs, so this package fixes the
// word width at 64 bits rather than leaving it generic (see DESIGN.md for
// why 32/16-bit words were dropped).
//
// Routines here that are meant to run on secret data are named with a
// "CT" prefix and must not branch or index memory on their Word arguments.
package word

import (
	"math/big"
	"math/bits"
)

// Word is the machine word bee2go's multi-precision layers are built from.
type Word = uint64

// Bits is the width of a Word in bits.
const Bits = 64

// Max is the all-ones Word, 2^Bits - 1.
const Max Word = ^Word(0)

// CTEq returns Max if a == b, else 0, without branching on a or b.
func CTEq(a, b Word) Word {
	return ctZeroMask(a ^ b)
}

// ctZeroMask returns Max if x == 0, else 0.
func ctZeroMask(x Word) Word {
	y := x | -x // top bit set iff x != 0
	return (y >> (Bits - 1)) - 1
}

// CTLess returns Max if a < b, else 0, without branching on a or b.
func CTLess(a, b Word) Word {
	// Classic constant-time unsigned less-than via borrow of a - b.
	_, borrow := bits.Sub64(a, b, 0)
	return -Word(borrow)
}

// CTSelect returns x if mask == Max, y if mask == 0 (mask must be one of
// those two values, as produced by CTEq/CTLess/ctZeroMask).
func CTSelect(mask, x, y Word) Word {
	return (x & mask) | (y &^ mask)
}

// BitLen returns the position of the topmost 1-bit plus 1 (0 for w == 0).
// Not constant-time: used only on public lengths/moduli.
func BitLen(w Word) int { return bits.Len64(w) }

// OnesCount returns the number of set bits in w.
func OnesCount(w Word) int { return bits.OnesCount64(w) }

// ByteReverse reverses the byte order of w.
func ByteReverse(w Word) Word { return bits.ReverseBytes64(w) }

// wordModulus is 2^64 as a big.Int, used by NegInv below. Computing a
// modular inverse of a single word is a one-time, per-ring setup cost (it
// runs once when a qr.Ring is constructed), not a per-operation hot path,
// so reaching for math/big here rather than hand-rolling a Newton iteration
// keeps the setup code simple without affecting the constant-time
// discipline of the reduction loops that consume its result.
var wordModulus = new(big.Int).Lsh(big.NewInt(1), Bits)

// NegInv returns -a^{-1} mod 2^Bits, the Montgomery constant m* such that
// a*m* = -1 (mod 2^Bits). a must be odd; panics otherwise since every caller
// (qr.Ring construction) already guarantees it.
func NegInv(a Word) Word {
	if a&1 == 0 {
		panic("word: NegInv of an even word")
	}
	ab := new(big.Int).SetUint64(a)
	inv := new(big.Int).ModInverse(ab, wordModulus)
	if inv == nil {
		panic("word: NegInv: no inverse")
	}
	neg := new(big.Int).Sub(wordModulus, inv)
	return neg.Uint64()
}
