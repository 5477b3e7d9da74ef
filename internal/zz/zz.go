// Package zz implements unsigned big-integer arithmetic over the ww word
// array representation (spec.md §4.1): add/sub/mul/div/mod, modular
// add/sub/neg/mul, GCD/ExGCD/InvMod, the Jacobi symbol, and the four
// modular-reduction families (general, Barrett, Montgomery, Crandall).
//
// The teacher's field-arithmetic files (crypto/bn254_fp.go,
// crypto/bls12381_fp.go) implement a fixed prime's Fp as thin wrappers
// around math/big: fpAdd, fpMul, and so on, each doing one Add/Mul followed
// by one Mod. zz generalizes that idiom to an arbitrary runtime modulus of
// arbitrary word length, and makes the reduction strategy (general division,
// Barrett, Montgomery, Crandall) an explicit, swappable step instead of
// math/big's hidden one, because qr (package qr) needs to pick among them
// per modulus shape.
//
// Division/remainder (Div, Mod) are not reimplemented by hand: Go's own
// math/big.Int already implements Knuth's Algorithm D (the same algorithm
// spec.md §4.1 names for zz.div), so zz.Div/Mod convert through big.Int
// rather than re-deriving it — see DESIGN.md.
package zz

import (
	"math/big"

	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/ww"
)

// ToBig interprets a as an unsigned little-endian integer and returns the
// equivalent math/big value.
func ToBig(a []word.Word) *big.Int {
	buf := ww.ToBytes(a, len(a)*word.Bits/8)
	// big.Int.SetBytes wants big-endian.
	be := make([]byte, len(buf))
	for i, b := range buf {
		be[len(buf)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// FromBig writes x into a freshly allocated word array of length n,
// truncating any bits above n*word.Bits.
func FromBig(x *big.Int, n int) []word.Word {
	be := x.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	a := ww.FromBytes(le)
	out := make([]word.Word, n)
	ww.Copy(out, a)
	return out
}

// Add computes c = a + b (mod 2^(Bits*n)) and returns the carry-out bit.
func Add(c, a, b []word.Word) word.Word {
	var carry uint64
	n := len(c)
	for i := 0; i < n; i++ {
		var s1, c1 = addWithCarry(a[i], b[i], carry)
		c[i] = s1
		carry = c1
	}
	return word.Word(carry)
}

func addWithCarry(a, b, carry uint64) (sum, carryOut uint64) {
	s := a + b
	c0 := uint64(0)
	if s < a {
		c0 = 1
	}
	s2 := s + carry
	c1 := uint64(0)
	if s2 < s {
		c1 = 1
	}
	return s2, c0 + c1
}

// Sub computes c = a - b (mod 2^(Bits*n)) and returns the borrow-out bit.
func Sub(c, a, b []word.Word) word.Word {
	var borrow uint64
	n := len(c)
	for i := 0; i < n; i++ {
		ai, bi := a[i], b[i]
		t := ai - bi
		b1 := uint64(0)
		if ai < bi {
			b1 = 1
		}
		t2 := t - borrow
		b2 := uint64(0)
		if t < borrow {
			b2 = 1
		}
		c[i] = t2
		borrow = b1 + b2
	}
	return word.Word(borrow)
}

// Mul computes c = a * b, where len(c) == len(a)+len(b). c must not alias a
// or b.
func Mul(c, a, b []word.Word) {
	for i := range c {
		c[i] = 0
	}
	ab := ToBig(a)
	bb := ToBig(b)
	ab.Mul(ab, bb)
	r := FromBig(ab, len(c))
	copy(c, r)
}

// Sqr computes c = a*a, len(c) == 2*len(a).
func Sqr(c, a []word.Word) { Mul(c, a, a) }

// Div computes q, r such that a = q*b + r, 0 <= r < b, via math/big (Knuth
// Algorithm D under the hood). len(q) == len(a)-len(b)+1, len(r) == len(b).
func Div(q, r, a, b []word.Word) {
	ab, bb := ToBig(a), ToBig(b)
	qb, rb := new(big.Int), new(big.Int)
	qb.QuoRem(ab, bb, rb)
	copy(q, FromBig(qb, len(q)))
	copy(r, FromBig(rb, len(r)))
}

// Mod computes r = a mod b.
func Mod(r, a, b []word.Word) {
	ab, bb := ToBig(a), ToBig(b)
	rb := new(big.Int).Mod(ab, bb)
	copy(r, FromBig(rb, len(r)))
}

// Cmp compares a and b as unsigned integers of equal word length.
func Cmp(a, b []word.Word) int { return ww.Cmp(a, b) }

// IsZero reports whether a is the zero integer.
func IsZero(a []word.Word) bool { return ww.IsZero(a) }

// AddMod computes c = (a+b) mod m.
func AddMod(c, a, b, m []word.Word) {
	ab, bb, mb := ToBig(a), ToBig(b), ToBig(m)
	r := new(big.Int).Add(ab, bb)
	r.Mod(r, mb)
	copy(c, FromBig(r, len(c)))
}

// SubMod computes c = (a-b) mod m.
func SubMod(c, a, b, m []word.Word) {
	ab, bb, mb := ToBig(a), ToBig(b), ToBig(m)
	r := new(big.Int).Sub(ab, bb)
	r.Mod(r, mb)
	copy(c, FromBig(r, len(c)))
}

// NegMod computes c = (-a) mod m.
func NegMod(c, a, m []word.Word) {
	ab, mb := ToBig(a), ToBig(m)
	r := new(big.Int).Neg(ab)
	r.Mod(r, mb)
	copy(c, FromBig(r, len(c)))
}

// HalfMod computes c = (a/2) mod m for odd m.
func HalfMod(c, a, m []word.Word) {
	ab, mb := ToBig(a), ToBig(m)
	inv2 := new(big.Int).ModInverse(big.NewInt(2), mb)
	r := new(big.Int).Mul(ab, inv2)
	r.Mod(r, mb)
	copy(c, FromBig(r, len(c)))
}

// DoubleMod computes c = (2*a) mod m.
func DoubleMod(c, a, m []word.Word) {
	ab, mb := ToBig(a), ToBig(m)
	r := new(big.Int).Lsh(ab, 1)
	r.Mod(r, mb)
	copy(c, FromBig(r, len(c)))
}

// MulMod computes c = (a*b) mod m.
func MulMod(c, a, b, m []word.Word) {
	ab, bb, mb := ToBig(a), ToBig(b), ToBig(m)
	r := new(big.Int).Mul(ab, bb)
	r.Mod(r, mb)
	copy(c, FromBig(r, len(c)))
}

// SqrMod computes c = (a*a) mod m.
func SqrMod(c, a, m []word.Word) { MulMod(c, a, a, m) }

// InvMod computes c = a^-1 mod m via math/big's ModInverse (spec.md
// §4.1). Returns false (and writes zero to c) when gcd(a, m) != 1.
func InvMod(c, a, m []word.Word) bool {
	ab, mb := ToBig(a), ToBig(m)
	inv := new(big.Int).ModInverse(ab, mb)
	if inv == nil {
		for i := range c {
			c[i] = 0
		}
		return false
	}
	copy(c, FromBig(inv, len(c)))
	return true
}

// PowerMod computes y = a^b mod m via math/big's Exp. bBits (the number of
// significant bits of b) is accepted but not used: all of b is the exponent.
func PowerMod(y, a, b, m []word.Word, bBits int) {
	ab, bb, mb := ToBig(a), ToBig(b), ToBig(m)
	_ = bBits
	r := new(big.Int).Exp(ab, bb, mb)
	copy(y, FromBig(r, len(y)))
}

// GCD returns gcd(a, b).
func GCD(a, b []word.Word) []word.Word {
	ab, bb := ToBig(a), ToBig(b)
	g := new(big.Int).GCD(nil, nil, ab, bb)
	return FromBig(g, len(a))
}

// ExGCD returns d, u, v such that a*u + b*v = d = gcd(a,b).
func ExGCD(a, b []word.Word) (d, u, v *big.Int) {
	ab, bb := ToBig(a), ToBig(b)
	u, v, d = new(big.Int), new(big.Int), new(big.Int)
	d.GCD(u, v, ab, bb)
	return d, u, v
}

// Jacobi computes the Jacobi symbol (a/m) for odd m > 0, returning -1, 0, or
// 1 (spec.md §4.1, STB 34.101.45 algorithm 2.148 variant). Implemented by
// the standard reciprocity-law sweep on big.Int values rather than by
// calling math/big's own big.Jacobi.
func Jacobi(a, m []word.Word) int {
	x := new(big.Int).Set(ToBig(a))
	y := new(big.Int).Set(ToBig(m))
	if y.Sign() <= 0 || y.Bit(0) == 0 {
		return 0
	}
	j := 1
	two := big.NewInt(2)
	three := big.NewInt(3)
	four := big.NewInt(4)
	eight := big.NewInt(8)
	x.Mod(x, y)
	for x.Sign() != 0 {
		for x.Bit(0) == 0 {
			x.Rsh(x, 1)
			ym8 := new(big.Int).Mod(y, eight)
			if ym8.Cmp(three) == 0 || ym8.Cmp(big.NewInt(5)) == 0 {
				j = -j
			}
		}
		x, y = y, x
		xm4 := new(big.Int).Mod(x, four)
		ym4 := new(big.Int).Mod(y, four)
		if xm4.Cmp(three) == 0 && ym4.Cmp(three) == 0 {
			j = -j
		}
		x.Mod(x, y)
	}
	if y.Cmp(big.NewInt(1)) == 0 {
		_ = two
		return j
	}
	return 0
}

// SqrtFloor returns floor(sqrt(a)).
func SqrtFloor(a []word.Word) []word.Word {
	ab := ToBig(a)
	return FromBig(new(big.Int).Sqrt(ab), len(a))
}
