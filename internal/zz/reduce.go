package zz

import (
	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/ww"
)

// BarrettMu precomputes mu = floor(B^(2n) / m) for an n-word odd modulus m,
// where B = 2^word.Bits (spec.md §4.1 family 2). mu has n+2 words.
func BarrettMu(m []word.Word) []word.Word {
	n := len(m)
	num := make([]word.Word, 2*n+3)
	num[2*n] = 1 // B^(2n)
	mu := make([]word.Word, n+2)
	rem := make([]word.Word, n)
	Div(mu, rem, num, m)
	return mu[:n+2]
}

// BarrettReduce reduces a 2n-word value a modulo the n-word modulus m,
// given the precomputed mu from BarrettMu. Two rounds of estimate-multiply
// followed by at most two final subtractions, as described in spec.md
// §4.1 family 2.
func BarrettReduce(r, a, m, mu []word.Word) {
	n := len(m)
	// q = floor(a / B^(n-1)) ; q = floor(q*mu / B^(n+1)) ; r = a - q*m
	hi := make([]word.Word, len(a)-(n-1))
	copy(hi, a[n-1:])
	qmu := make([]word.Word, len(hi)+len(mu))
	Mul(qmu, hi, mu)
	q := qmu[n+1:]
	qm := make([]word.Word, len(q)+n)
	Mul(qm, q, m)
	full := make([]word.Word, len(a))
	copy(full, a)
	tmp := make([]word.Word, len(full))
	borrow := Sub(tmp, full, padTo(qm, len(full)))
	_ = borrow
	copy(r, tmp[:n])
	// at most two conditional final subtractions
	for i := 0; i < 2; i++ {
		if Cmp(r, m) >= 0 {
			Sub(r, r, m)
		}
	}
}

func padTo(a []word.Word, n int) []word.Word {
	if len(a) >= n {
		return a[:n]
	}
	out := make([]word.Word, n)
	copy(out, a)
	return out
}

// MontgomeryConst computes m* = -m[0]^-1 mod 2^word.Bits for the Dusse-
// Kaliski reduction (spec.md §4.1 family 3). m[0] must be odd.
func MontgomeryConst(m []word.Word) word.Word {
	return word.NegInv(m[0])
}

// MontgomeryReduce implements the Dusse-Kaliski REDC: given a 2n-word
// product t, an n-word odd modulus m and its constant mStar, computes
// r = t * R^-1 mod m where R = B^n, with at most one final subtraction.
func MontgomeryReduce(r, t, m []word.Word, mStar word.Word) {
	n := len(m)
	a := make([]word.Word, len(t)+1)
	copy(a, t)
	for i := 0; i < n; i++ {
		u := a[i] * mStar
		// a += u*m*B^i
		prod := make([]word.Word, n+1)
		Mul(prod, []word.Word{u}, m)
		shifted := make([]word.Word, len(a)-i)
		copy(shifted, a[i:])
		carry := Add(shifted, shifted, padTo(prod, len(shifted)))
		copy(a[i:], shifted)
		// propagate carry upward
		j := i + len(shifted)
		for carry != 0 && j < len(a) {
			s := a[j] + carry
			carry = 0
			if s < a[j] {
				carry = 1
			}
			a[j] = s
			j++
		}
	}
	copy(r, a[n:n+n])
	if Cmp(r, m) >= 0 {
		Sub(r, r, m)
	}
}

// MontgomeryR2 computes R^2 mod m = B^(2n) mod m, used to convert into and
// out of Montgomery form (one Mul+MontgomeryReduce each way).
func MontgomeryR2(m []word.Word) []word.Word {
	n := len(m)
	num := make([]word.Word, 2*n+1)
	num[2*n] = 1
	r := make([]word.Word, n)
	Mod(r, num, m)
	return r
}

// ToMontgomery converts a into Montgomery form: aR mod m.
func ToMontgomery(a, m, r2 []word.Word, mStar word.Word) []word.Word {
	n := len(m)
	t := make([]word.Word, 2*n)
	Mul(t, padTo(a, n), r2)
	out := make([]word.Word, n)
	MontgomeryReduce(out, t, m, mStar)
	return out
}

// FromMontgomery converts aR mod m back to a.
func FromMontgomery(aR, m []word.Word, mStar word.Word) []word.Word {
	n := len(m)
	t := make([]word.Word, 2*n)
	copy(t, aR)
	out := make([]word.Word, n)
	MontgomeryReduce(out, t, m, mStar)
	return out
}

// CrandallReduce reduces a 2n-word value a modulo a Crandall modulus
// m = B^n - c (0 < c < B), via two linear sweeps: fold the high half back
// in scaled by c, propagate carries, then at most one conditional add of c
// (spec.md §4.1 family 4).
func CrandallReduce(r, a []word.Word, n int, c word.Word) {
	lo := make([]word.Word, n)
	copy(lo, a[:n])
	hi := make([]word.Word, len(a)-n+1)
	copy(hi, a[n:])
	// lo += c * hi. Whatever lands above n words (the high words of c*hi
	// and the carry of the addition) is folded in again, since B^n = c.
	for !ww.IsZero(hi) {
		prod := make([]word.Word, len(hi)+1)
		Mul(prod, hi, []word.Word{c})
		carry := Add(lo, lo, padTo(prod, n))
		ww.Copy(hi, nil)
		if len(prod) > n {
			copy(hi, prod[n:])
		}
		Add(hi, hi, padTo([]word.Word{carry}, len(hi)))
	}
	copy(r, lo)
	m := crandallModulus(n, c)
	if Cmp(r, m) >= 0 {
		Sub(r, r, m)
	}
}

// crandallModulus returns B^n - c as an n-word array.
func crandallModulus(n int, c word.Word) []word.Word {
	bn := make([]word.Word, n+1)
	bn[n] = 1
	cw := make([]word.Word, n+1)
	cw[0] = c
	out := make([]word.Word, n+1)
	Sub(out, bn, cw)
	return out[:n]
}
