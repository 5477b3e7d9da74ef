package ecp

import (
	"math/big"

	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/zz"
)

// window is the fixed NAF window width used by MulA. spec.md §4.4 allows
// 2..6; 5 balances table size (2^(w-2) points) against digit count for the
// 192/256/384-bit scalars bign's parameter levels use.
const window = 5

// MulA computes q = d*p in affine form via windowed-NAF scalar
// multiplication (spec.md §4.4): precompute the odd multiples of p in
// Jacobian form, convert d to non-adjacent form, and scan from the top,
// doubling and then adding the selected table point with Add. Every table
// lookup goes through a constant-time select over all precomputed points,
// so the lookup's memory-access pattern does not depend on d's digits. The
// rest does depend on them: zero digits skip the addition, negative digits
// negate the selected point by a branch, and the NAF recoding runs on
// math/big, so MulA is not constant-time in d.
//
// Returns ok=false if d == 0 or p is the identity (spec.md §4.4 "Special
// cases").
func (c *Curve) MulA(d []word.Word, p Point) (qx, qy []word.Word, ok bool) {
	if allZero(d) || c.IsIdentity(p) {
		return nil, nil, false
	}

	naf := nafDigits(d, window)

	// Precompute odd multiples 1*p, 3*p, 5*p, ..., (2^(w-1)-1)*p in
	// Jacobian form.
	tableSize := 1 << (window - 2)
	table := make([]Point, tableSize)
	table[0] = p
	twoP := c.Dbl(p)
	for i := 1; i < tableSize; i++ {
		table[i] = c.Add(table[i-1], twoP)
	}

	acc := c.Identity()
	for i := len(naf) - 1; i >= 0; i-- {
		acc = c.Dbl(acc)
		d := naf[i]
		if d == 0 {
			continue
		}
		idx := (abs(d) - 1) / 2
		sel := constTimeSelect(table, idx)
		if d < 0 {
			sel = c.Neg(sel)
		}
		acc = c.Add(acc, sel)
	}

	x, y, okAffine := c.ToAffine(acc)
	if !okAffine {
		return nil, nil, false
	}
	return x, y, true
}

// constTimeSelect returns a copy of table[idx] without branching on idx:
// every entry is scanned and masked in, so the access pattern is uniform
// regardless of which index is wanted (spec.md §4.4's "no branch and no
// memory access pattern may depend on any window digit").
func constTimeSelect(table []Point, idx int) Point {
	n := len(table[0].X)
	x := make([]word.Word, n)
	y := make([]word.Word, n)
	z := make([]word.Word, n)
	for i, p := range table {
		mask := word.CTEq(word.Word(i), word.Word(idx))
		for j := 0; j < n; j++ {
			x[j] |= p.X[j] & mask
			y[j] |= p.Y[j] & mask
			z[j] |= p.Z[j] & mask
		}
	}
	return Point{X: x, Y: y, Z: z}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func allZero(a []word.Word) bool {
	for _, w := range a {
		if w != 0 {
			return false
		}
	}
	return true
}

// nafDigits computes the width-w non-adjacent form of d, least-significant
// digit first. Each digit is 0 or an odd value in [-(2^(w-1)-1),
// 2^(w-1)-1].
func nafDigits(d []word.Word, w int) []int {
	x := zz.ToBig(d)
	var digits []int
	mod := big.NewInt(1 << uint(w))
	half := big.NewInt(1 << uint(w-1))
	zero := big.NewInt(0)
	two := big.NewInt(2)
	for x.Cmp(zero) > 0 {
		if x.Bit(0) == 1 {
			r := new(big.Int).Mod(x, mod)
			ri := int(r.Int64())
			if ri >= int(half.Int64()) {
				ri -= int(mod.Int64())
			}
			digits = append(digits, ri)
			x.Sub(x, big.NewInt(int64(ri)))
		} else {
			digits = append(digits, 0)
		}
		x.Div(x, two)
	}
	return digits
}

// IsValid checks field/curve well-formedness: the curve is non-singular
// (4A^3+27B^2 != 0) and A, B are elements of the field (spec.md §4.4
// "Curve validation").
func (c *Curve) IsValid() bool {
	F := c.F
	p := zz.ToBig(F.Mod())
	if zz.ToBig(c.A).Cmp(p) >= 0 || zz.ToBig(c.B).Cmp(p) >= 0 {
		return false
	}
	n := c.n()
	a3 := make([]word.Word, n)
	F.Sqr(a3, c.A)
	F.Mul(a3, a3, c.A)
	four := make([]word.Word, n)
	F.Double(four, F.Unity())
	F.Double(four, four)
	t1 := make([]word.Word, n)
	F.Mul(t1, four, a3)

	b2 := make([]word.Word, n)
	F.Sqr(b2, c.B)
	twentySeven := repeatedAdd(F, 27)
	t2 := make([]word.Word, n)
	F.Mul(t2, twentySeven, b2)

	disc := make([]word.Word, n)
	F.Add(disc, t1, t2)
	for _, w := range disc {
		if w != 0 {
			return true
		}
	}
	return false
}

func repeatedAdd(F interface {
	Unity() []word.Word
	Add(c, a, b []word.Word)
}, k int) []word.Word {
	acc := make([]word.Word, len(F.Unity()))
	copy(acc, F.Unity())
	for i := 1; i < k; i++ {
		F.Add(acc, acc, F.Unity())
	}
	return acc
}

// SeemsValidGroup checks that the base point lies on the curve and that
// order*cofactor approximates #E(F_p) within the Hasse bound
// |order*cofactor - (p+1)| <= 2*sqrt(p) (spec.md §4.4), tested by squaring
// both sides to avoid a square root.
func (c *Curve) SeemsValidGroup() bool {
	base := c.FromAffine(c.BaseX, c.BaseY)
	if !c.IsOnCurve(base) {
		return false
	}
	p := zz.ToBig(c.F.Mod())
	order := zz.ToBig(c.Order)
	cof := big.NewInt(int64(c.Cofactor))
	n := new(big.Int).Mul(order, cof)
	pPlus1 := new(big.Int).Add(p, big.NewInt(1))
	diff := new(big.Int).Sub(n, pPlus1)
	diff.Abs(diff)
	diff2 := new(big.Int).Mul(diff, diff)
	fourP := new(big.Int).Lsh(p, 2)
	return diff2.Cmp(fourP) <= 0
}

// IsSafeGroup rejects a group whose order is composite, equals p, or
// divides p^k-1 for 1<=k<=movThreshold (the anti-MOV check, spec.md §4.4).
func (c *Curve) IsSafeGroup(movThreshold int) bool {
	order := zz.ToBig(c.Order)
	if !order.ProbablyPrime(40) {
		return false
	}
	p := zz.ToBig(c.F.Mod())
	if order.Cmp(p) == 0 {
		return false
	}
	pk := big.NewInt(1)
	for k := 1; k <= movThreshold; k++ {
		pk.Mul(pk, p)
		t := new(big.Int).Sub(pk, big.NewInt(1))
		m := new(big.Int).Mod(t, order)
		if m.Sign() == 0 {
			return false
		}
	}
	return true
}
