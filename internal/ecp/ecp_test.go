package ecp_test

import (
	"testing"

	"github.com/agievich/bee2go/internal/bign"
	"github.com/agievich/bee2go/internal/ecp"
	"github.com/agievich/bee2go/internal/word"
)

// curve192 borrows the secp192r1-backed bign96 level (internal/bign/params.go)
// as a real, independently-verified prime-order curve to exercise spec.md
// §8 Universal invariant #2 (curve group laws) against.
func curve192(t *testing.T) *ecp.Curve {
	t.Helper()
	lv, err := bign.ParamsFor(24)
	if err != nil {
		t.Fatalf("bign.ParamsFor(24): %v", err)
	}
	return lv.Curve
}

func TestBasePointIsOnCurve(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)
	if !c.IsOnCurve(base) {
		t.Fatal("curve base point fails IsOnCurve")
	}
}

func TestDblMatchesAddSelf(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)
	dbl := c.Dbl(base)
	add := c.Add(base, base)
	assertSamePoint(t, c, dbl, add)
}

func TestIdentityIsAdditiveUnit(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)
	id := c.Identity()
	sum := c.Add(base, id)
	assertSamePoint(t, c, sum, base)
	if !c.IsIdentity(id) {
		t.Fatal("Identity() is not reported as identity")
	}
}

func TestPointPlusNegIsIdentity(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)
	neg := c.Neg(base)
	sum := c.Add(base, neg)
	if !c.IsIdentity(sum) {
		t.Fatal("p + (-p) is not the identity")
	}
}

func TestMulAByOrderIsIdentity(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)
	_, _, ok := c.MulA(c.Order, base)
	if ok {
		t.Fatal("MulA(order, base) should report failure: the result is the identity, which ToAffine cannot represent")
	}
}

func TestMulAByOrderPlusOneIsBase(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)

	nPlus1 := make([]word.Word, len(c.Order)+1)
	copy(nPlus1, c.Order)
	addOne(nPlus1)

	qx, qy, ok := c.MulA(nPlus1, base)
	if !ok {
		t.Fatal("MulA(order+1, base) reported failure")
	}
	if !wordsEqual(qx, c.BaseX) || !wordsEqual(qy, c.BaseY) {
		t.Fatal("MulA(order+1, base) != base")
	}
}

func TestMulATwoMatchesDbl(t *testing.T) {
	c := curve192(t)
	base := c.FromAffine(c.BaseX, c.BaseY)
	two := make([]word.Word, len(c.Order))
	two[0] = 2

	qx, qy, ok := c.MulA(two, base)
	if !ok {
		t.Fatal("MulA(2, base) reported failure")
	}
	dbl := c.Dbl(base)
	dx, dy, dok := c.ToAffine(dbl)
	if !dok {
		t.Fatal("ToAffine(Dbl(base)) reported failure")
	}
	if !wordsEqual(qx, dx) || !wordsEqual(qy, dy) {
		t.Fatal("MulA(2, base) != Dbl(base) in affine form")
	}
}

func TestIsValidAndSeemsValidGroup(t *testing.T) {
	c := curve192(t)
	if !c.IsValid() {
		t.Fatal("curve reports invalid (singular) despite real secp192r1 constants")
	}
	if !c.SeemsValidGroup() {
		t.Fatal("curve group fails the Hasse-bound check")
	}
	if !c.IsSafeGroup(50) {
		t.Fatal("curve group fails the anti-MOV safety check")
	}
}

func assertSamePoint(t *testing.T, c *ecp.Curve, p, q ecp.Point) {
	t.Helper()
	px, py, pok := c.ToAffine(p)
	qx, qy, qok := c.ToAffine(q)
	if pok != qok {
		t.Fatalf("ToAffine ok mismatch: %v vs %v", pok, qok)
	}
	if pok && (!wordsEqual(px, qx) || !wordsEqual(py, qy)) {
		t.Fatal("points differ in affine form")
	}
}

func wordsEqual(a, b []word.Word) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv word.Word
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return false
		}
	}
	return true
}

func addOne(a []word.Word) {
	for i := range a {
		a[i]++
		if a[i] != 0 {
			return
		}
	}
}
