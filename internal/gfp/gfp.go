// Package gfp specializes qr.Ring to GF(p) for an odd prime p, adding the
// half/double/sign operations elliptic-curve point arithmetic needs on top
// of the generic ring method table (spec.md §4.3, component 7).
package gfp

import (
	"github.com/agievich/bee2go/internal/qr"
	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/zz"
)

// Field is a GF(p) ring plus the extra odd-modulus-only operations.
type Field struct {
	qr.Ring
}

// Create builds a GF(p) field descriptor for an odd prime p.
func Create(no int, p []word.Word) *Field {
	return &Field{Ring: qr.GFPCreate(no, p)}
}

// Half computes c = a/2 in the field (a*inverse-of-2).
func (f *Field) Half(c, a []word.Word) {
	zz.HalfMod(c, a, f.Mod())
}

// Double computes c = 2*a in the field.
func (f *Field) Double(c, a []word.Word) {
	zz.DoubleMod(c, a, f.Mod())
}

// Sign returns 0 or 1: the parity of a's canonical (non-Montgomery)
// representative, the "sign" bit STB 34.101.45 point compression uses.
func (f *Field) Sign(a []word.Word) int {
	// a is in whatever internal form the Ring uses; convert through bytes
	// to get the canonical residue regardless of representation.
	b := f.ToBytes(a)
	if len(b) == 0 {
		return 0
	}
	return int(b[0] & 1)
}
