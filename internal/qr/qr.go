// Package qr implements the quotient-ring descriptor of spec.md §3.3: a
// value carrying the modulus, its word/byte lengths, and a method table for
// add/sub/neg/mul/sqr/inv/from-bytes/to-bytes, with the reduction strategy
// (Barrett, Montgomery, Crandall) hidden behind the interface.
//
// spec.md's design notes (§9) call out that the C original dispatches these
// through function pointers in the descriptor, and suggests either a sealed
// trait or a tagged enum as the Go-shaped translation. This package takes
// the trait route: Ring is a small sealed interface implemented by three
// unexported concrete types, one per reduction family, so each family has
// its own method set and calls go through ordinary interface dispatch
// instead of a switch on a tag.
package qr

import (
	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/ww"
	"github.com/agievich/bee2go/internal/zz"
)

// Ring is the method table spec.md §3.3 calls the quotient-ring descriptor.
// Every concrete Ring is created once per parameter set and is safe for
// concurrent read-only use afterward (spec.md §5): none of its methods
// mutate the Ring itself, only the caller-supplied buffers.
type Ring interface {
	N() int            // word length of the modulus and residues
	No() int            // byte length for external I/O
	Mod() []word.Word   // canonical modulus
	Unity() []word.Word // representation of 1 in this ring's internal form

	FromBytes(b []byte) []word.Word
	ToBytes(a []word.Word) []byte

	Add(c, a, b []word.Word)
	Sub(c, a, b []word.Word)
	Neg(c, a []word.Word)
	Mul(c, a, b []word.Word)
	Sqr(c, a []word.Word)
	Inv(c, a []word.Word) bool

	// Deep reports the scratch word-count any single method above needs,
	// so callers can size one reusable buffer (spec.md §5's "stack").
	Deep() int
}

// modBase carries the fields common to every Ring implementation.
type modBase struct {
	n, no int
	mod   []word.Word
}

func (b *modBase) N() int            { return b.n }
func (b *modBase) No() int            { return b.no }
func (b *modBase) Mod() []word.Word   { return b.mod }

func (b *modBase) ToBytes(a []word.Word) []byte {
	return ww.ToBytes(a, b.no)
}

func (b *modBase) FromBytes(buf []byte) []word.Word {
	a := ww.FromBytes(buf)
	out := make([]word.Word, b.n)
	ww.Copy(out, a)
	return out
}

// montgomeryRing reduces via the Dusse-Kaliski algorithm (spec.md §4.1
// family 3); values are stored in Montgomery form aR mod m.
type montgomeryRing struct {
	modBase
	mStar word.Word
	r2    []word.Word
	unity []word.Word
}

// GFPCreate builds a GF(p) ring (p an odd prime) backed by Montgomery
// reduction, mirroring qr's factory gfpCreate (spec.md §4.3): for odd
// moduli Montgomery is always a legal, efficient choice, so the field
// constructor does not need to probe for a Crandall shape the way ZMCreate
// does for a general modulus.
func GFPCreate(no int, p []word.Word) Ring {
	n := len(p)
	r := &montgomeryRing{
		modBase: modBase{n: n, no: no, mod: append([]word.Word{}, p...)},
		mStar:   zz.MontgomeryConst(p),
	}
	r.r2 = zz.MontgomeryR2(p)
	one := make([]word.Word, n)
	one[0] = 1
	r.unity = zz.ToMontgomery(one, p, r.r2, r.mStar)
	return r
}

func (r *montgomeryRing) Unity() []word.Word { return r.unity }
func (r *montgomeryRing) Deep() int          { return 4 * r.n }

// ToBytes/FromBytes convert through plain (non-Montgomery) form so that the
// external byte encoding is always the canonical residue, preserving the
// from_bytes(to_bytes(x)) = id invariant of spec.md §4.3 regardless of the
// internal representation a Ring happens to use.
func (r *montgomeryRing) ToBytes(a []word.Word) []byte {
	plain := zz.FromMontgomery(a, r.mod, r.mStar)
	return ww.ToBytes(plain, r.no)
}

func (r *montgomeryRing) FromBytes(buf []byte) []word.Word {
	raw := ww.FromBytes(buf)
	plain := make([]word.Word, r.n)
	ww.Copy(plain, raw)
	return zz.ToMontgomery(plain, r.mod, r.r2, r.mStar)
}

func (r *montgomeryRing) Add(c, a, b []word.Word) { zz.AddMod(c, a, b, r.mod) }
func (r *montgomeryRing) Sub(c, a, b []word.Word) { zz.SubMod(c, a, b, r.mod) }
func (r *montgomeryRing) Neg(c, a []word.Word)    { zz.NegMod(c, a, r.mod) }

func (r *montgomeryRing) Mul(c, a, b []word.Word) {
	t := make([]word.Word, 2*r.n)
	zz.Mul(t, pad(a, r.n), pad(b, r.n))
	zz.MontgomeryReduce(c, t, r.mod, r.mStar)
}

func (r *montgomeryRing) Sqr(c, a []word.Word) { r.Mul(c, a, a) }

func (r *montgomeryRing) Inv(c, a []word.Word) bool {
	plain := zz.FromMontgomery(a, r.mod, r.mStar)
	inv := make([]word.Word, r.n)
	if !zz.InvMod(inv, plain, r.mod) {
		for i := range c {
			c[i] = 0
		}
		return false
	}
	mont := zz.ToMontgomery(inv, r.mod, r.r2, r.mStar)
	copy(c, mont)
	return true
}

// crandallRing reduces via the Crandall algorithm for moduli of the shape
// B^n - c, 0 < c < B (spec.md §4.1 family 4). Residues are stored in plain
// (non-Montgomery) form since Crandall reduction does not require it.
type crandallRing struct {
	modBase
	c     word.Word
	unity []word.Word
}

// barrettRing reduces via precomputed mu (spec.md §4.1 family 2), the
// fallback ZMCreate uses for any odd or even modulus that is not
// Crandall-shaped (primality is not examined).
type barrettRing struct {
	modBase
	mu    []word.Word
	unity []word.Word
}

// ZMCreate builds a Z/modZ ring for an arbitrary modulus, picking Crandall
// when mod has the shape B^n - c for a single-word c, else Barrett (spec.md
// §4.3's "internally ... picks an optimal reduction").
func ZMCreate(no int, mod []word.Word) Ring {
	n := len(mod)
	if c, ok := crandallShape(mod); ok {
		r := &crandallRing{modBase: modBase{n: n, no: no, mod: append([]word.Word{}, mod...)}, c: c}
		r.unity = make([]word.Word, n)
		r.unity[0] = 1
		return r
	}
	r := &barrettRing{modBase: modBase{n: n, no: no, mod: append([]word.Word{}, mod...)}}
	r.mu = zz.BarrettMu(mod)
	r.unity = make([]word.Word, n)
	r.unity[0] = 1
	return r
}

// crandallShape detects mod == B^n - c for some single-word c (i.e. every
// word but possibly the low one is all-ones, high word equal to Max too
// since B^n is one bit above the top word): all words above word 0 are
// Max, word 0 is Max-c+1 for small c.
func crandallShape(mod []word.Word) (word.Word, bool) {
	n := len(mod)
	for i := 1; i < n; i++ {
		if mod[i] != word.Max {
			return 0, false
		}
	}
	c := word.Max - mod[0] + 1
	if c == 0 || c > 0xFFFF {
		return 0, false
	}
	return c, true
}

func (r *crandallRing) Unity() []word.Word { return r.unity }
func (r *crandallRing) Deep() int          { return 4 * r.n }
func (r *crandallRing) Add(c, a, b []word.Word) { zz.AddMod(c, a, b, r.mod) }
func (r *crandallRing) Sub(c, a, b []word.Word) { zz.SubMod(c, a, b, r.mod) }
func (r *crandallRing) Neg(c, a []word.Word)    { zz.NegMod(c, a, r.mod) }

func (r *crandallRing) Mul(c, a, b []word.Word) {
	t := make([]word.Word, 2*r.n)
	zz.Mul(t, pad(a, r.n), pad(b, r.n))
	zz.CrandallReduce(c, t, r.n, r.c)
}
func (r *crandallRing) Sqr(c, a []word.Word) { r.Mul(c, a, a) }
func (r *crandallRing) Inv(c, a []word.Word) bool {
	return zz.InvMod(c, a, r.mod)
}

func (r *barrettRing) Unity() []word.Word { return r.unity }
func (r *barrettRing) Deep() int          { return 4 * r.n }
func (r *barrettRing) Add(c, a, b []word.Word) { zz.AddMod(c, a, b, r.mod) }
func (r *barrettRing) Sub(c, a, b []word.Word) { zz.SubMod(c, a, b, r.mod) }
func (r *barrettRing) Neg(c, a []word.Word)    { zz.NegMod(c, a, r.mod) }

func (r *barrettRing) Mul(c, a, b []word.Word) {
	t := make([]word.Word, 2*r.n)
	zz.Mul(t, pad(a, r.n), pad(b, r.n))
	zz.BarrettReduce(c, t, r.mod, r.mu)
}
func (r *barrettRing) Sqr(c, a []word.Word) { r.Mul(c, a, a) }
func (r *barrettRing) Inv(c, a []word.Word) bool {
	return zz.InvMod(c, a, r.mod)
}

// Power computes c = a^e via a generic left-to-right square-and-multiply
// addition chain (spec.md §4.3's "generic power via addition chains"),
// usable with any Ring implementation.
func Power(ring Ring, c, a []word.Word, e []word.Word) {
	n := ring.N()
	acc := make([]word.Word, n)
	copy(acc, ring.Unity())
	base := make([]word.Word, n)
	copy(base, a)
	bits := bitLen(e)
	tmp := make([]word.Word, n)
	for i := bits - 1; i >= 0; i-- {
		ring.Sqr(tmp, acc)
		copy(acc, tmp)
		if bitAt(e, i) == 1 {
			ring.Mul(tmp, acc, base)
			copy(acc, tmp)
		}
	}
	copy(c, acc)
}

func bitLen(a []word.Word) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i*word.Bits + word.BitLen(a[i])
		}
	}
	return 0
}

func bitAt(a []word.Word, i int) int {
	wi, bi := i/word.Bits, uint(i%word.Bits)
	if wi >= len(a) {
		return 0
	}
	return int((a[wi] >> bi) & 1)
}

func pad(a []word.Word, n int) []word.Word {
	if len(a) >= n {
		return a[:n]
	}
	out := make([]word.Word, n)
	copy(out, a)
	return out
}
