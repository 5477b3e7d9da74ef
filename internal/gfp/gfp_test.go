package gfp

import (
	"math/big"
	"testing"

	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/zz"
)

func fieldP() []word.Word {
	// 2^127-1, a Mersenne prime.
	return zz.FromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)), 2)
}

func TestHalfDoubleInverse(t *testing.T) {
	f := Create(16, fieldP())
	a := f.FromBytes(bigBytes(123456789, 16))

	doubled := make([]word.Word, f.N())
	f.Double(doubled, a)
	halved := make([]word.Word, f.N())
	f.Half(halved, doubled)

	if !weq(halved, a) {
		t.Fatal("Half(Double(a)) != a")
	}
}

func TestDoubleMatchesAddSelf(t *testing.T) {
	f := Create(16, fieldP())
	a := f.FromBytes(bigBytes(987654321, 16))

	doubled := make([]word.Word, f.N())
	f.Double(doubled, a)
	added := make([]word.Word, f.N())
	f.Add(added, a, a)

	if !weq(doubled, added) {
		t.Fatal("Double(a) != a+a")
	}
}

func TestSignIsParityBit(t *testing.T) {
	f := Create(16, fieldP())
	even := f.FromBytes(bigBytes(100, 16))
	odd := f.FromBytes(bigBytes(101, 16))

	if got := f.Sign(odd); got != 1 {
		t.Fatalf("Sign(101) = %d, want 1", got)
	}
	if got := f.Sign(even); got != 0 {
		t.Fatalf("Sign(100) = %d, want 0", got)
	}
}

// bigBytes renders v as no little-endian bytes, the byte order of the
// ring's FromBytes/ToBytes.
func bigBytes(v uint64, no int) []byte {
	b := new(big.Int).SetUint64(v).Bytes()
	out := make([]byte, no)
	for i, x := range b {
		out[len(b)-1-i] = x
	}
	return out
}

func weq(a, b []word.Word) bool {
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
