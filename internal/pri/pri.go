// Package pri implements the prime-generation primitives of spec.md §4.1:
// random-modulus sampling, a Rabin-Miller probable-prime test (run by
// math/big), deterministic small-word primality, next-prime search with a
// small-prime sieve, and Demytko's construction of a prime p with a
// prescribed factor of p-1.
package pri

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/agievich/bee2go/internal/word"
	"github.com/agievich/bee2go/internal/zz"
)

// maxRandRetries bounds RandMod's rejection-sampling loop, proportional to
// the modulus bit length as spec.md §4.1 requires.
func maxRandRetries(bits int) int { return 8 + 4*bits/64 }

// RandMod samples a uniformly random value in [0, mod) by rejection
// sampling on ceil(log2 mod) random bits. Returns false on retry exhaustion.
func RandMod(rng io.Reader, mod []word.Word) ([]word.Word, bool) {
	modBig := zz.ToBig(mod)
	bitLen := modBig.BitLen()
	if bitLen == 0 {
		return nil, false
	}
	byteLen := (bitLen + 7) / 8
	topMask := byte(0xFF)
	if r := bitLen % 8; r != 0 {
		topMask = byte(1<<uint(r)) - 1
	}
	buf := make([]byte, byteLen)
	for try := 0; try < maxRandRetries(bitLen); try++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, false
		}
		buf[byteLen-1] &= topMask
		cand := new(big.Int).SetBytes(reverseBytes(buf))
		if cand.Cmp(modBig) < 0 {
			return zz.FromBig(cand, len(mod)), true
		}
	}
	return nil, false
}

// RandNZMod is RandMod excluding zero.
func RandNZMod(rng io.Reader, mod []word.Word) ([]word.Word, bool) {
	for try := 0; try < maxRandRetries(zz.ToBig(mod).BitLen())*2; try++ {
		v, ok := RandMod(rng, mod)
		if !ok {
			return nil, false
		}
		if !zz.IsZero(v) {
			return v, true
		}
	}
	return nil, false
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// smallPrimes holds every prime below 3000, starting at 2 (spec.md's "table
// of 1024 odd primes" is abbreviated here to these few hundred). IsPrimeW
// trial-divides by all of them; NextPrime's sieve uses only the first 64.
var smallPrimes = sievePrimes(3000)

func sievePrimes(limit int) []uint64 {
	isComposite := make([]bool, limit+1)
	var out []uint64
	for i := 2; i <= limit; i++ {
		if isComposite[i] {
			continue
		}
		out = append(out, uint64(i))
		for j := i * i; j <= limit; j += i {
			isComposite[j] = true
		}
	}
	return out
}

// RMTest reports whether a is probably prime. It accepts 2 and 3, rejects
// zero and other even values, and otherwise returns math/big's
// ProbablyPrime(iter): iter Miller-Rabin rounds with bases math/big picks
// itself, plus a Baillie-PSW test. rng is not read, so the bases are not
// drawn from it, and no base is screened against +-1 mod a.
func RMTest(rng io.Reader, a []word.Word, iter int) bool {
	ab := zz.ToBig(a)
	if ab.Sign() <= 0 {
		return false
	}
	if ab.Cmp(big.NewInt(2)) == 0 || ab.Cmp(big.NewInt(3)) == 0 {
		return true
	}
	if ab.Bit(0) == 0 {
		return false
	}
	return ab.ProbablyPrime(iter)
}

// sevenBaseWitnesses is the witness set IsPrimeW uses from 4759123141 up:
// Sinclair's seven bases, sufficient for all 64-bit values. Below that,
// IsPrimeW uses {2,3} (under 1373653) or {2,7,61} (spec.md §4.1).
var sevenBaseWitnesses = []uint64{2, 325, 9375, 28178, 450775, 9780504, 1795265022}

// IsPrimeW deterministically tests a single machine word for primality.
func IsPrimeW(a uint64) bool {
	if a < 2 {
		return false
	}
	for _, p := range smallPrimes {
		if a == p {
			return true
		}
		if a%p == 0 {
			return false
		}
		if p*p > a {
			return true
		}
	}
	var witnesses []uint64
	switch {
	case a < 1373653:
		witnesses = []uint64{2, 3}
	case a < 4759123141:
		witnesses = []uint64{2, 7, 61}
	default:
		witnesses = sevenBaseWitnesses
	}
	return millerRabinWitnesses(a, witnesses)
}

func millerRabinWitnesses(n uint64, witnesses []uint64) bool {
	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}
	nb := new(big.Int).SetUint64(n)
	db := new(big.Int).SetUint64(d)
	for _, a := range witnesses {
		if a%n == 0 {
			continue
		}
		ab := new(big.Int).SetUint64(a)
		x := new(big.Int).Exp(ab, db, nb)
		if x.Cmp(big.NewInt(1)) == 0 || x.Cmp(new(big.Int).Sub(nb, big.NewInt(1))) == 0 {
			continue
		}
		composite := true
		for i := 0; i < r-1; i++ {
			x.Mul(x, x)
			x.Mod(x, nb)
			if x.Cmp(new(big.Int).Sub(nb, big.NewInt(1))) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// NextPrime finds the next probable prime >= a (word-array form), stepping
// by 2 and using the small-prime sieve to skip composites before paying for
// RMTest (spec.md §4.1). iter is the Rabin-Miller round count.
func NextPrime(rng io.Reader, a []word.Word, iter int) []word.Word {
	ab := zz.ToBig(a)
	if ab.Bit(0) == 0 {
		ab.Add(ab, big.NewInt(1))
	}
	for {
		if sievePasses(ab) && ab.ProbablyPrime(iter) {
			return zz.FromBig(ab, len(a))
		}
		ab.Add(ab, big.NewInt(2))
	}
}

func sievePasses(x *big.Int) bool {
	for _, p := range smallPrimes[:64] {
		pb := new(big.Int).SetUint64(p)
		if pb.Cmp(x) >= 0 {
			break
		}
		m := new(big.Int).Mod(x, pb)
		if m.Sign() == 0 {
			return false
		}
	}
	return true
}

// ExtendPrime implements Demytko's construction (spec.md §4.1): given an
// l-bit target and a prime factor q, draws t in [2^(l-2), 2^(l-1)), sets
// r = ceil(t/q), p = 2qr+1, and validates 2^(2qr) == 1 (mod p) and
// 2^(2r) != 1 (mod p), stepping p by 2q on failure.
func ExtendPrime(rng io.Reader, l int, q []word.Word) ([]word.Word, bool) {
	qb := zz.ToBig(q)
	lo := new(big.Int).Lsh(big.NewInt(1), uint(l-2))
	hi := new(big.Int).Lsh(big.NewInt(1), uint(l-1))
	span := new(big.Int).Sub(hi, lo)

	tBuf := make([]byte, (l+7)/8)
	for attempt := 0; attempt < 1<<20; attempt++ {
		if _, err := io.ReadFull(rng, tBuf); err != nil {
			return nil, false
		}
		t := new(big.Int).SetBytes(tBuf)
		t.Mod(t, span)
		t.Add(t, lo)

		r := new(big.Int).Add(t, new(big.Int).Sub(qb, big.NewInt(1)))
		r.Div(r, qb) // r = ceil(t/q)

		for step := 0; step < 1<<12; step++ {
			p := new(big.Int).Mul(qb, r)
			p.Lsh(p, 1)
			p.Add(p, big.NewInt(1))
			if p.BitLen() == l && checkDemytko(p, qb, r) {
				return zz.FromBig(p, len(q)+1), true
			}
			r.Add(r, big.NewInt(1))
		}
	}
	return nil, false
}

func checkDemytko(p, q, r *big.Int) bool {
	two := big.NewInt(2)
	qr := new(big.Int).Mul(q, r)
	e1 := new(big.Int).Lsh(qr, 1)
	if new(big.Int).Exp(two, e1, p).Cmp(big.NewInt(1)) != 0 {
		return false
	}
	e2 := new(big.Int).Lsh(r, 1)
	if new(big.Int).Exp(two, e2, p).Cmp(big.NewInt(1)) == 0 {
		return false
	}
	return p.ProbablyPrime(20)
}

// SophieGermain reports whether both a and 2a+1 are probable primes.
func SophieGermain(a []word.Word, iter int) bool {
	ab := zz.ToBig(a)
	if !ab.ProbablyPrime(iter) {
		return false
	}
	twoAp1 := new(big.Int).Lsh(ab, 1)
	twoAp1.Add(twoAp1, big.NewInt(1))
	return twoAp1.ProbablyPrime(iter)
}

// DefaultRand is crypto/rand's Reader, the source every exported function
// above expects unless a test substitutes a deterministic one.
var DefaultRand = rand.Reader
