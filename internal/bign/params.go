// Package bign implements the STB 34.101.45 public-key scheme: named
// curve parameter levels addressed by OID, key generation, signing,
// verification, and Diffie-Hellman key agreement (spec.md §2 row 11,
// §4.4, §4.7).
//
// spec.md §1 explicitly scopes out "the concrete parameter tables of
// individual cryptosystems beyond declaring that named parameter sets
// exist and are addressed by object identifiers". This package takes that
// at face value for the 64-byte/256-bit-security level: deriving a fresh
// verified-prime-order 512-bit curve requires point-counting (Schoof's
// algorithm), which is out of scope here, so that level has no entry in
// this package (no OID, no lengths) and ParamsFor(64) reports
// ErrUnsupportedLevel rather than silently using an unverified curve. The other three levels
// are backed by real, independently-verifiable prime-order curves (see
// DESIGN.md for why these stand in for the authentic STB bign curve
// constants, which were not present bit-exact anywhere in the retrieval
// pack: original_source/ extracted zero files).
package bign

import (
	"errors"
	"math/big"

	"github.com/agievich/bee2go/internal/ecp"
	"github.com/agievich/bee2go/internal/gfp"
	"github.com/agievich/bee2go/internal/ww"
	"github.com/agievich/bee2go/internal/zz"
)

var ErrUnsupportedLevel = errors.New("bign: unsupported key length")

// Level describes one named bign parameter set.
type Level struct {
	OID        string
	PrivKeyLen int // bytes
	SigLen     int // bytes
	Curve      *ecp.Curve
}

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bign: bad hex constant")
	}
	return v
}

// bytesOf renders x as exactly byteLen little-endian bytes, the external
// wire form every qr.Ring's FromBytes/ToBytes pair agrees on (ww.ToBytes).
func bytesOf(x *big.Int, byteLen int) []byte {
	n := (byteLen + 7) / 8
	return ww.ToBytes(zz.FromBig(x, n), byteLen)
}

func makeCurve(pHex, bHex, gxHex, gyHex, nHex string, byteLen int) *ecp.Curve {
	pBig := hexBig(pHex)
	n := (byteLen + 7) / 8
	p := zz.FromBig(pBig, n)
	field := gfp.Create(byteLen, p)

	// Curve.A/B/BaseX/BaseY are consumed directly by ecp's field ops
	// (F.Mul, F.Add, ...), so they must live in the Ring's own internal
	// representation, not plain words; FromBytes is the documented
	// canonical-bytes -> internal-form conversion (qr.Ring's contract).
	aBig := new(big.Int).Sub(pBig, big.NewInt(3))
	aInternal := field.FromBytes(bytesOf(aBig, byteLen))
	bInternal := field.FromBytes(bytesOf(hexBig(bHex), byteLen))
	gx := field.FromBytes(bytesOf(hexBig(gxHex), byteLen))
	gy := field.FromBytes(bytesOf(hexBig(gyHex), byteLen))

	order := zz.FromBig(hexBig(nHex), n+1)

	return &ecp.Curve{
		F:         field,
		A:         aInternal,
		B:         bInternal,
		AIsMinus3: true,
		BaseX:     gx,
		BaseY:     gy,
		Order:     order,
		Cofactor:  1,
	}
}

var levels map[int]*Level

func init() {
	levels = map[int]*Level{
		24: { // bign96: 192-bit field, secp192r1 constants (spec.md §6.1's
			// 34-byte-signature variant)
			OID:        "1.2.112.0.2.0.34.101.45.3.0",
			PrivKeyLen: 24,
			SigLen:     34,
			Curve: makeCurve(
				"fffffffffffffffffffffffffffffffeffffffffffffffff",
				"64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1",
				"188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012",
				"07192b95ffc8da78631011ed6b24cdd573f977a11e794811",
				"ffffffffffffffffffffffff99def836146bc9b1b4d22831",
				24),
		},
		32: { // bign-128: 256-bit field, P-256 constants
			OID:        "1.2.112.0.2.0.34.101.45.3.1",
			PrivKeyLen: 32,
			SigLen:     48,
			Curve: makeCurve(
				"ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
				"5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
				"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
				"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
				"ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
				32),
		},
		48: { // bign-192: 384-bit field, P-384 constants
			OID:        "1.2.112.0.2.0.34.101.45.3.2",
			PrivKeyLen: 48,
			SigLen:     72,
			Curve: makeCurve(
				"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff",
				"b3312fa7e23ee7e4988e056be3f82d19181d9c6efe8141120314088f5013875ac656398d8a2ed19d2a85c8edd3ec2aef",
				"aa87ca22be8b05378eb1c71ef320ad746e1d3b628ba79b9859f741e082542a385502f25dbf55296c3a545e3872760ab7",
				"3617de4a96262c6f5d9e98bf9292dc29f8f41dbd289a147ce9da3113b5f0b8c00a60b1ce1d7e819d7a431d7c90ea0e5f",
				"ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973",
				48),
		},
	}
}

// ParamsFor returns the Level for the given private-key length in bytes
// (24, 32 or 48), matching spec.md §4.7's "resolve curve parameters by
// privkey_len" step. Any other length, 64 included, returns
// ErrUnsupportedLevel.
func ParamsFor(privKeyLen int) (*Level, error) {
	lv, ok := levels[privKeyLen]
	if !ok {
		return nil, ErrUnsupportedLevel
	}
	return lv, nil
}

// ParamsForPubkey resolves a Level by public-key length (48, 64 or 96
// bytes, i.e. twice the field size, spec.md §3.6); 128 maps to the
// unsupported 64-byte level and returns ErrUnsupportedLevel.
func ParamsForPubkey(pubKeyLen int) (*Level, error) {
	return ParamsFor(pubKeyLen / 2)
}
