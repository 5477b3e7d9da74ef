package bign

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/agievich/bee2go/internal/pri"
	"github.com/agievich/bee2go/internal/ww"
)

var (
	ErrKeygenFailed = errors.New("bign: key generation failed")
	ErrBadPrivKey   = errors.New("bign: malformed private key")
	ErrBadPubKey    = errors.New("bign: public key not on curve")
)

// KeypairGen draws a private scalar in [1, order) by rejection sampling
// (internal/pri.RandNZMod) and derives the matching public point d*G
// (spec.md §4.4's keypair-generation operation). rng defaults to
// crypto/rand.Reader when nil. priv is the scalar's PrivKeyLen-byte
// little-endian encoding, not a field element, so it is serialized with
// ww.ToBytes directly rather than through the curve field's Ring (which
// would wrongly treat it as a Montgomery-form residue).
func (lv *Level) KeypairGen(rng io.Reader) (priv, pub []byte, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	d, ok := pri.RandNZMod(rng, lv.Curve.Order)
	if !ok {
		return nil, nil, ErrKeygenFailed
	}
	qx, qy, ok := lv.Curve.MulA(d, lv.Curve.FromAffine(lv.Curve.BaseX, lv.Curve.BaseY))
	if !ok {
		return nil, nil, ErrKeygenFailed
	}
	priv = ww.ToBytes(d, lv.PrivKeyLen)
	pub = append(append([]byte{}, lv.Curve.F.ToBytes(qx)...), lv.Curve.F.ToBytes(qy)...)
	return priv, pub, nil
}

// IsValidPubKey reports whether pub (the 2*no-byte X||Y encoding) decodes to
// a point on lv's curve and is not the identity (spec.md §4.4 public-key
// validation, required before Verify or DH trust the point).
func (lv *Level) IsValidPubKey(pub []byte) bool {
	no := lv.Curve.F.No()
	if len(pub) != 2*no {
		return false
	}
	x := lv.Curve.F.FromBytes(pub[:no])
	y := lv.Curve.F.FromBytes(pub[no:])
	p := lv.Curve.FromAffine(x, y)
	if lv.Curve.IsIdentity(p) {
		return false
	}
	return lv.Curve.IsOnCurve(p)
}
