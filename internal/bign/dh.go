package bign

import (
	"crypto/sha256"
	"errors"
	"io"

	"github.com/agievich/bee2go/internal/ww"
	"golang.org/x/crypto/hkdf"
)

var ErrBadDHPoint = errors.New("bign: peer point invalid for DH")

// DH computes the shared secret d*P for a local private scalar priv and a
// peer public point peerPub, then stretches it through HKDF-SHA256 into
// keyLen bytes of key material (spec.md §4.4's key-agreement operation).
// STB 34.101.45's own key-derivation step works over belt/bash rather than
// HKDF; this package carries no bit-exact belt/bash KDF construction (see
// the belt and bash package docs), so DH is instead grounded directly on
// the retrieval pack's own HKDF dependency (golang.org/x/crypto/hkdf),
// which is the idiomatic Go way to stretch an ECDH secret into key
// material and is named explicitly in this module's domain-stack
// commitments.
func (lv *Level) DH(priv, peerPub []byte, info []byte, keyLen int) ([]byte, error) {
	if len(priv) != lv.PrivKeyLen {
		return nil, ErrBadPrivKey
	}
	if !lv.IsValidPubKey(peerPub) {
		return nil, ErrBadDHPoint
	}
	no := lv.Curve.F.No()
	px := lv.Curve.F.FromBytes(peerPub[:no])
	py := lv.Curve.F.FromBytes(peerPub[no:])
	peer := lv.Curve.FromAffine(px, py)

	sx, _, ok := lv.Curve.MulA(ww.FromBytes(priv), peer)
	if !ok {
		return nil, ErrBadDHPoint
	}
	secret := lv.Curve.F.ToBytes(sx)

	r := hkdf.New(sha256.New, secret, nil, info)
	out := make([]byte, keyLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
