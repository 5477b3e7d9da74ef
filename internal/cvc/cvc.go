// Package cvc implements Card Verifiable Certificates and their chain
// validation (spec.md §4.6, §6.1): parse/wrap a single certificate, walk a
// chain from a trusted anchor to a leaf checking signatures and validity
// windows, search a chain for a trusted anchor, fetch the chain's last
// (leaf) certificate, and match a certificate's embedded public key against
// a caller-supplied one.
//
// A CVC's body is a compact DER SEQUENCE (holder reference, authority
// reference, embedded public key, validity window) signed by the issuer's
// bign key; this follows the der package's SEQUENCE/OCTET
// STRING/PrintableString/BIT STRING primitives directly, the way the teacher's
// own RLP encoder (pkg/rlp/encode.go) builds a wire struct up from a small
// set of primitive appenders.
package cvc

import (
	"errors"
	"time"

	"github.com/agievich/bee2go/internal/bign"
	"github.com/agievich/bee2go/internal/der"
)

var (
	ErrMalformed    = errors.New("cvc: malformed certificate")
	ErrBadSignature = errors.New("cvc: signature verification failed")
	ErrExpired      = errors.New("cvc: certificate outside its validity window")
	ErrChainBroken  = errors.New("cvc: authority reference does not chain to predecessor")
	ErrNoAnchor     = errors.New("cvc: no certificate in the chain matches a trusted anchor")
	ErrEmptyChain   = errors.New("cvc: empty certificate chain")
	ErrUnknownLevel = errors.New("cvc: unsupported public-key length")
)

// Body is a CVC's signed content (spec.md §4.6).
type Body struct {
	HolderRef    string
	AuthorityRef string
	PubKey       []byte
	ValidFrom    time.Time
	ValidUntil   time.Time
}

// Cert is a parsed certificate: body plus the issuer's signature over its
// DER encoding.
type Cert struct {
	Body Body
	Sig  []byte
	raw  []byte
}

// Encode renders body as the DER SEQUENCE that Sig is computed and verified
// over (spec.md §4.6's TBS encoding).
func (b *Body) Encode() ([]byte, error) {
	enc := der.NewBuilder()
	enc.Sequence(func(s *der.Builder) {
		s.PrintableString(b.HolderRef)
		s.PrintableString(b.AuthorityRef)
		s.OctetString(b.PubKey)
		from := EncodeDate(b.ValidFrom)
		until := EncodeDate(b.ValidUntil)
		s.OctetString(from[:])
		s.OctetString(until[:])
	})
	return enc.Bytes()
}

// Wrap signs body under priv (a bign private key matching lv) and returns
// the assembled certificate, whose DER encoding Raw returns (spec.md
// §4.6's "wrap" op).
func Wrap(body Body, priv []byte, lv *bign.Level) (*Cert, error) {
	tbs, err := body.Encode()
	if err != nil {
		return nil, err
	}
	sig, err := lv.Sign(priv, tbs, nil)
	if err != nil {
		return nil, err
	}
	c := &Cert{Body: body, Sig: sig}
	raw, err := c.encode()
	if err != nil {
		return nil, err
	}
	c.raw = raw
	return c, nil
}

func (c *Cert) encode() ([]byte, error) {
	tbs, err := c.Body.Encode()
	if err != nil {
		return nil, err
	}
	enc := der.NewBuilder()
	enc.Sequence(func(s *der.Builder) {
		s.Raw(tbs)
		s.BitString(c.Sig)
	})
	return enc.Bytes()
}

// Raw returns the certificate's DER encoding as produced by Wrap or Parse.
func (c *Cert) Raw() []byte { return c.raw }

// Parse decodes a single certificate (spec.md §4.6's "parse" op). The wire
// shape is SEQUENCE{ SEQUENCE{body fields}, BIT STRING signature }, the
// same TBS-then-signature shape Body.Encode/Cert.encode produce.
func Parse(buf []byte) (*Cert, error) {
	p := der.NewParser(buf)
	var c Cert
	err := p.Sequence(func(s *der.Parser) error {
		bodyErr := s.Sequence(func(body *der.Parser) error {
			var e error
			if c.Body.HolderRef, e = body.PrintableString(); e != nil {
				return ErrMalformed
			}
			if c.Body.AuthorityRef, e = body.PrintableString(); e != nil {
				return ErrMalformed
			}
			if c.Body.PubKey, e = body.OctetString(); e != nil {
				return ErrMalformed
			}
			from, e := body.OctetString()
			if e != nil {
				return ErrMalformed
			}
			until, e := body.OctetString()
			if e != nil {
				return ErrMalformed
			}
			if c.Body.ValidFrom, e = DecodeDate(from); e != nil {
				return ErrMalformed
			}
			if c.Body.ValidUntil, e = DecodeDate(until); e != nil {
				return ErrMalformed
			}
			return nil
		})
		if bodyErr != nil {
			return ErrMalformed
		}
		sig, e := s.BitString()
		if e != nil {
			return ErrMalformed
		}
		c.Sig = sig
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrMalformed
	}
	c.raw = append([]byte{}, buf...)
	return &c, nil
}

// ParseChain splits buf, a raw concatenation of zero or more CVCs (spec.md
// §3.7's "certs OCTET STRING" content: "raw concatenation of zero or more
// CVCs"), into individual certificates. Each CVC's own SEQUENCE length
// prefix makes it self-delimiting, so the split needs no separator — this
// is spec.md §4.6's cvcLen operation applied repeatedly until buf is
// exhausted.
func ParseChain(buf []byte) ([]*Cert, error) {
	p := der.NewParser(buf)
	var chain []*Cert
	for !p.Empty() {
		raw, err := p.SequenceElement()
		if err != nil {
			return nil, ErrMalformed
		}
		c, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		chain = append(chain, c)
	}
	return chain, nil
}

// levelFor resolves the bign.Level matching a certificate's embedded
// public-key length.
func levelFor(pubKeyLen int) (*bign.Level, error) {
	lv, err := bign.ParamsForPubkey(pubKeyLen)
	if err != nil {
		return nil, ErrUnknownLevel
	}
	return lv, nil
}

// verifySignature checks c's signature against issuerPub (spec.md §4.6).
func (c *Cert) verifySignature(issuerPub []byte) error {
	lv, err := levelFor(len(issuerPub))
	if err != nil {
		return err
	}
	tbs, err := c.Body.Encode()
	if err != nil {
		return err
	}
	if err := lv.Verify(issuerPub, tbs, c.Sig); err != nil {
		return ErrBadSignature
	}
	return nil
}

// checkValidity reports whether now falls within c's validity window
// (spec.md §4.6, the expired-chain rejection scenario of spec.md §8 S4).
func (c *Cert) checkValidity(now time.Time) error {
	if now.Before(c.Body.ValidFrom) || now.After(c.Body.ValidUntil) {
		return ErrExpired
	}
	return nil
}

// GetLast returns the chain's leaf (final) certificate (spec.md §4.6's
// cvcsGetLast).
func GetLast(chain []*Cert) (*Cert, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}
	return chain[len(chain)-1], nil
}

// FindAnchor searches chain for the first certificate whose holder
// reference matches one of the trusted anchors' holder references,
// returning its index (spec.md §4.6's cvcsFind).
func FindAnchor(chain []*Cert, anchors []*Cert) (int, error) {
	trusted := make(map[string]bool, len(anchors))
	for _, a := range anchors {
		trusted[a.Body.HolderRef] = true
	}
	for i, c := range chain {
		if trusted[c.Body.HolderRef] {
			return i, nil
		}
	}
	return -1, ErrNoAnchor
}

// Validate walks chain from the certificate at anchorIdx (inclusive) to the
// end, checking at each step that the certificate is within its validity
// window and, for every certificate after the anchor, that its authority
// reference names the predecessor and its signature verifies under the
// predecessor's embedded public key (spec.md §4.6's cvcsVal). The anchor
// certificate itself is trusted by construction and only validity-checked,
// not signature-checked, mirroring a self-signed or externally-trusted root.
func Validate(chain []*Cert, anchorIdx int, now time.Time) error {
	if anchorIdx < 0 || anchorIdx >= len(chain) {
		return ErrNoAnchor
	}
	if err := chain[anchorIdx].checkValidity(now); err != nil {
		return err
	}
	for i := anchorIdx + 1; i < len(chain); i++ {
		prev, cur := chain[i-1], chain[i]
		if err := cur.checkValidity(now); err != nil {
			return err
		}
		if cur.Body.AuthorityRef != prev.Body.HolderRef {
			return ErrChainBroken
		}
		if err := cur.verifySignature(prev.Body.PubKey); err != nil {
			return err
		}
	}
	return nil
}

// Match reports whether cert's embedded public key equals pub byte-for-byte
// (spec.md §4.6's cvcMatch).
func Match(cert *Cert, pub []byte) bool {
	if len(cert.Body.PubKey) != len(pub) {
		return false
	}
	for i := range pub {
		if cert.Body.PubKey[i] != pub[i] {
			return false
		}
	}
	return true
}
