// Package sig implements the sign/verify envelope of spec.md §3.7 and
// §4.7: a DER structure carrying the signer's CVC certificate chain, the
// signing date, and a bign signature over the bound (content, chain, date)
// triple, serialized wire-reversed (spec.md §3.7's "reverse-DER" framing:
// the assembled DER bytes are stored back-to-front so a truncated prefix of
// the wire form corrupts the signature TLV first rather than silently
// dropping trailing certificates, per spec.md's own rationale for the
// format).
package sig

import (
	"errors"
	"time"

	"github.com/agievich/bee2go/internal/bign"
	"github.com/agievich/bee2go/internal/cvc"
	"github.com/agievich/bee2go/internal/der"
)

var (
	ErrMalformed    = errors.New("sig: malformed envelope")
	ErrNoCerts      = errors.New("sig: envelope carries no certificates")
	ErrUntrusted    = errors.New("sig: certificate chain does not reach a trusted anchor")
	ErrBadSignature = errors.New("sig: signature verification failed")
)

// Envelope is a parsed or assembled signature envelope.
type Envelope struct {
	Chain []*cvc.Cert // leaf last
	Date  time.Time
	Sig   []byte
}

// reverse returns a new slice with buf's bytes in reverse order.
func reverse(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[len(buf)-1-i] = b
	}
	return out
}

// bind assembles the byte string Sign/Verify hash: the content, then each
// chain certificate's DER encoding in order, then the signing date's 6-byte
// BCD encoding (spec.md §4.7's "stream the file, then absorb certs, then
// absorb the date" binding order; §3.7's date is "either all-zero or a
// valid date", so a zero when still contributes its all-zero 6 bytes).
func bind(content []byte, chain []*cvc.Cert, when time.Time) []byte {
	out := append([]byte{}, content...)
	for _, c := range chain {
		out = append(out, c.Raw()...)
	}
	date := cvc.EncodeDate(when)
	out = append(out, date[:]...)
	return out
}

// Sign produces an envelope over content: priv/lv must match chain's leaf
// certificate's embedded public key (spec.md §4.7's sign operation).
func Sign(content []byte, chain []*cvc.Cert, priv []byte, lv *bign.Level, when time.Time) (*Envelope, error) {
	if len(chain) == 0 {
		return nil, ErrNoCerts
	}
	msg := bind(content, chain, when)
	s, err := lv.Sign(priv, msg, nil)
	if err != nil {
		return nil, err
	}
	return &Envelope{Chain: chain, Date: when, Sig: s}, nil
}

// Encode renders e as the reverse-DER wire form: SEQUENCE { certs OCTET
// STRING, date OCTET STRING(6) OPTIONAL, sig OCTET STRING } (spec.md §3.7's
// literal ASN.1 layout). certs is a single OCTET STRING holding the raw
// concatenation of the chain's CVC encodings, not a nested SEQUENCE of
// per-cert strings; date is omitted entirely when e.Date is the zero
// time.Time rather than written as an all-zero placeholder, since §3.7
// marks it OPTIONAL.
func (e *Envelope) Encode() ([]byte, error) {
	b := der.NewBuilder()
	b.Sequence(func(s *der.Builder) {
		var certs []byte
		for _, c := range e.Chain {
			certs = append(certs, c.Raw()...)
		}
		s.OctetString(certs)
		if !e.Date.IsZero() {
			date := cvc.EncodeDate(e.Date)
			s.OctetString(date[:])
		}
		s.OctetString(e.Sig)
	})
	buf, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return reverse(buf), nil
}

// Extract parses the reverse-DER wire form back into an Envelope (spec.md
// §4.7's sigExtr). date and sig share a tag (both OCTET STRING), so the
// optional date can't be told from sig by a tag peek; instead every
// remaining OCTET STRING after certs is read and the two-vs-one count
// decides which is present, per §3.7's field order (date before sig).
func Extract(wire []byte) (*Envelope, error) {
	buf := reverse(wire)
	p := der.NewParser(buf)
	var e Envelope
	err := p.Sequence(func(s *der.Parser) error {
		certsRaw, err := s.OctetString()
		if err != nil {
			return err
		}
		e.Chain, err = cvc.ParseChain(certsRaw)
		if err != nil {
			return err
		}

		var rest [][]byte
		for !s.Empty() {
			b, err := s.OctetString()
			if err != nil {
				return err
			}
			rest = append(rest, b)
		}
		switch len(rest) {
		case 1:
			e.Sig = rest[0]
		case 2:
			if e.Date, err = cvc.DecodeDate(rest[0]); err != nil {
				return err
			}
			e.Sig = rest[1]
		default:
			return ErrMalformed
		}
		return nil
	})
	if err != nil {
		return nil, ErrMalformed
	}
	if !p.Empty() {
		return nil, ErrMalformed
	}
	if len(e.Chain) == 0 {
		return nil, ErrNoCerts
	}
	return &e, nil
}

// Verify checks e's certificate chain against trustedAnchors and its
// signature against content (spec.md §4.7's verify operation): the chain
// must reach a trusted anchor and validate (cvc.FindAnchor/cvc.Validate),
// and the leaf's embedded public key must verify Sig over bind(content,
// chain, e.Date).
func (e *Envelope) Verify(content []byte, trustedAnchors []*cvc.Cert, now time.Time) error {
	idx, err := cvc.FindAnchor(e.Chain, trustedAnchors)
	if err != nil {
		return ErrUntrusted
	}
	if err := cvc.Validate(e.Chain, idx, now); err != nil {
		return err
	}
	leaf, err := cvc.GetLast(e.Chain)
	if err != nil {
		return err
	}
	lv, err := bign.ParamsForPubkey(len(leaf.Body.PubKey))
	if err != nil {
		return err
	}
	msg := bind(content, e.Chain, e.Date)
	if err := lv.Verify(leaf.Body.PubKey, msg, e.Sig); err != nil {
		return ErrBadSignature
	}
	return nil
}
