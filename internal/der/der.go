// Package der implements the canonical DER/BER TLV encoder/decoder spec.md
// §4.5 describes: SEQUENCE anchors with retroactive length patching,
// OCTET STRING / BIT STRING / OBJECT IDENTIFIER / INTEGER / PrintableString
// primitives, and strict rejection of non-canonical encodings (indefinite
// length, non-minimal length octets, non-minimal integers) per spec.md §8
// S6.
//
// This is built directly on golang.org/x/crypto/cryptobyte and its asn1
// subpackage, which already implement DER's strict-parsing rules (the same
// foundation Go's own crypto/x509 TLV handling is built on): ReadASN1
// rejects indefinite-length and non-minimal-length encodings as part of its
// normal operation, so canonical-form enforcement is inherited rather than
// hand-rolled. No example repo in the retrieval pack imports cryptobyte
// directly, but x/crypto is already a direct dependency of this module (for
// bash's SHAKE substrate and bign's HKDF step), so der draws from the same
// module rather than introducing a new one.
package der

import (
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	casn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	ErrNonCanonical = errors.New("der: non-canonical encoding")
	ErrTruncated    = errors.New("der: truncated TLV")
	ErrWrongTag     = errors.New("der: unexpected tag")
	ErrTrailingData = errors.New("der: trailing bytes after top-level value")
)

// Builder accumulates a DER encoding. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	b *cryptobyte.Builder
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder { return &Builder{b: cryptobyte.NewBuilder(nil)} }

// Bytes returns the accumulated encoding.
func (e *Builder) Bytes() ([]byte, error) { return e.b.Bytes() }

// Sequence wraps fn's output in a SEQUENCE tag with a retroactively patched
// definite length, spec.md §4.5's "SEQUENCE anchor" construct.
func (e *Builder) Sequence(fn func(*Builder)) {
	e.b.AddASN1(casn1.SEQUENCE, func(child *cryptobyte.Builder) {
		fn(&Builder{b: child})
	})
}

// OctetString appends an OCTET STRING primitive.
func (e *Builder) OctetString(v []byte) { e.b.AddASN1OctetString(v) }

// BitString appends a BIT STRING primitive with zero unused trailing bits
// (spec.md §4.5's bit strings are always byte-aligned: signatures, key
// material).
func (e *Builder) BitString(v []byte) {
	e.b.AddASN1BitString(v)
}

// ObjectIdentifier appends an OID, e.g. "1.2.112.0.2.0.34.101.45.3.1".
func (e *Builder) ObjectIdentifier(oid string) error {
	arcs, err := parseOID(oid)
	if err != nil {
		return err
	}
	e.b.AddASN1(casn1.OBJECT_IDENTIFIER, func(child *cryptobyte.Builder) {
		child.AddBytes(encodeOIDArcs(arcs))
	})
	return nil
}

// Int appends an INTEGER primitive from a big.Int (spec.md §4.5's "INTEGER
// (arbitrary precision)").
func (e *Builder) Int(v *big.Int) { e.b.AddASN1BigInt(v) }

// Uint appends an INTEGER primitive from a non-negative uint64 (spec.md
// §4.5's "INTEGER (UINT/SIZE convenience)").
func (e *Builder) Uint(v uint64) { e.b.AddASN1Uint64(v) }

// PrintableString appends a PrintableString primitive.
func (e *Builder) PrintableString(s string) {
	e.b.AddASN1(casn1.PrintableString, func(child *cryptobyte.Builder) {
		child.AddBytes([]byte(s))
	})
}

// Raw appends buf verbatim, already-encoded bytes rather than a fresh TLV
// (used to splice a previously encoded sub-structure, such as a
// certificate's TBS body, into an enclosing SEQUENCE without re-parsing
// it).
func (e *Builder) Raw(buf []byte) { e.b.AddBytes(buf) }

// Parser reads a DER encoding. Create with NewParser.
type Parser struct {
	s cryptobyte.String
}

// NewParser wraps buf for sequential TLV reads.
func NewParser(buf []byte) *Parser { return &Parser{s: cryptobyte.String(buf)} }

// Empty reports whether every byte of the input has been consumed.
func (p *Parser) Empty() bool { return len(p.s) == 0 }

// Sequence reads a SEQUENCE and hands its contents to fn as a nested
// Parser. Returns ErrTruncated when no well-formed SEQUENCE comes next
// (cryptobyte's ReadASN1 already enforces definite, minimal-length
// encoding), fn's own error if fn fails, and ErrTrailingData if fn leaves
// bytes of the SEQUENCE unread.
func (p *Parser) Sequence(fn func(*Parser) error) error {
	var inner cryptobyte.String
	if !p.s.ReadASN1(&inner, casn1.SEQUENCE) {
		return ErrTruncated
	}
	sub := &Parser{s: inner}
	if err := fn(sub); err != nil {
		return err
	}
	if !sub.Empty() {
		return ErrTrailingData
	}
	return nil
}

// OctetString reads an OCTET STRING.
func (p *Parser) OctetString() ([]byte, error) {
	var out []byte
	if !p.s.ReadASN1Bytes(&out, casn1.OCTET_STRING) {
		return nil, ErrTruncated
	}
	return out, nil
}

// SequenceElement reads one complete SEQUENCE TLV (tag, length, and value)
// without descending into it, advancing past it. This is spec.md §4.6's
// cvcLen operation in parser form: it lets a caller split a concatenation
// of self-delimiting SEQUENCEs (such as the signature envelope's raw certs
// blob) back into individual elements without a separate length scan.
func (p *Parser) SequenceElement() ([]byte, error) {
	var out cryptobyte.String
	if !p.s.ReadASN1Element(&out, casn1.SEQUENCE) {
		return nil, ErrTruncated
	}
	return []byte(out), nil
}

// BitString reads a BIT STRING and rejects a non-zero unused-bit count
// (spec.md §4.5's byte-aligned bit strings). Decoded manually rather than
// via cryptobyte.String.ReadASN1BitString, which accepts a non-zero
// unused-bit count that spec.md's byte-aligned usage must reject.
func (p *Parser) BitString() ([]byte, error) {
	var inner cryptobyte.String
	if !p.s.ReadASN1(&inner, casn1.BIT_STRING) {
		return nil, ErrTruncated
	}
	if len(inner) == 0 {
		return nil, ErrNonCanonical
	}
	if inner[0] != 0 {
		return nil, ErrNonCanonical
	}
	return append([]byte{}, inner[1:]...), nil
}

// ObjectIdentifier reads an OID and renders it in dotted notation.
func (p *Parser) ObjectIdentifier() (string, error) {
	var inner cryptobyte.String
	if !p.s.ReadASN1(&inner, casn1.OBJECT_IDENTIFIER) {
		return "", ErrTruncated
	}
	arcs, err := decodeOIDArcs([]byte(inner))
	if err != nil {
		return "", err
	}
	return formatOID(arcs), nil
}

// Int reads an INTEGER as a big.Int.
func (p *Parser) Int() (*big.Int, error) {
	out := new(big.Int)
	if !p.s.ReadASN1Integer(out) {
		return nil, ErrTruncated
	}
	return out, nil
}

// Uint reads an INTEGER as a non-negative uint64, rejecting a negative
// value.
func (p *Parser) Uint() (uint64, error) {
	var out uint64
	if !p.s.ReadASN1Integer(&out) {
		return 0, ErrTruncated
	}
	return out, nil
}

// PrintableString reads a PrintableString.
func (p *Parser) PrintableString() (string, error) {
	var inner cryptobyte.String
	if !p.s.ReadASN1(&inner, casn1.PrintableString) {
		return "", ErrTruncated
	}
	return string(inner), nil
}
