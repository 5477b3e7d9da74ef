package sig

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/agievich/bee2go/internal/bign"
	"github.com/agievich/bee2go/internal/cvc"
)

func mustWrap(t *testing.T, lv *bign.Level, holder, authority string, issuerPriv, subjPub []byte, from, until time.Time) *cvc.Cert {
	t.Helper()
	c, err := cvc.Wrap(cvc.Body{
		HolderRef:    holder,
		AuthorityRef: authority,
		PubKey:       subjPub,
		ValidFrom:    from,
		ValidUntil:   until,
	}, issuerPriv, lv)
	if err != nil {
		t.Fatalf("cvc.Wrap(%s): %v", holder, err)
	}
	return c
}

func buildSignerChain(t *testing.T) (lv *bign.Level, chain []*cvc.Cert, leafPriv []byte, anchors []*cvc.Cert) {
	t.Helper()
	lv, _ = bign.ParamsFor(32)
	rootPriv, rootPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("root KeypairGen: %v", err)
	}
	leafPriv, leafPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("leaf KeypairGen: %v", err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	y := 365 * 24 * time.Hour
	root := mustWrap(t, lv, "ROOT", "ROOT", rootPriv, rootPub, now.Add(-y), now.Add(10*y))
	leaf := mustWrap(t, lv, "LEAF", "ROOT", rootPriv, leafPub, now.Add(-y), now.Add(2*y))
	return lv, []*cvc.Cert{root, leaf}, leafPriv, []*cvc.Cert{root}
}

func TestSignExtractVerifyRoundTrip(t *testing.T) {
	lv, chain, leafPriv, anchors := buildSignerChain(t)
	content := []byte("a document worth signing")
	when := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	env, err := Sign(content, chain, leafPriv, lv, when)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	wire, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	parsed, err := Extract(wire)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if err := parsed.Verify(content, anchors, when.Add(24*time.Hour)); err != nil {
		t.Fatalf("Verify rejected a genuine envelope: %v", err)
	}
}

func TestVerifyRejectsTamperedContent(t *testing.T) {
	lv, chain, leafPriv, anchors := buildSignerChain(t)
	when := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	env, err := Sign([]byte("original"), chain, leafPriv, lv, when)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := env.Verify([]byte("tampered"), anchors, when); err == nil {
		t.Fatal("Verify accepted an envelope over the wrong content")
	}
}

func TestVerifyRejectsUntrustedChain(t *testing.T) {
	lv, chain, leafPriv, _ := buildSignerChain(t)
	content := []byte("document")
	when := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	env, err := Sign(content, chain, leafPriv, lv, when)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	otherRootPriv, otherRootPub, _ := lv.KeypairGen(rand.Reader)
	_ = otherRootPriv
	other := mustWrap(t, lv, "OTHER-ROOT", "OTHER-ROOT", otherRootPriv, otherRootPub,
		when.Add(-24*time.Hour), when.Add(24*time.Hour))
	if err := env.Verify(content, []*cvc.Cert{other}, when); err != ErrUntrusted {
		t.Fatalf("Verify(untrusted anchor) = %v, want ErrUntrusted", err)
	}
}

func TestEncodeExtractWireIsByteReversed(t *testing.T) {
	lv, chain, leafPriv, _ := buildSignerChain(t)
	when := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	env, err := Sign([]byte("x"), chain, leafPriv, lv, when)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	wire, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// A DER SEQUENCE begins with tag 0x30; in the wire-reversed envelope
	// that byte lands at the end, not the start.
	if wire[0] == 0x30 {
		t.Fatal("wire form does not appear to be byte-reversed")
	}
	if wire[len(wire)-1] != 0x30 {
		t.Fatal("wire form's last byte is not the DER SEQUENCE tag")
	}
}
