package cvc

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/agievich/bee2go/internal/bign"
)

func issue(t *testing.T, lv *bign.Level, holder, authority string, issuerPriv []byte, subjPub []byte, from, until time.Time) *Cert {
	t.Helper()
	body := Body{
		HolderRef:    holder,
		AuthorityRef: authority,
		PubKey:       subjPub,
		ValidFrom:    from,
		ValidUntil:   until,
	}
	c, err := Wrap(body, issuerPriv, lv)
	if err != nil {
		t.Fatalf("Wrap(%s): %v", holder, err)
	}
	return c
}

func buildChain(t *testing.T) (root, mid, leaf *Cert) {
	t.Helper()
	lv, _ := bign.ParamsFor(32)
	rootPriv, rootPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("root KeypairGen: %v", err)
	}
	midPriv, midPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("mid KeypairGen: %v", err)
	}
	_, leafPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("leaf KeypairGen: %v", err)
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	y := 365 * 24 * time.Hour
	root = issue(t, lv, "ROOT", "ROOT", rootPriv, rootPub, now.Add(-y), now.Add(10*y))
	mid = issue(t, lv, "MID", "ROOT", rootPriv, midPub, now.Add(-y), now.Add(5*y))
	leaf = issue(t, lv, "LEAF", "MID", midPriv, leafPub, now.Add(-y), now.Add(2*y))
	return root, mid, leaf
}

func TestWrapParseRoundTrip(t *testing.T) {
	root, _, _ := buildChain(t)
	buf := root.Raw()
	parsed, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Body.HolderRef != root.Body.HolderRef || parsed.Body.AuthorityRef != root.Body.AuthorityRef {
		t.Fatal("parsed body references do not match the wrapped certificate")
	}
	if !Match(parsed, root.Body.PubKey) {
		t.Fatal("parsed public key does not match the wrapped one")
	}
}

func TestValidateAcceptsWellFormedChain(t *testing.T) {
	root, mid, leaf := buildChain(t)
	chain := []*Cert{root, mid, leaf}
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := Validate(chain, 0, now); err != nil {
		t.Fatalf("Validate rejected a well-formed chain: %v", err)
	}
}

func TestValidateRejectsExpiredCert(t *testing.T) {
	root, mid, leaf := buildChain(t)
	chain := []*Cert{root, mid, leaf}
	farFuture := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := Validate(chain, 0, farFuture); err != ErrExpired {
		t.Fatalf("Validate(expired) = %v, want ErrExpired", err)
	}
}

func TestValidateRejectsBrokenChain(t *testing.T) {
	root, _, leaf := buildChain(t)
	chain := []*Cert{root, leaf} // skips mid: leaf's AuthorityRef ("MID") won't match root's HolderRef ("ROOT")
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := Validate(chain, 0, now); err != ErrChainBroken {
		t.Fatalf("Validate(broken chain) = %v, want ErrChainBroken", err)
	}
}

func TestValidateRejectsForgedSignature(t *testing.T) {
	root, mid, leaf := buildChain(t)
	tampered := *leaf
	tampered.Sig = append([]byte{}, leaf.Sig...)
	tampered.Sig[0] ^= 0x01
	chain := []*Cert{root, mid, &tampered}
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := Validate(chain, 0, now); err != ErrBadSignature {
		t.Fatalf("Validate(forged sig) = %v, want ErrBadSignature", err)
	}
}

func TestFindAnchorAndGetLast(t *testing.T) {
	root, mid, leaf := buildChain(t)
	chain := []*Cert{root, mid, leaf}
	idx, err := FindAnchor(chain, []*Cert{root})
	if err != nil {
		t.Fatalf("FindAnchor: %v", err)
	}
	if idx != 0 {
		t.Fatalf("FindAnchor returned index %d, want 0", idx)
	}
	last, err := GetLast(chain)
	if err != nil {
		t.Fatalf("GetLast: %v", err)
	}
	if last != leaf {
		t.Fatal("GetLast did not return the chain's leaf certificate")
	}
}

func TestFindAnchorReportsMissingAnchor(t *testing.T) {
	root, mid, leaf := buildChain(t)
	chain := []*Cert{mid, leaf}
	if _, err := FindAnchor(chain, []*Cert{root}); err != ErrNoAnchor {
		t.Fatalf("FindAnchor(no trusted cert present) = %v, want ErrNoAnchor", err)
	}
}

func TestGetLastRejectsEmptyChain(t *testing.T) {
	if _, err := GetLast(nil); err != ErrEmptyChain {
		t.Fatalf("GetLast(nil) = %v, want ErrEmptyChain", err)
	}
}
