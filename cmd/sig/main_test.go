package main

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agievich/bee2go/internal/bign"
	"github.com/agievich/bee2go/internal/cvc"
)

func writeCert(t *testing.T, dir, name string, c *cvc.Cert) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, c.Raw(), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunSignVfyPrintRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lv, err := bign.ParamsFor(32)
	if err != nil {
		t.Fatalf("ParamsFor: %v", err)
	}
	rootPriv, rootPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("root KeypairGen: %v", err)
	}
	leafPriv, leafPub, err := lv.KeypairGen(rand.Reader)
	if err != nil {
		t.Fatalf("leaf KeypairGen: %v", err)
	}

	now := time.Now().UTC()
	y := 365 * 24 * time.Hour
	root, err := cvc.Wrap(cvc.Body{
		HolderRef: "ROOT", AuthorityRef: "ROOT",
		PubKey: rootPub, ValidFrom: now.Add(-y), ValidUntil: now.Add(10 * y),
	}, rootPriv, lv)
	if err != nil {
		t.Fatalf("cvc.Wrap(root): %v", err)
	}
	leaf, err := cvc.Wrap(cvc.Body{
		HolderRef: "LEAF", AuthorityRef: "ROOT",
		PubKey: leafPub, ValidFrom: now.Add(-y), ValidUntil: now.Add(2 * y),
	}, rootPriv, lv)
	if err != nil {
		t.Fatalf("cvc.Wrap(leaf): %v", err)
	}

	rootPath := writeCert(t, dir, "root.cvc", root)
	leafPath := writeCert(t, dir, "leaf.cvc", leaf)
	keyPath := filepath.Join(dir, "leaf.key")
	if err := os.WriteFile(keyPath, leafPriv, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	contentPath := filepath.Join(dir, "content.txt")
	if err := os.WriteFile(contentPath, []byte("sign me"), 0o600); err != nil {
		t.Fatalf("write content: %v", err)
	}
	envPath := filepath.Join(dir, "content.sig")

	date := now.Format("20060102")
	if code := run([]string{
		"sign",
		"-key", keyPath,
		"-chain", rootPath + "," + leafPath,
		"-in", contentPath,
		"-out", envPath,
		"-date", date,
	}); code != 0 {
		t.Fatalf("sign exited %d", code)
	}

	if code := run([]string{
		"vfy",
		"-in", contentPath,
		"-envelope", envPath,
		"-anchor", rootPath,
		"-now", date,
	}); code != 0 {
		t.Fatalf("vfy exited %d", code)
	}

	if code := run([]string{"print", "-envelope", envPath}); code != 0 {
		t.Fatalf("print exited %d", code)
	}
}

func TestRunVfyRejectsTamperedContent(t *testing.T) {
	dir := t.TempDir()
	lv, _ := bign.ParamsFor(32)
	rootPriv, rootPub, _ := lv.KeypairGen(rand.Reader)

	now := time.Now().UTC()
	y := 365 * 24 * time.Hour
	root, err := cvc.Wrap(cvc.Body{
		HolderRef: "ROOT", AuthorityRef: "ROOT",
		PubKey: rootPub, ValidFrom: now.Add(-y), ValidUntil: now.Add(10 * y),
	}, rootPriv, lv)
	if err != nil {
		t.Fatalf("cvc.Wrap(root): %v", err)
	}
	rootPath := writeCert(t, dir, "root.cvc", root)
	keyPath := filepath.Join(dir, "root.key")
	os.WriteFile(keyPath, rootPriv, 0o600)
	contentPath := filepath.Join(dir, "content.txt")
	os.WriteFile(contentPath, []byte("original"), 0o600)
	envPath := filepath.Join(dir, "content.sig")
	date := now.Format("20060102")

	if code := run([]string{
		"sign", "-key", keyPath, "-chain", rootPath,
		"-in", contentPath, "-out", envPath, "-date", date,
	}); code != 0 {
		t.Fatalf("sign exited %d", code)
	}

	os.WriteFile(contentPath, []byte("tampered"), 0o600)
	if code := run([]string{
		"vfy", "-in", contentPath, "-envelope", envPath,
		"-anchor", rootPath, "-now", date,
	}); code == 0 {
		t.Fatal("vfy accepted tampered content")
	}
}

func TestRunUnknownSubcommand(t *testing.T) {
	if code := run([]string{"bogus"}); code != 2 {
		t.Fatalf("run(bogus) = %d, want 2", code)
	}
}

func TestRunNoArgs(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Fatalf("run(nil) = %d, want 2", code)
	}
}
