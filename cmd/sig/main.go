// Command sig signs, verifies, and prints bee2go signature envelopes
// (spec.md §4.7).
//
// Usage:
//
//	sig sign   -key PRIV -chain CERT[,CERT...] -in FILE -out ENVELOPE [-date YYYYMMDD]
//	sig vfy    -in FILE -envelope ENVELOPE -anchor CERT[,CERT...] [-now YYYYMMDD]
//	sig print  -envelope ENVELOPE
//
// The bign level is chosen from the private key's length.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agievich/bee2go/internal/bign"
	"github.com/agievich/bee2go/internal/cvc"
	"github.com/agievich/bee2go/internal/sig"
	"github.com/agievich/bee2go/pkg/log"
)

var logger = log.Default().Module("cmd/sig")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: sig <sign|vfy|print> [flags]")
		return 2
	}
	switch args[0] {
	case "sign":
		return runSign(args[1:])
	case "vfy":
		return runVfy(args[1:])
	case "print":
		return runPrint(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		return 2
	}
}

func readCertChain(paths string) ([]*cvc.Cert, error) {
	var chain []*cvc.Cert
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		buf, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read cert %s: %w", p, err)
		}
		c, err := cvc.Parse(buf)
		if err != nil {
			return nil, fmt.Errorf("parse cert %s: %w", p, err)
		}
		chain = append(chain, c)
	}
	return chain, nil
}

func runSign(args []string) int {
	fs := newCustomFlagSet("sig sign")
	keyPath := fs.String("key", "", "path to the signer's private key")
	chainPaths := fs.String("chain", "", "comma-separated DER-encoded certificate paths, leaf last")
	inPath := fs.String("in", "", "path to the content to sign")
	outPath := fs.String("out", "", "path to write the signature envelope")
	dateStr := fs.String("date", time.Now().UTC().Format("20060102"), "signing date YYYYMMDD")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *keyPath == "" || *chainPaths == "" || *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "sign: -key, -chain, -in, and -out are required")
		return 2
	}

	priv, err := os.ReadFile(*keyPath)
	if err != nil {
		logger.Error("read key failed", "err", err)
		return 1
	}
	lv, err := bign.ParamsFor(len(priv))
	if err != nil {
		logger.Error("unsupported private key length", "len", len(priv), "err", err)
		return 1
	}
	chain, err := readCertChain(*chainPaths)
	if err != nil {
		logger.Error("read chain failed", "err", err)
		return 1
	}
	content, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("read content failed", "err", err)
		return 1
	}
	when, err := time.Parse("20060102", *dateStr)
	if err != nil {
		logger.Error("bad -date", "err", err)
		return 2
	}

	env, err := sig.Sign(content, chain, priv, lv, when)
	if err != nil {
		logger.Error("sign failed", "err", err)
		return 1
	}
	wire, err := env.Encode()
	if err != nil {
		logger.Error("encode failed", "err", err)
		return 1
	}
	if err := os.WriteFile(*outPath, wire, 0o600); err != nil {
		logger.Error("write envelope failed", "err", err)
		return 1
	}
	logger.Info("signed", "in", *inPath, "out", *outPath, "certs", len(chain))
	return 0
}

func runVfy(args []string) int {
	fs := newCustomFlagSet("sig vfy")
	inPath := fs.String("in", "", "path to the signed content")
	envPath := fs.String("envelope", "", "path to the signature envelope")
	anchorPaths := fs.String("anchor", "", "comma-separated trusted-anchor certificate paths")
	nowStr := fs.String("now", time.Now().UTC().Format("20060102"), "validation reference date YYYYMMDD")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *inPath == "" || *envPath == "" || *anchorPaths == "" {
		fmt.Fprintln(os.Stderr, "vfy: -in, -envelope, and -anchor are required")
		return 2
	}

	content, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("read content failed", "err", err)
		return 1
	}
	wire, err := os.ReadFile(*envPath)
	if err != nil {
		logger.Error("read envelope failed", "err", err)
		return 1
	}
	anchors, err := readCertChain(*anchorPaths)
	if err != nil {
		logger.Error("read anchors failed", "err", err)
		return 1
	}
	now, err := time.Parse("20060102", *nowStr)
	if err != nil {
		logger.Error("bad -now", "err", err)
		return 2
	}

	env, err := sig.Extract(wire)
	if err != nil {
		logger.Error("extract failed", "err", err)
		return 1
	}
	if err := env.Verify(content, anchors, now); err != nil {
		logger.Error("verification failed", "err", err)
		return 1
	}
	logger.Info("verified", "in", *inPath)
	fmt.Println("OK")
	return 0
}

func runPrint(args []string) int {
	fs := newCustomFlagSet("sig print")
	envPath := fs.String("envelope", "", "path to the signature envelope")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *envPath == "" {
		fmt.Fprintln(os.Stderr, "print: -envelope is required")
		return 2
	}
	wire, err := os.ReadFile(*envPath)
	if err != nil {
		logger.Error("read envelope failed", "err", err)
		return 1
	}
	env, err := sig.Extract(wire)
	if err != nil {
		logger.Error("extract failed", "err", err)
		return 1
	}
	fmt.Print(env.Print())
	return 0
}
