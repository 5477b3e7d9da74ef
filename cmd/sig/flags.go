package main

import "flag"

// flagSet wraps flag.FlagSet the way the pack's own CLI scaffolding does
// (ContinueOnError so the caller, not flag's default os.Exit, decides how
// to report a parse error).
type flagSet struct {
	*flag.FlagSet
}

func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}
