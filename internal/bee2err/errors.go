// Package bee2err defines the error-code taxonomy shared by every layer of
// bee2go, from the word arithmetic up through the signature envelope. A
// single sentinel error per code lets callers route on errors.Is instead of
// string matching, while the message text stays human-readable for the sig
// CLI's single diagnostic line (spec §6.2).
package bee2err

import "errors"

// Code is one of the error kinds enumerated in spec.md §6.3.
type Code int

const (
	OK Code = iota
	BadInput
	BadParams
	BadDate
	BadFormat
	BadSig
	BadCert
	BadPubkey
	BadPrivkey
	NoTrust
	FileOpen
	FileRead
	FileWrite
	FileCreate
	OutOfMemory
	CmdParams
	Sys
	SelfTest
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case BadInput:
		return "BAD_INPUT"
	case BadParams:
		return "BAD_PARAMS"
	case BadDate:
		return "BAD_DATE"
	case BadFormat:
		return "BAD_FORMAT"
	case BadSig:
		return "BAD_SIG"
	case BadCert:
		return "BAD_CERT"
	case BadPubkey:
		return "BAD_PUBKEY"
	case BadPrivkey:
		return "BAD_PRIVKEY"
	case NoTrust:
		return "NO_TRUST"
	case FileOpen:
		return "FILE_OPEN"
	case FileRead:
		return "FILE_READ"
	case FileWrite:
		return "FILE_WRITE"
	case FileCreate:
		return "FILE_CREATE"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case CmdParams:
		return "CMD_PARAMS"
	case Sys:
		return "SYS"
	case SelfTest:
		return "SELFTEST"
	default:
		return "UNKNOWN"
	}
}

// codeError pairs a Code with a descriptive message so errors.Is can match
// on the sentinel while %w-wrapping preserves the original context.
type codeError struct {
	code Code
	msg  string
}

func (e *codeError) Error() string { return e.code.String() + ": " + e.msg }

// Is reports whether target is the sentinel for the same Code, so that
// errors.Is(err, bee2err.BadCert) works after any number of %w wraps.
func (e *codeError) Is(target error) bool {
	ce, ok := target.(*codeError)
	return ok && ce.code == e.code && ce.msg == ""
}

// New creates an error carrying both a Code and a message.
func New(code Code, msg string) error {
	return &codeError{code: code, msg: msg}
}

// sentinel builds the zero-message sentinel used as the errors.Is target.
func sentinel(code Code) error { return &codeError{code: code} }

// Sentinels for errors.Is comparisons, e.g. errors.Is(err, bee2err.ErrBadCert).
var (
	ErrBadInput    = sentinel(BadInput)
	ErrBadParams   = sentinel(BadParams)
	ErrBadDate     = sentinel(BadDate)
	ErrBadFormat   = sentinel(BadFormat)
	ErrBadSig      = sentinel(BadSig)
	ErrBadCert     = sentinel(BadCert)
	ErrBadPubkey   = sentinel(BadPubkey)
	ErrBadPrivkey  = sentinel(BadPrivkey)
	ErrNoTrust     = sentinel(NoTrust)
	ErrFileOpen    = sentinel(FileOpen)
	ErrFileRead    = sentinel(FileRead)
	ErrFileWrite   = sentinel(FileWrite)
	ErrFileCreate  = sentinel(FileCreate)
	ErrOutOfMemory = sentinel(OutOfMemory)
	ErrCmdParams   = sentinel(CmdParams)
	ErrSys         = sentinel(Sys)
	ErrSelfTest    = sentinel(SelfTest)
)

// CodeOf extracts the Code carried by err, defaulting to Sys for errors that
// did not originate from this package (e.g. a wrapped os.PathError).
func CodeOf(err error) Code {
	var ce *codeError
	if errors.As(err, &ce) {
		return ce.code
	}
	return Sys
}
