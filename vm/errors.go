package vm

import (
	"errors"
	"fmt"
)

// Sentinel errors checkable with errors.Is, covering the error kinds named
// in §7. Opcode implementations wrap one of these with context via
// fmt.Errorf("...: %w", ...).
var (
	ErrDecode         = errors.New("decode error")
	ErrRange          = errors.New("range error")
	ErrType           = errors.New("type error")
	ErrLimit          = errors.New("limit error")
	ErrArithmetic     = errors.New("arithmetic error")
	ErrInvariant      = errors.New("invariant error")
	ErrAbort          = errors.New("ABORT executed")
	ErrAssertFailed   = errors.New("ASSERT failed")
	ErrUnhandled      = errors.New("unhandled exception")
	ErrAlreadyRunning = errors.New("script already loaded")
)

// wrapf builds an error wrapping kind with a formatted detail message, the
// same fmt.Errorf("%w: ...") idiom used throughout this package.
func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
