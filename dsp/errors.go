package dsp

import "github.com/pkg/errors"

// Sentinel errors for each failure category of a block. Callers wrap them
// with context; Code recovers the category through the wrapping.
var (
	ErrArgBounds         = errors.New("Argument(s) out-of-bounds.")
	ErrStreamOpen        = errors.New("Could not open stream.")
	ErrStreamClose       = errors.New("Could not close stream.")
	ErrStreamRead        = errors.New("Could not read from stream.")
	ErrStreamWrite       = errors.New("Could not write to stream.")
	ErrAlloc             = errors.New("Could not allocate memory.")
	ErrUnknownOption     = errors.New("Unknown option.")
	ErrUnknownWindow     = errors.New("Unknown window.")
	errUnhandled         = "Unhandled error."
	codeUnhandled    int = -9
)

var codes = []error{
	ErrArgBounds,
	ErrStreamOpen,
	ErrStreamClose,
	ErrStreamRead,
	ErrStreamWrite,
	ErrAlloc,
	ErrUnknownOption,
	ErrUnknownWindow,
}

// Code maps err to its negative status code, 0 for nil.
func Code(err error) int {
	if err == nil {
		return 0
	}
	cause := errors.Cause(err)
	for i, e := range codes {
		if cause == e {
			return -(i + 1)
		}
	}
	return codeUnhandled
}

// Message gives the fixed text for a status code.
func Message(code int) string {
	switch code {
	case -1, -2, -3, -4, -5, -6, -7, -8:
		return codes[-code-1].Error()
	}
	return errUnhandled
}
