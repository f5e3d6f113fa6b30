package export

import (
	"errors"
	"fmt"
)

// ErrBufferLimit reports that more than MaxBuffer bytes accumulated
// without reaching a record boundary, or that a single field declared a
// payload that could never fit under the limit. It indicates runaway or
// pathological input rather than a malformed field.
var ErrBufferLimit = errors.New("export: buffer limit exceeded without record boundary")

// ErrModeNotImplemented reports a recognized output mode with no
// implemented rendering. It is a configuration error; rendering never
// falls back to a different mode.
var ErrModeNotImplemented = errors.New("export: output mode not implemented")

// SyntaxError reports a structural violation of the export format. The
// decode cannot continue past it; the format offers no way to
// resynchronize after a corrupt field boundary.
type SyntaxError struct {
	Offset int64 // byte position in the decoded stream
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("export: invalid stream at byte %d: %s", e.Offset, e.Msg)
}

// Structural decode errors, wrapped into a *SyntaxError with the stream
// offset by the Reader.
var (
	errEmptyName = errors.New("empty field name")
	errBadSep    = errors.New("field name followed by neither '=' nor newline")
	errBadTerm   = errors.New("binary value not terminated by newline")
)

// needMore is the resumable decode outcome: the slice is a valid but
// incomplete prefix of a field. n is the minimum number of additional
// bytes that could allow progress, when determinable; at least 1.
// It never escapes the Reader.
type needMore struct {
	n int
}

func (e needMore) Error() string {
	return fmt.Sprintf("need %d more bytes", e.n)
}
