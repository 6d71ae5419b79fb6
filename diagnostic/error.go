package diagnostic

import (
	"fmt"

	"github.com/ape-lang/ape/token"
	"github.com/pkg/errors"
)

// Error is a single fatal diagnostic: a taxonomy Code, a formatted detail
// message, and the source span it applies to. It implements the error
// interface so it composes with errors.Wrap/errors.Cause like the rest of
// the pipeline.
type Error struct {
	Code   Code
	Detail string
	Pos    token.Position
	// Cause, when set, is wrapped so callers can errors.Unwrap back to an
	// underlying stdlib error (e.g. strconv.ParseFloat's error).
	Cause error
}

func New(code Code, pos token.Position, detail string) *Error {
	return &Error{Code: code, Detail: detail, Pos: pos}
}

func Newf(code Code, pos token.Position, format string, args ...interface{}) *Error {
	return New(code, pos, fmt.Sprintf(format, args...))
}

func Wrap(code Code, pos token.Position, cause error) *Error {
	return &Error{Code: code, Detail: cause.Error(), Pos: pos, Cause: cause}
}

func (e *Error) Error() string {
	msg := e.Code.Description()
	if e.Detail != "" {
		msg = e.Detail
	}
	return fmt.Sprintf("%s error (E0x%d): %s, at %d:%d-%d",
		e.Code.Category(), e.Code, msg, e.Pos.Line, e.Pos.StartCol, e.Pos.EndCol)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Warning is a non-fatal diagnostic; the evaluator and CLI print it but do
// not abort.
type Warning struct {
	Detail string
	Pos    token.Position
}

func (w *Warning) Error() string {
	return fmt.Sprintf("warning: %s, at %d:%d-%d", w.Detail, w.Pos.Line, w.Pos.StartCol, w.Pos.EndCol)
}

// Cause unwraps err to the deepest non-nil cause, mirroring
// github.com/pkg/errors.Cause but kept local so callers don't need to know
// which wrapping scheme produced a *diagnostic.Error.
func Cause(err error) error {
	return errors.Cause(err)
}

// AsError reports whether err (or something it wraps) is a *diagnostic.Error
// and returns it.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
