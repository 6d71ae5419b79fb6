// Package trace is the concrete eval.Tracer wired in behind the CLI's
// `--log`/`-l` flag: one line per evaluated statement/expression, written
// to a configured writer.
//
// Grounded on openllb/hlb's codegen/debugger.go, whose yield method is
// called on every codegen step to support a full interactive debugger
// (breakpoints, step/next/continue, rewind). ape has no debugger surface
// in scope, so this keeps only the part of that idea the `--log` flag
// actually needs: a yield-on-every-step hook, stripped down
// to unconditional one-line-per-step logging instead of a pausable
// control loop.
package trace

import (
	"fmt"
	"io"
	"sync"

	"github.com/ape-lang/ape/token"
)

// Writer is an eval.Tracer that writes one line per step to an underlying
// io.Writer. The zero value discards everything (Out nil is treated as
// disabled): tracing is off unless --log is given.
type Writer struct {
	mu  sync.Mutex
	Out io.Writer
}

// New returns a Writer tracing to w. A nil w disables tracing, useful for
// wiring a single *Writer regardless of whether --log was passed.
func New(w io.Writer) *Writer {
	return &Writer{Out: w}
}

// Trace implements eval.Tracer.
func (t *Writer) Trace(step string, pos token.Position) {
	if t == nil || t.Out == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.Out, "%s:%d:%d: %s\n", pos.Filename, pos.Line, pos.StartCol, step)
}
