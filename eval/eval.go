// Package eval implements the tree-walking evaluator that drives side
// effects, produces runtime values, and enforces the static-type rules
// attached at var declarations, function parameters, function returns,
// and reassignments.
//
// Grounded on original_source/src/interpreter/mod.rs (the Rust
// implementation this project is based on) for statement/control-flow semantics,
// and on original_source/src/interpreter/expr.rs for expression semantics.
// Style follows openllb/hlb's checker/resolver's mutate-in-place walk
// (resolver/resolver.go) generalized from a pure scope-distance pass to a
// full side-effecting evaluator.
package eval

import (
	"fmt"
	"os"

	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/module"
	"github.com/ape-lang/ape/token"
)

// Tracer receives one notification per evaluated statement/expression,
// wired to the `--log` CLI flag's verbose execution trace. The zero value
// of Interpreter uses a no-op tracer.
type Tracer interface {
	Trace(step string, pos token.Position)
}

type noopTracer struct{}

func (noopTracer) Trace(string, token.Position) {}

// Interpreter holds one evaluation pass over an Env: the per-call signal
// map return/break use to unwind without exceptions — control flow via
// signals — and the collaborator seams (Tracer, StdlibLoader)
// that keep this package free of CLI/manifest/module concerns.
type Interpreter struct {
	Env   *env.Env
	specs map[string]*env.Value

	isMod  bool
	modSrc string

	sideEffectsDisabled bool
	baseDir             string

	tracer Tracer
	stdlib StdlibLoader

	// modIDCounter is shared across every Interpreter spawned (directly or
	// transitively) by a `mod` statement, so each loaded file's expression
	// ids start at a fresh offset and can never collide with the importing
	// file's (see ast.NewIDGen / parser.ParseFromID).
	modIDCounter *int

	// modCache memoizes parsed module files across multiple `mod`/`use`
	// sites within one run. Nil disables caching; New leaves it nil so
	// tests and sandboxed evaluation don't need to construct one.
	modCache *module.Cache

	// topLevel is false inside a called function's body: runFunc spawns a
	// fresh Interpreter per call, mirroring original_source's run_func
	// constructing a brand-new Interpreter (and default Project) for the
	// call — so a function body's own var/func declarations are exempt
	// from the side-effects-disabled gate that applies to the program's
	// top level.
	topLevel bool
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithTracer wires a Tracer for verbose execution tracing.
func WithTracer(t Tracer) Option {
	return func(i *Interpreter) {
		if t != nil {
			i.tracer = t
		}
	}
}

// WithStdlib wires the collaborator that resolves `use std::...` paths.
func WithStdlib(s StdlibLoader) Option {
	return func(i *Interpreter) { i.stdlib = s }
}

// WithSideEffectsDisabled rejects `mod`/`use` statements and any public or
// mutable top-level declaration with E0x415: a sandboxed-evaluation mode
// used by the CLI's `--side-effects` flag and by tests that must not touch
// the filesystem or publish mutable state.
func WithSideEffectsDisabled() Option {
	return func(i *Interpreter) { i.sideEffectsDisabled = true }
}

// WithBaseDir sets the directory `mod` paths are resolved relative to.
func WithBaseDir(dir string) Option {
	return func(i *Interpreter) { i.baseDir = dir }
}

// WithModuleCache wires a module.Cache so repeated `mod` loads of the same
// file within one run are parsed and resolved only once.
func WithModuleCache(c *module.Cache) Option {
	return func(i *Interpreter) { i.modCache = c }
}

// New constructs an Interpreter over e, ready to run top-level statements.
func New(e *env.Env, opts ...Option) *Interpreter {
	i := &Interpreter{
		Env:          e,
		specs:        map[string]*env.Value{},
		tracer:       noopTracer{},
		modIDCounter: new(int),
		topLevel:     true,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interpreter) trace(step string, pos token.Position) {
	i.tracer.Trace(step, pos)
}

// warn prints a non-fatal diagnostic and continues evaluation.
func (i *Interpreter) warn(w *diagnostic.Warning) {
	fmt.Fprintln(os.Stderr, w.Error())
}
