// Package builtin is the concrete stdlib registration collaborator:
// `std::core::io` (print/read family) and `std::core::test` (`assert`,
// gated by test mode). It implements eval.StdlibLoader
// structurally, without importing package eval, keeping the dependency
// direction the right way around (eval depends on the interface, builtin
// depends on nothing from eval).
//
// Grounded on original_source/src/interpreter/load_std.rs's `load_std`:
// the same `std::core::io::...` path-splitting dispatch and the same
// per-name registration (rather than always registering the whole
// module), translated from its hand-rolled `match parts[1] { "core" =>
// match parts[2] { ... } }` nesting into two small per-module registration
// tables.
package builtin

import (
	"bufio"
	"io"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/token"
	"github.com/logrusorgru/aurora"
)

// Loader is the stdlib collaborator wired into eval.New via
// eval.WithStdlib. isTest gates std::core::test::assert's registration,
// matching the `--test` flag's effect on stdlib assert. color/
// stdout/stderr/stdin are the same collaborators the CLI's diagnostic
// rendering uses (diagnostic.Color), passed in directly rather than
// through a context.Context since env.Native's callback signature carries
// no context.
type Loader struct {
	isTest bool
	color  aurora.Aurora
	in     *bufio.Reader
	out    io.Writer
	err    io.Writer
}

// NewLoader constructs a Loader. isTest should be true exactly when the
// CLI's `--test`/`-t` flag was given.
func NewLoader(isTest bool, color aurora.Aurora, stdin io.Reader, stdout, stderr io.Writer) *Loader {
	return &Loader{isTest: isTest, color: color, in: bufio.NewReader(stdin), out: stdout, err: stderr}
}

// Load implements eval.StdlibLoader. path is the full `std::...` use path;
// names/all mirror the Use statement's selective-vs-wildcard import.
func (l *Loader) Load(path string, names []ast.UseName, all bool, into *env.Env) error {
	switch path {
	case "std::core::io":
		l.registerIO(into, names, all)
		return nil
	case "std::core::test":
		l.registerTest(into, names, all, l.isTest)
		return nil
	case "std::core":
		l.registerIO(into, nil, true)
		l.registerTest(into, nil, true, l.isTest)
		return nil
	default:
		return diagnostic.New(diagnostic.E0x416, token.Position{}, "standard library '"+path+"' doesn't exist")
	}
}

// native registers a single Native function into env's public table, under
// alias if set, else under name, using the `{ name, arity, callback }`
// registration protocol.
func native(into *env.Env, name, alias string, arity int, cb func(args []*env.Value) (*env.Value, error)) {
	n := alias
	if n == "" {
		n = name
	}
	v := env.DeclaredFunction(&env.Native{Name: name, Arity: arity, Callback: cb})
	into.DefinePubFunc(n, v, env.FuncMeta{IsPub: true})
}

// selected reports whether all is set, or name appears in names, and if so
// returns the alias (if any) requested for it.
func selected(names []ast.UseName, all bool, name string) (string, bool) {
	if all {
		return "", true
	}
	for _, n := range names {
		if n.Name == name {
			return n.Alias, true
		}
	}
	return "", false
}
