package eval

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/module"
	"github.com/ape-lang/ape/parser"
	"github.com/ape-lang/ape/resolver"
)

// StdlibLoader resolves a `use std::...` path: it registers whatever
// values/functions the path names directly into the importing scope. This
// is the seam the stdlib registration protocol lives behind — eval
// depends only on this interface, not on any concrete stdlib package.
type StdlibLoader interface {
	Load(path string, names []ast.UseName, all bool, into *env.Env) error
}

// modIDStride is how far apart each `mod`-loaded file's expression ids
// start, large enough that no single file plausibly produces that many
// expressions.
const modIDStride = 1_000_000

func (i *Interpreter) nextModID() int {
	*i.modIDCounter += modIDStride
	return *i.modIDCounter
}

// modStmt implements the Mod statement: reads the referenced file
// relative to baseDir, parses and resolves it, then interprets it into a
// sub-interpreter that shares this interpreter's environment but runs in
// module mode (its Var/Func declarations publish into the module-scoped
// table rather than running full statement execution).
func (i *Interpreter) modStmt(s *ast.Stmt) error {
	if i.sideEffectsDisabled {
		return diagnostic.New(diagnostic.E0x415, s.Pos, "mod statement requires side effects to be enabled")
	}

	path := strings.Trim(s.ModPath, `"`)
	full := path
	if i.baseDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(i.baseDir, path)
	}

	var parsed module.Parsed
	if i.modCache != nil {
		if cached, ok := i.modCache.Get(full); ok {
			parsed = cached
		}
	}
	if parsed.Stmts == nil {
		src, err := os.ReadFile(full)
		if err != nil {
			return diagnostic.Wrap(diagnostic.E0x416, s.Pos, err)
		}
		stmts, perr := parser.ParseFromID(full, string(src), i.nextModID())
		if perr != nil {
			return perr
		}
		locals, rerr := resolver.Resolve(stmts)
		if rerr != nil {
			return rerr
		}
		parsed = module.Parsed{Stmts: stmts, Locals: locals}
		if i.modCache != nil {
			i.modCache.Store(full, parsed)
		}
	}
	i.Env.Resolve(parsed.Locals)

	sub := New(i.Env, WithTracer(i.tracer), WithStdlib(i.stdlib), WithModuleCache(i.modCache))
	sub.isMod = true
	sub.modSrc = path
	sub.modIDCounter = i.modIDCounter
	sub.sideEffectsDisabled = i.sideEffectsDisabled
	sub.baseDir = i.baseDir
	return sub.Stmts(parsed.Stmts)
}

// useStmt implements the Use statement. A `std::...` path delegates to
// the configured StdlibLoader, using this explicit prefix rule (narrower
// than original_source's broader "contains ::" check) rather than
// original_source's heuristic. Any other
// path is looked up in the module-scoped table populated by a prior `mod`.
func (i *Interpreter) useStmt(s *ast.Stmt) error {
	if i.sideEffectsDisabled {
		return diagnostic.New(diagnostic.E0x415, s.Pos, "use statement requires side effects to be enabled")
	}

	if strings.HasPrefix(s.UsePath, "std::") {
		if i.stdlib == nil {
			return diagnostic.New(diagnostic.E0x416, s.Pos, "no stdlib loader configured for '"+s.UsePath+"'")
		}
		return i.stdlib.Load(s.UsePath, s.UseNames, s.ImportAll, i.Env)
	}

	if s.ImportAll {
		for name, b := range i.Env.TakeAllMod(s.UsePath) {
			i.bindImported(name, b)
		}
		return nil
	}
	for _, un := range s.UseNames {
		b, ok := i.Env.TakeMod(s.UsePath, un.Name)
		if !ok {
			return diagnostic.New(diagnostic.E0x416, s.Pos, "'"+un.Name+"' not found in module '"+s.UsePath+"'")
		}
		alias := un.Name
		if un.Alias != "" {
			alias = un.Alias
		}
		i.bindImported(alias, b)
	}
	return nil
}

func (i *Interpreter) bindImported(name string, b *env.Binding) {
	switch b.Kind {
	case env.BindFunc:
		i.Env.DefineFunc(name, b.Value, *b.Func)
	default:
		i.Env.DefineVar(name, b.Value, *b.Var)
	}
}
