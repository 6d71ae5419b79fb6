// Package resolver implements a static walk over the parsed AST that
// produces a mapping from expression id to lexical scope distance, and
// rejects a handful of structural errors (self-reference in an
// initializer, duplicate declarations in the same scope, return outside a
// function, break outside a loop) before the evaluator ever runs.
//
// Grounded on openllb/hlb's checker package's scope-stack walk
// (checker/checker.go's Scope push/pop around block and function bodies),
// generalized from HLB's type-checking pass to this narrower
// distance-resolution contract.
package resolver

import (
	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/token"
)

// scope maps a name to whether it has finished being defined. An entry
// present but false means "declared, not yet defined" — reading it in that
// state is the self-reference-in-initializer error.
type scope map[string]bool

// Resolver walks a statement list and builds the expression-id -> depth
// map the evaluator's environment consults at lookup time.
type Resolver struct {
	scopes    []scope
	locals    map[int]int
	funcDepth int
	loopDepth int
}

func New() *Resolver {
	return &Resolver{locals: make(map[int]int)}
}

// Resolve walks stmts and returns the completed expression-id -> depth map.
func Resolve(stmts []*ast.Stmt) (map[int]int, error) {
	r := New()
	if err := r.Stmts(stmts); err != nil {
		return nil, err
	}
	return r.locals, nil
}

// Locals returns the expression-id -> depth map accumulated so far.
func (r *Resolver) Locals() map[int]int { return r.locals }

func (r *Resolver) pushScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) popScope()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) current() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) define(name string) {
	if s := r.current(); s != nil {
		s[name] = true
	}
}

// resolveVar records the scope distance of a Var expression reference,
// walking the scope stack from innermost outward. Unresolved names are
// left out of the map entirely — the evaluator falls back to the
// enclosing/public tables at run time.
func (r *Resolver) resolveVar(e *ast.Expr) error {
	for depth := len(r.scopes) - 1; depth >= 0; depth-- {
		if defined, ok := r.scopes[depth][e.Name]; ok {
			if !defined {
				return diagnostic.New(diagnostic.E0x304, e.Pos,
					"cannot read local variable '"+e.Name+"' in its own initializer")
			}
			r.locals[e.ID] = len(r.scopes) - 1 - depth
			return nil
		}
	}
	return nil
}

// resolveLocal records the scope distance of an expression id against a
// name, walking the scope stack from innermost outward the same way
// resolveVar does. Used for Assign targets, which reference a name
// without going through an EVar node. An unresolved name is left out of
// the map entirely — Env.Assign falls back to the global table.
func (r *Resolver) resolveLocal(id int, name string) {
	for depth := len(r.scopes) - 1; depth >= 0; depth-- {
		if _, ok := r.scopes[depth][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - depth
			return
		}
	}
}

func (r *Resolver) Stmts(stmts []*ast.Stmt) error {
	for _, s := range stmts {
		if err := r.Stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) Stmt(s *ast.Stmt) error {
	switch s.Kind {
	case ast.SExpr, ast.SReturn:
		if s.Kind == ast.SReturn && r.funcDepth == 0 {
			return diagnostic.New(diagnostic.E0x303, s.Pos, "return outside of function")
		}
		return r.Expr(s.Expr)

	case ast.SBlock:
		r.pushScope()
		err := r.Stmts(s.Stmts)
		r.popScope()
		return err

	case ast.SVar:
		for _, n := range s.Names {
			if n == "_" {
				continue
			}
			if err := r.declareNamed(n, s.Pos); err != nil {
				return err
			}
		}
		if s.Value != nil {
			if err := r.Expr(s.Value); err != nil {
				return err
			}
		}
		for _, n := range s.Names {
			if n != "_" {
				r.define(n)
			}
		}
		return nil

	case ast.SFunc:
		if err := r.declareNamed(s.FuncName, s.Pos); err != nil {
			return err
		}
		r.define(s.FuncName) // enables self-recursion
		return r.resolveFuncBody(s.Params, s.Body)

	case ast.SIf:
		if err := r.Expr(s.Cond); err != nil {
			return err
		}
		if err := r.Stmt(s.Then); err != nil {
			return err
		}
		for _, el := range s.Elifs {
			if err := r.Expr(el.Cond); err != nil {
				return err
			}
			if err := r.Stmt(el.Body); err != nil {
				return err
			}
		}
		if s.Else != nil {
			return r.Stmt(s.Else)
		}
		return nil

	case ast.SWhile:
		if err := r.Expr(s.Cond); err != nil {
			return err
		}
		r.loopDepth++
		err := r.Stmt(s.Then)
		r.loopDepth--
		return err

	case ast.SLoop:
		if s.Iter != nil {
			if err := r.Expr(s.Iter); err != nil {
				return err
			}
		}
		r.loopDepth++
		err := r.Stmt(s.LoopBody)
		r.loopDepth--
		return err

	case ast.SBreak:
		if r.loopDepth == 0 {
			return diagnostic.New(diagnostic.E0x302, s.Pos, "break outside of loop")
		}
		return nil

	case ast.SMatch:
		if err := r.Expr(s.MatchCond); err != nil {
			return err
		}
		for _, c := range s.Cases {
			if err := r.Expr(c.Pattern); err != nil {
				return err
			}
			if err := r.resolveFuncBodyNoParams(c.Body); err != nil {
				return err
			}
		}
		if s.Default != nil {
			return r.resolveFuncBodyNoParams(s.Default)
		}
		return nil

	case ast.SMod, ast.SUse, ast.SType, ast.SEnum:
		// Module/use wiring, type aliases, and enum registration are
		// resolved dynamically by the evaluator against its own tables;
		// the resolver has no lexical scoping work to do for them.
		return nil

	default:
		return nil
	}
}

func (r *Resolver) declareNamed(name string, pos token.Position) error {
	s := r.current()
	if s == nil {
		return nil
	}
	if _, ok := s[name]; ok {
		return diagnostic.New(diagnostic.E0x305, pos, "'"+name+"' is already declared in this scope")
	}
	s[name] = false
	return nil
}

func (r *Resolver) resolveFuncBody(params []ast.Param, body *ast.FuncBody) error {
	r.pushScope()
	r.funcDepth++
	for _, p := range params {
		r.current()[p.Name] = true
	}
	var err error
	if body.Expr != nil {
		err = r.Expr(body.Expr)
	} else {
		err = r.Stmts(body.Stmts)
	}
	r.funcDepth--
	r.popScope()
	return err
}

func (r *Resolver) resolveFuncBodyNoParams(body *ast.FuncBody) error {
	r.pushScope()
	var err error
	if body.Expr != nil {
		err = r.Expr(body.Expr)
	} else {
		err = r.Stmts(body.Stmts)
	}
	r.popScope()
	return err
}

func (r *Resolver) Expr(e *ast.Expr) error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.EValue:
		return nil
	case ast.EVar:
		return r.resolveVar(e)
	case ast.EGrouping:
		return r.Expr(e.Inner)
	case ast.EArray:
		for _, it := range e.Items {
			if err := r.Expr(it); err != nil {
				return err
			}
		}
		return nil
	case ast.EObject:
		for _, f := range e.Fields {
			if err := r.Expr(f.Value); err != nil {
				return err
			}
		}
		return nil
	case ast.EUnary:
		return r.Expr(e.Operand)
	case ast.EBinary:
		if err := r.Expr(e.Left); err != nil {
			return err
		}
		return r.Expr(e.Right)
	case ast.EAssign:
		if err := r.Expr(e.AssignValue); err != nil {
			return err
		}
		r.resolveLocal(e.ID, e.AssignName)
		return nil
	case ast.ECall:
		if err := r.Expr(e.Callee); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := r.Expr(a); err != nil {
				return err
			}
		}
		return nil
	case ast.EMethod:
		if err := r.Expr(e.Receiver); err != nil {
			return err
		}
		for _, a := range e.MethodArgs {
			if err := r.Expr(a); err != nil {
				return err
			}
		}
		return nil
	case ast.EFunc:
		return r.resolveFuncBody(e.Func.Params, e.Func.Body)
	case ast.EAwait:
		return r.Expr(e.Await)
	default:
		return nil
	}
}
