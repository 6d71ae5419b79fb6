package eval

import (
	"strings"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
)

// Stmts runs a statement list in order, stopping early once a return or
// break signal is pending so the caller (Block/While/Loop/runFunc) can act
// on it — control flow via signals rather than exceptions.
func (i *Interpreter) Stmts(stmts []*ast.Stmt) error {
	for _, s := range stmts {
		if err := i.Stmt(s); err != nil {
			return err
		}
		if i.signaled() {
			return nil
		}
	}
	return nil
}

func (i *Interpreter) signaled() bool {
	if _, ok := i.specs["return"]; ok {
		return true
	}
	_, ok := i.specs["break"]
	return ok
}

// Stmt dispatches a single statement. Block/If/While/Loop/Match are no-ops
// in module mode: a `mod`-loaded file only ever publishes var/func
// declarations and runs top-level expressions (module mode).
func (i *Interpreter) Stmt(s *ast.Stmt) error {
	i.trace("stmt", s.Pos)
	switch s.Kind {
	case ast.SExpr:
		_, err := i.Expr(s.Expr)
		return err
	case ast.SBlock:
		if i.isMod {
			return nil
		}
		return i.blockStmt(s)
	case ast.SVar:
		return i.varStmt(s)
	case ast.SFunc:
		return i.funcStmt(s)
	case ast.SIf:
		if i.isMod {
			return nil
		}
		return i.ifStmt(s)
	case ast.SReturn:
		return i.returnStmt(s)
	case ast.SWhile:
		if i.isMod {
			return nil
		}
		return i.whileStmt(s)
	case ast.SLoop:
		if i.isMod {
			return nil
		}
		return i.loopStmt(s)
	case ast.SBreak:
		if i.isMod {
			return nil
		}
		i.specs["break"] = env.Void()
		return nil
	case ast.SMatch:
		if i.isMod {
			return nil
		}
		return i.matchStmt(s)
	case ast.SMod:
		return i.modStmt(s)
	case ast.SUse:
		return i.useStmt(s)
	case ast.SType:
		return i.typeStmt(s)
	case ast.SEnum:
		return i.enumStmt(s)
	default:
		return nil
	}
}

func (i *Interpreter) blockStmt(s *ast.Stmt) error {
	prev := i.Env
	i.Env = i.Env.Enclose()
	err := i.Stmts(s.Stmts)
	i.Env = prev
	return err
}

// execBody runs a FuncBody (statements or a single expression) in a fresh
// child scope of targetEnv, used by match arms, which are not full function
// calls — no parameter binding, no fresh signal map, so a
// `return` inside still unwinds the enclosing function normally.
func (i *Interpreter) execBody(b *ast.FuncBody, targetEnv *env.Env) error {
	prev := i.Env
	i.Env = targetEnv.Enclose()
	var err error
	if b.Expr != nil {
		_, err = i.Expr(b.Expr)
	} else {
		err = i.Stmts(b.Stmts)
	}
	i.Env = prev
	return err
}

// varStmt implements variable declaration: evaluate the value, type-check
// it against the declared type, then bind each name with its recorded
// mutability/publicity. `pub(alias, ...)` lets a public declaration export
// under different names than it binds locally.
func (i *Interpreter) varStmt(s *ast.Stmt) error {
	if s.IsPub && s.Value == nil {
		return diagnostic.New(diagnostic.E0x402, s.Pos,
			"public declaration of '"+strings.Join(s.Names, ", ")+"' requires a value")
	}

	if i.topLevel && i.sideEffectsDisabled && (s.IsMut || s.IsPub) {
		return diagnostic.New(diagnostic.E0x415, s.Pos,
			"declaration of '"+strings.Join(s.Names, ", ")+"' requires side effects to be enabled")
	}

	val := env.Null()
	if s.Value != nil {
		v, err := i.Expr(s.Value)
		if err != nil {
			return err
		}
		val = v
		if s.VarType != nil {
			ok, terr := i.TypeCheck(s.VarType, val)
			if terr != nil {
				return terr
			}
			if !ok {
				return diagnostic.New(diagnostic.E0x301, s.Pos,
					"type mismatch in declaration of '"+strings.Join(s.Names, ", ")+"'")
			}
		}
	}

	if s.IsArrayDestructure {
		if val.Kind != env.VArray && val.Kind != env.VTuple {
			return diagnostic.New(diagnostic.E0x301, s.Pos, "cannot destructure a non-array value")
		}
		elems, err := i.materialize(val)
		if err != nil {
			return err
		}
		for idx, name := range s.Names {
			if name == "_" {
				continue
			}
			elem := env.Null()
			if idx < len(elems) {
				elem = elems[idx]
			}
			i.bindVar(name, elem, s, idx)
		}
		return nil
	}

	for idx, name := range s.Names {
		if name == "_" {
			continue
		}
		i.bindVar(name, val, s, idx)
	}
	return nil
}

func (i *Interpreter) bindVar(name string, v *env.Value, s *ast.Stmt, idx int) {
	meta := env.VarMeta{IsMut: s.IsMut, IsPub: s.IsPub, IsFunc: s.IsFuncValue, Type: s.VarType}
	i.Env.DefineVar(name, v, meta)
	if s.IsPub {
		pubName := name
		if idx < len(s.PubNames) && s.PubNames[idx] != "" {
			pubName = s.PubNames[idx]
		}
		i.Env.DefinePubVar(pubName, v, meta)
	}
	if i.isMod {
		i.Env.DefineModVar(i.modSrc, name, v, meta)
	}
}

func (i *Interpreter) funcStmt(s *ast.Stmt) error {
	if s.IsPub && i.topLevel && i.sideEffectsDisabled {
		return diagnostic.New(diagnostic.E0x415, s.Pos,
			"public declaration of '"+s.FuncName+"' requires side effects to be enabled")
	}

	closure := &env.Closure{Params: s.Params, Body: s.Body, ReturnType: s.ReturnType, IsAsync: s.IsAsync, Env: i.Env}
	v := env.Function(closure)
	meta := env.FuncMeta{Params: s.Params, IsAsync: s.IsAsync, IsPub: s.IsPub}
	i.Env.DefineFunc(s.FuncName, v, meta)
	if s.IsPub {
		i.Env.DefinePubFunc(s.FuncName, v, meta)
	}
	if i.isMod {
		i.Env.DefineModFunc(i.modSrc, s.FuncName, v, meta)
	}
	return nil
}

func (i *Interpreter) ifStmt(s *ast.Stmt) error {
	cond, err := i.Expr(s.Cond)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return i.Stmt(s.Then)
	}
	for _, el := range s.Elifs {
		c, err := i.Expr(el.Cond)
		if err != nil {
			return err
		}
		if c.Truthy() {
			return i.Stmt(el.Body)
		}
	}
	if s.Else != nil {
		return i.Stmt(s.Else)
	}
	return nil
}

func (i *Interpreter) returnStmt(s *ast.Stmt) error {
	v := env.Void()
	if s.Expr != nil {
		rv, err := i.Expr(s.Expr)
		if err != nil {
			return err
		}
		v = rv
	}
	i.specs["return"] = v
	return nil
}

func (i *Interpreter) whileStmt(s *ast.Stmt) error {
	for {
		cond, err := i.Expr(s.Cond)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		if err := i.Stmt(s.Then); err != nil {
			return err
		}
		if _, ok := i.specs["return"]; ok {
			return nil
		}
		if _, ok := i.specs["break"]; ok {
			delete(i.specs, "break")
			return nil
		}
	}
}

// loopStmt: a bare `loop` runs unbounded until `break`; `loop n` repeats
// exactly n times, with negative n treated as 1.
func (i *Interpreter) loopStmt(s *ast.Stmt) error {
	n := -1 // sentinel: unbounded
	if s.Iter != nil {
		iterVal, err := i.Expr(s.Iter)
		if err != nil {
			return err
		}
		n = int(iterVal.Number)
		if n < 0 {
			n = 1
		}
	}
	for c := 0; n < 0 || c < n; c++ {
		if err := i.Stmt(s.LoopBody); err != nil {
			return err
		}
		if _, ok := i.specs["return"]; ok {
			return nil
		}
		if _, ok := i.specs["break"]; ok {
			delete(i.specs, "break")
			return nil
		}
	}
	return nil
}

// matchStmt implements match-statement evaluation: a case matches when its
// pattern's runtime kind equals cond's and the values are equal; a
// type-mismatched pattern is a hard error rather than a silent skip.
func (i *Interpreter) matchStmt(s *ast.Stmt) error {
	cond, err := i.Expr(s.MatchCond)
	if err != nil {
		return err
	}
	for _, c := range s.Cases {
		pat, err := i.Expr(c.Pattern)
		if err != nil {
			return err
		}
		if pat.Kind != cond.Kind {
			return diagnostic.New(diagnostic.E0x301, s.Pos, "invalid type in match statement")
		}
		if pat.Equal(cond) {
			return i.execBody(c.Body, i.Env)
		}
	}
	if s.Default != nil {
		return i.execBody(s.Default, i.Env)
	}
	return nil
}

func (i *Interpreter) typeStmt(s *ast.Stmt) error {
	i.Env.DefineType(s.TypeName, s.TypeValue)
	if s.IsPub {
		i.Env.DefinePubType(s.TypeName, s.TypeValue)
	}
	return nil
}

func (i *Interpreter) enumStmt(s *ast.Stmt) error {
	i.Env.DefineEnum(s.EnumName, s.Variants)
	if s.IsPub {
		i.Env.DefinePubEnum(s.EnumName, s.Variants)
	}
	return nil
}
