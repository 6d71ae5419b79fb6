package eval

import (
	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/token"
	"github.com/ape-lang/ape/types"
)

// evalCall dispatches a Call expression by the CallKind the parser decided
// from the shape of its callee (the postfix-chain grammar).
func (i *Interpreter) evalCall(e *ast.Expr) (*env.Value, error) {
	switch e.CallKind {
	case ast.CallStruct:
		return i.structFieldAccess(e)
	case ast.CallArray:
		return i.indexAccess(e)
	case ast.CallEnum:
		return i.enumConstruct(e)
	default: // CallFunc, CallVar, CallOpenStruct
		return i.funcCall(e)
	}
}

func (i *Interpreter) structFieldAccess(e *ast.Expr) (*env.Value, error) {
	recv, err := i.Expr(e.Callee)
	if err != nil {
		return nil, err
	}
	fieldName := e.Args[0].Name
	if recv.Kind != env.VRecord {
		return env.Null(), nil
	}
	for _, f := range recv.Fields {
		if f.Name == fieldName {
			return i.evalAgainst(recv.RecordEnv, f.Expr)
		}
	}
	return env.Null(), nil
}

func (i *Interpreter) indexAccess(e *ast.Expr) (*env.Value, error) {
	recv, err := i.Expr(e.Callee)
	if err != nil {
		return nil, err
	}
	idx, err := i.Expr(e.Args[0])
	if err != nil {
		return nil, err
	}
	return i.indexValue(recv, idx)
}

// indexValue reads one element out of an array/tuple/string/record value.
// Out-of-range or mistyped indices yield Null rather than an error, matching
// the evaluator's general policy of Null for unmatched access rather than a
// fatal diagnostic outside the declared error taxonomy.
func (i *Interpreter) indexValue(recv, idx *env.Value) (*env.Value, error) {
	switch recv.Kind {
	case env.VArray:
		n := int(idx.Number)
		if n < 0 || n >= len(recv.Items) {
			return env.Null(), nil
		}
		return i.evalAgainst(recv.ArrEnv, recv.Items[n])
	case env.VTuple:
		n := int(idx.Number)
		if n < 0 || n >= len(recv.Tuple) {
			return env.Null(), nil
		}
		return recv.Tuple[n], nil
	case env.VString:
		runes := []rune(recv.Str)
		n := int(idx.Number)
		if n < 0 || n >= len(runes) {
			return env.Null(), nil
		}
		return env.Char(runes[n]), nil
	case env.VRecord:
		if idx.Kind != env.VString {
			return env.Null(), nil
		}
		for _, f := range recv.Fields {
			if f.Name == idx.Str {
				return i.evalAgainst(recv.RecordEnv, f.Expr)
			}
		}
		return env.Null(), nil
	default:
		return env.Null(), nil
	}
}

// enumConstruct builds a `Parent::Variant(payload?)` value. A payload whose
// type doesn't match the variant's declared payload type is a non-fatal
// warning, not an error — this case is left implicit elsewhere; original_source
// (eval_binary's sibling validation paths) treats mismatched-but-constructed
// values as a print-and-continue condition rather than aborting evaluation.
func (i *Interpreter) enumConstruct(e *ast.Expr) (*env.Value, error) {
	parentName := e.Callee.Name
	variantName := e.Args[0].Name

	variants, ok := i.Env.GetEnum(parentName)
	if !ok {
		msg := "unknown enum '" + parentName + "'"
		if guess := diagnostic.Suggestion(parentName, i.Env.EnumNames()); guess != "" {
			msg += " (did you mean '" + guess + "'?)"
		}
		return nil, diagnostic.New(diagnostic.E0x304, e.Pos, msg)
	}
	var def *ast.EnumVariant
	names := make([]string, len(variants))
	for idx := range variants {
		names[idx] = variants[idx].Name
		if variants[idx].Name == variantName {
			def = &variants[idx]
		}
	}
	if def == nil {
		msg := "unknown variant '" + parentName + "::" + variantName + "'"
		if guess := diagnostic.Suggestion(variantName, names); guess != "" {
			msg += " (did you mean '" + parentName + "::" + guess + "'?)"
		}
		return nil, diagnostic.New(diagnostic.E0x304, e.Pos, msg)
	}

	var payload *env.Value
	if len(e.Args) > 1 {
		v, err := i.Expr(e.Args[1])
		if err != nil {
			return nil, err
		}
		payload = v
		if def.PayloadType != nil {
			ok, terr := i.TypeCheck(def.PayloadType, payload)
			if terr != nil {
				return nil, terr
			}
			if !ok {
				i.warn(&diagnostic.Warning{
					Detail: "payload type mismatch constructing '" + parentName + "::" + variantName + "'",
					Pos:    e.Pos,
				})
			}
		}
	}
	return env.EnumValue(&env.Enum{Parent: parentName, Variant: variantName, Payload: payload}), nil
}

// funcCall evaluates the callee and either invokes it (Function/Native) or,
// for an array/tuple/string/record value, indexes it: `xs(1)` indexes the
// array `xs` by calling it with an integer.
func (i *Interpreter) funcCall(e *ast.Expr) (*env.Value, error) {
	callee, err := i.Expr(e.Callee)
	if err != nil {
		return nil, err
	}

	switch callee.Kind {
	case env.VFunction, env.VDeclaredFunction:
		args := make([]*env.Value, len(e.Args))
		for idx, a := range e.Args {
			v, err := i.Expr(a)
			if err != nil {
				return nil, err
			}
			args[idx] = v
		}
		if callee.Kind == env.VFunction {
			return i.runFunc(callee.Closure, args, e.Pos)
		}
		return i.callNative(callee.Native, args, e.Pos)

	case env.VArray, env.VTuple, env.VString, env.VRecord:
		if len(e.Args) == 0 {
			return env.Null(), nil
		}
		idx, err := i.Expr(e.Args[0])
		if err != nil {
			return nil, err
		}
		return i.indexValue(callee, idx)

	default:
		return nil, diagnostic.New(diagnostic.E0x403, e.Pos, "value is not callable")
	}
}

// runFunc implements original_source/src/interpreter/mod.rs's run_func:
// arg-count check, per-parameter type-checked binding into a fresh enclosed
// scope, a fresh Interpreter (so return doesn't leak across the call
// boundary: signals do not propagate across closure boundaries), and a
// type-checked return value. A non-void function that
// falls through its body without returning is E0x405 ("missing return").
func (i *Interpreter) runFunc(c *env.Closure, args []*env.Value, pos token.Position) (*env.Value, error) {
	if len(args) != len(c.Params) {
		return nil, diagnostic.Newf(diagnostic.E0x404, pos,
			"expected %d argument(s), got %d", len(c.Params), len(args))
	}

	funcEnv := c.Env.Enclose()
	for idx, p := range c.Params {
		arg := args[idx]
		ok, terr := i.TypeCheck(p.Type, arg)
		if terr != nil {
			return nil, terr
		}
		if !ok {
			return nil, diagnostic.New(diagnostic.E0x301, p.Pos, "type mismatch for parameter '"+p.Name+"'")
		}
		funcEnv.DefineVar(p.Name, arg, env.VarMeta{IsMut: true, Type: p.Type})
	}

	sub := New(funcEnv, WithTracer(i.tracer), WithStdlib(i.stdlib), WithModuleCache(i.modCache))
	sub.sideEffectsDisabled = i.sideEffectsDisabled
	sub.baseDir = i.baseDir
	sub.modIDCounter = i.modIDCounter
	sub.topLevel = false

	if c.Body.Expr != nil {
		v, err := sub.Expr(c.Body.Expr)
		if err != nil {
			return nil, err
		}
		return i.checkReturn(v, c.ReturnType, pos)
	}

	if err := sub.Stmts(c.Body.Stmts); err != nil {
		return nil, err
	}
	if rv, ok := sub.specs["return"]; ok {
		return i.checkReturn(rv, c.ReturnType, pos)
	}
	if c.ReturnType != nil && c.ReturnType.Kind == types.Var && c.ReturnType.Name == types.Void {
		return env.Void(), nil
	}
	return nil, diagnostic.New(diagnostic.E0x405, pos, "missing return")
}

func (i *Interpreter) checkReturn(v *env.Value, rt *types.Type, pos token.Position) (*env.Value, error) {
	if rt == nil {
		return v, nil
	}
	ok, err := i.TypeCheck(rt, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, diagnostic.New(diagnostic.E0x301, pos, "return value does not match declared return type")
	}
	return v, nil
}

// callNative invokes a stdlib-registered function, using the
// `{ name, arity, callback }` registration protocol. A negative Arity
// means variadic — arg count is the callback's own responsibility.
func (i *Interpreter) callNative(n *env.Native, args []*env.Value, pos token.Position) (*env.Value, error) {
	if n.Arity >= 0 && len(args) != n.Arity {
		return nil, diagnostic.Newf(diagnostic.E0x404, pos, "expected %d argument(s), got %d", n.Arity, len(args))
	}
	v, err := n.Callback(args)
	if err != nil {
		if de, ok := diagnostic.AsError(err); ok {
			return nil, de
		}
		return nil, diagnostic.Wrap(diagnostic.E0x403, pos, err)
	}
	return v, nil
}
