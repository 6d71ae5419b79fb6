package eval

import (
	"math"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/token"
)

// Expr dispatches a single expression to its runtime value. Grounded on
// original_source/src/interpreter/expr.rs's Expression::eval match.
func (i *Interpreter) Expr(e *ast.Expr) (*env.Value, error) {
	if e == nil {
		return env.Null(), nil
	}
	i.trace("expr", e.Pos)
	switch e.Kind {
	case ast.EValue:
		return literalValue(e.Literal), nil
	case ast.EVar:
		return i.evalVar(e)
	case ast.EGrouping:
		return i.Expr(e.Inner)
	case ast.EArray:
		return env.Array(e.Items, i.Env), nil
	case ast.EObject:
		fields := make([]env.RecordField, len(e.Fields))
		for idx, f := range e.Fields {
			fields[idx] = env.RecordField{Name: f.Name, Expr: f.Value}
		}
		return env.Record(fields, i.Env), nil
	case ast.EUnary:
		return i.evalUnary(e)
	case ast.EBinary:
		return i.evalBinary(e)
	case ast.EAssign:
		return i.evalAssign(e)
	case ast.ECall:
		return i.evalCall(e)
	case ast.EMethod:
		recv, err := i.Expr(e.Receiver)
		if err != nil {
			return nil, err
		}
		return i.dispatchMethod(recv, e.MethodName, e.MethodArgs)
	case ast.EFunc:
		return env.Function(&env.Closure{
			Params: e.Func.Params, Body: e.Func.Body,
			ReturnType: e.Func.ReturnType, IsAsync: e.Func.IsAsync, Env: i.Env,
		}), nil
	case ast.EAwait:
		// await evaluates its operand immediately; async scheduling is
		// not part of the core evaluator.
		return i.Expr(e.Await)
	default:
		return env.Null(), nil
	}
}

func literalValue(lit *token.Literal) *env.Value {
	if lit == nil {
		return env.Null()
	}
	switch lit.Kind {
	case token.LitNumber:
		return env.Number(lit.NumberVal)
	case token.LitString:
		return env.String(lit.StringVal)
	case token.LitChar:
		return env.Char(lit.CharVal)
	case token.LitBool:
		return env.Bool(lit.BoolVal)
	default:
		return env.Null()
	}
}

func (i *Interpreter) evalVar(e *ast.Expr) (*env.Value, error) {
	b, ok := i.Env.Get(e.Name, e.ID)
	if !ok {
		return env.Null(), nil
	}
	return b.Value, nil
}

// evalUnary: `**` (square) lives here rather than in evalBinary — despite
// appearing in the binary operator list, it is unary-only, matching
// original_source's eval_unary/eval_binary split. `?` has no matching arm
// and falls through to Null like original_source's unmatched catch-all.
func (i *Interpreter) evalUnary(e *ast.Expr) (*env.Value, error) {
	operand, err := i.Expr(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.Minus:
		if operand.Kind == env.VNumber {
			return env.Number(-operand.Number), nil
		}
	case token.Bang:
		return env.Bool(!operand.Truthy()), nil
	case token.BangBang:
		return env.Bool(operand.Truthy()), nil
	case token.StarStar:
		if operand.Kind == env.VNumber {
			return env.Number(operand.Number * operand.Number), nil
		}
	case token.MinusMinus:
		if operand.Kind == env.VNumber {
			return env.Number(operand.Number - 1), nil
		}
	case token.PlusPlus:
		if operand.Kind == env.VNumber {
			return env.Number(operand.Number + 1), nil
		}
	}
	return env.Null(), nil
}

// evalBinary: `||`/`&&` short-circuit before the right operand is
// evaluated; number/number pairs get the full arithmetic/comparison table;
// `==`/`!=` compare same-kind values and are false/false (not true) across
// mismatched kinds; every other combination (including `&`, which
// original_source never implements) falls through to Null, per
// original_source's eval_binary catch-all.
func (i *Interpreter) evalBinary(e *ast.Expr) (*env.Value, error) {
	left, err := i.Expr(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == token.PipePipe {
		if left.Truthy() {
			return left, nil
		}
		return i.Expr(e.Right)
	}
	if e.Op == token.AmpAmp {
		if !left.Truthy() {
			return env.Bool(false), nil
		}
		return i.Expr(e.Right)
	}

	right, err := i.Expr(e.Right)
	if err != nil {
		return nil, err
	}

	if left.Kind == env.VNumber && right.Kind == env.VNumber {
		a, b := left.Number, right.Number
		switch e.Op {
		case token.Plus:
			return env.Number(a + b), nil
		case token.Minus:
			return env.Number(a - b), nil
		case token.Star:
			return env.Number(a * b), nil
		case token.Slash:
			return env.Number(a / b), nil
		case token.Percent:
			return env.Number(math.Mod(a, b)), nil
		case token.Greater:
			return env.Bool(a > b), nil
		case token.GreaterEqual:
			return env.Bool(a >= b), nil
		case token.Less:
			return env.Bool(a < b), nil
		case token.LessEqual:
			return env.Bool(a <= b), nil
		case token.EqualEqual:
			return env.Bool(a == b), nil
		case token.BangEqual:
			return env.Bool(a != b), nil
		}
		return env.Null(), nil
	}

	if e.Op == token.EqualEqual {
		return env.Bool(left.Kind == right.Kind && left.Equal(right)), nil
	}
	if e.Op == token.BangEqual {
		if left.Kind != right.Kind {
			return env.Bool(false), nil
		}
		return env.Bool(!left.Equal(right)), nil
	}
	return env.Null(), nil
}

// evalAssign implements assignment: the binding must be a mutable,
// non-public Var; `+= -= *= /=` require both the existing value and the
// new value to be numbers; the final value is type-checked against the
// binding's declared type. Compound ops compute rhs-op-old (not
// old-op-rhs) — the operand order is otherwise unconstrained, so this
// follows original_source/src/interpreter/expr.rs's Assign arm literally.
func (i *Interpreter) evalAssign(e *ast.Expr) (*env.Value, error) {
	val, err := i.Expr(e.AssignValue)
	if err != nil {
		return nil, err
	}

	b, ok := i.Env.Get(e.AssignName, e.ID)
	if ok {
		if b.Kind != env.BindVar {
			return nil, diagnostic.New(diagnostic.E0x413, e.Pos, "assignment to non-variable '"+e.AssignName+"'")
		}
		if !b.Var.IsMut {
			return nil, diagnostic.New(diagnostic.E0x410, e.Pos, "assignment to immutable variable '"+e.AssignName+"'")
		}
		if b.Var.IsPub {
			return nil, diagnostic.New(diagnostic.E0x411, e.Pos, "assignment to public variable '"+e.AssignName+"'")
		}

		if e.AssignKind != ast.AssignNormal {
			if b.Value.Kind != env.VNumber || val.Kind != env.VNumber {
				return nil, diagnostic.New(diagnostic.E0x414, e.Pos, "compound assignment requires a numeric value")
			}
			switch e.AssignKind {
			case ast.AssignPlus:
				val = env.Number(val.Number + b.Value.Number)
			case ast.AssignMinus:
				val = env.Number(val.Number - b.Value.Number)
			case ast.AssignMult:
				val = env.Number(val.Number * b.Value.Number)
			case ast.AssignDiv:
				val = env.Number(val.Number / b.Value.Number)
			}
		}

		if b.Var.Type != nil {
			tok, terr := i.TypeCheck(b.Var.Type, val)
			if terr != nil {
				return nil, terr
			}
			if !tok {
				return nil, diagnostic.New(diagnostic.E0x412, e.Pos, "invalid type in reassignment of '"+e.AssignName+"'")
			}
		}
	}

	if err := i.Env.Assign(e.AssignName, val, e.ID, e.Pos); err != nil {
		return nil, err
	}
	return val, nil
}

// evalAgainst evaluates expr against targetEnv rather than the
// interpreter's current scope, used to force lazy array elements and
// record fields, both of which are lazy.
func (i *Interpreter) evalAgainst(targetEnv *env.Env, expr *ast.Expr) (*env.Value, error) {
	prev := i.Env
	i.Env = targetEnv
	v, err := i.Expr(expr)
	i.Env = prev
	return v, err
}

// materialize forces every lazy element of an array/tuple value into a
// plain slice, used by destructuring and vector type-checking.
func (i *Interpreter) materialize(v *env.Value) ([]*env.Value, error) {
	if v.Kind == env.VTuple {
		return v.Tuple, nil
	}
	out := make([]*env.Value, len(v.Items))
	for idx, it := range v.Items {
		ev, err := i.evalAgainst(v.ArrEnv, it)
		if err != nil {
			return nil, err
		}
		out[idx] = ev
	}
	return out, nil
}
