package eval

import (
	"math"
	"strings"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/env"
)

// dispatchMethod implements method-call evaluation: evaluate the
// receiver and the argument expressions, then consult the fixed method
// table for the receiver's runtime kind. Unknown methods, or a receiver
// kind with no method table at all, return Null.
func (i *Interpreter) dispatchMethod(recv *env.Value, name string, argExprs []*ast.Expr) (*env.Value, error) {
	args := make([]*env.Value, len(argExprs))
	for idx, a := range argExprs {
		v, err := i.Expr(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	switch recv.Kind {
	case env.VNumber:
		return numberMethod(recv.Number, name, args), nil
	case env.VString:
		return stringMethod(recv.Str, name, args), nil
	default:
		return env.Null(), nil
	}
}

// numberMethod implements the Glossary's Number method table, grounded on
// original_source/src/interpreter/expr.rs's eval_literal_method_b: every
// binary-arg method only applies when the argument is present and a
// Number, otherwise it falls through to Null like the original's
// unmatched-arm behavior.
func numberMethod(n float64, name string, args []*env.Value) *env.Value {
	arg := func(idx int) (float64, bool) {
		if idx >= len(args) || args[idx].Kind != env.VNumber {
			return 0, false
		}
		return args[idx].Number, true
	}
	switch name {
	case "sqr":
		return env.Number(n * n)
	case "add":
		if m, ok := arg(0); ok {
			return env.Number(n + m)
		}
	case "sub":
		if m, ok := arg(0); ok {
			return env.Number(n - m)
		}
	case "mult":
		if m, ok := arg(0); ok {
			return env.Number(n * m)
		}
	case "div":
		if m, ok := arg(0); ok {
			return env.Number(n / m)
		}
	case "rem":
		if m, ok := arg(0); ok {
			return env.Number(math.Mod(n, m))
		}
	case "sqrt":
		return env.Number(math.Sqrt(n))
	case "cbrt":
		return env.Number(math.Cbrt(n))
	case "pow":
		if m, ok := arg(0); ok {
			return env.Number(math.Pow(n, m))
		}
	case "log":
		if m, ok := arg(0); ok {
			return env.Number(math.Log(n) / math.Log(m))
		}
	case "sin":
		return env.Number(math.Sin(n))
	case "asin":
		return env.Number(math.Asin(n))
	case "cos":
		return env.Number(math.Cos(n))
	case "acos":
		return env.Number(math.Acos(n))
	case "tan":
		return env.Number(math.Tan(n))
	case "atan":
		return env.Number(math.Atan(n))
	case "abs":
		return env.Number(math.Abs(n))
	case "floor":
		return env.Number(math.Floor(n))
	case "ceil":
		return env.Number(math.Ceil(n))
	case "round":
		return env.Number(math.Round(n))
	case "signum":
		if n < 0 {
			return env.Number(-1)
		}
		return env.Number(1)
	case "hypot":
		if m, ok := arg(0); ok {
			return env.Number(math.Hypot(n, m))
		}
	case "exp":
		return env.Number(math.Exp(n))
	case "exp2":
		return env.Number(math.Exp2(n))
	case "exp_m1":
		return env.Number(math.Expm1(n))
	case "ln":
		return env.Number(math.Log(n))
	case "max":
		if m, ok := arg(0); ok {
			return env.Number(math.Max(n, m))
		}
	case "min":
		if m, ok := arg(0); ok {
			return env.Number(math.Min(n, m))
		}
	case "avg":
		if m, ok := arg(0); ok {
			return env.Number((n + m) / 2)
		}
	case "to_degrees":
		return env.Number(n * 180 / math.Pi)
	case "to_radians":
		return env.Number(n * math.Pi / 180)
	}
	return env.Null()
}

// stringMethod implements the String method table. `chars_count` is
// documented as a supported method but never implemented in
// original_source's eval_literal_method_b (its String arm stops at
// `find`); it's carried here as rune-count to match that documentation.
func stringMethod(s string, name string, args []*env.Value) *env.Value {
	strArg := func(idx int) (string, bool) {
		if idx >= len(args) || args[idx].Kind != env.VString {
			return "", false
		}
		return args[idx].Str, true
	}
	switch name {
	case "len":
		return env.Number(float64(len(s)))
	case "is_empty":
		return env.Bool(s == "")
	case "contains":
		if sub, ok := strArg(0); ok {
			return env.Bool(strings.Contains(s, sub))
		}
	case "starts_with":
		if p, ok := strArg(0); ok {
			return env.Bool(strings.HasPrefix(s, p))
		}
	case "ends_with":
		if suf, ok := strArg(0); ok {
			return env.Bool(strings.HasSuffix(s, suf))
		}
	case "to_uppercase":
		return env.String(strings.ToUpper(s))
	case "to_lowercase":
		return env.String(strings.ToLower(s))
	case "trim":
		return env.String(strings.TrimSpace(s))
	case "trim_start":
		return env.String(strings.TrimLeft(s, " \t\n\r"))
	case "trim_end":
		return env.String(strings.TrimRight(s, " \t\n\r"))
	case "replace":
		if len(args) > 1 && args[0].Kind == env.VString && args[1].Kind == env.VString {
			return env.String(strings.ReplaceAll(s, args[0].Str, args[1].Str))
		}
	case "find":
		if sub, ok := strArg(0); ok {
			if idx := strings.Index(s, sub); idx >= 0 {
				return env.Number(float64(idx))
			}
		}
	case "chars_count":
		return env.Number(float64(len([]rune(s))))
	}
	return env.Null()
}
