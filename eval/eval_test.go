package eval_test

import (
	"testing"

	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/env"
	"github.com/ape-lang/ape/eval"
	"github.com/ape-lang/ape/parser"
	"github.com/ape-lang/ape/resolver"
	"github.com/stretchr/testify/require"
)

// run parses, resolves, and evaluates src against a fresh environment,
// returning the final environment for assertions.
func run(t *testing.T, src string) *env.Env {
	t.Helper()
	stmts, err := parser.Parse("test.ape", src)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e)
	require.NoError(t, interp.Stmts(stmts))
	return e
}

func lookup(t *testing.T, e *env.Env, name string) *env.Value {
	t.Helper()
	b, ok := e.Get(name, -1) // unresolved id -> global lookup
	require.True(t, ok, "expected '%s' to be bound", name)
	return b.Value
}

func TestArithmeticDeclaration(t *testing.T) {
	e := run(t, `let x: number = 2 + 3 * 4;`)
	require.Equal(t, float64(14), lookup(t, e, "x").Number)
}

func TestFunctionCallReturnsSum(t *testing.T) {
	e := run(t, `
		func add(a: number, b: number) -> number = a + b;
		let z: number = add(2, 3);
	`)
	require.Equal(t, float64(5), lookup(t, e, "z").Number)
}

func TestWhileLoopIncrement(t *testing.T) {
	e := run(t, `
		let mut n: number = 0;
		while n < 3 { n = n + 1; }
	`)
	require.Equal(t, float64(3), lookup(t, e, "n").Number)
}

func TestArrayIndexByCall(t *testing.T) {
	e := run(t, `
		let xs: <number> = [1, 2, 3];
		let y: number = xs(1);
	`)
	require.Equal(t, float64(2), lookup(t, e, "y").Number)
}

func TestFunctionBranchingReturnsSign(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `
		func sign(n: number) -> string {
			if n > 0 { return "pos"; } elif n < 0 { return "neg"; } else { return "zero"; }
		}
		let out: string = sign(-7);
	`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e, eval.WithSideEffectsDisabled())
	require.NoError(t, interp.Stmts(stmts))
	require.Equal(t, "neg", lookup(t, e, "out").Str)
}

func TestFunctionLocalMutReassignment(t *testing.T) {
	e := run(t, `
		func f() -> number {
			let mut x: number = 0;
			x = x + 1;
			x = x + 1;
			return x;
		}
		let out: number = f();
	`)
	require.Equal(t, float64(2), lookup(t, e, "out").Number)
}

func TestPublicVarWithoutValueFails(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `let pub x: number;`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e, eval.WithSideEffectsDisabled())
	err = interp.Stmts(stmts)
	require.Error(t, err)
	de, ok := diagnostic.AsError(err)
	require.True(t, ok)
	require.Equal(t, diagnostic.E0x402, de.Code)
}

func TestReassignmentTypeMismatchFails(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `
		let mut x: number | null = 5;
		x = null;
		x = "hi";
	`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e)
	err = interp.Stmts(stmts)
	require.Error(t, err)
}

func TestLoopZeroRunsNoTimes(t *testing.T) {
	e := run(t, `
		let mut count: number = 0;
		loop 0 { count = count + 1; }
	`)
	require.Equal(t, float64(0), lookup(t, e, "count").Number)
}

func TestLoopNegativeRunsOnce(t *testing.T) {
	e := run(t, `
		let mut count: number = 0;
		loop -1 { count = count + 1; }
	`)
	require.Equal(t, float64(1), lookup(t, e, "count").Number)
}

func TestIfWithoutElseNoEffect(t *testing.T) {
	e := run(t, `
		let mut count: number = 0;
		if false { count = 99; }
	`)
	require.Equal(t, float64(0), lookup(t, e, "count").Number)
}

func TestDivisionByZeroIsNotAnError(t *testing.T) {
	e := run(t, `let inf: number = 1 / 0;`)
	require.True(t, lookup(t, e, "inf").Number > 0)
}

func TestEmptyProgramIsValid(t *testing.T) {
	stmts, err := parser.Parse("test.ape", ``)
	require.NoError(t, err)
	e := env.New()
	interp := eval.New(e, eval.WithSideEffectsDisabled())
	require.NoError(t, interp.Stmts(stmts))
}

func TestBreakExitsLoop(t *testing.T) {
	e := run(t, `
		let mut n: number = 0;
		while true {
			n = n + 1;
			if n == 3 { break; }
		}
	`)
	require.Equal(t, float64(3), lookup(t, e, "n").Number)
}

func TestNumberMethodDispatch(t *testing.T) {
	e := run(t, `
		let a: number = (2).sqr();
		let b: number = (9).sqrt();
	`)
	require.Equal(t, float64(4), lookup(t, e, "a").Number)
	require.Equal(t, float64(3), lookup(t, e, "b").Number)
}

func TestStringMethodDispatch(t *testing.T) {
	e := run(t, `
		let shouting: string = "hi".to_uppercase();
		let count: number = "hello".chars_count();
	`)
	require.Equal(t, "HI", lookup(t, e, "shouting").Str)
	require.Equal(t, float64(5), lookup(t, e, "count").Number)
}

func TestEnumConstructAndMatch(t *testing.T) {
	e := run(t, `
		enum Shape {
			Circle(number),
			Square,
		}
		let s: Shape = Shape::Circle(5);
		let mut label: string = "";
		match s {
			Shape::Circle(5) => { label = "circle-5"; },
			default => { label = "other"; },
		}
	`)
	require.Equal(t, "circle-5", lookup(t, e, "label").Str)
}

func TestRecordFieldAccessIsLazy(t *testing.T) {
	e := run(t, `
		let mut calls: number = 0;
		func bump() -> number {
			calls = calls + 1;
			return calls;
		}
		let r: any = { a: bump() };
		let first: number = r.a;
		let second: number = r.a;
	`)
	require.Equal(t, float64(1), lookup(t, e, "first").Number)
	require.Equal(t, float64(2), lookup(t, e, "second").Number)
}

func TestPublicReassignmentForbidden(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `
		let pub x: number = 1;
		x = 2;
	`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e)
	err = interp.Stmts(stmts)
	require.Error(t, err)
	de, ok := diagnostic.AsError(err)
	require.True(t, ok)
	// `pub` and `mut` are exclusive in `let`, so a public var is immutable
	// and the reassignment fails the mutability check.
	require.Equal(t, diagnostic.E0x410, de.Code)
}

func TestTopLevelPubDeclarationForbiddenWithoutSideEffects(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `let pub x: number = 1;`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e, eval.WithSideEffectsDisabled())
	err = interp.Stmts(stmts)
	require.Error(t, err)
	de, ok := diagnostic.AsError(err)
	require.True(t, ok)
	require.Equal(t, diagnostic.E0x415, de.Code)
}

func TestTopLevelPubFuncForbiddenWithoutSideEffects(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `func pub add(a: number, b: number) -> number = a + b;`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e, eval.WithSideEffectsDisabled())
	err = interp.Stmts(stmts)
	require.Error(t, err)
	de, ok := diagnostic.AsError(err)
	require.True(t, ok)
	require.Equal(t, diagnostic.E0x415, de.Code)
}

func TestMutTopLevelDeclarationAllowedInsideFunctionBody(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `
		func counter() -> number {
			let mut n: number = 0;
			n = n + 1;
			return n;
		}
		let out: number = counter();
	`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e, eval.WithSideEffectsDisabled())
	require.NoError(t, interp.Stmts(stmts))
	require.Equal(t, float64(1), lookup(t, e, "out").Number)
}

func TestUnknownEnumSuggestsClosestName(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `
		enum Shape {
			Circle(number),
			Square,
		}
		let s: Shape = Shap::Circle(5);
	`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e)
	err = interp.Stmts(stmts)
	require.Error(t, err)
	de, ok := diagnostic.AsError(err)
	require.True(t, ok)
	require.Equal(t, diagnostic.E0x304, de.Code)
	require.Contains(t, de.Error(), "did you mean 'Shape'")
}

func TestUnknownVariantSuggestsClosestName(t *testing.T) {
	stmts, err := parser.Parse("test.ape", `
		enum Shape {
			Circle(number),
			Square,
		}
		let s: Shape = Shape::Circl(5);
	`)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)
	e := env.New()
	e.Resolve(locals)
	interp := eval.New(e)
	err = interp.Stmts(stmts)
	require.Error(t, err)
	de, ok := diagnostic.AsError(err)
	require.True(t, ok)
	require.Equal(t, diagnostic.E0x304, de.Code)
	require.Contains(t, de.Error(), "did you mean 'Shape::Circle'")
}
