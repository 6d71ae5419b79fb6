package resolver

import (
	"testing"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/parser"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) []*ast.Stmt {
	t.Helper()
	stmts, err := parser.Parse("t.ape", src)
	require.NoError(t, err)
	return stmts
}

func TestResolveLocalVariableDistance(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `
		{
			let x: number = 1;
			{
				let y: number = x;
			}
		}
	`)
	locals, err := Resolve(stmts)
	require.NoError(t, err)

	inner := stmts[0].Stmts[1].Stmts[0]
	require.Contains(t, locals, inner.Value.ID)
}

func TestResolveSelfReferenceInInitializerErrors(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `
		{
			let x: number = x;
		}
	`)
	_, err := Resolve(stmts)
	require.Error(t, err)
}

func TestResolveDuplicateDeclarationErrors(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `
		{
			let x: number = 1;
			let x: number = 2;
		}
	`)
	_, err := Resolve(stmts)
	require.Error(t, err)
}

func TestResolveReturnOutsideFunctionErrors(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `return 1;`)
	_, err := Resolve(stmts)
	require.Error(t, err)
}

func TestResolveBreakOutsideLoopErrors(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `break;`)
	_, err := Resolve(stmts)
	require.Error(t, err)
}

func TestResolveFunctionSelfRecursionAllowed(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `
		func fact(n: number) -> number {
			if n < 2 { return 1; }
			return n * fact(n - 1);
		}
	`)
	_, err := Resolve(stmts)
	require.NoError(t, err)
}

func TestResolveReturnInsideNestedFunctionOK(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `
		func f(a: number) -> number {
			while a < 10 {
				a = a + 1;
				if a == 5 { break; }
			}
			return a;
		}
	`)
	_, err := Resolve(stmts)
	require.NoError(t, err)
}
