package parser

import (
	"testing"

	"github.com/ape-lang/ape/ast"
	"github.com/stretchr/testify/require"
)

func TestParseVarDecl(t *testing.T) {
	t.Parallel()
	stmts, err := Parse("t.ape", `let x: number = 2 + 3 * 4;`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	v := stmts[0]
	require.Equal(t, ast.SVar, v.Kind)
	require.Equal(t, []string{"x"}, v.Names)
	require.False(t, v.IsMut)
	require.NotNil(t, v.Value)
	require.Equal(t, ast.EBinary, v.Value.Kind)
}

func TestParseFuncDecl(t *testing.T) {
	t.Parallel()
	stmts, err := Parse("t.ape", `func add(a: number, b: number) -> number = a + b;`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	f := stmts[0]
	require.Equal(t, ast.SFunc, f.Kind)
	require.Equal(t, "add", f.FuncName)
	require.Len(t, f.Params, 2)
	require.NotNil(t, f.Body.Expr)
	require.Nil(t, f.Body.Stmts)
}

func TestParseWhileLoop(t *testing.T) {
	t.Parallel()
	src := `
		let mut n: number = 0;
		while n < 3 { n = n + 1; }
	`
	stmts, err := Parse("t.ape", src)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, ast.SWhile, stmts[1].Kind)
	require.Equal(t, ast.SBlock, stmts[1].Then.Kind)
}

func TestParseIfElif(t *testing.T) {
	t.Parallel()
	src := `
		func sign(n: number) -> string {
			if n > 0 { return "pos"; } elif n < 0 { return "neg"; } else { return "zero"; }
		}
	`
	stmts, err := Parse("t.ape", src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	body := stmts[0].Body.Stmts
	require.Len(t, body, 1)
	ifStmt := body[0]
	require.Equal(t, ast.SIf, ifStmt.Kind)
	require.Len(t, ifStmt.Elifs, 1)
	require.NotNil(t, ifStmt.Else)
}

func TestParseVectorIndexCall(t *testing.T) {
	t.Parallel()
	src := `
		let xs: <number> = [1, 2, 3];
		let y: number = xs(1);
	`
	stmts, err := Parse("t.ape", src)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	xs := stmts[0]
	require.True(t, xs.VarType.IsStatic() == false)
	require.Equal(t, ast.EArray, xs.Value.Kind)

	y := stmts[1]
	require.Equal(t, ast.ECall, y.Value.Kind)
	require.Equal(t, ast.CallVar, y.Value.CallKind)
}

func TestParseMutReassignError(t *testing.T) {
	t.Parallel()
	_, err := Parse("t.ape", `let mut x: number | null = 5; x = null; x = "hi";`)
	// Parsing never type-checks; three valid assignment statements parse fine.
	// Type mismatch is caught by the evaluator, not here.
	require.NoError(t, err)
}

func TestParseEnumDecl(t *testing.T) {
	t.Parallel()
	src := `enum Shape { Circle(number), Square(number), Point }`
	stmts, err := Parse("t.ape", src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Equal(t, ast.SEnum, stmts[0].Kind)
	require.Len(t, stmts[0].Variants, 3)
	require.NotNil(t, stmts[0].Variants[0].PayloadType)
	require.Nil(t, stmts[0].Variants[2].PayloadType)
}

func TestParseInvalidAssignTarget(t *testing.T) {
	t.Parallel()
	_, err := Parse("t.ape", `1 + 2 = 3;`)
	require.Error(t, err)
}

func TestExpressionIDsAreUnique(t *testing.T) {
	t.Parallel()
	src := `
		let x: number = 1 + 2 * 3;
		let y: number = x - 1;
		func f(a: number) -> number = a + x + y;
	`
	stmts, err := Parse("t.ape", src)
	require.NoError(t, err)

	seen := map[int]bool{}
	var walkExpr func(e *ast.Expr)
	var walkStmt func(s *ast.Stmt)

	walkExpr = func(e *ast.Expr) {
		if e == nil {
			return
		}
		require.False(t, seen[e.ID], "duplicate expression id %d", e.ID)
		seen[e.ID] = true
		walkExpr(e.Inner)
		walkExpr(e.Left)
		walkExpr(e.Right)
		walkExpr(e.Operand)
		walkExpr(e.AssignValue)
		walkExpr(e.Callee)
		walkExpr(e.Receiver)
		for _, a := range e.Args {
			walkExpr(a)
		}
		for _, it := range e.Items {
			walkExpr(it)
		}
	}
	walkStmt = func(s *ast.Stmt) {
		if s == nil {
			return
		}
		walkExpr(s.Expr)
		walkExpr(s.Value)
		walkExpr(s.Cond)
		for _, st := range s.Stmts {
			walkStmt(st)
		}
		if s.Body != nil {
			walkExpr(s.Body.Expr)
			for _, st := range s.Body.Stmts {
				walkStmt(st)
			}
		}
		walkStmt(s.Then)
	}
	for _, s := range stmts {
		walkStmt(s)
	}
	require.Greater(t, len(seen), 0)
}
