package env

import (
	"testing"

	"github.com/ape-lang/ape/token"
	"github.com/stretchr/testify/require"
)

func TestGetGlobalFallback(t *testing.T) {
	t.Parallel()
	root := New()
	root.DefineVar("x", Number(5), VarMeta{IsMut: true})

	child := root.Enclose()
	b, ok := child.Get("x", 999) // expression id never resolved -> global fallback
	require.True(t, ok)
	require.Equal(t, float64(5), b.Value.Number)
}

func TestGetAtDistance(t *testing.T) {
	t.Parallel()
	root := New()
	root.DefineVar("x", Number(1), VarMeta{})
	child := root.Enclose()
	child.DefineVar("x", Number(2), VarMeta{})
	grandchild := child.Enclose()

	grandchild.Resolve(map[int]int{42: 1})
	b, ok := grandchild.Get("x", 42)
	require.True(t, ok)
	require.Equal(t, float64(2), b.Value.Number)
}

func TestAssignAtDistance(t *testing.T) {
	t.Parallel()
	root := New()
	root.DefineVar("x", Number(1), VarMeta{IsMut: true})
	child := root.Enclose()
	child.Resolve(map[int]int{7: 1})

	err := child.Assign("x", Number(9), 7, token.Position{})
	require.NoError(t, err)

	b, ok := root.Get("x", 999)
	require.True(t, ok)
	require.Equal(t, float64(9), b.Value.Number)
}

func TestModTableImportAndDrain(t *testing.T) {
	t.Parallel()
	root := New()
	root.DefineModVar("math.ape", "pi", Number(3.14), VarMeta{})
	root.DefineModVar("math.ape", "e", Number(2.71), VarMeta{})

	b, ok := root.TakeMod("math.ape", "pi")
	require.True(t, ok)
	require.Equal(t, float64(3.14), b.Value.Number)

	remaining := root.ModNames("math.ape")
	require.Equal(t, []string{"e"}, remaining)
}

func TestEnumEquality(t *testing.T) {
	t.Parallel()
	a := EnumValue(&Enum{Parent: "Shape", Variant: "Circle", Payload: Number(5)})
	b := EnumValue(&Enum{Parent: "Shape", Variant: "Circle", Payload: Number(5)})
	c := EnumValue(&Enum{Parent: "Shape", Variant: "Square", Payload: Number(5)})
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestTruthiness(t *testing.T) {
	t.Parallel()
	require.True(t, Number(1).Truthy())
	require.False(t, Number(0).Truthy())
	require.True(t, String("x").Truthy())
	require.False(t, String("").Truthy())
	require.False(t, Null().Truthy())
}
