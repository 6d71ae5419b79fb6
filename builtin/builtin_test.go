package builtin_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/builtin"
	"github.com/ape-lang/ape/env"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/require"
)

func TestLoadIOPrintWritesToStdout(t *testing.T) {
	var out, errOut bytes.Buffer
	l := builtin.NewLoader(false, aurora.NewAurora(false), strings.NewReader(""), &out, &errOut)

	e := env.New()
	require.NoError(t, l.Load("std::core::io", nil, true, e))

	b, ok := e.Get("print", -1)
	require.True(t, ok)
	require.Equal(t, env.VDeclaredFunction, b.Value.Kind)

	v, err := b.Value.Native.Callback([]*env.Value{env.String("hello")})
	require.NoError(t, err)
	require.Equal(t, env.VVoid, v.Kind)
	require.Equal(t, "hello\n", out.String())
}

func TestLoadIOSelectiveImportWithAlias(t *testing.T) {
	var out, errOut bytes.Buffer
	l := builtin.NewLoader(false, aurora.NewAurora(false), strings.NewReader(""), &out, &errOut)

	e := env.New()
	names := []ast.UseName{{Name: "print", Alias: "say"}}
	require.NoError(t, l.Load("std::core::io", names, false, e))

	_, ok := e.Get("print", -1)
	require.False(t, ok)
	_, ok = e.Get("say", -1)
	require.True(t, ok)
}

func TestLoadTestAssertNotRegisteredOutsideTestMode(t *testing.T) {
	var out, errOut bytes.Buffer
	l := builtin.NewLoader(false, aurora.NewAurora(false), strings.NewReader(""), &out, &errOut)

	e := env.New()
	require.NoError(t, l.Load("std::core::test", nil, true, e))

	_, ok := e.Get("assert", -1)
	require.False(t, ok)
}

func TestLoadTestAssertReportsWithoutAborting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := builtin.NewLoader(true, aurora.NewAurora(false), strings.NewReader(""), &out, &errOut)

	e := env.New()
	require.NoError(t, l.Load("std::core::test", nil, true, e))

	b, ok := e.Get("assert", -1)
	require.True(t, ok)

	v, err := b.Value.Native.Callback([]*env.Value{env.Bool(false), env.String("should have matched")})
	require.NoError(t, err)
	require.Equal(t, env.VVoid, v.Kind)
	require.Contains(t, errOut.String(), "should have matched")
}

func TestLoadUnknownStdPathErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	l := builtin.NewLoader(false, aurora.NewAurora(false), strings.NewReader(""), &out, &errOut)

	err := l.Load("std::core::net", nil, true, env.New())
	require.Error(t, err)
}

func TestLoadIOReadStrReadsOneLine(t *testing.T) {
	var out, errOut bytes.Buffer
	l := builtin.NewLoader(false, aurora.NewAurora(false), strings.NewReader("hello world\n"), &out, &errOut)

	e := env.New()
	require.NoError(t, l.Load("std::core::io", nil, true, e))

	b, _ := e.Get("read_str", -1)
	v, err := b.Value.Native.Callback(nil)
	require.NoError(t, err)
	require.Equal(t, "hello world", v.Str)
}
