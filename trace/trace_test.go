package trace_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ape-lang/ape/token"
	"github.com/ape-lang/ape/trace"
	"github.com/stretchr/testify/require"
)

func TestWriterLogsOneLinePerStep(t *testing.T) {
	var buf bytes.Buffer
	w := trace.New(&buf)

	w.Trace("eval var x", token.Position{Filename: "main.ape", Line: 3, StartCol: 1})
	w.Trace("eval call foo", token.Position{Filename: "main.ape", Line: 4, StartCol: 5})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "main.ape:3:1")
	require.Contains(t, lines[0], "eval var x")
	require.Contains(t, lines[1], "eval call foo")
}

func TestNilWriterDiscardsOutput(t *testing.T) {
	w := trace.New(nil)
	require.NotPanics(t, func() {
		w.Trace("eval var x", token.Position{Filename: "main.ape", Line: 1})
	})
}
