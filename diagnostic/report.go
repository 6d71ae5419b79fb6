package diagnostic

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ape-lang/ape/token"
	"github.com/logrusorgru/aurora"
)

// Pretty renders a fatal diagnostic: a colored header line "<kind> error
// (E0x<code>):", a message line "<message>, at <line>:<start-col>-<end-col>",
// and, when the configured snippet width is non-negative, a source excerpt
// with that many lines of context on each side and the offending range
// underlined. Adapted from openllb/hlb's diagnostic/span.go Pretty method,
// simplified to a single-span diagnostic (ape has no multi-frame
// backtraces the way a build graph does).
func Pretty(ctx context.Context, err *Error) string {
	color := Color(ctx)
	header := color.Sprintf("%s",
		color.Bold(color.Red(fmt.Sprintf("%s error (E0x%d):", err.Code.Category(), err.Code))))

	msg := err.Code.Description()
	if err.Detail != "" {
		msg = err.Detail
	}
	line := fmt.Sprintf("%s, at %d:%d-%d", msg, err.Pos.Line, err.Pos.StartCol, err.Pos.EndCol)

	out := header + "\n" + line

	numContext := Snippet(ctx)
	if numContext < 0 {
		return out
	}

	fb := Sources(ctx).Get(err.Pos.Filename)
	if fb == nil || err.Pos.Line <= 0 {
		return out
	}

	snippet := renderSnippet(color, fb.Line, err.Pos, numContext)
	if snippet == "" {
		return out
	}
	return out + "\n" + snippet
}

// lineReader matches sourcebuf.Buffer.Line's signature, isolated here so
// Pretty doesn't need to import sourcebuf directly.
type lineReader func(int) ([]byte, error)

func renderSnippet(color aurora.Aurora, readLine lineReader, pos token.Position, numContext int) string {
	before := pos.Line - numContext
	if before < 1 {
		before = 1
	}
	after := pos.Line + numContext

	width := len(fmt.Sprintf("%d", after))
	gutter := func(n int, marker string) string {
		num := ""
		if n > 0 {
			num = fmt.Sprintf("%d", n)
		}
		return color.Sprintf(color.Blue(fmt.Sprintf("%s%*s │ ", marker, width, num)), num)
	}

	var lines []string
	for i := before; i <= after; i++ {
		data, err := readLine(i)
		if err != nil {
			continue
		}
		marker := " "
		if i == pos.Line {
			marker = ">"
		}
		lines = append(lines, fmt.Sprintf("%s%s", gutter(i, marker), string(data)))

		if i == pos.Line {
			padding := strings.Repeat(" ", pos.StartCol-1)
			underline := strings.Repeat("^", max(1, pos.EndCol-pos.StartCol))
			lines = append(lines, fmt.Sprintf("%s%s%s", gutter(0, " "), padding, color.Sprintf(color.Red(underline))))
		}
	}
	return strings.Join(lines, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Print writes a fatal diagnostic's pretty form to w.
func Print(ctx context.Context, w io.Writer, err *Error) {
	fmt.Fprintln(w, Pretty(ctx, err))
}

// PrintWarning writes a non-fatal warning in yellow, without a snippet.
func PrintWarning(ctx context.Context, w io.Writer, warn *Warning) {
	color := Color(ctx)
	fmt.Fprintln(w, color.Sprintf(color.Yellow("%s"), warn.Error()))
}
