package lexer

import (
	"testing"

	"github.com/ape-lang/ape/token"
	"github.com/stretchr/testify/require"
)

func TestLexBasedNumberLiterals(t *testing.T) {
	t.Parallel()
	tokens, err := Lex("t.ape", "0b1010 + 0o17 + 0xff + 10")
	require.NoError(t, err)

	var nums []token.Token
	for _, tok := range tokens {
		if tok.Kind == token.Number {
			nums = append(nums, tok)
		}
	}
	require.Len(t, nums, 4)
	require.Equal(t, float64(10), nums[0].Literal.NumberVal)
	require.Equal(t, token.Binary, nums[0].Literal.Base)
	require.Equal(t, float64(15), nums[1].Literal.NumberVal)
	require.Equal(t, token.Octal, nums[1].Literal.Base)
	require.Equal(t, float64(255), nums[2].Literal.NumberVal)
	require.Equal(t, token.Hexadecimal, nums[2].Literal.Base)
	require.Equal(t, float64(10), nums[3].Literal.NumberVal)
	require.Equal(t, token.Decimal, nums[3].Literal.Base)
}

func TestLexPositionsAreWellFormed(t *testing.T) {
	t.Parallel()
	tokens, err := Lex("t.ape", "let x: number = 1;\nlet y: number = 2;")
	require.NoError(t, err)
	for _, tok := range tokens {
		require.GreaterOrEqual(t, tok.Pos.Line, 1)
		require.LessOrEqual(t, tok.Pos.StartCol, tok.Pos.EndCol)
	}
	require.Equal(t, token.Eof, tokens[len(tokens)-1].Kind)
}

func TestLexLosslessLexemeRoundTrip(t *testing.T) {
	t.Parallel()
	src := "let x:number=1+2;"
	tokens, err := Lex("t.ape", src)
	require.NoError(t, err)

	var reconstructed string
	for _, tok := range tokens {
		reconstructed += tok.Lexeme
	}
	// Whitespace produces no token, so only the space after `let` is lost.
	require.Equal(t, "letx:number=1+2;", reconstructed)
}

func TestLexEscapesInStringAndChar(t *testing.T) {
	t.Parallel()
	tokens, err := Lex("t.ape", `"a\nb\u{41}" 'c' '\u(42)'`)
	require.NoError(t, err)
	require.Equal(t, "a\nbA", tokens[0].Literal.StringVal)
	require.Equal(t, 'c', tokens[1].Literal.CharVal)
	require.Equal(t, 'B', tokens[2].Literal.CharVal)
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	t.Parallel()
	_, err := Lex("t.ape", `"unterminated`)
	require.Error(t, err)
}

func TestLexMalformedCharErrors(t *testing.T) {
	t.Parallel()
	_, err := Lex("t.ape", `'ab'`)
	require.Error(t, err)
}

func TestLexBlockCommentWithNestedNewlines(t *testing.T) {
	t.Parallel()
	tokens, err := Lex("t.ape", "/* line one\nline two */let x")
	require.NoError(t, err)
	require.Equal(t, token.KwLet, tokens[0].Kind)
	require.Equal(t, 2, tokens[0].Pos.Line)
}
