package module

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// ValidateSource sanity-checks a vendored module's bytes; `ape update` runs
// it over each locked module's vendored source. A corrupt or binary payload
// (a failed fetch, a registry serving an error page) should fail loudly here rather
// than surface later as a confusing lex error from the core `lexer`
// package deep inside a `mod` statement.
//
// This deliberately does not reuse this module's own hand-rolled `lexer`
// package — that lexer is grounded on the language's exact grammar and
// returns language-specific diagnostics, which is the wrong tool for "does this
// look like text at all". participle/v2's generic scanner-based lexer
// (already a pack dependency) is the narrow, independent second opinion:
// if it can't tokenize the bytes as a text/scanner token stream, nothing
// downstream should trust them either.
func ValidateSource(filename string, src []byte) error {
	lex, err := lexer.LexBytes(filename, src)
	if err != nil {
		return errors.Wrap(err, "lexing vendored module")
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			return errors.Wrap(err, "lexing vendored module")
		}
		if tok.EOF() {
			return nil
		}
	}
}
