// Package token defines the shared vocabulary of the lexer and parser: token
// kinds, literal payloads, and source positions.
package token

import (
	"fmt"

	"github.com/ape-lang/ape/types"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Illegal Kind = iota
	Eof

	// Literals and identifiers.
	Ident
	Number
	String
	Char
	True
	False
	Null

	// Single-char punctuation.
	Underscore // _
	Percent    // %
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Semicolon  // ;
	Comma      // ,
	Question   // ?

	// Colon family.
	Colon      // :
	ColonColon // ::

	// Bang family.
	Bang      // !
	BangEqual // !=
	BangBang  // !!

	// Amp family.
	Amp    // &
	AmpAmp // &&

	// Plus family.
	Plus      // +
	PlusPlus  // ++
	PlusEqual // +=

	// Minus family.
	Minus      // -
	MinusMinus // --
	Arrow      // ->
	MinusEqual // -=

	// Star family.
	Star      // *
	StarStar  // **
	StarEqual // *=

	// Equal family.
	Equal      // =
	EqualEqual // ==
	FatArrow   // =>

	// Pipe family.
	Pipe    // |
	PipePipe // ||

	// Dot family.
	Dot    // .
	DotDot // ..

	// Relational.
	Less         // <
	LessEqual    // <=
	Greater      // >
	GreaterEqual // >=

	// Backslash family (string interpolation braces).
	Backslash       // \
	BackslashLBrace // \{
	BackslashRBrace // \}

	// Slash family.
	Slash      // /
	SlashEqual // /=

	// Keywords.
	KwLet
	KwMut
	KwPub
	KwFunc
	KwAsync
	KwAwait
	KwIf
	KwElif
	KwElse
	KwReturn
	KwWhile
	KwLoop
	KwBreak
	KwMatch
	KwDefault
	KwMod
	KwUse
	KwAs
	KwEnum
	KwType

	// Builtin type names.
	KwNumberType
	KwStringType
	KwCharType
	KwBoolType
	KwVoidType
	KwAnyType
	KwArrayType
	KwNullType
)

var names = map[Kind]string{
	Illegal: "illegal", Eof: "eof",
	Ident: "identifier", Number: "number", String: "string", Char: "char",
	True: "true", False: "false", Null: "null",
	Underscore: "_", Percent: "%", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Semicolon: ";", Comma: ",", Question: "?",
	Colon: ":", ColonColon: "::",
	Bang: "!", BangEqual: "!=", BangBang: "!!",
	Amp: "&", AmpAmp: "&&",
	Plus: "+", PlusPlus: "++", PlusEqual: "+=",
	Minus: "-", MinusMinus: "--", Arrow: "->", MinusEqual: "-=",
	Star: "*", StarStar: "**", StarEqual: "*=",
	Equal: "=", EqualEqual: "==", FatArrow: "=>",
	Pipe: "|", PipePipe: "||",
	Dot: ".", DotDot: "..",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Backslash: "\\", BackslashLBrace: "\\{", BackslashRBrace: "\\}",
	Slash: "/", SlashEqual: "/=",
	KwLet: "let", KwMut: "mut", KwPub: "pub", KwFunc: "func",
	KwAsync: "async", KwAwait: "await", KwIf: "if", KwElif: "elif",
	KwElse: "else", KwReturn: "return", KwWhile: "while", KwLoop: "loop",
	KwBreak: "break", KwMatch: "match", KwDefault: "default", KwMod: "mod",
	KwUse: "use", KwAs: "as", KwEnum: "enum", KwType: "type",
	KwNumberType: "number", KwStringType: "string", KwCharType: "char",
	KwBoolType: "bool", KwVoidType: "void", KwAnyType: "any",
	KwArrayType: "array", KwNullType: "null",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keywords maps identifier text to its reserved keyword Kind.
var Keywords = map[string]Kind{
	"let": KwLet, "mut": KwMut, "pub": KwPub, "func": KwFunc,
	"async": KwAsync, "await": KwAwait, "if": KwIf, "elif": KwElif,
	"else": KwElse, "return": KwReturn, "while": KwWhile, "loop": KwLoop,
	"break": KwBreak, "match": KwMatch, "default": KwDefault, "mod": KwMod,
	"use": KwUse, "as": KwAs, "enum": KwEnum, "type": KwType,
	"true": True, "false": False, "null": Null,
	"number": KwNumberType, "string": KwStringType, "char": KwCharType,
	"bool": KwBoolType, "void": KwVoidType, "any": KwAnyType,
	"array": KwArrayType,
}

// BuiltinTypeKeywords is the subset of Keywords that denote base types,
// usable both as identifiers in type position and (for "null") as a literal.
var BuiltinTypeKeywords = map[Kind]bool{
	KwNumberType: true, KwStringType: true, KwCharType: true,
	KwBoolType: true, KwVoidType: true, KwAnyType: true,
	KwArrayType: true, KwNullType: true,
}

// Base is the numeric base a Number literal was written in.
type Base int

const (
	Decimal Base = iota
	Binary
	Octal
	Hexadecimal
)

func (b Base) String() string {
	switch b {
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	case Hexadecimal:
		return "hexadecimal"
	default:
		return "decimal"
	}
}

// Literal is the parse-time payload attached to a literal token.
type Literal struct {
	Kind      LiteralKind
	NumberVal float64
	Base      Base
	StringVal string
	CharVal   rune
	BoolVal   bool
	// TypeVal holds the structured type when Kind == LitType: a type used
	// as a first-class value in a type position (LiteralKind::Type).
	TypeVal *types.Type
}

// LiteralKind tags the variant of Literal in effect.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitNumber
	LitString
	LitChar
	LitBool
	LitNull
	LitType
)

// Position is the location of a Token in its source file: a 1-based line, a
// 1-based, character-indexed, inclusive-exclusive column range, and the
// offset of the first character (the lexer counts it in characters, not
// bytes).
type Position struct {
	Filename string
	Offset   int
	Line     int
	StartCol int
	EndCol   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d-%d", p.Filename, p.Line, p.StartCol, p.EndCol)
}

// Token is a single lexical unit: its kind, the verbatim source text it
// covers, an optional literal payload, and its position.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal *Literal
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}
