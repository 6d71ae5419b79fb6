package diagnostic

// Code is a stable numeric diagnostic identifier, grouped by subsystem
// (101-104 lexer, 201-204 parser, 301-306 runtime, 401-416 function,
// 501-502 environment). Numeric values follow original_source's
// src/errors/mod.rs where the documented taxonomy names the category but
// not every value.
type Code int

const (
	// Lexer errors.
	E0x101 Code = 101 // malformed char
	E0x102 Code = 102 // unterminated string
	E0x103 Code = 103 // unexpected token (unknown character)
	E0x104 Code = 104 // failed number parse

	// Parser errors.
	E0x201 Code = 201 // unexpected token
	E0x202 Code = 202 // failed to unwrap number
	E0x203 Code = 203 // failed to parse
	E0x204 Code = 204 // expected token

	// Runtime errors.
	E0x301 Code = 301 // type mismatch
	E0x302 Code = 302 // break outside loop
	E0x303 Code = 303 // return outside function
	E0x304 Code = 304 // failed to resolve name
	E0x305 Code = 305 // already declared
	E0x306 Code = 306 // stack underflow

	// Function errors.
	E0x401 Code = 401 // function must have one name
	E0x402 Code = 402 // public var without value
	E0x403 Code = 403 // failed to create function
	E0x404 Code = 404 // wrong arg count
	E0x405 Code = 405 // missing return
	E0x410 Code = 410 // assign to immutable
	E0x411 Code = 411 // assign to public
	E0x412 Code = 412 // invalid type in reassign
	E0x413 Code = 413 // assign to non-variable
	E0x414 Code = 414 // failed assign
	E0x415 Code = 415 // side-effects disabled
	E0x416 Code = 416 // failed module-values lookup

	// Environment errors.
	E0x501 Code = 501 // failed to get distance
	E0x502 Code = 502 // failed to resolve value
)

// Category names the subsystem a Code belongs to; it is the "<kind>" token
// in the diagnostic header line.
func (c Code) Category() string {
	switch {
	case c >= 101 && c <= 199:
		return "lexer"
	case c >= 201 && c <= 299:
		return "parser"
	case c >= 301 && c <= 399:
		return "runtime"
	case c >= 401 && c <= 499:
		return "function"
	case c >= 501 && c <= 599:
		return "environment"
	default:
		return "unknown"
	}
}

var descriptions = map[Code]string{
	E0x101: "malformed char",
	E0x102: "unterminated string",
	E0x103: "unexpected character",
	E0x104: "failed to parse number literal",
	E0x201: "unexpected token",
	E0x202: "failed to unwrap number",
	E0x203: "failed to parse",
	E0x204: "expected token",
	E0x301: "type mismatch",
	E0x302: "break outside of loop",
	E0x303: "return outside of function",
	E0x304: "failed to resolve name",
	E0x305: "already declared",
	E0x306: "stack underflow",
	E0x401: "function must have one name",
	E0x402: "public var without value",
	E0x403: "failed to create function",
	E0x404: "wrong number of arguments",
	E0x405: "missing return",
	E0x410: "assignment to immutable variable",
	E0x411: "assignment to public variable",
	E0x412: "invalid type in reassignment",
	E0x413: "assignment to non-variable",
	E0x414: "failed to assign",
	E0x415: "side effects disabled",
	E0x416: "failed module value lookup",
	E0x501: "failed to get distance",
	E0x502: "failed to resolve value",
}

// Description returns the short, fixed message for a Code.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown error"
}
