// Package parser implements a recursive-descent parser: tokens in,
// statements out, with one-token lookahead and a monotonic expression id
// assigned to every expression node created along the way.
//
// Grounded on openllb/hlb's own hand-written recursive-descent shape for
// the parts of its grammar that weren't participle-driven (parser/parser.go
// peek/match/expect helpers) — generalized to a statically-typed statement
// and expression grammar rather than HLB's pipeline syntax.
package parser

import (
	"strings"

	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/diagnostic"
	"github.com/ape-lang/ape/lexer"
	"github.com/ape-lang/ape/token"
	"github.com/ape-lang/ape/types"
)

// Parser consumes a token stream produced by the lexer and builds an AST.
type Parser struct {
	filename string
	tokens   []token.Token
	pos      int
	ids      ast.IDGen
}

func New(filename string, tokens []token.Token) *Parser {
	return &Parser{filename: filename, tokens: tokens}
}

// NewFromID is New, but expression ids start counting at idStart instead of
// 0 — used when parsing a `mod`-loaded file so its expression ids can't
// collide with the importing file's (see ast.NewIDGen).
func NewFromID(filename string, tokens []token.Token, idStart int) *Parser {
	return &Parser{filename: filename, tokens: tokens, ids: *ast.NewIDGen(idStart)}
}

// Parse lexes and parses src in one step.
func Parse(filename, src string) ([]*ast.Stmt, error) {
	tokens, err := lexer.Lex(filename, src)
	if err != nil {
		return nil, err
	}
	return New(filename, tokens).Parse()
}

// ParseFromID is Parse, but expression ids start counting at idStart.
func ParseFromID(filename, src string, idStart int) ([]*ast.Stmt, error) {
	tokens, err := lexer.Lex(filename, src)
	if err != nil {
		return nil, err
	}
	return NewFromID(filename, tokens, idStart).Parse()
}

// Parse consumes the whole token stream, returning the top-level statement
// list. The first parse failure is fatal; there is no error recovery.
func (p *Parser) Parse() ([]*ast.Stmt, error) {
	var stmts []*ast.Stmt
	for !p.check(token.Eof) {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) nextID() int { return p.ids.Next() }

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) prev() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() token.Token {
	if p.peek().Kind != token.Eof {
		p.pos++
	}
	return p.prev()
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k or returns an "expected token" error.
func (p *Parser) expect(k token.Kind, context string) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	tok := p.peek()
	return token.Token{}, diagnostic.Newf(diagnostic.E0x204, tok.Pos,
		"expected %s %s, found %s", k, context, tok.Kind)
}

func (p *Parser) errUnexpected(detail string) error {
	tok := p.peek()
	return diagnostic.New(diagnostic.E0x201, tok.Pos, detail)
}

// stmt dispatches on the leading token of a top-level statement.
func (p *Parser) stmt() (*ast.Stmt, error) {
	switch p.peek().Kind {
	case token.KwLet:
		return p.varDecl()
	case token.KwFunc:
		return p.funcDecl()
	case token.KwIf:
		return p.ifStmt()
	case token.KwReturn:
		return p.returnStmt()
	case token.KwWhile:
		return p.whileStmt()
	case token.KwLoop:
		return p.loopStmt()
	case token.KwBreak:
		return p.breakStmt()
	case token.KwMatch:
		return p.matchStmt()
	case token.KwMod:
		return p.modStmt()
	case token.KwUse:
		return p.useStmt()
	case token.KwEnum:
		return p.enumStmt()
	case token.KwType:
		return p.typeStmt()
	case token.LBrace:
		return p.block()
	default:
		return p.exprStmt()
	}
}

// block parses a brace-delimited statement sequence into an SBlock Stmt.
func (p *Parser) block() (*ast.Stmt, error) {
	open, err := p.expect(token.LBrace, "to start a block")
	if err != nil {
		return nil, err
	}
	stmts, err := p.stmtsUntil(token.RBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace, "to close block"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SBlock, Pos: open.Pos, Stmts: stmts}, nil
}

func (p *Parser) stmtsUntil(end token.Kind) ([]*ast.Stmt, error) {
	var stmts []*ast.Stmt
	for !p.check(end) && !p.check(token.Eof) {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// varDecl parses `let [mut|pub(names)] [[names]] name(,name)* [: TYPE] [= EXPR] ;`
func (p *Parser) varDecl() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'let'

	isMut, isPub := false, false
	var pubNames []string
	switch {
	case p.match(token.KwMut):
		isMut = true
	case p.match(token.KwPub):
		isPub = true
		if p.match(token.LParen) {
			for !p.check(token.RParen) {
				n, err := p.expect(token.Ident, "public alias name")
				if err != nil {
					return nil, err
				}
				pubNames = append(pubNames, n.Lexeme)
				if !p.match(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RParen, "to close public alias list"); err != nil {
				return nil, err
			}
		}
	}

	isArrayDestructure := p.match(token.LBracket)
	names, err := p.nameList()
	if err != nil {
		return nil, err
	}
	if isArrayDestructure {
		if _, err := p.expect(token.RBracket, "to close destructuring pattern"); err != nil {
			return nil, err
		}
	}
	if isPub && len(pubNames) == 0 {
		pubNames = append(pubNames, names...)
	}

	stmt := &ast.Stmt{
		Kind: ast.SVar, Pos: pos, Names: names, IsMut: isMut, IsPub: isPub,
		PubNames: pubNames, IsArrayDestructure: isArrayDestructure,
	}

	if p.match(token.Semicolon) {
		return stmt, nil
	}

	if _, err := p.expect(token.Colon, "after variable name(s)"); err != nil {
		return nil, err
	}
	typ, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	stmt.VarType = typ

	if p.match(token.Semicolon) {
		return stmt, nil
	}
	if _, err := p.expect(token.Equal, "to initialize variable"); err != nil {
		return nil, err
	}
	if p.check(token.Pipe) {
		stmt.IsFuncValue = true
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	if _, err := p.expect(token.Semicolon, "after variable declaration"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) nameList() ([]string, error) {
	var names []string
	for {
		if p.match(token.Underscore) {
			names = append(names, "_")
		} else {
			n, err := p.expect(token.Ident, "in name list")
			if err != nil {
				return nil, err
			}
			names = append(names, n.Lexeme)
		}
		if !p.match(token.Comma) {
			break
		}
	}
	return names, nil
}

// funcDecl parses `func [pub|async]* name(params) -> type body`.
func (p *Parser) funcDecl() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'func'
	isPub, isAsync := false, false
loop:
	for {
		switch {
		case p.match(token.KwPub):
			isPub = true
		case p.match(token.KwAsync):
			isAsync = true
		default:
			break loop
		}
	}

	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Arrow, "before return type"); err != nil {
		return nil, err
	}
	retType, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.funcBody()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{
		Kind: ast.SFunc, Pos: pos, FuncName: name.Lexeme, ReturnType: retType,
		Body: body, Params: params, IsAsync: isAsync, IsPub: isPub,
	}, nil
}

func (p *Parser) paramList() ([]ast.Param, error) {
	if _, err := p.expect(token.LParen, "to start parameter list"); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(token.RParen) {
		nameTok, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "after parameter name"); err != nil {
			return nil, err
		}
		typ, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Lexeme, Type: typ, Pos: nameTok.Pos})
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, "to close parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

// funcBody parses either `= EXPR ;` or a `{ stmts }` block.
func (p *Parser) funcBody() (*ast.FuncBody, error) {
	if p.match(token.Equal) {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon, "after expression-bodied function"); err != nil {
			return nil, err
		}
		return &ast.FuncBody{Expr: e}, nil
	}
	if _, err := p.expect(token.LBrace, "to start function body"); err != nil {
		return nil, err
	}
	stmts, err := p.stmtsUntil(token.RBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace, "to close function body"); err != nil {
		return nil, err
	}
	return &ast.FuncBody{Stmts: stmts}, nil
}

func (p *Parser) ifStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'if'
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Stmt{Kind: ast.SIf, Pos: pos, Cond: cond, Then: then}
	for p.check(token.KwElif) {
		epos := p.advance().Pos
		econd, err := p.expr()
		if err != nil {
			return nil, err
		}
		ebody, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.Elif{Cond: econd, Body: ebody})
		_ = epos
	}
	if p.match(token.KwElse) {
		elseBody, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}
	return stmt, nil
}

func (p *Parser) returnStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'return'
	var e *ast.Expr
	if !p.check(token.Semicolon) {
		var err error
		e, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "after return statement"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SReturn, Pos: pos, Expr: e}, nil
}

func (p *Parser) whileStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'while'
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SWhile, Pos: pos, Cond: cond, Then: body}, nil
}

func (p *Parser) loopStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'loop'
	var iter *ast.Expr
	if !p.check(token.LBrace) {
		var err error
		iter, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SLoop, Pos: pos, Iter: iter, LoopBody: body}, nil
}

func (p *Parser) breakStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'break'
	if _, err := p.expect(token.Semicolon, "after break"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SBreak, Pos: pos}, nil
}

// matchStmt parses `match COND { PATTERN => ARM, ..., default => ARM }`.
// Match's evaluation semantics are specified elsewhere but not its
// surface syntax; this arm syntax is an implementation choice, noted in
// DESIGN.md.
func (p *Parser) matchStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'match'
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "to start match body"); err != nil {
		return nil, err
	}
	stmt := &ast.Stmt{Kind: ast.SMatch, Pos: pos, MatchCond: cond}
	for !p.check(token.RBrace) {
		if p.match(token.KwDefault) {
			if _, err := p.expect(token.FatArrow, "after default"); err != nil {
				return nil, err
			}
			body, err := p.matchArmBody()
			if err != nil {
				return nil, err
			}
			stmt.Default = body
		} else {
			pattern, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.FatArrow, "after match pattern"); err != nil {
				return nil, err
			}
			body, err := p.matchArmBody()
			if err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, ast.MatchCase{Pattern: pattern, Body: body})
		}
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RBrace, "to close match body"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) matchArmBody() (*ast.FuncBody, error) {
	if p.check(token.LBrace) {
		p.advance()
		stmts, err := p.stmtsUntil(token.RBrace)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBrace, "to close match arm"); err != nil {
			return nil, err
		}
		return &ast.FuncBody{Stmts: stmts}, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.FuncBody{Expr: e}, nil
}

// modStmt parses `mod "path" ;`, registering a module source file.
func (p *Parser) modStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'mod'
	pathTok, err := p.expect(token.String, "module path")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "after mod statement"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SMod, Pos: pos, ModPath: pathTok.Literal.StringVal}, nil
}

// useStmt parses `use path::to::mod ;`, `use path::*;`, or
// `use path::{ name [as alias], ... } ;`. The `::`-joined path and brace
// name-list are an implementation choice for Use's import semantics, which
// constrain behavior but not concrete syntax.
func (p *Parser) useStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'use'
	first, err := p.expect(token.Ident, "module path segment")
	if err != nil {
		return nil, err
	}
	parts := []string{first.Lexeme}
	importAll := false
	var names []ast.UseName

	for p.match(token.ColonColon) {
		if p.match(token.Star) {
			importAll = true
			break
		}
		if p.check(token.LBrace) {
			break
		}
		seg, err := p.expect(token.Ident, "module path segment")
		if err != nil {
			return nil, err
		}
		parts = append(parts, seg.Lexeme)
	}

	if !importAll && p.match(token.LBrace) {
		for !p.check(token.RBrace) {
			n, err := p.expect(token.Ident, "imported name")
			if err != nil {
				return nil, err
			}
			alias := ""
			if p.match(token.KwAs) {
				a, err := p.expect(token.Ident, "alias")
				if err != nil {
					return nil, err
				}
				alias = a.Lexeme
			}
			names = append(names, ast.UseName{Name: n.Lexeme, Alias: alias})
			if !p.match(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.RBrace, "to close import list"); err != nil {
			return nil, err
		}
	} else if !importAll {
		importAll = true
	}

	if _, err := p.expect(token.Semicolon, "after use statement"); err != nil {
		return nil, err
	}
	return &ast.Stmt{
		Kind: ast.SUse, Pos: pos, UsePath: strings.Join(parts, "::"),
		UseNames: names, ImportAll: importAll,
	}, nil
}

func (p *Parser) enumStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'enum'
	isPub := p.match(token.KwPub)
	name, err := p.expect(token.Ident, "enum name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "to start enum body"); err != nil {
		return nil, err
	}
	var variants []ast.EnumVariant
	for !p.check(token.RBrace) {
		vn, err := p.expect(token.Ident, "enum variant name")
		if err != nil {
			return nil, err
		}
		var payload *types.Type
		if p.match(token.LParen) {
			payload, err = p.typeExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen, "to close variant payload"); err != nil {
				return nil, err
			}
		}
		variants = append(variants, ast.EnumVariant{Name: vn.Lexeme, PayloadType: payload})
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RBrace, "to close enum body"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SEnum, Pos: pos, EnumName: name.Lexeme, Variants: variants, IsPub: isPub}, nil
}

func (p *Parser) typeStmt() (*ast.Stmt, error) {
	pos := p.advance().Pos // 'type'
	isPub := p.match(token.KwPub)
	name, err := p.expect(token.Ident, "type alias name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equal, "after type alias name"); err != nil {
		return nil, err
	}
	typ, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "after type alias"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SType, Pos: pos, TypeName: name.Lexeme, TypeValue: typ, IsPub: isPub}, nil
}

func (p *Parser) exprStmt() (*ast.Stmt, error) {
	pos := p.peek().Pos
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "after expression statement"); err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: ast.SExpr, Pos: pos, Expr: e}, nil
}
