package parser

import (
	"github.com/ape-lang/ape/ast"
	"github.com/ape-lang/ape/token"
	"github.com/ape-lang/ape/types"
)

// expr parses a full expression starting at assignment precedence, the
// lowest tier in the grammar.
func (p *Parser) expr() (*ast.Expr, error) {
	return p.assignment()
}

var assignKinds = map[token.Kind]ast.AssignKind{
	token.Equal:      ast.AssignNormal,
	token.PlusEqual:  ast.AssignPlus,
	token.MinusEqual: ast.AssignMinus,
	token.StarEqual:  ast.AssignMult,
	token.SlashEqual: ast.AssignDiv,
}

func (p *Parser) assignment() (*ast.Expr, error) {
	left, err := p.binary()
	if err != nil {
		return nil, err
	}
	kind, isAssign := assignKinds[p.peek().Kind]
	if !isAssign {
		return left, nil
	}
	opTok := p.advance()
	if left.Kind != ast.EVar {
		return nil, p.errUnexpected("invalid assignment target: left-hand side must be a variable")
	}
	value, err := p.assignment() // right-associative
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		ID: p.nextID(), Kind: ast.EAssign, Pos: opTok.Pos,
		AssignName: left.Name, AssignValue: value, AssignKind: kind,
	}, nil
}

// binaryOps maps each binary operator to its precedence (higher binds
// tighter); a kind absent from the map is not a binary operator.
var binaryOps = map[token.Kind]int{
	token.Plus: 5, token.Minus: 5, token.Star: 6, token.Slash: 6,
	token.Percent: 6, token.AmpAmp: 2, token.PipePipe: 1,
	token.EqualEqual: 3, token.BangEqual: 3, token.Greater: 4,
	token.GreaterEqual: 4, token.Less: 4, token.LessEqual: 4,
	token.Amp: 2,
}

// binary parses left-associative binary operators by precedence climbing:
// `* / %` bind tighter than `+ -`, which bind tighter than comparisons, then
// equality, then `&&`/`&`, then `||`. `**` (square) is deliberately absent
// here — despite appearing in the binary operator list, it is evaluated as a
// unary prefix operator only (see unaryOps below), matching
// original_source's eval_unary/eval_binary split.
func (p *Parser) binary() (*ast.Expr, error) { return p.binaryAbove(0) }

// binaryAbove parses a binary chain whose operators all have a precedence
// greater than min.
func (p *Parser) binaryAbove(min int) (*ast.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for binaryOps[p.peek().Kind] > min {
		op := p.advance()
		right, err := p.binaryAbove(binaryOps[op.Kind])
		if err != nil {
			return nil, err
		}
		left = &ast.Expr{ID: p.nextID(), Kind: ast.EBinary, Pos: op.Pos, Op: op.Kind, Left: left, Right: right}
	}
	return left, nil
}

var unaryOps = map[token.Kind]bool{
	token.Bang: true, token.BangBang: true, token.Question: true,
	token.MinusMinus: true, token.PlusPlus: true, token.Minus: true,
	token.StarStar: true,
}

func (p *Parser) unary() (*ast.Expr, error) {
	if unaryOps[p.peek().Kind] {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{ID: p.nextID(), Kind: ast.EUnary, Pos: op.Pos, Op: op.Kind, Operand: operand}, nil
	}
	return p.callChain()
}

// callChain parses the postfix chain of `.name`, `::name`, `(args)` and
// `[index]` suffixes over a primary expression.
func (p *Parser) callChain() (*ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case token.Dot:
			dot := p.advance()
			nameTok, err := p.expect(token.Ident, "field or method name")
			if err != nil {
				return nil, err
			}
			if p.check(token.LParen) {
				args, err := p.argList()
				if err != nil {
					return nil, err
				}
				expr = &ast.Expr{
					ID: p.nextID(), Kind: ast.EMethod, Pos: dot.Pos,
					Receiver: expr, MethodName: nameTok.Lexeme, MethodArgs: args,
				}
			} else {
				field := &ast.Expr{ID: p.nextID(), Kind: ast.EVar, Pos: nameTok.Pos, Name: nameTok.Lexeme}
				expr = &ast.Expr{
					ID: p.nextID(), Kind: ast.ECall, Pos: dot.Pos,
					Callee: expr, Args: []*ast.Expr{field}, CallKind: ast.CallStruct,
				}
			}
		case token.ColonColon:
			cc := p.advance()
			nameTok, err := p.expect(token.Ident, "enum variant name")
			if err != nil {
				return nil, err
			}
			variant := &ast.Expr{ID: p.nextID(), Kind: ast.EVar, Pos: nameTok.Pos, Name: nameTok.Lexeme}
			var args []*ast.Expr
			if p.check(token.LParen) {
				args, err = p.argList()
				if err != nil {
					return nil, err
				}
			}
			expr = &ast.Expr{
				ID: p.nextID(), Kind: ast.ECall, Pos: cc.Pos,
				Callee: expr, Args: append([]*ast.Expr{variant}, args...), CallKind: ast.CallEnum,
			}
		case token.LParen:
			pos := p.peek().Pos
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			callKind := ast.CallFunc
			if expr.Kind == ast.EVar {
				callKind = ast.CallVar
			}
			expr = &ast.Expr{ID: p.nextID(), Kind: ast.ECall, Pos: pos, Callee: expr, Args: args, CallKind: callKind}
		case token.LBracket:
			pos := p.advance().Pos
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "to close index expression"); err != nil {
				return nil, err
			}
			expr = &ast.Expr{
				ID: p.nextID(), Kind: ast.ECall, Pos: pos,
				Callee: expr, Args: []*ast.Expr{idx}, CallKind: ast.CallArray,
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) argList() ([]*ast.Expr, error) {
	if _, err := p.expect(token.LParen, "to start argument list"); err != nil {
		return nil, err
	}
	var args []*ast.Expr
	for !p.check(token.RParen) {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, "to close argument list"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) primary() (*ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.Expr{ID: p.nextID(), Kind: ast.EVar, Pos: tok.Pos, Name: tok.Lexeme}, nil
	case token.Number, token.String, token.Char, token.True, token.False, token.Null:
		p.advance()
		return &ast.Expr{ID: p.nextID(), Kind: ast.EValue, Pos: tok.Pos, Literal: tok.Literal}, nil
	case token.LBracket:
		p.advance()
		var items []*ast.Expr
		for !p.check(token.RBracket) {
			item, err := p.expr()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if !p.match(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.RBracket, "to close array literal"); err != nil {
			return nil, err
		}
		return &ast.Expr{ID: p.nextID(), Kind: ast.EArray, Pos: tok.Pos, Items: items}, nil
	case token.LParen:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "to close grouping"); err != nil {
			return nil, err
		}
		return &ast.Expr{ID: p.nextID(), Kind: ast.EGrouping, Pos: tok.Pos, Inner: inner}, nil
	case token.LBrace:
		p.advance()
		var fields []ast.ObjectField
		for !p.check(token.RBrace) {
			nameTok, err := p.expect(token.Ident, "object field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon, "after object field name"); err != nil {
				return nil, err
			}
			val, err := p.expr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.ObjectField{Name: nameTok.Lexeme, Value: val})
			if !p.match(token.Comma) {
				break
			}
		}
		if _, err := p.expect(token.RBrace, "to close object literal"); err != nil {
			return nil, err
		}
		return &ast.Expr{ID: p.nextID(), Kind: ast.EObject, Pos: tok.Pos, Fields: fields}, nil
	case token.Pipe:
		return p.closure()
	case token.KwAwait:
		p.advance()
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{ID: p.nextID(), Kind: ast.EAwait, Pos: tok.Pos, Await: inner}, nil
	default:
		return nil, p.errUnexpected("unexpected token " + tok.Kind.String())
	}
}

// closure parses `|params| : expr` or `|params| { stmts }`. The trailing
// `;` of a `let ... = |...| : expr ;` declaration is left to the caller.
func (p *Parser) closure() (*ast.Expr, error) {
	pos := p.advance().Pos // '|'
	var params []ast.Param
	if !p.check(token.Pipe) {
		for {
			nameTok, err := p.expect(token.Ident, "closure parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon, "after closure parameter name"); err != nil {
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
	}
	if _, err := p.expect(token.Pipe, "to close closure parameter list"); err != nil {
		return nil, err
	}

	if p.match(token.Colon) {
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{
			ID: p.nextID(), Kind: ast.EFunc, Pos: pos,
			Func: &ast.FuncLit{Params: params, Body: &ast.FuncBody{Expr: body}},
		}, nil
	}
	if _, err := p.expect(token.LBrace, "to start closure body"); err != nil {
		return nil, err
	}
	stmts, err := p.stmtsUntil(token.RBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace, "to close closure body"); err != nil {
		return nil, err
	}
	return &ast.Expr{
		ID: p.nextID(), Kind: ast.EFunc, Pos: pos,
		Func: &ast.FuncLit{Params: params, Body: &ast.FuncBody{Stmts: stmts}},
	}, nil
}

// typeExpr parses the structured type grammar: a prefix type, then zero
// or more `| T` / `?` suffixes folded into Or/Nullable.
func (p *Parser) typeExpr() (*types.Type, error) {
	prefix, err := p.typePrefix()
	if err != nil {
		return nil, err
	}
	for {
		if p.match(token.Pipe) {
			right, err := p.typePrefix()
			if err != nil {
				return nil, err
			}
			prefix = types.NewOr(prefix, right)
			continue
		}
		if p.match(token.Question) {
			prefix = types.NewNullable(prefix)
			continue
		}
		break
	}
	return prefix, nil
}

func (p *Parser) typePrefix() (*types.Type, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Less:
		p.advance()
		if p.match(token.LParen) {
			var statics []*types.Type
			for !p.check(token.RParen) {
				t, err := p.typeExpr()
				if err != nil {
					return nil, err
				}
				statics = append(statics, t)
				if !p.match(token.Comma) {
					break
				}
			}
			if _, err := p.expect(token.RParen, "to close fixed-shape vector type"); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Greater, "to close vector type"); err != nil {
				return nil, err
			}
			return types.NewVectorStatic(statics), nil
		}
		elem, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Greater, "to close vector type"); err != nil {
			return nil, err
		}
		return types.NewVector(elem), nil

	case token.Pipe:
		p.advance()
		var params []*types.Type
		if !p.check(token.Pipe) {
			for {
				t, err := p.typeExpr()
				if err != nil {
					return nil, err
				}
				params = append(params, t)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.expect(token.Pipe, "to close callback parameter list"); err != nil {
			return nil, err
		}
		ret, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		return types.NewCallback(params, ret), nil

	case token.Number:
		p.advance()
		return types.NewLiteral(&types.Const{Kind: types.ConstNumber, Number: tok.Literal.NumberVal}), nil
	case token.String:
		p.advance()
		return types.NewLiteral(&types.Const{Kind: types.ConstString, Str: tok.Literal.StringVal}), nil
	case token.Char:
		p.advance()
		return types.NewLiteral(&types.Const{Kind: types.ConstChar, Char: tok.Literal.CharVal}), nil
	case token.True:
		p.advance()
		return types.NewLiteral(&types.Const{Kind: types.ConstBool, Bool: true}), nil
	case token.False:
		p.advance()
		return types.NewLiteral(&types.Const{Kind: types.ConstBool, Bool: false}), nil
	case token.Null:
		// "null" in type position denotes the builtin Null type itself, not
		// a literal-singleton type. varDecl does not special-case it: a
		// value after `: null` is parsed and type-checked like any other.
		p.advance()
		return types.NewVar(types.Null), nil

	case token.Ident:
		p.advance()
		return types.NewVar(tok.Lexeme), nil

	default:
		if name, ok := builtinTypeNames[tok.Kind]; ok {
			p.advance()
			return types.NewVar(name), nil
		}
		return nil, p.errUnexpected("expected a type, found " + tok.Kind.String())
	}
}

var builtinTypeNames = map[token.Kind]string{
	token.KwNumberType: types.Number, token.KwStringType: types.String,
	token.KwCharType: types.Char, token.KwBoolType: types.Bool,
	token.KwVoidType: types.Void, token.KwAnyType: types.Any,
	token.KwArrayType: types.Array, token.KwNullType: types.Null,
}
