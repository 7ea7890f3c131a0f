package parser

import (
	"strconv"

	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/token"
)

// binopPrec gives the left-binding precedence of each binary operator,
// higher binds tighter. ** is right-associative (see parseSubExpr).
var binopPrec = map[token.Token]int{
	token.OROR:   1,
	token.ANDAND: 2,
	token.EQEQ:   3, token.NE: 3,
	token.LT: 4, token.GT: 4, token.LE: 4, token.GE: 4,
	token.PIPE: 5,
	token.CARET: 6,
	token.AMP:   7,
	token.SHL:   8, token.SHR: 8,
	token.PLUS: 9, token.MINUS: 9,
	token.STAR: 10, token.SLASH: 10, token.PERCENT: 10,
	token.STARSTAR: 12,
}

const unaryPrec = 11

func (p *parser) parseExpr() ast.Expr {
	return p.parseSubExpr(0)
}

func (p *parser) parseSubExpr(minPrec int) ast.Expr {
	var left ast.Expr
	switch p.tok {
	case token.MINUS, token.BANG, token.TILDE, token.AWAIT:
		op, opPos := p.tok, p.pos
		p.advance()
		left = &ast.UnaryExpr{Pos: opPos, Op: op, Expr: p.parseSubExpr(unaryPrec)}
	default:
		left = p.parsePostfixExpr()
	}

	for {
		prec, ok := binopPrec[p.tok]
		if !ok || prec < minPrec {
			break
		}
		op, opPos := p.tok, p.pos
		p.advance()
		nextMin := prec + 1
		if op == token.STARSTAR {
			nextMin = prec // right associative
		}
		right := p.parseSubExpr(nextMin)
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

// parsePostfixExpr parses a primary expression followed by any number of
// call/index/field suffixes.
func (p *parser) parsePostfixExpr() ast.Expr {
	e := p.parsePrimaryExpr()
	for {
		switch p.tok {
		case token.DOT:
			pos := p.expect(token.DOT)
			name := p.expectIdentName()
			e = &ast.FieldExpr{Left: e, Pos: pos, Name: name}
		case token.QUESTIONDOT:
			pos := p.expect(token.QUESTIONDOT)
			name := p.expectIdentName()
			e = &ast.FieldExpr{Left: e, Pos: pos, Name: name, Optional: true}
		case token.LBRACK:
			pos := p.expect(token.LBRACK)
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			e = &ast.IndexExpr{Prefix: e, Pos: pos, Index: idx}
		case token.LPAREN:
			pos := p.expect(token.LPAREN)
			var args []ast.Expr
			for p.tok != token.RPAREN {
				args = append(args, p.parseExpr())
				if p.tok != token.COMMA {
					break
				}
				p.advance()
			}
			p.expect(token.RPAREN)
			e = &ast.CallExpr{Fn: e, Pos: pos, Args: args}
		default:
			return e
		}
	}
}

func (p *parser) expectIdentName() string {
	pos := p.pos
	if p.tok != token.IDENT {
		p.errorExpected(pos, "identifier")
		panic(errPanicMode)
	}
	name := p.lit
	p.advance()
	return name
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	switch p.tok {
	case token.INT:
		return p.parseIntLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.RUNE:
		return p.parseRuneLiteral()
	case token.STRING:
		lit := &ast.LiteralExpr{Pos: p.pos, Type: token.STRING, Raw: p.lit, Value: p.lit}
		p.advance()
		return lit
	case token.TRUE, token.FALSE:
		lit := &ast.LiteralExpr{Pos: p.pos, Type: p.tok, Raw: p.tok.String(), Value: p.tok == token.TRUE}
		p.advance()
		return lit
	case token.NULL:
		lit := &ast.LiteralExpr{Pos: p.pos, Type: token.NULL, Raw: "null", Value: nil}
		p.advance()
		return lit
	case token.IDENT:
		e := &ast.IdentExpr{Pos: p.pos, Name: p.lit}
		p.advance()
		return e
	case token.LPAREN:
		pos := p.expect(token.LPAREN)
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return &ast.ParenExpr{Pos: pos, Expr: inner}
	case token.LBRACK:
		return p.parseArrayExpr()
	case token.LBRACE:
		return p.parseObjectExpr()
	case token.FN:
		return p.parseFuncExpr("")
	case token.SPAWN:
		return p.parseSpawnExpr()
	default:
		p.errorExpected(p.pos, "expression")
		panic(errPanicMode)
	}
}

func (p *parser) parseIntLiteral() ast.Expr {
	pos, raw := p.pos, p.lit
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.errorf(pos, "invalid integer literal %q: %v", raw, err)
	}
	p.advance()
	return &ast.LiteralExpr{Pos: pos, Type: token.INT, Raw: raw, Value: v}
}

func (p *parser) parseFloatLiteral() ast.Expr {
	pos, raw := p.pos, p.lit
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errorf(pos, "invalid float literal %q: %v", raw, err)
	}
	p.advance()
	return &ast.LiteralExpr{Pos: pos, Type: token.FLOAT, Raw: raw, Value: v}
}

func (p *parser) parseRuneLiteral() ast.Expr {
	pos, raw := p.pos, p.lit
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errorf(pos, "invalid rune literal %q: %v", raw, err)
	}
	p.advance()
	return &ast.LiteralExpr{Pos: pos, Type: token.RUNE, Raw: raw, Value: rune(n)}
}

func (p *parser) parseArrayExpr() ast.Expr {
	pos := p.expect(token.LBRACK)
	var elems []ast.Expr
	for p.tok != token.RBRACK && p.tok != token.EOF {
		elems = append(elems, p.parseExpr())
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACK)
	return &ast.ArrayExpr{Pos: pos, Elems: elems}
}

func (p *parser) parseObjectExpr() ast.Expr {
	pos := p.expect(token.LBRACE)
	var items []ast.KeyVal
	for p.tok != token.RBRACE && p.tok != token.EOF {
		name := p.expectIdentName()
		p.expect(token.COLON)
		items = append(items, ast.KeyVal{Key: name, Value: p.parseExpr()})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	return &ast.ObjectExpr{Pos: pos, Items: items}
}

func (p *parser) parseFuncExpr(name string) *ast.FuncExpr {
	pos := p.expect(token.FN)
	isAsync := false
	if p.tok == token.ASYNC {
		isAsync = true
		p.advance()
	}
	p.expect(token.LPAREN)
	var params []*ast.IdentExpr
	for p.tok != token.RPAREN {
		params = append(params, &ast.IdentExpr{Pos: p.pos, Name: p.expectIdentName()})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.FuncExpr{Pos: pos, Name: name, Params: params, IsAsync: isAsync, Body: body}
}

// parseSpawnExpr parses `spawn f(args)`, requiring the operand to be a call.
func (p *parser) parseSpawnExpr() ast.Expr {
	p.expect(token.SPAWN)
	e := p.parsePostfixExpr()
	call, ok := e.(*ast.CallExpr)
	if !ok {
		p.errorf(e.Span(), "spawn requires a function call")
		return e
	}
	call.IsSpawn = true
	return call
}
