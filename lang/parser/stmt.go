package parser

import (
	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/token"
)

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.SEMI:
		p.advance()
		return nil
	case token.LET, token.CONST:
		return p.parseDeclStmt()
	case token.FN:
		return p.parseFuncDeclStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		pos := p.expect(token.BREAK)
		p.expectSemi()
		return &ast.BreakStmt{Pos: pos}
	case token.CONTINUE:
		pos := p.expect(token.CONTINUE)
		p.expectSemi()
		return &ast.ContinueStmt{Pos: pos}
	case token.THROW:
		return p.parseThrowStmt()
	case token.TRY:
		return p.parseTryStmt()
	case token.DEFER:
		return p.parseDeferStmt()
	case token.YIELD:
		pos := p.expect(token.YIELD)
		p.expectSemi()
		return &ast.YieldStmt{Pos: pos}
	case token.IMPORT:
		return p.parseImportStmt()
	case token.EXPORT:
		return p.parseExportStmt()
	case token.LBRACE:
		return &ast.BlockStmt{Block: p.parseBlock()} // standalone braces
	default:
		return p.parseSimpleStmt()
	}
}

// expectSemi consumes a trailing ';' if present; the grammar treats it as
// mandatory, but a missing one before '}' or EOF is tolerated so the last
// statement of a block need not be terminated.
func (p *parser) expectSemi() {
	if p.tok == token.SEMI {
		p.advance()
		return
	}
	if p.tok == token.RBRACE || p.tok == token.EOF {
		return
	}
	p.errorExpected(p.pos, token.SEMI.GoString())
	panic(errPanicMode)
}

func (p *parser) parseDeclStmt() ast.Stmt {
	pos := p.pos
	isConst := p.tok == token.CONST
	p.advance()
	name := &ast.IdentExpr{Pos: p.pos, Name: p.expectIdentName()}
	var value ast.Expr
	if p.tok == token.EQ {
		p.advance()
		value = p.parseExpr()
	}
	p.expectSemi()
	return &ast.DeclStmt{Pos: pos, Const: isConst, Name: name, Value: value}
}

func (p *parser) parseFuncDeclStmt() ast.Stmt {
	pos := p.pos
	p.advance() // consume 'fn'; the rest of the function is parsed inline below
	nameTok := p.pos
	name := p.expectIdentName()
	ident := &ast.IdentExpr{Pos: nameTok, Name: name}

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
	fn := &ast.FuncExpr{Pos: pos, Name: name, Params: params, IsAsync: isAsync, Body: body}
	return &ast.FuncDeclStmt{Pos: pos, Name: ident, Fn: fn}
}

func (p *parser) parseIfStmt() ast.Stmt {
	pos := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()
	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}

	switch p.tok {
	case token.ELIF:
		stmt.Else = p.parseElifStmt()
	case token.ELSE:
		p.advance()
		stmt.Else = &ast.BlockStmt{Block: p.parseBlock()}
	}
	return stmt
}

// parseElifStmt parses `elif (cond) block [elif...|else...]` as a nested
// IfStmt, so an elif chain is just nested Else fields.
func (p *parser) parseElifStmt() ast.Stmt {
	pos := p.expect(token.ELIF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()
	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}
	switch p.tok {
	case token.ELIF:
		stmt.Else = p.parseElifStmt()
	case token.ELSE:
		p.advance()
		stmt.Else = &ast.BlockStmt{Block: p.parseBlock()}
	}
	return stmt
}

func (p *parser) parseWhileStmt() ast.Stmt {
	pos := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}
}

// parseForStmt parses both the three-clause C-style for and the for-in form,
// disambiguating after the opening paren by scanning for the `in` keyword.
func (p *parser) parseForStmt() ast.Stmt {
	pos := p.expect(token.FOR)
	p.expect(token.LPAREN)

	if p.tok == token.IDENT {
		// lookahead: `ident in expr)` is a for-in; anything else falls through
		// to the three-clause form, where the init clause may itself start
		// with an identifier (as part of an expression statement or decl).
		save := *p
		name := p.expectIdentName()
		if p.tok == token.IN {
			p.advance()
			iter := p.parseExpr()
			p.expect(token.RPAREN)
			body := p.parseBlock()
			return &ast.ForInStmt{Pos: pos, Name: &ast.IdentExpr{Pos: save.pos, Name: name}, Iter: iter, Body: body}
		}
		*p = save
	}

	var init ast.Stmt
	if p.tok != token.SEMI {
		init = p.parseSimpleOrDeclStmtNoSemi()
	}
	p.expect(token.SEMI)

	var cond ast.Expr
	if p.tok != token.SEMI {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	var post ast.Stmt
	if p.tok != token.RPAREN {
		post = p.parseSimpleOrDeclStmtNoSemi()
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.ForStmt{Pos: pos, Init: init, Cond: cond, Post: post, Body: body}
}

// parseSimpleOrDeclStmtNoSemi parses a declaration, assignment or bare
// expression statement without consuming a trailing semicolon, for use in
// for-loop clauses.
func (p *parser) parseSimpleOrDeclStmtNoSemi() ast.Stmt {
	if p.tok == token.LET || p.tok == token.CONST {
		pos := p.pos
		isConst := p.tok == token.CONST
		p.advance()
		name := &ast.IdentExpr{Pos: p.pos, Name: p.expectIdentName()}
		var value ast.Expr
		if p.tok == token.EQ {
			p.advance()
			value = p.parseExpr()
		}
		return &ast.DeclStmt{Pos: pos, Const: isConst, Name: name, Value: value}
	}
	return p.parseSimpleStmtNoSemi()
}

func (p *parser) parseReturnStmt() ast.Stmt {
	pos := p.expect(token.RETURN)
	var value ast.Expr
	if p.tok != token.SEMI && p.tok != token.RBRACE && p.tok != token.EOF {
		value = p.parseExpr()
	}
	p.expectSemi()
	return &ast.ReturnStmt{Pos: pos, Value: value}
}

func (p *parser) parseThrowStmt() ast.Stmt {
	pos := p.expect(token.THROW)
	value := p.parseExpr()
	p.expectSemi()
	return &ast.ThrowStmt{Pos: pos, Value: value}
}

func (p *parser) parseTryStmt() ast.Stmt {
	pos := p.expect(token.TRY)
	body := p.parseBlock()
	stmt := &ast.TryStmt{Pos: pos, Body: body}

	if p.tok == token.CATCH {
		p.advance()
		p.expect(token.LPAREN)
		stmt.CatchName = &ast.IdentExpr{Pos: p.pos, Name: p.expectIdentName()}
		p.expect(token.RPAREN)
		stmt.Catch = p.parseBlock()
	}
	if p.tok == token.FINALLY {
		p.advance()
		stmt.Finally = p.parseBlock()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.errorf(pos, "try requires a catch or finally clause")
	}
	return stmt
}

func (p *parser) parseDeferStmt() ast.Stmt {
	pos := p.expect(token.DEFER)
	e := p.parsePostfixExpr()
	if _, ok := e.(*ast.CallExpr); !ok {
		p.errorf(e.Span(), "defer requires a function call")
	}
	p.expectSemi()
	return &ast.DeferStmt{Pos: pos, Call: e}
}

// parseImportStmt parses `import name "path";`.
func (p *parser) parseImportStmt() ast.Stmt {
	pos := p.expect(token.IMPORT)
	name := &ast.IdentExpr{Pos: p.pos, Name: p.expectIdentName()}
	pathPos := p.pos
	if p.tok != token.STRING {
		p.errorExpected(pathPos, "string literal")
		panic(errPanicMode)
	}
	path := p.lit
	p.advance()
	p.expectSemi()
	return &ast.ImportStmt{Pos: pos, Name: name, Path: path}
}

func (p *parser) parseExportStmt() ast.Stmt {
	pos := p.expect(token.EXPORT)
	var decl ast.Stmt
	switch p.tok {
	case token.LET, token.CONST:
		decl = p.parseDeclStmt()
	case token.FN:
		decl = p.parseFuncDeclStmt()
	default:
		p.errorExpected(p.pos, "declaration")
		panic(errPanicMode)
	}
	return &ast.ExportStmt{Pos: pos, Decl: decl}
}

func (p *parser) parseSimpleStmt() ast.Stmt {
	s := p.parseSimpleStmtNoSemi()
	p.expectSemi()
	return s
}

// parseSimpleStmtNoSemi parses an assignment or bare expression statement
// without consuming a trailing semicolon.
func (p *parser) parseSimpleStmtNoSemi() ast.Stmt {
	pos := p.pos
	e := p.parseExpr()
	if p.tok == token.EQ {
		p.advance()
		if !ast.IsAssignable(e) {
			p.errorf(pos, "invalid assignment target")
		}
		value := p.parseExpr()
		return &ast.AssignStmt{Pos: pos, Target: e, Op: token.EQ, Value: value}
	}
	return &ast.ExprStmt{X: e}
}
