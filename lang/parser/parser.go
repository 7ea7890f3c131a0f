// Package parser implements a recursive-descent, precedence-climbing parser
// that transforms hemlock source text into an *ast.Chunk. Lexing and parsing
// are external collaborators to the compiler/VM core (spec section 1); this
// package is the minimal front end needed to exercise that core end to end
// from source text.
package parser

import (
	"errors"

	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/scanner"
	"github.com/hemlang/hemlock/lang/token"
)

// ParseChunk parses src as a single compilation unit named name. The
// returned error, if non-nil, is a scanner.ErrorList.
func ParseChunk(name string, src []byte) (*ast.Chunk, error) {
	var p parser
	p.init(src)
	block := p.parseBlockStmts(token.EOF)
	ch := &ast.Chunk{Name: name, Block: block}
	p.errs.Sort()
	return ch, p.errs.Err()
}

type parser struct {
	sc   scanner.Scanner
	errs scanner.ErrorList

	tok token.Token
	pos token.Pos
	lit string
}

func (p *parser) init(src []byte) {
	p.sc.Init(src, &p.errs)
	p.advance()
}

func (p *parser) advance() {
	p.tok, p.pos = p.sc.Scan()
	p.lit = p.sc.Lit
}

// errPanicMode unwinds to the nearest statement-recovery point after a
// syntax error, mirroring the teacher's panic-mode recovery.
var errPanicMode = errors.New("parser: panic mode")

func (p *parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.errs.Add(pos, format, args...)
}

func (p *parser) errorExpected(pos token.Pos, want string) {
	p.errorf(pos, "expected %s, found %s", want, p.tok.GoString())
}

// expect consumes the current token if it matches tok, else records an error
// and enters panic mode.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(pos, tok.GoString())
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

// syncStmt advances past tokens until a likely statement boundary (';', '}'
// or EOF), used to resume parsing after a panic-mode recovery.
func (p *parser) syncStmt() {
	for {
		switch p.tok {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE, token.EOF:
			return
		}
		p.advance()
	}
}

func (p *parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	b := p.parseBlockStmts(token.RBRACE)
	b.Start = start
	p.expect(token.RBRACE)
	return b
}

// parseBlockStmts parses statements until end (RBRACE or EOF) is seen,
// without consuming end.
func (p *parser) parseBlockStmts(end token.Token) *ast.Block {
	b := &ast.Block{Start: p.pos}
	for p.tok != end && p.tok != token.EOF {
		if s := p.parseStmtRecover(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	return b
}

func (p *parser) parseStmtRecover() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.syncStmt()
			s = nil
		}
	}()
	return p.parseStmt()
}
