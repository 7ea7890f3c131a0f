package scanner_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/scanner"
	"github.com/hemlang/hemlock/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()
	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init([]byte(src), &errs)

	var toks []token.Token
	var lits []string
	for {
		tok, _ := s.Scan()
		toks = append(toks, tok)
		lits = append(lits, s.Lit)
		if tok == token.EOF {
			break
		}
	}
	require.Empty(t, errs)
	return toks, lits
}

func TestScanBasics(t *testing.T) {
	toks, lits := scanAll(t, `let x = (10 + 20) * 3 - 5;`)
	want := []token.Token{
		token.LET, token.IDENT, token.EQ, token.LPAREN, token.INT, token.PLUS,
		token.INT, token.RPAREN, token.STAR, token.INT, token.MINUS, token.INT,
		token.SEMI, token.EOF,
	}
	require.Equal(t, want, toks)
	require.Equal(t, "x", lits[1])
	require.Equal(t, "10", lits[4])
}

func TestScanStringEscapes(t *testing.T) {
	toks, lits := scanAll(t, `"a\nb" 'c' 1.5e2`)
	require.Equal(t, []token.Token{token.STRING, token.RUNE, token.FLOAT, token.EOF}, toks)
	require.Equal(t, "a\nb", lits[0])
	require.Equal(t, "1.5e2", lits[2])
}

func TestScanKeywordsAndComments(t *testing.T) {
	toks, _ := scanAll(t, "// a comment\nfn foo() { /* block */ return null }")
	want := []token.Token{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RETURN, token.NULL, token.RBRACE, token.EOF,
	}
	require.Equal(t, want, toks)
}

func TestScanIllegalCharacter(t *testing.T) {
	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init([]byte("let x = @;"), &errs)
	for {
		tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
	}
	require.NotEmpty(t, errs)
}
