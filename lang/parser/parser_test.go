package parser_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/parser"
	"github.com/stretchr/testify/require"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	ch, err := parser.ParseChunk("test", []byte(`let x = 1 + 2 * 3;`))
	require.NoError(t, err)
	require.Len(t, ch.Block.Stmts, 1)

	decl := ch.Block.Stmts[0].(*ast.DeclStmt)
	bin := decl.Value.(*ast.BinaryExpr)
	require.Equal(t, "1", bin.Left.(*ast.LiteralExpr).Raw)
	rhs := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, "2", rhs.Left.(*ast.LiteralExpr).Raw)
	require.Equal(t, "3", rhs.Right.(*ast.LiteralExpr).Raw)
}

func TestParseIfElifElse(t *testing.T) {
	src := `
if (x) {
	y;
} elif (z) {
	w;
} else {
	v;
}
`
	ch, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	top := ch.Block.Stmts[0].(*ast.IfStmt)
	elif := top.Else.(*ast.IfStmt)
	require.NotNil(t, elif.Cond)
	_, ok := elif.Else.(*ast.BlockStmt)
	require.True(t, ok)
}

func TestParseForThreeClause(t *testing.T) {
	ch, err := parser.ParseChunk("test", []byte(`for (let i = 0; i < 10; i = i + 1) { print(i); }`))
	require.NoError(t, err)
	f := ch.Block.Stmts[0].(*ast.ForStmt)
	require.NotNil(t, f.Init)
	require.NotNil(t, f.Cond)
	require.NotNil(t, f.Post)
}

func TestParseForIn(t *testing.T) {
	ch, err := parser.ParseChunk("test", []byte(`for (v in arr) { print(v); }`))
	require.NoError(t, err)
	f := ch.Block.Stmts[0].(*ast.ForInStmt)
	require.Equal(t, "v", f.Name.Name)
}

func TestParseTryCatchFinally(t *testing.T) {
	src := `
try {
	throw 1;
} catch (e) {
	print(e);
} finally {
	print(0);
}
`
	ch, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	tr := ch.Block.Stmts[0].(*ast.TryStmt)
	require.NotNil(t, tr.CatchName)
	require.NotNil(t, tr.Finally)
}

func TestParseFuncDeclAndCall(t *testing.T) {
	src := `
fn add(a, b) {
	return a + b;
}
let r = add(1, 2);
`
	ch, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	require.Len(t, ch.Block.Stmts, 2)
	fd := ch.Block.Stmts[0].(*ast.FuncDeclStmt)
	require.Equal(t, "add", fd.Name.Name)
	require.Len(t, fd.Fn.Params, 2)
}

func TestParseSpawnAwait(t *testing.T) {
	ch, err := parser.ParseChunk("test", []byte(`let t = spawn work(); let r = await t;`))
	require.NoError(t, err)
	decl := ch.Block.Stmts[0].(*ast.DeclStmt)
	call := decl.Value.(*ast.CallExpr)
	require.True(t, call.IsSpawn)

	decl2 := ch.Block.Stmts[1].(*ast.DeclStmt)
	un := decl2.Value.(*ast.UnaryExpr)
	require.Equal(t, "await", un.Op.String())
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	_, err := parser.ParseChunk("test", []byte(`let x = ; let y = 1;`))
	require.Error(t, err)
}
