package resolver_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/parser"
	"github.com/hemlang/hemlock/lang/resolver"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	ch, err := parser.ParseChunk("test", []byte(src))
	require.NoError(t, err)
	return ch
}

func identBinding(n ast.Node) *resolver.Binding {
	var found *resolver.Binding
	ast.Inspect(n, func(n ast.Node) bool {
		if id, ok := n.(*ast.IdentExpr); ok && found == nil {
			found = id.Binding.(*resolver.Binding)
		}
		return found == nil
	})
	return found
}

func TestResolveLocalSlot(t *testing.T) {
	ch := mustParse(t, `let x = 1; let y = x;`)
	require.NoError(t, resolver.Resolve(ch))

	decl := ch.Block.Stmts[1].(*ast.DeclStmt)
	use := decl.Value.(*ast.IdentExpr)
	b := use.Binding.(*resolver.Binding)
	require.Equal(t, resolver.Resolved, b.Kind)
	require.Equal(t, 0, b.Depth)
	require.Equal(t, 0, b.Slot)
}

func TestResolveUnresolvedGlobal(t *testing.T) {
	ch := mustParse(t, `print(x);`)
	require.NoError(t, resolver.Resolve(ch))

	expr := ch.Block.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	fn := expr.Fn.(*ast.IdentExpr).Binding.(*resolver.Binding)
	require.Equal(t, resolver.Unresolved, fn.Kind)
	arg := expr.Args[0].(*ast.IdentExpr).Binding.(*resolver.Binding)
	require.Equal(t, resolver.Unresolved, arg.Kind)
}

func TestResolveUpvalueDepth(t *testing.T) {
	ch := mustParse(t, `
let x = 1;
fn outer() {
	fn inner() {
		return x;
	}
}
`)
	require.NoError(t, resolver.Resolve(ch))

	outer := ch.Block.Stmts[1].(*ast.FuncDeclStmt)
	inner := outer.Fn.Body.Stmts[0].(*ast.FuncDeclStmt)
	ret := inner.Fn.Body.Stmts[0].(*ast.ReturnStmt)
	use := ret.Value.(*ast.IdentExpr)
	b := use.Binding.(*resolver.Binding)
	require.Equal(t, resolver.Resolved, b.Kind)
	require.Equal(t, 2, b.Depth)
}

func TestResolveBreakOutsideLoop(t *testing.T) {
	ch := mustParse(t, `break;`)
	err := resolver.Resolve(ch)
	require.Error(t, err)
}

func TestResolveForInSlot(t *testing.T) {
	ch := mustParse(t, `for (v in arr) { print(v); }`)
	require.NoError(t, resolver.Resolve(ch))

	fi := ch.Block.Stmts[0].(*ast.ForInStmt)
	b := fi.Name.Binding.(*resolver.Binding)
	require.Equal(t, resolver.Resolved, b.Kind)
}
