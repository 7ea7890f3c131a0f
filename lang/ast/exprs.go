package ast

import (
	"fmt"
	"strconv"

	"github.com/hemlang/hemlock/lang/token"
)

// IsAssignable reports whether e is a valid left-hand side of an assignment:
// an identifier, an index expression or a field (dot) expression.
func IsAssignable(e Expr) bool {
	switch e.(type) {
	case *IdentExpr, *IndexExpr, *FieldExpr:
		return true
	default:
		return false
	}
}

type (
	// LiteralExpr is a null, bool, int, float, rune or string literal.
	LiteralExpr struct {
		Pos   token.Pos
		Type  token.Token // NULL, TRUE, FALSE, INT, FLOAT, RUNE, STRING
		Raw   string      // original source text (for numbers) or decoded text (strings/runes)
		Value interface{} // nil | bool | int64 | float64 | rune | string, mirrors Type
	}

	// IdentExpr is an identifier reference. Binding is filled in by the
	// resolver (*resolver.Binding); it is declared as `any` here to avoid an
	// import cycle between ast and resolver, exactly as the teacher's AST does
	// for its own resolver annotations.
	IdentExpr struct {
		Pos     token.Pos
		Name    string
		Binding any
	}

	// ArrayExpr is an array literal, e.g. [1, 2, 3].
	ArrayExpr struct {
		Pos   token.Pos
		Elems []Expr
	}

	// KeyVal is one key/value pair of an ObjectExpr.
	KeyVal struct {
		Key   string
		Value Expr
	}

	// ObjectExpr is an object (map) literal, e.g. { a: 1, b: 2 }.
	ObjectExpr struct {
		Pos   token.Pos
		Items []KeyVal
	}

	// FuncExpr is a function literal.
	FuncExpr struct {
		Pos      token.Pos
		Name     string // non-empty if sugar for a FuncDeclStmt, used for stack traces
		Params   []*IdentExpr
		IsAsync  bool
		Body     *Block
		Function any // filled by resolver (*resolver.Function)
	}

	// UnaryExpr is a unary operator expression: -x, !x, ~x, await x.
	UnaryExpr struct {
		Pos  token.Pos
		Op   token.Token // MINUS, BANG, TILDE, AWAIT
		Expr Expr
	}

	// BinaryExpr is a binary operator expression, including && and || which
	// the compiler lowers to short-circuiting jumps (spec section 4.4).
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// CallExpr is a function call, e.g. f(x, y).
	CallExpr struct {
		Fn     Expr
		Pos    token.Pos // position of '('
		Args   []Expr
		IsSpawn bool // true if this call is the target of a `spawn` expression
	}

	// IndexExpr is an index expression, e.g. x[y].
	IndexExpr struct {
		Prefix Expr
		Pos    token.Pos
		Index  Expr
	}

	// FieldExpr is a field access, e.g. x.y or x?.y.
	FieldExpr struct {
		Left     Expr
		Pos      token.Pos
		Name     string
		Optional bool
	}

	// ParenExpr is a parenthesized expression.
	ParenExpr struct {
		Pos  token.Pos
		Expr Expr
	}
)

func (n *LiteralExpr) String() string {
	if n.Type == token.STRING {
		return strconv.Quote(n.Raw)
	}
	return n.Raw
}
func (n *LiteralExpr) Span() token.Pos { return n.Pos }
func (n *LiteralExpr) Walk(v Visitor)  {}
func (n *LiteralExpr) expr()           {}

func (n *IdentExpr) String() string  { return n.Name }
func (n *IdentExpr) Span() token.Pos { return n.Pos }
func (n *IdentExpr) Walk(v Visitor)  {}
func (n *IdentExpr) expr()           {}

func (n *ArrayExpr) String() string  { return fmt.Sprintf("[%s]", joinStrings(n.Elems)) }
func (n *ArrayExpr) Span() token.Pos { return n.Pos }
func (n *ArrayExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}
func (n *ArrayExpr) expr() {}

func (n *ObjectExpr) String() string  { return fmt.Sprintf("{%d fields}", len(n.Items)) }
func (n *ObjectExpr) Span() token.Pos { return n.Pos }
func (n *ObjectExpr) Walk(v Visitor) {
	for _, kv := range n.Items {
		Walk(v, kv.Value)
	}
}
func (n *ObjectExpr) expr() {}

func (n *FuncExpr) String() string {
	if n.Name != "" {
		return "fn " + n.Name
	}
	return "fn"
}
func (n *FuncExpr) Span() token.Pos { return n.Pos }
func (n *FuncExpr) Walk(v Visitor) {
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *FuncExpr) expr() {}

func (n *UnaryExpr) String() string  { return n.Op.String() + n.Expr.String() }
func (n *UnaryExpr) Span() token.Pos { return n.Pos }
func (n *UnaryExpr) Walk(v Visitor)  { Walk(v, n.Expr) }
func (n *UnaryExpr) expr()           {}

func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}
func (n *BinaryExpr) Span() token.Pos { return n.Left.Span() }
func (n *BinaryExpr) Walk(v Visitor)  { Walk(v, n.Left); Walk(v, n.Right) }
func (n *BinaryExpr) expr()           {}

func (n *CallExpr) String() string { return fmt.Sprintf("%s(%s)", n.Fn, joinStrings(n.Args)) }
func (n *CallExpr) Span() token.Pos { return n.Fn.Span() }
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) expr() {}

func (n *IndexExpr) String() string  { return fmt.Sprintf("%s[%s]", n.Prefix, n.Index) }
func (n *IndexExpr) Span() token.Pos { return n.Prefix.Span() }
func (n *IndexExpr) Walk(v Visitor)  { Walk(v, n.Prefix); Walk(v, n.Index) }
func (n *IndexExpr) expr()           {}

func (n *FieldExpr) String() string {
	op := "."
	if n.Optional {
		op = "?."
	}
	return fmt.Sprintf("%s%s%s", n.Left, op, n.Name)
}
func (n *FieldExpr) Span() token.Pos { return n.Left.Span() }
func (n *FieldExpr) Walk(v Visitor)  { Walk(v, n.Left) }
func (n *FieldExpr) expr()           {}

func (n *ParenExpr) String() string  { return "(" + n.Expr.String() + ")" }
func (n *ParenExpr) Span() token.Pos { return n.Pos }
func (n *ParenExpr) Walk(v Visitor)  { Walk(v, n.Expr) }
func (n *ParenExpr) expr()           {}
