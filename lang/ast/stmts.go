package ast

import (
	"fmt"

	"github.com/hemlang/hemlock/lang/token"
)

type (
	// BlockStmt wraps a standalone brace-delimited block appearing where a
	// statement is expected.
	BlockStmt struct {
		*Block
	}

	// ExprStmt is a bare expression evaluated for effect, e.g. a call.
	ExprStmt struct {
		X Expr
	}

	// DeclStmt is a `let` or `const` declaration, optionally with an
	// initializer.
	DeclStmt struct {
		Pos   token.Pos
		Const bool
		Name  *IdentExpr
		Value Expr // nil if no initializer
	}

	// AssignStmt assigns Value to Target, where Target is an IdentExpr,
	// IndexExpr or FieldExpr (see IsAssignable).
	AssignStmt struct {
		Pos    token.Pos
		Target Expr
		Op     token.Token // EQ, or a compound-assign op lowered by the parser
		Value  Expr
	}

	// IfStmt is `if (Cond) Then [else Else]`. Else is either a *BlockStmt (the
	// final else) or another *IfStmt (an elif chain), or nil.
	IfStmt struct {
		Pos  token.Pos
		Cond Expr
		Then *Block
		Else Stmt
	}

	// WhileStmt is `while (Cond) Body`.
	WhileStmt struct {
		Pos  token.Pos
		Cond Expr
		Body *Block
	}

	// ForStmt is the C-style three-clause `for (Init; Cond; Post) Body`. Any
	// clause may be nil.
	ForStmt struct {
		Pos  token.Pos
		Init Stmt
		Cond Expr
		Post Stmt
		Body *Block
	}

	// ForInStmt is `for (Name in Iter) Body`.
	ForInStmt struct {
		Pos  token.Pos
		Name *IdentExpr
		Iter Expr
		Body *Block
	}

	// ReturnStmt is `return [Value];`.
	ReturnStmt struct {
		Pos   token.Pos
		Value Expr // nil for a bare return
	}

	// BreakStmt is `break;`.
	BreakStmt struct {
		Pos token.Pos
	}

	// ContinueStmt is `continue;`.
	ContinueStmt struct {
		Pos token.Pos
	}

	// ThrowStmt is `throw Value;`.
	ThrowStmt struct {
		Pos   token.Pos
		Value Expr
	}

	// TryStmt is `try Body catch (Name) Catch [finally Finally]`. Catch and
	// Finally are independently optional, though the parser requires at
	// least one of them to be present.
	TryStmt struct {
		Pos       token.Pos
		Body      *Block
		CatchName *IdentExpr // nil if there is no catch clause
		Catch     *Block
		Finally   *Block
	}

	// DeferStmt is `defer Call;`. The parser restricts Call to a CallExpr.
	DeferStmt struct {
		Pos  token.Pos
		Call Expr
	}

	// YieldStmt is `yield;`, a cooperative suspension point (spec section 5).
	YieldStmt struct {
		Pos token.Pos
	}

	// FuncDeclStmt is sugar for `let Name = fn Name(...) Body;`, kept as its
	// own statement so the name is declared before the body is resolved and
	// the FuncExpr carries Name for stack traces (spec section 4.1). It is
	// not hoisted: the name is declared where the statement appears.
	FuncDeclStmt struct {
		Pos  token.Pos
		Name *IdentExpr
		Fn   *FuncExpr
	}

	// ImportStmt is `import Name "path";`.
	ImportStmt struct {
		Pos  token.Pos
		Name *IdentExpr
		Path string
	}

	// ExportStmt is `export Decl;`, wrapping a DeclStmt or FuncDeclStmt.
	ExportStmt struct {
		Pos  token.Pos
		Decl Stmt
	}
)

func (n *BlockStmt) stmt()        {}
func (n *BlockStmt) IsLoop() bool { return false }

func (n *ExprStmt) String() string  { return n.X.String() }
func (n *ExprStmt) Span() token.Pos { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)  { Walk(v, n.X) }
func (n *ExprStmt) stmt()           {}
func (n *ExprStmt) IsLoop() bool    { return false }

func (n *DeclStmt) String() string {
	kw := "let"
	if n.Const {
		kw = "const"
	}
	return fmt.Sprintf("%s %s", kw, n.Name.Name)
}
func (n *DeclStmt) Span() token.Pos { return n.Pos }
func (n *DeclStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *DeclStmt) stmt()        {}
func (n *DeclStmt) IsLoop() bool { return false }

func (n *AssignStmt) String() string  { return fmt.Sprintf("%s %s %s", n.Target, n.Op, n.Value) }
func (n *AssignStmt) Span() token.Pos { return n.Pos }
func (n *AssignStmt) Walk(v Visitor)  { Walk(v, n.Target); Walk(v, n.Value) }
func (n *AssignStmt) stmt()           {}
func (n *AssignStmt) IsLoop() bool    { return false }

func (n *IfStmt) String() string  { return "if " + n.Cond.String() }
func (n *IfStmt) Span() token.Pos { return n.Pos }
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) stmt()        {}
func (n *IfStmt) IsLoop() bool { return false }

func (n *WhileStmt) String() string  { return "while " + n.Cond.String() }
func (n *WhileStmt) Span() token.Pos { return n.Pos }
func (n *WhileStmt) Walk(v Visitor)  { Walk(v, n.Cond); Walk(v, n.Body) }
func (n *WhileStmt) stmt()           {}
func (n *WhileStmt) IsLoop() bool    { return true }

func (n *ForStmt) String() string  { return "for" }
func (n *ForStmt) Span() token.Pos { return n.Pos }
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Post != nil {
		Walk(v, n.Post)
	}
	Walk(v, n.Body)
}
func (n *ForStmt) stmt()        {}
func (n *ForStmt) IsLoop() bool { return true }

func (n *ForInStmt) String() string  { return fmt.Sprintf("for (%s in %s)", n.Name.Name, n.Iter) }
func (n *ForInStmt) Span() token.Pos { return n.Pos }
func (n *ForInStmt) Walk(v Visitor)  { Walk(v, n.Name); Walk(v, n.Iter); Walk(v, n.Body) }
func (n *ForInStmt) stmt()           {}
func (n *ForInStmt) IsLoop() bool    { return true }

func (n *ReturnStmt) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + n.Value.String()
}
func (n *ReturnStmt) Span() token.Pos { return n.Pos }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) stmt()        {}
func (n *ReturnStmt) IsLoop() bool { return false }

func (n *BreakStmt) String() string  { return "break" }
func (n *BreakStmt) Span() token.Pos { return n.Pos }
func (n *BreakStmt) Walk(v Visitor)  {}
func (n *BreakStmt) stmt()           {}
func (n *BreakStmt) IsLoop() bool    { return false }

func (n *ContinueStmt) String() string  { return "continue" }
func (n *ContinueStmt) Span() token.Pos { return n.Pos }
func (n *ContinueStmt) Walk(v Visitor)  {}
func (n *ContinueStmt) stmt()           {}
func (n *ContinueStmt) IsLoop() bool    { return false }

func (n *ThrowStmt) String() string  { return "throw " + n.Value.String() }
func (n *ThrowStmt) Span() token.Pos { return n.Pos }
func (n *ThrowStmt) Walk(v Visitor)  { Walk(v, n.Value) }
func (n *ThrowStmt) stmt()           {}
func (n *ThrowStmt) IsLoop() bool    { return false }

func (n *TryStmt) String() string  { return "try" }
func (n *TryStmt) Span() token.Pos { return n.Pos }
func (n *TryStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	if n.CatchName != nil {
		Walk(v, n.CatchName)
	}
	if n.Catch != nil {
		Walk(v, n.Catch)
	}
	if n.Finally != nil {
		Walk(v, n.Finally)
	}
}
func (n *TryStmt) stmt()        {}
func (n *TryStmt) IsLoop() bool { return false }

func (n *DeferStmt) String() string  { return "defer " + n.Call.String() }
func (n *DeferStmt) Span() token.Pos { return n.Pos }
func (n *DeferStmt) Walk(v Visitor)  { Walk(v, n.Call) }
func (n *DeferStmt) stmt()           {}
func (n *DeferStmt) IsLoop() bool    { return false }

func (n *YieldStmt) String() string  { return "yield" }
func (n *YieldStmt) Span() token.Pos { return n.Pos }
func (n *YieldStmt) Walk(v Visitor)  {}
func (n *YieldStmt) stmt()           {}
func (n *YieldStmt) IsLoop() bool    { return false }

func (n *FuncDeclStmt) String() string  { return "fn " + n.Name.Name }
func (n *FuncDeclStmt) Span() token.Pos { return n.Pos }
func (n *FuncDeclStmt) Walk(v Visitor)  { Walk(v, n.Name); Walk(v, n.Fn) }
func (n *FuncDeclStmt) stmt()           {}
func (n *FuncDeclStmt) IsLoop() bool    { return false }

func (n *ImportStmt) String() string  { return fmt.Sprintf("import %s %q", n.Name.Name, n.Path) }
func (n *ImportStmt) Span() token.Pos { return n.Pos }
func (n *ImportStmt) Walk(v Visitor)  { Walk(v, n.Name) }
func (n *ImportStmt) stmt()           {}
func (n *ImportStmt) IsLoop() bool    { return false }

func (n *ExportStmt) String() string  { return "export " + n.Decl.String() }
func (n *ExportStmt) Span() token.Pos { return n.Pos }
func (n *ExportStmt) Walk(v Visitor)  { Walk(v, n.Decl) }
func (n *ExportStmt) stmt()           {}
func (n *ExportStmt) IsLoop() bool    { return false }
