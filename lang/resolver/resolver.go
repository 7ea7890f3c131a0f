// Package resolver walks a parsed AST and tags every identifier reference
// with a Binding: either Resolved(depth, slot), meaning the declaration lives
// Depth function scopes up from the reference at local slot Slot, or
// Unresolved, meaning the name has no lexical declaration and is looked up
// in the global table at run time (spec section 4.1).
//
// Unlike the teacher's resolver, which itself classifies names into
// Local/Cell/Free/Predeclared/Universal, this resolver stops at depth/slot
// tagging: turning a Depth > 0 reference into an upvalue capture, assigning
// it an upvalue index, and threading it through enclosing Prototypes is the
// compiler's job (spec section 4.4).
package resolver

import (
	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/scanner"
	"github.com/hemlang/hemlock/lang/token"
)

// Resolve walks chunk, filling in IdentExpr.Binding (as *Binding) and
// FuncExpr.Function (as *Function) in place. The returned error, if
// non-nil, is a scanner.ErrorList.
func Resolve(chunk *ast.Chunk) error {
	var r resolver
	top := &funcScope{fn: &Function{Name: chunk.Name}}
	r.cur = top
	r.pushBlock()
	r.block(chunk.Block)
	r.popBlock()
	r.errs.Sort()
	return r.errs.Err()
}

type blockScope struct {
	names  map[string]int // name -> slot index into the owning function's Locals
	parent *blockScope
}

type funcScope struct {
	fn     *Function
	block  *blockScope
	parent *funcScope
	// loopDepth counts enclosing loop statements, used to validate
	// break/continue.
	loopDepth int
}

type resolver struct {
	cur  *funcScope
	errs scanner.ErrorList
}

func (r *resolver) errorf(pos token.Pos, format string, args ...interface{}) {
	r.errs.Add(pos, format, args...)
}

func (r *resolver) pushBlock() {
	r.cur.block = &blockScope{names: make(map[string]int), parent: r.cur.block}
}

func (r *resolver) popBlock() {
	r.cur.block = r.cur.block.parent
}

// declare adds name as a new local slot in the current function and block,
// returning its slot index.
func (r *resolver) declare(name string, pos token.Pos) int {
	fn := r.cur.fn
	slot := len(fn.Locals)
	fn.Locals = append(fn.Locals, name)
	if _, redeclared := r.cur.block.names[name]; redeclared {
		// shadowing within the same block is allowed for loop/catch-bound
		// names across iterations is not applicable here since declare is
		// called once per static declaration; a literal duplicate `let x`
		// twice in one block is a user error worth flagging.
		r.errorf(pos, "%q already declared in this block", name)
	}
	r.cur.block.names[name] = slot
	return slot
}

// resolveIdent fills in id.Binding by searching the current function's block
// chain, then each enclosing function's outermost block, counting function
// boundaries crossed into Depth.
func (r *resolver) resolveIdent(id *ast.IdentExpr) {
	depth := 0
	for fs := r.cur; fs != nil; fs = fs.parent {
		for b := fs.block; b != nil; b = b.parent {
			if slot, ok := b.names[id.Name]; ok {
				id.Binding = &Binding{Kind: Resolved, Depth: depth, Slot: slot, Name: id.Name}
				return
			}
		}
		depth++
	}
	id.Binding = &Binding{Kind: Unresolved, Name: id.Name}
}

func (r *resolver) block(b *ast.Block) {
	for _, s := range b.Stmts {
		r.stmt(s)
	}
}

func (r *resolver) blockScoped(b *ast.Block) {
	r.pushBlock()
	r.block(b)
	r.popBlock()
}

func (r *resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		r.expr(s.X)

	case *ast.DeclStmt:
		if s.Value != nil {
			r.expr(s.Value)
		}
		s.Name.Binding = &Binding{Kind: Resolved, Depth: 0, Slot: r.declare(s.Name.Name, s.Pos), Name: s.Name.Name}

	case *ast.AssignStmt:
		r.expr(s.Target)
		r.expr(s.Value)

	case *ast.IfStmt:
		r.expr(s.Cond)
		r.blockScoped(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *ast.WhileStmt:
		r.expr(s.Cond)
		r.cur.loopDepth++
		r.blockScoped(s.Body)
		r.cur.loopDepth--

	case *ast.ForStmt:
		r.pushBlock()
		if s.Init != nil {
			r.stmt(s.Init)
		}
		if s.Cond != nil {
			r.expr(s.Cond)
		}
		if s.Post != nil {
			r.stmt(s.Post)
		}
		r.cur.loopDepth++
		r.blockScoped(s.Body)
		r.cur.loopDepth--
		r.popBlock()

	case *ast.ForInStmt:
		r.expr(s.Iter)
		r.pushBlock()
		s.Name.Binding = &Binding{Kind: Resolved, Depth: 0, Slot: r.declare(s.Name.Name, s.Pos), Name: s.Name.Name}
		r.cur.loopDepth++
		r.blockScoped(s.Body)
		r.cur.loopDepth--
		r.popBlock()

	case *ast.ReturnStmt:
		if s.Value != nil {
			r.expr(s.Value)
		}

	case *ast.BreakStmt:
		if r.cur.loopDepth == 0 {
			r.errorf(s.Pos, "break outside of a loop")
		}

	case *ast.ContinueStmt:
		if r.cur.loopDepth == 0 {
			r.errorf(s.Pos, "continue outside of a loop")
		}

	case *ast.ThrowStmt:
		r.expr(s.Value)

	case *ast.TryStmt:
		r.blockScoped(s.Body)
		if s.Catch != nil {
			r.pushBlock()
			s.CatchName.Binding = &Binding{Kind: Resolved, Depth: 0, Slot: r.declare(s.CatchName.Name, s.Pos), Name: s.CatchName.Name}
			r.block(s.Catch)
			r.popBlock()
		}
		if s.Finally != nil {
			r.blockScoped(s.Finally)
		}

	case *ast.DeferStmt:
		r.expr(s.Call)

	case *ast.YieldStmt:
		// nothing to resolve

	case *ast.FuncDeclStmt:
		s.Name.Binding = &Binding{Kind: Resolved, Depth: 0, Slot: r.declare(s.Name.Name, s.Pos), Name: s.Name.Name}
		r.funcExpr(s.Fn)

	case *ast.ImportStmt:
		s.Name.Binding = &Binding{Kind: Resolved, Depth: 0, Slot: r.declare(s.Name.Name, s.Pos), Name: s.Name.Name}

	case *ast.ExportStmt:
		r.stmt(s.Decl)

	case *ast.BlockStmt:
		r.blockScoped(s.Block)
	}
}

func (r *resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		// nothing to resolve

	case *ast.IdentExpr:
		r.resolveIdent(e)

	case *ast.ArrayExpr:
		for _, el := range e.Elems {
			r.expr(el)
		}

	case *ast.ObjectExpr:
		for _, kv := range e.Items {
			r.expr(kv.Value)
		}

	case *ast.FuncExpr:
		r.funcExpr(e)

	case *ast.UnaryExpr:
		r.expr(e.Expr)

	case *ast.BinaryExpr:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.CallExpr:
		r.expr(e.Fn)
		for _, a := range e.Args {
			r.expr(a)
		}

	case *ast.IndexExpr:
		r.expr(e.Prefix)
		r.expr(e.Index)

	case *ast.FieldExpr:
		r.expr(e.Left)

	case *ast.ParenExpr:
		r.expr(e.Expr)
	}
}

func (r *resolver) funcExpr(fn *ast.FuncExpr) {
	f := &Function{Name: fn.Name, NumParams: len(fn.Params), Parent: r.cur.fn}
	fs := &funcScope{fn: f, parent: r.cur}
	r.cur = fs
	r.pushBlock()
	for _, p := range fn.Params {
		p.Binding = &Binding{Kind: Resolved, Depth: 0, Slot: r.declare(p.Name, p.Pos), Name: p.Name}
	}
	r.block(fn.Body)
	r.popBlock()
	fn.Function = f
	r.cur = fs.parent
}
