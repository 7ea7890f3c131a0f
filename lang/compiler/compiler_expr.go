package compiler

import (
	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/resolver"
	"github.com/hemlang/hemlock/lang/token"
)

// binaryOp maps a token to the arithmetic/comparison/bitwise opcode it
// compiles to. &&/|| are handled separately (compileExpr) since they need
// short-circuit control flow rather than a single instruction.
var binaryOp = map[token.Token]Op{
	token.PLUS:     OpAdd,
	token.MINUS:    OpSub,
	token.STAR:     OpMul,
	token.SLASH:    OpDiv,
	token.PERCENT:  OpMod,
	token.STARSTAR: OpPow,
	token.AMP:      OpBAnd,
	token.PIPE:     OpBOr,
	token.CARET:    OpBXor,
	token.SHL:      OpShl,
	token.SHR:      OpShr,
	token.EQEQ:     OpEq,
	token.NE:       OpNe,
	token.LT:       OpLt,
	token.LE:       OpLe,
	token.GT:       OpGt,
	token.GE:       OpGe,
}

// expr compiles e, returning the register its value ends up in. For a
// locally-resolved identifier this is the local's own permanent register
// (no copy); every other case materializes the value into a fresh
// temporary.
func (c *compilerState) expr(fs *fnState, e ast.Expr) uint8 {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return c.expr(fs, e.Expr)

	case *ast.LiteralExpr:
		dest := fs.reg()
		c.loadLiteral(fs, dest, e)
		return dest

	case *ast.IdentExpr:
		b, _ := e.Binding.(*resolver.Binding)
		if b == nil {
			c.errorf(e.Pos, "internal: identifier %q was never resolved", e.Name)
			return fs.reg()
		}
		switch {
		case b.Kind == resolver.Unresolved:
			dest := fs.reg()
			fs.emitAt(e.Pos, MakeABx(OpGetGlobl, dest, fs.addStringConst(b.Name)))
			return dest
		case b.Depth == 0:
			return uint8(b.Slot)
		default:
			dest := fs.reg()
			upIdx := fs.resolveUpval(b.Depth, b.Slot)
			fs.emitAt(e.Pos, MakeAB(OpGetUpval, dest, uint8(upIdx)))
			return dest
		}

	case *ast.ArrayExpr:
		dest := fs.reg()
		fs.emitAt(e.Pos, MakeAB(OpNewArray, dest, uint8(len(e.Elems))))
		for _, el := range e.Elems {
			vr := c.expr(fs, el)
			fs.emitAt(e.Pos, MakeAB(OpArrPush, dest, vr))
		}
		return dest

	case *ast.ObjectExpr:
		dest := fs.reg()
		fs.emitAt(e.Pos, MakeA(OpNewObject, dest))
		for _, kv := range e.Items {
			vr := c.expr(fs, kv.Value)
			nameIdx := fs.addStringConst(kv.Key)
			if nameIdx > 0xff {
				c.errorf(e.Pos, "too many distinct field names in this function")
				continue
			}
			fs.emitAt(e.Pos, MakeABC(OpSetField, dest, uint8(nameIdx), vr))
		}
		return dest

	case *ast.FuncExpr:
		return c.compileClosure(fs, e)

	case *ast.UnaryExpr:
		return c.unaryExpr(fs, e)

	case *ast.BinaryExpr:
		return c.binaryExpr(fs, e)

	case *ast.CallExpr:
		return c.callExpr(fs, e)

	case *ast.IndexExpr:
		pr := c.expr(fs, e.Prefix)
		ir := c.expr(fs, e.Index)
		dest := fs.reg()
		fs.emitAt(e.Pos, MakeABC(OpGetIndex, dest, pr, ir))
		return dest

	case *ast.FieldExpr:
		recv := fs.reg()
		c.exprInto(fs, e.Left, recv)
		fs.emitAt(e.Pos, MakeABx(OpGetField, recv, fs.addStringConst(e.Name)))
		return recv
	}
	c.errorf(e.Span(), "internal: unhandled expression %T", e)
	return fs.reg()
}

// exprInto compiles e so that its value ends up in dest specifically,
// emitting a trailing MOVE only when the natural compilation landed
// somewhere else.
func (c *compilerState) exprInto(fs *fnState, e ast.Expr, dest uint8) {
	r := c.expr(fs, e)
	if r != dest {
		fs.emit(MakeAB(OpMove, dest, r))
	}
}

func (c *compilerState) loadLiteral(fs *fnState, dest uint8, lit *ast.LiteralExpr) {
	switch lit.Type {
	case token.NULL:
		fs.emitAt(lit.Pos, MakeA(OpLoadNull, dest))
	case token.TRUE:
		fs.emitAt(lit.Pos, MakeAB(OpLoadBool, dest, 1))
	case token.FALSE:
		fs.emitAt(lit.Pos, MakeAB(OpLoadBool, dest, 0))
	case token.INT:
		iv := lit.Value.(int64)
		if iv >= -(1<<15) && iv < (1<<15) {
			fs.emitAt(lit.Pos, MakeAsBx(OpLoadInt, dest, int32(iv)))
			return
		}
		fs.emitAt(lit.Pos, MakeABx(OpLoadK, dest, fs.addConst(Const{Kind: ConstInt, Int: iv})))
	case token.FLOAT:
		fv := lit.Value.(float64)
		fs.emitAt(lit.Pos, MakeABx(OpLoadK, dest, fs.addConst(Const{Kind: ConstFloat, Float: fv})))
	case token.STRING:
		fs.emitAt(lit.Pos, MakeABx(OpLoadK, dest, fs.addStringConst(lit.Value.(string))))
	case token.RUNE:
		rv := lit.Value.(rune)
		fs.emitAt(lit.Pos, MakeABx(OpLoadK, dest, fs.addConst(Const{Kind: ConstInt, Int: int64(rv)})))
	default:
		c.errorf(lit.Pos, "internal: unhandled literal type %v", lit.Type)
	}
}

func (c *compilerState) unaryExpr(fs *fnState, e *ast.UnaryExpr) uint8 {
	src := c.expr(fs, e.Expr)
	dest := fs.reg()
	switch e.Op {
	case token.MINUS:
		fs.emitAt(e.Pos, MakeAB(OpNeg, dest, src))
	case token.BANG:
		fs.emitAt(e.Pos, MakeAB(OpNot, dest, src))
	case token.TILDE:
		fs.emitAt(e.Pos, MakeAB(OpBNot, dest, src))
	case token.AWAIT:
		fs.emitAt(e.Pos, MakeAB(OpAwait, dest, src))
	default:
		c.errorf(e.Pos, "internal: unhandled unary operator %v", e.Op)
	}
	return dest
}

func (c *compilerState) binaryExpr(fs *fnState, e *ast.BinaryExpr) uint8 {
	if e.Op == token.ANDAND || e.Op == token.OROR {
		return c.shortCircuit(fs, e)
	}
	op, ok := binaryOp[e.Op]
	if !ok {
		c.errorf(e.OpPos, "internal: unhandled binary operator %v", e.Op)
		return fs.reg()
	}
	lr := c.expr(fs, e.Left)
	rr := c.expr(fs, e.Right)
	dest := fs.reg()
	fs.emitAt(e.OpPos, MakeABC(op, dest, lr, rr))
	return dest
}

// shortCircuit compiles && and ||. The left operand's value is evaluated
// into dest; if it already settles the result (false for &&, true for ||)
// evaluation of the right operand is skipped entirely.
func (c *compilerState) shortCircuit(fs *fnState, e *ast.BinaryExpr) uint8 {
	dest := fs.reg()
	c.exprInto(fs, e.Left, dest)
	var skipOp Op
	if e.Op == token.ANDAND {
		skipOp = OpJumpIfNo
	} else {
		skipOp = OpJumpIf
	}
	jpc := fs.emitAt(e.OpPos, MakeAsBx(skipOp, dest, 0))
	c.exprInto(fs, e.Right, dest)
	fs.patchCond(jpc, len(fs.proto.Code))
	return dest
}

// callExpr lowers a call (or spawn) expression. The callee and each argument
// are compiled into freshly allocated, contiguous registers starting at
// base, since OpCall/OpSpawn require their register window to be
// contiguous -- expr() alone wouldn't guarantee that, since a bare
// identifier reference returns a local's permanent register rather than a
// temp.
func (c *compilerState) callExpr(fs *fnState, e *ast.CallExpr) uint8 {
	base := fs.reg()
	c.exprInto(fs, e.Fn, base)
	for _, a := range e.Args {
		areg := fs.reg()
		c.exprInto(fs, a, areg)
	}
	argc := uint8(len(e.Args))
	if e.IsSpawn {
		dest := fs.reg()
		fs.emitAt(e.Pos, MakeABC(OpSpawn, dest, base, argc))
		return dest
	}
	fs.emitAt(e.Pos, MakeAB(OpCall, base, argc))
	return base
}

func (c *compilerState) compileClosure(fs *fnState, fe *ast.FuncExpr) uint8 {
	childFn, _ := fe.Function.(*resolver.Function)
	if childFn == nil {
		c.errorf(fe.Pos, "internal: function literal was never resolved")
		return fs.reg()
	}
	childFs := c.newFunc(childFn, fs)
	c.block(childFs, fe.Body)
	nullReg := childFs.reg()
	childFs.emit(MakeA(OpLoadNull, nullReg))
	childFs.emitReturn(nullReg)
	childProto := childFs.finish()
	childProto.IsAsync = fe.IsAsync
	childProto.Name = fe.Name

	idx := len(fs.proto.Prototypes)
	fs.proto.Prototypes = append(fs.proto.Prototypes, childProto)
	dest := fs.reg()
	fs.emitAt(fe.Pos, MakeABx(OpClosure, dest, uint16(idx)))
	return dest
}

// assignTo stores the value held in valueReg into target.
func (c *compilerState) assignTo(fs *fnState, target ast.Expr, valueReg uint8) {
	switch t := target.(type) {
	case *ast.IdentExpr:
		b, _ := t.Binding.(*resolver.Binding)
		if b == nil {
			c.errorf(t.Pos, "internal: assignment target %q was never resolved", t.Name)
			return
		}
		switch {
		case b.Kind == resolver.Unresolved:
			fs.emitAt(t.Pos, MakeABx(OpSetGlobl, valueReg, fs.addStringConst(b.Name)))
		case b.Depth == 0:
			if uint8(b.Slot) != valueReg {
				fs.emitAt(t.Pos, MakeAB(OpMove, uint8(b.Slot), valueReg))
			}
		default:
			upIdx := fs.resolveUpval(b.Depth, b.Slot)
			fs.emitAt(t.Pos, MakeAB(OpSetUpval, uint8(upIdx), valueReg))
		}

	case *ast.IndexExpr:
		pr := c.expr(fs, t.Prefix)
		ir := c.expr(fs, t.Index)
		fs.emitAt(t.Pos, MakeABC(OpSetIndex, pr, ir, valueReg))

	case *ast.FieldExpr:
		recv := c.expr(fs, t.Left)
		nameIdx := fs.addStringConst(t.Name)
		if nameIdx > 0xff {
			c.errorf(t.Pos, "too many distinct field names in this function")
			return
		}
		fs.emitAt(t.Pos, MakeABC(OpSetField, recv, uint8(nameIdx), valueReg))

	default:
		c.errorf(target.Span(), "internal: invalid assignment target %T", target)
	}
}
