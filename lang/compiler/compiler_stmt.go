package compiler

import (
	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/resolver"
)

func (c *compilerState) stmt(fs *fnState, s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		c.expr(fs, s.X)

	case *ast.DeclStmt:
		b, _ := s.Name.Binding.(*resolver.Binding)
		if b == nil {
			c.errorf(s.Pos, "internal: declaration %q was never resolved", s.Name.Name)
			return
		}
		slot := uint8(b.Slot)
		if s.Value != nil {
			c.exprInto(fs, s.Value, slot)
		} else {
			fs.emitAt(s.Pos, MakeA(OpLoadNull, slot))
		}

	case *ast.AssignStmt:
		vr := c.expr(fs, s.Value)
		c.assignTo(fs, s.Target, vr)

	case *ast.IfStmt:
		c.ifStmt(fs, s)

	case *ast.WhileStmt:
		c.whileStmt(fs, s)

	case *ast.ForStmt:
		c.forStmt(fs, s)

	case *ast.ForInStmt:
		c.forInStmt(fs, s)

	case *ast.ReturnStmt:
		if s.Value != nil {
			vr := c.expr(fs, s.Value)
			fs.emitReturn(vr)
		} else {
			nr := fs.reg()
			fs.emitAt(s.Pos, MakeA(OpLoadNull, nr))
			fs.emitReturn(nr)
		}

	case *ast.BreakStmt:
		lc := fs.curLoop()
		if lc == nil {
			c.errorf(s.Pos, "internal: break outside of a loop (resolver should have caught this)")
			return
		}
		fs.emitAt(s.Pos, MakeA(OpDeferExecAll, lc.deferMarkReg))
		pc := fs.emitAt(s.Pos, MakesAx(OpJump, 0))
		lc.breakJumps = append(lc.breakJumps, pc)

	case *ast.ContinueStmt:
		lc := fs.curLoop()
		if lc == nil {
			c.errorf(s.Pos, "internal: continue outside of a loop (resolver should have caught this)")
			return
		}
		fs.emitAt(s.Pos, MakeA(OpDeferExecAll, lc.deferMarkReg))
		if lc.continueKnown {
			fs.patchJump(fs.emitAt(s.Pos, MakesAx(OpJump, 0)), lc.continueAt)
		} else {
			pc := fs.emitAt(s.Pos, MakesAx(OpJump, 0))
			lc.continueJumps = append(lc.continueJumps, pc)
		}

	case *ast.ThrowStmt:
		vr := c.expr(fs, s.Value)
		fs.emitAt(s.Pos, MakeA(OpThrow, vr))

	case *ast.TryStmt:
		c.tryStmt(fs, s)

	case *ast.DeferStmt:
		call, ok := s.Call.(*ast.CallExpr)
		if !ok {
			c.errorf(s.Pos, "internal: defer target was not a call expression")
			return
		}
		vr := c.callExprNoInvoke(fs, call)
		fs.emitAt(s.Pos, MakeAB(OpDefer, vr, uint8(len(call.Args))))

	case *ast.YieldStmt:
		fs.emitAt(s.Pos, MakeA(OpYield, 0))

	case *ast.FuncDeclStmt:
		b, _ := s.Name.Binding.(*resolver.Binding)
		if b == nil {
			c.errorf(s.Pos, "internal: function declaration %q was never resolved", s.Name.Name)
			return
		}
		c.exprInto(fs, s.Fn, uint8(b.Slot))

	case *ast.ImportStmt:
		b, _ := s.Name.Binding.(*resolver.Binding)
		if b == nil {
			c.errorf(s.Pos, "internal: import %q was never resolved", s.Name.Name)
			return
		}
		fs.emitAt(s.Pos, MakeABx(OpImport, uint8(b.Slot), fs.addStringConst(s.Path)))

	case *ast.ExportStmt:
		c.stmt(fs, s.Decl)

	case *ast.BlockStmt:
		c.block(fs, s.Block)

	default:
		c.errorf(s.Span(), "internal: unhandled statement %T", s)
	}
}

// callExprNoInvoke lays out a call's register window (callee + args) without
// emitting the OpCall itself, for defer, which captures the call to run
// later rather than invoking it immediately. It returns the base register
// holding the prepared call.
func (c *compilerState) callExprNoInvoke(fs *fnState, e *ast.CallExpr) uint8 {
	base := fs.reg()
	c.exprInto(fs, e.Fn, base)
	for _, a := range e.Args {
		areg := fs.reg()
		c.exprInto(fs, a, areg)
	}
	return base
}

func (c *compilerState) ifStmt(fs *fnState, s *ast.IfStmt) {
	cr := c.expr(fs, s.Cond)
	jf := fs.emitAt(s.Pos, MakeAsBx(OpJumpIfNo, cr, 0))
	c.block(fs, s.Then)
	if s.Else == nil {
		fs.patchCond(jf, len(fs.proto.Code))
		return
	}
	jend := fs.emitAt(s.Pos, MakesAx(OpJump, 0))
	fs.patchCond(jf, len(fs.proto.Code))
	c.stmt(fs, s.Else)
	fs.patchJump(jend, len(fs.proto.Code))
}

func (c *compilerState) whileStmt(fs *fnState, s *ast.WhileStmt) {
	condPC := len(fs.proto.Code)
	cr := c.expr(fs, s.Cond)
	jf := fs.emitAt(s.Pos, MakeAsBx(OpJumpIfNo, cr, 0))

	lc := fs.pushLoop()

	c.block(fs, s.Body)

	// continue (explicit or falling off the end of the body) lands here,
	// draining defers pushed during this iteration before retesting cond.
	drainPC := len(fs.proto.Code)
	lc.continueAt = drainPC
	lc.continueKnown = true
	for _, pc := range lc.continueJumps {
		fs.patchJump(pc, drainPC)
	}
	fs.emitLoopDeferDrain()
	fs.patchJump(fs.emitAt(s.Pos, MakesAx(OpJump, 0)), condPC)

	loopEnd := len(fs.proto.Code)
	fs.patchCond(jf, loopEnd)
	fs.popLoop(loopEnd)
}

func (c *compilerState) forStmt(fs *fnState, s *ast.ForStmt) {
	mark := fs.mark()
	if s.Init != nil {
		c.stmt(fs, s.Init)
		fs.releaseTo(mark)
	}
	condPC := len(fs.proto.Code)
	var jf int
	hasCond := s.Cond != nil
	if hasCond {
		cr := c.expr(fs, s.Cond)
		jf = fs.emitAt(s.Pos, MakeAsBx(OpJumpIfNo, cr, 0))
		fs.releaseTo(mark)
	}

	lc := fs.pushLoop()

	c.block(fs, s.Body)

	// continue (explicit or falling off the end of the body) lands here,
	// draining defers pushed during this iteration before the post-statement
	// and next cond check run.
	drainPC := len(fs.proto.Code)
	lc.continueAt = drainPC
	lc.continueKnown = true
	for _, pc := range lc.continueJumps {
		fs.patchJump(pc, drainPC)
	}
	fs.emitLoopDeferDrain()

	if s.Post != nil {
		c.stmt(fs, s.Post)
		fs.releaseTo(mark)
	}
	fs.patchJump(fs.emitAt(s.Pos, MakesAx(OpJump, 0)), condPC)

	loopEnd := len(fs.proto.Code)
	if hasCond {
		fs.patchCond(jf, loopEnd)
	}
	fs.popLoop(loopEnd)
}

func (c *compilerState) forInStmt(fs *fnState, s *ast.ForInStmt) {
	b, _ := s.Name.Binding.(*resolver.Binding)
	if b == nil {
		c.errorf(s.Pos, "internal: for-in variable %q was never resolved", s.Name.Name)
		return
	}
	itemSlot := uint8(b.Slot)

	iterReg := fs.reg()
	c.exprInto(fs, s.Iter, iterReg)

	// for-in is sugar over index iteration: a hidden counter register holds
	// the current position; each pass reads iterReg[counter] into itemSlot,
	// then advances.
	counterSlot := fs.reg()
	fs.emitAt(s.Pos, MakeAsBx(OpLoadInt, counterSlot, 0))

	loopTopPC := len(fs.proto.Code)
	lenReg := fs.reg()
	fs.emitAt(s.Pos, MakeAB(OpLen, lenReg, iterReg))
	condReg := fs.reg()
	fs.emitAt(s.Pos, MakeABC(OpLt, condReg, counterSlot, lenReg))
	jf := fs.emitAt(s.Pos, MakeAsBx(OpJumpIfNo, condReg, 0))
	fs.releaseTo(counterSlot + 1)

	fs.emitAt(s.Pos, MakeABC(OpGetIndex, itemSlot, iterReg, counterSlot))

	lc := fs.pushLoop()
	lc.continueAt = 0
	lc.continueKnown = false

	c.block(fs, s.Body)

	advPC := len(fs.proto.Code)
	lc.continueAt = advPC
	lc.continueKnown = true
	for _, pc := range lc.continueJumps {
		fs.patchJump(pc, advPC)
	}
	fs.emitLoopDeferDrain()

	oneReg := fs.reg()
	fs.emitAt(s.Pos, MakeAsBx(OpLoadInt, oneReg, 1))
	fs.emitAt(s.Pos, MakeABC(OpAdd, counterSlot, counterSlot, oneReg))
	fs.releaseTo(counterSlot + 1)
	fs.patchJump(fs.emitAt(s.Pos, MakesAx(OpJump, 0)), loopTopPC)

	loopEnd := len(fs.proto.Code)
	fs.patchCond(jf, loopEnd)
	fs.popLoop(loopEnd)
}

// tryStmt lowers try/catch/finally. OpPushHandler installs a handler whose
// target is the catch block if present, else the finally block; OpPopHandler
// removes it once the guarded body completes normally. The finally block, if
// present, always runs next (exception or not) and, per the resolved
// behaviour of Open Question 1, a return/throw executed inside it overrides
// any exception still unwinding.
func (c *compilerState) tryStmt(fs *fnState, s *ast.TryStmt) {
	handlerPC := fs.emitAt(s.Pos, MakesAx(OpPushHandler, 0))
	c.block(fs, s.Body)
	fs.emit(MakeA(OpPopHandler, 0))
	jend := fs.emitAt(s.Pos, MakesAx(OpJump, 0))

	handlerTarget := len(fs.proto.Code)
	fs.patchJump(handlerPC, handlerTarget)

	if s.Catch != nil {
		b, _ := s.CatchName.Binding.(*resolver.Binding)
		if b == nil {
			c.errorf(s.Pos, "internal: catch variable %q was never resolved", s.CatchName.Name)
			return
		}
		fs.emitAt(s.Pos, MakeA(OpCatch, uint8(b.Slot)))
		c.block(fs, s.Catch)
		fs.patchJump(jend, len(fs.proto.Code))
		if s.Finally != nil {
			c.block(fs, s.Finally)
		}
		return
	}

	if s.Finally == nil {
		fs.patchJump(jend, len(fs.proto.Code))
		return
	}

	// No catch clause: an exception reaching the handler must still be
	// rethrown once finally has run rather than silently swallowed, and a
	// return/throw inside finally itself still overrides it (Open Question
	// 1) simply because that exits fs's code before the rethrow below runs.
	mark := fs.mark()
	excReg := fs.reg()
	hadExcReg := fs.reg()
	fs.emitAt(s.Pos, MakeA(OpCatch, excReg))
	fs.emitAt(s.Pos, MakeAB(OpLoadBool, hadExcReg, 1))
	afterExc := fs.emitAt(s.Pos, MakesAx(OpJump, 0))

	fs.patchJump(jend, len(fs.proto.Code))
	fs.emitAt(s.Pos, MakeAB(OpLoadBool, hadExcReg, 0))
	fs.patchJump(afterExc, len(fs.proto.Code))

	c.block(fs, s.Finally)
	jskip := fs.emitAt(s.Pos, MakeAsBx(OpJumpIfNo, hadExcReg, 0))
	fs.emitAt(s.Pos, MakeA(OpThrow, excReg))
	fs.patchCond(jskip, len(fs.proto.Code))
	fs.releaseTo(mark)
}
