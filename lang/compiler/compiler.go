package compiler

import (
	"fmt"

	"github.com/hemlang/hemlock/lang/ast"
	"github.com/hemlang/hemlock/lang/resolver"
	"github.com/hemlang/hemlock/lang/token"
)

// Compile turns a resolved chunk (one whose IdentExpr.Binding and
// FuncExpr.Function fields have already been filled in by resolver.Resolve)
// into a Module. The top-level statements of chunk become an implicit
// zero-argument Prototype named chunk.Name.
func Compile(chunk *ast.Chunk) (*Module, error) {
	top := &resolver.Function{Name: chunk.Name}
	// The top-level chunk's Locals were grown by the resolver against its
	// own internal *resolver.Function, which Resolve does not return. The
	// compiler only needs to know how many there are, so it walks the chunk
	// once (not descending into function literals) and takes one past the
	// highest depth-0 slot any identifier is bound to, keeping temporaries
	// above every top-level local's register.
	numLocals := 0
	ast.Inspect(chunk.Block, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncExpr:
			return false
		case *ast.IdentExpr:
			if b, ok := n.Binding.(*resolver.Binding); ok && b.Kind == resolver.Resolved && b.Depth == 0 && b.Slot+1 > numLocals {
				numLocals = b.Slot + 1
			}
		}
		return true
	})
	top.Locals = make([]string, numLocals)
	c := &compilerState{}
	fs := c.newFunc(top, nil)
	fs.isChunkTop = true
	c.block(fs, chunk.Block)
	fs.emit(MakeA(OpLoadNull, fs.reg()))
	fs.emitReturn(fs.freeReg - 1)
	proto := fs.finish()

	if len(c.errs) > 0 {
		return nil, compileError(c.errs)
	}
	return &Module{Name: chunk.Name, Main: proto}, nil
}

type compileError []string

func (e compileError) Error() string {
	s := ""
	for i, m := range e {
		if i > 0 {
			s += "\n"
		}
		s += m
	}
	return s
}

type compilerState struct {
	errs []string
}

func (c *compilerState) errorf(pos token.Pos, format string, args ...interface{}) {
	c.errs = append(c.errs, fmt.Sprintf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

// loopCtx tracks the pending break/continue jump sites for one enclosing
// loop statement, patched once the loop's exit and post-body targets are
// known.
type loopCtx struct {
	breakJumps    []int
	continueJumps []int
	continueAt    int // pc to jump to for `continue`, valid once continueKnown
	continueKnown bool
	// deferMarkReg holds, for the lifetime of the loop, the frame defer-stack
	// depth recorded on entry to the loop body's scope (spec section 4.4:
	// "break emits DeferExecAll ... continue emits DeferExecAll"). Every exit
	// from the body -- break, continue, or falling through to the next
	// iteration -- drains defers pushed since then before leaving the scope.
	deferMarkReg uint8
}

// fnState holds the in-progress compilation state for one function
// (Prototype). Registers [0, numLocals) are permanently assigned to the
// function's declared locals (parameters first), one-to-one with the slot
// indices the resolver already assigned; registers >= numLocals are
// temporaries allocated and released per statement.
type fnState struct {
	c      *compilerState
	proto  *Prototype
	parent *fnState

	numLocals int
	freeReg   uint8
	maxReg    uint8

	constIndex map[Const]int
	// upvalIndex caches the upvalue index already allocated in this
	// function for a given (depth, slot) pair relative to this function, so
	// repeated references to the same free variable share one upvalue.
	upvalIndex map[[2]int]int

	loops []*loopCtx

	isChunkTop bool
}

func (c *compilerState) newFunc(fn *resolver.Function, parent *fnState) *fnState {
	fs := &fnState{
		c:          c,
		proto:      &Prototype{Name: fn.Name, NumParams: fn.NumParams},
		parent:     parent,
		numLocals:  len(fn.Locals),
		constIndex: make(map[Const]int),
		upvalIndex: make(map[[2]int]int),
	}
	fs.freeReg = uint8(fs.numLocals)
	fs.maxReg = fs.freeReg
	return fs
}

func (fs *fnState) finish() *Prototype {
	fs.proto.MaxStack = int(fs.maxReg)
	return fs.proto
}

func (fs *fnState) emit(i Instr) int {
	fs.proto.Code = append(fs.proto.Code, i)
	fs.proto.Lines = append(fs.proto.Lines, 0)
	return len(fs.proto.Code) - 1
}

func (fs *fnState) emitAt(pos token.Pos, i Instr) int {
	pc := fs.emit(i)
	fs.proto.Lines[pc] = int32(pos.Line())
	return pc
}

func (fs *fnState) emitReturn(reg uint8) {
	fs.emit(MakeA(OpReturn, reg))
}

// reg allocates a fresh temporary register.
func (fs *fnState) reg() uint8 {
	r := fs.freeReg
	fs.freeReg++
	if fs.freeReg > fs.maxReg {
		fs.maxReg = fs.freeReg
	}
	return r
}

// mark returns the current register high-water mark, to be paired with a
// later releaseTo so that temporaries allocated in between (e.g. while
// compiling one statement, or while evaluating one loop's control
// expressions) are freed without disturbing registers a still-active
// enclosing construct is holding onto (a loop's hidden counter register, an
// outer statement's own temps).
func (fs *fnState) mark() uint8 { return fs.freeReg }

func (fs *fnState) releaseTo(mark uint8) { fs.freeReg = mark }

func (fs *fnState) addConst(k Const) uint16 {
	if idx, ok := fs.constIndex[k]; ok {
		return uint16(idx)
	}
	idx := len(fs.proto.Constants)
	fs.proto.Constants = append(fs.proto.Constants, k)
	fs.constIndex[k] = idx
	return uint16(idx)
}

func (fs *fnState) addStringConst(s string) uint16 {
	return fs.addConst(Const{Kind: ConstString, Str: s})
}

// patchJump rewrites the sAx operand of the sAx-format instruction at pc
// (an OpJump or OpPushHandler) so that it lands on target, keeping its
// opcode.
func (fs *fnState) patchJump(pc, target int) {
	op := fs.proto.Code[pc].Op()
	sax := int32(target - (pc + 1))
	fs.proto.Code[pc] = MakesAx(op, sax)
}

// patchCond rewrites the sBx operand of a JumpIf/JumpIfNo at pc.
func (fs *fnState) patchCond(pc, target int) {
	op := fs.proto.Code[pc].Op()
	a := fs.proto.Code[pc].A()
	sbx := int32(target - (pc + 1))
	fs.proto.Code[pc] = MakeAsBx(op, a, sbx)
}

// pushLoop opens a new loop context, recording the frame's current defer
// depth in a dedicated register so break/continue/fallthrough can drain
// back to it.
func (fs *fnState) pushLoop() *loopCtx {
	lc := &loopCtx{}
	lc.deferMarkReg = fs.reg()
	fs.emit(MakeA(OpDeferMark, lc.deferMarkReg))
	fs.loops = append(fs.loops, lc)
	return lc
}

// emitLoopDeferDrain emits the DeferExecAll that must precede every exit
// from the current loop's body scope (break, continue, or natural
// fallthrough to the next iteration).
func (fs *fnState) emitLoopDeferDrain() {
	lc := fs.curLoop()
	if lc != nil {
		fs.emit(MakeA(OpDeferExecAll, lc.deferMarkReg))
	}
}

func (fs *fnState) popLoop(loopEnd int) {
	lc := fs.loops[len(fs.loops)-1]
	fs.loops = fs.loops[:len(fs.loops)-1]
	for _, pc := range lc.breakJumps {
		fs.patchJump(pc, loopEnd)
	}
}

func (fs *fnState) curLoop() *loopCtx {
	if len(fs.loops) == 0 {
		return nil
	}
	return fs.loops[len(fs.loops)-1]
}

// resolveUpval returns the upvalue index in fs that captures the binding
// described by (depth, slot), recursively threading the capture through any
// intermediate enclosing functions per spec section 4.4.
func (fs *fnState) resolveUpval(depth, slot int) int {
	key := [2]int{depth, slot}
	if idx, ok := fs.upvalIndex[key]; ok {
		return idx
	}
	var desc UpvalDesc
	if depth == 1 {
		desc = UpvalDesc{FromParentLocal: true, Index: uint8(slot)}
	} else {
		parentIdx := fs.parent.resolveUpval(depth-1, slot)
		desc = UpvalDesc{FromParentLocal: false, Index: uint8(parentIdx)}
	}
	idx := len(fs.proto.Upvalues)
	fs.proto.Upvalues = append(fs.proto.Upvalues, desc)
	fs.upvalIndex[key] = idx
	return idx
}

func (c *compilerState) block(fs *fnState, b *ast.Block) {
	mark := fs.mark()
	for _, s := range b.Stmts {
		c.stmt(fs, s)
		fs.releaseTo(mark)
	}
}
