package machine

import (
	"math"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/types"
)

// run dispatches fr's bytecode to completion: a normal OpReturn, or an
// exception that escapes every handler this frame holds. Function calls
// made from inside fr (OpCall/OpTailCall) recurse through
// Thread.callClosure rather than looping over a flattened, shared call
// stack -- exception unwinding across several frames then falls out of
// plain Go error propagation (each level's run loop gets first refusal at
// catching it via its own handler stack before the error keeps bubbling),
// which is simpler to reason about than a trampoline and is sufficient
// since nothing in this design needs to suspend a frame mid-call and
// resume it later (see scheduler.go's note on Spawn/Await/Yield).
func (th *Thread) run(fr *frame) (types.Value, error) {
	proto := fr.proto()
	code := proto.Code
	for {
		instr := code[fr.pc]
		fr.pc++
		op := instr.Op()

		switch op {
		case compiler.OpNop:
			// no-op

		case compiler.OpLoadK:
			fr.setReg(instr.A(), constValue(proto.Constants[instr.Bx()]))

		case compiler.OpLoadNull:
			fr.setReg(instr.A(), types.Null)

		case compiler.OpLoadBool:
			fr.setReg(instr.A(), types.Bool(instr.B() != 0))

		case compiler.OpLoadInt:
			fr.setReg(instr.A(), types.I32(instr.SBx()))

		case compiler.OpMove:
			fr.setReg(instr.A(), fr.regs[instr.B()])

		case compiler.OpGetUpval:
			fr.setReg(instr.A(), fr.closure.Upvalues[instr.B()].Get())

		case compiler.OpSetUpval:
			fr.closure.Upvalues[instr.A()].Set(fr.regs[instr.B()])

		case compiler.OpGetGlobl:
			name := proto.Constants[instr.Bx()].Str
			v, ok := th.Globals[name]
			if !ok {
				v, ok = th.Builtins[name]
			}
			if !ok {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: "undefined global " + name}); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), v)

		case compiler.OpSetGlobl:
			name := proto.Constants[instr.Bx()].Str
			v := fr.regs[instr.A()]
			v.Retain()
			if old, ok := th.Globals[name]; ok {
				old.Release()
			}
			th.Globals[name] = v

		case compiler.OpAdd, compiler.OpSub, compiler.OpMul, compiler.OpDiv, compiler.OpMod, compiler.OpPow,
			compiler.OpBAnd, compiler.OpBOr, compiler.OpBXor, compiler.OpShl, compiler.OpShr,
			compiler.OpEq, compiler.OpNe, compiler.OpLt, compiler.OpLe, compiler.OpGt, compiler.OpGe:
			result, rerr := th.binaryOp(op, fr.regs[instr.B()], fr.regs[instr.C()])
			if rerr != nil {
				if cont, val, err := th.handleFault(fr, rerr); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), result)

		case compiler.OpNeg:
			result, rerr := types.Neg(fr.regs[instr.B()])
			if rerr != nil {
				if cont, val, err := th.handleFault(fr, rerr); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), result)

		case compiler.OpBNot:
			result, rerr := types.BNot(fr.regs[instr.B()])
			if rerr != nil {
				if cont, val, err := th.handleFault(fr, rerr); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), result)

		case compiler.OpNot:
			fr.setReg(instr.A(), types.Bool(!fr.regs[instr.B()].Truth()))

		case compiler.OpNewArray:
			fr.setReg(instr.A(), types.NewArray(int(instr.B())))

		case compiler.OpArrPush:
			fr.regs[instr.A()].AsArray().Push(fr.regs[instr.B()])

		case compiler.OpNewObject:
			fr.setReg(instr.A(), types.NewObject(""))

		case compiler.OpGetIndex:
			result, rerr := th.indexGet(fr.regs[instr.B()], fr.regs[instr.C()])
			if rerr != nil {
				if cont, val, err := th.handleFault(fr, rerr); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), result)

		case compiler.OpSetIndex:
			if rerr := th.indexSet(fr.regs[instr.A()], fr.regs[instr.B()], fr.regs[instr.C()]); rerr != nil {
				if cont, val, err := th.handleFault(fr, rerr); cont {
					continue
				} else {
					return val, err
				}
			}

		case compiler.OpGetField:
			recv := fr.regs[instr.A()]
			name := proto.Constants[instr.Bx()].Str
			if recv.Kind != types.KindObject {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "TypeError", Message: "cannot read field ." + name + " of " + recv.Type()}); cont {
					continue
				} else {
					return val, err
				}
			}
			v, ok := recv.AsObject().Get(name)
			if !ok {
				v = types.Null
			}
			fr.setReg(instr.A(), v)

		case compiler.OpSetField:
			recv := fr.regs[instr.A()]
			name := proto.Constants[instr.B()].Str
			if recv.Kind != types.KindObject {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "TypeError", Message: "cannot set field ." + name + " of " + recv.Type()}); cont {
					continue
				} else {
					return val, err
				}
			}
			recv.AsObject().Set(name, fr.regs[instr.C()])

		case compiler.OpLen:
			n, rerr := th.lenOf(fr.regs[instr.B()])
			if rerr != nil {
				if cont, val, err := th.handleFault(fr, rerr); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), types.I32(int32(n)))

		case compiler.OpJump:
			fr.pc += int(instr.SAx())

		case compiler.OpJumpIf:
			if fr.regs[instr.A()].Truth() {
				fr.pc += int(instr.SBx())
			}

		case compiler.OpJumpIfNo:
			if !fr.regs[instr.A()].Truth() {
				fr.pc += int(instr.SBx())
			}

		case compiler.OpClosure:
			childProto := proto.Prototypes[instr.Bx()]
			fr.setReg(instr.A(), makeClosure(fr, childProto))

		case compiler.OpCall:
			base := instr.A()
			argc := int(instr.B())
			callee := fr.regs[base]
			args := append([]types.Value(nil), fr.regs[base+1:base+1+uint8(argc)]...)
			result, cerr := th.callValue(callee, args)
			if cerr != nil {
				if cont, val, err := th.handleFault(fr, cerr); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(base, result)

		case compiler.OpTailCall:
			// Simplification: behaves exactly like Call immediately followed
			// by Return rather than reusing this frame's register window, so
			// unbounded tail recursion still grows the Go call stack. See
			// DESIGN.md.
			base := instr.A()
			argc := int(instr.B())
			callee := fr.regs[base]
			args := append([]types.Value(nil), fr.regs[base+1:base+1+uint8(argc)]...)
			result, cerr := th.callValue(callee, args)
			if cerr != nil {
				if cont, val, err := th.handleFault(fr, cerr); cont {
					continue
				} else {
					return val, err
				}
			}
			return th.finishReturn(fr, result)

		case compiler.OpReturn:
			result := fr.regs[instr.A()]
			return th.finishReturn(fr, result)

		case compiler.OpClose:
			fr.closeUpvalues(instr.A())

		case compiler.OpPushHandler:
			target := fr.pc + int(instr.SAx())
			fr.handlers = append(fr.handlers, handlerRecord{target: target, deferFloor: len(fr.defers)})

		case compiler.OpPopHandler:
			if len(fr.handlers) > 0 {
				fr.handlers = fr.handlers[:len(fr.handlers)-1]
			}

		case compiler.OpThrow:
			v := fr.regs[instr.A()]
			v.Retain()
			exc := &exception{value: v}
			if cont, val, err := th.handleFault(fr, exc); cont {
				continue
			} else {
				return val, err
			}

		case compiler.OpCatch:
			if fr.pendingExc == nil {
				fr.setReg(instr.A(), types.Null)
				continue
			}
			fr.setReg(instr.A(), fr.pendingExc.value)
			fr.pendingExc.value.Release()
			fr.pendingExc = nil

		case compiler.OpDefer:
			base := instr.A()
			argc := instr.B()
			callee := fr.regs[base]
			// Snapshot the call now, while its register window still holds
			// what callExprNoInvoke laid out -- those registers are ordinary
			// temporaries and may be reused by later code before this defer
			// actually runs at frame exit.
			args := append([]types.Value(nil), fr.regs[base+1:base+1+argc]...)
			callee.Retain()
			for _, a := range args {
				a.Retain()
			}
			fr.defers = append(fr.defers, deferredCall{callee: callee, args: args})

		case compiler.OpDeferMark:
			fr.setReg(instr.A(), types.I32(int32(len(fr.defers))))

		case compiler.OpDeferExecAll:
			floor := int(fr.regs[instr.A()].Int())
			if derr := th.runDefers(fr, floor); derr != nil {
				if cont, val, err := th.handleFault(fr, derr); cont {
					continue
				} else {
					return val, err
				}
			}

		case compiler.OpSpawn:
			base := instr.B()
			argc := int(instr.C())
			callee := fr.regs[base]
			if callee.Kind != types.KindFunction {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "TypeError", Message: "spawn target is not a function"}); cont {
					continue
				} else {
					return val, err
				}
			}
			args := append([]types.Value(nil), fr.regs[base+1:base+1+uint8(argc)]...)
			task := types.NewTaskWithArgs(callee.AsClosure(), args)
			th.scheduler.track(task.AsTask())
			fr.setReg(instr.A(), task)

		case compiler.OpAwait:
			taskVal := fr.regs[instr.B()]
			if taskVal.Kind != types.KindTask {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "TypeError", Message: "await target is not a task"}); cont {
					continue
				} else {
					return val, err
				}
			}
			t := taskVal.AsTask()
			th.scheduler.settle(t)
			switch t.State {
			case types.TaskFulfilled:
				fr.setReg(instr.A(), t.Result)
			case types.TaskRejected:
				t.Err.Retain()
				if cont, val, err := th.handleFault(fr, &exception{value: t.Err}); cont {
					continue
				} else {
					return val, err
				}
			default:
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: "task failed to settle"}); cont {
					continue
				} else {
					return val, err
				}
			}

		case compiler.OpYield:
			th.steps++ // cooperative checkpoint; see scheduler.go

		case compiler.OpChanNew:
			fr.setReg(instr.A(), types.NewChannel(int(instr.B())))

		case compiler.OpChanSend:
			ch := fr.regs[instr.A()]
			if ch.Kind != types.KindChannel || !ch.AsChannel().TrySend(fr.regs[instr.B()]) {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: "channel send would block"}); cont {
					continue
				} else {
					return val, err
				}
			}

		case compiler.OpChanRecv:
			ch := fr.regs[instr.B()]
			if ch.Kind != types.KindChannel {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "TypeError", Message: "recv target is not a channel"}); cont {
					continue
				} else {
					return val, err
				}
			}
			v, ok := ch.AsChannel().TryRecv()
			if !ok {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: "channel recv would block"}); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), v)

		case compiler.OpImport:
			path := proto.Constants[instr.Bx()].Str
			if th.Loader == nil {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: "no module loader configured"}); cont {
					continue
				} else {
					return val, err
				}
			}
			v, lerr := th.Loader(path)
			if lerr != nil {
				if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: lerr.Error()}); cont {
					continue
				} else {
					return val, err
				}
			}
			fr.setReg(instr.A(), v)

		default:
			if cont, val, err := th.handleFault(fr, &types.RuntimeError{Kind: "RuntimeError", Message: "unimplemented opcode " + op.String()}); cont {
				continue
			} else {
				return val, err
			}
		}
	}
}

// finishReturn implements the common tail of OpReturn/OpTailCall: drain
// every remaining defer, close every open upvalue, release the frame's
// registers, and hand the result back to the caller.
func (th *Thread) finishReturn(fr *frame, result types.Value) (types.Value, error) {
	if derr := th.runDefers(fr, 0); derr != nil {
		if cont, val, err := th.handleFault(fr, derr); cont {
			return th.run(fr)
		} else {
			return val, err
		}
	}
	fr.closeUpvalues(0)
	// result still lives in one of fr's own registers; take out an extra
	// reference before releaseAllRegs tears the window down so the caller
	// receives ownership of exactly one reference rather than a dangling one.
	result.Retain()
	fr.releaseAllRegs()
	return result, nil
}

// handleFault is the single place every opcode that can fault routes
// through: it normalizes err to an *exception, searches fr's own handler
// stack (innermost active try is always the last entry, since
// OpPushHandler/OpPopHandler nest strictly), and either resumes fr at the
// matching handler's target (cont == true, caller should `continue` its
// dispatch loop) or tears fr down and returns the exception for the caller
// (callClosure, or an enclosing frame further up the Go call stack) to
// deal with.
func (th *Thread) handleFault(fr *frame, err error) (cont bool, val types.Value, retErr error) {
	exc := asException(th, err)
	if n := len(fr.handlers); n > 0 {
		h := fr.handlers[n-1]
		fr.handlers = fr.handlers[:n-1]
		if derr := th.runDefers(fr, h.deferFloor); derr != nil {
			return th.handleFault(fr, derr)
		}
		fr.pc = h.target
		fr.pendingExc = exc
		return true, types.Null, nil
	}
	if derr := th.runDefers(fr, 0); derr != nil {
		exc = asException(th, derr)
	}
	fr.closeUpvalues(0)
	fr.releaseAllRegs()
	return false, types.Null, exc
}

func asException(th *Thread, err error) *exception {
	switch e := err.(type) {
	case *exception:
		return e
	case *types.RuntimeError:
		return th.raiseRuntimeError(e)
	default:
		return th.raise("RuntimeError", "%s", err.Error())
	}
}

func constValue(k compiler.Const) types.Value {
	switch k.Kind {
	case compiler.ConstNull:
		return types.Null
	case compiler.ConstBool:
		return types.Bool(k.Bool)
	case compiler.ConstInt:
		if k.Int >= math.MinInt32 && k.Int <= math.MaxInt32 {
			return types.I32(int32(k.Int))
		}
		return types.I64(k.Int)
	case compiler.ConstFloat:
		return types.F64(k.Float)
	case compiler.ConstString:
		return types.NewString(k.Str)
	}
	return types.Null
}

func (th *Thread) binaryOp(op compiler.Op, a, b types.Value) (types.Value, error) {
	switch op {
	case compiler.OpAdd:
		return types.Add(a, b)
	case compiler.OpSub:
		return types.Sub(a, b)
	case compiler.OpMul:
		return types.Mul(a, b)
	case compiler.OpDiv:
		return types.Div(a, b)
	case compiler.OpMod:
		return types.Mod(a, b)
	case compiler.OpPow:
		return types.Pow(a, b)
	case compiler.OpBAnd:
		return types.BAnd(a, b)
	case compiler.OpBOr:
		return types.BOr(a, b)
	case compiler.OpBXor:
		return types.BXor(a, b)
	case compiler.OpShl:
		return types.Shl(a, b)
	case compiler.OpShr:
		return types.Shr(a, b)
	case compiler.OpEq:
		return types.Bool(types.Equal(a, b)), nil
	case compiler.OpNe:
		return types.Bool(!types.Equal(a, b)), nil
	case compiler.OpLt:
		return types.Less(a, b)
	case compiler.OpLe:
		return types.LessEq(a, b)
	case compiler.OpGt:
		return types.Greater(a, b)
	case compiler.OpGe:
		return types.GreaterEq(a, b)
	}
	return types.Value{}, &types.RuntimeError{Kind: "RuntimeError", Message: "unreachable binary op"}
}

func (th *Thread) lenOf(v types.Value) (int, error) {
	switch v.Kind {
	case types.KindString:
		return v.AsString().Len(), nil
	case types.KindBuffer:
		return v.AsBuffer().Len(), nil
	case types.KindArray:
		return v.AsArray().Len(), nil
	case types.KindObject:
		return v.AsObject().Len(), nil
	}
	return 0, &types.RuntimeError{Kind: "TypeError", Message: "len: unsupported operand " + v.Type()}
}

func (th *Thread) indexGet(recv, idx types.Value) (types.Value, error) {
	switch recv.Kind {
	case types.KindArray:
		a := recv.AsArray()
		i := int(idx.Int())
		if i < 0 || i >= a.Len() {
			return types.Value{}, &types.RuntimeError{Kind: "IndexError", Message: "array index out of range"}
		}
		return a.Index(i), nil
	case types.KindString:
		s := recv.AsString()
		i := int(idx.Int())
		if i < 0 || i >= s.Len() {
			return types.Value{}, &types.RuntimeError{Kind: "IndexError", Message: "string index out of range"}
		}
		return s.Index(i), nil
	case types.KindBuffer:
		b := recv.AsBuffer()
		i := int(idx.Int())
		if i < 0 || i >= b.Len() {
			return types.Value{}, &types.RuntimeError{Kind: "IndexError", Message: "buffer index out of range"}
		}
		return b.Index(i), nil
	case types.KindObject:
		if idx.Kind != types.KindString {
			return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "object key must be a string"}
		}
		v, ok := recv.AsObject().Get(idx.AsString().String())
		if !ok {
			return types.Value{}, &types.RuntimeError{Kind: "KeyError", Message: "no such field: " + idx.AsString().String()}
		}
		return v, nil
	}
	return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "cannot index " + recv.Type()}
}

func (th *Thread) indexSet(recv, idx, v types.Value) error {
	switch recv.Kind {
	case types.KindArray:
		a := recv.AsArray()
		i := int(idx.Int())
		if i < 0 || i >= a.Len() {
			return &types.RuntimeError{Kind: "IndexError", Message: "array index out of range"}
		}
		a.SetIndex(i, v)
		return nil
	case types.KindBuffer:
		b := recv.AsBuffer()
		i := int(idx.Int())
		if i < 0 || i >= b.Len() {
			return &types.RuntimeError{Kind: "IndexError", Message: "buffer index out of range"}
		}
		b.SetIndex(i, v)
		return nil
	case types.KindObject:
		if idx.Kind != types.KindString {
			return &types.RuntimeError{Kind: "TypeError", Message: "object key must be a string"}
		}
		recv.AsObject().Set(idx.AsString().String(), v)
		return nil
	}
	return &types.RuntimeError{Kind: "TypeError", Message: "cannot index-assign " + recv.Type()}
}

