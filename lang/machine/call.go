package machine

import (
	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/types"
)

// callValue dispatches a call to whatever callee turns out to be: a
// Closure runs its own frame to completion, a Builtin runs synchronously
// to completion (spec section 6: "built-ins run to completion, they cannot
// yield mid-call"), anything else is a CallError.
func (th *Thread) callValue(callee types.Value, args []types.Value) (types.Value, error) {
	switch callee.Kind {
	case types.KindFunction:
		return th.callClosure(callee.AsClosure(), args)
	case types.KindBuiltin:
		result, err := callee.AsBuiltin().Fn(args)
		if err != nil {
			if rerr, ok := err.(*types.RuntimeError); ok {
				return types.Null, th.raiseRuntimeError(rerr)
			}
			return types.Null, err
		}
		return result, nil
	default:
		return types.Null, th.raise("CallError", "value of type %s is not callable", callee.Type())
	}
}

// callClosure pushes a new frame for cl, copies args into its first
// NumParams registers, runs it to completion, and pops the frame again
// regardless of outcome. No variadic or default-argument parameters exist,
// so an argument count that doesn't match NumParams exactly is a CallError
// rather than silently padded or truncated.
func (th *Thread) callClosure(cl *types.Closure, args []types.Value) (types.Value, error) {
	if len(th.callStack) >= th.MaxCallDepth {
		return types.Null, th.raise("StackOverflow", "maximum call depth %d exceeded", th.MaxCallDepth)
	}
	n := cl.Proto.NumParams
	if len(args) != n {
		return types.Null, th.raise("CallError", "%s expects %d argument(s), got %d", cl.Proto.Name, n, len(args))
	}

	fr := newFrame(cl)
	for i := 0; i < n; i++ {
		fr.setReg(uint8(i), args[i])
	}

	th.callStack = append(th.callStack, fr)
	result, err := th.run(fr)
	th.callStack = th.callStack[:len(th.callStack)-1]
	return result, err
}

// makeClosure materializes an OpClosure: a fresh Closure over childProto,
// with each upvalue populated per its UpvalDesc -- either captured
// directly from the running frame's own register (FromParentLocal) or
// inherited from the current closure's already-resolved upvalue cell at
// the same index (spec section 4.4's upvalue resolution, mirrored by
// compiler.fnState.resolveUpval at compile time).
func makeClosure(fr *frame, childProto *compiler.Prototype) types.Value {
	upvalues := make([]*types.Upvalue, len(childProto.Upvalues))
	for i, desc := range childProto.Upvalues {
		if desc.FromParentLocal {
			upvalues[i] = fr.upvalueForLocal(desc.Index)
		} else {
			upvalues[i] = fr.closure.Upvalues[desc.Index]
		}
	}
	return types.NewClosure(childProto, upvalues)
}
