// Package machine implements the register-based bytecode VM (spec section
// 4.6) that executes a compiler.Module: frame/register management, the
// fetch-decode-switch dispatch loop, closures and upvalue closing, exception
// unwinding through PushHandler/PopHandler handlers, defer LIFO execution, and the
// cooperative async scheduler of spec section 5.
package machine

import (
	"context"
	"io"
	"os"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/types"
)

// DefaultMaxCallDepth is the suggested frame-depth ceiling from spec section
// 4.6 ("Maximum frame depth is implementation-defined (256 suggested)").
const DefaultMaxCallDepth = 256

// Thread is one VM instance: the call stack, the global namespace and the
// cooperative scheduler (open upvalues are tracked per frame). A Thread is
// not safe for concurrent use from multiple goroutines -- the VM proper is
// single-threaded cooperative per spec section 5.
type Thread struct {
	// Name optionally identifies the thread for diagnostics.
	Name string

	Stdout io.Writer
	Stderr io.Writer

	// MaxCallDepth limits nested function calls; exceeding it raises
	// StackOverflow. <= 0 means DefaultMaxCallDepth.
	MaxCallDepth int

	// MaxSteps holds the configured step budget (the teacher's
	// Thread.MaxSteps). The dispatch loop does not read it: no instruction
	// count is checked against it and the thread is never cancelled for
	// exceeding it.
	MaxSteps int

	// Builtins holds the built-in functions available as a base layer
	// beneath Globals (print, len, type, assert, push, ...); OpGetGlobl
	// consults Globals first, falling back to Builtins.
	Builtins map[string]types.Value

	// Globals holds top-level variable bindings, shared by every frame's
	// OpGetGlobl/OpSetGlobl.
	Globals map[string]types.Value

	// Loader resolves an import path to a module's exported globals. Nil
	// means OpImport always fails with a RuntimeError.
	Loader func(path string) (types.Value, error)

	ctx       context.Context
	ctxCancel context.CancelFunc

	callStack []*frame

	steps uint64

	scheduler *scheduler
}

// NewThread returns a Thread ready to run a Module, lazily defaulted on
// first use by init().
func NewThread() *Thread {
	return &Thread{}
}

func (th *Thread) init() {
	if th.Stdout == nil {
		th.Stdout = os.Stdout
	}
	if th.Stderr == nil {
		th.Stderr = os.Stderr
	}
	if th.MaxCallDepth <= 0 {
		th.MaxCallDepth = DefaultMaxCallDepth
	}
	if th.ctx == nil {
		th.ctx, th.ctxCancel = context.WithCancel(context.Background())
	}
	if th.Globals == nil {
		th.Globals = make(map[string]types.Value)
	}
	if th.Builtins == nil {
		th.Builtins = StandardBuiltins(th)
	}
	if th.scheduler == nil {
		th.scheduler = newScheduler(th)
	}
}

// RunModule executes a compiled module's top-level Prototype to completion,
// draining the async scheduler's ready tasks after the main coroutine
// finishes (spec section 5: tasks spawned but never awaited still run to
// completion as long as the interpreter run hasn't exited).
func (th *Thread) RunModule(m *compiler.Module) (types.Value, error) {
	th.init()
	closure := types.NewClosure(m.Main, nil)
	result, err := th.Call(closure, nil)
	if err != nil {
		return types.Null, th.uncaught(err)
	}
	th.scheduler.drain()
	return result, nil
}

// Call invokes a callable Value (a Closure or a *Builtin) with the given
// positional arguments.
func (th *Thread) Call(callee types.Value, args []types.Value) (types.Value, error) {
	th.init()
	return th.callValue(callee, args)
}

// uncaught converts an exception that escaped every frame into the
// RuntimeError spec section 7 says a program that never catches its own
// UserException exits as.
func (th *Thread) uncaught(err error) error {
	exc, ok := err.(*exception)
	if !ok {
		return err
	}
	defer exc.value.Release()
	if exc.value.Kind == types.KindObject {
		if o := exc.value.AsObject(); o.Tag() == "Error" {
			kind, _ := o.Get("kind")
			msg, _ := o.Get("message")
			return &types.RuntimeError{Kind: kind.String(), Message: msg.String()}
		}
	}
	return &types.RuntimeError{Kind: "UserException", Message: exc.value.String()}
}
