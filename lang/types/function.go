package types

import (
	"sync/atomic"

	"github.com/hemlang/hemlock/lang/compiler"
)

// Upvalue is a captured-variable cell (spec section 3.1's Closure
// description). While Open, Stack points at the frame register that is
// still the variable's live storage; CloseUpvalues copies that register's
// current value into Closed and flips the cell so later reads/writes go
// through Closed instead, matching Lua-style upvalue closing semantics.
type Upvalue struct {
	Open   bool
	Stack  *Value // valid while Open; points into a live frame's register slice
	Closed Value  // valid once closed
}

// Get reads the upvalue's current value.
func (u *Upvalue) Get() Value {
	if u.Open {
		return *u.Stack
	}
	return u.Closed
}

// Set writes the upvalue's current value, retaining v and releasing
// whatever was there before -- the same retain-old/release-new discipline
// frame.setReg uses for register writes, so a captured heap-typed variable
// doesn't get its refcount dropped or double-counted depending on whether
// the cell happens to be open or closed at the time of the write.
func (u *Upvalue) Set(v Value) {
	v.Retain()
	if u.Open {
		u.Stack.Release()
		*u.Stack = v
		return
	}
	u.Closed.Release()
	u.Closed = v
}

// Close detaches the cell from the stack, copying out its current value.
// Called by CloseUpvalues(boundary) for every open cell whose target is
// at or above the boundary register.
func (u *Upvalue) Close() {
	if !u.Open {
		return
	}
	u.Closed = *u.Stack
	u.Open = false
	u.Stack = nil
}

// Closure is a prototype plus its captured upvalue cells and a refcount
// (spec section 3.1). Closures sharing the same Prototype (e.g. two
// invocations of the same function literal) each get their own Upvalues
// slice, since each capture may close over different live variables.
type Closure struct {
	n        int32
	Proto    *compiler.Prototype
	Upvalues []*Upvalue
}

// NewClosure returns a Closure over proto with the given (already-resolved)
// upvalue cells, refcount 1. The Upvalues slice is retained as-is, not
// copied.
func NewClosure(proto *compiler.Prototype, upvalues []*Upvalue) Value {
	return fromHeap(KindFunction, &Closure{n: 1, Proto: proto, Upvalues: upvalues})
}

func (c *Closure) retain()        { atomic.AddInt32(&c.n, 1) }
func (c *Closure) refcount() int32 { return atomic.LoadInt32(&c.n) }
func (c *Closure) release() {
	if atomic.AddInt32(&c.n, -1) == 0 {
		// Closed-over heap values live inside Upvalue cells, not as Values
		// this Closure directly owns a reference count on; nothing further
		// to release here beyond dropping our own slice.
		c.Upvalues = nil
	}
}

func (c *Closure) String() string {
	name := c.Proto.Name
	if name == "" {
		name = "<anonymous>"
	}
	return "<function " + name + ">"
}
