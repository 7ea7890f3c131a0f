package types

import "sync/atomic"

// Builtin wraps a host-native function as a first-class callable Value, so
// the VM's call machinery (OpCall/OpTailCall) can invoke a standard-library
// function exactly like a Closure without a separate dispatch path. Spec
// section 6's built-in call contract is "(args, argc, ctx) -> Value,
// failure signalled via ctx.exception_state"; this package has no notion of
// an execution context, so Fn reports failure the idiomatic Go way (an
// error return) and lang/machine adapts that into the VM's exception
// machinery at the call site.
type Builtin struct {
	n    int32
	Name string
	Fn   func(args []Value) (Value, error)
}

// NewBuiltin wraps fn as a refcounted, effectively-immortal callable Value.
func NewBuiltin(name string, fn func(args []Value) (Value, error)) Value {
	return fromHeap(KindBuiltin, &Builtin{n: 1, Name: name, Fn: fn})
}

func (b *Builtin) retain()        { atomic.AddInt32(&b.n, 1) }
func (b *Builtin) refcount() int32 { return atomic.LoadInt32(&b.n) }
func (b *Builtin) release()       { atomic.AddInt32(&b.n, -1) }

func (b *Builtin) String() string { return "<builtin " + b.Name + ">" }

// AsBuiltin unwraps a KindBuiltin Value to its concrete payload, following
// the AsX accessor convention in value.go.
func (v Value) AsBuiltin() *Builtin { return v.heap.(*Builtin) }
