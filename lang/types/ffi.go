package types

import "sync/atomic"

// WebSocket, FFIFunction and FFICallback are domain handles (spec section
// 3: "Task, Channel, WebSocket, FFIFunction, FFICallback | domain handles |
// Refcounted; defined by collaborator modules"). This core package only
// needs them to exist as distinct, refcounted Value variants so the
// machine can pass them around, retain/release them and type-check
// against them uniformly with every other heap value; the actual
// socket/libffi plumbing belongs to the surface modules mentioned in
// SPEC_FULL.md's non-goals, which is why each handle here is just an
// opaque payload wrapper rather than a real network/FFI implementation.

// WebSocket is an opaque handle a collaborator networking module attaches
// its connection state to via Native.
type WebSocket struct {
	n      int32
	Native any
}

func NewWebSocket(native any) Value {
	return fromHeap(KindWebSocket, &WebSocket{n: 1, Native: native})
}

func (w *WebSocket) retain()        { atomic.AddInt32(&w.n, 1) }
func (w *WebSocket) refcount() int32 { return atomic.LoadInt32(&w.n) }
func (w *WebSocket) release() {
	if atomic.AddInt32(&w.n, -1) == 0 {
		w.Native = nil
	}
}
func (w *WebSocket) String() string { return "<websocket>" }

// FFIFunction is an opaque handle a collaborator FFI module attaches a
// resolved shared-library symbol to via Native.
type FFIFunction struct {
	n      int32
	Name   string
	Native any
}

func NewFFIFunction(name string, native any) Value {
	return fromHeap(KindFFIFunction, &FFIFunction{n: 1, Name: name, Native: native})
}

func (f *FFIFunction) retain()        { atomic.AddInt32(&f.n, 1) }
func (f *FFIFunction) refcount() int32 { return atomic.LoadInt32(&f.n) }
func (f *FFIFunction) release() {
	if atomic.AddInt32(&f.n, -1) == 0 {
		f.Native = nil
	}
}
func (f *FFIFunction) String() string { return "<ffi_function " + f.Name + ">" }

// FFICallback is an opaque handle wrapping a hemlock Closure exposed to
// native code as a callback trampoline.
type FFICallback struct {
	n       int32
	Closure *Closure
}

func NewFFICallback(closure *Closure) Value {
	closure.retain()
	return fromHeap(KindFFICallback, &FFICallback{n: 1, Closure: closure})
}

func (f *FFICallback) retain()        { atomic.AddInt32(&f.n, 1) }
func (f *FFICallback) refcount() int32 { return atomic.LoadInt32(&f.n) }
func (f *FFICallback) release() {
	if atomic.AddInt32(&f.n, -1) == 0 {
		if f.Closure != nil {
			f.Closure.release()
		}
		f.Closure = nil
	}
}
func (f *FFICallback) String() string { return "<ffi_callback>" }
