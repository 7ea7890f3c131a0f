// Package types defines Value, the tagged-union runtime representation the
// machine operates on (spec section 3). Scalars are stored inline in the
// Value struct; heap variants (String, Buffer, Array, Object, Function,
// Task, Channel and the collaborator-defined handle types) carry an
// explicit, deterministic reference count instead of relying on the Go
// garbage collector -- the one deliberate divergence from the teacher,
// whose types.Value variants are plain Go values reclaimed by the host GC
// and made immutable via Freeze() rather than refcounted.
package types

import (
	"fmt"
	"math"
)

// Kind discriminates the variant a Value currently holds (spec section 3's
// Value table).
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindRune
	KindString
	KindBuffer
	KindArray
	KindObject
	KindFunction
	KindPtr
	KindTask
	KindChannel
	KindWebSocket
	KindFFIFunction
	KindFFICallback
	KindBuiltin
)

var kindNames = [...]string{
	KindNull: "null", KindBool: "bool",
	KindI8: "i8", KindI16: "i16", KindI32: "i32", KindI64: "i64",
	KindU8: "u8", KindU16: "u16", KindU32: "u32", KindU64: "u64",
	KindF32: "f32", KindF64: "f64", KindRune: "rune",
	KindString: "string", KindBuffer: "buffer", KindArray: "array", KindObject: "object",
	KindFunction: "function", KindPtr: "ptr", KindTask: "task", KindChannel: "channel",
	KindWebSocket: "websocket", KindFFIFunction: "ffi_function", KindFFICallback: "ffi_callback",
	KindBuiltin: "builtin",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsHeap reports whether values of this kind carry a refcounted Heap
// payload (I4: a Value never aliases two different variants at once, so
// this is purely a function of Kind).
func (k Kind) IsHeap() bool {
	switch k {
	case KindString, KindBuffer, KindArray, KindObject, KindFunction,
		KindTask, KindChannel, KindWebSocket, KindFFIFunction, KindFFICallback, KindBuiltin:
		return true
	}
	return false
}

func (k Kind) IsInt() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindU8, KindU16, KindU32, KindU64, KindRune:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool { return k == KindF32 || k == KindF64 }

func (k Kind) Is64Bit() bool { return k == KindI64 || k == KindU64 }

// heapObj is implemented by every refcounted heap payload. retain/release
// mutate the shared count; release performs type-specific destruction (I2:
// recursively releasing contained values) once the count reaches zero.
type heapObj interface {
	retain()
	release()
	refcount() int32
}

// Value is the tagged union every machine register, upvalue cell and
// constant holds. The zero Value is Null.
type Value struct {
	Kind Kind
	i    int64   // Bool(0/1), all sized ints (reinterpreted), Rune (as int32 in low bits)
	f    float64 // F32 (widened to float64), F64
	heap heapObj // non-nil iff Kind.IsHeap()
	ptr  uintptr // KindPtr address
	tag  string  // KindPtr tag
}

// Null is the singular null value.
var Null = Value{Kind: KindNull}

func Bool(b bool) Value {
	v := Value{Kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

func I8(n int8) Value   { return Value{Kind: KindI8, i: int64(n)} }
func I16(n int16) Value { return Value{Kind: KindI16, i: int64(n)} }
func I32(n int32) Value { return Value{Kind: KindI32, i: int64(n)} }
func I64(n int64) Value { return Value{Kind: KindI64, i: n} }
func U8(n uint8) Value  { return Value{Kind: KindU8, i: int64(n)} }
func U16(n uint16) Value { return Value{Kind: KindU16, i: int64(n)} }
func U32(n uint32) Value { return Value{Kind: KindU32, i: int64(n)} }
func U64(n uint64) Value { return Value{Kind: KindU64, i: int64(n)} }
func F32(f float32) Value { return Value{Kind: KindF32, f: float64(f)} }
func F64(f float64) Value { return Value{Kind: KindF64, f: f} }
func RuneV(r rune) Value   { return Value{Kind: KindRune, i: int64(r)} }

func Ptr(addr uintptr, tag string) Value { return Value{Kind: KindPtr, ptr: addr, tag: tag} }

func fromHeap(k Kind, h heapObj) Value { return Value{Kind: k, heap: h} }

// Retain increments the refcount of a heap-backed Value; a no-op for
// scalars. Every place a Value is copied into a register, upvalue cell,
// array/object slot or closure capture that will outlive the source must
// call Retain first (I1).
func (v Value) Retain() {
	if v.heap != nil {
		v.heap.retain()
	}
}

// Release decrements the refcount of a heap-backed Value, running its
// destructor when it reaches zero; a no-op for scalars.
func (v Value) Release() {
	if v.heap != nil {
		v.heap.release()
	}
}

// Refcount reports the current refcount of a heap-backed value, or 0 for
// scalars -- mainly for tests asserting refcount soundness.
func (v Value) Refcount() int32 {
	if v.heap == nil {
		return 0
	}
	return v.heap.refcount()
}

func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) PtrAddr() (uintptr, string) { return v.ptr, v.tag }

// The AsX accessors unwrap a heap-backed Value to its concrete payload type.
// Callers are expected to check Kind first (or come from a context where the
// kind is already known, e.g. a bytecode op documented to operate on a
// specific type) -- these panic via a failed type assertion on mismatch
// rather than returning an ok bool, mirroring how the machine's dispatch
// loop already branches on Kind before ever reaching the payload.
func (v Value) AsString() *String   { return v.heap.(*String) }
func (v Value) AsBuffer() *Buffer   { return v.heap.(*Buffer) }
func (v Value) AsArray() *Array     { return v.heap.(*Array) }
func (v Value) AsObject() *Object   { return v.heap.(*Object) }
func (v Value) AsClosure() *Closure { return v.heap.(*Closure) }
func (v Value) AsTask() *Task       { return v.heap.(*Task) }
func (v Value) AsChannel() *Channel { return v.heap.(*Channel) }

// AsF64 returns v's numeric value widened to float64, for the comparison
// coercion spec section 4.5 mandates ("comparisons between numerics coerce
// both to F64 for ordering").
func (v Value) AsF64() float64 {
	if v.Kind.IsFloat() {
		return v.f
	}
	if v.Kind == KindU64 {
		return float64(uint64(v.i))
	}
	return float64(v.i)
}

// Type returns the short type-name string the language's `type()` builtin
// and error messages use.
func (v Value) Type() string { return v.Kind.String() }

// Truth implements the language's truthiness rule: null and false are
// falsy; zero numerics and empty strings/arrays/objects/buffers are falsy;
// everything else is truthy.
func (v Value) Truth() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.i != 0
	case KindF32, KindF64:
		return v.f != 0
	case KindString:
		return v.heap.(*String).Len() > 0
	case KindArray:
		return v.heap.(*Array).Len() > 0
	case KindObject:
		return v.heap.(*Object).Len() > 0
	case KindBuffer:
		return v.heap.(*Buffer).Len() > 0
	}
	if v.Kind.IsInt() {
		return v.i != 0
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.i != 0)
	case KindF32, KindF64:
		return formatFloat(v.f)
	case KindRune:
		return fmt.Sprintf("%q", rune(v.i))
	case KindPtr:
		return fmt.Sprintf("ptr(%s:%#x)", v.tag, v.ptr)
	}
	if v.Kind.IsInt() {
		if v.Kind == KindU64 {
			return fmt.Sprintf("%d", uint64(v.i))
		}
		return fmt.Sprintf("%d", v.i)
	}
	if v.heap != nil {
		if s, ok := v.heap.(fmt.Stringer); ok {
			return s.String()
		}
	}
	return fmt.Sprintf("<%s>", v.Kind)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%g", f)
}

// Equal implements `==`/`!=` per spec section 4.5 and Open Question 2:
// numerics compare by widened numeric value, strings by byte equality,
// Null only equals Null, Bool only equals Bool, and every other heap
// variant compares by identity (same underlying object).
func Equal(a, b Value) bool {
	if a.Kind == KindNull || b.Kind == KindNull {
		return a.Kind == b.Kind
	}
	if a.Kind == KindBool || b.Kind == KindBool {
		return a.Kind == b.Kind && a.i == b.i
	}
	aNum, bNum := a.Kind.IsInt() || a.Kind.IsFloat(), b.Kind.IsInt() || b.Kind.IsFloat()
	if aNum && bNum {
		return a.AsF64() == b.AsF64()
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.heap.(*String).bytes() == b.heap.(*String).bytes()
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.heap != nil && b.heap != nil {
		return a.heap == b.heap
	}
	return a == b
}
