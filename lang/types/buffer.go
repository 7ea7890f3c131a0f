package types

import "sync/atomic"

// Buffer is a refcounted, mutable byte sequence (spec section 3: "Buffer |
// refcounted mutable bytes + length + capacity + freed flag"). The freed
// flag transitions at most once, 0 -> 1, under an atomic store (I3) so a
// use-after-free from FFI code handed the same Buffer from another thread
// is caught rather than silently corrupting memory.
type Buffer struct {
	n     int32
	data  []byte
	freed int32
}

// NewBuffer returns a Buffer of the given length (zero-filled) and
// refcount 1.
func NewBuffer(length int) Value {
	return fromHeap(KindBuffer, &Buffer{n: 1, data: make([]byte, length)})
}

// NewBufferFrom wraps existing bytes (taking ownership of the slice) in a
// refcounted Buffer.
func NewBufferFrom(b []byte) Value {
	return fromHeap(KindBuffer, &Buffer{n: 1, data: b})
}

func (b *Buffer) retain()        { atomic.AddInt32(&b.n, 1) }
func (b *Buffer) refcount() int32 { return atomic.LoadInt32(&b.n) }
func (b *Buffer) release() {
	atomic.AddInt32(&b.n, -1)
}

func (b *Buffer) Len() int { return len(b.data) }
func (b *Buffer) Cap() int { return cap(b.data) }

// IsFreed reports whether Free has already run.
func (b *Buffer) IsFreed() bool { return atomic.LoadInt32(&b.freed) != 0 }

// Free transitions the freed flag 0 -> 1 exactly once; subsequent calls are
// no-ops, matching I3. Reports whether this call performed the transition.
func (b *Buffer) Free() bool {
	return atomic.CompareAndSwapInt32(&b.freed, 0, 1)
}

// Index returns the byte at i as a U8 (same Open Question decision as
// String.Index).
func (b *Buffer) Index(i int) Value { return U8(b.data[i]) }

// SetIndex overwrites the byte at i.
func (b *Buffer) SetIndex(i int, v Value) { b.data[i] = byte(v.Int()) }

func (b *Buffer) String() string { return string(b.data) }

// Bytes exposes the underlying slice for collaborator modules (FFI,
// sockets) that need direct access; callers must not retain it past the
// Buffer's lifetime.
func (b *Buffer) Bytes() []byte { return b.data }
