package types

import "sync/atomic"

// String is a refcounted, immutable byte sequence (spec section 3: "String
// | refcounted bytes + length"). Unlike the teacher's String (a plain Go
// string relying on GC), this one is a heap object with an explicit count
// so Release can be asserted against in refcount-soundness tests.
type String struct {
	n   int32
	buf string
}

// NewString wraps s in a refcounted String with refcount 1.
func NewString(s string) Value {
	return fromHeap(KindString, &String{n: 1, buf: s})
}

func (s *String) retain()        { atomic.AddInt32(&s.n, 1) }
func (s *String) refcount() int32 { return atomic.LoadInt32(&s.n) }
func (s *String) release() {
	// A String holds no Values of its own, so releasing it to zero has
	// nothing further to recursively release (I2 is trivially satisfied).
	atomic.AddInt32(&s.n, -1)
}

func (s *String) Len() int      { return len(s.buf) }
func (s *String) bytes() string { return s.buf }
func (s *String) String() string { return s.buf }

// Index returns the byte at i as a U8 (Open Question decision: Buffer and
// String indexing both yield U8, not a 1-byte string).
func (s *String) Index(i int) Value { return U8(s.buf[i]) }

// Concat returns a new String holding the concatenation of a and b's bytes,
// per spec section 4.5's `+` on two strings.
func Concat(a, b *String) Value {
	return NewString(a.buf + b.buf)
}
