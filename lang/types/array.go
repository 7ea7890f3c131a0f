package types

import "sync/atomic"

// Array is a refcounted, amortised-O(1)-append dynamic sequence of Values
// (spec section 3). Appended elements are retained; releasing the array
// releases every element in turn (I2).
type Array struct {
	n     int32
	elems []Value
}

// NewArray returns an empty Array with the given capacity hint
// preallocated, refcount 1.
func NewArray(capHint int) Value {
	return fromHeap(KindArray, &Array{n: 1, elems: make([]Value, 0, capHint)})
}

func (a *Array) retain()        { atomic.AddInt32(&a.n, 1) }
func (a *Array) refcount() int32 { return atomic.LoadInt32(&a.n) }
func (a *Array) release() {
	if atomic.AddInt32(&a.n, -1) == 0 {
		for _, e := range a.elems {
			e.Release()
		}
		a.elems = nil
	}
}

func (a *Array) Len() int { return len(a.elems) }

func (a *Array) Index(i int) Value { return a.elems[i] }

// SetIndex overwrites slot i, releasing the value it displaces and
// retaining v.
func (a *Array) SetIndex(i int, v Value) {
	v.Retain()
	a.elems[i].Release()
	a.elems[i] = v
}

// Push appends v, retaining it.
func (a *Array) Push(v Value) {
	v.Retain()
	a.elems = append(a.elems, v)
}

func (a *Array) String() string {
	s := "["
	for i, e := range a.elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}
