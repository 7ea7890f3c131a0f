package types

import "sync/atomic"

// Object is a refcounted, insertion-ordered map from field name to Value,
// carrying a type tag (spec section 3: "Object | refcounted ordered map
// (field-name -> Value) with type tag"). The tag is an opaque label (e.g.
// a class/struct name set by the surface language) that this package
// never interprets.
type Object struct {
	n     int32
	tag   string
	keys  []string
	index map[string]int
	vals  []Value
}

// NewObject returns an empty Object with the given type tag, refcount 1.
func NewObject(tag string) Value {
	return fromHeap(KindObject, &Object{n: 1, tag: tag, index: make(map[string]int)})
}

func (o *Object) retain()        { atomic.AddInt32(&o.n, 1) }
func (o *Object) refcount() int32 { return atomic.LoadInt32(&o.n) }
func (o *Object) release() {
	if atomic.AddInt32(&o.n, -1) == 0 {
		for _, v := range o.vals {
			v.Release()
		}
		o.keys, o.vals, o.index = nil, nil, nil
	}
}

func (o *Object) Len() int    { return len(o.keys) }
func (o *Object) Tag() string { return o.tag }

// Get returns the field's value and whether it was present.
func (o *Object) Get(name string) (Value, bool) {
	i, ok := o.index[name]
	if !ok {
		return Value{}, false
	}
	return o.vals[i], true
}

// Set inserts or overwrites a field, retaining v and releasing whatever
// value it displaces.
func (o *Object) Set(name string, v Value) {
	v.Retain()
	if i, ok := o.index[name]; ok {
		o.vals[i].Release()
		o.vals[i] = v
		return
	}
	o.index[name] = len(o.keys)
	o.keys = append(o.keys, name)
	o.vals = append(o.vals, v)
}

// Keys returns the field names in insertion order. Callers must not modify
// the result.
func (o *Object) Keys() []string { return o.keys }

func (o *Object) String() string {
	s := "{"
	for i, k := range o.keys {
		if i > 0 {
			s += ", "
		}
		s += k + ": " + o.vals[i].String()
	}
	return s + "}"
}
