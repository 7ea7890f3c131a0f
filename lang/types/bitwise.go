package types

// bitRank is rankOf restricted to the two integer ranks bitwise operators
// accept; float operands are a TypeError (spec section 4.5's widening
// ladder only governs +-*/ and **, not bitwise ops, which this VM -- like
// the teacher's own numeric tower -- simply refuses on floats).
func bitRank(a, b Value) (int, bool) {
	ra, ok := rankOf(a.Kind)
	if !ok || ra == rankF64 {
		return 0, false
	}
	rb, ok := rankOf(b.Kind)
	if !ok || rb == rankF64 {
		return 0, false
	}
	if ra > rb {
		return ra, true
	}
	return rb, true
}

func bitwise(a, b Value, sym string, op func(x, y int64) int64) (Value, error) {
	rank, ok := bitRank(a, b)
	if !ok {
		return Value{}, typeError("unsupported operand types for %s: %s and %s", sym, a.Type(), b.Type())
	}
	r := op(a.Int(), b.Int())
	if rank == rankI64 {
		return I64(r), nil
	}
	return I32(int32(r)), nil
}

func BAnd(a, b Value) (Value, error) { return bitwise(a, b, "&", func(x, y int64) int64 { return x & y }) }
func BOr(a, b Value) (Value, error)  { return bitwise(a, b, "|", func(x, y int64) int64 { return x | y }) }
func BXor(a, b Value) (Value, error) { return bitwise(a, b, "^", func(x, y int64) int64 { return x ^ y }) }
func Shl(a, b Value) (Value, error) {
	return bitwise(a, b, "<<", func(x, y int64) int64 { return x << uint(y) })
}
func Shr(a, b Value) (Value, error) {
	return bitwise(a, b, ">>", func(x, y int64) int64 { return x >> uint(y) })
}

func BNot(a Value) (Value, error) {
	rank, ok := rankOf(a.Kind)
	if !ok || rank == rankF64 {
		return Value{}, typeError("unsupported operand type for ~: %s", a.Type())
	}
	r := ^a.Int()
	if rank == rankI64 {
		return I64(r), nil
	}
	return I32(int32(r)), nil
}

// Neg implements unary -. Integer ranks negate via Int(), not AsF64(), for
// the same reason arith() does in arith.go.
func Neg(a Value) (Value, error) {
	rank, ok := rankOf(a.Kind)
	if !ok {
		return Value{}, typeError("unsupported operand type for unary -: %s", a.Type())
	}
	if rank == rankF64 {
		return F64(-a.AsF64()), nil
	}
	r := -a.Int()
	if rank == rankI64 {
		return I64(r), nil
	}
	return I32(int32(r)), nil
}
