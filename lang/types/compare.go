package types

// Less, LessEq, Greater, GreaterEq implement <, <=, >, >=: both operands
// coerce to F64 for ordering (spec section 4.5), unlike == / != which
// compare strings by byte content and heap values by identity.
func Less(a, b Value) (Value, error)      { return compareOp(a, b, func(x, y float64) bool { return x < y }) }
func LessEq(a, b Value) (Value, error)    { return compareOp(a, b, func(x, y float64) bool { return x <= y }) }
func Greater(a, b Value) (Value, error)   { return compareOp(a, b, func(x, y float64) bool { return x > y }) }
func GreaterEq(a, b Value) (Value, error) { return compareOp(a, b, func(x, y float64) bool { return x >= y }) }

func compareOp(a, b Value, op func(x, y float64) bool) (Value, error) {
	if _, ok := rankOf(a.Kind); !ok {
		return Value{}, typeError("unsupported operand type for comparison: %s", a.Type())
	}
	if _, ok := rankOf(b.Kind); !ok {
		return Value{}, typeError("unsupported operand type for comparison: %s", b.Type())
	}
	return Bool(op(a.AsF64(), b.AsF64())), nil
}
