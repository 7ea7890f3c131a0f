package machine

import (
	"fmt"

	"github.com/hemlang/hemlock/lang/types"
)

// exception is the value an OpThrow, or any internal runtime fault
// (arithmetic, indexing, a failed assert, ...), is currently unwinding
// with. Both cases end up as one of these so try/catch has a single path
// to handle regardless of whether the guarded code said `throw` explicitly
// or merely divided by zero: spec section 7 treats RuntimeError and
// UserException as the two kinds of in-flight exception a handler sees,
// and this implementation represents both as a catchable Value.
type exception struct {
	value types.Value
}

func (e *exception) Error() string { return e.value.String() }

// errorValue builds the Object a runtime fault is represented as once it
// starts unwinding as a catchable exception (spec section 7's error
// kinds become {kind, message} fields rather than a distinct Go type, so
// hemlock-level catch code can inspect e.kind / e.message like any other
// object).
func errorValue(kind, message string) types.Value {
	v := types.NewObject("Error")
	o := v.AsObject()
	o.Set("kind", types.NewString(kind))
	o.Set("message", types.NewString(message))
	return v
}

func (th *Thread) raise(kind, format string, args ...interface{}) *exception {
	return &exception{value: errorValue(kind, fmt.Sprintf(format, args...))}
}

func (th *Thread) raiseRuntimeError(e *types.RuntimeError) *exception {
	return &exception{value: errorValue(e.Kind, e.Message)}
}
