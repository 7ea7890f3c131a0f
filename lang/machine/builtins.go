package machine

import (
	"fmt"

	"github.com/hemlang/hemlock/lang/types"
)

// StandardBuiltins returns the base set of built-in functions th starts
// with, grounded on the small standard library spec section 6 sketches
// (print, len, type, assert) plus push, the array-mutation primitive the
// aggregate opcodes don't already cover as a single-register op (OpArrPush
// only handles the literal-construction case). print closes over th and
// reads th.Stdout on every call, so it writes to wherever the thread's
// output points at the time of the call.
func StandardBuiltins(th *Thread) map[string]types.Value {
	b := map[string]types.Value{
		"print":  types.NewBuiltin("print", func(args []types.Value) (types.Value, error) { return builtinPrint(th, args) }),
		"len":    types.NewBuiltin("len", builtinLen),
		"type":   types.NewBuiltin("type", builtinType),
		"assert": types.NewBuiltin("assert", builtinAssert),
		"push":   types.NewBuiltin("push", builtinPush),
	}
	for name, fn := range channelBuiltins() {
		b[name] = fn
	}
	return b
}

func builtinPrint(th *Thread, args []types.Value) (types.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += " "
		}
		line += p
	}
	fmt.Fprintln(th.Stdout, line)
	return types.Null, nil
}

func builtinLen(args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, &types.RuntimeError{Kind: "CallError", Message: "len expects 1 argument"}
	}
	a := args[0]
	switch a.Kind {
	case types.KindString:
		return types.I32(int32(a.AsString().Len())), nil
	case types.KindBuffer:
		return types.I32(int32(a.AsBuffer().Len())), nil
	case types.KindArray:
		return types.I32(int32(a.AsArray().Len())), nil
	case types.KindObject:
		return types.I32(int32(a.AsObject().Len())), nil
	}
	return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "len: unsupported operand " + a.Type()}
}

func builtinType(args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, &types.RuntimeError{Kind: "CallError", Message: "type expects 1 argument"}
	}
	return types.NewString(args[0].Type()), nil
}

func builtinAssert(args []types.Value) (types.Value, error) {
	if len(args) == 0 {
		return types.Value{}, &types.RuntimeError{Kind: "CallError", Message: "assert expects at least 1 argument"}
	}
	if args[0].Truth() {
		return types.Null, nil
	}
	msg := "assertion failed"
	if len(args) > 1 {
		msg = args[1].String()
	}
	return types.Value{}, &types.RuntimeError{Kind: "AssertionFailed", Message: msg}
}

func builtinPush(args []types.Value) (types.Value, error) {
	if len(args) != 2 || args[0].Kind != types.KindArray {
		return types.Value{}, &types.RuntimeError{Kind: "TypeError", Message: "push expects (array, value)"}
	}
	args[0].AsArray().Push(args[1])
	return args[0], nil
}
