package types_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/require"
)

func TestUpvalueOpenReadsLiveStack(t *testing.T) {
	reg := types.I32(10)
	uv := &types.Upvalue{Open: true, Stack: &reg}
	require.EqualValues(t, 10, uv.Get().Int())

	reg = types.I32(20)
	require.EqualValues(t, 20, uv.Get().Int(), "open upvalue must track the live register")
}

func TestUpvalueCloseFreezesCurrentValue(t *testing.T) {
	reg := types.I32(1)
	uv := &types.Upvalue{Open: true, Stack: &reg}
	uv.Set(types.I32(42))
	require.EqualValues(t, 42, reg.Int(), "Set on an open upvalue writes through to the stack")

	uv.Close()
	require.False(t, uv.Open)
	reg = types.I32(999)
	require.EqualValues(t, 42, uv.Get().Int(), "closed upvalue no longer tracks the stack slot")
}

func TestClosureStringUsesProtoName(t *testing.T) {
	proto := &compiler.Prototype{Name: "counter"}
	c := types.NewClosure(proto, nil)
	require.Contains(t, c.String(), "counter")
}

func TestClosureAnonymousString(t *testing.T) {
	proto := &compiler.Prototype{}
	c := types.NewClosure(proto, nil)
	require.Contains(t, c.String(), "anonymous")
}
