package types_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarsAreNotHeap(t *testing.T) {
	for _, v := range []types.Value{
		types.Null, types.Bool(true), types.I32(1), types.I64(1),
		types.U64(1), types.F32(1), types.F64(1), types.RuneV('a'),
		types.Ptr(0x1000, "widget"),
	} {
		assert.EqualValues(t, 0, v.Refcount(), "%s should not be heap-backed", v.Type())
	}
}

func TestTruthiness(t *testing.T) {
	assert.False(t, types.Null.Truth())
	assert.False(t, types.Bool(false).Truth())
	assert.True(t, types.Bool(true).Truth())
	assert.False(t, types.I32(0).Truth())
	assert.True(t, types.I32(1).Truth())
	assert.False(t, types.F64(0).Truth())
	assert.False(t, types.NewString("").Truth())
	assert.True(t, types.NewString("x").Truth())
}

func TestEqualNumericWidening(t *testing.T) {
	require.True(t, types.Equal(types.I32(2), types.F64(2.0)))
	require.True(t, types.Equal(types.I64(1<<40), types.F64(float64(int64(1)<<40))))
	require.False(t, types.Equal(types.I32(2), types.I32(3)))
}

func TestEqualNullAndBoolAreExclusive(t *testing.T) {
	require.True(t, types.Equal(types.Null, types.Null))
	require.False(t, types.Equal(types.Null, types.Bool(false)))
	require.False(t, types.Equal(types.Bool(true), types.I32(1)))
}

func TestEqualStringsByByteContent(t *testing.T) {
	a := types.NewString("hello")
	b := types.NewString("hello")
	c := types.NewString("world")
	require.True(t, types.Equal(a, b))
	require.False(t, types.Equal(a, c))
}

func TestEqualHeapValuesByIdentity(t *testing.T) {
	arr1 := types.NewArray(0)
	arr2 := types.NewArray(0)
	require.True(t, types.Equal(arr1, arr1))
	require.False(t, types.Equal(arr1, arr2))
}

func TestRetainReleaseBalance(t *testing.T) {
	s := types.NewString("hemlock")
	require.EqualValues(t, 1, s.Refcount())
	s.Retain()
	require.EqualValues(t, 2, s.Refcount())
	s.Release()
	require.EqualValues(t, 1, s.Refcount())
}

func TestAsF64Widening(t *testing.T) {
	assert.Equal(t, 5.0, types.I32(5).AsF64())
	assert.Equal(t, 5.0, types.U64(5).AsF64())
	assert.Equal(t, 5.5, types.F64(5.5).AsF64())
}
