package types_test

import (
	"math"
	"testing"

	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/require"
)

func TestAddWidensToF64(t *testing.T) {
	v, err := types.Add(types.I32(1), types.F64(2.5))
	require.NoError(t, err)
	require.Equal(t, types.KindF64, v.Kind)
	require.Equal(t, 3.5, v.Float())
}

func TestAddWidensToI64(t *testing.T) {
	v, err := types.Add(types.I64(1), types.I32(2))
	require.NoError(t, err)
	require.Equal(t, types.KindI64, v.Kind)
	require.EqualValues(t, 3, v.Int())
}

func TestAddDefaultsToI32(t *testing.T) {
	v, err := types.Add(types.I32(1), types.I32(2))
	require.NoError(t, err)
	require.Equal(t, types.KindI32, v.Kind)
	require.EqualValues(t, 3, v.Int())
}

func TestAddConcatenatesStrings(t *testing.T) {
	v, err := types.Add(types.NewString("foo"), types.NewString("bar"))
	require.NoError(t, err)
	require.Equal(t, "foobar", v.String())
}

func TestAddMixedNonNumericIsTypeError(t *testing.T) {
	_, err := types.Add(types.NewString("x"), types.I32(1))
	require.Error(t, err)
	rerr, ok := err.(*types.RuntimeError)
	require.True(t, ok)
	require.Equal(t, "TypeError", rerr.Kind)
}

func TestDivAlwaysProducesF64(t *testing.T) {
	v, err := types.Div(types.I32(100), types.I32(4))
	require.NoError(t, err)
	require.Equal(t, types.KindF64, v.Kind)
	require.Equal(t, 25.0, v.Float())
}

func TestDivIntegerByZeroYieldsInfinity(t *testing.T) {
	v, err := types.Div(types.I32(1), types.I32(0))
	require.NoError(t, err)
	require.True(t, math.IsInf(v.Float(), 1))
}

func TestModRequiresIntegers(t *testing.T) {
	v, err := types.Mod(types.I32(17), types.I32(5))
	require.NoError(t, err)
	require.Equal(t, types.KindI64, v.Kind)
	require.EqualValues(t, 2, v.Int())

	_, err = types.Mod(types.F64(1), types.I32(2))
	require.Error(t, err)
}

func TestModByZeroIsDivisionByZero(t *testing.T) {
	_, err := types.Mod(types.I32(1), types.I32(0))
	require.Error(t, err)
	rerr, ok := err.(*types.RuntimeError)
	require.True(t, ok)
	require.Equal(t, "DivisionByZero", rerr.Kind)
}

func TestPowWidening(t *testing.T) {
	v, err := types.Pow(types.I32(2), types.I32(10))
	require.NoError(t, err)
	require.Equal(t, types.KindI32, v.Kind)
	require.EqualValues(t, 1024, v.Int())
}

// Above 2^53, float64 can't represent every int64 exactly; integer +/-/*/**
// must stay in integer arithmetic rather than round-tripping through AsF64.
func TestIntegerArithKeepsFullInt64Precision(t *testing.T) {
	v, err := types.Add(types.I64(9007199254740993), types.I64(1))
	require.NoError(t, err)
	require.EqualValues(t, 9007199254740994, v.Int())

	v, err = types.Sub(types.I64(9007199254740993), types.I64(1))
	require.NoError(t, err)
	require.EqualValues(t, 9007199254740992, v.Int())

	v, err = types.Mul(types.I64(4503599627370497), types.I64(2))
	require.NoError(t, err)
	require.EqualValues(t, 9007199254740994, v.Int())

	v, err = types.Neg(types.I64(9007199254740993))
	require.NoError(t, err)
	require.EqualValues(t, -9007199254740993, v.Int())

	v, err = types.Pow(types.I64(2), types.I64(62))
	require.NoError(t, err)
	require.EqualValues(t, int64(1)<<62, v.Int())
}
