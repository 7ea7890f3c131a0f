package compiler_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/stretchr/testify/require"
)

func TestInstrRoundTripABC(t *testing.T) {
	i := compiler.MakeABC(compiler.OpAdd, 1, 2, 3)
	require.Equal(t, compiler.OpAdd, i.Op())
	require.Equal(t, uint8(1), i.A())
	require.Equal(t, uint8(2), i.B())
	require.Equal(t, uint8(3), i.C())
}

func TestInstrRoundTripAB(t *testing.T) {
	i := compiler.MakeAB(compiler.OpMove, 200, 57)
	require.Equal(t, compiler.OpMove, i.Op())
	require.Equal(t, uint8(200), i.A())
	require.Equal(t, uint8(57), i.B())
}

func TestInstrRoundTripA(t *testing.T) {
	i := compiler.MakeA(compiler.OpClose, 42)
	require.Equal(t, compiler.OpClose, i.Op())
	require.Equal(t, uint8(42), i.A())
}

func TestInstrRoundTripABx(t *testing.T) {
	i := compiler.MakeABx(compiler.OpLoadK, 5, 65000)
	require.Equal(t, compiler.OpLoadK, i.Op())
	require.Equal(t, uint8(5), i.A())
	require.Equal(t, uint16(65000), i.Bx())
}

func TestInstrRoundTripAsBx(t *testing.T) {
	for _, sbx := range []int32{0, 1, -1, 32767, -32768} {
		i := compiler.MakeAsBx(compiler.OpJumpIf, 9, sbx)
		require.Equal(t, compiler.OpJumpIf, i.Op())
		require.Equal(t, uint8(9), i.A())
		require.Equal(t, sbx, i.SBx())
	}
}

func TestInstrRoundTripsAx(t *testing.T) {
	for _, sax := range []int32{0, 1, -1, 8388607, -8388608} {
		i := compiler.MakesAx(compiler.OpJump, sax)
		require.Equal(t, compiler.OpJump, i.Op())
		require.Equal(t, sax, i.SAx())
	}
}

func TestOpFormatTable(t *testing.T) {
	require.Equal(t, compiler.FormatABC, compiler.OpAdd.Format())
	require.Equal(t, compiler.FormatAB, compiler.OpMove.Format())
	require.Equal(t, compiler.FormatA, compiler.OpClose.Format())
	require.Equal(t, compiler.FormatABx, compiler.OpLoadK.Format())
	require.Equal(t, compiler.FormatAsBx, compiler.OpJumpIf.Format())
	require.Equal(t, compiler.FormatsAx, compiler.OpJump.Format())
}

// OpSpawn and OpDefer both carry a snapshotted call's argument count, so
// both need a format wide enough for a third operand beyond the call's base
// register: OpSpawn packs dest/base/argc into ABC, OpDefer packs base/argc
// into AB.
func TestOpSpawnAndOpDeferCarryArgCount(t *testing.T) {
	require.Equal(t, compiler.FormatABC, compiler.OpSpawn.Format())
	i := compiler.MakeABC(compiler.OpSpawn, 0, 1, 3)
	require.Equal(t, uint8(3), i.C())

	require.Equal(t, compiler.FormatAB, compiler.OpDefer.Format())
	d := compiler.MakeAB(compiler.OpDefer, 2, 4)
	require.Equal(t, uint8(2), d.A())
	require.Equal(t, uint8(4), d.B())
}
