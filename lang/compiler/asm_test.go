package compiler_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/stretchr/testify/require"
)

func sampleModule() *compiler.Module {
	proto := &compiler.Prototype{
		Name:      "main",
		NumParams: 0,
		MaxStack:  3,
		Code: []compiler.Instr{
			compiler.MakeABx(compiler.OpLoadK, 0, 0),
			compiler.MakeAsBx(compiler.OpLoadInt, 1, -5),
			compiler.MakeABC(compiler.OpAdd, 2, 0, 1),
			compiler.MakeA(compiler.OpReturn, 2),
		},
		Lines: []int32{1, 1, 2, 2},
		Constants: []compiler.Const{
			{Kind: compiler.ConstString, Str: "hello"},
		},
		Upvalues: nil,
		Prototypes: []*compiler.Prototype{
			{
				Name:      "inner",
				NumParams: 1,
				MaxStack:  1,
				Code:      []compiler.Instr{compiler.MakeA(compiler.OpReturn, 0)},
				Lines:     []int32{3},
				Constants: []compiler.Const{
					{Kind: compiler.ConstFloat, Float: 3.5},
					{Kind: compiler.ConstInt, Int: -42},
					{Kind: compiler.ConstBool, Bool: true},
					{Kind: compiler.ConstNull},
				},
				Upvalues: []compiler.UpvalDesc{
					{FromParentLocal: true, Index: 2, Name: "x"},
				},
			},
		},
	}
	return &compiler.Module{Name: "sample", Main: proto}
}

func TestModuleRoundTrip(t *testing.T) {
	m := sampleModule()
	data, err := compiler.Encode(m)
	require.NoError(t, err)

	require.Equal(t, compiler.ModuleMagic, readU32(data[0:4]))

	decoded, err := compiler.Decode(data)
	require.NoError(t, err)

	require.Equal(t, m.Name, decoded.Name)
	require.Equal(t, m.Main.Code, decoded.Main.Code)
	require.Equal(t, m.Main.Lines, decoded.Main.Lines)
	require.Equal(t, m.Main.Constants, decoded.Main.Constants)
	require.Len(t, decoded.Main.Prototypes, 1)
	require.Equal(t, m.Main.Prototypes[0].Upvalues, decoded.Main.Prototypes[0].Upvalues)
	require.Equal(t, m.Main.Prototypes[0].Constants, decoded.Main.Prototypes[0].Constants)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := compiler.Decode([]byte{0, 0, 0, 0, 1, 0})
	require.Error(t, err)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	m := sampleModule()
	data, err := compiler.Encode(m)
	require.NoError(t, err)
	// version is the two bytes right after the magic.
	data[4] = 0xff
	data[5] = 0xff
	_, err = compiler.Decode(data)
	require.Error(t, err)
}

func readU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
