package compiler_test

import (
	"strings"
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/stretchr/testify/require"
)

func TestDisassembleListsInstructionsAndConstants(t *testing.T) {
	m := sampleModule()
	out := compiler.Disassemble(m.Main)
	require.Contains(t, out, "function main")
	require.Contains(t, out, "LOADK")
	require.Contains(t, out, "ADD")
	require.Contains(t, out, `K(0) = "hello"`)
	require.Contains(t, out, "function inner")
}

func TestDisassembleColorHighlightsMnemonics(t *testing.T) {
	m := sampleModule()
	plain := compiler.Disassemble(m.Main)
	colored := compiler.DisassembleColor(m.Main)
	require.NotEqual(t, plain, colored)
	require.True(t, strings.Contains(colored, "\x1b["), "colored output should carry ANSI escapes")
}
