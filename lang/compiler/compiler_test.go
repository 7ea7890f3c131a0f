package compiler_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/parser"
	"github.com/hemlang/hemlock/lang/resolver"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Module {
	t.Helper()
	chunk, err := parser.ParseChunk("test.hk", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(chunk))
	mod, err := compiler.Compile(chunk)
	require.NoError(t, err)
	return mod
}

func opsOf(p *compiler.Prototype) []compiler.Op {
	ops := make([]compiler.Op, len(p.Code))
	for i, instr := range p.Code {
		ops[i] = instr.Op()
	}
	return ops
}

func TestCompileArithmeticMix(t *testing.T) {
	mod := mustCompile(t, `let x = 1 + 2 * 3;`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpMul)
	require.Contains(t, ops, compiler.OpAdd)
	// multiplication binds tighter, so MUL must precede ADD in emission order.
	var mulAt, addAt int = -1, -1
	for i, op := range ops {
		if op == compiler.OpMul && mulAt == -1 {
			mulAt = i
		}
		if op == compiler.OpAdd && addAt == -1 {
			addAt = i
		}
	}
	require.Less(t, mulAt, addAt)
}

func TestCompileIfElseBranchesPatched(t *testing.T) {
	mod := mustCompile(t, `
		let x = 0;
		if (x == 0) {
			x = 1;
		} else {
			x = 2;
		}
	`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpJumpIfNo)
	require.Contains(t, ops, compiler.OpJump)
	// every jump target must land inside the code, never past the end.
	for pc, instr := range mod.Main.Code {
		switch instr.Op() {
		case compiler.OpJump:
			target := pc + 1 + int(instr.SAx())
			require.GreaterOrEqual(t, target, 0)
			require.LessOrEqual(t, target, len(mod.Main.Code))
		case compiler.OpJumpIfNo, compiler.OpJumpIf:
			target := pc + 1 + int(instr.SBx())
			require.GreaterOrEqual(t, target, 0)
			require.LessOrEqual(t, target, len(mod.Main.Code))
		}
	}
}

func TestCompileWhileLoopBacksEdge(t *testing.T) {
	mod := mustCompile(t, `
		let i = 0;
		while (i < 10) {
			i = i + 1;
		}
	`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpLt)
	require.Contains(t, ops, compiler.OpAdd)

	foundBackEdge := false
	for pc, instr := range mod.Main.Code {
		if instr.Op() == compiler.OpJump {
			target := pc + 1 + int(instr.SAx())
			if target < pc {
				foundBackEdge = true
			}
		}
	}
	require.True(t, foundBackEdge, "while loop must emit a backward jump to its condition")
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	mod := mustCompile(t, `
		fn counter() {
			let n = 0;
			fn inner() {
				n = n + 1;
				return n;
			}
			return inner;
		}
	`)
	require.Len(t, mod.Main.Prototypes, 1)
	outer := mod.Main.Prototypes[0]
	require.Len(t, outer.Prototypes, 1)
	inner := outer.Prototypes[0]
	require.Len(t, inner.Upvalues, 1)
	require.True(t, inner.Upvalues[0].FromParentLocal)

	innerOps := opsOf(inner)
	require.Contains(t, innerOps, compiler.OpGetUpval)
	require.Contains(t, innerOps, compiler.OpSetUpval)
}

func TestCompileForInOverArray(t *testing.T) {
	mod := mustCompile(t, `
		let total = 0;
		for (x in [1, 2, 3]) {
			total = total + x;
		}
	`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpNewArray)
	require.Contains(t, ops, compiler.OpGetIndex)
	require.Contains(t, ops, compiler.OpLen)
}

func TestCompileTryCatchFinallyEmitsHandlers(t *testing.T) {
	mod := mustCompile(t, `
		try {
			throw "boom";
		} catch (e) {
			print(e);
		} finally {
			print("done");
		}
	`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpPushHandler)
	require.Contains(t, ops, compiler.OpPopHandler)
	require.Contains(t, ops, compiler.OpThrow)
	require.Contains(t, ops, compiler.OpCatch)
}

func TestCompileShortCircuitAnd(t *testing.T) {
	mod := mustCompile(t, `let ok = (1 < 2) && (3 < 4);`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpJumpIfNo)
}

func TestCompileCallContiguousRegisters(t *testing.T) {
	mod := mustCompile(t, `
		fn add(a, b) { return a + b; }
		let r = add(1, 2);
	`)
	ops := opsOf(mod.Main)
	require.Contains(t, ops, compiler.OpCall)
}
