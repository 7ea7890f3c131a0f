package compiler

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Disassemble renders p and all its nested Prototypes as a human-readable
// instruction listing, in the one-line-per-instruction style of a
// traditional bytecode dump (teacher's own textual asm dumps follow the same
// "pc  OPNAME  operands" shape).
func Disassemble(p *Prototype) string {
	return disassemble(p, false)
}

// DisassembleColor is Disassemble with the opcode mnemonic highlighted for
// a terminal, for the CLI's disasm --color mode.
func DisassembleColor(p *Prototype) string {
	return disassemble(p, true)
}

// opColor is forced on (EnableColor) rather than left to fatih/color's own
// isatty detection: --color is an explicit opt-in from the caller, and
// DisassembleColor's output is as likely to be captured to a file or pipe
// as printed to a terminal directly.
var opColor = newOpColor()

func newOpColor() func(a ...interface{}) string {
	c := color.New(color.FgCyan, color.Bold)
	c.EnableColor()
	return c.SprintFunc()
}

func disassemble(p *Prototype, colored bool) string {
	var b strings.Builder
	disasmProto(&b, p, 0, colored)
	return b.String()
}

func disasmProto(b *strings.Builder, p *Prototype, depth int, colored bool) {
	indent := strings.Repeat("  ", depth)
	name := p.Name
	if name == "" {
		name = "<anonymous>"
	}
	fmt.Fprintf(b, "%sfunction %s(%d params, %d regs)\n", indent, name, p.NumParams, p.MaxStack)
	for pc, instr := range p.Code {
		op := instr.Op()
		line := int32(0)
		if pc < len(p.Lines) {
			line = p.Lines[pc]
		}
		opName := op.String()
		if colored {
			opName = opColor(opName)
		}
		fmt.Fprintf(b, "%s  %4d  [%4d]  %-10s  %s\n", indent, pc, line, opName, disasmOperands(p, instr))
	}
	for i, k := range p.Constants {
		fmt.Fprintf(b, "%s  ; K(%d) = %s\n", indent, i, disasmConst(k))
	}
	for _, u := range p.Upvalues {
		kind := "upval"
		if u.FromParentLocal {
			kind = "local"
		}
		fmt.Fprintf(b, "%s  ; upvalue %q <- parent %s %d\n", indent, u.Name, kind, u.Index)
	}
	for _, child := range p.Prototypes {
		disasmProto(b, child, depth+1, colored)
	}
}

func disasmOperands(p *Prototype, i Instr) string {
	switch i.Op().Format() {
	case FormatABC:
		return fmt.Sprintf("A=%d B=%d C=%d", i.A(), i.B(), i.C())
	case FormatAB:
		return fmt.Sprintf("A=%d B=%d", i.A(), i.B())
	case FormatA:
		return fmt.Sprintf("A=%d", i.A())
	case FormatABx:
		return fmt.Sprintf("A=%d Bx=%d", i.A(), i.Bx())
	case FormatAsBx:
		return fmt.Sprintf("A=%d sBx=%d", i.A(), i.SBx())
	case FormatsAx:
		return fmt.Sprintf("sAx=%d", i.SAx())
	}
	return ""
}

func disasmConst(k Const) string {
	switch k.Kind {
	case ConstNull:
		return "null"
	case ConstBool:
		return fmt.Sprintf("%t", k.Bool)
	case ConstInt:
		return fmt.Sprintf("%d", k.Int)
	case ConstFloat:
		return fmt.Sprintf("%g", k.Float)
	case ConstString:
		return fmt.Sprintf("%q", k.Str)
	}
	return "?"
}
