package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/parser"
	"github.com/hemlang/hemlock/lang/resolver"
)

// Disasm compiles each file in args and prints its disassembled bytecode.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, file := range args {
		if err := disasmFile(stdio, file, c.Color); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}
	}
	return nil
}

func disasmFile(stdio mainer.Stdio, file string, colored bool) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	chunk, err := parser.ParseChunk(file, src)
	if err != nil {
		return err
	}
	if err := resolver.Resolve(chunk); err != nil {
		return err
	}
	mod, err := compiler.Compile(chunk)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdio.Stdout, "; module %s\n", mod.Name)
	if colored {
		fmt.Fprint(stdio.Stdout, compiler.DisassembleColor(mod.Main))
	} else {
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(mod.Main))
	}
	return nil
}
