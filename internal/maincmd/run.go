package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/hemlang/hemlock/internal/config"
	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/machine"
	"github.com/hemlang/hemlock/lang/parser"
	"github.com/hemlang/hemlock/lang/resolver"
)

// Run compiles and executes each file in args, in order, sharing nothing
// between files (each gets its own Thread and Globals).
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	for _, file := range args {
		if err := runFile(stdio, cfg, file); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}
	}
	return nil
}

func runFile(stdio mainer.Stdio, cfg config.Config, file string) error {
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

	th := machine.NewThread()
	th.Stdout = stdio.Stdout
	th.Stderr = stdio.Stderr
	th.MaxCallDepth = cfg.MaxCallDepth
	th.MaxSteps = cfg.StepBudget

	_, err = th.RunModule(mod)
	return err
}
