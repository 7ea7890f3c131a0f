package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/hemlang/hemlock/lang/scanner"
	"github.com/hemlang/hemlock/lang/token"
)

// Tokenize runs the scanner over each file in args and prints one line per
// token: its position, its kind, and its literal text when it has one.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, file := range args {
		if err := tokenizeFile(stdio, file); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var errs scanner.ErrorList
	var sc scanner.Scanner
	sc.Init(src, &errs)

	for {
		tok, pos := sc.Scan()
		fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tok)
		if sc.Lit != "" {
			fmt.Fprintf(stdio.Stdout, " %q", sc.Lit)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok == token.EOF {
			break
		}
	}

	errs.Sort()
	if err := errs.Err(); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
