package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/covm/asm"
	"github.com/mna/covm/script"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	raw, err := readProgram(stdio, args[0])
	if err != nil {
		return printError(stdio, fmt.Errorf("reading %s: %w", args[0], err))
	}
	fmt.Fprint(stdio.Stdout, asm.Disassemble(script.New(raw)))
	return nil
}
