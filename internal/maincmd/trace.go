package maincmd

import (
	"context"
	"log/slog"

	"github.com/mna/mainer"

	"github.com/mna/covm/script"
	"github.com/mna/covm/vm"
)

func (c *Cmd) Trace(ctx context.Context, stdio mainer.Stdio, args []string) error {
	logger := slog.New(slog.NewTextHandler(stdio.Stdout, nil))
	return runProgram(stdio, c.Entry, args[0], logger, func(e *vm.Engine, instr script.Instruction) {
		ctxt := e.CurrentContext()
		depth, ip := 0, 0
		if ctxt != nil {
			depth = ctxt.Stack.Count()
			ip = ctxt.InstructionPointer
		}
		logger.Info("step", "opcode", instr.Opcode.String(), "ip", ip, "depth", depth)
	})
}
