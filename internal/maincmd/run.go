package maincmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mna/mainer"

	"github.com/mna/covm/asm"
	"github.com/mna/covm/script"
	"github.com/mna/covm/vm"
)

func readAll(stdio mainer.Stdio) ([]byte, error) {
	return io.ReadAll(stdio.Stdin)
}

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return runProgram(stdio, c.Entry, args[0], slog.Default(), nil)
}

// runProgram assembles the program at path and runs it to completion,
// printing the final state, the result stack (on HALT), or the uncaught
// exception (on FAULT). The engine's OnFault/OnStateChanged hooks log
// through logger (§5's ambient logging default). If trace is non-nil, it is
// additionally installed as a post-instruction hook.
func runProgram(stdio mainer.Stdio, entry int, path string, logger *slog.Logger, trace func(*vm.Engine, script.Instruction)) error {
	src, err := readProgram(stdio, path)
	if err != nil {
		return printError(stdio, fmt.Errorf("reading %s: %w", path, err))
	}

	s, err := asm.Assemble(string(src))
	if err != nil {
		return printError(stdio, err)
	}

	hooks := vm.DefaultHooks(logger)
	if trace != nil {
		hooks.PostExecuteInstruction = trace
	}
	e := vm.NewEngine(vm.WithHooks(hooks))
	if _, err := e.LoadScript(s, entry); err != nil {
		return printError(stdio, err)
	}

	state := e.Execute()
	fmt.Fprintf(stdio.Stdout, "state: %s\n", state)

	switch state {
	case vm.Halt:
		items := e.ResultStack().Items()
		fmt.Fprintf(stdio.Stdout, "result stack (%d item(s), top first):\n", len(items))
		for i, it := range items {
			fmt.Fprintf(stdio.Stdout, "  [%d] %s: %s\n", i, it.Type(), it.String())
		}
	case vm.Fault:
		if exc := e.UncaughtException(); exc != nil {
			fmt.Fprintf(stdio.Stdout, "uncaught exception: %s: %s\n", exc.Type(), exc.String())
		}
		return fmt.Errorf("execution faulted")
	}
	return nil
}
