package vm

import (
	"log/slog"

	"github.com/mna/covm/script"
)

// Hooks are the extension points §9 calls out as the surface embedders use
// to add gas accounting, tracing, and syscall tables. Every field is
// optional; a nil hook is simply skipped.
type Hooks struct {
	// PreExecuteInstruction runs before the current instruction is
	// dispatched. Returning a non-nil error aborts dispatch of that
	// instruction and is treated like any other opcode-raised error (it is
	// routed through the structured-exception unwinder if catchable, or
	// faults the engine): this is how an embedder enforces a step budget or
	// gas limit externally, per §5.
	PreExecuteInstruction func(e *Engine, instr script.Instruction) error
	// PostExecuteInstruction runs after the instruction has been dispatched
	// and before the reference-counter bound is checked.
	PostExecuteInstruction func(e *Engine, instr script.Instruction)
	// OnSyscall is invoked by the SYSCALL opcode with the instruction's
	// token_u32 method identifier. The syscall dispatch table itself is out
	// of scope for this core (§1); this hook is the seam a host wires it
	// through. A nil hook makes SYSCALL fault.
	OnSyscall func(e *Engine, methodID uint32) error
	// OnFault is called once, with the originating error, when the engine
	// transitions to Fault.
	OnFault func(e *Engine, err error)
	// OnStateChanged is called on every State transition.
	OnStateChanged func(e *Engine, s State)
	// LoadContext is called after a context is pushed onto the invocation
	// stack (by LoadScript, CALL, or CALLA).
	LoadContext func(e *Engine, c *Context)
	// ContextUnloaded is called after a context is popped off the
	// invocation stack, once Context.Unload has already run.
	ContextUnloaded func(e *Engine, c *Context)
}

// DefaultHooks returns the ambient logging hooks NewEngine installs when the
// caller doesn't supply its own via WithHooks (§5): OnFault and
// OnStateChanged report through logger, every other hook stays nil. A nil
// logger falls back to slog.Default(). Embedders composing their own Hooks
// value (e.g. to also set PreExecuteInstruction) can start from
// DefaultHooks(l) and overwrite the fields they care about.
func DefaultHooks(logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return Hooks{
		OnFault: func(e *Engine, err error) {
			logger.Error("engine fault", "error", err)
		},
		OnStateChanged: func(e *Engine, s State) {
			logger.Info("engine state changed", "state", s.String())
		},
	}
}
