// Package vm implements the execution core: the dispatch loop, the typed
// operand stack, nested call frames, structured exception handling, and the
// reference-counted heap bound, described in SPEC_FULL.md.
package vm

import (
	"errors"
	"fmt"

	"github.com/mna/covm/refcount"
	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

// Engine is one instance of the virtual machine. It is not safe for
// concurrent use; embedders that want parallelism run independent
// instances (§5).
type Engine struct {
	state   State
	limits  Limits
	hooks   Hooks
	refc    *refcount.Counter
	invocationStack []*Context
	currentContext  *Context
	entryContext    *Context
	resultStack     *EvalStack
	uncaughtException stackitem.Item
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(e *Engine) { e.limits = l }
}

// WithHooks installs the engine's extension points (§9's virtual hooks).
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// NewEngine returns a freshly constructed engine, state=Break, with an
// empty invocation stack.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{limits: DefaultLimits(), hooks: DefaultHooks(nil)}
	e.refc = refcount.New()
	e.resultStack = NewEvalStack(e.refc)
	for _, o := range opts {
		o(e)
	}
	return e
}

// State returns the engine's current observable state.
func (e *Engine) State() State { return e.state }

// Limits returns the engine's configured resource bounds.
func (e *Engine) Limits() Limits { return e.limits }

// ReferenceCounter exposes the engine's live-item accounting structure.
func (e *Engine) ReferenceCounter() *refcount.Counter { return e.refc }

// InvocationStack returns the live call-frame stack, bottom first.
func (e *Engine) InvocationStack() []*Context { return e.invocationStack }

// CurrentContext returns the active frame, or nil if the invocation stack
// is empty (§8 property 5).
func (e *Engine) CurrentContext() *Context { return e.currentContext }

// EntryContext returns the first frame ever loaded, or nil if the
// invocation stack is currently empty.
func (e *Engine) EntryContext() *Context { return e.entryContext }

// ResultStack returns the stack that receives a top-level frame's items on
// its final RET.
func (e *Engine) ResultStack() *EvalStack { return e.resultStack }

// UncaughtException returns the exception currently propagating through the
// unwinder, or nil.
func (e *Engine) UncaughtException() stackitem.Item { return e.uncaughtException }

func (e *Engine) setState(s State) {
	if s == e.state {
		return
	}
	e.state = s
	if e.hooks.OnStateChanged != nil {
		e.hooks.OnStateChanged(e, s)
	}
}

func (e *Engine) onFault(err error) {
	e.setState(Fault)
	if e.hooks.OnFault != nil {
		e.hooks.OnFault(e, err)
	}
}

// LoadScript pushes a new top-level frame onto the invocation stack,
// starting execution at initialPosition. It is the host's entry point;
// unlike an internal CALL, an error here is returned directly rather than
// being routed through the fault machinery, since no execution is yet in
// flight.
func (e *Engine) LoadScript(s *script.Script, initialPosition int) (*Context, error) {
	ctx := NewContext(s, initialPosition, e.refc)
	if err := e.pushContext(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (e *Engine) pushContext(ctx *Context) error {
	if len(e.invocationStack) >= e.limits.MaxInvocationStackSize {
		return wrapf(ErrLimit, "invocation stack size exceeds %d", e.limits.MaxInvocationStackSize)
	}
	e.invocationStack = append(e.invocationStack, ctx)
	e.currentContext = ctx
	if e.entryContext == nil {
		e.entryContext = ctx
	}
	if e.hooks.LoadContext != nil {
		e.hooks.LoadContext(e, ctx)
	}
	return nil
}

// popTopContext pops the topmost invocation frame, unloading it and
// updating currentContext/entryContext.
func (e *Engine) popTopContext() *Context {
	n := len(e.invocationStack)
	if n == 0 {
		return nil
	}
	top := e.invocationStack[n-1]
	e.invocationStack = e.invocationStack[:n-1]
	var nextStatic *Slot
	if n-1 > 0 {
		e.currentContext = e.invocationStack[n-2]
		nextStatic = e.currentContext.StaticFields
	} else {
		e.currentContext = nil
	}
	top.Unload(nextStatic)
	if e.hooks.ContextUnloaded != nil {
		e.hooks.ContextUnloaded(e, top)
	}
	if len(e.invocationStack) == 0 {
		e.entryContext = nil
	}
	return top
}

// Execute runs execute_next until the engine reaches HALT or FAULT.
func (e *Engine) Execute() State {
	for e.state != Halt && e.state != Fault {
		e.ExecuteNext()
	}
	return e.state
}

// ExecuteNext performs a single dispatch step (§4.5).
func (e *Engine) ExecuteNext() {
	if len(e.invocationStack) == 0 {
		e.setState(Halt)
		return
	}

	if e.hooks.PreExecuteInstruction != nil {
		instr, err := e.currentContext.CurrentInstruction()
		if err == nil {
			err = e.hooks.PreExecuteInstruction(e, instr)
		}
		if err != nil {
			e.dispatchError(err)
			return
		}
	}

	instr, err := e.currentContext.CurrentInstruction()
	if err == nil {
		err = e.executeInstruction(instr)
	}
	if err != nil {
		e.dispatchError(err)
		return
	}

	if e.hooks.PostExecuteInstruction != nil {
		e.hooks.PostExecuteInstruction(e, instr)
	}

	if n := e.refc.CheckZeroReferred(); n > e.limits.MaxStackSize {
		e.dispatchError(wrapf(ErrLimit, "reference count %d exceeds MaxStackSize %d", n, e.limits.MaxStackSize))
	}
}

// dispatchError implements §7's propagation rule: ABORT and a failed
// ASSERT are explicit, non-catchable faults; every other error kind is an
// implicit throw that enters the unwinder only when the current frame has
// a non-empty try stack, and otherwise faults directly.
func (e *Engine) dispatchError(err error) {
	if errors.Is(err, ErrAbort) || errors.Is(err, ErrAssertFailed) {
		e.onFault(err)
		return
	}
	if e.currentContext == nil || len(e.currentContext.TryStack) == 0 {
		e.onFault(err)
		return
	}
	e.uncaughtException = stackitem.ByteString(err.Error())
	e.handleException()
}

// Throw implements the engine's public throw(item) surface and THROW's
// opcode effect: set uncaught_exception and invoke the unwinder
// unconditionally.
func (e *Engine) Throw(item stackitem.Item) {
	e.uncaughtException = item
	e.handleException()
}

// handleException is the unwinder described in §4.6.
func (e *Engine) handleException() {
	for e.currentContext != nil {
		ctx := e.currentContext
		handled := false
	tryLoop:
		for {
			f := ctx.TopTry()
			if f == nil {
				break tryLoop
			}
			switch {
			case f.State == TryStateFinally:
				ctx.PopTry()
				continue tryLoop
			case f.State == TryStateCatch && !f.HasFinally():
				ctx.PopTry()
				continue tryLoop
			case f.State == TryStateTry && f.HasCatch():
				f.State = TryStateCatch
				item := e.uncaughtException
				e.uncaughtException = nil
				ctx.Stack.Push(item)
				ctx.InstructionPointer = f.CatchPointer
				handled = true
			default:
				// Try with no catch, or Catch with a finally: run finally, leaving
				// uncaught_exception set so ENDFINALLY re-enters the unwinder.
				f.State = TryStateFinally
				ctx.InstructionPointer = f.FinallyPointer
				handled = true
			}
			break tryLoop
		}
		if handled {
			return
		}
		e.popTopContext()
	}
	e.onFault(fmt.Errorf("%w: %v", ErrUnhandled, e.uncaughtException))
}

// Peek returns the item i positions from the top of the current frame's
// evaluation stack.
func (e *Engine) Peek(i int) (stackitem.Item, error) {
	if e.currentContext == nil {
		return nil, wrapf(ErrInvariant, "no current context")
	}
	return e.currentContext.Stack.Peek(i)
}

// Pop removes and returns the top item of the current frame's evaluation
// stack.
func (e *Engine) Pop() (stackitem.Item, error) {
	if e.currentContext == nil {
		return nil, wrapf(ErrInvariant, "no current context")
	}
	return e.currentContext.Stack.Pop()
}

// PopAs pops the top item, failing unless it is of variant t.
func (e *Engine) PopAs(t stackitem.Type) (stackitem.Item, error) {
	if e.currentContext == nil {
		return nil, wrapf(ErrInvariant, "no current context")
	}
	return e.currentContext.Stack.RemoveAs(0, t)
}

// Push places item on top of the current frame's evaluation stack.
func (e *Engine) Push(item stackitem.Item) error {
	if e.currentContext == nil {
		return wrapf(ErrInvariant, "no current context")
	}
	e.currentContext.Stack.Push(item)
	return nil
}

// skipsMoveNext is the set of opcodes that explicitly adjust the
// instruction pointer, per §4.5: execute_instruction must not apply the
// tail move_next for any of them.
func skipsMoveNext(op script.OpCode) bool {
	switch op {
	case script.JMP, script.JMP_L,
		script.JMPIF, script.JMPIF_L, script.JMPIFNOT, script.JMPIFNOT_L,
		script.JMPEQ, script.JMPEQ_L, script.JMPNE, script.JMPNE_L,
		script.JMPGT, script.JMPGT_L, script.JMPGE, script.JMPGE_L,
		script.JMPLT, script.JMPLT_L, script.JMPLE, script.JMPLE_L,
		script.CALL, script.CALL_L, script.CALLA, script.RET,
		script.ENDTRY, script.ENDTRY_L, script.ENDFINALLY, script.THROW:
		return true
	default:
		return false
	}
}

// executeInstruction dispatches one decoded instruction, per §4.6.
func (e *Engine) executeInstruction(instr script.Instruction) error {
	if err := e.dispatch(instr); err != nil {
		return err
	}
	if !skipsMoveNext(instr.Opcode) {
		e.currentContext.MoveNext(instr)
	}
	return nil
}

// dispatch is the opcode switch. Each case is implemented in the
// opcodes_*.go files grouped by §4.6's categories.
func (e *Engine) dispatch(instr script.Instruction) error {
	op := instr.Opcode

	switch {
	case isPushOp(op):
		return e.execPush(instr)
	case isJumpOp(op):
		return e.execJump(instr)
	case op == script.CALL || op == script.CALL_L || op == script.CALLA:
		return e.execCall(instr)
	case op == script.RET:
		return e.execRet()
	case op == script.SYSCALL:
		return e.execSyscall(instr)
	case op == script.ABORT:
		return ErrAbort
	case op == script.ASSERT:
		return e.execAssert()
	case op == script.THROW:
		return e.execThrow()
	case op == script.TRY || op == script.TRY_L:
		return e.execTry(instr)
	case op == script.ENDTRY || op == script.ENDTRY_L:
		return e.execEndTry(instr)
	case op == script.ENDFINALLY:
		return e.execEndFinally()
	case isStackOp(op):
		return e.execStack(instr)
	case isSlotOp(op):
		return e.execSlot(instr)
	case isSpliceOp(op):
		return e.execSplice(instr)
	case isArithOp(op):
		return e.execArith(instr)
	case isCompoundOp(op):
		return e.execCompound(instr)
	case isTypeOp(op):
		return e.execType(instr)
	default:
		return wrapf(ErrDecode, "opcode %s is not implemented", op)
	}
}
