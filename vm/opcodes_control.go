package vm

import (
	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isJumpOp(op script.OpCode) bool {
	switch op {
	case script.JMP, script.JMP_L,
		script.JMPIF, script.JMPIF_L, script.JMPIFNOT, script.JMPIFNOT_L,
		script.JMPEQ, script.JMPEQ_L, script.JMPNE, script.JMPNE_L,
		script.JMPGT, script.JMPGT_L, script.JMPGE, script.JMPGE_L,
		script.JMPLT, script.JMPLT_L, script.JMPLE, script.JMPLE_L:
		return true
	default:
		return false
	}
}

func jumpOffset(instr script.Instruction) int {
	switch instr.Opcode {
	case script.JMP_L, script.JMPIF_L, script.JMPIFNOT_L, script.JMPEQ_L,
		script.JMPNE_L, script.JMPGT_L, script.JMPGE_L, script.JMPLT_L, script.JMPLE_L:
		return int(instr.TokenI32)
	default:
		return int(instr.TokenI8)
	}
}

// jumpCondition reports, for conditional jumps, whether the jump should be
// taken; it pops whatever operands the opcode needs. The short and _L forms
// of each jump share the same condition logic.
func (e *Engine) jumpCondition(op script.OpCode) (bool, error) {
	ctx := e.currentContext
	switch op {
	case script.JMP, script.JMP_L:
		return true, nil
	case script.JMPIF, script.JMPIF_L:
		v, err := ctx.Stack.Pop()
		if err != nil {
			return false, err
		}
		return v.Boolean(), nil
	case script.JMPIFNOT, script.JMPIFNOT_L:
		v, err := ctx.Stack.Pop()
		if err != nil {
			return false, err
		}
		return !v.Boolean(), nil
	default:
		// comparison jumps: pop b, a (a pushed first, b on top), compare a op b.
		b, err := ctx.Stack.Pop()
		if err != nil {
			return false, err
		}
		a, err := ctx.Stack.Pop()
		if err != nil {
			return false, err
		}
		av, err := stackitem.GetInteger(a, stackitem.MaxIntegerBytes)
		if err != nil {
			return false, err
		}
		bv, err := stackitem.GetInteger(b, stackitem.MaxIntegerBytes)
		if err != nil {
			return false, err
		}
		cmp := av.Cmp(bv)
		switch op {
		case script.JMPEQ, script.JMPEQ_L:
			return cmp == 0, nil
		case script.JMPNE, script.JMPNE_L:
			return cmp != 0, nil
		case script.JMPGT, script.JMPGT_L:
			return cmp > 0, nil
		case script.JMPGE, script.JMPGE_L:
			return cmp >= 0, nil
		case script.JMPLT, script.JMPLT_L:
			return cmp < 0, nil
		case script.JMPLE, script.JMPLE_L:
			return cmp <= 0, nil
		}
		return false, wrapf(ErrDecode, "unreachable jump opcode %s", op)
	}
}

// execJump implements the unconditional/conditional jump group (§4.6). Per
// §4.5, a jump opcode always "explicitly adjusts" the instruction pointer —
// including the not-taken case, where it advances past itself — so the
// caller never applies move_next for these opcodes.
func (e *Engine) execJump(instr script.Instruction) error {
	ctx := e.currentContext
	take, err := e.jumpCondition(instr.Opcode)
	if err != nil {
		return err
	}
	if !take {
		ctx.MoveNext(instr)
		return nil
	}
	target := ctx.InstructionPointer + jumpOffset(instr)
	if target < 0 || target > ctx.Script.Len() {
		return wrapf(ErrRange, "%s target %d out of range [0,%d]", instr.Opcode, target, ctx.Script.Len())
	}
	ctx.InstructionPointer = target
	return nil
}

// execCall implements CALL/CALL_L/CALLA (§4.6).
func (e *Engine) execCall(instr script.Instruction) error {
	ctx := e.currentContext
	var target int
	switch instr.Opcode {
	case script.CALL:
		target = ctx.InstructionPointer + int(instr.TokenI8)
	case script.CALL_L:
		target = ctx.InstructionPointer + int(instr.TokenI32)
	case script.CALLA:
		v, err := ctx.Stack.RemoveAs(0, stackitem.TypePointer)
		if err != nil {
			return err
		}
		p := v.(stackitem.Pointer)
		if !p.Script.Equal(ctx.Script) {
			return wrapf(ErrInvariant, "CALLA across scripts")
		}
		target = p.Position
	}
	if target < 0 || target > ctx.Script.Len() {
		return wrapf(ErrRange, "%s target %d out of range [0,%d]", instr.Opcode, target, ctx.Script.Len())
	}

	clone := ctx.Clone(target)
	if err := e.pushContext(clone); err != nil {
		return err
	}
	// The caller's own instruction pointer still needs to move past the CALL
	// once it becomes current again; since execute_instruction skips
	// move_next for control-flow opcodes, advance it here instead.
	ctx.InstructionPointer += instr.Size()
	return nil
}

// execRet implements RET (§4.6, and §8 property 6).
func (e *Engine) execRet() error {
	// Copy the returning frame's items before popping it: unloading a
	// context clears its evaluation stack.
	n := len(e.invocationStack)
	top := e.invocationStack[n-1]
	dest := e.resultStack
	if n > 1 {
		dest = e.invocationStack[n-2].Stack
	}
	if top.Stack != dest {
		top.Stack.CopyTo(dest)
	}
	e.popTopContext()
	if len(e.invocationStack) == 0 {
		e.setState(Halt)
	}
	return nil
}

// execSyscall implements SYSCALL (§4.6): dispatch to the host via the
// on_syscall hook. A nil hook is a hard failure — the syscall table itself
// is out of scope for this core (§1).
func (e *Engine) execSyscall(instr script.Instruction) error {
	if e.hooks.OnSyscall == nil {
		return wrapf(ErrInvariant, "SYSCALL %d: no syscall handler installed", instr.TokenU32)
	}
	return e.hooks.OnSyscall(e, instr.TokenU32)
}

// execAssert implements ASSERT: pop boolean; fault if false.
func (e *Engine) execAssert() error {
	v, err := e.currentContext.Stack.Pop()
	if err != nil {
		return err
	}
	if !v.Boolean() {
		return ErrAssertFailed
	}
	return nil
}

// execThrow implements THROW(item): pop item, set uncaught_exception,
// invoke the unwinder unconditionally.
func (e *Engine) execThrow() error {
	v, err := e.currentContext.Stack.Pop()
	if err != nil {
		return err
	}
	e.Throw(v)
	return nil
}

// execTry implements TRY/TRY_L: push a try frame capturing absolute
// catch/finally pointers.
func (e *Engine) execTry(instr script.Instruction) error {
	ctx := e.currentContext
	var catchOff, finallyOff int
	if instr.Opcode == script.TRY {
		catchOff, finallyOff = int(instr.TokenI8), int(instr.TokenI8_1)
	} else {
		catchOff, finallyOff = int(instr.TokenI32), int(instr.TokenI32_1)
	}
	if catchOff == 0 && finallyOff == 0 {
		return wrapf(ErrInvariant, "%s: both catch and finally offsets are zero", instr.Opcode)
	}
	catchPtr, finallyPtr := noPointer, noPointer
	if catchOff != 0 {
		catchPtr = ctx.InstructionPointer + catchOff
	}
	if finallyOff != 0 {
		finallyPtr = ctx.InstructionPointer + finallyOff
	}
	for _, p := range []int{catchPtr, finallyPtr} {
		if p != noPointer && (p < 0 || p > ctx.Script.Len()) {
			return wrapf(ErrRange, "%s handler target %d out of range [0,%d]", instr.Opcode, p, ctx.Script.Len())
		}
	}
	ctx.PushTry(NewTryFrame(catchPtr, finallyPtr))
	return nil
}

// execEndTry implements ENDTRY/ENDTRY_L (§4.6).
func (e *Engine) execEndTry(instr script.Instruction) error {
	ctx := e.currentContext
	f := ctx.TopTry()
	if f == nil {
		return wrapf(ErrInvariant, "%s with no matching try", instr.Opcode)
	}
	if f.State == TryStateFinally {
		return wrapf(ErrInvariant, "%s inside a finally", instr.Opcode)
	}

	var endOff int
	if instr.Opcode == script.ENDTRY {
		endOff = int(instr.TokenI8)
	} else {
		endOff = int(instr.TokenI32)
	}
	end := ctx.InstructionPointer + endOff
	if end < 0 || end > ctx.Script.Len() {
		return wrapf(ErrRange, "%s end target %d out of range [0,%d]", instr.Opcode, end, ctx.Script.Len())
	}

	if f.HasFinally() {
		f.State = TryStateFinally
		f.EndPointer = end
		ctx.InstructionPointer = f.FinallyPointer
		return nil
	}
	ctx.PopTry()
	ctx.InstructionPointer = end
	return nil
}

// execEndFinally implements ENDFINALLY (§4.6).
func (e *Engine) execEndFinally() error {
	ctx := e.currentContext
	f := ctx.PopTry()
	if f == nil {
		return wrapf(ErrInvariant, "ENDFINALLY with no matching try")
	}
	if e.uncaughtException == nil {
		ctx.InstructionPointer = f.EndPointer
		return nil
	}
	e.handleException()
	return nil
}
