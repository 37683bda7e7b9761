package vm

import (
	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isPushOp(op script.OpCode) bool {
	switch op {
	case script.PUSHINT8, script.PUSHINT16, script.PUSHINT32, script.PUSHINT64,
		script.PUSHINT128, script.PUSHINT256, script.PUSHA, script.PUSHNULL,
		script.PUSHDATA1, script.PUSHDATA2, script.PUSHDATA4, script.PUSHM1,
		script.PUSH0, script.PUSH1, script.PUSH2, script.PUSH3, script.PUSH4,
		script.PUSH5, script.PUSH6, script.PUSH7, script.PUSH8, script.PUSH9,
		script.PUSH10, script.PUSH11, script.PUSH12, script.PUSH13, script.PUSH14,
		script.PUSH15, script.PUSH16:
		return true
	default:
		return false
	}
}

// execPush implements the push group (§4.6): decode the operand into a
// StackItem and push it.
func (e *Engine) execPush(instr script.Instruction) error {
	ctx := e.currentContext
	switch instr.Opcode {
	case script.PUSHINT8, script.PUSHINT16, script.PUSHINT32, script.PUSHINT64,
		script.PUSHINT128, script.PUSHINT256:
		v, err := stackitem.GetInteger(stackitem.ByteString(instr.Operand), len(instr.Operand))
		if err != nil {
			return wrapf(ErrArithmetic, "%s: %s", instr.Opcode, err)
		}
		ctx.Stack.Push(stackitem.NewInteger(v))
		return nil

	case script.PUSHA:
		target := ctx.InstructionPointer + int(instr.TokenI32)
		if target < 0 || target > ctx.Script.Len() {
			return wrapf(ErrRange, "PUSHA target %d out of range [0,%d]", target, ctx.Script.Len())
		}
		ctx.Stack.Push(stackitem.Pointer{Script: ctx.Script, Position: target})
		return nil

	case script.PUSHNULL:
		ctx.Stack.Push(stackitem.Nil)
		return nil

	case script.PUSHDATA1, script.PUSHDATA2, script.PUSHDATA4:
		if len(instr.Operand) > e.limits.MaxItemSize {
			return wrapf(ErrLimit, "%s payload %d exceeds MaxItemSize %d", instr.Opcode, len(instr.Operand), e.limits.MaxItemSize)
		}
		b := make([]byte, len(instr.Operand))
		copy(b, instr.Operand)
		ctx.Stack.Push(stackitem.ByteString(b))
		return nil

	case script.PUSHM1:
		ctx.Stack.Push(stackitem.NewIntegerFromInt64(-1))
		return nil

	default: // PUSH0..PUSH16
		n := int64(instr.Opcode - script.PUSH0)
		ctx.Stack.Push(stackitem.NewIntegerFromInt64(n))
		return nil
	}
}
