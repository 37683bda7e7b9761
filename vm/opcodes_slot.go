package vm

import "github.com/mna/covm/script"

func isSlotOp(op script.OpCode) bool {
	switch op {
	case script.INITSSLOT, script.INITSLOT,
		script.LDSFLD0, script.LDSFLD1, script.LDSFLD2, script.LDSFLD3,
		script.LDSFLD4, script.LDSFLD5, script.LDSFLD6, script.LDSFLD,
		script.STSFLD0, script.STSFLD1, script.STSFLD2, script.STSFLD3,
		script.STSFLD4, script.STSFLD5, script.STSFLD6, script.STSFLD,
		script.LDLOC0, script.LDLOC1, script.LDLOC2, script.LDLOC3,
		script.LDLOC4, script.LDLOC5, script.LDLOC6, script.LDLOC,
		script.STLOC0, script.STLOC1, script.STLOC2, script.STLOC3,
		script.STLOC4, script.STLOC5, script.STLOC6, script.STLOC,
		script.LDARG0, script.LDARG1, script.LDARG2, script.LDARG3,
		script.LDARG4, script.LDARG5, script.LDARG6, script.LDARG,
		script.STARG0, script.STARG1, script.STARG2, script.STARG3,
		script.STARG4, script.STARG5, script.STARG6, script.STARG:
		return true
	default:
		return false
	}
}

// slotIndex returns the fixed index a LD*/ST* shorthand opcode (e.g.
// LDLOC3) addresses, relative to its group's "0" opcode.
func slotIndex(op, zero script.OpCode) int { return int(op - zero) }

// execSlot implements slot init and load/store (§4.6).
func (e *Engine) execSlot(instr script.Instruction) error {
	ctx := e.currentContext
	op := instr.Opcode

	switch op {
	case script.INITSSLOT:
		return ctx.InitStaticFields(int(instr.TokenU8))

	case script.INITSLOT:
		return ctx.InitSlots(int(instr.TokenU8), int(instr.TokenU8_1))

	case script.LDSFLD0, script.LDSFLD1, script.LDSFLD2, script.LDSFLD3,
		script.LDSFLD4, script.LDSFLD5, script.LDSFLD6:
		return e.loadSlot(ctx.StaticFields, slotIndex(op, script.LDSFLD0))
	case script.LDSFLD:
		return e.loadSlot(ctx.StaticFields, int(instr.TokenU8))
	case script.STSFLD0, script.STSFLD1, script.STSFLD2, script.STSFLD3,
		script.STSFLD4, script.STSFLD5, script.STSFLD6:
		return e.storeSlot(ctx.StaticFields, slotIndex(op, script.STSFLD0))
	case script.STSFLD:
		return e.storeSlot(ctx.StaticFields, int(instr.TokenU8))

	case script.LDLOC0, script.LDLOC1, script.LDLOC2, script.LDLOC3,
		script.LDLOC4, script.LDLOC5, script.LDLOC6:
		return e.loadSlot(ctx.LocalVariables, slotIndex(op, script.LDLOC0))
	case script.LDLOC:
		return e.loadSlot(ctx.LocalVariables, int(instr.TokenU8))
	case script.STLOC0, script.STLOC1, script.STLOC2, script.STLOC3,
		script.STLOC4, script.STLOC5, script.STLOC6:
		return e.storeSlot(ctx.LocalVariables, slotIndex(op, script.STLOC0))
	case script.STLOC:
		return e.storeSlot(ctx.LocalVariables, int(instr.TokenU8))

	case script.LDARG0, script.LDARG1, script.LDARG2, script.LDARG3,
		script.LDARG4, script.LDARG5, script.LDARG6:
		return e.loadSlot(ctx.Arguments, slotIndex(op, script.LDARG0))
	case script.LDARG:
		return e.loadSlot(ctx.Arguments, int(instr.TokenU8))
	case script.STARG0, script.STARG1, script.STARG2, script.STARG3,
		script.STARG4, script.STARG5, script.STARG6:
		return e.storeSlot(ctx.Arguments, slotIndex(op, script.STARG0))
	case script.STARG:
		return e.storeSlot(ctx.Arguments, int(instr.TokenU8))

	default:
		return wrapf(ErrDecode, "unhandled slot opcode %s", op)
	}
}

func (e *Engine) loadSlot(slot *Slot, i int) error {
	if slot == nil {
		return wrapf(ErrInvariant, "slot not initialized")
	}
	v, err := slot.Get(i)
	if err != nil {
		return err
	}
	e.currentContext.Stack.Push(v)
	return nil
}

func (e *Engine) storeSlot(slot *Slot, i int) error {
	if slot == nil {
		return wrapf(ErrInvariant, "slot not initialized")
	}
	v, err := e.currentContext.Stack.Pop()
	if err != nil {
		return err
	}
	return slot.Set(i, v)
}
