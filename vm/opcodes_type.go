package vm

import (
	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isTypeOp(op script.OpCode) bool {
	switch op {
	case script.ISNULL, script.ISTYPE, script.CONVERT:
		return true
	default:
		return false
	}
}

// execType implements ISNULL/ISTYPE/CONVERT (§4.6).
func (e *Engine) execType(instr script.Instruction) error {
	s := e.currentContext.Stack

	switch instr.Opcode {
	case script.ISNULL:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(stackitem.Boolean(stackitem.IsNull(v)))
		return nil

	case script.ISTYPE:
		t := stackitem.Type(instr.TokenU8)
		if t == stackitem.TypeAny {
			return wrapf(ErrInvariant, "ISTYPE forbids type Any")
		}
		v, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(stackitem.Boolean(v.Type() == t))
		return nil

	case script.CONVERT:
		t := stackitem.Type(instr.TokenU8)
		v, err := s.Pop()
		if err != nil {
			return err
		}
		out, err := stackitem.ConvertTo(v, t)
		if err != nil {
			return err
		}
		s.Push(out)
		return nil

	default:
		return wrapf(ErrDecode, "unhandled type opcode %s", instr.Opcode)
	}
}
