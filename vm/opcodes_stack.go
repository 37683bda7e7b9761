package vm

import (
	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isStackOp(op script.OpCode) bool {
	switch op {
	case script.DEPTH, script.DROP, script.NIP, script.XDROP, script.CLEAR,
		script.DUP, script.OVER, script.PICK, script.TUCK, script.SWAP,
		script.ROT, script.ROLL, script.REVERSE3, script.REVERSE4, script.REVERSEN:
		return true
	default:
		return false
	}
}

// popCount pops the top item and interprets it as a non-negative count, as
// XDROP/PICK/ROLL/REVERSEN require.
func popCount(s *EvalStack) (int, error) {
	v, err := s.Pop()
	if err != nil {
		return 0, err
	}
	n, err := stackitem.GetInteger(v, stackitem.MaxIntegerBytes)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || !n.IsInt64() {
		return 0, wrapf(ErrRange, "negative or oversized count %s", n)
	}
	return int(n.Int64()), nil
}

// execStack implements the classic Forth-style stack manipulation group
// (§4.6). Top of stack is index 0 throughout.
func (e *Engine) execStack(instr script.Instruction) error {
	s := e.currentContext.Stack

	switch instr.Opcode {
	case script.DEPTH:
		s.Push(stackitem.NewIntegerFromInt64(int64(s.Count())))
		return nil

	case script.DROP:
		_, err := s.Pop()
		return err

	case script.NIP:
		_, err := s.RemoveAtDepth(1)
		return err

	case script.XDROP:
		n, err := popCount(s)
		if err != nil {
			return err
		}
		_, err = s.RemoveAtDepth(n)
		return err

	case script.CLEAR:
		s.Clear()
		return nil

	case script.DUP:
		v, err := s.Peek(0)
		if err != nil {
			return err
		}
		s.Push(v)
		return nil

	case script.OVER:
		v, err := s.Peek(1)
		if err != nil {
			return err
		}
		s.Push(v)
		return nil

	case script.PICK:
		n, err := popCount(s)
		if err != nil {
			return err
		}
		v, err := s.Peek(n)
		if err != nil {
			return err
		}
		s.Push(v)
		return nil

	case script.TUCK:
		v, err := s.Peek(0)
		if err != nil {
			return err
		}
		return s.Insert(2, v)

	case script.SWAP:
		return swapDepths(s, 0, 1)

	case script.ROT:
		// bring the item 2 positions down to the top, shifting the other two
		// down: [a,b,c] (c top) -> [b,c,a] i.e. rotate so 3rd-from-top becomes
		// top.
		v, err := s.RemoveAtDepth(2)
		if err != nil {
			return err
		}
		s.Push(v)
		return nil

	case script.ROLL:
		n, err := popCount(s)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		v, err := s.RemoveAtDepth(n)
		if err != nil {
			return err
		}
		s.Push(v)
		return nil

	case script.REVERSE3:
		return s.ReverseTop(3)

	case script.REVERSE4:
		return s.ReverseTop(4)

	case script.REVERSEN:
		n, err := popCount(s)
		if err != nil {
			return err
		}
		return s.ReverseTop(n)

	default:
		return wrapf(ErrDecode, "unhandled stack opcode %s", instr.Opcode)
	}
}

func swapDepths(s *EvalStack, i, j int) error {
	vi, err := s.Peek(i)
	if err != nil {
		return err
	}
	vj, err := s.Peek(j)
	if err != nil {
		return err
	}
	if err := s.SetAt(i, vj); err != nil {
		return err
	}
	return s.SetAt(j, vi)
}
