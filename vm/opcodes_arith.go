package vm

import (
	"math/big"

	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isArithOp(op script.OpCode) bool {
	switch op {
	case script.INVERT, script.AND, script.OR, script.XOR,
		script.EQUAL, script.NOTEQUAL,
		script.SIGN, script.ABS, script.NEGATE, script.INC, script.DEC,
		script.ADD, script.SUB, script.MUL, script.DIV, script.MOD,
		script.SHL, script.SHR, script.NOT, script.BOOLAND, script.BOOLOR,
		script.NZ, script.NUMEQUAL, script.NUMNOTEQUAL,
		script.LT, script.LE, script.GT, script.GE, script.MIN, script.MAX,
		script.WITHIN:
		return true
	default:
		return false
	}
}

func popBig(s *EvalStack) (*big.Int, error) {
	v, err := s.Pop()
	if err != nil {
		return nil, err
	}
	return stackitem.GetInteger(v, stackitem.MaxIntegerBytes)
}

func pushBig(s *EvalStack, v *big.Int) { s.Push(stackitem.NewInteger(v)) }

func pushBool(s *EvalStack, b bool) { s.Push(stackitem.Boolean(b)) }

// execArith implements the arithmetic and bitwise group (§4.6): standard
// semantics on arbitrary-precision signed integers.
func (e *Engine) execArith(instr script.Instruction) error {
	s := e.currentContext.Stack

	switch instr.Opcode {
	case script.INVERT:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBig(s, new(big.Int).Not(a))
		return nil

	case script.AND, script.OR, script.XOR:
		b, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		r := new(big.Int)
		switch instr.Opcode {
		case script.AND:
			r.And(a, b)
		case script.OR:
			r.Or(a, b)
		case script.XOR:
			r.Xor(a, b)
		}
		pushBig(s, r)
		return nil

	case script.EQUAL, script.NOTEQUAL:
		b, err := s.Pop()
		if err != nil {
			return err
		}
		a, err := s.Pop()
		if err != nil {
			return err
		}
		eq := stackitem.Equals(a, b)
		if instr.Opcode == script.NOTEQUAL {
			eq = !eq
		}
		pushBool(s, eq)
		return nil

	case script.SIGN:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBig(s, big.NewInt(int64(a.Sign())))
		return nil

	case script.ABS:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBig(s, new(big.Int).Abs(a))
		return nil

	case script.NEGATE:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBig(s, new(big.Int).Neg(a))
		return nil

	case script.INC:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBig(s, new(big.Int).Add(a, big.NewInt(1)))
		return nil

	case script.DEC:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBig(s, new(big.Int).Sub(a, big.NewInt(1)))
		return nil

	case script.ADD, script.SUB, script.MUL, script.DIV, script.MOD:
		b, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		r := new(big.Int)
		switch instr.Opcode {
		case script.ADD:
			r.Add(a, b)
		case script.SUB:
			r.Sub(a, b)
		case script.MUL:
			r.Mul(a, b)
		case script.DIV:
			if b.Sign() == 0 {
				return wrapf(ErrArithmetic, "division by zero")
			}
			r.Quo(a, b)
		case script.MOD:
			if b.Sign() == 0 {
				return wrapf(ErrArithmetic, "modulo by zero")
			}
			r.Rem(a, b)
		}
		pushBig(s, r)
		return nil

	case script.SHL, script.SHR:
		shift, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		if shift.Sign() < 0 || !shift.IsInt64() || shift.Int64() > int64(e.limits.MaxShift) {
			return wrapf(ErrRange, "shift %s out of range [0,%d]", shift, e.limits.MaxShift)
		}
		n := uint(shift.Int64())
		if n == 0 {
			pushBig(s, a)
			return nil
		}
		r := new(big.Int)
		if instr.Opcode == script.SHL {
			r.Lsh(a, n)
		} else {
			r.Rsh(a, n)
		}
		pushBig(s, r)
		return nil

	case script.NOT:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		pushBool(s, !v.Boolean())
		return nil

	case script.BOOLAND, script.BOOLOR:
		b, err := s.Pop()
		if err != nil {
			return err
		}
		a, err := s.Pop()
		if err != nil {
			return err
		}
		if instr.Opcode == script.BOOLAND {
			pushBool(s, a.Boolean() && b.Boolean())
		} else {
			pushBool(s, a.Boolean() || b.Boolean())
		}
		return nil

	case script.NZ:
		a, err := popBig(s)
		if err != nil {
			return err
		}
		pushBool(s, a.Sign() != 0)
		return nil

	case script.NUMEQUAL, script.NUMNOTEQUAL:
		b, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		eq := a.Cmp(b) == 0
		if instr.Opcode == script.NUMNOTEQUAL {
			eq = !eq
		}
		pushBool(s, eq)
		return nil

	case script.LT, script.LE, script.GT, script.GE:
		b, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		cmp := a.Cmp(b)
		var r bool
		switch instr.Opcode {
		case script.LT:
			r = cmp < 0
		case script.LE:
			r = cmp <= 0
		case script.GT:
			r = cmp > 0
		case script.GE:
			r = cmp >= 0
		}
		pushBool(s, r)
		return nil

	case script.MIN, script.MAX:
		b, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		cmp := a.Cmp(b)
		switch instr.Opcode {
		case script.MIN:
			if cmp <= 0 {
				pushBig(s, a)
			} else {
				pushBig(s, b)
			}
		case script.MAX:
			if cmp >= 0 {
				pushBig(s, a)
			} else {
				pushBig(s, b)
			}
		}
		return nil

	case script.WITHIN:
		b, err := popBig(s)
		if err != nil {
			return err
		}
		a, err := popBig(s)
		if err != nil {
			return err
		}
		x, err := popBig(s)
		if err != nil {
			return err
		}
		pushBool(s, a.Cmp(x) <= 0 && x.Cmp(b) < 0)
		return nil

	default:
		return wrapf(ErrDecode, "unhandled arithmetic opcode %s", instr.Opcode)
	}
}
