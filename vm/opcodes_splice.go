package vm

import (
	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isSpliceOp(op script.OpCode) bool {
	switch op {
	case script.NEWBUFFER, script.MEMCPY, script.CAT, script.SUBSTR,
		script.LEFT, script.RIGHT:
		return true
	default:
		return false
	}
}

func popInt(s *EvalStack) (int, error) {
	v, err := s.Pop()
	if err != nil {
		return 0, err
	}
	n, err := stackitem.GetInteger(v, stackitem.MaxIntegerBytes)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, wrapf(ErrRange, "integer %s out of int range", n)
	}
	return int(n.Int64()), nil
}

func popSpan(s *EvalStack) ([]byte, error) {
	v, err := s.Pop()
	if err != nil {
		return nil, err
	}
	return stackitem.GetSpan(v)
}

// execSplice implements the byte-buffer operation group (§4.6). All
// resulting lengths are subject to MaxItemSize; out-of-range offsets/counts
// fault.
func (e *Engine) execSplice(instr script.Instruction) error {
	s := e.currentContext.Stack

	switch instr.Opcode {
	case script.NEWBUFFER:
		n, err := popInt(s)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxItemSize {
			return wrapf(ErrLimit, "NEWBUFFER size %d exceeds MaxItemSize %d", n, e.limits.MaxItemSize)
		}
		s.Push(stackitem.NewBuffer(n))
		return nil

	case script.MEMCPY:
		count, err := popInt(s)
		if err != nil {
			return err
		}
		srcIdx, err := popInt(s)
		if err != nil {
			return err
		}
		srcV, err := s.Pop()
		if err != nil {
			return err
		}
		src, err := stackitem.GetSpan(srcV)
		if err != nil {
			return err
		}
		dstIdx, err := popInt(s)
		if err != nil {
			return err
		}
		dstV, err := s.RemoveAs(0, stackitem.TypeBuffer)
		if err != nil {
			return err
		}
		dst := dstV.(*stackitem.Buffer)
		if count < 0 {
			return wrapf(ErrRange, "MEMCPY negative count")
		}
		if srcIdx < 0 || srcIdx+count > len(src) {
			return wrapf(ErrRange, "MEMCPY source range out of bounds")
		}
		if dstIdx < 0 || dstIdx+count > dst.Len() {
			return wrapf(ErrRange, "MEMCPY destination range out of bounds")
		}
		for i := 0; i < count; i++ {
			dst.SetByte(dstIdx+i, src[srcIdx+i])
		}
		return nil

	case script.CAT:
		b, err := popSpan(s)
		if err != nil {
			return err
		}
		a, err := popSpan(s)
		if err != nil {
			return err
		}
		out := make([]byte, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		if len(out) > e.limits.MaxItemSize {
			return wrapf(ErrLimit, "CAT result %d exceeds MaxItemSize %d", len(out), e.limits.MaxItemSize)
		}
		s.Push(stackitem.NewBufferFromBytes(out))
		return nil

	case script.SUBSTR:
		count, err := popInt(s)
		if err != nil {
			return err
		}
		idx, err := popInt(s)
		if err != nil {
			return err
		}
		src, err := popSpan(s)
		if err != nil {
			return err
		}
		if count < 0 || idx < 0 || idx+count > len(src) {
			return wrapf(ErrRange, "SUBSTR range out of bounds")
		}
		out := make([]byte, count)
		copy(out, src[idx:idx+count])
		s.Push(stackitem.NewBufferFromBytes(out))
		return nil

	case script.LEFT:
		count, err := popInt(s)
		if err != nil {
			return err
		}
		src, err := popSpan(s)
		if err != nil {
			return err
		}
		if count < 0 || count > len(src) {
			return wrapf(ErrRange, "LEFT count out of bounds")
		}
		out := make([]byte, count)
		copy(out, src[:count])
		s.Push(stackitem.NewBufferFromBytes(out))
		return nil

	case script.RIGHT:
		count, err := popInt(s)
		if err != nil {
			return err
		}
		src, err := popSpan(s)
		if err != nil {
			return err
		}
		if count < 0 || count > len(src) {
			return wrapf(ErrRange, "RIGHT count out of bounds")
		}
		out := make([]byte, count)
		copy(out, src[len(src)-count:])
		s.Push(stackitem.NewBufferFromBytes(out))
		return nil

	default:
		return wrapf(ErrDecode, "unhandled splice opcode %s", instr.Opcode)
	}
}
