package script

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated is returned when a script ends in the middle of an
// instruction's operand.
type ErrTruncated struct {
	IP int
	Op OpCode
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("script: truncated instruction %s at %d", e.Op, e.IP)
}

// Decode decodes one instruction from b starting at byte offset ip. ip
// must be < len(b). Unknown opcodes decode successfully with a zero-length
// operand and size 1, per §6: "unknown opcodes are tolerated at decode
// time; they fault only at dispatch."
func Decode(b []byte, ip int) (Instruction, error) {
	op := OpCode(b[ip])
	rest := b[ip+1:]

	switch op {
	case PUSHINT8:
		return fixedPayload(op, ip, rest, 1)
	case PUSHINT16:
		return fixedPayload(op, ip, rest, 2)
	case PUSHINT32:
		return fixedPayload(op, ip, rest, 4)

	case PUSHA:
		if len(rest) < 4 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenI32: int32(binary.LittleEndian.Uint32(rest)), size: 5}, nil
	case PUSHINT64:
		return fixedPayload(op, ip, rest, 8)
	case PUSHINT128:
		return fixedPayload(op, ip, rest, 16)
	case PUSHINT256:
		return fixedPayload(op, ip, rest, 32)

	case PUSHNULL, PUSHM1,
		PUSH0, PUSH1, PUSH2, PUSH3, PUSH4, PUSH5, PUSH6, PUSH7, PUSH8,
		PUSH9, PUSH10, PUSH11, PUSH12, PUSH13, PUSH14, PUSH15, PUSH16,
		CALLA, RET, ABORT, ASSERT, THROW, ENDFINALLY,
		DEPTH, DROP, NIP, XDROP, CLEAR, DUP, OVER, PICK, TUCK, SWAP, ROT,
		ROLL, REVERSE3, REVERSE4, REVERSEN,
		LDSFLD0, LDSFLD1, LDSFLD2, LDSFLD3, LDSFLD4, LDSFLD5, LDSFLD6,
		STSFLD0, STSFLD1, STSFLD2, STSFLD3, STSFLD4, STSFLD5, STSFLD6,
		LDLOC0, LDLOC1, LDLOC2, LDLOC3, LDLOC4, LDLOC5, LDLOC6,
		STLOC0, STLOC1, STLOC2, STLOC3, STLOC4, STLOC5, STLOC6,
		LDARG0, LDARG1, LDARG2, LDARG3, LDARG4, LDARG5, LDARG6,
		STARG0, STARG1, STARG2, STARG3, STARG4, STARG5, STARG6,
		NEWBUFFER, MEMCPY, CAT, SUBSTR, LEFT, RIGHT,
		INVERT, AND, OR, XOR, EQUAL, NOTEQUAL, SIGN, ABS, NEGATE, INC, DEC,
		ADD, SUB, MUL, DIV, MOD, SHL, SHR, NOT, BOOLAND, BOOLOR, NZ,
		NUMEQUAL, NUMNOTEQUAL, LT, LE, GT, GE, MIN, MAX, WITHIN,
		PACK, UNPACK, NEWARRAY0, NEWARRAY, NEWSTRUCT0, NEWSTRUCT, NEWMAP,
		SIZE, HASKEY, KEYS, VALUES, PICKITEM, APPEND, SETITEM, REVERSEITEMS,
		REMOVE, CLEARITEMS, ISNULL:
		return Instruction{Opcode: op, size: 1}, nil

	case PUSHDATA1:
		return varPayload(op, ip, rest, 1)
	case PUSHDATA2:
		return varPayload(op, ip, rest, 2)
	case PUSHDATA4:
		return varPayload(op, ip, rest, 4)

	case JMP, JMPIF, JMPIFNOT, JMPEQ, JMPNE, JMPGT, JMPGE, JMPLT, JMPLE,
		CALL, ENDTRY:
		if len(rest) < 1 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenI8: int8(rest[0]), size: 2}, nil

	case JMP_L, JMPIF_L, JMPIFNOT_L, JMPEQ_L, JMPNE_L, JMPGT_L, JMPGE_L,
		JMPLT_L, JMPLE_L, CALL_L, ENDTRY_L:
		if len(rest) < 4 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenI32: int32(binary.LittleEndian.Uint32(rest)), size: 5}, nil

	case SYSCALL:
		if len(rest) < 4 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenU32: binary.LittleEndian.Uint32(rest), size: 5}, nil

	case TRY:
		if len(rest) < 2 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenI8: int8(rest[0]), TokenI8_1: int8(rest[1]), size: 3}, nil

	case TRY_L:
		if len(rest) < 8 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{
			Opcode:     op,
			TokenI32:   int32(binary.LittleEndian.Uint32(rest[0:4])),
			TokenI32_1: int32(binary.LittleEndian.Uint32(rest[4:8])),
			size:       9,
		}, nil

	case INITSSLOT, LDSFLD, STSFLD, LDLOC, STLOC, LDARG, STARG,
		NEWARRAY_T, ISTYPE, CONVERT:
		if len(rest) < 1 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenU8: rest[0], size: 2}, nil

	case INITSLOT:
		if len(rest) < 2 {
			return Instruction{}, &ErrTruncated{IP: ip, Op: op}
		}
		return Instruction{Opcode: op, TokenU8: rest[0], TokenU8_1: rest[1], size: 3}, nil

	default:
		// Unknown opcode: tolerated at decode time (§6), faults only on
		// dispatch.
		return Instruction{Opcode: op, size: 1}, nil
	}
}

func fixedPayload(op OpCode, ip int, rest []byte, n int) (Instruction, error) {
	if len(rest) < n {
		return Instruction{}, &ErrTruncated{IP: ip, Op: op}
	}
	return Instruction{Opcode: op, Operand: rest[:n], size: 1 + n}, nil
}

func varPayload(op OpCode, ip int, rest []byte, lenBytes int) (Instruction, error) {
	if len(rest) < lenBytes {
		return Instruction{}, &ErrTruncated{IP: ip, Op: op}
	}
	var n int
	switch lenBytes {
	case 1:
		n = int(rest[0])
	case 2:
		n = int(binary.LittleEndian.Uint16(rest[:2]))
	case 4:
		n = int(binary.LittleEndian.Uint32(rest[:4]))
	}
	rest = rest[lenBytes:]
	if len(rest) < n {
		return Instruction{}, &ErrTruncated{IP: ip, Op: op}
	}
	return Instruction{Opcode: op, Operand: rest[:n], size: 1 + lenBytes + n}, nil
}
