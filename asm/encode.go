package asm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/covm/script"
)

// fixedInts maps each fixed-width push opcode to its operand byte width.
var fixedInts = map[script.OpCode]int{
	script.PUSHINT8:   1,
	script.PUSHINT16:  2,
	script.PUSHINT32:  4,
	script.PUSHINT64:  8,
	script.PUSHINT128: 16,
	script.PUSHINT256: 32,
}

// shortJump/longJump opcodes take a single label operand, encoded as a
// signed 1- or 4-byte offset relative to the encoding instruction's own
// address.
var shortJumps = map[script.OpCode]bool{
	script.JMP: true, script.JMPIF: true, script.JMPIFNOT: true,
	script.JMPEQ: true, script.JMPNE: true, script.JMPGT: true,
	script.JMPGE: true, script.JMPLT: true, script.JMPLE: true,
	script.CALL: true, script.ENDTRY: true,
}

var longJumps = map[script.OpCode]bool{
	script.JMP_L: true, script.JMPIF_L: true, script.JMPIFNOT_L: true,
	script.JMPEQ_L: true, script.JMPNE_L: true, script.JMPGT_L: true,
	script.JMPGE_L: true, script.JMPLT_L: true, script.JMPLE_L: true,
	script.CALL_L: true, script.ENDTRY_L: true,
}

// noOperand lists every opcode with no operand at all.
var noOperand = map[script.OpCode]bool{
	script.PUSHNULL: true, script.PUSHM1: true,
	script.PUSH0: true, script.PUSH1: true, script.PUSH2: true, script.PUSH3: true,
	script.PUSH4: true, script.PUSH5: true, script.PUSH6: true, script.PUSH7: true,
	script.PUSH8: true, script.PUSH9: true, script.PUSH10: true, script.PUSH11: true,
	script.PUSH12: true, script.PUSH13: true, script.PUSH14: true, script.PUSH15: true,
	script.PUSH16: true,
	script.CALLA: true, script.RET: true, script.ABORT: true, script.ASSERT: true,
	script.THROW: true, script.ENDFINALLY: true,
	script.DEPTH: true, script.DROP: true, script.NIP: true, script.XDROP: true,
	script.CLEAR: true, script.DUP: true, script.OVER: true, script.PICK: true,
	script.TUCK: true, script.SWAP: true, script.ROT: true, script.ROLL: true,
	script.REVERSE3: true, script.REVERSE4: true, script.REVERSEN: true,
	script.LDSFLD0: true, script.LDSFLD1: true, script.LDSFLD2: true, script.LDSFLD3: true,
	script.LDSFLD4: true, script.LDSFLD5: true, script.LDSFLD6: true,
	script.STSFLD0: true, script.STSFLD1: true, script.STSFLD2: true, script.STSFLD3: true,
	script.STSFLD4: true, script.STSFLD5: true, script.STSFLD6: true,
	script.LDLOC0: true, script.LDLOC1: true, script.LDLOC2: true, script.LDLOC3: true,
	script.LDLOC4: true, script.LDLOC5: true, script.LDLOC6: true,
	script.STLOC0: true, script.STLOC1: true, script.STLOC2: true, script.STLOC3: true,
	script.STLOC4: true, script.STLOC5: true, script.STLOC6: true,
	script.LDARG0: true, script.LDARG1: true, script.LDARG2: true, script.LDARG3: true,
	script.LDARG4: true, script.LDARG5: true, script.LDARG6: true,
	script.STARG0: true, script.STARG1: true, script.STARG2: true, script.STARG3: true,
	script.STARG4: true, script.STARG5: true, script.STARG6: true,
	script.NEWBUFFER: true, script.MEMCPY: true, script.CAT: true, script.SUBSTR: true,
	script.LEFT: true, script.RIGHT: true,
	script.INVERT: true, script.AND: true, script.OR: true, script.XOR: true,
	script.EQUAL: true, script.NOTEQUAL: true, script.SIGN: true, script.ABS: true,
	script.NEGATE: true, script.INC: true, script.DEC: true, script.ADD: true,
	script.SUB: true, script.MUL: true, script.DIV: true, script.MOD: true,
	script.SHL: true, script.SHR: true, script.NOT: true, script.BOOLAND: true,
	script.BOOLOR: true, script.NZ: true, script.NUMEQUAL: true, script.NUMNOTEQUAL: true,
	script.LT: true, script.LE: true, script.GT: true, script.GE: true,
	script.MIN: true, script.MAX: true, script.WITHIN: true,
	script.PACK: true, script.UNPACK: true, script.NEWARRAY0: true, script.NEWARRAY: true,
	script.NEWSTRUCT0: true, script.NEWSTRUCT: true, script.NEWMAP: true,
	script.SIZE: true, script.HASKEY: true, script.KEYS: true, script.VALUES: true,
	script.PICKITEM: true, script.APPEND: true, script.SETITEM: true,
	script.REVERSEITEMS: true, script.REMOVE: true, script.CLEARITEMS: true,
	script.ISNULL: true,
}

// byteOperand lists opcodes taking a single raw uint8 operand (an index or
// slot count).
var byteOperand = map[script.OpCode]bool{
	script.INITSSLOT: true, script.LDSFLD: true, script.STSFLD: true,
	script.LDLOC: true, script.STLOC: true, script.LDARG: true, script.STARG: true,
}

var typeOperand = map[script.OpCode]bool{
	script.NEWARRAY_T: true, script.ISTYPE: true, script.CONVERT: true,
}

func isDataOp(op script.OpCode) bool {
	return op == script.PUSHDATA1 || op == script.PUSHDATA2 || op == script.PUSHDATA4
}

func instructionSize(op script.OpCode, args []string) (int, error) {
	switch {
	case noOperand[op]:
		if len(args) != 0 {
			return 0, fmt.Errorf("%s takes no operand", op)
		}
		return 1, nil

	case fixedInts[op] != 0:
		if len(args) != 1 {
			return 0, fmt.Errorf("%s wants one integer operand", op)
		}
		return 1 + fixedInts[op], nil

	case op == script.PUSHA:
		if len(args) != 1 {
			return 0, fmt.Errorf("PUSHA wants one label operand")
		}
		return 5, nil

	case isDataOp(op):
		if len(args) != 1 {
			return 0, fmt.Errorf("%s wants one data operand", op)
		}
		b, err := decodeDataLiteral(args[0])
		if err != nil {
			return 0, err
		}
		lenBytes := map[script.OpCode]int{script.PUSHDATA1: 1, script.PUSHDATA2: 2, script.PUSHDATA4: 4}[op]
		return 1 + lenBytes + len(b), nil

	case shortJumps[op]:
		if op == script.ENDTRY {
			if len(args) != 1 {
				return 0, fmt.Errorf("ENDTRY wants one label operand")
			}
		} else if len(args) != 1 {
			return 0, fmt.Errorf("%s wants one label operand", op)
		}
		return 2, nil

	case longJumps[op]:
		if len(args) != 1 {
			return 0, fmt.Errorf("%s wants one label operand", op)
		}
		return 5, nil

	case op == script.SYSCALL:
		if len(args) != 1 {
			return 0, fmt.Errorf("SYSCALL wants one method-id operand")
		}
		return 5, nil

	case op == script.TRY:
		if len(args) != 2 {
			return 0, fmt.Errorf("TRY wants catch and finally operands")
		}
		return 3, nil

	case op == script.TRY_L:
		if len(args) != 2 {
			return 0, fmt.Errorf("TRY_L wants catch and finally operands")
		}
		return 9, nil

	case byteOperand[op]:
		if len(args) != 1 {
			return 0, fmt.Errorf("%s wants one operand", op)
		}
		return 2, nil

	case op == script.INITSLOT:
		if len(args) != 2 {
			return 0, fmt.Errorf("INITSLOT wants locals and args operand")
		}
		return 3, nil

	case typeOperand[op]:
		if len(args) != 1 {
			return 0, fmt.Errorf("%s wants one type operand", op)
		}
		return 2, nil

	default:
		return 0, fmt.Errorf("opcode %s is not assemblable", op)
	}
}

func encodeInstruction(a *assembler, buf *bytes.Buffer, ln line) {
	buf.WriteByte(byte(ln.op))

	switch {
	case noOperand[ln.op]:
		return

	case fixedInts[ln.op] != 0:
		n := fixedInts[ln.op]
		v := a.parseInt(ln.args[0])
		b, err := encodeFixedInt(n, v)
		if err != nil {
			a.fail("%s", err)
			return
		}
		buf.Write(b)

	case ln.op == script.PUSHA:
		off := a.relOffset(ln, ln.args[0])
		writeI32(buf, off)

	case isDataOp(ln.op):
		b, err := decodeDataLiteral(ln.args[0])
		if err != nil {
			a.fail("%s", err)
			return
		}
		switch ln.op {
		case script.PUSHDATA1:
			buf.WriteByte(byte(len(b)))
		case script.PUSHDATA2:
			writeU16(buf, uint16(len(b)))
		case script.PUSHDATA4:
			writeU32(buf, uint32(len(b)))
		}
		buf.Write(b)

	case shortJumps[ln.op]:
		off := a.relOffset(ln, ln.args[0])
		if off < -128 || off > 127 {
			a.fail("%s: offset %d does not fit in one byte, use the _L form", ln.opName, off)
			return
		}
		buf.WriteByte(byte(int8(off)))

	case longJumps[ln.op]:
		off := a.relOffset(ln, ln.args[0])
		writeI32(buf, off)

	case ln.op == script.SYSCALL:
		writeU32(buf, uint32(a.parseUint(ln.args[0])))

	case ln.op == script.TRY:
		catch := a.tryOffset(ln, ln.args[0])
		finally := a.tryOffset(ln, ln.args[1])
		buf.WriteByte(byte(int8(catch)))
		buf.WriteByte(byte(int8(finally)))

	case ln.op == script.TRY_L:
		catch := a.tryOffset(ln, ln.args[0])
		finally := a.tryOffset(ln, ln.args[1])
		writeI32(buf, catch)
		writeI32(buf, finally)

	case byteOperand[ln.op]:
		buf.WriteByte(byte(a.parseUint(ln.args[0])))

	case ln.op == script.INITSLOT:
		buf.WriteByte(byte(a.parseUint(ln.args[0])))
		buf.WriteByte(byte(a.parseUint(ln.args[1])))

	case typeOperand[ln.op]:
		buf.WriteByte(byte(a.parseType(ln.args[0])))

	default:
		a.fail("opcode %s is not assemblable", ln.op)
	}
}

// relOffset resolves a label argument to an offset relative to ln's own
// address, matching the engine's target = instruction_ip + offset
// convention (§4.4/§4.6).
func (a *assembler) relOffset(ln line, label string) int {
	addr, ok := a.resolveLabel(label)
	if !ok {
		a.fail("undefined label %q", label)
		return 0
	}
	return addr - ln.addr
}

// tryOffset is like relOffset but accepts the literal "0" to mean "no
// catch"/"no finally", matching TRY's encoding of an absent handler as a
// zero offset.
func (a *assembler) tryOffset(ln line, arg string) int {
	if arg == "0" {
		return 0
	}
	return a.relOffset(ln, arg)
}

func encodeFixedInt(n int, v int64) ([]byte, error) {
	// Literals are parsed into an int64 (strconv.ParseInt), so for n >= 8
	// every representable literal already fits; only the narrower widths
	// need a range check.
	if n < 8 {
		lo := -(int64(1) << uint(8*n-1))
		hi := int64(1)<<uint(8*n-1) - 1
		if v < lo || v > hi {
			return nil, fmt.Errorf("value %d does not fit in %d bytes", v, n)
		}
	}
	b := make([]byte, n)
	uv := uint64(v)
	pad := byte(0)
	if v < 0 {
		pad = 0xff
	}
	for i := 0; i < n; i++ {
		if i < 8 {
			b[i] = byte(uv)
			uv >>= 8
		} else {
			// v is parsed as int64; widths beyond 8 bytes are sign-extended.
			b[i] = pad
		}
	}
	return b, nil
}

func decodeDataLiteral(lit string) ([]byte, error) {
	switch {
	case strings.HasPrefix(lit, `"`):
		s, err := strconv.Unquote(lit)
		if err != nil {
			return nil, fmt.Errorf("invalid quoted data literal %q: %w", lit, err)
		}
		return []byte(s), nil
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		b, err := decodeHex(lit[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid hex data literal %q: %w", lit, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("data literal %q must be a quoted string or a 0x-prefixed hex sequence", lit)
	}
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd number of hex digits")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func writeI32(buf *bytes.Buffer, v int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
