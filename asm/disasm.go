package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

// Disassemble renders s in the Assemble text format. It is best-effort:
// undefined opcodes are rendered as comment lines and rendering continues
// past them; a truncated instruction ends the output, with a trailing
// comment noting the decode error.
func Disassemble(s *script.Script) string {
	type decoded struct {
		addr  int
		instr script.Instruction
	}

	var instrs []decoded
	targets := map[int]bool{}
	addr := 0
	b := s.Bytes()
	var decodeErr error
	for addr < len(b) {
		instr, err := script.Decode(b, addr)
		if err != nil {
			decodeErr = err
			break
		}
		instrs = append(instrs, decoded{addr: addr, instr: instr})
		if target, ok := jumpTarget(instr, addr); ok {
			targets[target] = true
		}
		var tryOffsets []int
		switch instr.Opcode {
		case script.TRY:
			tryOffsets = []int{int(instr.TokenI8), int(instr.TokenI8_1)}
		case script.TRY_L:
			tryOffsets = []int{int(instr.TokenI32), int(instr.TokenI32_1)}
		}
		for _, off := range tryOffsets {
			if off != 0 {
				targets[addr+off] = true
			}
		}
		addr += instr.Size()
	}

	labels := labelNames(targets)

	var out strings.Builder
	for _, d := range instrs {
		if name, ok := labels[d.addr]; ok {
			fmt.Fprintf(&out, "%s:\n", name)
		}
		out.WriteString(renderInstruction(d.instr, d.addr, labels))
		out.WriteByte('\n')
	}
	if name, ok := labels[addr]; ok && decodeErr == nil {
		fmt.Fprintf(&out, "%s:\n", name)
	}
	if decodeErr != nil {
		fmt.Fprintf(&out, "# decode error at %d: %v\n", addr, decodeErr)
	}
	return out.String()
}

// jumpTarget computes the absolute address an instruction's offset
// operand refers to, if it has one.
func jumpTarget(instr script.Instruction, addr int) (int, bool) {
	switch instr.Opcode {
	case script.JMP, script.JMPIF, script.JMPIFNOT, script.JMPEQ, script.JMPNE,
		script.JMPGT, script.JMPGE, script.JMPLT, script.JMPLE, script.CALL, script.ENDTRY:
		return addr + int(instr.TokenI8), true
	case script.JMP_L, script.JMPIF_L, script.JMPIFNOT_L, script.JMPEQ_L, script.JMPNE_L,
		script.JMPGT_L, script.JMPGE_L, script.JMPLT_L, script.JMPLE_L, script.CALL_L,
		script.ENDTRY_L, script.PUSHA:
		return addr + int(instr.TokenI32), true
	}
	return 0, false
}

// labelNames assigns a stable "L<n>" name to each target address, ordered
// by address so output is deterministic.
func labelNames(targets map[int]bool) map[int]string {
	addrs := make([]int, 0, len(targets))
	for a := range targets {
		addrs = append(addrs, a)
	}
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j-1] > addrs[j]; j-- {
			addrs[j-1], addrs[j] = addrs[j], addrs[j-1]
		}
	}
	names := make(map[int]string, len(addrs))
	for i, a := range addrs {
		names[a] = fmt.Sprintf("L%d", i)
	}
	return names
}

func renderInstruction(instr script.Instruction, addr int, labels map[int]string) string {
	name := instr.Opcode.String()
	if !instr.Opcode.IsDefined() {
		return fmt.Sprintf("\t# %s (undefined opcode %d)", name, instr.Opcode)
	}

	switch instr.Opcode {
	case script.PUSHINT8, script.PUSHINT16, script.PUSHINT32, script.PUSHINT64,
		script.PUSHINT128, script.PUSHINT256:
		v, err := stackitem.GetInteger(stackitem.ByteString(instr.Operand), len(instr.Operand))
		if err != nil {
			return fmt.Sprintf("\t# %s (undecodable: %v)", name, err)
		}
		return fmt.Sprintf("\t%s %s", name, v.String())

	case script.PUSHA:
		return fmt.Sprintf("\t%s %s", name, labelAt(labels, addr, int(instr.TokenI32)))

	case script.PUSHDATA1, script.PUSHDATA2, script.PUSHDATA4:
		return fmt.Sprintf("\t%s %s", name, quoteOrHex(instr.Operand))

	case script.JMP, script.JMPIF, script.JMPIFNOT, script.JMPEQ, script.JMPNE,
		script.JMPGT, script.JMPGE, script.JMPLT, script.JMPLE, script.CALL, script.ENDTRY:
		return fmt.Sprintf("\t%s %s", name, labelAt(labels, addr, int(instr.TokenI8)))

	case script.JMP_L, script.JMPIF_L, script.JMPIFNOT_L, script.JMPEQ_L, script.JMPNE_L,
		script.JMPGT_L, script.JMPGE_L, script.JMPLT_L, script.JMPLE_L, script.CALL_L, script.ENDTRY_L:
		return fmt.Sprintf("\t%s %s", name, labelAt(labels, addr, int(instr.TokenI32)))

	case script.SYSCALL:
		return fmt.Sprintf("\t%s %d", name, instr.TokenU32)

	case script.TRY:
		return fmt.Sprintf("\t%s %s %s", name,
			tryLabelAt(labels, addr, int(instr.TokenI8)), tryLabelAt(labels, addr, int(instr.TokenI8_1)))

	case script.TRY_L:
		return fmt.Sprintf("\t%s %s %s", name,
			tryLabelAt(labels, addr, int(instr.TokenI32)), tryLabelAt(labels, addr, int(instr.TokenI32_1)))

	case script.INITSSLOT, script.LDSFLD, script.STSFLD, script.LDLOC, script.STLOC,
		script.LDARG, script.STARG:
		return fmt.Sprintf("\t%s %d", name, instr.TokenU8)

	case script.INITSLOT:
		return fmt.Sprintf("\t%s %d %d", name, instr.TokenU8, instr.TokenU8_1)

	case script.NEWARRAY_T, script.ISTYPE, script.CONVERT:
		return fmt.Sprintf("\t%s %s", name, stackitem.Type(instr.TokenU8).String())

	default:
		return fmt.Sprintf("\t%s", name)
	}
}

func labelAt(labels map[int]string, addr, offset int) string {
	if name, ok := labels[addr+offset]; ok {
		return name
	}
	return fmt.Sprintf("%d", offset)
}

func tryLabelAt(labels map[int]string, addr, offset int) string {
	if offset == 0 {
		return "0"
	}
	return labelAt(labels, addr, offset)
}

func quoteOrHex(b []byte) string {
	for _, c := range b {
		if c < 0x20 || c >= 0x7f {
			return "0x" + hexEncode(b)
		}
	}
	return strconv.Quote(string(b))
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[2*i] = digits[c>>4]
		out[2*i+1] = digits[c&0xf]
	}
	return string(out)
}
