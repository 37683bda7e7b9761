// Package asm implements a human-readable/writable form of a script. This
// is mostly to support testing of the VM without having to hand-encode raw
// bytecode. A disassembler is also implemented.
//
// The assembly format is line-oriented: one instruction per line, blank
// lines and "#" comments (to end of line) are ignored, and a line holding a
// bare "name:" token defines a label that can be referenced as the operand
// of a jump, call, try, or pusha instruction. A label resolves to the byte
// offset of the instruction immediately following it.
//
// 	# push two integers and add them
// 	PUSHINT8 2
// 	PUSHINT8 3
// 	ADD
// 	TRY catch 0
// 		PUSHINT8 1
// 		DIV
// 		JMP done
// 	catch:
// 		DROP
// 		PUSHNULL
// 	done:
// 	ENDTRY end
// 	end:
// 	RET
//
// Jump, call, try, and pusha operands are always label names; there is no
// raw numeric offset form, since offsets are relative to the encoding
// instruction's own address and are therefore awkward to compute by hand.
package asm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

// Assemble parses the textual form in src and returns the encoded script.
func Assemble(src string) (*script.Script, error) {
	a := &assembler{s: bufio.NewScanner(strings.NewReader(src))}
	a.pass1()
	if a.err != nil {
		return nil, a.err
	}
	a.pass2()
	if a.err != nil {
		return nil, a.err
	}
	return script.New(a.out), nil
}

// line is one parsed instruction line. Label definitions are not stored as
// lines; they are recorded in assembler.labels.
type line struct {
	lineNo int
	label  string
	op     script.OpCode
	opName string
	args   []string
	addr   int
	size   int
}

type assembler struct {
	s       *bufio.Scanner
	lineNo  int
	lines   []line
	labels  map[string]int
	out     []byte
	err     error
}

func (a *assembler) fail(format string, args ...any) {
	if a.err == nil {
		a.err = fmt.Errorf("asm: line %d: %s", a.lineNo, fmt.Sprintf(format, args...))
	}
}

// pass1 tokenizes every line, computes each instruction's encoded size
// (which never depends on label resolution), and records label addresses.
func (a *assembler) pass1() {
	a.labels = map[string]int{}
	addr := 0
	for a.s.Scan() {
		a.lineNo++
		raw := a.s.Text()
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}

		if len(fields) == 1 && strings.HasSuffix(fields[0], ":") {
			name := strings.TrimSuffix(fields[0], ":")
			if _, ok := a.labels[name]; ok {
				a.fail("label %q redefined", name)
				return
			}
			a.labels[name] = addr
			continue
		}

		name := strings.ToUpper(fields[0])
		op, ok := script.ByName(name)
		if !ok {
			a.fail("unknown opcode %q", fields[0])
			return
		}

		args := fields[1:]
		if isDataOp(op) {
			// PUSHDATA* payloads may contain whitespace (a quoted string), so
			// re-derive the argument from the raw line instead of Fields.
			trimmed := strings.TrimSpace(raw)
			rest := strings.TrimSpace(trimmed[len(fields[0]):])
			if rest == "" {
				args = nil
			} else {
				args = []string{rest}
			}
		}

		ln := line{lineNo: a.lineNo, op: op, opName: name, args: args, addr: addr}
		size, err := instructionSize(op, ln.args)
		if err != nil {
			a.fail("%s", err)
			return
		}
		ln.size = size
		a.lines = append(a.lines, ln)
		addr += size
	}
	if a.err == nil {
		a.err = a.s.Err()
	}
}

// pass2 encodes every instruction now that every label address is known.
func (a *assembler) pass2() {
	var buf bytes.Buffer
	for _, ln := range a.lines {
		if a.err != nil {
			return
		}
		a.lineNo = ln.lineNo
		encodeInstruction(a, &buf, ln)
	}
	a.out = buf.Bytes()
}

func (a *assembler) resolveLabel(name string) (int, bool) {
	addr, ok := a.labels[name]
	return addr, ok
}

func (a *assembler) parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		a.fail("invalid integer literal %q", s)
	}
	return v
}

func (a *assembler) parseUint(s string) uint64 {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		a.fail("invalid unsigned integer literal %q", s)
	}
	return v
}

func (a *assembler) parseType(s string) stackitem.Type {
	if t, ok := stackitem.ParseType(s); ok {
		return t
	}
	n := a.parseUint(s)
	return stackitem.Type(n)
}
