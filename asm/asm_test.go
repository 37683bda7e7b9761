package asm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/asm"
	"github.com/mna/covm/script"
)

func TestAssembleSimple(t *testing.T) {
	s, err := asm.Assemble(`
		PUSHINT8 2
		PUSHINT8 3
		ADD
		RET
	`)
	require.NoError(t, err)
	require.Equal(t, 6, s.Len())

	instr, err := script.Decode(s.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, script.PUSHINT8, instr.Opcode)
	assert.Equal(t, []byte{2}, instr.Operand)
}

func TestAssembleLabelsForward(t *testing.T) {
	s, err := asm.Assemble(`
		PUSH1
		JMP target
		PUSH0
	target:
		RET
	`)
	require.NoError(t, err)

	// JMP is at address 1 (after PUSH1's one byte); target is the RET at
	// address 1(JMP) + 2(JMP operand) + 1(PUSH0) = 4.
	instr, err := script.Decode(s.Bytes(), 1)
	require.NoError(t, err)
	require.Equal(t, script.JMP, instr.Opcode)
	assert.EqualValues(t, 3, instr.TokenI8)
}

func TestAssembleLabelsBackward(t *testing.T) {
	s, err := asm.Assemble(`
	loop:
		PUSH1
		JMP loop
	`)
	require.NoError(t, err)

	instr, err := script.Decode(s.Bytes(), 1)
	require.NoError(t, err)
	require.Equal(t, script.JMP, instr.Opcode)
	assert.EqualValues(t, -1, instr.TokenI8)
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := asm.Assemble(`JMP nowhere`)
	assert.Error(t, err)
}

func TestAssembleUnknownOpcode(t *testing.T) {
	_, err := asm.Assemble(`NOPNOPNOP`)
	assert.Error(t, err)
}

func TestAssemblePushData(t *testing.T) {
	s, err := asm.Assemble(`PUSHDATA1 "hi"`)
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())

	instr, err := script.Decode(s.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), instr.Operand)
}

func TestAssemblePushDataHex(t *testing.T) {
	s, err := asm.Assemble(`PUSHDATA1 0xdeadbeef`)
	require.NoError(t, err)

	instr, err := script.Decode(s.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, instr.Operand)
}

func TestAssembleTryOffsets(t *testing.T) {
	s, err := asm.Assemble(`
		TRY catch 0
			PUSH0
			ENDTRY done
		catch:
			PUSH1
		done:
		RET
	`)
	require.NoError(t, err)

	instr, err := script.Decode(s.Bytes(), 0)
	require.NoError(t, err)
	require.Equal(t, script.TRY, instr.Opcode)
	// catch is the PUSH1 right after the try body: TRY(3)+PUSH0(1)+ENDTRY(2) = 6
	assert.EqualValues(t, 6, instr.TokenI8)
	assert.EqualValues(t, 0, instr.TokenI8_1)
}

func TestAssembleShortJumpOverflow(t *testing.T) {
	src := "JMP far\n"
	for i := 0; i < 200; i++ {
		src += "DROP\n"
	}
	src += "far:\nRET\n"
	_, err := asm.Assemble(src)
	assert.Error(t, err)
}

func TestAssembleConvertType(t *testing.T) {
	s, err := asm.Assemble(`CONVERT Boolean`)
	require.NoError(t, err)
	instr, err := script.Decode(s.Bytes(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, instr.TokenU8) // TypeBoolean ordinal
}

func TestDisassembleRoundTrip(t *testing.T) {
	s, err := asm.Assemble(`
		PUSHINT8 5
		PUSHINT8 7
		ADD
		JMPIF back
		RET
	back:
		RET
	`)
	require.NoError(t, err)

	out := asm.Disassemble(s)
	assert.Contains(t, out, "PUSHINT8 5")
	assert.Contains(t, out, "ADD")
	assert.Contains(t, out, "JMPIF L0")
	assert.Contains(t, out, "L0:")

	// the disassembled text should itself re-assemble to an equal script.
	s2, err := asm.Assemble(out)
	require.NoError(t, err)
	assert.True(t, s.Equal(s2))
}
