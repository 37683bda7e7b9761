package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/script"
)

func TestScriptLenBytes(t *testing.T) {
	s := script.New([]byte{1, 2, 3})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []byte{1, 2, 3}, s.Bytes())
}

func TestScriptEqualByContent(t *testing.T) {
	a := script.New([]byte{1, 2, 3})
	b := script.New([]byte{1, 2, 3})
	c := script.New([]byte{1, 2, 4})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.Equal(a))
}

func TestScriptEqualNilHandling(t *testing.T) {
	var nilScript *script.Script
	s := script.New([]byte{1})
	assert.False(t, s.Equal(nilScript))
	assert.False(t, nilScript.Equal(s))
	assert.True(t, nilScript.Equal(nil))
}

func TestScriptInstructionAtSynthesizesRet(t *testing.T) {
	s := script.New([]byte{byte(script.PUSH1)})

	instr, err := s.InstructionAt(1)
	require.NoError(t, err)
	assert.Equal(t, script.RET, instr.Opcode)
	assert.Equal(t, 1, instr.Size())

	// past the end, still synthesizes RET.
	instr, err = s.InstructionAt(100)
	require.NoError(t, err)
	assert.Equal(t, script.RET, instr.Opcode)
}

func TestScriptInstructionAtDecodesRealInstruction(t *testing.T) {
	s := script.New([]byte{byte(script.PUSHINT8), 0x2a})
	instr, err := s.InstructionAt(0)
	require.NoError(t, err)
	assert.Equal(t, script.PUSHINT8, instr.Opcode)
	assert.Equal(t, []byte{0x2a}, instr.Operand)
}
