package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/covm/script"
)

func TestOpCodeStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "ADD", script.ADD.String())
	assert.Equal(t, "PUSHINT8", script.PUSHINT8.String())
	assert.Equal(t, "CONVERT", script.CONVERT.String())
	assert.Equal(t, "UNKNOWN", script.OpCode(250).String())
}

func TestOpCodeByName(t *testing.T) {
	op, ok := script.ByName("ADD")
	assert.True(t, ok)
	assert.Equal(t, script.ADD, op)

	_, ok = script.ByName("NOTANOPCODE")
	assert.False(t, ok)
}

func TestOpCodeIsDefined(t *testing.T) {
	assert.True(t, script.ADD.IsDefined())
	assert.False(t, script.OpCode(250).IsDefined())
}

func TestOpCodeRoundTripEveryName(t *testing.T) {
	for _, name := range []string{
		"PUSHINT8", "PUSHA", "JMP", "JMP_L", "CALL", "CALLA", "RET", "SYSCALL",
		"ABORT", "ASSERT", "THROW", "TRY", "TRY_L", "ENDTRY", "ENDFINALLY",
		"DROP", "DUP", "SWAP", "ADD", "SUB", "DIV", "EQUAL", "NEWARRAY0",
		"PICKITEM", "ISNULL", "ISTYPE", "CONVERT",
	} {
		op, ok := script.ByName(name)
		assert.True(t, ok, "opcode %s should resolve by name", name)
		assert.Equal(t, name, op.String())
		assert.True(t, op.IsDefined())
	}
}
