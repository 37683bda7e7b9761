package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/script"
)

func TestDecodeNoOperandOpcodes(t *testing.T) {
	b := []byte{byte(script.ADD)}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.Equal(t, script.ADD, instr.Opcode)
	assert.Equal(t, 1, instr.Size())
}

func TestDecodeFixedIntPayload(t *testing.T) {
	b := []byte{byte(script.PUSHINT8), 0x2a}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2a}, instr.Operand)
	assert.Equal(t, 2, instr.Size())
}

func TestDecodeFixedIntTruncated(t *testing.T) {
	b := []byte{byte(script.PUSHINT32), 1, 2}
	_, err := script.Decode(b, 0)
	assert.Error(t, err)
	var truncErr *script.ErrTruncated
	assert.ErrorAs(t, err, &truncErr)
}

func TestDecodePusha(t *testing.T) {
	b := []byte{byte(script.PUSHA), 0x05, 0x00, 0x00, 0x00}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, instr.TokenI32)
	assert.Equal(t, 5, instr.Size())
}

func TestDecodePushaNegativeOffset(t *testing.T) {
	b := []byte{byte(script.PUSHA), 0xfb, 0xff, 0xff, 0xff} // -5
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, -5, instr.TokenI32)
}

func TestDecodeShortJump(t *testing.T) {
	b := []byte{byte(script.JMP), 0xfe} // -2
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, -2, instr.TokenI8)
	assert.Equal(t, 2, instr.Size())
}

func TestDecodeLongJump(t *testing.T) {
	b := []byte{byte(script.JMP_L), 0x64, 0x00, 0x00, 0x00}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 100, instr.TokenI32)
	assert.Equal(t, 5, instr.Size())
}

func TestDecodeSyscall(t *testing.T) {
	b := []byte{byte(script.SYSCALL), 0x01, 0x00, 0x00, 0x00}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, instr.TokenU32)
}

func TestDecodeTry(t *testing.T) {
	b := []byte{byte(script.TRY), 0x05, 0x0a}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, instr.TokenI8)
	assert.EqualValues(t, 10, instr.TokenI8_1)
	assert.Equal(t, 3, instr.Size())
}

func TestDecodeTryLong(t *testing.T) {
	b := make([]byte, 9)
	b[0] = byte(script.TRY_L)
	b[1] = 0x0a // catch offset = 10
	b[5] = 0x14 // finally offset = 20
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 10, instr.TokenI32)
	assert.EqualValues(t, 20, instr.TokenI32_1)
}

func TestDecodeByteOperand(t *testing.T) {
	b := []byte{byte(script.LDLOC), 3}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, instr.TokenU8)
	assert.Equal(t, 2, instr.Size())
}

func TestDecodeInitSlot(t *testing.T) {
	b := []byte{byte(script.INITSLOT), 2, 3}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, instr.TokenU8)
	assert.EqualValues(t, 3, instr.TokenU8_1)
	assert.Equal(t, 3, instr.Size())
}

func TestDecodePushData(t *testing.T) {
	b := []byte{byte(script.PUSHDATA1), 3, 'a', 'b', 'c'}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), instr.Operand)
	assert.Equal(t, 5, instr.Size())
}

func TestDecodePushDataTruncatedPayload(t *testing.T) {
	b := []byte{byte(script.PUSHDATA1), 3, 'a'}
	_, err := script.Decode(b, 0)
	assert.Error(t, err)
}

func TestDecodeUnknownOpcodeTolerated(t *testing.T) {
	b := []byte{0xfe}
	instr, err := script.Decode(b, 0)
	require.NoError(t, err)
	assert.False(t, instr.Opcode.IsDefined())
	assert.Equal(t, 1, instr.Size())
}

func TestDecodeAtOffset(t *testing.T) {
	b := []byte{byte(script.ADD), byte(script.PUSHINT8), 7}
	instr, err := script.Decode(b, 1)
	require.NoError(t, err)
	assert.Equal(t, script.PUSHINT8, instr.Opcode)
	assert.Equal(t, []byte{7}, instr.Operand)
}
