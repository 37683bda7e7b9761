package script

// Instruction is one decoded instruction record. The decoder populates
// whichever tokens a given opcode uses; the rest are left at their zero
// value. Operand carries the raw payload bytes for variable-length
// opcodes (PUSHINT*, PUSHDATA*).
type Instruction struct {
	Opcode OpCode
	Operand []byte

	TokenI8    int8
	TokenI8_1  int8
	TokenI32   int32
	TokenI32_1 int32
	TokenU8    uint8
	TokenU8_1  uint8
	TokenU16   uint16
	TokenU32   uint32

	// size is the total on-wire byte length (opcode + operand), computed by
	// the decoder.
	size int
}

// Size returns the total on-wire byte length of the instruction, i.e. how
// much Context.MoveNext must advance the instruction pointer by.
func (i Instruction) Size() int { return i.size }
