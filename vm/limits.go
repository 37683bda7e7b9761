package vm

// Limits bounds the virtual resources a single engine instance enforces,
// per §3. The zero value is not useful directly; use DefaultLimits or the
// WithLimits option.
type Limits struct {
	// MaxShift bounds the shift amount accepted by SHL/SHR.
	MaxShift int
	// MaxStackSize bounds both the live-reference count the reference
	// counter tracks and the element count a single compound item may hold
	// (e.g. NEWARRAY, PACK).
	MaxStackSize int
	// MaxItemSize bounds the byte length of any ByteString or Buffer
	// produced by an opcode.
	MaxItemSize int
	// MaxInvocationStackSize bounds the number of nested call frames.
	MaxInvocationStackSize int
}

// DefaultLimits returns the limits named in §3.
func DefaultLimits() Limits {
	return Limits{
		MaxShift:               256,
		MaxStackSize:           2048,
		MaxItemSize:            1 << 20, // 1,048,576
		MaxInvocationStackSize: 1024,
	}
}
