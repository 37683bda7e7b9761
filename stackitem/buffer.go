package stackitem

import "fmt"

// Buffer is a mutable byte sequence item.
type Buffer struct {
	data    []byte
	refSlot any
}

var _ Item = (*Buffer)(nil)
var _ Primitive = (*Buffer)(nil)
var _ Trackable = (*Buffer)(nil)

// NewBuffer returns a Buffer wrapping size zero bytes.
func NewBuffer(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// NewBufferFromBytes wraps b directly; the caller must not retain b.
func NewBufferFromBytes(b []byte) *Buffer {
	return &Buffer{data: b}
}

func (b *Buffer) Type() Type { return TypeBuffer }
func (b *Buffer) Boolean() bool {
	for _, c := range b.data {
		if c != 0 {
			return true
		}
	}
	return false
}
func (b *Buffer) String() string  { return fmt.Sprintf("Buffer(%d)", len(b.data)) }
func (b *Buffer) Span() []byte    { return b.data }
func (b *Buffer) Bytes() []byte   { return b.data }
func (b *Buffer) Len() int        { return len(b.data) }
func (b *Buffer) RefSlot() any    { return b.refSlot }
func (b *Buffer) SetRefSlot(s any) { b.refSlot = s }

// SetByte assigns the byte at index i; the caller is responsible for bounds
// checking (the VM validates ranges before calling this).
func (b *Buffer) SetByte(i int, v byte) { b.data[i] = v }

// ByteAt returns the byte at index i.
func (b *Buffer) ByteAt(i int) byte { return b.data[i] }
