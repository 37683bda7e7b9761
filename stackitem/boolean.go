package stackitem

import "strconv"

// Boolean is a true/false item.
type Boolean bool

var _ Item = Boolean(false)
var _ Primitive = Boolean(false)

func (b Boolean) Type() Type    { return TypeBoolean }
func (b Boolean) Boolean() bool { return bool(b) }
func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

// Span returns a single byte: 0x01 for true, 0x00 for false.
func (b Boolean) Span() []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
