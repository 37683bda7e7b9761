package stackitem

import "fmt"

// ByteString is an immutable byte sequence item.
type ByteString []byte

var _ Item = ByteString(nil)
var _ Primitive = ByteString(nil)

func (b ByteString) Type() Type    { return TypeByteString }
func (b ByteString) Boolean() bool {
	for _, c := range b {
		if c != 0 {
			return true
		}
	}
	return false
}
func (b ByteString) String() string { return fmt.Sprintf("ByteString(%d)", len(b)) }
func (b ByteString) Span() []byte   { return b }
