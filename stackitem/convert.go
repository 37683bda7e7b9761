package stackitem

// MaxIntegerBytes bounds the byte length accepted when decoding a
// ByteString/Buffer into an Integer, per §4.1's "host-defined max,
// typically ≤ 32 bytes".
const MaxIntegerBytes = 32

// ConvertTo implements §4.1's convert_to: identity conversion to an item's
// own type always succeeds; among primitives (Boolean, Integer, ByteString,
// Buffer) the well-defined coercions below apply, and Null converts to
// Boolean (false); everything else fails.
func ConvertTo(it Item, target Type) (Item, error) {
	if it.Type() == target {
		return it, nil
	}

	switch target {
	case TypeBoolean:
		switch it.(type) {
		case Boolean, Integer, ByteString, *Buffer, Null:
			return Boolean(it.Boolean()), nil
		}
	case TypeInteger:
		switch it.(type) {
		case Boolean, Integer, ByteString, *Buffer:
			v, err := GetInteger(it, MaxIntegerBytes)
			if err != nil {
				return nil, err
			}
			return NewInteger(v), nil
		}
	case TypeByteString:
		switch v := it.(type) {
		case Boolean, Integer, ByteString:
			span, _ := GetSpan(it)
			return ByteString(append([]byte(nil), span...)), nil
		case *Buffer:
			return ByteString(append([]byte(nil), v.Bytes()...)), nil
		}
	case TypeBuffer:
		switch v := it.(type) {
		case Boolean, Integer, ByteString:
			span, _ := GetSpan(it)
			return NewBufferFromBytes(append([]byte(nil), span...)), nil
		case *Buffer:
			return NewBufferFromBytes(append([]byte(nil), v.Bytes()...)), nil
		}
	}

	return nil, &ConversionError{From: it.Type(), To: target}
}

// DefaultForType returns the zero value NEWARRAY_T fills a new array with:
// False for Boolean, 0 for Integer, empty ByteString for ByteString, and
// Null for every other defined StackItemType (including any defined type
// that isn't one of the three named above) — §9's "unusual" rule that this
// implementation preserves rather than tightens.
func DefaultForType(t Type) Item {
	switch t {
	case TypeBoolean:
		return Boolean(false)
	case TypeInteger:
		return NewIntegerFromInt64(0)
	case TypeByteString:
		return ByteString(nil)
	default:
		return Nil
	}
}
