// Package stackitem implements the tagged-variant value model manipulated
// by the virtual machine: the items that live on evaluation stacks and in
// slots.
package stackitem

import "math/big"

// Type identifies the concrete variant of an Item.
type Type byte

const (
	TypeAny Type = iota
	TypePointer
	TypeBoolean
	TypeInteger
	TypeByteString
	TypeBuffer
	TypeArray
	TypeStruct
	TypeMap
	TypeInteropInterface
	TypeNull
)

func (t Type) String() string {
	switch t {
	case TypeAny:
		return "Any"
	case TypePointer:
		return "Pointer"
	case TypeBoolean:
		return "Boolean"
	case TypeInteger:
		return "Integer"
	case TypeByteString:
		return "ByteString"
	case TypeBuffer:
		return "Buffer"
	case TypeArray:
		return "Array"
	case TypeStruct:
		return "Struct"
	case TypeMap:
		return "Map"
	case TypeInteropInterface:
		return "InteropInterface"
	case TypeNull:
		return "Null"
	default:
		return "Unknown"
	}
}

var typeNames = map[string]Type{
	"Any": TypeAny, "Pointer": TypePointer, "Boolean": TypeBoolean,
	"Integer": TypeInteger, "ByteString": TypeByteString, "Buffer": TypeBuffer,
	"Array": TypeArray, "Struct": TypeStruct, "Map": TypeMap,
	"InteropInterface": TypeInteropInterface, "Null": TypeNull,
}

// ParseType looks up a Type by its String() name, for the assembler.
func ParseType(name string) (Type, bool) {
	t, ok := typeNames[name]
	return t, ok
}

// IsPrimitive reports whether t is one of the PrimitiveType variants:
// Boolean, Integer, ByteString.
func (t Type) IsPrimitive() bool {
	switch t {
	case TypeBoolean, TypeInteger, TypeByteString:
		return true
	default:
		return false
	}
}

// IsCompound reports whether t is one of the CompoundType variants: Array,
// Struct, Map.
func (t Type) IsCompound() bool {
	switch t {
	case TypeArray, TypeStruct, TypeMap:
		return true
	default:
		return false
	}
}

// Item is the interface implemented by every stack item variant.
type Item interface {
	// Type returns the concrete variant of the item.
	Type() Type

	// Boolean implements the boolean-coercion rules of §4.1: Null is false,
	// Boolean is itself, Integer is value != 0, ByteString/Buffer is "any byte
	// non-zero", every other compound type is true.
	Boolean() bool

	// String returns a short debug representation; it is not part of the wire
	// format.
	String() string
}

// Primitive is implemented by items that support GetInteger and GetSpan:
// Boolean, Integer, ByteString, and Buffer.
type Primitive interface {
	Item
	// Span returns a raw byte view of the item. Buffers return their live
	// backing slice (callers must not retain it across mutation); ByteStrings
	// return their immutable bytes; Boolean and Integer return their
	// minimal-length little-endian two's-complement encoding.
	Span() []byte
}

// Trackable is implemented by the item variants the reference counter
// bounds: the CompoundType variants (Array, Struct, Map) and Buffer. Each
// carries an opaque handle slot. Package refcount does not use the slot; it
// keys its counts on the item itself.
type Trackable interface {
	Item
	// RefSlot returns the handle last stored with SetRefSlot, or nil if none
	// was stored.
	RefSlot() any
	// SetRefSlot stores an opaque handle on the item.
	SetRefSlot(slot any)
}

// Compound is implemented by the CompoundType variants: Array, Struct, Map.
// It adds only the count of direct children to Trackable.
type Compound interface {
	Trackable
	// Len returns the number of direct children.
	Len() int
}

// GetInteger implements §4.1's get_integer: it fails on non-primitive items.
// Boolean yields 0 or 1. ByteString/Buffer decode as little-endian signed
// two's-complement, subject to maxBytes (the caller's configured maximum,
// typically 32).
func GetInteger(it Item, maxBytes int) (*big.Int, error) {
	switch v := it.(type) {
	case Boolean:
		if v {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case Integer:
		return v.Big(), nil
	case ByteString:
		return decodeInteger([]byte(v), maxBytes)
	case *Buffer:
		return decodeInteger(v.Bytes(), maxBytes)
	default:
		return nil, &TypeError{Op: "get_integer", Type: it.Type()}
	}
}

func decodeInteger(b []byte, maxBytes int) (*big.Int, error) {
	if len(b) > maxBytes {
		return nil, &ArithmeticError{Msg: "integer too large to decode"}
	}
	return fromLittleEndian(b), nil
}

// GetSpan implements §4.1's get_span for primitives and Buffer.
func GetSpan(it Item) ([]byte, error) {
	p, ok := it.(Primitive)
	if !ok {
		return nil, &TypeError{Op: "get_span", Type: it.Type()}
	}
	return p.Span(), nil
}

// Equals implements §4.1's equals: Null equals Null, primitives compare by
// value (cross-primitive equality by byte-span when both are byte-flavored,
// else false), compound types compare by reference identity only.
func Equals(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if _, ok := a.(Null); ok {
		_, ok2 := b.(Null)
		return ok2
	}
	switch av := a.(type) {
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Integer:
		switch bv := b.(type) {
		case Integer:
			return av.Big().Cmp(bv.Big()) == 0
		case ByteString, *Buffer:
			return byteFlavoredEqual(a, b)
		}
		return false
	case ByteString:
		switch b.(type) {
		case ByteString, *Buffer, Integer:
			return byteFlavoredEqual(a, b)
		}
		return false
	case *Buffer:
		switch b.(type) {
		case ByteString, *Buffer, Integer:
			return byteFlavoredEqual(a, b)
		}
		return false
	default:
		// compound types and pointers/interop compare by reference identity
		return a == b
	}
}

func byteFlavoredEqual(a, b Item) bool {
	asp, aerr := spanOrIntegerSpan(a)
	bsp, berr := spanOrIntegerSpan(b)
	if aerr != nil || berr != nil {
		return false
	}
	if len(asp) != len(bsp) {
		return false
	}
	for i := range asp {
		if asp[i] != bsp[i] {
			return false
		}
	}
	return true
}

func spanOrIntegerSpan(it Item) ([]byte, error) {
	if p, ok := it.(Primitive); ok {
		return p.Span(), nil
	}
	return nil, &TypeError{Op: "span", Type: it.Type()}
}
