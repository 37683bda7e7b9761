package stackitem_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/stackitem"
)

func TestTypeString(t *testing.T) {
	cases := []struct {
		typ  stackitem.Type
		want string
	}{
		{stackitem.TypeAny, "Any"},
		{stackitem.TypePointer, "Pointer"},
		{stackitem.TypeBoolean, "Boolean"},
		{stackitem.TypeInteger, "Integer"},
		{stackitem.TypeByteString, "ByteString"},
		{stackitem.TypeBuffer, "Buffer"},
		{stackitem.TypeArray, "Array"},
		{stackitem.TypeStruct, "Struct"},
		{stackitem.TypeMap, "Map"},
		{stackitem.TypeInteropInterface, "InteropInterface"},
		{stackitem.TypeNull, "Null"},
		{stackitem.Type(255), "Unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.typ.String())
	}
}

func TestParseType(t *testing.T) {
	typ, ok := stackitem.ParseType("Boolean")
	require.True(t, ok)
	assert.Equal(t, stackitem.TypeBoolean, typ)

	_, ok = stackitem.ParseType("NotAType")
	assert.False(t, ok)
}

func TestIsPrimitiveIsCompound(t *testing.T) {
	assert.True(t, stackitem.TypeBoolean.IsPrimitive())
	assert.True(t, stackitem.TypeInteger.IsPrimitive())
	assert.True(t, stackitem.TypeByteString.IsPrimitive())
	assert.False(t, stackitem.TypeBuffer.IsPrimitive())
	assert.False(t, stackitem.TypeArray.IsPrimitive())

	assert.True(t, stackitem.TypeArray.IsCompound())
	assert.True(t, stackitem.TypeStruct.IsCompound())
	assert.True(t, stackitem.TypeMap.IsCompound())
	assert.False(t, stackitem.TypeBuffer.IsCompound())
	assert.False(t, stackitem.TypeInteger.IsCompound())
}

func TestGetIntegerVariants(t *testing.T) {
	v, err := stackitem.GetInteger(stackitem.Boolean(true), 32)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v.Int64())

	v, err = stackitem.GetInteger(stackitem.Boolean(false), 32)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v.Int64())

	v, err = stackitem.GetInteger(stackitem.NewIntegerFromInt64(42), 32)
	require.NoError(t, err)
	assert.EqualValues(t, 42, v.Int64())

	v, err = stackitem.GetInteger(stackitem.ByteString{0x2a}, 32)
	require.NoError(t, err)
	assert.EqualValues(t, 42, v.Int64())

	buf := stackitem.NewBufferFromBytes([]byte{0xff})
	v, err = stackitem.GetInteger(buf, 32)
	require.NoError(t, err)
	assert.EqualValues(t, -1, v.Int64())

	_, err = stackitem.GetInteger(stackitem.NewArray(nil), 32)
	assert.Error(t, err)
	var typeErr *stackitem.TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestGetIntegerTooLarge(t *testing.T) {
	big := make([]byte, 40)
	big[len(big)-1] = 0x01
	_, err := stackitem.GetInteger(stackitem.ByteString(big), 32)
	assert.Error(t, err)
	var arithErr *stackitem.ArithmeticError
	assert.ErrorAs(t, err, &arithErr)
}

func TestGetSpan(t *testing.T) {
	span, err := stackitem.GetSpan(stackitem.ByteString{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, span)

	_, err = stackitem.GetSpan(stackitem.NewMap(0))
	assert.Error(t, err)
}

func TestEqualsNull(t *testing.T) {
	assert.True(t, stackitem.Equals(stackitem.Nil, stackitem.Nil))
	assert.False(t, stackitem.Equals(stackitem.Nil, stackitem.Boolean(false)))
}

func TestEqualsPrimitivesCrossType(t *testing.T) {
	assert.True(t, stackitem.Equals(stackitem.NewIntegerFromInt64(42), stackitem.ByteString{0x2a}))
	assert.True(t, stackitem.Equals(stackitem.ByteString{0x2a}, stackitem.NewIntegerFromInt64(42)))
	assert.True(t, stackitem.Equals(
		stackitem.NewBufferFromBytes([]byte{0x2a}),
		stackitem.ByteString{0x2a},
	))
	assert.False(t, stackitem.Equals(stackitem.NewIntegerFromInt64(1), stackitem.NewIntegerFromInt64(2)))
	assert.False(t, stackitem.Equals(stackitem.Boolean(true), stackitem.NewIntegerFromInt64(1)))
}

func TestEqualsCompoundByReference(t *testing.T) {
	a := stackitem.NewArray([]stackitem.Item{stackitem.NewIntegerFromInt64(1)})
	b := stackitem.NewArray([]stackitem.Item{stackitem.NewIntegerFromInt64(1)})
	assert.True(t, stackitem.Equals(a, a))
	assert.False(t, stackitem.Equals(a, b))
}

func TestEqualsNilItems(t *testing.T) {
	assert.True(t, stackitem.Equals(nil, nil))
	assert.False(t, stackitem.Equals(nil, stackitem.Nil))
	assert.False(t, stackitem.Equals(stackitem.Nil, nil))
}

func TestIntegerSpanRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, -128, 128, -129, 255, -255, 32767, -32768}
	for _, c := range cases {
		i := stackitem.NewIntegerFromInt64(c)
		span := i.Span()
		v, err := stackitem.GetInteger(stackitem.ByteString(span), 32)
		require.NoError(t, err)
		assert.EqualValues(t, c, v.Int64(), "round trip of %d via span %v", c, span)
	}
}

func TestIntegerZeroSpanIsEmpty(t *testing.T) {
	assert.Empty(t, stackitem.NewIntegerFromInt64(0).Span())
}

func TestIntegerBigRoundTrip(t *testing.T) {
	big, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	i := stackitem.NewInteger(big)
	span := i.Span()
	v, err := stackitem.GetInteger(stackitem.ByteString(span), stackitem.MaxIntegerBytes)
	require.NoError(t, err)
	assert.Equal(t, 0, big.Cmp(v))
}

func TestIntegerBoolean(t *testing.T) {
	assert.False(t, stackitem.NewIntegerFromInt64(0).Boolean())
	assert.True(t, stackitem.NewIntegerFromInt64(1).Boolean())
	assert.True(t, stackitem.NewIntegerFromInt64(-1).Boolean())
}
