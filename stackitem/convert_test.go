package stackitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/stackitem"
)

func TestConvertIdentity(t *testing.T) {
	i := stackitem.NewIntegerFromInt64(5)
	out, err := stackitem.ConvertTo(i, stackitem.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, i, out)
}

func TestConvertToBoolean(t *testing.T) {
	out, err := stackitem.ConvertTo(stackitem.NewIntegerFromInt64(0), stackitem.TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, stackitem.Boolean(false), out)

	out, err = stackitem.ConvertTo(stackitem.NewIntegerFromInt64(7), stackitem.TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, stackitem.Boolean(true), out)

	out, err = stackitem.ConvertTo(stackitem.Nil, stackitem.TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, stackitem.Boolean(false), out)
}

func TestConvertToInteger(t *testing.T) {
	out, err := stackitem.ConvertTo(stackitem.ByteString{0x2a}, stackitem.TypeInteger)
	require.NoError(t, err)
	assert.EqualValues(t, 42, out.(stackitem.Integer).Big().Int64())
}

func TestConvertToByteString(t *testing.T) {
	out, err := stackitem.ConvertTo(stackitem.NewIntegerFromInt64(42), stackitem.TypeByteString)
	require.NoError(t, err)
	assert.Equal(t, stackitem.ByteString{0x2a}, out)
}

func TestConvertToBuffer(t *testing.T) {
	out, err := stackitem.ConvertTo(stackitem.ByteString{1, 2}, stackitem.TypeBuffer)
	require.NoError(t, err)
	buf, ok := out.(*stackitem.Buffer)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2}, buf.Bytes())
}

func TestConvertUnsupportedFails(t *testing.T) {
	_, err := stackitem.ConvertTo(stackitem.NewArray(nil), stackitem.TypeInteger)
	assert.Error(t, err)
	var convErr *stackitem.ConversionError
	assert.ErrorAs(t, err, &convErr)

	_, err = stackitem.ConvertTo(stackitem.NewIntegerFromInt64(1), stackitem.TypeArray)
	assert.Error(t, err)
}

func TestDefaultForType(t *testing.T) {
	assert.Equal(t, stackitem.Boolean(false), stackitem.DefaultForType(stackitem.TypeBoolean))
	assert.EqualValues(t, 0, stackitem.DefaultForType(stackitem.TypeInteger).(stackitem.Integer).Big().Int64())
	assert.Equal(t, stackitem.ByteString(nil), stackitem.DefaultForType(stackitem.TypeByteString))
	assert.Equal(t, stackitem.Nil, stackitem.DefaultForType(stackitem.TypeArray))
}
