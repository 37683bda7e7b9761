package stackitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/covm/stackitem"
)

func TestBooleanSpanAndString(t *testing.T) {
	assert.Equal(t, []byte{1}, stackitem.Boolean(true).Span())
	assert.Equal(t, []byte{0}, stackitem.Boolean(false).Span())
	assert.Equal(t, "true", stackitem.Boolean(true).String())
	assert.Equal(t, "false", stackitem.Boolean(false).String())
	assert.Equal(t, stackitem.TypeBoolean, stackitem.Boolean(true).Type())
}

func TestByteStringBooleanCoercion(t *testing.T) {
	assert.False(t, stackitem.ByteString(nil).Boolean())
	assert.False(t, stackitem.ByteString{0, 0, 0}.Boolean())
	assert.True(t, stackitem.ByteString{0, 1}.Boolean())
	assert.Equal(t, stackitem.TypeByteString, stackitem.ByteString{}.Type())
}

func TestNullSingleton(t *testing.T) {
	assert.True(t, stackitem.IsNull(stackitem.Nil))
	assert.False(t, stackitem.IsNull(stackitem.Boolean(false)))
	assert.False(t, stackitem.Nil.Boolean())
	assert.Equal(t, "Null", stackitem.Nil.String())
}

func TestInteropInterface(t *testing.T) {
	i := stackitem.InteropInterface{Value: 42}
	assert.Equal(t, stackitem.TypeInteropInterface, i.Type())
	assert.True(t, i.Boolean())
	assert.Contains(t, i.String(), "InteropInterface")
}
