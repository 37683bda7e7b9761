package stackitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/covm/stackitem"
)

func TestBufferBasics(t *testing.T) {
	b := stackitem.NewBuffer(3)
	assert.Equal(t, stackitem.TypeBuffer, b.Type())
	assert.Equal(t, 3, b.Len())
	assert.False(t, b.Boolean())

	b.SetByte(1, 0xff)
	assert.Equal(t, byte(0xff), b.ByteAt(1))
	assert.True(t, b.Boolean())
	assert.Equal(t, []byte{0, 0xff, 0}, b.Bytes())
}

func TestBufferFromBytes(t *testing.T) {
	b := stackitem.NewBufferFromBytes([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, b.Span())
	assert.Equal(t, "Buffer(3)", b.String())
}

func TestBufferRefSlot(t *testing.T) {
	b := stackitem.NewBuffer(0)
	assert.Nil(t, b.RefSlot())
	b.SetRefSlot("slot")
	assert.Equal(t, "slot", b.RefSlot())
}
