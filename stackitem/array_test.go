package stackitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/stackitem"
)

func TestArrayBasics(t *testing.T) {
	a := stackitem.NewArray([]stackitem.Item{
		stackitem.NewIntegerFromInt64(1),
		stackitem.NewIntegerFromInt64(2),
	})
	assert.Equal(t, stackitem.TypeArray, a.Type())
	assert.True(t, a.Boolean())
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, int64(1), a.At(0).(stackitem.Integer).Big().Int64())

	a.SetAt(0, stackitem.NewIntegerFromInt64(9))
	assert.Equal(t, int64(9), a.At(0).(stackitem.Integer).Big().Int64())

	a.Append(stackitem.NewIntegerFromInt64(3))
	require.Equal(t, 3, a.Len())
	assert.Equal(t, int64(3), a.At(2).(stackitem.Integer).Big().Int64())

	a.RemoveAt(0)
	require.Equal(t, 2, a.Len())
	assert.Equal(t, int64(2), a.At(0).(stackitem.Integer).Big().Int64())

	a.Reverse()
	assert.Equal(t, int64(3), a.At(0).(stackitem.Integer).Big().Int64())

	a.Clear()
	assert.Equal(t, 0, a.Len())
}

func TestArrayStringAndRefSlot(t *testing.T) {
	a := stackitem.NewArray([]stackitem.Item{stackitem.NewIntegerFromInt64(1)})
	assert.Equal(t, "Array(1)", a.String())

	assert.Nil(t, a.RefSlot())
	a.SetRefSlot(42)
	assert.Equal(t, 42, a.RefSlot())
}
