package stackitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/stackitem"
)

func TestStructBasics(t *testing.T) {
	s := stackitem.NewStruct([]stackitem.Item{
		stackitem.NewIntegerFromInt64(1),
		stackitem.ByteString("hi"),
	})
	assert.Equal(t, stackitem.TypeStruct, s.Type())
	assert.True(t, s.Boolean())
	assert.Equal(t, 2, s.Len())

	s.Append(stackitem.Boolean(true))
	require.Equal(t, 3, s.Len())

	s.RemoveAt(1)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, stackitem.Boolean(true), s.Elems()[1])

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

// Clone deep-copies nested Structs but shares nested Arrays/Maps/Buffers by
// reference, per the struct-by-value container semantics.
func TestStructCloneNestedSemantics(t *testing.T) {
	innerStruct := stackitem.NewStruct([]stackitem.Item{stackitem.NewIntegerFromInt64(1)})
	innerArray := stackitem.NewArray([]stackitem.Item{stackitem.NewIntegerFromInt64(2)})

	outer := stackitem.NewStruct([]stackitem.Item{innerStruct, innerArray})
	clone := outer.Clone()

	require.Equal(t, 2, clone.Len())
	clonedInner, ok := clone.At(0).(*stackitem.Struct)
	require.True(t, ok)
	assert.NotSame(t, innerStruct, clonedInner)

	// mutating the clone's nested struct must not affect the original.
	clonedInner.SetAt(0, stackitem.NewIntegerFromInt64(99))
	assert.EqualValues(t, 1, innerStruct.At(0).(stackitem.Integer).Big().Int64())
	assert.EqualValues(t, 99, clonedInner.At(0).(stackitem.Integer).Big().Int64())

	// the nested array is shared by reference, not cloned.
	assert.Same(t, innerArray, clone.At(1).(*stackitem.Array))
}

func TestStructString(t *testing.T) {
	s := stackitem.NewStruct(nil)
	assert.Equal(t, "Struct(0)", s.String())
}
