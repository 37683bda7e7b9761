package refcount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/covm/refcount"
	"github.com/mna/covm/stackitem"
)

func TestCounterIgnoresNonTrackable(t *testing.T) {
	c := refcount.New()
	c.AddStackReference(stackitem.NewIntegerFromInt64(1), 1)
	c.AddStackReference(stackitem.Boolean(true), 1)
	assert.Equal(t, 0, c.CheckZeroReferred())
}

func TestCounterAddRemoveStackReference(t *testing.T) {
	c := refcount.New()
	a := stackitem.NewArray(nil)

	c.AddStackReference(a, 1)
	assert.Equal(t, 1, c.CheckZeroReferred())

	// a second reference to the same item does not grow the distinct-item
	// count, only its internal edge count.
	c.AddStackReference(a, 1)
	assert.Equal(t, 1, c.CheckZeroReferred())

	c.RemoveStackReference(a)
	assert.Equal(t, 1, c.CheckZeroReferred())

	c.RemoveStackReference(a)
	assert.Equal(t, 0, c.CheckZeroReferred())
}

func TestCounterMultipleDistinctItems(t *testing.T) {
	c := refcount.New()
	a := stackitem.NewArray(nil)
	b := stackitem.NewStruct(nil)
	buf := stackitem.NewBuffer(1)

	c.AddStackReference(a, 1)
	c.AddStackReference(b, 1)
	c.AddStackReference(buf, 1)
	assert.Equal(t, 3, c.CheckZeroReferred())

	c.RemoveStackReference(b)
	assert.Equal(t, 2, c.CheckZeroReferred())
}

func TestCounterAddReferenceEdges(t *testing.T) {
	c := refcount.New()
	parent := stackitem.NewArray(nil)
	child := stackitem.NewIntegerFromInt64(0)
	childArr := stackitem.NewArray(nil)

	// a non-Trackable child never registers.
	c.AddReference(child, parent)
	assert.Equal(t, 0, c.CheckZeroReferred())

	c.AddReference(childArr, parent)
	assert.Equal(t, 1, c.CheckZeroReferred())

	c.RemoveReference(childArr, parent)
	assert.Equal(t, 0, c.CheckZeroReferred())
}

func TestCounterAddStackReferenceDefaultsCountToOne(t *testing.T) {
	c := refcount.New()
	a := stackitem.NewArray(nil)
	c.AddStackReference(a, 0)
	c.RemoveStackReference(a)
	assert.Equal(t, 0, c.CheckZeroReferred())
}

func TestCounterRemoveUnknownItemIsNoOp(t *testing.T) {
	c := refcount.New()
	a := stackitem.NewArray(nil)
	assert.NotPanics(t, func() { c.RemoveStackReference(a) })
	assert.Equal(t, 0, c.CheckZeroReferred())
}
