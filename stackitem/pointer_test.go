package stackitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func TestPointerBasics(t *testing.T) {
	s := script.New([]byte{1, 2, 3})
	p := stackitem.Pointer{Script: s, Position: 2}
	assert.Equal(t, stackitem.TypePointer, p.Type())
	assert.True(t, p.Boolean())
	assert.Equal(t, "Pointer(2)", p.String())
}

func TestPointerScriptEqualityByContent(t *testing.T) {
	a := script.New([]byte{1, 2, 3})
	b := script.New([]byte{1, 2, 3})
	assert.True(t, a.Equal(b))

	p := stackitem.Pointer{Script: a, Position: 0}
	assert.True(t, p.Script.Equal(b))
}
