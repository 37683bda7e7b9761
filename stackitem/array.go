package stackitem

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Array is an ordered, mutable sequence of items.
type Array struct {
	elems   []Item
	refSlot any
}

var _ Item = (*Array)(nil)
var _ Trackable = (*Array)(nil)
var _ Compound = (*Array)(nil)

// NewArray returns an array holding elems. The array takes ownership of the
// slice; it is not copied.
func NewArray(elems []Item) *Array { return &Array{elems: elems} }

func (a *Array) Type() Type     { return TypeArray }
func (a *Array) Boolean() bool  { return true }
func (a *Array) String() string { return fmt.Sprintf("Array(%d)", len(a.elems)) }
func (a *Array) Len() int       { return len(a.elems) }
func (a *Array) RefSlot() any   { return a.refSlot }
func (a *Array) SetRefSlot(s any) { a.refSlot = s }

// At returns the element at index i.
func (a *Array) At(i int) Item { return a.elems[i] }

// SetAt assigns the element at index i.
func (a *Array) SetAt(i int, v Item) { a.elems[i] = v }

// Append adds v at the end.
func (a *Array) Append(v Item) { a.elems = append(a.elems, v) }

// RemoveAt deletes the element at index i.
func (a *Array) RemoveAt(i int) {
	a.elems = slices.Delete(a.elems, i, i+1)
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() {
	slices.Reverse(a.elems)
}

// Elems returns the live backing slice; callers must not retain it beyond
// the current opcode.
func (a *Array) Elems() []Item { return a.elems }

// Clear empties the array.
func (a *Array) Clear() { a.elems = a.elems[:0] }
