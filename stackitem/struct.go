package stackitem

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Struct is an ordered, mutable sequence of items, like Array, but is the
// only variant that supports deep Clone: copying a Struct recursively
// copies nested Structs while leaving nested Arrays, Maps, and Buffers
// shared by reference (container semantics: struct-by-value).
type Struct struct {
	elems   []Item
	refSlot any
}

var _ Item = (*Struct)(nil)
var _ Trackable = (*Struct)(nil)
var _ Compound = (*Struct)(nil)

// NewStruct returns a struct containing the given elements.
func NewStruct(elems []Item) *Struct { return &Struct{elems: elems} }

func (s *Struct) Type() Type     { return TypeStruct }
func (s *Struct) Boolean() bool  { return true }
func (s *Struct) String() string { return fmt.Sprintf("Struct(%d)", len(s.elems)) }
func (s *Struct) Len() int       { return len(s.elems) }
func (s *Struct) RefSlot() any   { return s.refSlot }
func (s *Struct) SetRefSlot(r any) { s.refSlot = r }

func (s *Struct) At(i int) Item       { return s.elems[i] }
func (s *Struct) SetAt(i int, v Item) { s.elems[i] = v }
func (s *Struct) Elems() []Item       { return s.elems }

// Append adds v at the end, matching Array's growth behavior (APPEND
// targets either variant).
func (s *Struct) Append(v Item) { s.elems = append(s.elems, v) }

// RemoveAt deletes the element at index i.
func (s *Struct) RemoveAt(i int) {
	s.elems = slices.Delete(s.elems, i, i+1)
}

// Clear empties the struct.
func (s *Struct) Clear() { s.elems = s.elems[:0] }

// Clone returns a deep copy of s: nested Structs are recursively cloned,
// nested Arrays/Maps/Buffers are shared by reference.
func (s *Struct) Clone() *Struct {
	out := make([]Item, len(s.elems))
	for i, e := range s.elems {
		if child, ok := e.(*Struct); ok {
			out[i] = child.Clone()
		} else {
			out[i] = e
		}
	}
	return NewStruct(out)
}
