package stackitem

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// mapEntry keeps the original key item alongside its value so Keys() can
// return PrimitiveType items rather than their canonical byte-span form.
type mapEntry struct {
	key   Item
	value Item
}

// Map is an insertion-ordered mapping from PrimitiveType keys to items.
// Lookup is backed by a swiss-table hash map keyed on each key's canonical
// byte-span (the same span Equals uses for cross-primitive comparison, so
// map key identity matches EQUAL/NOTEQUAL semantics); insertion order is
// tracked separately since swiss.Map does not preserve it.
type Map struct {
	m       *swiss.Map[string, *mapEntry]
	order   []string
	refSlot any
}

var _ Item = (*Map)(nil)
var _ Trackable = (*Map)(nil)
var _ Compound = (*Map)(nil)

// NewMap returns a map with initial capacity for at least size items.
func NewMap(size int) *Map {
	if size < 0 {
		size = 0
	}
	return &Map{m: swiss.NewMap[string, *mapEntry](uint32(size))}
}

func (m *Map) Type() Type     { return TypeMap }
func (m *Map) Boolean() bool  { return true }
func (m *Map) String() string { return fmt.Sprintf("Map(%d)", m.Len()) }
func (m *Map) Len() int       { return len(m.order) }
func (m *Map) RefSlot() any   { return m.refSlot }
func (m *Map) SetRefSlot(s any) { m.refSlot = s }

// canonicalKey derives the comparable byte-span identity of a map key; it
// fails for non-primitive keys.
func canonicalKey(k Item) (string, error) {
	span, err := GetSpan(k)
	if err != nil {
		return "", &TypeError{Op: "map key", Type: k.Type()}
	}
	// Booleans only equal other Booleans, so they get their own key space.
	if _, ok := k.(Boolean); ok {
		return "b" + string(span), nil
	}
	return "s" + string(span), nil
}

// Get returns the value stored under k, if any.
func (m *Map) Get(k Item) (Item, bool, error) {
	ck, err := canonicalKey(k)
	if err != nil {
		return nil, false, err
	}
	e, ok := m.m.Get(ck)
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

// HasKey reports whether k is present.
func (m *Map) HasKey(k Item) (bool, error) {
	_, ok, err := m.Get(k)
	return ok, err
}

// SetKey inserts or updates the value stored under k.
func (m *Map) SetKey(k, v Item) error {
	ck, err := canonicalKey(k)
	if err != nil {
		return err
	}
	if _, exists := m.m.Get(ck); !exists {
		m.order = append(m.order, ck)
	}
	m.m.Put(ck, &mapEntry{key: k, value: v})
	return nil
}

// Remove deletes the entry stored under k, reporting whether it was
// present.
func (m *Map) Remove(k Item) (bool, error) {
	ck, err := canonicalKey(k)
	if err != nil {
		return false, err
	}
	if _, ok := m.m.Get(ck); !ok {
		return false, nil
	}
	m.m.Delete(ck)
	for i, o := range m.order {
		if o == ck {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Item {
	out := make([]Item, len(m.order))
	for i, ck := range m.order {
		e, _ := m.m.Get(ck)
		out[i] = e.key
	}
	return out
}

// Values returns the values in insertion order.
func (m *Map) Values() []Item {
	out := make([]Item, len(m.order))
	for i, ck := range m.order {
		e, _ := m.m.Get(ck)
		out[i] = e.value
	}
	return out
}

// Clear empties the map.
func (m *Map) Clear() {
	m.m = swiss.NewMap[string, *mapEntry](0)
	m.order = nil
}
