package vm

import (
	"github.com/mna/covm/refcount"
	"github.com/mna/covm/stackitem"
)

// Slot is a fixed-length, randomly-accessible sequence of items backing
// static fields, locals, or arguments (§3).
type Slot struct {
	items []stackitem.Item
	refc  *refcount.Counter
}

// NewSlot returns a slot of the given length, every entry initially nil
// (uninitialized — reading one is an error until it is stored to).
func NewSlot(count int, refc *refcount.Counter) *Slot {
	return &Slot{items: make([]stackitem.Item, count), refc: refc}
}

// Count returns the slot's fixed length.
func (s *Slot) Count() int { return len(s.items) }

// Get returns the item at index i, failing if it is out of range or was
// never initialized.
func (s *Slot) Get(i int) (stackitem.Item, error) {
	if i < 0 || i >= len(s.items) {
		return nil, wrapf(ErrRange, "slot index %d out of range [0,%d)", i, len(s.items))
	}
	it := s.items[i]
	if it == nil {
		return nil, wrapf(ErrInvariant, "slot index %d read before assignment", i)
	}
	return it, nil
}

// Set assigns the item at index i, updating the reference counter for the
// old and new occupants.
func (s *Slot) Set(i int, item stackitem.Item) error {
	if i < 0 || i >= len(s.items) {
		return wrapf(ErrRange, "slot index %d out of range [0,%d)", i, len(s.items))
	}
	if old := s.items[i]; old != nil {
		s.refc.RemoveStackReference(old)
	}
	s.refc.AddStackReference(item, 1)
	s.items[i] = item
	return nil
}

// ClearReferences releases the reference-counter tracking for every
// initialized entry; called when a frame unloads.
func (s *Slot) ClearReferences() {
	for _, it := range s.items {
		if it != nil {
			s.refc.RemoveStackReference(it)
		}
	}
}
