package vm

import (
	"github.com/mna/covm/refcount"
	"github.com/mna/covm/stackitem"
	"golang.org/x/exp/slices"
)

// EvalStack is the ordered per-frame operand stack, top at index 0 (§3).
// Insert/remove/reverse operations are implemented with golang.org/x/exp/
// slices rather than hand-rolled loops.
type EvalStack struct {
	items []stackitem.Item
	refc  *refcount.Counter
}

// NewEvalStack returns an empty evaluation stack backed by refc.
func NewEvalStack(refc *refcount.Counter) *EvalStack {
	return &EvalStack{refc: refc}
}

// Count returns the number of items currently on the stack.
func (s *EvalStack) Count() int { return len(s.items) }

// Push places item on top of the stack.
func (s *EvalStack) Push(item stackitem.Item) {
	s.refc.AddStackReference(item, 1)
	s.items = append([]stackitem.Item{item}, s.items...)
}

// Peek returns the item i positions from the top (0 = top) without
// removing it.
func (s *EvalStack) Peek(i int) (stackitem.Item, error) {
	if i < 0 || i >= len(s.items) {
		return nil, wrapf(ErrRange, "peek(%d) out of range, depth %d", i, len(s.items))
	}
	return s.items[i], nil
}

// Pop removes and returns the top item.
func (s *EvalStack) Pop() (stackitem.Item, error) {
	if len(s.items) == 0 {
		return nil, wrapf(ErrRange, "pop from empty stack")
	}
	it := s.items[0]
	s.items = s.items[1:]
	s.refc.RemoveStackReference(it)
	return it, nil
}

// Insert places item at position i from the top (0 = becomes new top).
func (s *EvalStack) Insert(i int, item stackitem.Item) error {
	if i < 0 || i > len(s.items) {
		return wrapf(ErrRange, "insert(%d) out of range, depth %d", i, len(s.items))
	}
	s.refc.AddStackReference(item, 1)
	s.items = slices.Insert(s.items, i, item)
	return nil
}

// RemoveAs extracts the item i positions from the top, verifying it is of
// the expected variant (failing otherwise), and returns it.
func (s *EvalStack) RemoveAs(i int, t stackitem.Type) (stackitem.Item, error) {
	if i < 0 || i >= len(s.items) {
		return nil, wrapf(ErrRange, "remove(%d) out of range, depth %d", i, len(s.items))
	}
	it := s.items[i]
	if it.Type() != t {
		return nil, wrapf(ErrType, "expected %s at depth %d, got %s", t, i, it.Type())
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.refc.RemoveStackReference(it)
	return it, nil
}

// RemoveAtDepth extracts the item i positions from the top, without regard
// to its variant, and returns it. Used by NIP/XDROP/ROT/ROLL.
func (s *EvalStack) RemoveAtDepth(i int) (stackitem.Item, error) {
	if i < 0 || i >= len(s.items) {
		return nil, wrapf(ErrRange, "remove(%d) out of range, depth %d", i, len(s.items))
	}
	it := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	s.refc.RemoveStackReference(it)
	return it, nil
}

// SetAt overwrites the item i positions from the top in place, updating
// reference counts for the old and new occupants. Used by SWAP.
func (s *EvalStack) SetAt(i int, item stackitem.Item) error {
	if i < 0 || i >= len(s.items) {
		return wrapf(ErrRange, "set(%d) out of range, depth %d", i, len(s.items))
	}
	s.refc.RemoveStackReference(s.items[i])
	s.refc.AddStackReference(item, 1)
	s.items[i] = item
	return nil
}

// ReverseTop reverses the top n items in place.
func (s *EvalStack) ReverseTop(n int) error {
	if n < 0 || n > len(s.items) {
		return wrapf(ErrRange, "reverse(%d) out of range, depth %d", n, len(s.items))
	}
	if n <= 1 {
		return nil
	}
	slices.Reverse(s.items[:n])
	return nil
}

// Clear empties the stack, releasing every item's reference.
func (s *EvalStack) Clear() {
	for _, it := range s.items {
		s.refc.RemoveStackReference(it)
	}
	s.items = nil
}

// CopyTo moves all items from s onto dst as if each had been individually
// pushed from bottom to top, so s's own top item ends up as the new top of
// dst; it empties s. Reference-counter bookkeeping is a no-op net of the
// move: each item's stack reference is simply re-owned by dst, it is not
// added or removed.
func (s *EvalStack) CopyTo(dst *EvalStack) {
	if dst == s {
		return
	}
	dst.items = append(s.items, dst.items...)
	s.items = nil
}

// Items returns the live backing slice, top first; callers must not retain
// it across further stack mutation.
func (s *EvalStack) Items() []stackitem.Item { return s.items }
