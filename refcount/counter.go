// Package refcount implements the reference counter described in spec
// §4.2: an accounting structure that yields an upper bound on the number
// of compound-and-buffer items reachable from some stack or slot root, so
// the engine can bound live memory after every step.
//
// This implementation takes the "precise edge counting, no cycle
// collection" option §9 explicitly sanctions: every Trackable item (Array,
// Struct, Map, Buffer) has a refcount; it is tracked for the duration it
// is nonzero. A cycle of compound items referencing each other will never
// reach zero and so will count against MaxStackSize for the rest of the
// execution — an accepted conservative simplification, not a violation of
// the contract, since the engine only requires an upper bound (see
// DESIGN.md).
package refcount

import "github.com/mna/covm/stackitem"

// Counter tracks live Trackable items and reports an upper bound on their
// count via CheckZeroReferred.
type Counter struct {
	counts map[stackitem.Trackable]int
	size   int
}

// New returns an empty counter.
func New() *Counter {
	return &Counter{counts: make(map[stackitem.Trackable]int)}
}

func trackable(item stackitem.Item) (stackitem.Trackable, bool) {
	t, ok := item.(stackitem.Trackable)
	return t, ok
}

func (c *Counter) incr(t stackitem.Trackable, n int) {
	if n <= 0 {
		return
	}
	if c.counts[t] == 0 {
		c.size++
	}
	c.counts[t] += n
}

func (c *Counter) decr(t stackitem.Trackable) {
	n, ok := c.counts[t]
	if !ok {
		return
	}
	if n <= 1 {
		delete(c.counts, t)
		c.size--
		return
	}
	c.counts[t] = n - 1
}

// AddStackReference records that item entered an evaluation stack or slot,
// count times (count defaults to 1 when count <= 0).
func (c *Counter) AddStackReference(item stackitem.Item, count int) {
	t, ok := trackable(item)
	if !ok {
		return
	}
	if count <= 0 {
		count = 1
	}
	c.incr(t, count)
}

// RemoveStackReference records that item left an evaluation stack or slot.
func (c *Counter) RemoveStackReference(item stackitem.Item) {
	t, ok := trackable(item)
	if !ok {
		return
	}
	c.decr(t)
}

// AddReference records that child gained a reference from parent (parent
// becoming reachable, or an explicit APPEND/SETITEM/SETKEY). parent is
// accepted for API symmetry with the spec's contract but is not itself
// consulted: edge counting here is purely per-child.
func (c *Counter) AddReference(child, _ stackitem.Item) {
	t, ok := trackable(child)
	if !ok {
		return
	}
	c.incr(t, 1)
}

// RemoveReference records that child lost a reference previously held via
// parent.
func (c *Counter) RemoveReference(child, _ stackitem.Item) {
	t, ok := trackable(child)
	if !ok {
		return
	}
	c.decr(t)
}

// CheckZeroReferred returns the current upper bound on the number of live
// Trackable items. The engine's post-step hook compares this against
// Limits.MaxStackSize.
func (c *Counter) CheckZeroReferred() int {
	return c.size
}
