package stackitem

import "fmt"

// InteropInterface wraps an opaque host handle. The core never inspects
// Value; it exists so syscalls (out of scope for this core) can round-trip
// host objects through the evaluation stack.
type InteropInterface struct {
	Value any
}

var _ Item = InteropInterface{}

func (i InteropInterface) Type() Type     { return TypeInteropInterface }
func (i InteropInterface) Boolean() bool  { return true }
func (i InteropInterface) String() string { return fmt.Sprintf("InteropInterface(%T)", i.Value) }
