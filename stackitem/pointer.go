package stackitem

import (
	"fmt"

	"github.com/mna/covm/script"
)

// Pointer is an instruction address within a specific script, used by
// CALLA. Two scripts compare equal by content (see script.Script.Equal),
// which is what CALLA relies on to verify a Pointer's script matches its
// enclosing context's script.
type Pointer struct {
	Script   *script.Script
	Position int
}

var _ Item = Pointer{}

func (p Pointer) Type() Type     { return TypePointer }
func (p Pointer) Boolean() bool  { return true }
func (p Pointer) String() string { return fmt.Sprintf("Pointer(%d)", p.Position) }
