package vm

import (
	"github.com/mna/covm/refcount"
	"github.com/mna/covm/script"
)

// Context is one call frame: a script reference, instruction pointer,
// evaluation stack, optional static/local/argument slots, and an optional
// try stack (§3's ExecutionContext).
type Context struct {
	Script              *script.Script
	InstructionPointer  int
	Stack               *EvalStack
	StaticFields        *Slot
	LocalVariables      *Slot
	Arguments           *Slot
	TryStack            []*TryFrame

	refc *refcount.Counter
}

// NewContext builds the initial context for a freshly loaded script,
// starting execution at initialPosition.
func NewContext(s *script.Script, initialPosition int, refc *refcount.Counter) *Context {
	return &Context{
		Script:             s,
		InstructionPointer: initialPosition,
		Stack:              NewEvalStack(refc),
		refc:               refc,
	}
}

// CurrentInstruction decodes the instruction at the current instruction
// pointer (§4.4).
func (c *Context) CurrentInstruction() (script.Instruction, error) {
	instr, err := c.Script.InstructionAt(c.InstructionPointer)
	if err != nil {
		return script.Instruction{}, wrapf(ErrDecode, "%s", err)
	}
	return instr, nil
}

// MoveNext advances the instruction pointer past instr.
func (c *Context) MoveNext(instr script.Instruction) {
	c.InstructionPointer += instr.Size()
}

// InitStaticFields creates the context's static-field slot. Per §4.6's
// INITSSLOT semantics, this may only happen once per frame and only for a
// positive count.
func (c *Context) InitStaticFields(count int) error {
	if c.StaticFields != nil {
		return wrapf(ErrInvariant, "INITSSLOT executed twice")
	}
	if count <= 0 {
		return wrapf(ErrInvariant, "INITSSLOT requires a positive count")
	}
	c.StaticFields = NewSlot(count, c.refc)
	return nil
}

// InitSlots creates the context's local-variable and argument slots. Per
// §4.6's INITSLOT semantics, arguments are populated by popping nArgs
// values off the evaluation stack, in order.
func (c *Context) InitSlots(nLocals, nArgs int) error {
	if c.LocalVariables != nil || c.Arguments != nil {
		return wrapf(ErrInvariant, "INITSLOT executed twice")
	}
	if nLocals > 0 {
		c.LocalVariables = NewSlot(nLocals, c.refc)
	}
	if nArgs > 0 {
		args := NewSlot(nArgs, c.refc)
		for i := 0; i < nArgs; i++ {
			v, err := c.Stack.Pop()
			if err != nil {
				return err
			}
			if err := args.Set(i, v); err != nil {
				return err
			}
		}
		c.Arguments = args
	}
	return nil
}

// PushTry pushes a new try frame onto this context's try stack.
func (c *Context) PushTry(f *TryFrame) {
	c.TryStack = append(c.TryStack, f)
}

// TopTry returns the top of the try stack, or nil if it is empty.
func (c *Context) TopTry() *TryFrame {
	if len(c.TryStack) == 0 {
		return nil
	}
	return c.TryStack[len(c.TryStack)-1]
}

// PopTry removes and returns the top of the try stack.
func (c *Context) PopTry() *TryFrame {
	n := len(c.TryStack)
	if n == 0 {
		return nil
	}
	f := c.TryStack[n-1]
	c.TryStack = c.TryStack[:n-1]
	return f
}

// Clone produces a new context for CALL/CALLA: it shares this context's
// script and static_fields, but gets fresh local_variables and arguments
// (both initially absent), a fresh instruction pointer, and a fresh
// evaluation stack (§3).
func (c *Context) Clone(initialPosition int) *Context {
	return &Context{
		Script:             c.Script,
		InstructionPointer: initialPosition,
		Stack:              NewEvalStack(c.refc),
		StaticFields:       c.StaticFields,
		refc:               c.refc,
	}
}

// Unload releases this context's local/argument slot references. Static
// fields are only released when nextStatic (the static-field slot of the
// new current context, or nil if the invocation stack is now empty)
// differs from this context's own static_fields — i.e. when this was the
// outermost frame owning them.
func (c *Context) Unload(nextStatic *Slot) {
	if c.LocalVariables != nil {
		c.LocalVariables.ClearReferences()
	}
	if c.Arguments != nil {
		c.Arguments.ClearReferences()
	}
	if c.StaticFields != nil && c.StaticFields != nextStatic {
		c.StaticFields.ClearReferences()
	}
	c.Stack.Clear()
}
