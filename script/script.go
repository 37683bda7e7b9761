package script

import "bytes"

// Script is an immutable byte sequence that decodes into Instruction
// records. Two scripts compare equal by content (rather than identity):
// this still satisfies §3's requirement that a Pointer's script equal its
// enclosing context's script, since both end up holding *Script values
// produced from the same underlying bytes.
type Script struct {
	b []byte
}

// New wraps b; the caller must not mutate b afterwards.
func New(b []byte) *Script { return &Script{b: b} }

// Len returns the script's length in bytes.
func (s *Script) Len() int { return len(s.b) }

// Bytes returns the raw bytes; callers must not mutate the result.
func (s *Script) Bytes() []byte { return s.b }

// Equal reports whether s and o refer to scripts with identical content.
func (s *Script) Equal(o *Script) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return bytes.Equal(s.b, o.b)
}

// InstructionAt decodes the instruction at byte offset ip. Per §4.4, if ip
// is at or past the script's length, it synthesizes a one-byte RET so
// scripts can terminate without an explicit RET.
func (s *Script) InstructionAt(ip int) (Instruction, error) {
	if ip >= len(s.b) {
		return Instruction{Opcode: RET, size: 1}, nil
	}
	return Decode(s.b, ip)
}
