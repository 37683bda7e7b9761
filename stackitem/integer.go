package stackitem

import "math/big"

// Integer is an arbitrary-precision signed integer item.
type Integer struct {
	v *big.Int
}

var _ Item = Integer{}
var _ Primitive = Integer{}

// NewInteger wraps v. The caller must not mutate v afterwards.
func NewInteger(v *big.Int) Integer { return Integer{v: v} }

// NewIntegerFromInt64 is a convenience constructor for small integers.
func NewIntegerFromInt64(v int64) Integer { return Integer{v: big.NewInt(v)} }

// Big returns the underlying big.Int. Callers must not mutate it.
func (i Integer) Big() *big.Int {
	if i.v == nil {
		return big.NewInt(0)
	}
	return i.v
}

func (i Integer) Type() Type    { return TypeInteger }
func (i Integer) Boolean() bool { return i.Big().Sign() != 0 }
func (i Integer) String() string {
	return i.Big().String()
}

// Span returns the minimal-length little-endian two's-complement encoding
// of the integer; zero encodes as an empty slice.
func (i Integer) Span() []byte {
	return toLittleEndian(i.Big())
}

// fromLittleEndian decodes a minimal-length little-endian two's-complement
// byte slice into a big.Int. An empty slice decodes to zero.
func fromLittleEndian(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		// negative: v - 2^(8*len)
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, full)
	}
	return v
}

// toLittleEndian encodes v as a minimal-length little-endian two's-
// complement byte slice; zero encodes as an empty slice.
func toLittleEndian(v *big.Int) []byte {
	if v.Sign() == 0 {
		return nil
	}
	if v.Sign() > 0 {
		be := v.Bytes()
		if be[0]&0x80 != 0 {
			be = append([]byte{0}, be...)
		}
		return reversed(be)
	}

	// negative: compute two's complement of minimal byte length
	nbits := new(big.Int).Not(v).BitLen()
	nbytes := nbits/8 + 1
	full := new(big.Int).Lsh(big.NewInt(1), uint(8*nbytes))
	twos := new(big.Int).Add(full, v)
	be := twos.Bytes()
	for len(be) < nbytes {
		be = append([]byte{0}, be...)
	}
	return reversed(be)
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
