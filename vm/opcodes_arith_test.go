package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/covm/vm"
)

func TestArithDivByZeroFaults(t *testing.T) {
	e := run(t, `
		PUSHINT8 1
		PUSHINT8 0
		DIV
		RET
	`)
	require.Equal(t, vm.Fault, e.State())
}

func TestArithModByZeroFaults(t *testing.T) {
	e := run(t, `
		PUSHINT8 1
		PUSHINT8 0
		MOD
		RET
	`)
	require.Equal(t, vm.Fault, e.State())
}

func TestArithShiftBoundary(t *testing.T) {
	cases := []struct {
		name   string
		shift  string
		opcode string
		halts  bool
	}{
		{"shl at limit", "256", "SHL", true},
		{"shl over limit", "257", "SHL", false},
		{"shr at limit", "256", "SHR", true},
		{"shr over limit", "257", "SHR", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := run(t, `
				PUSHINT8 1
				PUSHINT16 `+tc.shift+`
				`+tc.opcode+`
				RET
			`)
			if tc.halts {
				require.Equal(t, vm.Halt, e.State())
			} else {
				require.Equal(t, vm.Fault, e.State())
			}
		})
	}
}

func TestArithShlShrRoundTrip(t *testing.T) {
	e := run(t, `
		PUSHINT8 5
		PUSHINT8 3
		SHL
		PUSHINT8 3
		SHR
		RET
	`)
	require.Equal(t, vm.Halt, e.State())
	assert.EqualValues(t, 5, topInt(t, e))
}

func TestArithWithinBoundary(t *testing.T) {
	// WITHIN(x, a, b) == a <= x < b
	e := run(t, `
		PUSHINT8 5
		PUSHINT8 5
		PUSHINT8 10
		WITHIN
		RET
	`)
	require.Equal(t, vm.Halt, e.State())
	items := e.ResultStack().Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Boolean())

	e = run(t, `
		PUSHINT8 10
		PUSHINT8 5
		PUSHINT8 10
		WITHIN
		RET
	`)
	require.Equal(t, vm.Halt, e.State())
	items = e.ResultStack().Items()
	require.Len(t, items, 1)
	assert.False(t, items[0].Boolean())
}
