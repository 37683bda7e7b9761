package stackitem

// Null is the singleton null item.
type Null struct{}

var (
	_ Item = Null{}

	// Nil is the one and only Null value; compare with IsNull rather than ==
	// when the static type is Item.
	Nil = Null{}
)

func (Null) Type() Type      { return TypeNull }
func (Null) Boolean() bool   { return false }
func (Null) String() string  { return "Null" }

// IsNull reports whether it is the Null item.
func IsNull(it Item) bool {
	_, ok := it.(Null)
	return ok
}
