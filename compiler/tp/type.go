package tp

type (
	// Type is an advisory type. It is never enforced.
	Type interface {
		String() string
	}

	Int struct {
		Bits   int16
		Signed bool
	}

	Bool struct{}

	Any struct{}
)

var I64 = Int{Bits: 64, Signed: true}

// Join is the least upper bound of a and b.
// Equal types join to themselves, everything else is Any.
// nil stands for "nothing seen yet".
func Join(a, b Type) Type {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a == b:
		return a
	default:
		return Any{}
	}
}

// Known reports whether t is a confident type.
func Known(t Type) bool {
	switch t.(type) {
	case Int, Bool:
		return true
	default:
		return false
	}
}

func (x Int) String() string { return "Int" }

func (x Bool) String() string { return "Bool" }

func (x Any) String() string { return "Any" }
