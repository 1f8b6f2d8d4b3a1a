package crystal

import "fmt"

// Board and round constants. These are fixed by the artwork and are not
// configurable at runtime.
const (
	Columns      = 5
	Rows         = 3
	TileCount    = Columns * Rows
	Count        = 5 // number of crystal types
	Copies       = 3 // copies of each type on the board
	WinThreshold = 3
)

// Type identifies one of the five crystal kinds. Only equality matters.
type Type int

const (
	Purple Type = iota
	Green
	Blue
	Red
	Yellow
)

var names = [Count]string{"purple", "green", "blue", "red", "yellow"}

// All returns the types in their fixed display order.
func All() []Type {
	return []Type{Purple, Green, Blue, Red, Yellow}
}

// Index is the type's position in the display order (0..4).
func (t Type) Index() int {
	return int(t)
}

func (t Type) Valid() bool {
	return t >= Purple && t <= Yellow
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("crystal(%d)", int(t))
	}
	return names[t]
}

// Parse maps a color name back to its Type.
func Parse(name string) (Type, error) {
	for i, n := range names {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown crystal type %q", name)
}
