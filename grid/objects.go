package grid

import "fmt"

// Kind is the type id of whatever occupies a cell.
// The numeric values are the ids used in encoded observations.
type Kind uint8

const (
	KindUnseen Kind = 0
	KindEmpty  Kind = 1
	KindWall   Kind = 2
	KindDoor   Kind = 4
	KindKey    Kind = 5
	KindBall   Kind = 6
	KindBox    Kind = 7
)

// ObjectKinds are the kinds of colored objects, in random draw order
var ObjectKinds = []Kind{KindBall, KindKey, KindBox}

var kindNames = map[Kind]string{
	KindUnseen: "unseen",
	KindEmpty:  "empty",
	KindWall:   "wall",
	KindDoor:   "door",
	KindKey:    "key",
	KindBall:   "ball",
	KindBox:    "box",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsObject is true for the colored object kinds (ball, key, box)
func (k Kind) IsObject() bool {
	return k == KindBall || k == KindKey || k == KindBox
}

// Color of a door or an object.
// The numeric values are the ids used in encoded observations.
type Color uint8

const (
	Red    Color = 0
	Green  Color = 1
	Blue   Color = 2
	Purple Color = 3
	Yellow Color = 4
	Grey   Color = 5
)

// Colors is the palette in random draw order
var Colors = []Color{Blue, Green, Grey, Purple, Red, Yellow}

var colorNames = [...]string{"red", "green", "blue", "purple", "yellow", "grey"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", c)
}

// DoorState is the state channel of an encoded door
type DoorState uint8

const (
	DoorOpen   DoorState = 0
	DoorClosed DoorState = 1
	DoorLocked DoorState = 2
)

// Object is a colored ball, key or box.
// Objects are values: two objects are the same object iff kind and color match.
type Object struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

func (o Object) String() string {
	return o.Color.String() + " " + o.Kind.String()
}

// Key used to index object counts
func (o Object) Key() string {
	return o.String()
}

// AllObjects returns the full (kind x color) product, kinds major
func AllObjects() []Object {
	out := make([]Object, 0, len(ObjectKinds)*len(Colors))
	for _, k := range ObjectKinds {
		for _, c := range Colors {
			out = append(out, Object{Kind: k, Color: c})
		}
	}
	return out
}

// Cell is the content of one lattice position
type Cell struct {
	Kind  Kind
	Color Color
	State DoorState
}

var (
	Empty = Cell{Kind: KindEmpty}
	Wall  = Cell{Kind: KindWall, Color: Grey}
)

// NewDoor returns a closed, unlocked door
func NewDoor(c Color) Cell {
	return Cell{Kind: KindDoor, Color: c, State: DoorClosed}
}

// NewLockedDoor returns a door that needs a key of the same color
func NewLockedDoor(c Color) Cell {
	return Cell{Kind: KindDoor, Color: c, State: DoorLocked}
}

// ObjectCell places an object in a cell
func ObjectCell(o Object) Cell {
	return Cell{Kind: o.Kind, Color: o.Color}
}

// Object returns the object in the cell, if any
func (c Cell) Object() (Object, bool) {
	if !c.Kind.IsObject() {
		return Object{}, false
	}
	return Object{Kind: c.Kind, Color: c.Color}, true
}

func (c Cell) IsDoor() bool {
	return c.Kind == KindDoor
}

// CanOverlap is true if the agent may stand on the cell
func (c Cell) CanOverlap() bool {
	switch c.Kind {
	case KindEmpty:
		return true
	case KindDoor:
		return c.State == DoorOpen
	}
	return false
}

// Encode the cell as (kind, color, state)
func (c Cell) Encode() [3]uint8 {
	switch c.Kind {
	case KindEmpty, KindUnseen:
		return [3]uint8{uint8(c.Kind), 0, 0}
	case KindDoor:
		return [3]uint8{uint8(c.Kind), uint8(c.Color), uint8(c.State)}
	}
	return [3]uint8{uint8(c.Kind), uint8(c.Color), 0}
}

// Decode is the inverse of Encode
func Decode(v [3]uint8) Cell {
	c := Cell{Kind: Kind(v[0]), Color: Color(v[1])}
	if c.Kind == KindDoor {
		c.State = DoorState(v[2])
	}
	return c
}
