package grid

import "fmt"

// Action is one of the turn-based agent actions
type Action int

const (
	Left Action = iota
	Right
	Forward
	Pickup
	Drop
	Toggle
	Done

	NumActions
)

// AllActions in id order
var AllActions = []Action{Left, Right, Forward, Pickup, Drop, Toggle, Done}

var actionNames = [...]string{"left", "right", "forward", "pickup", "drop", "toggle", "done"}

func (a Action) String() string {
	if a.Valid() {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

func (a Action) Valid() bool {
	return a >= 0 && a < NumActions
}

// ParseAction accepts either an action name or its id
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err == nil && Action(id).Valid() {
		return Action(id), nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Direction the agent is facing
type Direction int

const (
	East Direction = iota
	South
	West
	North
)

// Vec returns the unit step (dx, dy) in the direction; y grows downwards
func (d Direction) Vec() Point {
	switch d {
	case East:
		return Point{1, 0}
	case South:
		return Point{0, 1}
	case West:
		return Point{-1, 0}
	}
	return Point{0, -1}
}

// Right of the direction, i.e. the direction after a right turn
func (d Direction) Right() Direction {
	return (d + 1) % 4
}

func (d Direction) Left() Direction {
	return (d + 3) % 4
}

// Point on the lattice
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

func (p Point) Scale(k int) Point {
	return Point{p.X * k, p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
