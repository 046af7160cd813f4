package grid

import (
	"golang.org/x/exp/rand"
)

// ViewSize is the side of the agent-relative observation window
const ViewSize = 7

// Env is the gridworld substrate the tasks are built on: a lattice,
// a single agent, the turn-based physics and the observation function.
// Tasks own the scene layout and the episode logic.
type Env struct {
	Width    int
	Height   int
	MaxSteps int
	Mission  string

	Grid      *Grid
	AgentPos  Point
	AgentDir  Direction
	Carrying  *Object
	StepCount int

	rand *rand.Rand
}

func NewEnv(width, height, maxSteps int, mission string) *Env {
	return &Env{
		Width:    width,
		Height:   height,
		MaxSteps: maxSteps,
		Mission:  mission,
		Grid:     NewGrid(width, height),
		rand:     rand.New(rand.NewSource(0)),
	}
}

// Reset reseeds the random source and clears the lattice and the agent
func (e *Env) Reset(seed int64) {
	e.rand = rand.New(rand.NewSource(uint64(seed)))
	e.Grid = NewGrid(e.Width, e.Height)
	e.AgentPos = Point{}
	e.AgentDir = East
	e.Carrying = nil
	e.StepCount = 0
}

// PlaceAgent sets the agent pose
func (e *Env) PlaceAgent(p Point, d Direction) {
	e.AgentPos = p
	e.AgentDir = d
}

// FrontPos is the cell the agent is facing
func (e *Env) FrontPos() Point {
	return e.AgentPos.Add(e.AgentDir.Vec())
}

// Step applies the action and returns true when the step budget is exhausted
func (e *Env) Step(a Action) bool {
	e.StepCount += 1

	fwdPos := e.FrontPos()
	fwdCell := e.Grid.At(fwdPos)

	switch a {
	case Left:
		e.AgentDir = e.AgentDir.Left()
	case Right:
		e.AgentDir = e.AgentDir.Right()
	case Forward:
		if fwdCell.CanOverlap() {
			e.AgentPos = fwdPos
		}
	case Pickup:
		if obj, ok := fwdCell.Object(); ok && e.Carrying == nil {
			e.Carrying = &obj
			e.Grid.Clear(fwdPos.X, fwdPos.Y)
		}
	case Drop:
		if fwdCell.Kind == KindEmpty && e.Carrying != nil && e.Grid.InBounds(fwdPos.X, fwdPos.Y) {
			e.Grid.Set(fwdPos.X, fwdPos.Y, ObjectCell(*e.Carrying))
			e.Carrying = nil
		}
	case Toggle:
		if fwdCell.IsDoor() {
			e.Grid.Set(fwdPos.X, fwdPos.Y, e.toggleDoor(fwdCell))
		}
	case Done:
	}

	return e.StepCount >= e.MaxSteps
}

func (e *Env) toggleDoor(door Cell) Cell {
	switch door.State {
	case DoorLocked:
		if e.Carrying != nil && e.Carrying.Kind == KindKey && e.Carrying.Color == door.Color {
			door.State = DoorOpen
		}
	case DoorOpen:
		door.State = DoorClosed
	case DoorClosed:
		door.State = DoorOpen
	}
	return door
}

// Observe encodes the 7x7 window in front of the agent.
// The agent sits at (3, 6) of the window facing towards row 0.
// Walls do not block the view.
func (e *Env) Observe() Observation {
	obs := Observation{
		Direction: e.AgentDir,
		Mission:   e.Mission,
	}
	fwd := e.AgentDir.Vec()
	right := e.AgentDir.Right().Vec()
	for vx := 0; vx < ViewSize; vx++ {
		for vy := 0; vy < ViewSize; vy++ {
			p := e.AgentPos.Add(fwd.Scale(ViewSize - 1 - vy)).Add(right.Scale(vx - ViewSize/2))
			obs.Image[vx][vy] = e.Grid.At(p).Encode()
		}
	}
	agentCell := Empty
	if e.Carrying != nil {
		agentCell = ObjectCell(*e.Carrying)
	}
	obs.Image[ViewSize/2][ViewSize-1] = agentCell.Encode()
	return obs
}

// RandInt returns an int in [lo, hi)
func (e *Env) RandInt(lo, hi int) int {
	return lo + e.rand.Intn(hi-lo)
}

// RandFloat returns a float in [0, 1)
func (e *Env) RandFloat() float64 {
	return e.rand.Float64()
}

func (e *Env) RandKind() Kind {
	return ObjectKinds[e.rand.Intn(len(ObjectKinds))]
}

func (e *Env) RandColor() Color {
	return Colors[e.rand.Intn(len(Colors))]
}

// RandObject draws the kind first and then the color
func (e *Env) RandObject() Object {
	k := e.RandKind()
	return Object{Kind: k, Color: e.RandColor()}
}

// RandColorExcept draws from the palette without c
func (e *Env) RandColorExcept(c Color) Color {
	others := make([]Color, 0, len(Colors)-1)
	for _, o := range Colors {
		if o != c {
			others = append(others, o)
		}
	}
	return others[e.rand.Intn(len(others))]
}

// Uint64 exposes the random source to derive independent streams
func (e *Env) Uint64() uint64 {
	return e.rand.Uint64()
}
