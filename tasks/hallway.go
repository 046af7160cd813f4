package tasks

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/types"
)

const hallwayMission = "Enter the hallway with the same object as the one in the start room"

// Hallway shows a target object in a start room, then a corridor with
// Length branches. Every branch has an upper and a lower door with an
// object behind it; exactly one of them hides a copy of the target.
// Walking into that door succeeds, walking into any other door fails.
type Hallway struct {
	base
	cfg Config

	upperWall int
	lowerWall int

	// hidden state
	target        grid.Object
	targetHallway int
	targetPos     grid.Point
	successPos    grid.Point
}

var _ types.Environment = &Hallway{}

func NewHallway(cfg Config) (*Hallway, error) {
	if err := cfg.Validate(HallwayName); err != nil {
		return nil, err
	}
	size := 4*cfg.Length + 5
	maxSteps := cfg.MaxSteps
	if size+20 > maxSteps {
		maxSteps = size + 20
	}
	return &Hallway{
		base:      newBase(HallwayName, grid.NewEnv(size, size, maxSteps, hallwayMission)),
		cfg:       cfg,
		upperWall: size/2 - 2,
		lowerWall: size/2 + 2,
	}, nil
}

// randObject draws an object that is never the target
func (h *Hallway) randObject() grid.Object {
	o := h.RandObject()
	if o == h.target {
		o.Color = h.RandColorExcept(h.target.Color)
	}
	return o
}

func (h *Hallway) genGrid() {
	g := h.Grid
	width, height := h.Width, h.Height

	h.target = grid.Object{Color: h.RandColor(), Kind: h.RandKind()}

	g.WallRect()

	// start room
	for i := 1; i < 5; i++ {
		g.Set(i, h.upperWall, grid.Wall)
		g.Set(i, h.lowerWall, grid.Wall)
	}
	g.Set(4, h.upperWall+1, grid.Wall)
	g.Set(4, h.lowerWall-1, grid.Wall)

	// horizontal corridor
	for i := 5; i < width-2; i++ {
		g.Set(i, h.upperWall+1, grid.Wall)
		g.Set(i, h.lowerWall-1, grid.Wall)
	}

	// vertical branches, one door and one object at each end
	for i := 6; i < width-2; i += 4 {
		for j := 0; j < 2; j++ {
			g.Set(i, h.upperWall-j, grid.Wall)
			g.Set(i+2, h.upperWall-j, grid.Wall)
			g.Set(i, h.lowerWall+j, grid.Wall)
			g.Set(i+2, h.lowerWall+j, grid.Wall)
		}
		g.Set(i+1, h.upperWall-1, grid.Wall)
		g.Set(i+1, h.lowerWall+1, grid.Wall)

		g.Set(i+1, h.upperWall+1, grid.NewDoor(h.RandColor()))
		g.Set(i+1, h.lowerWall-1, grid.NewDoor(h.RandColor()))

		g.Set(i+1, h.upperWall, grid.ObjectCell(h.randObject()))
		g.Set(i+1, h.lowerWall, grid.ObjectCell(h.randObject()))
	}

	h.PlaceAgent(grid.Point{X: 2, Y: height / 2}, grid.East)

	g.Set(1, height/2-1, grid.ObjectCell(h.target))

	h.targetHallway = h.RandInt(0, h.cfg.Length)
	x := 7 + 4*h.targetHallway
	if h.RandInt(0, 2) == 0 {
		h.targetPos = grid.Point{X: x, Y: h.upperWall}
		h.successPos = grid.Point{X: x, Y: h.upperWall + 1}
	} else {
		h.targetPos = grid.Point{X: x, Y: h.lowerWall}
		h.successPos = grid.Point{X: x, Y: h.lowerWall - 1}
	}
	g.Set(h.targetPos.X, h.targetPos.Y, grid.ObjectCell(h.target))
}

func (h *Hallway) Reset(seed int64) grid.Observation {
	h.Env.Reset(seed)
	h.genGrid()
	h.begin()
	return h.Observe()
}

// reward on success, optionally shaped by the steps taken
func (h *Hallway) reward() float64 {
	if !h.cfg.RewardShaping {
		return 1
	}
	return 1 - 0.9*float64(h.StepCount)/float64(h.MaxSteps)
}

func (h *Hallway) Step(a grid.Action) (types.StepResult, error) {
	if err := h.checkActive(); err != nil {
		return types.StepResult{}, err
	}
	if a == grid.Pickup {
		a = grid.Toggle
	}
	res := types.StepResult{Truncated: h.Env.Step(a)}

	// standing on a door means the agent entered a hallway
	if h.Grid.At(h.AgentPos).IsDoor() {
		res.Terminated = true
		if h.AgentPos == h.successPos {
			res.Reward = h.reward()
			res.Info.Success = true
		}
	}
	res.Observation = h.Observe()
	return h.finish(res), nil
}

// Target is the object shown in the start room
func (h *Hallway) Target() grid.Object {
	return h.target
}

// SuccessPos is the door cell in front of the second copy of the target
func (h *Hallway) SuccessPos() grid.Point {
	return h.successPos
}
