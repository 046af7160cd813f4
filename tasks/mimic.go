package tasks

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/types"
)

const mimicMission = "Perform the same action for each key color. Do not perform the same action for any other color object."

var (
	mimicAgent  = grid.Point{X: 3, Y: 6}
	mimicTarget = grid.Point{X: 3, Y: 3}
)

// Mimic redraws a room of random objects every step. The object in the
// centre decides which actions are allowed: the first key of a color binds
// whatever action is taken to that color, later keys of the color must
// repeat it, and any other object must not use an action bound to a key.
type Mimic struct {
	base
	cfg Config

	// object judged at the next step, nil when the centre is empty
	current *grid.Object

	// hidden state
	colorToAction map[grid.Color]grid.Action
	actionToColor map[grid.Action]grid.Color
}

var _ types.Environment = &Mimic{}

func NewMimic(cfg Config) (*Mimic, error) {
	if err := cfg.Validate(MimicName); err != nil {
		return nil, err
	}
	return &Mimic{
		base:          newBase(MimicName, grid.NewEnv(7, 7, cfg.Length, mimicMission)),
		cfg:           cfg,
		colorToAction: make(map[grid.Color]grid.Action),
		actionToColor: make(map[grid.Action]grid.Color),
	}, nil
}

// genRandObject fills (x, y) with a random object or leaves it empty
func (m *Mimic) genRandObject(x, y int) (grid.Object, bool) {
	if m.RandFloat() >= m.cfg.EmptyFreq {
		o := m.RandObject()
		m.Grid.Set(x, y, grid.ObjectCell(o))
		return o, true
	}
	m.Grid.Clear(x, y)
	return grid.Object{}, false
}

func (m *Mimic) genRoom() {
	for i := 0; i < m.Width; i++ {
		for j := 0; j < m.Height; j++ {
			if i == mimicAgent.X && j == mimicAgent.Y {
				continue
			}
			o, ok := m.genRandObject(i, j)
			if i == mimicTarget.X && j == mimicTarget.Y {
				m.current = nil
				if ok {
					m.current = &o
				}
			}
		}
	}
}

func (m *Mimic) Reset(seed int64) grid.Observation {
	m.Env.Reset(seed)
	m.colorToAction = make(map[grid.Color]grid.Action)
	m.actionToColor = make(map[grid.Action]grid.Color)
	m.PlaceAgent(mimicAgent, grid.North)
	m.genRoom()
	m.begin()
	return m.Observe()
}

// judge checks the action against the current object and records new bindings
func (m *Mimic) judge(a grid.Action) bool {
	isKey := m.current != nil && m.current.Kind == grid.KindKey
	if !isKey {
		_, bound := m.actionToColor[a]
		return !bound
	}
	color := m.current.Color
	if bound, ok := m.colorToAction[color]; ok {
		return a == bound
	}
	m.colorToAction[color] = a
	m.actionToColor[a] = color
	return true
}

func (m *Mimic) Step(a grid.Action) (types.StepResult, error) {
	if err := m.checkActive(); err != nil {
		return types.StepResult{}, err
	}
	valid := m.judge(a)

	m.genRoom()

	// the agent never moves or picks anything up
	truncated := m.Env.Step(grid.Drop)

	res := types.StepResult{Truncated: truncated}
	if !valid {
		res.Reward = -1
		res.Terminated = true
		res.Info.Success = false
	} else if truncated {
		res.Reward = 1
		res.Truncated = false
		res.Terminated = true
		res.Info.Success = true
	}
	res.Observation = m.Observe()
	return m.finish(res), nil
}

// Binding returns the action bound to a key color
func (m *Mimic) Binding(c grid.Color) (grid.Action, bool) {
	a, ok := m.colorToAction[c]
	return a, ok
}
