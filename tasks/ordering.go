package tasks

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

const orderingMission = "Memorize the order of the first 18 colored objects to appear. When shown two objects, select the one that appeared first."

// MemorySteps is the length of the memorisation phase: one step per
// (kind x color) pair
const MemorySteps = 18

var (
	orderingAgent  = grid.Point{X: 3, Y: 6}
	orderingCentre = grid.Point{X: 3, Y: 3}
)

// Slot is a candidate position of the query phase and the action that selects it
type Slot struct {
	Pos    grid.Point
	Action grid.Action
}

// OrderingSlots in the order they are filled: two-candidate queries use
// the first two, four-candidate queries use all of them
var OrderingSlots = []Slot{
	{Pos: grid.Point{X: 2, Y: 3}, Action: grid.Left},
	{Pos: grid.Point{X: 4, Y: 3}, Action: grid.Right},
	{Pos: grid.Point{X: 3, Y: 2}, Action: grid.Forward},
	{Pos: grid.Point{X: 3, Y: 4}, Action: grid.Toggle},
}

// Ordering shows a shuffled permutation of all the objects one at a time,
// then asks Length times which of the displayed candidates came first.
type Ordering struct {
	base
	cfg Config

	// independent of the scene randomness, reseeded every episode
	src  rand.Source
	rand *rand.Rand

	// hidden state
	permutation []grid.Object
	position    map[grid.Object]int
	timestep    int
	choices     []grid.Object
}

var _ types.Environment = &Ordering{}

func NewOrdering(cfg Config) (*Ordering, error) {
	if err := cfg.Validate(OrderingName); err != nil {
		return nil, err
	}
	return &Ordering{
		base: newBase(OrderingName, grid.NewEnv(7, 7, MemorySteps+cfg.Length, orderingMission)),
		cfg:  cfg,
	}, nil
}

func (o *Ordering) genRoom() {
	for _, s := range OrderingSlots {
		o.Grid.Clear(s.Pos.X, s.Pos.Y)
	}
	if o.timestep < MemorySteps {
		item := o.permutation[o.timestep]
		o.Grid.Set(orderingCentre.X, orderingCentre.Y, grid.ObjectCell(item))
		return
	}
	o.Grid.Clear(orderingCentre.X, orderingCentre.Y)

	idxs := make([]int, o.cfg.Candidates)
	sampleuv.WithoutReplacement(idxs, len(o.permutation), o.src)
	o.rand.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })

	o.choices = o.choices[:0]
	for i, idx := range idxs {
		item := o.permutation[idx]
		o.choices = append(o.choices, item)
		pos := OrderingSlots[i].Pos
		o.Grid.Set(pos.X, pos.Y, grid.ObjectCell(item))
	}
}

func (o *Ordering) Reset(seed int64) grid.Observation {
	o.Env.Reset(seed)
	o.src = rand.NewSource(o.Env.Uint64())
	o.rand = rand.New(o.src)

	o.permutation = grid.AllObjects()
	o.rand.Shuffle(len(o.permutation), func(i, j int) {
		o.permutation[i], o.permutation[j] = o.permutation[j], o.permutation[i]
	})
	o.position = make(map[grid.Object]int, len(o.permutation))
	for i, item := range o.permutation {
		o.position[item] = i
	}
	o.timestep = 0
	o.choices = make([]grid.Object, 0, o.cfg.Candidates)

	o.PlaceAgent(orderingAgent, grid.North)
	o.genRoom()
	o.begin()
	return o.Observe()
}

// correctAction selects the candidate that appeared first
func (o *Ordering) correctAction() grid.Action {
	best := 0
	for i, item := range o.choices {
		if o.position[item] < o.position[o.choices[best]] {
			best = i
		}
	}
	return OrderingSlots[best].Action
}

func (o *Ordering) Step(a grid.Action) (types.StepResult, error) {
	if err := o.checkActive(); err != nil {
		return types.StepResult{}, err
	}
	incorrect := false
	if o.timestep >= MemorySteps {
		incorrect = a != o.correctAction()
	}

	o.timestep += 1
	o.genRoom()

	// the agent never moves or picks anything up
	truncated := o.Env.Step(grid.Drop)

	res := types.StepResult{Truncated: truncated}
	if incorrect {
		res.Reward = -1
		res.Terminated = true
		res.Info.Success = false
	} else if o.timestep == MemorySteps+o.cfg.Length {
		res.Reward = 1
		res.Truncated = false
		res.Terminated = true
		res.Info.Success = true
	}
	res.Observation = o.Observe()
	return o.finish(res), nil
}

// Permutation shown during the memorisation phase
func (o *Ordering) Permutation() []grid.Object {
	return append([]grid.Object(nil), o.permutation...)
}

// Choices of the current query, in slot order
func (o *Ordering) Choices() []grid.Object {
	return append([]grid.Object(nil), o.choices...)
}

// Position of an object in the permutation
func (o *Ordering) Position(item grid.Object) int {
	return o.position[item]
}
