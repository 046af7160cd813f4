package policies

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

// window cells relative to an agent walking east along the corridor
var (
	hallwayUpperDoor   = grid.Point{X: 2, Y: 6}
	hallwayLowerDoor   = grid.Point{X: 4, Y: 6}
	hallwayUpperObject = grid.Point{X: 1, Y: 6}
	hallwayLowerObject = grid.Point{X: 5, Y: 6}
	hallwayFront       = grid.Point{X: 3, Y: 5}
)

// ExpertHallwayPolicy looks back into the start room once to identify the
// target, then walks the corridor until a branch shows the same object and
// enters that branch.
type ExpertHallwayPolicy struct {
	expert

	target grid.Object
	// timeline index of the observation that showed the target
	targetIndex int
}

var _ types.Oracle = &ExpertHallwayPolicy{}

func NewExpertHallwayPolicy() *ExpertHallwayPolicy {
	return &ExpertHallwayPolicy{
		expert:      newExpert(tasks.HallwayName),
		targetIndex: -1,
	}
}

func (p *ExpertHallwayPolicy) Reset() {
	p.expert.reset()
	p.target = grid.Object{}
	p.targetIndex = -1
}

func (p *ExpertHallwayPolicy) NextAction(obs grid.Observation) (grid.Action, error) {
	a, err := p.decide(obs)
	p.timestep += 1
	return a, err
}

func (p *ExpertHallwayPolicy) decide(obs grid.Observation) (grid.Action, error) {
	p.attendCurrent()

	if p.timestep >= 2 && p.nextToDoor(obs) {
		p.attend(p.targetIndex)
	}
	if a, ok := p.queue.Pop(); ok {
		return a, nil
	}

	switch p.timestep {
	case 0:
		// the start room is behind the corridor, look at it
		return grid.Left, nil
	case 1:
		found := make([]grid.Object, 0, 1)
		for x := 0; x < grid.ViewSize; x++ {
			for y := 0; y < grid.ViewSize; y++ {
				if o, ok := obs.Object(x, y); ok {
					found = append(found, o)
				}
			}
		}
		if len(found) != 1 {
			return 0, p.invariant("expected one object in the start room, saw %d", len(found))
		}
		p.target = found[0]
		p.targetIndex = types.ObservationIndex(p.timestep)
		return grid.Right, nil
	}

	if o, ok := obs.Object(hallwayUpperObject.X, hallwayUpperObject.Y); ok && o == p.target {
		p.queue.Push(grid.Toggle, grid.Forward)
		return grid.Left, nil
	}
	if o, ok := obs.Object(hallwayLowerObject.X, hallwayLowerObject.Y); ok && o == p.target {
		p.queue.Push(grid.Toggle, grid.Forward)
		return grid.Right, nil
	}
	if obs.Cell(hallwayFront.X, hallwayFront.Y).Kind == grid.KindWall {
		return 0, p.invariant("reached the end of the corridor without seeing the %s", p.target)
	}
	return grid.Forward, nil
}

func (p *ExpertHallwayPolicy) nextToDoor(obs grid.Observation) bool {
	for _, c := range []grid.Point{hallwayUpperDoor, hallwayLowerDoor, hallwayFront} {
		if obs.Cell(c.X, c.Y).IsDoor() {
			return true
		}
	}
	return false
}
