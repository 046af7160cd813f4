package policies

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

// window cells of an agent standing at the entrance of a room
var (
	countingExitDoor  = grid.Point{X: 3, Y: 3}
	countingTestDoor  = grid.Point{X: 2, Y: 3}
	countingReference = grid.Point{X: 3, Y: 4}
	countingObjects   = []grid.Point{{X: 2, Y: 4}, {X: 4, Y: 4}, {X: 2, Y: 5}, {X: 4, Y: 5}, {X: 2, Y: 6}, {X: 4, Y: 6}}
)

// ExpertCountingPolicy remembers when each object was seen. In a normal
// room it walks through the blue door; in a test room it recalls every
// sighting of the reference object and picks the door from the parity.
type ExpertCountingPolicy struct {
	expert

	// timesteps of each sighting, one entry per object instance
	seen map[grid.Object][]int
}

var _ types.Oracle = &ExpertCountingPolicy{}

func NewExpertCountingPolicy() *ExpertCountingPolicy {
	return &ExpertCountingPolicy{
		expert: newExpert(tasks.CountingName),
		seen:   make(map[grid.Object][]int),
	}
}

func (p *ExpertCountingPolicy) Reset() {
	p.expert.reset()
	p.seen = make(map[grid.Object][]int)
}

func (p *ExpertCountingPolicy) NextAction(obs grid.Observation) (grid.Action, error) {
	a, err := p.decide(obs)
	p.timestep += 1
	return a, err
}

func (p *ExpertCountingPolicy) decide(obs grid.Observation) (grid.Action, error) {
	p.attendCurrent()

	if a, ok := p.queue.Pop(); ok {
		return a, nil
	}

	switch {
	case obs.Cell(countingExitDoor.X, countingExitDoor.Y).IsDoor():
		for _, c := range countingObjects {
			cell := obs.Cell(c.X, c.Y)
			if o, ok := cell.Object(); ok {
				p.seen[o] = append(p.seen[o], p.timestep)
			} else if cell.Kind != grid.KindEmpty {
				return 0, p.invariant("unexpected %s in a normal room at %s", cell.Kind, c)
			}
		}
		p.queue.Push(grid.Forward, grid.Toggle, grid.Forward)
		return grid.Forward, nil

	case obs.Cell(countingTestDoor.X, countingTestDoor.Y).IsDoor():
		ref, ok := obs.Object(countingReference.X, countingReference.Y)
		if !ok {
			return 0, p.invariant("test room without a reference object")
		}
		sightings := p.seen[ref]
		last := -1
		for _, t := range sightings {
			// several instances in one room share the observation
			if t != last {
				p.attend(types.ObservationIndex(t))
				last = t
			}
		}
		if len(sightings)%2 == 0 {
			p.queue.Push(grid.Forward, grid.Right, grid.Forward, grid.Forward, grid.Toggle, grid.Forward)
			return grid.Left, nil
		}
		p.queue.Push(grid.Forward, grid.Left, grid.Forward, grid.Forward, grid.Toggle, grid.Forward)
		return grid.Right, nil
	}
	return 0, p.invariant("not at the entrance of a room")
}
