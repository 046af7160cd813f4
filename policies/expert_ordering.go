package policies

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

var orderingCentre = grid.Point{X: 3, Y: 3}

// ExpertOrderingPolicy memorizes the permutation, then answers every query
// with the slot holding the earliest item.
type ExpertOrderingPolicy struct {
	expert

	permutation map[grid.Object]int
}

var _ types.Oracle = &ExpertOrderingPolicy{}

func NewExpertOrderingPolicy() *ExpertOrderingPolicy {
	return &ExpertOrderingPolicy{
		expert:      newExpert(tasks.OrderingName),
		permutation: make(map[grid.Object]int),
	}
}

func (p *ExpertOrderingPolicy) Reset() {
	p.expert.reset()
	p.permutation = make(map[grid.Object]int)
}

func (p *ExpertOrderingPolicy) NextAction(obs grid.Observation) (grid.Action, error) {
	a, err := p.decide(obs)
	p.timestep += 1
	return a, err
}

func (p *ExpertOrderingPolicy) decide(obs grid.Observation) (grid.Action, error) {
	p.attendCurrent()

	if p.timestep < tasks.MemorySteps {
		o, ok := obs.Object(orderingCentre.X, orderingCentre.Y)
		if !ok {
			return 0, p.invariant("nothing to memorize")
		}
		if _, dup := p.permutation[o]; dup {
			return 0, p.invariant("%s shown twice", o)
		}
		p.permutation[o] = p.timestep
		return grid.Forward, nil
	}

	best, bestIdx, candidates := grid.Action(0), -1, 0
	for _, slot := range tasks.OrderingSlots {
		o, ok := obs.Object(slot.Pos.X, slot.Pos.Y)
		if !ok {
			continue
		}
		idx, ok := p.permutation[o]
		if !ok {
			return 0, p.invariant("candidate %s is not in the memorized permutation", o)
		}
		p.attend(types.ObservationIndex(idx))
		candidates += 1
		if bestIdx < 0 || idx < bestIdx {
			best, bestIdx = slot.Action, idx
		}
	}
	if candidates < 2 {
		return 0, p.invariant("query with %d candidates", candidates)
	}
	return best, nil
}
