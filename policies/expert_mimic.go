package policies

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

var mimicTarget = grid.Point{X: 3, Y: 3}

// ExpertMimicPolicy gives every new key color the next unused action and
// repeats it whenever the color comes back. Any other object gets the next
// unused action too, which no key is bound to yet.
type ExpertMimicPolicy struct {
	expert

	firstSeen     map[grid.Color]int
	colorToAction map[grid.Color]grid.Action
	nextUnused    grid.Action
}

var _ types.Oracle = &ExpertMimicPolicy{}

func NewExpertMimicPolicy() *ExpertMimicPolicy {
	return &ExpertMimicPolicy{
		expert:        newExpert(tasks.MimicName),
		firstSeen:     make(map[grid.Color]int),
		colorToAction: make(map[grid.Color]grid.Action),
	}
}

func (p *ExpertMimicPolicy) Reset() {
	p.expert.reset()
	p.firstSeen = make(map[grid.Color]int)
	p.colorToAction = make(map[grid.Color]grid.Action)
	p.nextUnused = 0
}

func (p *ExpertMimicPolicy) NextAction(obs grid.Observation) (grid.Action, error) {
	a, err := p.decide(obs)
	p.timestep += 1
	return a, err
}

func (p *ExpertMimicPolicy) decide(obs grid.Observation) (grid.Action, error) {
	p.attendCurrent()

	if !p.nextUnused.Valid() {
		return 0, p.invariant("more key colors than actions")
	}

	o, ok := obs.Object(mimicTarget.X, mimicTarget.Y)
	if !ok || o.Kind != grid.KindKey {
		return p.nextUnused, nil
	}

	first, seen := p.firstSeen[o.Color]
	if !seen {
		a := p.nextUnused
		p.firstSeen[o.Color] = p.timestep
		p.colorToAction[o.Color] = a
		p.nextUnused += 1
		return a, nil
	}

	// the first key of this color and the action it was given
	p.attend(types.ObservationIndex(first))
	p.attend(types.ActionIndex(first))
	return p.colorToAction[o.Color], nil
}
