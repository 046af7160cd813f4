package types

import (
	"github.com/WilliamYue37/LTMB/grid"
	"golang.org/x/exp/rand"
)

// Policy picks the next action from the latest observation
type Policy interface {
	NextAction(grid.Observation) (grid.Action, error)
	// Reset is called at the start of every episode
	Reset()
}

// Oracle is a policy that also labels its decisions with memory associations
type Oracle interface {
	Policy
	Associations() []MemoryAssociation
}

// RandomPolicy samples uniformly over the action set
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewSeededRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {

}

func (r *RandomPolicy) NextAction(_ grid.Observation) (grid.Action, error) {
	i := r.rand.Intn(len(grid.AllActions))
	return grid.AllActions[i], nil
}
