package types

import "github.com/WilliamYue37/LTMB/grid"

// Trace of an episode as (observation, action, reward) triplets,
// together with the outcome and the memory associations of the policy
type Trace struct {
	Task string
	Seed int64

	observations []grid.Observation
	actions      []grid.Action
	rewards      []float64

	associations []MemoryAssociation

	Success    bool
	Terminated bool
	Truncated  bool
}

func NewTrace(task string, seed int64) *Trace {
	return &Trace{
		Task:         task,
		Seed:         seed,
		observations: make([]grid.Observation, 0),
		actions:      make([]grid.Action, 0),
		rewards:      make([]float64, 0),
		associations: make([]MemoryAssociation, 0),
	}
}

func (t *Trace) Append(obs grid.Observation, action grid.Action, reward float64) {
	t.observations = append(t.observations, obs)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
}

// End records the final step result
func (t *Trace) End(res StepResult) {
	t.Terminated = res.Terminated
	t.Truncated = res.Truncated
	t.Success = res.Info.Success
}

func (t *Trace) SetAssociations(as []MemoryAssociation) {
	t.associations = append(make([]MemoryAssociation, 0, len(as)), as...)
}

func (t *Trace) Associations() []MemoryAssociation {
	return t.associations
}

func (t *Trace) Len() int {
	return len(t.observations)
}

func (t *Trace) Get(i int) (grid.Observation, grid.Action, float64, bool) {
	if i < 0 || i >= len(t.observations) {
		return grid.Observation{}, 0, 0, false
	}
	return t.observations[i], t.actions[i], t.rewards[i], true
}

func (t *Trace) Actions() []grid.Action {
	return t.actions
}

// Return is the sum of the rewards
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, r := range t.rewards {
		sum += r
	}
	return sum
}

// Observation at a timeline index, only defined for even non-negative indices
func (t *Trace) Observation(index int) (grid.Observation, bool) {
	if index < 0 {
		return grid.Observation{}, false
	}
	step, isAction := TimelineStep(index)
	if isAction || step >= len(t.observations) {
		return grid.Observation{}, false
	}
	return t.observations[step], true
}
