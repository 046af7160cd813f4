package policies

import (
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

// expert is the state shared by the task oracles: the step counter, the
// pending maneuver and the associations emitted so far in the episode
type expert struct {
	task         string
	timestep     int
	queue        *ActionQueue
	associations []types.MemoryAssociation
}

func newExpert(task string) expert {
	return expert{
		task:         task,
		queue:        NewActionQueue(),
		associations: make([]types.MemoryAssociation, 0),
	}
}

func (e *expert) reset() {
	e.timestep = 0
	e.queue.Reset()
	e.associations = make([]types.MemoryAssociation, 0)
}

// attend records that the current decision depends on the timeline index
func (e *expert) attend(source int) {
	e.associations = append(e.associations, types.MemoryAssociation{
		Decision: types.ObservationIndex(e.timestep),
		Source:   source,
	})
}

// attendCurrent is the self reference every decision carries
func (e *expert) attendCurrent() {
	e.attend(types.ObservationIndex(e.timestep))
}

func (e *expert) invariant(format string, args ...interface{}) error {
	return invariant(e.task, e.timestep, format, args...)
}

// Associations emitted since the last reset, in emission order
func (e *expert) Associations() []types.MemoryAssociation {
	return append([]types.MemoryAssociation(nil), e.associations...)
}

// ExpertFor returns a fresh oracle for the task name or id
func ExpertFor(nameOrID string) (types.Oracle, error) {
	name, err := tasks.Lookup(nameOrID)
	if err != nil {
		return nil, err
	}
	switch name {
	case tasks.HallwayName:
		return NewExpertHallwayPolicy(), nil
	case tasks.CountingName:
		return NewExpertCountingPolicy(), nil
	case tasks.MimicName:
		return NewExpertMimicPolicy(), nil
	}
	return NewExpertOrderingPolicy(), nil
}
