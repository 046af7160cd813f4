package export

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

// Step is one (observation, action) pair with the reward the action earned
type Step struct {
	Observation grid.Observation `json:"observation"`
	Action      grid.Action      `json:"action"`
	Reward      float64          `json:"reward"`
}

// Record is the exported form of an episode: enough to replay it from the
// seed and the configuration, plus the memory associations of the oracle
type Record struct {
	Task         string                    `json:"task"`
	Seed         int64                     `json:"seed"`
	Config       tasks.Config              `json:"config"`
	Steps        []Step                    `json:"steps"`
	Associations []types.MemoryAssociation `json:"associations"`
	Success      bool                      `json:"success"`
	Terminated   bool                      `json:"terminated"`
	Truncated    bool                      `json:"truncated"`
	Return       float64                   `json:"return"`
	Length       int                       `json:"length"`
}

func NewRecord(trace *types.Trace, cfg tasks.Config) Record {
	r := Record{
		Task:         trace.Task,
		Seed:         trace.Seed,
		Config:       cfg,
		Steps:        make([]Step, 0, trace.Len()),
		Associations: append(make([]types.MemoryAssociation, 0), trace.Associations()...),
		Success:      trace.Success,
		Terminated:   trace.Terminated,
		Truncated:    trace.Truncated,
		Return:       trace.Return(),
		Length:       trace.Len(),
	}
	for i := 0; i < trace.Len(); i++ {
		obs, action, reward, _ := trace.Get(i)
		r.Steps = append(r.Steps, Step{Observation: obs, Action: action, Reward: reward})
	}
	return r
}

// Trace rebuilds the episode trace
func (r Record) Trace() *types.Trace {
	trace := types.NewTrace(r.Task, r.Seed)
	for _, s := range r.Steps {
		trace.Append(s.Observation, s.Action, s.Reward)
	}
	trace.SetAssociations(r.Associations)
	trace.End(types.StepResult{
		Terminated: r.Terminated,
		Truncated:  r.Truncated,
		Info:       types.Info{Success: r.Success},
	})
	return trace
}

// Recalls counts the associations that point into the past
func (r Record) Recalls() int {
	return len(types.Recalls(r.Associations))
}
