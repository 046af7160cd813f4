package types

import "fmt"

type AgentConfig struct {
	Episodes    int
	Seed        int64
	Policy      Policy
	Environment Environment
}

// Agent runs a policy against an environment, one episode at a time
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, 0, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes.
// Episode i is seeded with Seed+i.
func (a *Agent) Run() error {
	for i := 0; i < a.config.Episodes; i++ {
		trace, err := a.RunEpisode(a.config.Seed + int64(i))
		if err != nil {
			return err
		}
		a.traces = append(a.traces, trace)
	}
	return nil
}

func (a *Agent) Traces() []*Trace {
	return a.traces
}

// RunEpisode plays a single episode from the seed and returns its trace.
// A policy error aborts the episode; environments always end through
// termination or truncation, so the loop is bounded by the step budget.
func (a *Agent) RunEpisode(seed int64) (*Trace, error) {
	a.policy.Reset()
	obs := a.environment.Reset(seed)
	trace := NewTrace(a.environment.Name(), seed)

	for {
		action, err := a.policy.NextAction(obs)
		if err != nil {
			return trace, fmt.Errorf("%s episode (seed %d) step %d: %w", trace.Task, seed, trace.Len(), err)
		}
		res, err := a.environment.Step(action)
		if err != nil {
			return trace, fmt.Errorf("%s episode (seed %d) step %d: %w", trace.Task, seed, trace.Len(), err)
		}
		trace.Append(obs, action, res.Reward)
		obs = res.Observation
		if res.Done() {
			trace.End(res)
			break
		}
	}

	if oracle, ok := a.policy.(Oracle); ok {
		trace.SetAssociations(oracle.Associations())
	}
	return trace, nil
}
