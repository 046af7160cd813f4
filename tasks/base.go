package tasks

import (
	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/types"
)

// base carries what every task state machine shares: the substrate,
// the task name and the episode state
type base struct {
	*grid.Env
	name  string
	state types.EpisodeState
}

func newBase(name string, env *grid.Env) base {
	return base{Env: env, name: name, state: types.Uninitialized}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) State() types.EpisodeState {
	return b.state
}

func (b *base) begin() {
	b.state = types.Active
}

// checkActive rejects steps outside of an active episode
func (b *base) checkActive() error {
	switch b.state {
	case types.Uninitialized:
		return types.ErrEpisodeNotStarted
	case types.Success, types.Failure:
		return types.ErrEpisodeOver
	}
	return nil
}

// finish moves the state machine to its terminal state once the result ends the episode
func (b *base) finish(res types.StepResult) types.StepResult {
	if res.Done() {
		if res.Info.Success {
			b.state = types.Success
		} else {
			b.state = types.Failure
		}
	}
	return res
}
