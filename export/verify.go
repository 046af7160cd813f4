package export

import (
	"errors"
	"fmt"

	"github.com/WilliamYue37/LTMB/tasks"
)

// ErrMismatch is matched by every replay divergence
var ErrMismatch = errors.New("replay does not reproduce the record")

// Replay rebuilds the task from the recorded configuration, replays the
// actions from the recorded seed and checks that every observation, reward
// and the outcome come out identical
func Replay(r Record) error {
	env, err := tasks.New(r.Task, r.Config)
	if err != nil {
		return err
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrMismatch)
	}
	obs := env.Reset(r.Seed)
	for i, s := range r.Steps {
		if !obs.Equal(s.Observation) {
			return fmt.Errorf("%w: observation %d differs", ErrMismatch, i)
		}
		res, err := env.Step(s.Action)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if res.Reward != s.Reward {
			return fmt.Errorf("%w: reward %d is %f, recorded %f", ErrMismatch, i, res.Reward, s.Reward)
		}
		last := i == len(r.Steps)-1
		if res.Done() != last {
			return fmt.Errorf("%w: episode end at step %d, recorded %d steps", ErrMismatch, i, len(r.Steps))
		}
		if last && (res.Info.Success != r.Success || res.Terminated != r.Terminated || res.Truncated != r.Truncated) {
			return fmt.Errorf("%w: outcome differs", ErrMismatch)
		}
		obs = res.Observation
	}
	return nil
}
