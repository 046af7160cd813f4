package types

import (
	"errors"

	"github.com/WilliamYue37/LTMB/grid"
)

var (
	ErrEpisodeNotStarted = errors.New("episode not started: call Reset first")
	ErrEpisodeOver       = errors.New("episode is over: call Reset to start a new one")
)

// Environment is a task state machine.
// Reset starts an episode from a seed, Step advances it by one action.
type Environment interface {
	// Name of the task, e.g. "counting"
	Name() string
	// Reset reseeds the episode randomness, clears the hidden state
	// and returns the first observation
	Reset(seed int64) grid.Observation
	// Step interprets the action against the hidden state
	Step(grid.Action) (StepResult, error)
	// State of the current episode
	State() EpisodeState
}

// EpisodeState of a task state machine
type EpisodeState int

const (
	Uninitialized EpisodeState = iota
	Active
	Success
	Failure
)

func (s EpisodeState) String() string {
	switch s {
	case Active:
		return "active"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "uninitialized"
}

// Terminal is true for Success and Failure
func (s EpisodeState) Terminal() bool {
	return s == Success || s == Failure
}

// Info carried by a step result. Success is meaningful once
// the episode has ended (terminated or truncated).
type Info struct {
	Success bool `json:"success"`
}

// StepResult of a single Step call
type StepResult struct {
	Observation grid.Observation `json:"observation"`
	Reward      float64          `json:"reward"`
	Terminated  bool             `json:"terminated"`
	Truncated   bool             `json:"truncated"`
	Info        Info             `json:"info"`
}

// Done is true when the episode ended, either way
func (r StepResult) Done() bool {
	return r.Terminated || r.Truncated
}
