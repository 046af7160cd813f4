package tasks

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is matched by every construction-time validation error
var ErrInvalidConfig = errors.New("invalid task configuration")

// ConfigError names the offending parameter
type ConfigError struct {
	Task   string
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Task, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Config holds the construction parameters of all the tasks.
// Each task reads and validates only the fields it uses.
type Config struct {
	// number of rooms (counting), branches (hallway), commands (mimic) or queries (ordering)
	Length int `yaml:"length" json:"length"`
	// probability that a counting room is a test room
	TestFreq float64 `yaml:"test_freq" json:"test_freq"`
	// probability that an object cell is left empty (counting, mimic)
	EmptyFreq float64 `yaml:"empty_freq" json:"empty_freq"`
	// lower bound of the hallway step budget
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
	// candidates per ordering query, 2 or 4
	Candidates int `yaml:"candidates" json:"candidates"`
	// scale the hallway success reward down with the steps taken
	RewardShaping bool `yaml:"reward_shaping" json:"reward_shaping"`
}

func DefaultConfig() Config {
	return Config{
		Length:     5,
		TestFreq:   0.3,
		EmptyFreq:  0.1,
		MaxSteps:   16,
		Candidates: 2,
	}
}

func (c Config) checkLength(task string) error {
	if c.Length < 1 {
		return &ConfigError{Task: task, Field: "length", Value: c.Length, Reason: "must be greater than 0"}
	}
	return nil
}

func checkFreq(task, field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return &ConfigError{Task: task, Field: field, Value: v, Reason: "must be between 0 and 1"}
	}
	return nil
}

// Validate the fields used by the task
func (c Config) Validate(task string) error {
	switch task {
	case HallwayName:
		if err := c.checkLength(task); err != nil {
			return err
		}
		if c.MaxSteps < 1 {
			return &ConfigError{Task: task, Field: "max_steps", Value: c.MaxSteps, Reason: "must be greater than 0"}
		}
	case CountingName:
		if err := c.checkLength(task); err != nil {
			return err
		}
		if err := checkFreq(task, "test_freq", c.TestFreq); err != nil {
			return err
		}
		return checkFreq(task, "empty_freq", c.EmptyFreq)
	case MimicName:
		if err := c.checkLength(task); err != nil {
			return err
		}
		return checkFreq(task, "empty_freq", c.EmptyFreq)
	case OrderingName:
		if err := c.checkLength(task); err != nil {
			return err
		}
		if c.Candidates != 2 && c.Candidates != 4 {
			return &ConfigError{Task: task, Field: "candidates", Value: c.Candidates, Reason: "must be 2 or 4"}
		}
	default:
		return fmt.Errorf("%w: unknown task %q", ErrUnknownTask, task)
	}
	return nil
}
