package export

import (
	"fmt"

	"github.com/WilliamYue37/LTMB/tasks"
	"github.com/WilliamYue37/LTMB/types"
)

// Sink stores exported records
type Sink interface {
	Write(Record) error
	Close() error
}

// Recorder turns traces into records and fans them out to the sinks.
// Records are validated before any sink sees them.
type Recorder struct {
	configs   map[string]tasks.Config
	sinks     []Sink
	validator *Validator
}

var _ types.Recorder = &Recorder{}

func NewRecorder(validator *Validator, sinks ...Sink) *Recorder {
	return &Recorder{
		configs:   make(map[string]tasks.Config),
		sinks:     sinks,
		validator: validator,
	}
}

// SetConfig registers the configuration episodes of the task run with
func (r *Recorder) SetConfig(task string, cfg tasks.Config) {
	r.configs[task] = cfg
}

func (r *Recorder) Record(trace *types.Trace) error {
	cfg, ok := r.configs[trace.Task]
	if !ok {
		return fmt.Errorf("no configuration registered for task %s", trace.Task)
	}
	rec := NewRecord(trace, cfg)
	if r.validator != nil {
		if err := r.validator.ValidateRecord(rec); err != nil {
			return fmt.Errorf("%s episode (seed %d): %w", rec.Task, rec.Seed, err)
		}
	}
	for _, s := range r.sinks {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Close() error {
	var err error
	for _, s := range r.sinks {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
