package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/WilliamYue37/LTMB/tasks"
	"gopkg.in/yaml.v3"
)

// TaskSpec selects a task and its parameters. Parameters left out of the
// file keep their defaults.
type TaskSpec struct {
	Name   string       `yaml:"name"`
	Config tasks.Config `yaml:",inline"`
}

func (s *TaskSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain TaskSpec
	p := plain{Config: tasks.DefaultConfig()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = TaskSpec(p)
	return nil
}

// ExportSpec configures where generated episodes go
type ExportSpec struct {
	// directory of the jsonl.zst shards, no shards when empty
	Dir       string `yaml:"dir"`
	ShardSize int    `yaml:"shard_size"`
	// sqlite episode index, disabled when empty
	Index string `yaml:"index"`
	// redis address of the stream sink, disabled when empty
	Redis       string `yaml:"redis"`
	RedisPrefix string `yaml:"redis_prefix"`
	// skip schema validation of the records
	SkipValidation bool `yaml:"skip_validation"`
}

// Generation is the configuration of a dataset generation run
type Generation struct {
	Seed     int64      `yaml:"seed"`
	Episodes int        `yaml:"episodes"`
	Tasks    []TaskSpec `yaml:"tasks"`
	Export   ExportSpec `yaml:"export"`
}

// Default generates 100 episodes of every task with the default parameters
func Default() Generation {
	g := Generation{
		Episodes: 100,
		Export: ExportSpec{
			Dir:         "data",
			ShardSize:   1000,
			RedisPrefix: "ltmb",
		},
	}
	for _, name := range tasks.Names {
		g.Tasks = append(g.Tasks, TaskSpec{Name: name, Config: tasks.DefaultConfig()})
	}
	return g
}

// Load reads a YAML generation config on top of the defaults
func Load(path string) (Generation, error) {
	g := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return g, err
	}
	g.Tasks = nil
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return g, fmt.Errorf("%s: %w", path, err)
	}
	if len(g.Tasks) == 0 {
		g.Tasks = Default().Tasks
	}
	if err := g.Validate(); err != nil {
		return g, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

var ErrInvalid = errors.New("invalid generation config")

// Validate resolves the task names and validates their parameters
func (g *Generation) Validate() error {
	if g.Episodes < 1 {
		return fmt.Errorf("%w: episodes must be greater than 0", ErrInvalid)
	}
	if g.Export.ShardSize < 0 {
		return fmt.Errorf("%w: shard_size must not be negative", ErrInvalid)
	}
	seen := make(map[string]bool)
	for i, spec := range g.Tasks {
		name, err := tasks.Lookup(spec.Name)
		if err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("%w: task %s listed twice", ErrInvalid, name)
		}
		seen[name] = true
		if err := spec.Config.Validate(name); err != nil {
			return err
		}
		g.Tasks[i].Name = name
	}
	return nil
}
