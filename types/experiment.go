package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
)

// Recorder receives every finished trace, e.g. to export it
type Recorder interface {
	Record(*Trace) error
}

type experimentRunConfig struct {
	Episodes  int
	Seed      int64
	Analyzers []Analyzer
	Recorder  Recorder
	Context   context.Context

	// misc
	LongestExpNameLen int
}

// Experiment encapsulates a policy and the task it is run against
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

// Run the experiment for the specified number of episodes, feeding
// every trace to the analyzers and the recorder
func (e *Experiment) Run(rConfig *experimentRunConfig) error {
	agent := NewAgent(&AgentConfig{
		Episodes:    rConfig.Episodes,
		Seed:        rConfig.Seed,
		Policy:      e.policy,
		Environment: e.environment,
	})

	successes := 0
	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	NamePadding := rConfig.LongestExpNameLen

	for i := 0; i < rConfig.Episodes; i++ {
		select {
		case <-rConfig.Context.Done():
			return rConfig.Context.Err()
		default:
		}

		trace, err := agent.RunEpisode(rConfig.Seed + int64(i))
		if err != nil {
			fmt.Println("")
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		if trace.Success {
			successes += 1
		}

		for _, a := range rConfig.Analyzers {
			a.Analyze(e.Name, trace)
		}
		if rConfig.Recorder != nil {
			if err := rConfig.Recorder.Record(trace); err != nil {
				fmt.Println("")
				return fmt.Errorf("experiment %s: record trace: %w", e.Name, err)
			}
		}

		// terminal execution display
		fmt.Printf("\rExp:%*s, Eps:%*d/%d, Success:%*d [%5.1f%%]",
			NamePadding, e.Name, EPPadding, i+1, rConfig.Episodes,
			EPPadding, successes, float32(successes)/float32(i+1)*100)
	}
	fmt.Println("")
	return nil
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// experiment, trace
	Analyze(string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
type Comparator func([]string, []DataSet)

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Episodes   int
	Seed       int64
	RecordPath string   // path to store the results
	Recorder   Recorder // optional trace recorder
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) analysisNames() []string {
	names := make([]string, 0, len(c.analyzers))
	for name := range c.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.RecordPath, 0o755); err != nil {
		return err
	}

	out := make(map[string]interface{})
	out["episodes"] = cfg.Episodes
	out["seed"] = cfg.Seed

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["analyzers"] = c.analysisNames()

	bs, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0o644)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return fmt.Errorf("record comparison config: %w", err)
	}

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	analysisNames := c.analysisNames()
	datasets := make(map[string][]DataSet)
	for _, name := range analysisNames {
		datasets[name] = make([]DataSet, len(c.Experiments))
	}

	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		rCfg := &experimentRunConfig{
			Episodes:          c.cConfig.Episodes,
			Seed:              c.cConfig.Seed,
			Recorder:          c.cConfig.Recorder,
			Context:           ctx,
			LongestExpNameLen: longestNameLen,
		}
		for _, name := range analysisNames {
			rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
		}
		if err := e.Run(rCfg); err != nil {
			return err
		}
		for _, name := range analysisNames {
			a := c.analyzers[name]
			datasets[name][i] = a.DataSet()
			a.Reset()
		}
		names[i] = e.Name
	}
	for _, name := range analysisNames {
		c.comparators[name](names, datasets[name])
	}
	return nil
}
