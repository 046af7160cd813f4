package types

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/WilliamYue37/LTMB/grid"
)

// countdownEnv ends after n steps, successfully iff every action was Done
type countdownEnv struct {
	n     int
	left  int
	ok    bool
	state EpisodeState
}

func (c *countdownEnv) Name() string { return "countdown" }

func (c *countdownEnv) Reset(seed int64) grid.Observation {
	c.left = c.n
	c.ok = true
	c.state = Active
	return grid.Observation{Mission: "count down"}
}

func (c *countdownEnv) Step(a grid.Action) (StepResult, error) {
	if c.state != Active {
		return StepResult{}, ErrEpisodeOver
	}
	c.left -= 1
	c.ok = c.ok && a == grid.Done
	res := StepResult{Truncated: c.left == 0}
	if res.Truncated {
		res.Info.Success = c.ok
		res.Reward = 1
		c.state = Failure
		if c.ok {
			c.state = Success
		}
	}
	return res, nil
}

func (c *countdownEnv) State() EpisodeState { return c.state }

// doneOracle always answers Done and attends to its current observation
type doneOracle struct {
	t  int
	as []MemoryAssociation
}

func (d *doneOracle) Reset() {
	d.t = 0
	d.as = nil
}

func (d *doneOracle) NextAction(grid.Observation) (grid.Action, error) {
	d.as = append(d.as, MemoryAssociation{Decision: ObservationIndex(d.t), Source: ObservationIndex(d.t)})
	if d.t > 0 {
		d.as = append(d.as, MemoryAssociation{Decision: ObservationIndex(d.t), Source: ActionIndex(d.t - 1)})
	}
	d.t += 1
	return grid.Done, nil
}

func (d *doneOracle) Associations() []MemoryAssociation {
	return d.as
}

func TestTimelineIndices(t *testing.T) {
	if ObservationIndex(3) != 6 || ActionIndex(3) != 7 {
		t.Errorf("unexpected timeline indices")
	}
	step, isAction := TimelineStep(7)
	if step != 3 || !isAction {
		t.Errorf("index 7 should be the action of step 3")
	}
	if _, err := NewAssociation(2, 4); err == nil {
		t.Errorf("an association into the future should be rejected")
	}
	a, err := NewAssociation(6, 2)
	if err != nil || !a.Recall() || a.Distance() != 4 {
		t.Errorf("unexpected association %v %v", a, err)
	}
}

func TestTraceObservationIndex(t *testing.T) {
	trace := NewTrace("countdown", 0)
	trace.Append(grid.Observation{Mission: "first"}, grid.Done, 0)
	trace.Append(grid.Observation{Mission: "second"}, grid.Done, 1)

	if obs, ok := trace.Observation(2); !ok || obs.Mission != "second" {
		t.Errorf("index 2 should be the observation of step 1, got %q %v", obs.Mission, ok)
	}
	for _, index := range []int{-1, -2, 1, 3, 4} {
		if _, ok := trace.Observation(index); ok {
			t.Errorf("index %d should not resolve to an observation", index)
		}
	}
}

func TestAssociationJSON(t *testing.T) {
	b, err := json.Marshal([]MemoryAssociation{{Decision: 4, Source: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[[4,1]]" {
		t.Errorf("unexpected encoding %s", b)
	}
	var decoded []MemoryAssociation
	if err := json.Unmarshal(b, &decoded); err != nil || decoded[0].Decision != 4 || decoded[0].Source != 1 {
		t.Errorf("unexpected decoding %v %v", decoded, err)
	}
}

func TestAgentRun(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    3,
		Seed:        10,
		Policy:      &doneOracle{},
		Environment: &countdownEnv{n: 4},
	})
	if err := agent.Run(); err != nil {
		t.Fatal(err)
	}
	traces := agent.Traces()
	if len(traces) != 3 {
		t.Fatalf("expected 3 traces, got %d", len(traces))
	}
	for i, trace := range traces {
		if trace.Seed != 10+int64(i) {
			t.Errorf("episode %d has seed %d", i, trace.Seed)
		}
		if trace.Len() != 4 || !trace.Success || !trace.Truncated || trace.Return() != 1 {
			t.Errorf("unexpected trace %d: len %d success %v", i, trace.Len(), trace.Success)
		}
		if len(trace.Associations()) != 7 || len(Recalls(trace.Associations())) != 3 {
			t.Errorf("unexpected associations %v", trace.Associations())
		}
	}
}

type failingPolicy struct{}

var errBroken = errors.New("broken")

func (failingPolicy) Reset() {}

func (failingPolicy) NextAction(grid.Observation) (grid.Action, error) {
	return 0, errBroken
}

func TestAgentPolicyError(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Policy:      failingPolicy{},
		Environment: &countdownEnv{n: 2},
	})
	if err := agent.Run(); !errors.Is(err, errBroken) {
		t.Errorf("expected the policy error, got %v", err)
	}
}

func TestComparison(t *testing.T) {
	var got []string
	var datasets []DataSet
	c := NewComparison(&ComparisonConfig{Episodes: 5, Seed: 1})
	c.AddAnalysis("Outcome", NewOutcomeAnalyzer(), func(names []string, ds []DataSet) {
		got = names
		datasets = ds
	})
	c.AddExperiment(NewExperiment("Done", &doneOracle{}, &countdownEnv{n: 3}))
	c.AddExperiment(NewExperiment("Random", NewSeededRandomPolicy(1), &countdownEnv{n: 3}))
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Done" {
		t.Fatalf("unexpected experiments %v", got)
	}
	done := datasets[0].(*OutcomeDataSet)
	if done.Episodes != 5 || done.SuccessRate() != 1 || done.MeanLength() != 3 || done.MaxLength() != 3 {
		t.Errorf("unexpected outcome %+v", done)
	}
	if datasets[1].(*OutcomeDataSet).Episodes != 5 {
		t.Errorf("random experiment should run 5 episodes")
	}
}

func TestComparisonCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewComparison(&ComparisonConfig{Episodes: 5})
	c.AddExperiment(NewExperiment("Done", &doneOracle{}, &countdownEnv{n: 3}))
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected a cancelled run, got %v", err)
	}
}
