package tasks

import (
	"errors"
	"math"
	"testing"

	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/types"
	"github.com/WilliamYue37/LTMB/util"
)

func TestConfigValidation(t *testing.T) {
	invalid := []struct {
		task string
		cfg  func(Config) Config
	}{
		{HallwayName, func(c Config) Config { c.Length = 0; return c }},
		{HallwayName, func(c Config) Config { c.MaxSteps = 0; return c }},
		{CountingName, func(c Config) Config { c.Length = -1; return c }},
		{CountingName, func(c Config) Config { c.TestFreq = 1.5; return c }},
		{CountingName, func(c Config) Config { c.EmptyFreq = -0.1; return c }},
		{CountingName, func(c Config) Config { c.TestFreq = math.NaN(); return c }},
		{MimicName, func(c Config) Config { c.EmptyFreq = 2; return c }},
		{OrderingName, func(c Config) Config { c.Candidates = 3; return c }},
	}
	for i, tc := range invalid {
		_, err := New(tc.task, tc.cfg(DefaultConfig()))
		if err == nil {
			t.Errorf("case %d (%s): expected an error", i, tc.task)
			continue
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d (%s): error %v does not match ErrInvalidConfig", i, tc.task, err)
		}
	}

	for _, name := range Names {
		if _, err := New(name, DefaultConfig()); err != nil {
			t.Errorf("default config rejected for %s: %v", name, err)
		}
	}
}

func TestBoundaryFrequencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TestFreq = 0
	cfg.EmptyFreq = 1
	if _, err := NewCounting(cfg); err != nil {
		t.Errorf("frequencies at the bounds should be accepted: %v", err)
	}
}

func TestLookup(t *testing.T) {
	for _, in := range []string{"counting", "Counting", "LTMB-Counting-v0", "ltmb-counting-v0"} {
		name, err := Lookup(in)
		if err != nil || name != CountingName {
			t.Errorf("lookup %q: got %q, %v", in, name, err)
		}
	}
	if _, err := New("maze", DefaultConfig()); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
}

func TestStepOutsideEpisode(t *testing.T) {
	for _, name := range Names {
		env, err := New(name, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := env.Step(grid.Forward); !errors.Is(err, types.ErrEpisodeNotStarted) {
			t.Errorf("%s: expected ErrEpisodeNotStarted, got %v", name, err)
		}
		if env.State() != types.Uninitialized {
			t.Errorf("%s: unexpected state %s", name, env.State())
		}
	}
}

// replay drives the environment with the same action until the episode ends
func replay(t *testing.T, env types.Environment, seed int64, a grid.Action) []grid.Observation {
	t.Helper()
	out := []grid.Observation{env.Reset(seed)}
	for i := 0; i < 1000; i++ {
		res, err := env.Step(a)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, res.Observation)
		if res.Done() {
			return out
		}
	}
	t.Fatalf("%s: episode did not end", env.Name())
	return nil
}

func TestSeedDeterminism(t *testing.T) {
	for _, name := range Names {
		env1, _ := New(name, DefaultConfig())
		env2, _ := New(name, DefaultConfig())
		for seed := int64(0); seed < 10; seed++ {
			a := replay(t, env1, seed, grid.Forward)
			b := replay(t, env2, seed, grid.Forward)
			if len(a) != len(b) {
				t.Fatalf("%s seed %d: lengths differ %d != %d", name, seed, len(a), len(b))
			}
			for i := range a {
				if !a[i].Equal(b[i]) {
					t.Errorf("%s seed %d: observation %d differs", name, seed, i)
					break
				}
			}
		}
	}
}

func TestEpisodeOver(t *testing.T) {
	env, _ := NewMimic(DefaultConfig())
	replay(t, env, 3, grid.Done)
	if !env.State().Terminal() {
		t.Fatalf("expected a terminal state, got %s", env.State())
	}
	if _, err := env.Step(grid.Done); !errors.Is(err, types.ErrEpisodeOver) {
		t.Errorf("expected ErrEpisodeOver, got %v", err)
	}
	env.Reset(4)
	if env.State() != types.Active {
		t.Errorf("reset should start a new episode, got %s", env.State())
	}
}

func TestHallwayLayout(t *testing.T) {
	cfg := DefaultConfig()
	for seed := int64(0); seed < 20; seed++ {
		h, _ := NewHallway(cfg)
		obs := h.Reset(seed)
		if h.Width != 4*cfg.Length+5 || h.MaxSteps < h.Width+20 {
			t.Fatalf("unexpected dimensions %dx%d max %d", h.Width, h.Height, h.MaxSteps)
		}
		if obs.Direction != grid.East {
			t.Errorf("agent should start facing east")
		}
		target := h.Target()
		start, ok := h.Grid.At(grid.Point{X: 1, Y: h.Height/2 - 1}).Object()
		if !ok || start != target {
			t.Errorf("seed %d: start room does not show the target", seed)
		}
		if !h.Grid.At(h.SuccessPos()).IsDoor() {
			t.Errorf("seed %d: success position %s is not a door", seed, h.SuccessPos())
		}
		// exactly one copy of the target in the hallways
		copies := 0
		for x := 5; x < h.Width; x++ {
			for y := 0; y < h.Height; y++ {
				if o, ok := h.Grid.Get(x, y).Object(); ok && o == target {
					copies += 1
				}
			}
		}
		if copies != 1 {
			t.Errorf("seed %d: %d copies of the target in the hallways", seed, copies)
		}
	}
}

// enterDoor places the agent under the door and walks through it
func enterDoor(t *testing.T, h *Hallway, door grid.Point) types.StepResult {
	t.Helper()
	if door.Y < h.Height/2 {
		h.PlaceAgent(grid.Point{X: door.X, Y: door.Y + 1}, grid.North)
	} else {
		h.PlaceAgent(grid.Point{X: door.X, Y: door.Y - 1}, grid.South)
	}
	if _, err := h.Step(grid.Pickup); err != nil {
		t.Fatal(err)
	}
	res, err := h.Step(grid.Forward)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestHallwayDoors(t *testing.T) {
	h, _ := NewHallway(DefaultConfig())
	h.Reset(11)
	res := enterDoor(t, h, h.SuccessPos())
	if !res.Terminated || !res.Info.Success || res.Reward != 1 {
		t.Errorf("entering the target door should succeed: %+v", res.Info)
	}
	if h.State() != types.Success {
		t.Errorf("expected success state, got %s", h.State())
	}

	h.Reset(11)
	wrong := h.SuccessPos()
	if wrong.Y < h.Height/2 {
		wrong.Y = h.lowerWall - 1
	} else {
		wrong.Y = h.upperWall + 1
	}
	res = enterDoor(t, h, wrong)
	if !res.Terminated || res.Info.Success || res.Reward != 0 {
		t.Errorf("entering another door should fail with reward 0")
	}
}

func TestHallwayRewardShaping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RewardShaping = true
	h, _ := NewHallway(cfg)
	h.Reset(5)
	res := enterDoor(t, h, h.SuccessPos())
	expected := 1 - 0.9*2/float64(h.MaxSteps)
	if math.Abs(res.Reward-expected) > 1e-9 {
		t.Errorf("expected shaped reward %f, got %f", expected, res.Reward)
	}
}

func TestHallwayTruncationFails(t *testing.T) {
	h, _ := NewHallway(DefaultConfig())
	h.Reset(3)
	var res types.StepResult
	steps := 0
	for !res.Done() {
		var err error
		if res, err = h.Step(grid.Left); err != nil {
			t.Fatal(err)
		}
		steps += 1
	}
	if steps != h.MaxSteps {
		t.Errorf("expected the episode to run %d steps, ran %d", h.MaxSteps, steps)
	}
	if !res.Truncated || res.Terminated || res.Info.Success || res.Reward != 0 {
		t.Errorf("truncation without entering a door should fail with reward 0, got %+v reward %f", res.Info, res.Reward)
	}
	if h.State() != types.Failure {
		t.Errorf("expected failure state, got %s", h.State())
	}
}

func TestCountingCorrectDoor(t *testing.T) {
	c, _ := NewCounting(DefaultConfig())
	objects := grid.AllObjects()
	for count := 0; count <= 10; count++ {
		for seed := int64(0); seed < 10; seed++ {
			c.Reset(seed)
			// object k has been seen (count + k) % 11 times
			table := make(map[grid.Object]int, len(objects))
			c.counts = util.NewMultiSet()
			for k, o := range objects {
				table[o] = (count + k) % 11
				for i := 0; i < table[o]; i++ {
					c.counts.Add(o)
				}
			}
			c.clearRoom()
			c.genTestRoom()

			query, ok := c.Grid.At(countingQuery).Object()
			if !ok {
				t.Fatalf("test room without a query object")
			}
			expected := countingRed
			if table[query]%2 == 0 {
				expected = countingGreen
			}
			if c.CorrectDoor() != expected {
				t.Errorf("%s seen %d times: door %s, expected %s", query, table[query], c.CorrectDoor(), expected)
			}
		}
	}
}

func TestCountingTestRoom(t *testing.T) {
	cfg := DefaultConfig()
	c, _ := NewCounting(cfg)
	for seed := int64(0); seed < 20; seed++ {
		c.Reset(seed)
		c.clearRoom()
		c.genTestRoom()
		query, ok := c.Grid.At(countingQuery).Object()
		if !ok {
			t.Fatalf("test room without a query object")
		}
		if c.CorrectDoor() != correctDoorFor(c.Count(query)) {
			t.Errorf("seed %d: wrong door for count %d", seed, c.Count(query))
		}
		if c.Grid.At(countingGreen).Color != grid.Green || c.Grid.At(countingRed).Color != grid.Red {
			t.Errorf("seed %d: test room doors misplaced", seed)
		}
	}
}

func TestCountingWrongDoorFails(t *testing.T) {
	c, _ := NewCounting(DefaultConfig())
	c.Reset(2)
	c.clearRoom()
	c.genTestRoom()
	wrong := countingRed
	if c.CorrectDoor() == countingRed {
		wrong = countingGreen
	}
	c.PlaceAgent(grid.Point{X: wrong.X, Y: 1}, grid.North)
	c.Step(grid.Toggle)
	res, err := c.Step(grid.Forward)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Terminated || res.Info.Success || res.Reward != 0 {
		t.Errorf("wrong door should fail with reward 0, got %+v %f", res.Info, res.Reward)
	}
}

func TestCountingEmptyRooms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmptyFreq = 1
	c, _ := NewCounting(cfg)
	c.Reset(1)
	for _, p := range countingObjects {
		if c.Grid.At(p).Kind != grid.KindEmpty {
			t.Errorf("object placed at %s with empty_freq=1", p)
		}
	}
}

func TestCountingTruncationIsSuccess(t *testing.T) {
	c, _ := NewCounting(DefaultConfig())
	c.Reset(0)
	var res types.StepResult
	for !res.Done() {
		res, _ = c.Step(grid.Left)
	}
	if !res.Truncated || !res.Info.Success || res.Reward != 1 {
		t.Errorf("truncation should count as success")
	}
}

// setCurrent forces the object judged at the next step
func setCurrent(m *Mimic, o grid.Object) {
	m.current = &o
}

func TestMimicScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 3
	m, _ := NewMimic(cfg)
	m.Reset(0)

	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Red})
	res, _ := m.Step(grid.Forward)
	if res.Done() {
		t.Fatalf("first red key should bind the action")
	}
	if a, ok := m.Binding(grid.Red); !ok || a != grid.Forward {
		t.Fatalf("red should be bound to forward")
	}

	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Red})
	res, _ = m.Step(grid.Forward)
	if res.Done() {
		t.Fatalf("repeating the bound action should continue")
	}

	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Blue})
	res, _ = m.Step(grid.Toggle)
	if !res.Terminated || res.Truncated || !res.Info.Success || res.Reward != 1 {
		t.Errorf("expected success at the step budget, got %+v reward %f", res, res.Reward)
	}
}

func TestMimicViolations(t *testing.T) {
	m, _ := NewMimic(DefaultConfig())
	m.Reset(0)
	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Red})
	m.Step(grid.Left)
	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Red})
	res, _ := m.Step(grid.Right)
	if !res.Terminated || res.Info.Success || res.Reward != -1 {
		t.Errorf("a different action for a bound color should fail")
	}

	m.Reset(0)
	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Green})
	m.Step(grid.Drop)
	setCurrent(m, grid.Object{Kind: grid.KindBall, Color: grid.Green})
	res, _ = m.Step(grid.Drop)
	if !res.Terminated || res.Reward != -1 {
		t.Errorf("a key-bound action on another object should fail")
	}

	m.Reset(0)
	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Green})
	m.Step(grid.Drop)
	m.current = nil
	res, _ = m.Step(grid.Drop)
	if !res.Terminated || res.Reward != -1 {
		t.Errorf("a key-bound action on an empty cell should fail")
	}
}

func TestMimicResetClearsBindings(t *testing.T) {
	m, _ := NewMimic(DefaultConfig())
	m.Reset(0)
	setCurrent(m, grid.Object{Kind: grid.KindKey, Color: grid.Red})
	m.Step(grid.Left)
	m.Reset(0)
	if _, ok := m.Binding(grid.Red); ok {
		t.Errorf("bindings should not survive a reset")
	}
}

func TestOrderingMemoryPhase(t *testing.T) {
	o, _ := NewOrdering(DefaultConfig())
	obs := o.Reset(7)
	perm := o.Permutation()
	if len(perm) != MemorySteps {
		t.Fatalf("permutation of %d items", len(perm))
	}
	seen := make(map[grid.Object]bool)
	for _, item := range perm {
		seen[item] = true
	}
	if len(seen) != MemorySteps {
		t.Fatalf("permutation has duplicates")
	}
	for i := 0; i < MemorySteps; i++ {
		shown, ok := obs.Object(3, 3)
		if !ok || shown != perm[i] {
			t.Fatalf("step %d shows %v, expected %v", i, shown, perm[i])
		}
		res, _ := o.Step(grid.Done)
		if res.Done() {
			t.Fatalf("memory phase should not end the episode")
		}
		obs = res.Observation
	}
	if _, ok := obs.Object(3, 3); ok {
		t.Errorf("centre should be empty during queries")
	}
}

func TestOrderingChoices(t *testing.T) {
	o, _ := NewOrdering(DefaultConfig())
	for seed := int64(0); seed < 20; seed++ {
		obs := o.Reset(seed)
		for i := 0; i < MemorySteps; i++ {
			res, _ := o.Step(grid.Done)
			obs = res.Observation
		}
		choices := o.Choices()
		if len(choices) != 2 || choices[0] == choices[1] {
			t.Fatalf("seed %d: invalid choices %v", seed, choices)
		}
		left, _ := obs.Object(2, 3)
		right, _ := obs.Object(4, 3)
		if left != choices[0] || right != choices[1] {
			t.Errorf("seed %d: choices not displayed in their slots", seed)
		}

		first, other := grid.Left, grid.Right
		if o.Position(right) < o.Position(left) {
			first, other = grid.Right, grid.Left
		}
		if seed%2 == 0 {
			res, _ := o.Step(first)
			if res.Reward != 0 || res.Done() {
				t.Errorf("seed %d: selecting the earlier object should not be penalised", seed)
			}
		} else {
			res, _ := o.Step(other)
			if res.Reward != -1 || !res.Terminated || res.Info.Success {
				t.Errorf("seed %d: selecting the later object should fail", seed)
			}
		}
	}
}

func TestOrderingFourCandidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Candidates = 4
	o, _ := NewOrdering(cfg)
	obs := o.Reset(1)
	for i := 0; i < MemorySteps; i++ {
		res, _ := o.Step(grid.Done)
		obs = res.Observation
	}
	for i, s := range OrderingSlots {
		vx, vy := s.Pos.X, s.Pos.Y
		shown, ok := obs.Object(vx, vy)
		if !ok || shown != o.Choices()[i] {
			t.Errorf("slot %d does not show its candidate", i)
		}
	}
}
