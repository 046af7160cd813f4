package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WilliamYue37/LTMB/grid"
	"github.com/WilliamYue37/LTMB/policies"
	"github.com/WilliamYue37/LTMB/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(context.Background(), "", log.New(io.Discard, "", 0))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestTasks(t *testing.T) {
	ts := newTestServer(t)
	out := struct {
		Tasks []taskInfo `json:"tasks"`
	}{}
	if code := do(t, http.MethodGet, ts.URL+"/tasks", nil, &out); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if len(out.Tasks) != 4 || out.Tasks[0].ID != "LTMB-Hallway-v0" {
		t.Errorf("unexpected tasks %+v", out.Tasks)
	}
}

func TestExpertEpisode(t *testing.T) {
	ts := newTestServer(t)

	created := struct {
		ID   string `json:"id"`
		Task string `json:"task"`
	}{}
	code := do(t, http.MethodPost, ts.URL+"/envs", map[string]interface{}{
		"task":   "LTMB-Mimic-v0",
		"config": map[string]interface{}{"length": 4},
	}, &created)
	if code != http.StatusCreated || created.Task != "mimic" {
		t.Fatalf("create returned %d %+v", code, created)
	}
	base := ts.URL + "/envs/" + created.ID

	// stepping before reset is rejected
	if code := do(t, http.MethodPost, base+"/step", map[string]int{"action": 0}, nil); code != http.StatusConflict {
		t.Errorf("expected a conflict before reset, got %d", code)
	}

	reset := struct {
		Observation grid.Observation `json:"observation"`
	}{}
	if code := do(t, http.MethodPost, base+"/reset", map[string]int64{"seed": 3}, &reset); code != http.StatusOK {
		t.Fatalf("reset returned %d", code)
	}

	expert, _ := policies.ExpertFor("mimic")
	expert.Reset()
	obs := reset.Observation
	var res types.StepResult
	for steps := 0; !res.Done(); steps++ {
		if steps > 4 {
			t.Fatalf("episode did not end")
		}
		a, err := expert.NextAction(obs)
		if err != nil {
			t.Fatal(err)
		}
		res = types.StepResult{}
		if code := do(t, http.MethodPost, base+"/step", map[string]int{"action": int(a)}, &res); code != http.StatusOK {
			t.Fatalf("step returned %d", code)
		}
		obs = res.Observation
	}
	if !res.Info.Success || res.Reward != 1 {
		t.Errorf("expert episode should succeed over http")
	}

	state := map[string]interface{}{}
	do(t, http.MethodGet, base, nil, &state)
	if state["state"] != "success" || state["steps"] != float64(4) {
		t.Errorf("unexpected session state %v", state)
	}

	if code := do(t, http.MethodPost, base+"/step", map[string]int{"action": 0}, nil); code != http.StatusConflict {
		t.Errorf("expected a conflict after the episode ended, got %d", code)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `ltmb_episodes_total{outcome="success",task="mimic"} 1`) {
		t.Errorf("episode outcome missing from metrics")
	}

	if code := do(t, http.MethodDelete, base, nil, nil); code != http.StatusOK {
		t.Errorf("delete returned %d", code)
	}
	if code := do(t, http.MethodGet, base, nil, nil); code != http.StatusNotFound {
		t.Errorf("expected not found after delete, got %d", code)
	}
}

func TestCreateErrors(t *testing.T) {
	ts := newTestServer(t)
	if code := do(t, http.MethodPost, ts.URL+"/envs", map[string]string{"task": "maze"}, nil); code != http.StatusBadRequest {
		t.Errorf("unknown task should be rejected, got %d", code)
	}
	code := do(t, http.MethodPost, ts.URL+"/envs", map[string]interface{}{
		"task":   "counting",
		"config": map[string]interface{}{"test_freq": 2},
	}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("invalid config should be rejected, got %d", code)
	}
}

func TestInvalidAction(t *testing.T) {
	ts := newTestServer(t)
	created := map[string]string{}
	do(t, http.MethodPost, ts.URL+"/envs", map[string]string{"task": "ordering"}, &created)
	base := ts.URL + "/envs/" + created["id"]
	do(t, http.MethodPost, base+"/reset", nil, nil)
	if code := do(t, http.MethodPost, base+"/step", map[string]int{"action": 9}, nil); code != http.StatusBadRequest {
		t.Errorf("out of range action should be rejected, got %d", code)
	}
}

func TestStepActionForms(t *testing.T) {
	ts := newTestServer(t)
	created := map[string]string{}
	do(t, http.MethodPost, ts.URL+"/envs", map[string]string{"task": "ordering"}, &created)
	base := ts.URL + "/envs/" + created["id"]
	do(t, http.MethodPost, base+"/reset", map[string]int64{"seed": 1}, nil)

	rejected := []interface{}{
		map[string]interface{}{},
		map[string]interface{}{"action": nil},
		map[string]interface{}{"action": "jump"},
		map[string]interface{}{"action": -1},
		map[string]interface{}{"action": 1.5},
	}
	for i, body := range rejected {
		if code := do(t, http.MethodPost, base+"/step", body, nil); code != http.StatusBadRequest {
			t.Errorf("case %d: expected a bad request, got %d", i, code)
		}
	}

	state := map[string]interface{}{}
	do(t, http.MethodGet, base, nil, &state)
	if state["steps"] != float64(0) {
		t.Fatalf("rejected steps should not reach the environment, got %v steps", state["steps"])
	}

	for _, action := range []interface{}{"forward", "toggle", 6} {
		if code := do(t, http.MethodPost, base+"/step", map[string]interface{}{"action": action}, nil); code != http.StatusOK {
			t.Errorf("action %v: expected ok, got %d", action, code)
		}
	}
	do(t, http.MethodGet, base, nil, &state)
	if state["steps"] != float64(3) {
		t.Errorf("expected 3 steps, got %v", state["steps"])
	}
}
