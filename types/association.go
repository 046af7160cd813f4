package types

import (
	"encoding/json"
	"fmt"
)

// MemoryAssociation asserts that the decision at timeline index Decision
// needs the information located at timeline index Source.
// On the timeline the observation of step t is 2t and its action is 2t+1.
type MemoryAssociation struct {
	Decision int
	Source   int
}

// ObservationIndex of step t on the interleaved timeline
func ObservationIndex(t int) int {
	return 2 * t
}

// ActionIndex of step t on the interleaved timeline
func ActionIndex(t int) int {
	return 2*t + 1
}

// TimelineStep maps a timeline index back to its step and whether it is an action
func TimelineStep(index int) (int, bool) {
	return index / 2, index%2 == 1
}

// NewAssociation builds the association and checks the ordering
func NewAssociation(decision, source int) (MemoryAssociation, error) {
	if source < 0 || decision < 0 || source > decision {
		return MemoryAssociation{}, fmt.Errorf("invalid memory association (%d, %d)", decision, source)
	}
	return MemoryAssociation{Decision: decision, Source: source}, nil
}

// Recall is true when the association points strictly into the past
func (m MemoryAssociation) Recall() bool {
	return m.Source < m.Decision
}

// Distance on the timeline between decision and source
func (m MemoryAssociation) Distance() int {
	return m.Decision - m.Source
}

// MarshalJSON encodes the association as a [decision, source] pair
func (m MemoryAssociation) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{m.Decision, m.Source})
}

func (m *MemoryAssociation) UnmarshalJSON(b []byte) error {
	var pair [2]int
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	m.Decision, m.Source = pair[0], pair[1]
	return nil
}

// Recalls filters out the self references
func Recalls(as []MemoryAssociation) []MemoryAssociation {
	out := make([]MemoryAssociation, 0, len(as))
	for _, a := range as {
		if a.Recall() {
			out = append(out, a)
		}
	}
	return out
}
