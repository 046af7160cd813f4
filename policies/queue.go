package policies

import "github.com/WilliamYue37/LTMB/grid"

// ActionQueue holds the pending actions of a multi-step maneuver.
// Oracles drain it before taking any new decision.
type ActionQueue struct {
	actions []grid.Action
}

func NewActionQueue() *ActionQueue {
	return &ActionQueue{
		actions: make([]grid.Action, 0),
	}
}

func (q *ActionQueue) Push(actions ...grid.Action) {
	q.actions = append(q.actions, actions...)
}

// Pop returns the oldest pending action
func (q *ActionQueue) Pop() (grid.Action, bool) {
	if len(q.actions) == 0 {
		return 0, false
	}
	a := q.actions[0]
	q.actions = q.actions[1:]
	return a, true
}

func (q *ActionQueue) Len() int {
	return len(q.actions)
}

func (q *ActionQueue) Reset() {
	q.actions = q.actions[:0]
}
