package core

// State is a snapshot of the environment at a single decision point. The
// orchestrator owns it; the policy fills in Action and PolicyValue when
// acting on it, and the orchestrator fills in TDTarget once the episode
// outcome is known.
type State struct {
	Features     []float64
	LegalActions []int

	// Action is the action taken in this state, -1 until decided.
	Action int
	// PolicyValue is the score the estimator assigned to the taken action
	// at decision time. The search-tree selector overwrites it with the
	// visit-derived policy value during its end-of-episode backup.
	PolicyValue float64
	// TDTarget is the temporal-difference target for this state, set by
	// the orchestrator's training pipeline.
	TDTarget float64
}

// NewState returns a state with no action decided yet.
func NewState(features []float64, legalActions []int) *State {
	return &State{
		Features:     features,
		LegalActions: legalActions,
		Action:       -1,
	}
}

// Transition is a completed step: the originating state, the action taken
// and the learning targets derived once the outcome is known. The policy
// core reads transitions but never mutates them.
type Transition struct {
	State     *State
	Action    int
	TDTarget  float64
	Advantage float64
	// ActionValue is the tree-search-derived visit statistic, only set for
	// search-tree trained transitions.
	ActionValue float64
}

// ScoreVector holds per-action scores for one state. When the estimator is
// a combined state-action-value function the vector carries one extra
// leading state-value slot.
type ScoreVector []float64
