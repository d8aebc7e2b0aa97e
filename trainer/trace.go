package trainer

import "github.com/ekarna/policyrl/core"

type step struct {
	state  *core.State
	reward float64
}

// trace records one episode's decided states and rewards in order.
type trace struct {
	steps []*step
}

func newTrace() *trace {
	return &trace{
		steps: make([]*step, 0),
	}
}

func (t *trace) add(state *core.State, reward float64) {
	t.steps = append(t.steps, &step{state: state, reward: reward})
}

func (t *trace) len() int {
	return len(t.steps)
}

// totalReward sums the undiscounted rewards of the episode.
func (t *trace) totalReward() float64 {
	total := 0.0
	for _, s := range t.steps {
		total += s.reward
	}
	return total
}

// fillTargets walks the episode backwards, writing the discounted return
// onto every decided state.
func (t *trace) fillTargets(gamma float64) {
	g := 0.0
	for i := len(t.steps) - 1; i >= 0; i-- {
		g = t.steps[i].reward + gamma*g
		t.steps[i].state.TDTarget = g
	}
}

// transitions builds the completed batch in chronological order. The
// advantage is the TD target minus the policy value kept at decision time;
// the action value carries the (possibly backup-rewritten) policy value for
// tree-search trained batches.
func (t *trace) transitions() []*core.Transition {
	out := make([]*core.Transition, 0, len(t.steps))
	for _, s := range t.steps {
		out = append(out, &core.Transition{
			State:       s.state,
			Action:      s.state.Action,
			TDTarget:    s.state.TDTarget,
			Advantage:   s.state.TDTarget - s.state.PolicyValue,
			ActionValue: s.state.PolicyValue,
		})
	}
	return out
}
