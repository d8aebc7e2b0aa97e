package policies

import (
	"fmt"

	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/selectors"
)

// Policy couples an action selector with a value estimator and exposes the
// action-taking surface the orchestrator drives.
type Policy struct {
	selector  selectors.Selector
	estimator core.Estimator
	offset    int
	learning  bool
}

func NewPolicy(selector selectors.Selector, estimator core.Estimator) *Policy {
	offset := 0
	if estimator.IsStateActionValue() {
		offset = 1
	}
	return &Policy{
		selector:  selector,
		estimator: estimator,
		offset:    offset,
		learning:  true,
	}
}

// Act selects an action for state and records the chosen action and its
// score on the state itself. Outside learning mode selection is always
// greedy. In learning mode the state is forwarded to the estimator's
// experience buffer and to the selector's trajectory bookkeeping.
func (p *Policy) Act(state *core.State, forceGreedy bool) error {
	scores, err := p.estimator.Predict(state.Features)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	action, err := p.selector.Select(scores[p.offset:], state.LegalActions, forceGreedy || !p.learning)
	if err != nil {
		return err
	}
	state.Action = action
	state.PolicyValue = scores[action+p.offset]
	if p.learning {
		p.estimator.Add(state)
		if r, ok := p.selector.(selectors.Recorder); ok {
			r.Record(state)
		}
	}
	return nil
}

func (p *Policy) SetLearning(learning bool) {
	p.learning = learning
}

func (p *Policy) Learning() bool {
	return p.learning
}

// OnEpisodeEnd advances the selector's exploration schedule and closes out
// any recorded trajectory.
func (p *Policy) OnEpisodeEnd() {
	if r, ok := p.selector.(selectors.Recorder); ok {
		r.EndEpisode()
	}
	p.selector.Decay()
}

func (p *Policy) Estimator() core.Estimator {
	return p.estimator
}

// StateValueOffset is 1 when the estimator jointly models a state value
// ahead of the per-action scores, 0 otherwise.
func (p *Policy) StateValueOffset() int {
	return p.offset
}
