package policies

import (
	"fmt"
	"math"

	"github.com/ekarna/policyrl/core"
)

// visitLogGuard keeps the cross-entropy term finite for actions the
// estimator currently assigns zero probability.
const visitLogGuard = 1e-6

// MCTSPolicyUpdate pulls the estimator's action probabilities toward the
// visit-count distribution produced by the search tree: a cross-entropy
// loss weighted by each transition's tree-derived action value.
type MCTSPolicyUpdate struct {
	estimator core.Estimator
	offset    int
}

var _ GradientStrategy = &MCTSPolicyUpdate{}

func NewMCTSPolicyUpdate(estimator core.Estimator) *MCTSPolicyUpdate {
	offset := 0
	if estimator.IsStateActionValue() {
		offset = 1
	}
	return &MCTSPolicyUpdate{
		estimator: estimator,
		offset:    offset,
	}
}

func (m *MCTSPolicyUpdate) GradientValue(t *core.Transition) (float64, error) {
	scores, err := m.estimator.Predict(t.State.Features)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	currentP := scores[t.Action+m.offset]
	return -t.ActionValue * math.Log(currentP+visitLogGuard), nil
}

func (m *MCTSPolicyUpdate) PreProcess() error { return nil }

func (m *MCTSPolicyUpdate) PostProcess() error { return nil }
