package policies

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/selectors"
	"github.com/ekarna/policyrl/util"
)

// stubEstimator returns fixed scores for every state and records training
// calls.
type stubEstimator struct {
	numActions int
	stateValue bool
	scores     core.ScoreVector

	added   []*core.State
	trained [][]core.Target
}

var _ core.Estimator = &stubEstimator{}

func (s *stubEstimator) NumActions() int          { return s.numActions }
func (s *stubEstimator) IsStateActionValue() bool { return s.stateValue }

func (s *stubEstimator) Predict(_ []float64) (core.ScoreVector, error) {
	return core.ScoreVector(util.CopyFloats(s.scores)), nil
}

func (s *stubEstimator) Train(batch []core.Target) error {
	s.trained = append(s.trained, batch)
	return nil
}

func (s *stubEstimator) Copy() (core.Estimator, error) {
	return &stubEstimator{
		numActions: s.numActions,
		stateValue: s.stateValue,
		scores:     core.ScoreVector(util.CopyFloats(s.scores)),
	}, nil
}

func (s *stubEstimator) Merge(other core.Estimator, _ bool) error {
	src, ok := other.(*stubEstimator)
	if !ok {
		return errors.New("incompatible estimator")
	}
	s.scores = core.ScoreVector(util.CopyFloats(src.scores))
	return nil
}

func (s *stubEstimator) Add(state *core.State) {
	s.added = append(s.added, state)
}

// stubStrategy returns a fixed gradient value and records the order
// transitions are processed in.
type stubStrategy struct {
	value float64
	seen  []*core.Transition
	pre   int
	post  int
}

var _ GradientStrategy = &stubStrategy{}

func (s *stubStrategy) GradientValue(t *core.Transition) (float64, error) {
	s.seen = append(s.seen, t)
	return s.value, nil
}

func (s *stubStrategy) PreProcess() error  { s.pre++; return nil }
func (s *stubStrategy) PostProcess() error { s.post++; return nil }

func transitionFixture(action int, tdTarget float64) *core.Transition {
	state := core.NewState([]float64{tdTarget}, []int{0, 1, 2})
	state.Action = action
	return &core.Transition{
		State:    state,
		Action:   action,
		TDTarget: tdTarget,
	}
}

func TestUpdateEmptyBatchIsNoOp(t *testing.T) {
	est := &stubEstimator{numActions: 3, scores: core.ScoreVector{0.1, 0.7, 0.2}}
	strategy := &stubStrategy{}
	u := NewUpdateablePolicy(selectors.NewGreedy(), est, strategy)

	require.NoError(t, u.Update(nil))
	require.Empty(t, est.trained)
	require.Zero(t, strategy.pre)
	require.Zero(t, strategy.post)
}

func TestUpdateBuildsNegatedTargets(t *testing.T) {
	est := &stubEstimator{numActions: 3, scores: core.ScoreVector{0.1, 0.7, 0.2}}
	strategy := &stubStrategy{value: 2.5}
	u := NewUpdateablePolicy(selectors.NewGreedy(), est, strategy)

	require.NoError(t, u.Update([]*core.Transition{transitionFixture(1, 0.8)}))
	require.Len(t, est.trained, 1)
	target := est.trained[0][0]
	require.Equal(t, core.ScoreVector{0, -2.5, 0}, target.Values)
}

func TestUpdateStateActionValueLeadingSlot(t *testing.T) {
	est := &stubEstimator{
		numActions: 3,
		stateValue: true,
		scores:     core.ScoreVector{0.5, 0.1, 0.7, 0.2},
	}
	strategy := &stubStrategy{value: 1.0}
	u := NewUpdateablePolicy(selectors.NewGreedy(), est, strategy)

	require.NoError(t, u.Update([]*core.Transition{transitionFixture(1, 0.8)}))
	target := est.trained[0][0]
	require.Len(t, target.Values, 4)
	require.Equal(t, 0.8, target.Values[0])
	require.Equal(t, -1.0, target.Values[2])
}

func TestUpdateIteratesMostRecentFirst(t *testing.T) {
	est := &stubEstimator{numActions: 3, scores: core.ScoreVector{0.1, 0.7, 0.2}}
	strategy := &stubStrategy{value: 1.0}
	u := NewUpdateablePolicy(selectors.NewGreedy(), est, strategy)

	batch := []*core.Transition{
		transitionFixture(0, 0.1),
		transitionFixture(1, 0.2),
		transitionFixture(2, 0.3),
	}
	require.NoError(t, u.Update(batch))
	require.Equal(t, []*core.Transition{batch[2], batch[1], batch[0]}, strategy.seen)
}

func TestUpdateAbortsOnNonFiniteGradient(t *testing.T) {
	est := &stubEstimator{numActions: 3, scores: core.ScoreVector{0.1, 0.7, 0.2}}
	strategy := &stubStrategy{value: math.NaN()}
	u := NewUpdateablePolicy(selectors.NewGreedy(), est, strategy)

	err := u.Update([]*core.Transition{transitionFixture(1, 0.8)})
	var compErr *core.ComputationError
	require.ErrorAs(t, err, &compErr)
	require.Empty(t, est.trained)
}

func TestUpdateRunsHooksOncePerBatch(t *testing.T) {
	est := &stubEstimator{numActions: 3, scores: core.ScoreVector{0.1, 0.7, 0.2}}
	strategy := &stubStrategy{value: 1.0}
	u := NewUpdateablePolicy(selectors.NewGreedy(), est, strategy)

	batch := []*core.Transition{
		transitionFixture(0, 0.1),
		transitionFixture(1, 0.2),
	}
	require.NoError(t, u.Update(batch))
	require.Equal(t, 1, strategy.pre)
	require.Equal(t, 1, strategy.post)
	require.Len(t, est.trained, 1)
	require.Len(t, est.trained[0], 2)
}
