package policies

import (
	"math"

	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/selectors"
)

// GradientStrategy computes the per-transition policy-gradient value and
// hooks the batch pre/post processing for one update algorithm.
type GradientStrategy interface {
	GradientValue(t *core.Transition) (float64, error)
	PreProcess() error
	PostProcess() error
}

// UpdateablePolicy runs policy-gradient updates against the estimator
// through a pluggable gradient strategy.
type UpdateablePolicy struct {
	*Policy
	strategy GradientStrategy
}

func NewUpdateablePolicy(selector selectors.Selector, estimator core.Estimator, strategy GradientStrategy) *UpdateablePolicy {
	return &UpdateablePolicy{
		Policy:   NewPolicy(selector, estimator),
		strategy: strategy,
	}
}

// Update builds one gradient target per transition and submits the whole
// batch to the estimator in a single training call. The batch is iterated
// most-recent first. Each target carries the negated gradient value in the
// taken action's slot, converting the strategy's loss convention into the
// ascent direction the estimator trains on, and the raw TD target in the
// leading slot when the estimator models a joint state-action value. Any
// failure before submission aborts the batch with the estimator untouched.
// An empty batch is a no-op.
func (u *UpdateablePolicy) Update(batch []*core.Transition) error {
	if len(batch) == 0 {
		return nil
	}
	if err := u.strategy.PreProcess(); err != nil {
		return err
	}
	width := u.estimator.NumActions() + u.offset
	targets := make([]core.Target, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		t := batch[i]
		values := make(core.ScoreVector, width)
		if u.offset == 1 {
			values[0] = t.TDTarget
		}
		v, err := u.strategy.GradientValue(t)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &core.ComputationError{Op: "gradient value", Value: v}
		}
		values[t.Action+u.offset] = -v
		targets = append(targets, core.Target{Transition: t, Values: values})
	}
	if err := u.strategy.PostProcess(); err != nil {
		return err
	}
	return u.estimator.Train(targets)
}

// Strategy returns the gradient strategy driving updates.
func (u *UpdateablePolicy) Strategy() GradientStrategy {
	return u.strategy
}
