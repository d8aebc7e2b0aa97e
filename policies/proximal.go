package policies

import (
	"fmt"
	"math"

	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/util"
)

type ProximalConfig struct {
	// Epsilon is the clip range of the probability ratio.
	Epsilon float64
	// UpdateCycle is the number of batch updates between reference
	// estimator refreshes.
	UpdateCycle int
}

func DefaultProximalConfig() ProximalConfig {
	return ProximalConfig{
		Epsilon:     0.2,
		UpdateCycle: 1,
	}
}

func (c ProximalConfig) validate() error {
	if c.Epsilon <= 0 || c.Epsilon >= 1 {
		return &core.ConfigError{Option: "epsilon", Reason: "must be in (0,1)"}
	}
	if c.UpdateCycle < 1 {
		return &core.ConfigError{Option: "updateCycle", Reason: "must be at least 1"}
	}
	return nil
}

// ProximalPolicyUpdate implements the clipped-surrogate objective against a
// lagged reference copy of the live estimator. The reference is replaced
// wholesale every UpdateCycle batches; callers never observe a partially
// merged reference.
type ProximalPolicyUpdate struct {
	cfg         ProximalConfig
	live        core.Estimator
	reference   core.Estimator
	offset      int
	updateCount int
}

var _ GradientStrategy = &ProximalPolicyUpdate{}

func NewProximalPolicyUpdate(live core.Estimator, cfg ProximalConfig) (*ProximalPolicyUpdate, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	reference, err := live.Copy()
	if err != nil {
		return nil, fmt.Errorf("copy reference estimator: %w", err)
	}
	offset := 0
	if live.IsStateActionValue() {
		offset = 1
	}
	return &ProximalPolicyUpdate{
		cfg:       cfg,
		live:      live,
		reference: reference,
		offset:    offset,
	}, nil
}

func (p *ProximalPolicyUpdate) GradientValue(t *core.Transition) (float64, error) {
	cur, err := p.live.Predict(t.State.Features)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	prev, err := p.reference.Predict(t.State.Features)
	if err != nil {
		return 0, fmt.Errorf("reference predict: %w", err)
	}
	currentP := cur[t.Action+p.offset]
	previousP := prev[t.Action+p.offset]
	// A zero reference probability would divide to NaN/Inf; treat the
	// ratio as neutral instead.
	ratio := 1.0
	if previousP != 0 {
		ratio = currentP / previousP
	}
	clipped := util.Clamp(ratio, 1-p.cfg.Epsilon, 1+p.cfg.Epsilon)
	return -math.Min(ratio*t.Advantage, clipped*t.Advantage), nil
}

func (p *ProximalPolicyUpdate) PreProcess() error { return nil }

// PostProcess refreshes the reference estimator with a full snapshot of the
// live parameters once per update cycle.
func (p *ProximalPolicyUpdate) PostProcess() error {
	p.updateCount++
	if p.updateCount >= p.cfg.UpdateCycle {
		if err := p.reference.Merge(p.live, true); err != nil {
			return fmt.Errorf("refresh reference estimator: %w", err)
		}
		p.updateCount = 0
	}
	return nil
}

// Reference returns the lagged reference estimator.
func (p *ProximalPolicyUpdate) Reference() core.Estimator {
	return p.reference
}
