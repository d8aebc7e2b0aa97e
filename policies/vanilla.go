package policies

import (
	"fmt"
	"math"

	"github.com/ekarna/policyrl/core"
)

// logGuard keeps the log-likelihood finite when the taken action's
// probability has collapsed to zero.
const logGuard = 1e-15

type VanillaConfig struct {
	// ApplyEntropy adds entropy regularization to the advantage weight.
	ApplyEntropy bool
	// EntropyCoefficient scales the entropy term.
	EntropyCoefficient float64
}

func DefaultVanillaConfig() VanillaConfig {
	return VanillaConfig{
		ApplyEntropy:       true,
		EntropyCoefficient: 0.01,
	}
}

func (c VanillaConfig) validate() error {
	if c.EntropyCoefficient < 0 {
		return &core.ConfigError{Option: "entropyCoefficient", Reason: "must be non-negative"}
	}
	return nil
}

// VanillaPolicyGradient weights the log-likelihood of the taken action by
// the advantage, optionally regularized with the entropy of the current
// action distribution. Scores are re-queried from the live estimator at
// update time rather than reused from decision time, so updates already
// applied within the same outer loop are reflected.
type VanillaPolicyGradient struct {
	cfg       VanillaConfig
	estimator core.Estimator
	offset    int
}

var _ GradientStrategy = &VanillaPolicyGradient{}

func NewVanillaPolicyGradient(estimator core.Estimator, cfg VanillaConfig) (*VanillaPolicyGradient, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	offset := 0
	if estimator.IsStateActionValue() {
		offset = 1
	}
	return &VanillaPolicyGradient{
		cfg:       cfg,
		estimator: estimator,
		offset:    offset,
	}, nil
}

func (v *VanillaPolicyGradient) GradientValue(t *core.Transition) (float64, error) {
	scores, err := v.estimator.Predict(t.State.Features)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	p := scores[t.Action+v.offset]
	entropy := 0.0
	if v.cfg.ApplyEntropy {
		for _, a := range t.State.LegalActions {
			if pa := scores[a+v.offset]; pa > 0 {
				entropy -= pa * math.Log(pa)
			}
		}
	}
	return math.Log(p+logGuard) * (t.Advantage + v.cfg.EntropyCoefficient*entropy), nil
}

func (v *VanillaPolicyGradient) PreProcess() error { return nil }

func (v *VanillaPolicyGradient) PostProcess() error { return nil }
