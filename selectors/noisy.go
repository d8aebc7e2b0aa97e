package selectors

import (
	"math"
	"time"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ekarna/policyrl/core"
)

type NoisyConfig struct {
	// ExplorationNoise is the initial variance of the score perturbation.
	ExplorationNoise float64
	// MinExplorationNoise is the variance floor.
	MinExplorationNoise float64
	// NoiseDecay multiplies the variance on every Decay call.
	NoiseDecay float64
}

func DefaultNoisyConfig() NoisyConfig {
	return NoisyConfig{
		ExplorationNoise:    0.2,
		MinExplorationNoise: 0.1,
		NoiseDecay:          0.9999,
	}
}

func (c NoisyConfig) validate() error {
	if c.ExplorationNoise < 0 {
		return &core.ConfigError{Option: "explorationNoise", Reason: "must be non-negative"}
	}
	if c.MinExplorationNoise < 0 || c.MinExplorationNoise > c.ExplorationNoise {
		return &core.ConfigError{Option: "minExplorationNoise", Reason: "must be in [0,explorationNoise]"}
	}
	if c.NoiseDecay <= 0 || c.NoiseDecay > 1 {
		return &core.ConfigError{Option: "explorationNoiseDecay", Reason: "must be in (0,1]"}
	}
	return nil
}

// Noisy perturbs every legal action's score with independent zero-mean
// Gaussian noise at the current variance before taking the arg-max.
type Noisy struct {
	cfg   NoisyConfig
	noise float64
	std   distuv.Normal
}

var _ Selector = &Noisy{}

func NewNoisy(cfg NoisyConfig) (*Noisy, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Noisy{
		cfg:   cfg,
		noise: cfg.ExplorationNoise,
		std: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   erand.NewSource(uint64(time.Now().UnixNano())),
		},
	}, nil
}

func (n *Noisy) Select(scores core.ScoreVector, legal []int, forceGreedy bool) (int, error) {
	if len(legal) == 0 {
		return -1, core.ErrEmptyActionSet
	}
	if forceGreedy {
		return argmax(scores, legal)
	}
	sigma := math.Sqrt(n.noise)
	noised := make(core.ScoreVector, len(scores))
	copy(noised, scores)
	for _, a := range legal {
		noised[a] += n.std.Rand() * sigma
	}
	return argmax(noised, legal)
}

// Decay shrinks the noise variance geometrically down to the floor.
func (n *Noisy) Decay() {
	if n.noise <= n.cfg.MinExplorationNoise {
		return
	}
	n.noise *= n.cfg.NoiseDecay
	if n.noise < n.cfg.MinExplorationNoise {
		n.noise = n.cfg.MinExplorationNoise
	}
}

// Noise returns the current perturbation variance.
func (n *Noisy) Noise() float64 {
	return n.noise
}
