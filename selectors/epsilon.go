package selectors

import (
	"math/rand"
	"time"

	"github.com/ekarna/policyrl/core"
)

type EpsilonGreedyConfig struct {
	// EpsilonInitial is the starting exploration probability.
	EpsilonInitial float64
	// EpsilonMin is the sticky floor epsilon never decays below.
	EpsilonMin float64
	// DecayRate multiplies epsilon on every Decay call in geometric mode.
	DecayRate float64
	// DecayByEpisode switches to hyperbolic decay: epsilon becomes
	// EpsilonInitial divided by the number of completed episodes.
	DecayByEpisode bool
}

func DefaultEpsilonGreedyConfig() EpsilonGreedyConfig {
	return EpsilonGreedyConfig{
		EpsilonInitial: 1.0,
		EpsilonMin:     0.1,
		DecayRate:      0.999,
	}
}

func (c EpsilonGreedyConfig) validate() error {
	if c.EpsilonInitial < 0 || c.EpsilonInitial > 1 {
		return &core.ConfigError{Option: "epsilonInitial", Reason: "must be in [0,1]"}
	}
	if c.EpsilonMin < 0 || c.EpsilonMin > c.EpsilonInitial {
		return &core.ConfigError{Option: "epsilonMin", Reason: "must be in [0,epsilonInitial]"}
	}
	if c.DecayRate <= 0 || c.DecayRate > 1 {
		return &core.ConfigError{Option: "epsilonDecayRate", Reason: "must be in (0,1]"}
	}
	return nil
}

// EpsilonGreedy explores a uniformly random legal action with probability
// epsilon and is greedy otherwise.
type EpsilonGreedy struct {
	cfg      EpsilonGreedyConfig
	epsilon  float64
	episodes int
	rand     *rand.Rand
}

var _ Selector = &EpsilonGreedy{}

func NewEpsilonGreedy(cfg EpsilonGreedyConfig) (*EpsilonGreedy, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &EpsilonGreedy{
		cfg:     cfg,
		epsilon: cfg.EpsilonInitial,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (e *EpsilonGreedy) Select(scores core.ScoreVector, legal []int, forceGreedy bool) (int, error) {
	if len(legal) == 0 {
		return -1, core.ErrEmptyActionSet
	}
	if !forceGreedy && e.rand.Float64() < e.epsilon {
		return legal[e.rand.Intn(len(legal))], nil
	}
	return argmax(scores, legal)
}

// Decay advances the epsilon schedule by one episode. The floor is sticky:
// once epsilon reaches EpsilonMin further calls leave it unchanged.
func (e *EpsilonGreedy) Decay() {
	e.episodes++
	if e.epsilon <= e.cfg.EpsilonMin {
		return
	}
	if e.cfg.DecayByEpisode {
		e.epsilon = e.cfg.EpsilonInitial / float64(e.episodes)
	} else {
		e.epsilon *= e.cfg.DecayRate
	}
	if e.epsilon < e.cfg.EpsilonMin {
		e.epsilon = e.cfg.EpsilonMin
	}
}

// Epsilon returns the current exploration probability.
func (e *EpsilonGreedy) Epsilon() float64 {
	return e.epsilon
}
