package selectors

import (
	"time"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ekarna/policyrl/core"
)

// WeightedRandom multiplies each legal action's score by an independent
// standard-Gaussian draw and takes the arg-max of the products. Despite the
// name this is a stochastic tie-break over scores, not sampling
// proportional to them; the behavior is kept as-is for compatibility.
type WeightedRandom struct {
	std distuv.Normal
}

var _ Selector = &WeightedRandom{}

func NewWeightedRandom() *WeightedRandom {
	return &WeightedRandom{
		std: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   erand.NewSource(uint64(time.Now().UnixNano())),
		},
	}
}

func (w *WeightedRandom) Select(scores core.ScoreVector, legal []int, forceGreedy bool) (int, error) {
	if len(legal) == 0 {
		return -1, core.ErrEmptyActionSet
	}
	if forceGreedy {
		return argmax(scores, legal)
	}
	noised := make(core.ScoreVector, len(scores))
	for _, a := range legal {
		noised[a] = scores[a] * w.std.Rand()
	}
	return argmax(noised, legal)
}

func (w *WeightedRandom) Decay() {}
