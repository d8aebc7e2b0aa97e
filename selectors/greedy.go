package selectors

import "github.com/ekarna/policyrl/core"

// Greedy always takes the highest-scoring legal action. Ties go to the
// lowest action id.
type Greedy struct{}

var _ Selector = &Greedy{}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) Select(scores core.ScoreVector, legal []int, _ bool) (int, error) {
	return argmax(scores, legal)
}

func (g *Greedy) Decay() {}
