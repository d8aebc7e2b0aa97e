package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ReturnTracker accumulates per-episode returns and summarizes them.
type ReturnTracker struct {
	returns []float64
}

func NewReturnTracker() *ReturnTracker {
	return &ReturnTracker{
		returns: make([]float64, 0),
	}
}

func (r *ReturnTracker) Observe(episodeReturn float64) {
	r.returns = append(r.returns, episodeReturn)
}

func (r *ReturnTracker) Returns() []float64 {
	out := make([]float64, len(r.returns))
	copy(out, r.returns)
	return out
}

func (r *ReturnTracker) Reset() {
	r.returns = r.returns[:0]
}

type Summary struct {
	Episodes int
	Mean     float64
	StdDev   float64
	Best     float64
	Worst    float64
}

// Summary reports aggregate statistics over all observed returns.
func (r *ReturnTracker) Summary() Summary {
	if len(r.returns) == 0 {
		return Summary{}
	}
	s := Summary{
		Episodes: len(r.returns),
		Mean:     stat.Mean(r.returns, nil),
		Best:     math.Inf(-1),
		Worst:    math.Inf(1),
	}
	if len(r.returns) > 1 {
		s.StdDev = stat.StdDev(r.returns, nil)
	}
	for _, v := range r.returns {
		if v > s.Best {
			s.Best = v
		}
		if v < s.Worst {
			s.Worst = v
		}
	}
	return s
}
