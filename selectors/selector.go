package selectors

import (
	"math"
	"sort"

	"github.com/ekarna/policyrl/core"
)

// Selector converts a vector of per-action scores into a concrete action.
// Scores are indexed by plain action id; legal holds the set of permitted
// ids. Selectors are not safe for concurrent use.
type Selector interface {
	Select(scores core.ScoreVector, legal []int, forceGreedy bool) (int, error)

	// Decay advances the selector's exploration schedule by one step. A
	// no-op for selectors without one.
	Decay()
}

// Recorder is implemented by selectors that track per-episode trajectories.
// The policy facade forwards acted-on states and episode boundaries to it.
type Recorder interface {
	Record(state *core.State)
	EndEpisode()
}

// argmax returns the legal action with the highest score. Legal actions are
// scanned in ascending id order, so ties go to the lowest action id.
func argmax(scores core.ScoreVector, legal []int) (int, error) {
	if len(legal) == 0 {
		return -1, core.ErrEmptyActionSet
	}
	sorted := sortedInts(legal)
	action := -1
	maxVal := math.Inf(-1)
	for _, a := range sorted {
		if action == -1 || scores[a] > maxVal {
			action = a
			maxVal = scores[a]
		}
	}
	return action, nil
}

func sortedInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}
