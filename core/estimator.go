package core

// Target couples one transition with the gradient-target vector built for
// it. The vector is sized NumActions plus the leading state-value slot when
// the estimator models a joint state-action value.
type Target struct {
	Transition *Transition
	Values     ScoreVector
}

// Estimator is the trainable function approximator the policy core drives.
// Implementations map state features to per-action scores and consume the
// gradient targets produced by the update engine. Calls may be slow; the
// core never retries them.
type Estimator interface {
	NumActions() int

	// IsStateActionValue reports whether score vectors carry a leading
	// state-value slot ahead of the per-action entries.
	IsStateActionValue() bool

	Predict(features []float64) (ScoreVector, error)

	// Train applies a complete batch of gradient targets. The batch is
	// all-or-nothing: a failed call must leave parameters untouched.
	Train(batch []Target) error

	// Copy returns a deep, independent copy of the estimator.
	Copy() (Estimator, error)

	// Merge pulls parameters from other. A hard merge overwrites them
	// wholesale, a soft merge interpolates toward other.
	Merge(other Estimator, hard bool) error

	// Add feeds a visited state into the estimator's experience buffer.
	Add(state *State)
}
