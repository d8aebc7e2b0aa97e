package estimators

import (
	"fmt"

	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/util"
)

type TabularConfig struct {
	// NumActions is the size of the action space.
	NumActions int
	// StateActionValue adds the leading state-value slot to every row.
	StateActionValue bool
	// LearningRate scales how far rows move toward submitted targets.
	LearningRate float64
	// MergeTau is the interpolation factor of a soft merge.
	MergeTau float64
	// BufferSize bounds the experience buffer; older states are dropped.
	BufferSize int
}

func DefaultTabularConfig(numActions int) TabularConfig {
	return TabularConfig{
		NumActions:   numActions,
		LearningRate: 0.1,
		MergeTau:     0.1,
		BufferSize:   10000,
	}
}

func (c TabularConfig) validate() error {
	if c.NumActions < 1 {
		return &core.ConfigError{Option: "numActions", Reason: "must be at least 1"}
	}
	if c.LearningRate <= 0 {
		return &core.ConfigError{Option: "learningRate", Reason: "must be positive"}
	}
	if c.MergeTau <= 0 || c.MergeTau > 1 {
		return &core.ConfigError{Option: "mergeTau", Reason: "must be in (0,1]"}
	}
	if c.BufferSize < 1 {
		return &core.ConfigError{Option: "bufferSize", Reason: "must be at least 1"}
	}
	return nil
}

// Tabular is a hash-keyed table estimator: one score row per distinct
// feature vector, initialized uniform over actions. Rows move toward
// submitted gradient targets in the ascent direction at a fixed learning
// rate. It backs tests and the demo trainer.
type Tabular struct {
	cfg    TabularConfig
	rows   map[string]core.ScoreVector
	buffer []*core.State
}

var _ core.Estimator = &Tabular{}

func NewTabular(cfg TabularConfig) (*Tabular, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tabular{
		cfg:  cfg,
		rows: make(map[string]core.ScoreVector),
	}, nil
}

func (t *Tabular) NumActions() int {
	return t.cfg.NumActions
}

func (t *Tabular) IsStateActionValue() bool {
	return t.cfg.StateActionValue
}

func (t *Tabular) width() int {
	if t.cfg.StateActionValue {
		return t.cfg.NumActions + 1
	}
	return t.cfg.NumActions
}

func (t *Tabular) offset() int {
	if t.cfg.StateActionValue {
		return 1
	}
	return 0
}

func (t *Tabular) row(features []float64) core.ScoreVector {
	key := util.HashFloats(features)
	if row, ok := t.rows[key]; ok {
		return row
	}
	row := make(core.ScoreVector, t.width())
	uniform := 1.0 / float64(t.cfg.NumActions)
	for a := 0; a < t.cfg.NumActions; a++ {
		row[a+t.offset()] = uniform
	}
	t.rows[key] = row
	return row
}

// Predict returns a fresh copy of the row for the feature vector; callers
// may not mutate table state through it.
func (t *Tabular) Predict(features []float64) (core.ScoreVector, error) {
	return core.ScoreVector(util.CopyFloats(t.row(features))), nil
}

// Train applies the whole batch of targets. Targets are validated up front
// so a malformed batch leaves the table untouched.
func (t *Tabular) Train(batch []core.Target) error {
	for _, target := range batch {
		if len(target.Values) != t.width() {
			return fmt.Errorf("target width %d, want %d", len(target.Values), t.width())
		}
	}
	for _, target := range batch {
		row := t.row(target.Transition.State.Features)
		for i, v := range target.Values {
			row[i] += t.cfg.LearningRate * v
		}
	}
	return nil
}

// Copy returns a deep, independent copy with an empty experience buffer.
func (t *Tabular) Copy() (core.Estimator, error) {
	cp := &Tabular{
		cfg:  t.cfg,
		rows: make(map[string]core.ScoreVector, len(t.rows)),
	}
	for k, row := range t.rows {
		cp.rows[k] = core.ScoreVector(util.CopyFloats(row))
	}
	return cp, nil
}

// Merge pulls rows from other. A hard merge replaces the table wholesale; a
// soft merge interpolates each row toward other's by MergeTau.
func (t *Tabular) Merge(other core.Estimator, hard bool) error {
	if u, ok := other.(interface{ Unwrap() core.Estimator }); ok {
		other = u.Unwrap()
	}
	src, ok := other.(*Tabular)
	if !ok {
		return fmt.Errorf("merge: incompatible estimator %T", other)
	}
	if src.width() != t.width() {
		return fmt.Errorf("merge: row width %d, want %d", src.width(), t.width())
	}
	if hard {
		t.rows = make(map[string]core.ScoreVector, len(src.rows))
		for k, row := range src.rows {
			t.rows[k] = core.ScoreVector(util.CopyFloats(row))
		}
		return nil
	}
	tau := t.cfg.MergeTau
	for k, srcRow := range src.rows {
		row, ok := t.rows[k]
		if !ok {
			t.rows[k] = core.ScoreVector(util.CopyFloats(srcRow))
			continue
		}
		for i := range row {
			row[i] = (1-tau)*row[i] + tau*srcRow[i]
		}
	}
	return nil
}

// Add appends the state to the bounded experience buffer.
func (t *Tabular) Add(state *core.State) {
	t.buffer = append(t.buffer, state)
	if len(t.buffer) > t.cfg.BufferSize {
		t.buffer = t.buffer[len(t.buffer)-t.cfg.BufferSize:]
	}
}

// Buffered returns a snapshot of the experience buffer.
func (t *Tabular) Buffered() []*core.State {
	out := make([]*core.State, len(t.buffer))
	copy(out, t.buffer)
	return out
}

// ClearBuffer drops all buffered states.
func (t *Tabular) ClearBuffer() {
	t.buffer = nil
}

// States returns the number of distinct feature vectors seen so far.
func (t *Tabular) States() int {
	return len(t.rows)
}
