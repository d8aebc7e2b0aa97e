package estimators

import (
	"sync"

	"github.com/ekarna/policyrl/core"
)

// Shared coordinates several agents training one estimator. Each agent
// holds its own Handle; a handle's Train call stages the batch and the
// wrapped estimator is trained once per cycle, when every registered agent
// has contributed. Predict and Add are serialized across handles.
type Shared struct {
	mtx     sync.Mutex
	inner   core.Estimator
	barrier *core.Barrier
	staged  []core.Target
}

func NewShared(inner core.Estimator) *Shared {
	return &Shared{
		inner:   inner,
		barrier: core.NewBarrier(),
	}
}

// Handle registers one agent and returns its view of the shared estimator.
func (s *Shared) Handle() core.Estimator {
	return &sharedHandle{
		shared: s,
		id:     s.barrier.Register(),
	}
}

// Agents returns the number of registered handles.
func (s *Shared) Agents() int {
	return s.barrier.Registered()
}

type sharedHandle struct {
	shared *Shared
	id     int
}

var _ core.Estimator = &sharedHandle{}

func (h *sharedHandle) NumActions() int {
	return h.shared.inner.NumActions()
}

func (h *sharedHandle) IsStateActionValue() bool {
	return h.shared.inner.IsStateActionValue()
}

func (h *sharedHandle) Predict(features []float64) (core.ScoreVector, error) {
	h.shared.mtx.Lock()
	defer h.shared.mtx.Unlock()
	return h.shared.inner.Predict(features)
}

// Train stages the batch and signals the barrier. Only the call that
// completes the cycle flushes all staged targets into the wrapped
// estimator in one training call. The mutex is held across the flush so
// no other handle can observe a half-trained estimator.
func (h *sharedHandle) Train(batch []core.Target) error {
	s := h.shared
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.staged = append(s.staged, batch...)
	if !s.barrier.Ready(h.id) {
		return nil
	}
	all := s.staged
	s.staged = nil
	return s.inner.Train(all)
}

func (h *sharedHandle) Copy() (core.Estimator, error) {
	h.shared.mtx.Lock()
	defer h.shared.mtx.Unlock()
	return h.shared.inner.Copy()
}

func (h *sharedHandle) Merge(other core.Estimator, hard bool) error {
	h.shared.mtx.Lock()
	defer h.shared.mtx.Unlock()
	return h.shared.inner.Merge(other, hard)
}

// Unwrap exposes the wrapped estimator so concrete implementations can
// merge parameters across handles.
func (h *sharedHandle) Unwrap() core.Estimator {
	return h.shared.inner
}

func (h *sharedHandle) Add(state *core.State) {
	h.shared.mtx.Lock()
	defer h.shared.mtx.Unlock()
	h.shared.inner.Add(state)
}
