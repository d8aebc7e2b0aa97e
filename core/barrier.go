package core

import "sync"

// Barrier coordinates agents that share one estimator: the estimator should
// be trained only once every registered agent has contributed its batch,
// not once per agent.
type Barrier struct {
	mtx   sync.Mutex
	total int
	ready map[int]struct{}
}

func NewBarrier() *Barrier {
	return &Barrier{
		ready: make(map[int]struct{}),
	}
}

// Register adds one agent to the barrier and returns its id.
func (b *Barrier) Register() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	id := b.total
	b.total++
	return id
}

// Registered returns the number of registered agents.
func (b *Barrier) Registered() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.total
}

// Ready marks the agent as having contributed. It reports true only for the
// call that completes the cycle; the barrier then resets for the next one.
func (b *Barrier) Ready(id int) bool {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.ready[id] = struct{}{}
	if len(b.ready) < b.total {
		return false
	}
	b.ready = make(map[int]struct{})
	return true
}
