package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBarrierSingleAgent(t *testing.T) {
	b := NewBarrier()
	id := b.Register()
	require.Equal(t, 1, b.Registered())
	require.True(t, b.Ready(id))
	require.True(t, b.Ready(id))
}

func TestBarrierWaitsForAllAgents(t *testing.T) {
	b := NewBarrier()
	a1 := b.Register()
	a2 := b.Register()
	a3 := b.Register()

	require.False(t, b.Ready(a1))
	require.False(t, b.Ready(a2))
	// Repeated signals from the same agent do not complete the cycle.
	require.False(t, b.Ready(a1))
	require.True(t, b.Ready(a3))
}

func TestBarrierResetsAfterCycle(t *testing.T) {
	b := NewBarrier()
	a1 := b.Register()
	a2 := b.Register()

	require.False(t, b.Ready(a1))
	require.True(t, b.Ready(a2))

	require.False(t, b.Ready(a2))
	require.True(t, b.Ready(a1))
}
