package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReturnTrackerSummary(t *testing.T) {
	tracker := NewReturnTracker()
	for _, r := range []float64{1, 2, 3, 4} {
		tracker.Observe(r)
	}

	s := tracker.Summary()
	require.Equal(t, 4, s.Episodes)
	require.InDelta(t, 2.5, s.Mean, 1e-12)
	require.Equal(t, 4.0, s.Best)
	require.Equal(t, 1.0, s.Worst)
	require.Greater(t, s.StdDev, 0.0)
}

func TestReturnTrackerEmpty(t *testing.T) {
	tracker := NewReturnTracker()
	s := tracker.Summary()
	require.Zero(t, s.Episodes)
	require.Zero(t, s.Mean)
}

func TestReturnTrackerReset(t *testing.T) {
	tracker := NewReturnTracker()
	tracker.Observe(1)
	tracker.Reset()
	require.Empty(t, tracker.Returns())
}
