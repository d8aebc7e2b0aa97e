package estimators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekarna/policyrl/core"
)

func target(features []float64, values core.ScoreVector) core.Target {
	state := core.NewState(features, []int{0, 1})
	return core.Target{
		Transition: &core.Transition{State: state},
		Values:     values,
	}
}

func TestTabularPredictUniformInit(t *testing.T) {
	tab, err := NewTabular(DefaultTabularConfig(4))
	require.NoError(t, err)

	scores, err := tab.Predict([]float64{1, 2})
	require.NoError(t, err)
	require.Equal(t, core.ScoreVector{0.25, 0.25, 0.25, 0.25}, scores)
}

func TestTabularStateActionValueWidth(t *testing.T) {
	cfg := DefaultTabularConfig(3)
	cfg.StateActionValue = true
	tab, err := NewTabular(cfg)
	require.NoError(t, err)
	require.True(t, tab.IsStateActionValue())

	scores, err := tab.Predict([]float64{1})
	require.NoError(t, err)
	require.Len(t, scores, 4)
	require.Zero(t, scores[0])
}

func TestTabularTrainMovesRow(t *testing.T) {
	tab, err := NewTabular(DefaultTabularConfig(2))
	require.NoError(t, err)

	features := []float64{1, 2}
	err = tab.Train([]core.Target{target(features, core.ScoreVector{1, 0})})
	require.NoError(t, err)

	scores, err := tab.Predict(features)
	require.NoError(t, err)
	require.InDelta(t, 0.6, scores[0], 1e-12)
	require.InDelta(t, 0.5, scores[1], 1e-12)
}

func TestTabularTrainRejectsMalformedBatch(t *testing.T) {
	tab, err := NewTabular(DefaultTabularConfig(2))
	require.NoError(t, err)

	features := []float64{1, 2}
	err = tab.Train([]core.Target{
		target(features, core.ScoreVector{1, 0}),
		target(features, core.ScoreVector{1, 0, 0}),
	})
	require.Error(t, err)

	// Nothing from the batch may be applied.
	scores, err := tab.Predict(features)
	require.NoError(t, err)
	require.Equal(t, core.ScoreVector{0.5, 0.5}, scores)
}

func TestTabularCopyIndependence(t *testing.T) {
	tab, err := NewTabular(DefaultTabularConfig(2))
	require.NoError(t, err)

	features := []float64{1, 2}
	_, err = tab.Predict(features)
	require.NoError(t, err)

	cp, err := tab.Copy()
	require.NoError(t, err)

	err = tab.Train([]core.Target{target(features, core.ScoreVector{1, 0})})
	require.NoError(t, err)

	scores, err := cp.Predict(features)
	require.NoError(t, err)
	require.Equal(t, core.ScoreVector{0.5, 0.5}, scores)
}

func TestTabularHardMerge(t *testing.T) {
	a, err := NewTabular(DefaultTabularConfig(2))
	require.NoError(t, err)
	b, err := NewTabular(DefaultTabularConfig(2))
	require.NoError(t, err)

	features := []float64{1}
	err = b.Train([]core.Target{target(features, core.ScoreVector{1, 0})})
	require.NoError(t, err)

	require.NoError(t, a.Merge(b, true))
	aScores, err := a.Predict(features)
	require.NoError(t, err)
	bScores, err := b.Predict(features)
	require.NoError(t, err)
	require.Equal(t, bScores, aScores)
}

func TestTabularSoftMerge(t *testing.T) {
	cfg := DefaultTabularConfig(2)
	cfg.MergeTau = 0.5
	a, err := NewTabular(cfg)
	require.NoError(t, err)
	b, err := NewTabular(cfg)
	require.NoError(t, err)

	features := []float64{1}
	_, err = a.Predict(features) // seed the uniform row
	require.NoError(t, err)
	err = b.Train([]core.Target{target(features, core.ScoreVector{1, 0})})
	require.NoError(t, err)

	require.NoError(t, a.Merge(b, false))
	scores, err := a.Predict(features)
	require.NoError(t, err)
	// halfway between 0.5 and 0.6
	require.InDelta(t, 0.55, scores[0], 1e-12)
	require.InDelta(t, 0.5, scores[1], 1e-12)
}

func TestTabularMergeRejectsForeignEstimator(t *testing.T) {
	tab, err := NewTabular(DefaultTabularConfig(2))
	require.NoError(t, err)
	require.Error(t, tab.Merge(nil, true))
}

func TestTabularBufferIsBounded(t *testing.T) {
	cfg := DefaultTabularConfig(2)
	cfg.BufferSize = 3
	tab, err := NewTabular(cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		tab.Add(core.NewState([]float64{float64(i)}, []int{0, 1}))
	}
	buffered := tab.Buffered()
	require.Len(t, buffered, 3)
	require.Equal(t, []float64{2}, buffered[0].Features)

	tab.ClearBuffer()
	require.Empty(t, tab.Buffered())
}

func TestTabularConfigValidation(t *testing.T) {
	_, err := NewTabular(TabularConfig{NumActions: 0, LearningRate: 0.1, MergeTau: 0.1, BufferSize: 1})
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewTabular(TabularConfig{NumActions: 2, LearningRate: 0, MergeTau: 0.1, BufferSize: 1})
	require.ErrorAs(t, err, &cfgErr)
}
