package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOrderedResults(t *testing.T) {
	base := DefaultConfig()
	base.AssetCount = 15

	ratios := []float64{0.2, 0.4, 0.6}
	results, err := Sweep(context.Background(), base, ratios)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, ratios[i], res.Config.AspectRatio)
		assert.Equal(t, 15, res.SignalCount+res.NoiseCount)
	}
}

func TestSweepPropagatesFailure(t *testing.T) {
	base := DefaultConfig()

	_, err := Sweep(context.Background(), base, []float64{0.3, 1.5})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSweepHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, DefaultConfig(), []float64{0.2, 0.3, 0.4})
	assert.Error(t, err)
}

func TestRatiosGrid(t *testing.T) {
	assert.Nil(t, Ratios(0.1, 0.9, 0))
	assert.Equal(t, []float64{0.1}, Ratios(0.1, 0.9, 1))

	grid := Ratios(0.1, 0.9, 5)
	require.Len(t, grid, 5)
	assert.InDelta(t, 0.1, grid[0], 1e-12)
	assert.InDelta(t, 0.3, grid[1], 1e-12)
	assert.InDelta(t, 0.9, grid[4], 1e-12)
}
