package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/rmtclean/internal/linalg"
	"github.com/quantfolio/rmtclean/internal/panel"
	"github.com/quantfolio/rmtclean/internal/randsrc"
)

func TestCleanSampleCorrelation(t *testing.T) {
	obs, err := panel.Generate(143, 50, 3, 0.6, randsrc.New(42))
	require.NoError(t, err)
	corr, err := panel.Correlation(obs)
	require.NoError(t, err)

	res, err := Clean(corr, 0.35, DefaultIterations)
	require.NoError(t, err)

	assert.Equal(t, 50, res.SignalCount+res.NoiseCount)
	assert.Greater(t, res.SignalCount, 0, "three true factors should survive cleaning")
	assert.Less(t, res.SignalCount, 10, "signal count should stay single-digit")

	n := res.Matrix.Rows
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, res.Matrix.At(i, i), "diagonal pinned at exactly 1")
		for j := 0; j < n; j++ {
			assert.InDelta(t, res.Matrix.At(j, i), res.Matrix.At(i, j), 1e-9, "symmetry at (%d,%d)", i, j)
		}
	}
}

func TestCleanIdentityIsAllNoise(t *testing.T) {
	res, err := Clean(linalg.Identity(5), 0.35, DefaultIterations)
	require.NoError(t, err)

	assert.Equal(t, 0, res.SignalCount)
	assert.Equal(t, 5, res.NoiseCount)
	assert.InDelta(t, 1.0, res.AvgNoise, 1e-9)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if i != j {
				assert.InDelta(t, 0.0, res.Matrix.At(i, j), 1e-9, "off-diagonal (%d,%d)", i, j)
			}
		}
	}
}

func TestCleanPreservesStrongFactor(t *testing.T) {
	// Equicorrelation with rho=0.6: one eigenvalue 1+(n-1)rho = 6.4,
	// the rest 1-rho = 0.4. Only the first clears the MP edge.
	n := 10
	m := linalg.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				m.Set(i, j, 1)
			} else {
				m.Set(i, j, 0.6)
			}
		}
	}

	res, err := Clean(m, 0.35, 200)
	require.NoError(t, err)

	assert.Equal(t, 1, res.SignalCount)
	assert.Equal(t, 9, res.NoiseCount)
	assert.InDelta(t, 0.4, res.AvgNoise, 1e-3)
}

func TestCleanSpectrumEmptyNoiseDefaultsToOne(t *testing.T) {
	pairs := []EigenPair{
		{Value: 5, Vector: []float64{1, 0}},
		{Value: 6, Vector: []float64{0, 1}},
	}

	res, err := CleanSpectrum(pairs, 0.35)
	require.NoError(t, err)

	assert.Equal(t, 2, res.SignalCount)
	assert.Equal(t, 0, res.NoiseCount)
	assert.Equal(t, 1.0, res.AvgNoise)
	assert.Equal(t, 1.0, res.Matrix.At(0, 0))
	assert.Equal(t, 0.0, res.Matrix.At(0, 1))
}

func TestCleanSpectrumRejectsEmptySpectrum(t *testing.T) {
	_, err := CleanSpectrum(nil, 0.35)
	assert.ErrorIs(t, err, linalg.ErrShape)
}

func TestCleanedMatrixStaysInCorrelationRange(t *testing.T) {
	obs, err := panel.Generate(70, 30, 3, 0.6, randsrc.New(5))
	require.NoError(t, err)
	corr, err := panel.Correlation(obs)
	require.NoError(t, err)

	res, err := Clean(corr, 30.0/70.0, DefaultIterations)
	require.NoError(t, err)

	for i := 0; i < res.Matrix.Rows; i++ {
		for j := 0; j < res.Matrix.Cols; j++ {
			assert.False(t, math.IsNaN(res.Matrix.At(i, j)), "NaN at (%d,%d)", i, j)
			assert.LessOrEqual(t, math.Abs(res.Matrix.At(i, j)), 1.1, "entry (%d,%d) outside plausible range", i, j)
		}
	}
}
