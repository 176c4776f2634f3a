package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/rmtclean/internal/linalg"
)

func TestVolatilityKnownValues(t *testing.T) {
	// Uniform weights on the identity: variance 1/n.
	vol, err := Volatility([]float64{0.5, 0.5}, linalg.Identity(2))
	require.NoError(t, err)
	assert.InDelta(t, 0.7071067811865476, vol, 1e-12)

	vol, err = Volatility([]float64{0.8, 0.2}, diag(1, 4))
	require.NoError(t, err)
	// w'Cw = 0.64 + 4*0.04 = 0.8
	assert.InDelta(t, 0.8944271909999159, vol, 1e-12)
}

func TestVolatilityClampsNegativeQuadForm(t *testing.T) {
	// An indefinite matrix can push the quadratic form negative; the
	// evaluator must clamp to zero instead of returning NaN.
	m := diag(-1, -1)

	vol, err := Volatility([]float64{0.5, 0.5}, m)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol)
}

func TestVolatilityRejectsDimensionMismatch(t *testing.T) {
	_, err := Volatility([]float64{1, 0, 0}, linalg.Identity(2))
	assert.ErrorIs(t, err, linalg.ErrShape)
}
