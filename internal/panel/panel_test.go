package panel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/rmtclean/internal/linalg"
	"github.com/quantfolio/rmtclean/internal/randsrc"
)

func TestGenerateShape(t *testing.T) {
	obs, err := Generate(143, 50, 3, 0.6, randsrc.New(42))
	require.NoError(t, err)
	assert.Equal(t, 143, obs.Rows)
	assert.Equal(t, 50, obs.Cols)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(60, 10, 3, 0.6, randsrc.New(42))
	require.NoError(t, err)
	b, err := Generate(60, 10, 3, 0.6, randsrc.New(42))
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)

	c, err := Generate(60, 10, 3, 0.6, randsrc.New(43))
	require.NoError(t, err)
	assert.NotEqual(t, a.Data, c.Data)
}

func TestGenerateRejectsBadShapes(t *testing.T) {
	src := randsrc.New(1)

	_, err := Generate(1, 10, 3, 0.6, src)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = Generate(10, 0, 3, 0.6, src)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = Generate(10, 5, -1, 0.6, src)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestFactorStructureRaisesComovement(t *testing.T) {
	withFactors, err := Generate(200, 20, 3, 0.6, randsrc.New(7))
	require.NoError(t, err)
	pureNoise, err := Generate(200, 20, 0, 0.6, randsrc.New(7))
	require.NoError(t, err)

	cf, err := Correlation(withFactors)
	require.NoError(t, err)
	cn, err := Correlation(pureNoise)
	require.NoError(t, err)

	assert.Greater(t, meanAbsOffDiag(cf), meanAbsOffDiag(cn),
		"common factors should raise average pairwise correlation")
}

func meanAbsOffDiag(c *linalg.Matrix) float64 {
	n := c.Rows
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				sum += math.Abs(c.At(i, j))
			}
		}
	}

	return sum / float64(n*(n-1))
}
