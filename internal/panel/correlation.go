package panel

import (
	"errors"
	"fmt"
	"math"

	"github.com/quantfolio/rmtclean/internal/linalg"
)

// ErrDegenerateInput reports a zero-variance asset column, for which
// standardization is undefined.
var ErrDegenerateInput = errors.New("panel: degenerate input")

// varianceFloor is the smallest standard deviation treated as non-zero.
const varianceFloor = 1e-12

// Correlation reduces a T×N observation panel to the N×N sample
// correlation matrix using population moments (divide by T). The result
// is symmetric with unit diagonal and entries in [-1,1] up to rounding.
func Correlation(obs *linalg.Matrix) (*linalg.Matrix, error) {
	t, n := obs.Rows, obs.Cols
	if t < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", ErrInvalidShape, t)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least 1 asset, got %d", ErrInvalidShape, n)
	}

	// Standardize each column once, then correlations are plain inner
	// products of the z-scores.
	z := linalg.NewMatrix(t, n)
	for j := 0; j < n; j++ {
		var mean float64
		for i := 0; i < t; i++ {
			mean += obs.At(i, j)
		}
		mean /= float64(t)

		var variance float64
		for i := 0; i < t; i++ {
			d := obs.At(i, j) - mean
			variance += d * d
		}
		variance /= float64(t)

		std := math.Sqrt(variance)
		if std < varianceFloor {
			return nil, fmt.Errorf("%w: asset %d has zero variance over %d observations", ErrDegenerateInput, j, t)
		}

		for i := 0; i < t; i++ {
			z.Set(i, j, (obs.At(i, j)-mean)/std)
		}
	}

	corr := linalg.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var s float64
			for k := 0; k < t; k++ {
				s += z.At(k, i) * z.At(k, j)
			}
			c := s / float64(t)
			corr.Set(i, j, c)
			corr.Set(j, i, c)
		}
	}

	return corr, nil
}
