// Package portfolio computes minimum-variance weights and portfolio
// risk figures against a given covariance or correlation matrix.
package portfolio

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/quantfolio/rmtclean/internal/linalg"
)

// DefaultSteps is the projected-gradient iteration budget.
const DefaultSteps = 50

// sumFloor is the smallest absolute weight sum the renormalization will
// divide by before resetting to uniform.
const sumFloor = 1e-12

// MinVariance approximates the minimum-variance weights for matrix c
// under the single constraint that weights sum to 1; signs are free.
//
// The scheme is deliberately a plain projected-gradient descent rather
// than an exact solve: uniform start, gradient 2·C·w - 2·(wᵀCw)·1,
// learning rate 0.3/(1+0.1·step), renormalize after every step. For
// well-conditioned matrices it lands close to C⁻¹1/(1ᵀC⁻¹1); for
// near-singular ones it shows what a standard optimizer actually does.
func MinVariance(c *linalg.Matrix, steps int) ([]float64, error) {
	if !c.IsSquare() || c.Rows < 1 {
		return nil, fmt.Errorf("%w: optimizing against %dx%d matrix", linalg.ErrShape, c.Rows, c.Cols)
	}
	if steps < 1 {
		steps = DefaultSteps
	}

	n := c.Rows
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}

	for step := 0; step < steps; step++ {
		cw, err := c.MulVec(w)
		if err != nil {
			return nil, err
		}
		variance := linalg.Dot(w, cw)

		lr := 0.3 / (1 + 0.1*float64(step))
		for i := range w {
			w[i] -= lr * (2*cw[i] - 2*variance)
		}

		var sum float64
		for _, v := range w {
			sum += v
		}
		if math.Abs(sum) < sumFloor {
			log.Warn().Int("assets", n).Int("step", step).Msg("weight sum collapsed, resetting to uniform")
			for i := range w {
				w[i] = 1 / float64(n)
			}
			continue
		}
		for i := range w {
			w[i] /= sum
		}
	}

	return w, nil
}

// Herfindahl returns the concentration index sum of squared weights; its
// inverse is the effective number of positions.
func Herfindahl(w []float64) float64 {
	var s float64
	for _, v := range w {
		s += v * v
	}

	return s
}
