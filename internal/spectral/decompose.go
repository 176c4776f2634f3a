// Package spectral implements the eigenvalue machinery of the engine:
// an iterative power-method eigendecomposition, the Marchenko-Pastur
// noise model, and the clip-and-average correlation cleaner built on
// both.
package spectral

import (
	"fmt"
	"sort"

	"github.com/quantfolio/rmtclean/internal/linalg"
	"github.com/quantfolio/rmtclean/internal/randsrc"
)

// DefaultIterations is the per-eigenpair power-iteration budget.
const DefaultIterations = 80

// startVectorSeed seeds the stream that draws power-iteration start
// vectors. Fixed so that decomposition is a pure function of its input.
const startVectorSeed = 0x9E3779B9

// residualEps is the iterate norm below which the remaining deflated
// directions are treated as zero eigenvalues.
const residualEps = 1e-10

// EigenPair couples an eigenvalue with its unit-norm eigenvector.
type EigenPair struct {
	Value  float64
	Vector []float64
}

// Decompose extracts all n eigenpairs of a symmetric matrix by power
// iteration with rank-one deflation, sorted ascending by eigenvalue.
//
// Each pair gets at most iterations multiply-and-renormalize steps, with
// the Rayleigh quotient as the eigenvalue estimate. Vectors are unit norm
// at extraction time but only approximately mutually orthogonal under a
// finite budget; downstream consumers need coarse classification and
// reconstruction, not machine-precision spectra.
func Decompose(m *linalg.Matrix, iterations int) ([]EigenPair, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: eigendecomposition of %dx%d matrix", linalg.ErrShape, m.Rows, m.Cols)
	}
	if iterations < 1 {
		iterations = DefaultIterations
	}

	n := m.Rows
	work := m.Clone()
	src := randsrc.New(startVectorSeed)
	pairs := make([]EigenPair, 0, n)

	for k := 0; k < n; k++ {
		v := randomUnit(n, k, src)
		var value float64

		for it := 0; it < iterations; it++ {
			w, err := work.MulVec(v)
			if err != nil {
				return nil, err
			}
			value = linalg.Dot(v, w)

			norm := linalg.Norm(w)
			if norm < residualEps {
				// The deflated matrix has no weight left in this
				// direction; the remaining eigenvalues are zero.
				value = 0
				break
			}

			for i := range v {
				v[i] = w[i] / norm
			}
		}

		if err := work.SubOuter(value, v); err != nil {
			return nil, err
		}
		pairs = append(pairs, EigenPair{Value: value, Vector: v})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Value < pairs[j].Value })

	return pairs, nil
}

// randomUnit draws a unit-norm start vector from the fixed stream,
// falling back to a basis vector if the draw degenerates.
func randomUnit(n, k int, src *randsrc.Source) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 2*src.Float64() - 1
	}
	if !linalg.Normalize(v) {
		v[k%n] = 1
	}

	return v
}
