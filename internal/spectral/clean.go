package spectral

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/quantfolio/rmtclean/internal/linalg"
)

// diagFloor guards the unit-diagonal rescale against a reconstructed
// diagonal entry collapsing to zero.
const diagFloor = 1e-12

// CleaningResult is a denoised correlation matrix together with the
// signal/noise split of its spectrum.
type CleaningResult struct {
	Matrix      *linalg.Matrix
	SignalCount int
	NoiseCount  int
	AvgNoise    float64
}

// Clean decomposes a symmetric correlation matrix and rebuilds it with
// the clip-and-average rule for aspect ratio q. See CleanSpectrum for
// the reconstruction contract.
func Clean(m *linalg.Matrix, q float64, iterations int) (*CleaningResult, error) {
	pairs, err := Decompose(m, iterations)
	if err != nil {
		return nil, err
	}

	return CleanSpectrum(pairs, q)
}

// CleanSpectrum rebuilds a correlation matrix from an already extracted
// spectrum. Eigenvalues at or below the MP upper edge are replaced by
// their common average (1 when the noise partition is empty, preserving
// unit trace density), signal eigenvalues are kept as-is, and the
// accumulated reconstruction is rescaled back to unit diagonal.
func CleanSpectrum(pairs []EigenPair, q float64) (*CleaningResult, error) {
	n := len(pairs)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty spectrum", linalg.ErrShape)
	}

	thr := Thresholds(q)

	var noiseSum float64
	noiseCount := 0
	for _, p := range pairs {
		if !thr.IsSignal(p.Value) {
			noiseSum += p.Value
			noiseCount++
		}
	}

	avgNoise := 1.0
	if noiseCount > 0 {
		avgNoise = noiseSum / float64(noiseCount)
	} else {
		log.Warn().
			Int("assets", n).
			Float64("q", q).
			Msg("empty noise partition, averaging defaults to 1")
	}

	out := linalg.NewMatrix(n, n)
	for _, p := range pairs {
		value := p.Value
		if !thr.IsSignal(value) {
			value = avgNoise
		}
		if err := out.AddOuter(value, p.Vector); err != nil {
			return nil, err
		}
	}

	// Rescale to a true correlation matrix: divide entry (i,j) by
	// sqrt(diag_i·diag_j) and pin the diagonal at exactly 1.
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		d := out.At(i, i)
		if d < diagFloor {
			d = diagFloor
		}
		diag[i] = math.Sqrt(d)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				out.Set(i, j, 1)
				continue
			}
			out.Set(i, j, out.At(i, j)/(diag[i]*diag[j]))
		}
	}

	return &CleaningResult{
		Matrix:      out,
		SignalCount: n - noiseCount,
		NoiseCount:  noiseCount,
		AvgNoise:    avgNoise,
	}, nil
}
