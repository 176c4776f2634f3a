package spectral

import (
	"fmt"
	"math"
)

// MPThresholds holds the Marchenko-Pastur noise band edges for a given
// aspect ratio q = assets/observations.
type MPThresholds struct {
	LambdaMinus float64 `json:"lambda_minus"`
	LambdaPlus  float64 `json:"lambda_plus"`
}

// Thresholds returns the MP edges (1∓√q)². Valid for q in (0,1]; the
// pipeline restricts q strictly below 1 so both edges stay finite and
// the band stays non-degenerate.
func Thresholds(q float64) MPThresholds {
	s := math.Sqrt(q)

	return MPThresholds{
		LambdaMinus: (1 - s) * (1 - s),
		LambdaPlus:  (1 + s) * (1 + s),
	}
}

// IsSignal classifies an eigenvalue: signal iff strictly above the upper
// edge. The lower edge never acts as a cutoff — sample correlation
// matrices are positive semi-definite, so nothing falls below it.
func (t MPThresholds) IsSignal(lambda float64) bool {
	return lambda > t.LambdaPlus
}

// Density evaluates the Marchenko-Pastur eigenvalue density at x for
// aspect ratio q: zero outside (lambda_minus, lambda_plus), otherwise
// sqrt((lambda_plus-x)(x-lambda_minus)) / (2·pi·q·x).
func Density(x, q float64) float64 {
	t := Thresholds(q)
	if x <= t.LambdaMinus || x >= t.LambdaPlus {
		return 0
	}

	return math.Sqrt((t.LambdaPlus-x)*(x-t.LambdaMinus)) / (2 * math.Pi * q * x)
}

// String renders the band for log and CLI output.
func (t MPThresholds) String() string {
	return fmt.Sprintf("[%.4f, %.4f]", t.LambdaMinus, t.LambdaPlus)
}
