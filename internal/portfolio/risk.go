package portfolio

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/quantfolio/rmtclean/internal/linalg"
	"github.com/quantfolio/rmtclean/internal/metrics"
)

// Volatility returns sqrt(wᵀ·C·w). A slightly negative quadratic form —
// possible when C comes out of the approximate eigen-reconstruction and
// is not exactly positive semi-definite — is clamped to zero and logged,
// never surfaced as an error.
func Volatility(w []float64, c *linalg.Matrix) (float64, error) {
	quad, err := linalg.QuadForm(w, c)
	if err != nil {
		return 0, err
	}

	if quad < 0 {
		log.Warn().
			Int("assets", len(w)).
			Float64("quad_form", quad).
			Msg("negative quadratic form clamped to zero")
		metrics.IncRiskClamp()
		quad = 0
	}

	return math.Sqrt(quad), nil
}
