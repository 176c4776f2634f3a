package randsrc

import (
	"errors"
	"fmt"
	"math"
)

// maxPolarAttempts bounds the rejection loop. The per-attempt rejection
// probability is about 21%, so hitting this cap is only possible with a
// degenerate underlying stream.
const maxPolarAttempts = 1024

// ErrSampling reports a uniform stream too degenerate to produce a point
// inside the unit disk.
var ErrSampling = errors.New("randsrc: sampling failed")

// Normal returns one standard-normal draw via the Marsaglia polar method.
// Each attempt consumes two uniforms; attempts outside the unit disk or at
// the origin are rejected and retried.
func (s *Source) Normal() (float64, error) {
	for attempt := 0; attempt < maxPolarAttempts; attempt++ {
		u := 2*s.Float64() - 1
		v := 2*s.Float64() - 1
		r := u*u + v*v
		if r >= 1 || r == 0 {
			continue
		}

		return u * math.Sqrt(-2*math.Log(r)/r), nil
	}

	return 0, fmt.Errorf("%w: no point inside the unit disk after %d attempts", ErrSampling, maxPolarAttempts)
}
