package linalg

import "math"

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// Normalize scales v in place to unit norm and reports whether it was
// possible; a zero vector is left untouched.
func Normalize(v []float64) bool {
	n := Norm(v)
	if n == 0 {
		return false
	}

	inv := 1 / n
	for i := range v {
		v[i] *= inv
	}

	return true
}

// QuadForm returns wᵀ·C·w. C must be square with dimension len(w).
func QuadForm(w []float64, c *Matrix) (float64, error) {
	cw, err := c.MulVec(w)
	if err != nil {
		return 0, err
	}

	return Dot(w, cw), nil
}
