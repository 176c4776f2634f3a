// Package randsrc provides the deterministic random streams used by the
// synthetic data generators. Every stream is fully reproducible from its
// seed, across platforms, so analysis runs can be replayed bit-for-bit.
package randsrc

// Source is a seeded pseudo-uniform stream over [0,1). The state is a
// single 32-bit word advanced by a multiply-xorshift recurrence
// (mulberry32), which keeps the sequence identical on every platform.
// Source is not safe for concurrent use; each pipeline run owns its own.
type Source struct {
	state uint32
}

// New returns a Source seeded with the given value.
func New(seed int64) *Source {
	return &Source{state: uint32(seed)}
}

// Reseed restarts the stream from the given seed.
func (s *Source) Reseed(seed int64) {
	s.state = uint32(seed)
}

// Float64 returns the next pseudo-uniform value in [0,1).
func (s *Source) Float64() float64 {
	s.state += 0x6D2B79F5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)

	return float64(z^(z>>14)) / 4294967296.0
}
