// Package linalg holds the small dense-matrix kernel shared by the
// estimation, spectral, and portfolio packages. Matrices are row-major
// value containers; all operations allocate fresh results unless the
// method name says otherwise.
package linalg

import (
	"errors"
	"fmt"
)

// ErrShape reports a dimension mismatch between operands.
var ErrShape = errors.New("linalg: shape mismatch")

// Matrix is a dense row-major matrix.
type Matrix struct {
	Rows int
	Cols int
	Data []float64 // len == Rows*Cols, Data[i*Cols+j] is entry (i,j)
}

// NewMatrix returns a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}

	return m
}

// At returns entry (i,j).
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns entry (i,j).
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// IsSquare reports whether the matrix is square.
func (m *Matrix) IsSquare() bool {
	return m.Rows == m.Cols
}

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]float64, len(m.Data))}
	copy(out.Data, m.Data)

	return out
}

// Trace returns the sum of diagonal entries of a square matrix.
func (m *Matrix) Trace() (float64, error) {
	if !m.IsSquare() {
		return 0, fmt.Errorf("%w: trace of %dx%d matrix", ErrShape, m.Rows, m.Cols)
	}

	var tr float64
	for i := 0; i < m.Rows; i++ {
		tr += m.Data[i*m.Cols+i]
	}

	return tr, nil
}

// MulVec returns m·v for a vector of length m.Cols.
func (m *Matrix) MulVec(v []float64) ([]float64, error) {
	if len(v) != m.Cols {
		return nil, fmt.Errorf("%w: %dx%d matrix times length-%d vector", ErrShape, m.Rows, m.Cols, len(v))
	}

	out := make([]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		row := m.Data[i*m.Cols : (i+1)*m.Cols]
		var s float64
		for j, rv := range row {
			s += rv * v[j]
		}
		out[i] = s
	}

	return out, nil
}

// SubOuter subtracts scale·v·vᵀ from m in place. Used for rank-one
// deflation of square matrices.
func (m *Matrix) SubOuter(scale float64, v []float64) error {
	if !m.IsSquare() || len(v) != m.Rows {
		return fmt.Errorf("%w: deflating %dx%d matrix with length-%d vector", ErrShape, m.Rows, m.Cols, len(v))
	}

	n := m.Rows
	for i := 0; i < n; i++ {
		si := scale * v[i]
		row := m.Data[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			row[j] -= si * v[j]
		}
	}

	return nil
}

// AddOuter accumulates scale·v·vᵀ into m in place.
func (m *Matrix) AddOuter(scale float64, v []float64) error {
	if !m.IsSquare() || len(v) != m.Rows {
		return fmt.Errorf("%w: accumulating %dx%d matrix with length-%d vector", ErrShape, m.Rows, m.Cols, len(v))
	}

	n := m.Rows
	for i := 0; i < n; i++ {
		si := scale * v[i]
		row := m.Data[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			row[j] += si * v[j]
		}
	}

	return nil
}
