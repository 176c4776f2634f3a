package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixShape(t *testing.T) {
	m := NewMatrix(3, 4)
	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 4, m.Cols)
	assert.Len(t, m.Data, 12)
	assert.False(t, m.IsSquare())
}

func TestIdentity(t *testing.T) {
	m := Identity(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.Equal(t, want, m.At(i, j))
		}
	}
}

func TestSetAtRowMajor(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Set(1, 2, 7.5)

	assert.Equal(t, 7.5, m.At(1, 2))
	assert.Equal(t, 7.5, m.Data[1*3+2])
}

func TestCloneIndependence(t *testing.T) {
	m := Identity(2)
	c := m.Clone()
	c.Set(0, 0, 9)

	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 9.0, c.At(0, 0))
}

func TestTrace(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Set(0, 0, 1.5)
	m.Set(1, 1, 2.5)

	tr, err := m.Trace()
	require.NoError(t, err)
	assert.Equal(t, 4.0, tr)

	_, err = NewMatrix(2, 3).Trace()
	assert.ErrorIs(t, err, ErrShape)
}

func TestMulVec(t *testing.T) {
	m := NewMatrix(2, 3)
	copy(m.Data, []float64{1, 2, 3, 4, 5, 6})

	out, err := m.MulVec([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, out)

	_, err = m.MulVec([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShape)
}

func TestSubAddOuter(t *testing.T) {
	m := Identity(2)
	v := []float64{1, 1}

	require.NoError(t, m.SubOuter(0.5, v))
	assert.Equal(t, 0.5, m.At(0, 0))
	assert.Equal(t, -0.5, m.At(0, 1))

	require.NoError(t, m.AddOuter(0.5, v))
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(0, 1))

	assert.ErrorIs(t, m.SubOuter(1, []float64{1}), ErrShape)
	assert.ErrorIs(t, NewMatrix(2, 3).AddOuter(1, v), ErrShape)
}

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, 11.0, Dot([]float64{1, 2}, []float64{3, 4}))
	assert.Equal(t, 5.0, Norm([]float64{3, 4}))

	v := []float64{3, 4}
	require.True(t, Normalize(v))
	assert.InDelta(t, 1.0, Norm(v), 1e-12)

	zero := []float64{0, 0}
	assert.False(t, Normalize(zero))
	assert.Equal(t, []float64{0, 0}, zero)
}

func TestQuadForm(t *testing.T) {
	c := NewMatrix(2, 2)
	copy(c.Data, []float64{1, 0, 0, 4})

	q, err := QuadForm([]float64{0.5, 0.5}, c)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, q, 1e-12)

	_, err = QuadForm([]float64{1}, c)
	assert.ErrorIs(t, err, ErrShape)
}
