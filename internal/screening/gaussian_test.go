package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(1)
	require.Len(t, k, 9, "radius is 4 sigma")
	assert.InDelta(t, 1.0, floats.Sum(k), 1e-12, "kernel is normalized")
	for i := 0; i < len(k)/2; i++ {
		assert.Equal(t, k[i], k[len(k)-1-i], "kernel is symmetric")
	}
	assert.Greater(t, k[4], k[3])

	assert.Nil(t, gaussianKernel(0))
	assert.Nil(t, gaussianKernel(-1))
	assert.Nil(t, gaussianKernel(0.1), "radius rounds to zero")
}

func TestReflect(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0}, {3, 3},
		{-1, 0}, {-2, 1}, {-4, 3},
		{4, 3}, {5, 2}, {7, 0},
		{8, 0}, {19, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, reflect(tc.in, 4), "reflect(%d, 4)", tc.in)
	}
	assert.Equal(t, 0, reflect(5, 1))
}

func TestGaussianFilterPreservesMass(t *testing.T) {
	field := make([][]float64, 6)
	for i := range field {
		field[i] = make([]float64, 8)
	}
	field[3][4] = 1.0

	gaussianFilter(field, 1, 1)

	var total float64
	for _, row := range field {
		total += floats.Sum(row)
	}
	// Reflected boundaries fold the kernel tails back in, so the impulse
	// mass is conserved.
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.Less(t, field[3][4], 1.0)
	assert.Greater(t, field[3][4], field[3][5])
	assert.Greater(t, field[3][5], field[3][6])
}

func TestGaussianFilterAxesAreIndependent(t *testing.T) {
	field := [][]float64{
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0},
	}
	// No row smoothing: every row sees the same column pass, so the rows
	// stay identical.
	gaussianFilter(field, 0, 1)
	assert.Equal(t, field[0], field[1])
	assert.Equal(t, field[1], field[2])
	assert.Greater(t, field[0][2], field[0][1])
	assert.NotZero(t, field[0][1])
}

func TestGaussianFilterEmptyField(t *testing.T) {
	assert.NotPanics(t, func() {
		gaussianFilter(nil, 1, 1)
		gaussianFilter([][]float64{}, 1, 1)
	})
}
