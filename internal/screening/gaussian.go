package screening

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// kernelTruncate bounds the Gaussian kernel at 4 standard deviations.
const kernelTruncate = 4.0

// gaussianFilter smooths the field in place with a separable 2-D Gaussian:
// sigmaRow along the profile (time) axis, sigmaCol along the gate (altitude)
// axis. Boundaries reflect, so edge profiles are not biased toward zero.
func gaussianFilter(field [][]float64, sigmaRow, sigmaCol float64) {
	rows := len(field)
	if rows == 0 {
		return
	}
	cols := len(field[0])

	if k := gaussianKernel(sigmaCol); k != nil {
		buf := make([]float64, cols)
		for i := range field {
			convolveReflect(buf, field[i], k)
			copy(field[i], buf)
		}
	}

	if k := gaussianKernel(sigmaRow); k != nil {
		column := make([]float64, rows)
		buf := make([]float64, rows)
		for j := 0; j < cols; j++ {
			for i := range field {
				column[i] = field[i][j]
			}
			convolveReflect(buf, column, k)
			for i := range field {
				field[i][j] = buf[i]
			}
		}
	}
}

// gaussianKernel builds a normalized symmetric kernel of radius
// truncate*sigma. Returns nil when sigma leaves nothing to smooth.
func gaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return nil
	}
	radius := int(kernelTruncate*sigma + 0.5)
	if radius == 0 {
		return nil
	}
	k := make([]float64, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		k[i+radius] = math.Exp(-0.5 * float64(i) * float64(i) / (sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// convolveReflect writes the convolution of src with the symmetric kernel k
// into dst, reflecting indices at both ends.
func convolveReflect(dst, src, k []float64) {
	radius := len(k) / 2
	n := len(src)
	for i := 0; i < n; i++ {
		var sum float64
		for o := -radius; o <= radius; o++ {
			sum += k[o+radius] * src[reflect(i+o, n)]
		}
		dst[i] = sum
	}
}

// reflect maps an out-of-range index back into [0, n) by mirroring at the
// array edges: (d c b a | a b c d | d c b a).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
