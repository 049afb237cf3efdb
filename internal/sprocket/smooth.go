package sprocket

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Binomial kernels used for short Gaussians when no sigma is given.
var smallGaussians = [][]float64{
	{1},
	{0.25, 0.5, 0.25},
	{0.0625, 0.25, 0.375, 0.25, 0.0625},
	{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianKernel returns a normalized Gaussian of odd length n.
//
// The standard deviation is derived from the length as
// 0.3*((n-1)*0.5-1) + 0.8. Lengths up to 7 use fixed binomial weights.
func GaussianKernel(n int) []float64 {
	if n%2 == 1 && n <= 7 {
		k := make([]float64, n)
		copy(k, smallGaussians[n/2])
		return k
	}

	sigma := 0.3*(float64(n-1)*0.5-1) + 0.8
	scale := -0.5 / (sigma * sigma)
	k := make([]float64, n)
	for i := range k {
		x := float64(i) - float64(n-1)*0.5
		k[i] = math.Exp(scale * x * x)
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// Smooth convolves profile with a Gaussian of odd length n.
//
// The output has the same length as profile. Samples beyond either end are
// taken by reflect-101 mirroring, which keeps a flat border flat. The kernel
// may not be longer than the profile.
func Smooth(profile []float64, n int) ([]float64, error) {
	if n < 1 || n%2 == 0 {
		return nil, fmt.Errorf("%w: kernel length %d must be a positive odd number", ErrInvalidConfig, n)
	}
	if n > len(profile) {
		return nil, fmt.Errorf("%w: kernel length %d, profile length %d", ErrKernelTooLarge, n, len(profile))
	}

	kernel := GaussianKernel(n)
	r := n / 2
	out := make([]float64, len(profile))
	for i := range profile {
		var sum float64
		for j, w := range kernel {
			sum += w * profile[reflect101(i+j-r, len(profile))]
		}
		out[i] = sum
	}
	return out, nil
}
