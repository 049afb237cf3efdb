package sprocket

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
)

// Axis selects the direction of the Sobel derivative.
type Axis int

const (
	// Vertical differentiates along rows, responding to horizontal edges.
	Vertical Axis = iota
	// Horizontal differentiates along columns, responding to vertical edges.
	Horizontal
)

// EdgeProfile computes the mean absolute Sobel response of f along one axis.
//
// The Sobel operator uses aperture 3: a [-1,0,1] derivative along the chosen
// axis and a [1,2,1] smoothing across it. Borders are reflected without
// repeating the edge sample (reflect-101), so a uniform frame produces an
// all-zero profile.
//
// For Vertical the result has one entry per row, averaged over all columns
// and channels. For Horizontal it has one entry per column, averaged over
// all rows and channels.
func EdgeProfile(f *imaging.Frame, axis Axis) []float64 {
	h, w, c := f.Height, f.Width, f.Channels

	var profile []float64
	if axis == Vertical {
		profile = make([]float64, h)
	} else {
		profile = make([]float64, w)
	}
	if h == 0 || w == 0 || c == 0 {
		return profile
	}

	smooth := [3]float64{1, 2, 1}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				var g float64
				if axis == Vertical {
					up := reflect101(y-1, h)
					down := reflect101(y+1, h)
					for k := -1; k <= 1; k++ {
						xx := reflect101(x+k, w)
						g += smooth[k+1] * (f.At(down, xx, ch) - f.At(up, xx, ch))
					}
				} else {
					left := reflect101(x-1, w)
					right := reflect101(x+1, w)
					for k := -1; k <= 1; k++ {
						yy := reflect101(y+k, h)
						g += smooth[k+1] * (f.At(yy, right, ch) - f.At(yy, left, ch))
					}
				}
				if g < 0 {
					g = -g
				}
				if axis == Vertical {
					profile[y] += g
				} else {
					profile[x] += g
				}
			}
		}
	}

	n := float64(w * c)
	if axis == Horizontal {
		n = float64(h * c)
	}
	floats.Scale(1/n, profile)
	return profile
}

// reflect101 maps an out-of-range index back into [0,n) by mirroring around
// the first and last sample without repeating them: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
