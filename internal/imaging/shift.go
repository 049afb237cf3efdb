package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"
)

// BorderMode selects how pixels shifted in from outside the frame are filled.
type BorderMode int

const (
	// BorderConstant fills uncovered pixels with opaque black.
	BorderConstant BorderMode = iota
	// BorderReplicate repeats the nearest edge pixel of the source.
	BorderReplicate
)

// String returns the name used in tool arguments.
func (m BorderMode) String() string {
	switch m {
	case BorderConstant:
		return "constant"
	case BorderReplicate:
		return "replicate"
	default:
		return fmt.Sprintf("BorderMode(%d)", int(m))
	}
}

// ParseBorderMode maps a tool argument to a BorderMode. The empty string
// selects BorderConstant.
func ParseBorderMode(s string) (BorderMode, error) {
	switch s {
	case "", "constant", "zero":
		return BorderConstant, nil
	case "replicate", "edge":
		return BorderReplicate, nil
	default:
		return BorderConstant, fmt.Errorf("unknown border mode: %s", s)
	}
}

// ApplyShift translates the whole frame by (dx, dy) pixels.
//
// The output has the same shape as f and satisfies
// out(x, y) = f(x-dx, y-dy), so positive dx moves content right and positive
// dy moves it down. Samples that map outside f are filled according to mode.
// f is not modified.
func ApplyShift(f *Frame, dx, dy int, mode BorderMode) *Frame {
	out := NewFrame(f.Height, f.Width, f.Channels)
	c := f.Channels

	for y := 0; y < f.Height; y++ {
		sy := y - dy
		if sy < 0 || sy >= f.Height {
			if mode != BorderReplicate {
				continue
			}
			sy = clamp(sy, 0, f.Height-1)
		}
		src := f.Pix[sy*f.Stride:]
		dst := out.Pix[y*out.Stride:]

		for x := 0; x < f.Width; x++ {
			sx := x - dx
			if sx < 0 || sx >= f.Width {
				if mode != BorderReplicate {
					continue
				}
				sx = clamp(sx, 0, f.Width-1)
			}
			copy(dst[x*c:x*c+c], src[sx*c:sx*c+c])
		}
	}
	return out
}

// ShiftImage translates img by (dx, dy) with opaque black fill, using the
// same sign convention as ApplyShift. The result keeps the bounds of img and
// matches ApplyShift(FromImage(img), dx, dy, BorderConstant).ToImage().
func ShiftImage(img image.Image, dx, dy int) *image.RGBA {
	// bild moves content up for positive dy and leaves uncovered pixels
	// transparent.
	shifted := transform.Translate(img, dx, -dy)

	b := shifted.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.Black, image.Point{}, draw.Src)
	draw.Draw(out, b, shifted, b.Min, draw.Over)
	return out
}
