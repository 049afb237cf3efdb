package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Frame is a height x width x channel grid of samples.
//
// Samples are stored row-major: the sample for row y, column x and channel c
// lives at Pix[y*Stride + x*Channels + c]. Sub-frames created with Sub share
// Pix with their parent, the same way image.RGBA.SubImage does, so cropping
// never copies pixel data.
//
// Frames built from 8-bit images hold values on the 0..255 scale.
type Frame struct {
	Pix      []float64
	Stride   int
	Height   int
	Width    int
	Channels int
}

// NewFrame allocates a zero-filled frame.
func NewFrame(height, width, channels int) *Frame {
	return &Frame{
		Pix:      make([]float64, height*width*channels),
		Stride:   width * channels,
		Height:   height,
		Width:    width,
		Channels: channels,
	}
}

// At returns the sample at row y, column x, channel c.
func (f *Frame) At(y, x, c int) float64 {
	return f.Pix[y*f.Stride+x*f.Channels+c]
}

// Set stores v at row y, column x, channel c.
func (f *Frame) Set(y, x, c int, v float64) {
	f.Pix[y*f.Stride+x*f.Channels+c] = v
}

// Fill sets every channel of the half-open rectangle [x0,x1) x [y0,y1) to v.
// The rectangle is clipped to the frame.
func (f *Frame) Fill(x0, y0, x1, y1 int, v float64) {
	x0, x1 = clamp(x0, 0, f.Width), clamp(x1, 0, f.Width)
	y0, y1 = clamp(y0, 0, f.Height), clamp(y1, 0, f.Height)
	for y := y0; y < y1; y++ {
		row := f.Pix[y*f.Stride:]
		for i := x0 * f.Channels; i < x1*f.Channels; i++ {
			row[i] = v
		}
	}
}

// Sub returns a view of the half-open rectangle [x0,x1) x [y0,y1).
//
// The bounds are clipped to the frame, mirroring numpy slice semantics. The
// returned frame shares storage with f.
func (f *Frame) Sub(x0, y0, x1, y1 int) *Frame {
	x0, x1 = clamp(x0, 0, f.Width), clamp(x1, 0, f.Width)
	y0, y1 = clamp(y0, 0, f.Height), clamp(y1, 0, f.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}

	sub := &Frame{
		Stride:   f.Stride,
		Height:   y1 - y0,
		Width:    x1 - x0,
		Channels: f.Channels,
	}
	if sub.Height == 0 || sub.Width == 0 {
		return sub
	}
	start := y0*f.Stride + x0*f.Channels
	end := (y1-1)*f.Stride + x1*f.Channels
	sub.Pix = f.Pix[start:end:end]
	return sub
}

// Clone returns a compact deep copy of f.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.Height, f.Width, f.Channels)
	rowLen := f.Width * f.Channels
	for y := 0; y < f.Height; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], f.Pix[y*f.Stride:y*f.Stride+rowLen])
	}
	return out
}

// Validate reports whether f has a usable shape.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("frame is nil")
	}
	if f.Height <= 0 || f.Width <= 0 || f.Channels <= 0 {
		return fmt.Errorf("frame shape %dx%dx%d must be positive in every dimension",
			f.Height, f.Width, f.Channels)
	}
	if f.Stride < f.Width*f.Channels {
		return fmt.Errorf("frame stride %d shorter than row length %d", f.Stride, f.Width*f.Channels)
	}
	if len(f.Pix) < (f.Height-1)*f.Stride+f.Width*f.Channels {
		return fmt.Errorf("frame buffer holds %d samples, shape needs more", len(f.Pix))
	}
	return nil
}

// FromImage converts img into a Frame.
//
// Gray images produce a single channel; everything else produces three
// channels in R, G, B order. Alpha is dropped. Values are scaled to 0..255,
// with 16-bit sources reduced by shifting off the low byte.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		f := NewFrame(height, width, 1)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				f.Set(y, x, 0, float64(src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y))
			}
		}
		return f
	case *image.Gray16:
		f := NewFrame(height, width, 1)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				f.Set(y, x, 0, float64(src.Gray16At(x+bounds.Min.X, y+bounds.Min.Y).Y>>8))
			}
		}
		return f
	}

	f := NewFrame(height, width, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			i := y*f.Stride + x*3
			f.Pix[i] = float64(r >> 8)
			f.Pix[i+1] = float64(g >> 8)
			f.Pix[i+2] = float64(b >> 8)
		}
	}
	return f
}

// ToImage converts f back into an 8-bit image.
//
// One-channel frames become *image.Gray; frames with three or more channels
// use the first three as R, G, B. Two-channel frames replicate channel 0.
// Samples are rounded and clamped to 0..255.
func (f *Frame) ToImage() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Channels == 1 {
		out := image.NewGray(rect)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				out.SetGray(x, y, color.Gray{Y: toByte(f.At(y, x, 0))})
			}
		}
		return out
	}

	out := image.NewNRGBA(rect)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			var r, g, b uint8
			if f.Channels >= 3 {
				r, g, b = toByte(f.At(y, x, 0)), toByte(f.At(y, x, 1)), toByte(f.At(y, x, 2))
			} else {
				r = toByte(f.At(y, x, 0))
				g, b = r, r
			}
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
