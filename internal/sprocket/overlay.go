package sprocket

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// OverlayColors are hex colors ("#RRGGBB") for the diagnostic overlay.
// Empty fields use the defaults from DefaultOverlayColors.
type OverlayColors struct {
	ROI    string `json:"roi,omitempty"`
	Outer  string `json:"outer,omitempty"`
	Inner  string `json:"inner,omitempty"`
	Center string `json:"center,omitempty"`
	Edge   string `json:"edge,omitempty"`
}

// DefaultOverlayColors returns the standard overlay palette.
func DefaultOverlayColors() OverlayColors {
	return OverlayColors{
		ROI:    "#00ff00",
		Outer:  "#ffff00",
		Inner:  "#ff0000",
		Center: "#00ffff",
		Edge:   "#ff00ff",
	}
}

// Overlay draws the detection onto a copy of img.
//
// The ROI rectangle is outlined, the outer and inner bounds are drawn as
// horizontal lines across the ROI columns, and the accepted sprocket center
// is drawn across the full width. When a horizontal search ran, the matched
// edge column is drawn over the search rows. The shift, or "no sprocket", is
// printed in the top-left corner in the center color. res must come from
// Detect on a frame built from img.
func Overlay(img image.Image, res *Result, colors OverlayColors) (*image.RGBA, error) {
	bounds := img.Bounds()
	if bounds.Dx() != res.FrameWidth || bounds.Dy() != res.FrameHeight {
		return nil, fmt.Errorf("result is for a %dx%d frame, image is %dx%d",
			res.FrameWidth, res.FrameHeight, bounds.Dx(), bounds.Dy())
	}

	palette, err := colors.resolve()
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	roi := image.Rect(res.Strip.Low, res.Search.Low, res.Strip.High, res.Search.High)
	drawRect(out, roi, palette.roi)

	hline(out, res.Outer.Low, roi.Min.X, roi.Max.X, palette.outer)
	hline(out, res.Outer.High, roi.Min.X, roi.Max.X, palette.outer)

	if res.Detected() {
		hline(out, res.Inner.Low, roi.Min.X, roi.Max.X, palette.inner)
		hline(out, res.Inner.High, roi.Min.X, roi.Max.X, palette.inner)
		hline(out, res.SprocketCenter, 0, bounds.Dx(), palette.center)
	}

	if h := res.Horizontal; h != nil && h.Found {
		vline(out, h.Columns.Low+h.Edge, h.Rows.Low, h.Rows.High, palette.edge)
	}

	label := "no sprocket"
	if res.Detected() {
		label = fmt.Sprintf("x %+d  y %+d", res.XShift, res.YShift)
	}
	drawLabel(out, 0, 0, label, palette.center)
	return out, nil
}

type overlayPalette struct {
	roi, outer, inner, center, edge color.RGBA
}

func (c OverlayColors) resolve() (overlayPalette, error) {
	def := DefaultOverlayColors()
	var p overlayPalette
	for _, e := range []struct {
		name     string
		hex, def string
		dst      *color.RGBA
	}{
		{"roi", c.ROI, def.ROI, &p.roi},
		{"outer", c.Outer, def.Outer, &p.outer},
		{"inner", c.Inner, def.Inner, &p.inner},
		{"center", c.Center, def.Center, &p.center},
		{"edge", c.Edge, def.Edge, &p.edge},
	} {
		hex := e.hex
		if hex == "" {
			hex = e.def
		}
		col, err := colorful.Hex(hex)
		if err != nil {
			return p, fmt.Errorf("invalid %s color %q: %w", e.name, hex, err)
		}
		r, g, b := col.RGB255()
		*e.dst = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p, nil
}

func hline(img *image.RGBA, y, x0, x1 int, c color.RGBA) {
	if y < img.Rect.Min.Y || y >= img.Rect.Max.Y {
		return
	}
	for x := max(x0, img.Rect.Min.X); x < min(x1, img.Rect.Max.X); x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if x < img.Rect.Min.X || x >= img.Rect.Max.X {
		return
	}
	for y := max(y0, img.Rect.Min.Y); y < min(y1, img.Rect.Max.Y); y++ {
		img.SetRGBA(x, y, c)
	}
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	hline(img, r.Min.Y, r.Min.X, r.Max.X, c)
	hline(img, r.Max.Y-1, r.Min.X, r.Max.X, c)
	vline(img, r.Min.X, r.Min.Y, r.Max.Y, c)
	vline(img, r.Max.X-1, r.Min.Y, r.Max.Y, c)
}

// drawLabel writes text on a black box whose top-left corner is (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	box := image.Rect(x, y, x+width+4, y+face.Height+4).Intersect(img.Rect)
	draw.Draw(img, box, image.Black, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x+2, y+2+face.Ascent),
	}
	d.DrawString(text)
}
