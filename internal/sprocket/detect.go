package sprocket

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
)

// outerSpanLimit is the largest plausible outer span as a fraction of the
// frame height. Wider spans mean the outer search locked onto something
// other than a sprocket.
const outerSpanLimit = 0.3

// Bounds is a pair of profile indices.
type Bounds struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Span returns High - Low.
func (b Bounds) Span() int {
	return b.High - b.Low
}

// Result describes one detection.
//
// XShift and YShift are the offsets to apply to the frame. The remaining
// fields record the intermediate decisions for diagnostics.
type Result struct {
	XShift int `json:"x_shift"`
	YShift int `json:"y_shift"`

	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`

	// Strip is the pixel column range of the edge strip; Search the pixel
	// row range searched in the profile.
	Strip  Bounds `json:"strip"`
	Search Bounds `json:"search"`

	PeakValue float64 `json:"peak_value"`
	Outer     Bounds  `json:"outer"`
	Inner     Bounds  `json:"inner"`

	// OuterRejected is set when the outer span failed the size gate and the
	// inner search started from the frame center.
	OuterRejected bool `json:"outer_rejected"`
	SearchCenter  int  `json:"search_center"`

	// SprocketSize is zero when no sprocket was accepted; SprocketCenter is
	// then the frame center.
	SprocketSize   int `json:"sprocket_size"`
	SprocketCenter int `json:"sprocket_center"`

	Horizontal *HorizontalResult `json:"horizontal,omitempty"`
}

// Detected reports whether a sprocket passed the sanity gates.
func (r *Result) Detected() bool {
	return r.SprocketSize > 0
}

// DetectSprocketPosition returns the shift that re-centers f on its sprocket.
// It is Detect without the diagnostics.
func DetectSprocketPosition(f *imaging.Frame, cfg Config) (xShift, yShift int, err error) {
	res, err := Detect(f, cfg)
	if err != nil {
		return 0, 0, err
	}
	return res.XShift, res.YShift, nil
}

// Detect locates the sprocket hole in f.
//
// The ROI's columns select a full-height edge strip; its rows bound where
// the smoothed vertical edge profile is searched. The search runs in two
// stages relative to the profile peak inside the ROI rows:
//
//  1. Outer: scanning in from both ROI ends for the first sample above the
//     outer threshold gives coarse boundaries. If they span 30% of the frame
//     height or more they are discarded and the frame center is used.
//  2. Inner: scanning out from that center for the first sample above the
//     inner threshold gives the sprocket boundaries.
//
// The sprocket is accepted when its size exceeds Config.MaxSize and is
// smaller than the outer span; otherwise the frame center is reported with
// size zero, giving YShift 0. Note that MaxSize is a fraction but is compared
// to the size in pixels as is, so any sprocket at least one row tall passes
// that half of the gate.
//
// When Config.Horizontal is set and a sprocket was accepted, the sprocket's
// vertical edge is searched as well and XShift is filled in; otherwise it
// is zero. A horizontal search region narrower than HorizontalFilterSize is
// rejected with ErrKernelTooLarge before any profile is computed.
//
// Detect does not modify f and keeps no state between calls.
func Detect(f *imaging.Frame, cfg Config) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dy, dx := f.Height, f.Width
	x0, x1, y0, y1 := cfg.ROI.Pixels(dx, dy)
	if x1 <= x0 {
		return nil, fmt.Errorf("%w: roi columns [%d,%d) on a %d pixel wide frame", ErrEmptyStrip, x0, x1, dx)
	}
	if y1 <= y0 {
		return nil, fmt.Errorf("%w: roi rows [%d,%d) on a %d pixel high frame", ErrInvalidROI, y0, y1, dy)
	}

	if cfg.Horizontal {
		if cols := min(x0+2*(x1-x0), dx) - x0; cfg.HorizontalFilterSize > cols {
			return nil, fmt.Errorf("%w: horizontal_filter_size %d, horizontal search spans %d columns",
				ErrKernelTooLarge, cfg.HorizontalFilterSize, cols)
		}
	}

	strip := f.Sub(x0, 0, x1, dy)
	profile, err := Smooth(EdgeProfile(strip, Vertical), cfg.FilterSize)
	if err != nil {
		return nil, fmt.Errorf("vertical profile: %w", err)
	}

	res := locate(profile, y0, y1, cfg)
	res.FrameWidth, res.FrameHeight = dx, dy
	res.Strip = Bounds{Low: x0, High: x1}
	res.Search = Bounds{Low: y0, High: y1}

	if cfg.Horizontal && res.SprocketSize > 0 {
		hr, err := locateEdge(f, x0, x1, res.SprocketCenter, res.SprocketSize, cfg)
		if err != nil {
			return nil, fmt.Errorf("horizontal profile: %w", err)
		}
		res.Horizontal = hr
		res.XShift = hr.XShift
	}
	return res, nil
}

// locate runs the outer/inner boundary search over a smoothed vertical
// profile whose length is the frame height.
func locate(profile []float64, y0, y1 int, cfg Config) *Result {
	dy := len(profile)
	res := &Result{}

	res.PeakValue = floats.Max(profile[y0:y1])
	outerThresh := cfg.Thresholds.Outer * res.PeakValue
	innerThresh := cfg.Thresholds.Inner * res.PeakValue

	// Outer boundaries, from the ROI ends inward.
	low, ok := firstAbove(profile, y0, y1, outerThresh)
	res.Outer.Low = orDefault(low, ok, y0)
	high, ok := lastAbove(profile, y1, res.Outer.Low, outerThresh)
	res.Outer.High = orDefault(high, ok, y1)

	if float64(res.Outer.Span()) < outerSpanLimit*float64(dy) {
		res.SearchCenter = (res.Outer.High + res.Outer.Low) / 2
	} else {
		res.SearchCenter = dy / 2
		res.OuterRejected = true
	}

	// Inner boundaries, from the search center outward.
	low, ok = lastAbove(profile, res.SearchCenter, res.Outer.Low, innerThresh)
	res.Inner.Low = orDefault(low, ok, res.SearchCenter)
	high, ok = firstAbove(profile, res.SearchCenter, res.Outer.High, innerThresh)
	res.Inner.High = orDefault(high, ok, res.SearchCenter)

	size := res.Inner.Span()
	if float64(size) > cfg.MaxSize && size < res.Outer.Span() {
		res.SprocketSize = size
		res.SprocketCenter = (res.Inner.High + res.Inner.Low) / 2
	} else {
		res.SprocketSize = 0
		res.SprocketCenter = dy / 2
	}

	res.YShift = dy/2 - res.SprocketCenter
	return res
}
