package sprocket

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
)

// bandFraction is the share of the sprocket height used for the horizontal
// search, keeping the rounded sprocket corners out of the profile.
const bandFraction = 0.8

// HorizontalResult describes the search for the sprocket's vertical edge.
type HorizontalResult struct {
	XShift int `json:"x_shift"`

	// Columns and Rows are the pixel ranges of the search region.
	Columns Bounds `json:"columns"`
	Rows    Bounds `json:"rows"`

	PeakValue float64 `json:"peak_value"`

	// Edge is the matched index relative to Columns.Low. Found is false when
	// no sample exceeded the threshold and Edge is the end of the range.
	Edge  int  `json:"edge"`
	Found bool `json:"found"`
}

// locateEdge searches a region twice as wide as the edge strip, restricted
// to the central rows of the accepted sprocket, for the first vertical edge
// past the middle of the edge strip.
func locateEdge(f *imaging.Frame, x0, x1, center, size int, cfg Config) (*HorizontalResult, error) {
	ry := int(bandFraction * float64(size))
	res := &HorizontalResult{
		Columns: Bounds{Low: x0, High: min(x0+2*(x1-x0), f.Width)},
		Rows:    Bounds{Low: max(center-ry/2, 0), High: min(center+ry/2, f.Height)},
	}
	if res.Rows.Span() <= 0 {
		return res, nil
	}

	region := f.Sub(res.Columns.Low, res.Rows.Low, res.Columns.High, res.Rows.High)
	profile, err := Smooth(EdgeProfile(region, Horizontal), cfg.HorizontalFilterSize)
	if err != nil {
		return nil, err
	}

	res.PeakValue = floats.Max(profile)
	thresh := cfg.Thresholds.Inner * res.PeakValue

	edge, ok := firstAbove(profile, (x1-x0)/2, len(profile), thresh)
	res.Edge = orDefault(edge, ok, len(profile))
	res.Found = ok
	res.XShift = x1 - res.Edge
	return res, nil
}
