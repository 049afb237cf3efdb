package sprocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ROI is a search window in fractional frame coordinates.
//
// X0/X1 select the columns of the edge strip, Y0/Y1 the rows in which the
// profile is searched. All values lie in [0,1] with X0 < X1 and Y0 < Y1.
// In JSON the ROI is written as the array [x0, x1, y0, y1].
type ROI struct {
	X0 float64
	X1 float64
	Y0 float64
	Y1 float64
}

// Pixels converts the ROI to absolute pixel bounds for a frame of the given
// size. Fractions are truncated toward zero.
func (r ROI) Pixels(width, height int) (x0, x1, y0, y1 int) {
	return int(r.X0 * float64(width)),
		int(r.X1 * float64(width)),
		int(r.Y0 * float64(height)),
		int(r.Y1 * float64(height))
}

// MarshalJSON writes the ROI as a four-element array.
func (r ROI) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.X0, r.X1, r.Y0, r.Y1})
}

// UnmarshalJSON accepts either [x0, x1, y0, y1] or an object with
// x0/x1/y0/y1 keys. Keys missing from the object keep their current value.
func (r *ROI) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 4 {
			return fmt.Errorf("roi must have 4 elements, got %d", len(arr))
		}
		r.X0, r.X1, r.Y0, r.Y1 = arr[0], arr[1], arr[2], arr[3]
		return nil
	}

	obj := struct {
		X0 *float64 `json:"x0"`
		X1 *float64 `json:"x1"`
		Y0 *float64 `json:"y0"`
		Y1 *float64 `json:"y1"`
	}{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("roi must be an array [x0,x1,y0,y1] or an object: %w", err)
	}
	if obj.X0 != nil {
		r.X0 = *obj.X0
	}
	if obj.X1 != nil {
		r.X1 = *obj.X1
	}
	if obj.Y0 != nil {
		r.Y0 = *obj.Y0
	}
	if obj.Y1 != nil {
		r.Y1 = *obj.Y1
	}
	return nil
}

// Thresholds are fractions of the profile peak used by the boundary search.
type Thresholds struct {
	// Outer locates the coarse sprocket boundaries from the ROI edges inward.
	// It should be high enough to ignore bright imprints on the film stock.
	Outer float64 `json:"outer"`

	// Inner locates the real sprocket boundaries from the estimated center
	// outward, and is reused by the horizontal search. Dusty material needs
	// a higher value.
	Inner float64 `json:"inner"`
}

// Config controls a single detection call.
type Config struct {
	ROI        ROI        `json:"roi"`
	Thresholds Thresholds `json:"thresholds"`

	// FilterSize is the length of the Gaussian applied to the vertical profile.
	FilterSize int `json:"filter_size"`

	// HorizontalFilterSize is the length of the Gaussian applied to the
	// horizontal profile. With Horizontal set, Detect fails with
	// ErrKernelTooLarge when the search region (twice the strip width,
	// clipped to the frame) has fewer columns than this.
	HorizontalFilterSize int `json:"horizontal_filter_size"`

	// MaxSize is the sprocket size sanity fraction. It is compared directly
	// against the detected size in pixels, see Detect.
	MaxSize float64 `json:"max_size"`

	// Horizontal enables the search for the sprocket's vertical edge.
	Horizontal bool `json:"horizontal"`
}

// DefaultConfig returns a new Config holding the default settings.
func DefaultConfig() Config {
	return Config{
		ROI:                  ROI{X0: 0.01, X1: 0.09, Y0: 0.2, Y1: 0.8},
		Thresholds:           Thresholds{Outer: 0.5, Inner: 0.2},
		FilterSize:           25,
		HorizontalFilterSize: 5,
		MaxSize:              0.3,
		Horizontal:           false,
	}
}

// Validate checks the configuration independently of any frame.
func (c Config) Validate() error {
	r := c.ROI
	if r.X0 < 0 || r.X1 > 1 || r.Y0 < 0 || r.Y1 > 1 {
		return fmt.Errorf("%w: roi [%g,%g,%g,%g] must lie within [0,1]", ErrInvalidROI, r.X0, r.X1, r.Y0, r.Y1)
	}
	if r.X0 >= r.X1 {
		return fmt.Errorf("%w: roi x0 %g must be < x1 %g", ErrInvalidROI, r.X0, r.X1)
	}
	if r.Y0 >= r.Y1 {
		return fmt.Errorf("%w: roi y0 %g must be < y1 %g", ErrInvalidROI, r.Y0, r.Y1)
	}

	if c.Thresholds.Outer <= 0 || c.Thresholds.Outer > 1 {
		return fmt.Errorf("%w: thresholds.outer must be in (0,1], got %g", ErrInvalidConfig, c.Thresholds.Outer)
	}
	if c.Thresholds.Inner <= 0 || c.Thresholds.Inner > 1 {
		return fmt.Errorf("%w: thresholds.inner must be in (0,1], got %g", ErrInvalidConfig, c.Thresholds.Inner)
	}

	if c.FilterSize < 1 || c.FilterSize%2 == 0 {
		return fmt.Errorf("%w: filter_size must be a positive odd number, got %d", ErrInvalidConfig, c.FilterSize)
	}
	if c.HorizontalFilterSize < 1 || c.HorizontalFilterSize%2 == 0 {
		return fmt.Errorf("%w: horizontal_filter_size must be a positive odd number, got %d",
			ErrInvalidConfig, c.HorizontalFilterSize)
	}

	if c.MaxSize < 0 || c.MaxSize > 1 {
		return fmt.Errorf("%w: max_size must be in [0,1], got %g", ErrInvalidConfig, c.MaxSize)
	}
	return nil
}

// LoadConfigFile reads a JSON configuration file. Settings absent from the
// file keep their default values.
func LoadConfigFile(filename string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// SaveConfigFile writes c as indented JSON, creating parent directories.
func SaveConfigFile(c Config, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteConfig writes c to w as indented JSON.
func WriteConfig(w io.Writer, c Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return nil
}

// Sentinel errors returned (wrapped) by Detect and Config.Validate.
var (
	ErrInvalidFrame   = errors.New("invalid frame")
	ErrInvalidROI     = errors.New("invalid roi")
	ErrEmptyStrip     = errors.New("empty edge strip")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrKernelTooLarge = errors.New("smoothing kernel longer than profile")
)
