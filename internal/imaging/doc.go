// Package imaging provides the frame model and image I/O used by the sprocket
// detector.
//
// Scans arrive as image.Image values decoded by github.com/disintegration/imaging
// and are converted into Frame values: dense float64 grids of height x width x
// channels that the detector can filter without per-pixel interface calls.
// The package also contains the Shift Applier that re-registers a frame once
// its offset is known, and helpers that return images inline as base64 PNG.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X (column) increases rightward
//   - Y (row) increases downward
//   - Regions are half-open: [x0,x1) x [y0,y1)
//
// Frame accessors take (y, x, c) in that order, matching the row-major layout.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Frames are plain values; views made
// with Frame.Sub share storage with their parent, so callers that mutate a
// frame must not share it. The detector never mutates its input.
//
// # Error Handling
//
// Functions return errors for unreadable files, undecodable data, encoding
// failures and regions outside the image bounds. Errors wrap the underlying
// cause with %w.
package imaging
