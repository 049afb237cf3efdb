// Package sprocket locates the sprocket hole in a scanned film frame and
// computes the shift that re-registers the frame on it.
//
// # Pipeline
//
// Detection is a single pass over one frame:
//
//  1. Strip extraction: the ROI columns are cut from the frame at full height.
//  2. Edge profiling: a vertical Sobel response is averaged across the strip,
//     so only edges spanning the strip width (the sprocket boundaries) remain.
//  3. Smoothing: the profile is low-pass filtered with a Gaussian.
//  4. Boundary search: outer then inner threshold search inside the ROI rows,
//     each gated by a size check that falls back to the frame center.
//  5. Optional horizontal search for the sprocket's vertical edge.
//
// The resulting (XShift, YShift) is applied with imaging.ApplyShift.
//
// # Concurrency
//
// Detect keeps no state and never modifies its input. Independent frames may
// be processed from any number of goroutines without synchronization.
//
// # Errors
//
// Well-formed input never fails: every search has an explicit default and
// every gate an explicit fallback. Malformed input (invalid frame shape,
// empty strip, invalid configuration, smoothing kernel longer than the
// profile) returns an error wrapping one of the Err* sentinels.
package sprocket
