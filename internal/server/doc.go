// Package server implements the MCP (Model Context Protocol) server for
// sprocket-based film frame registration.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Frames:
//   - image_load: Frame dimensions, channels and format
//   - image_shift: Translate a frame by a known offset
//
// Sprocket registration:
//   - sprocket_detect: Locate the sprocket and report the correcting shift
//   - sprocket_align: Detect, shift and write one frame
//   - sprocket_align_batch: Align many frames concurrently
//   - sprocket_overlay: Draw the detection for inspection
//   - sprocket_strip: Show the edge strip the detector analyzes
//
// Sprocket tools accept an optional "config" object. Its fields are laid over
// the server's default configuration, so a call may change a single setting
// such as {"horizontal": true}.
//
// # Image Caching
//
// Decoded frames are cached by path for the lifetime of the server so that
// detect, overlay and strip calls on the same scan decode it once. Alignment
// tools read their inputs directly and do not populate the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
