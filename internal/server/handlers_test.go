package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/sprocket-tools-mcp/internal/align"
	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
	"github.com/ironsheep/sprocket-tools-mcp/internal/sprocket"
)

// createFrameFile writes a dark width x height frame with a bright band
// over rows [top, bottom) across the full width and returns its path.
func createFrameFile(t *testing.T, dir string, name string, width, height, top, bottom int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		c := color.RGBA{0, 0, 0, 255}
		if y >= top && y < bottom {
			c = color.RGBA{255, 255, 255, 255}
		}
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 {
		t.Fatalf("got %d content entries, want 1", len(content))
	}
	text := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func decodeInlinePNG(t *testing.T, enc imaging.EncodedImage) image.Image {
	t.Helper()

	if enc.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", enc.MimeType)
	}
	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 100, 80, 20, 40)

	var info imaging.FrameInfo
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Channels != 3 {
		t.Errorf("Channels: got %d, want 3", info.Channels)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_SprocketDetect(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 64, 1000, 400, 460)

	var res sprocket.Result
	decodeToolResult(t, callTool(t, s, "sprocket_detect", map[string]interface{}{"path": path}), &res)

	if absInt(res.YShift-70) > 1 {
		t.Errorf("YShift: got %d, want 70±1", res.YShift)
	}
	if res.XShift != 0 {
		t.Errorf("XShift: got %d, want 0 with horizontal search disabled", res.XShift)
	}
	if res.SprocketSize == 0 {
		t.Error("sprocket was not detected")
	}
}

func TestHandleToolsCall_SprocketDetect_ConfigOverride(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 64, 1000, 400, 460)

	args := map[string]interface{}{
		"path": path,
		"config": map[string]interface{}{
			"filter_size": 9,
		},
	}
	var res sprocket.Result
	decodeToolResult(t, callTool(t, s, "sprocket_detect", args), &res)

	if absInt(res.YShift-70) > 1 {
		t.Errorf("YShift: got %d, want 70±1", res.YShift)
	}
	// The unspecified ROI keeps its default.
	if res.Search.Low != 200 || res.Search.High != 800 {
		t.Errorf("Search: got %+v, want rows [200,800)", res.Search)
	}
}

func TestHandleToolsCall_SprocketDetect_InvalidConfig(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 64, 200, 80, 100)

	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{"even filter", map[string]interface{}{"filter_size": 24}},
		{"inverted roi", map[string]interface{}{"roi": []float64{0.5, 0.1, 0.2, 0.8}}},
		{"short roi", map[string]interface{}{"roi": []float64{0.1, 0.2}}},
		{"zero threshold", map[string]interface{}{"thresholds": map[string]interface{}{"outer": 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "sprocket_detect", map[string]interface{}{"path": path, "config": tt.config})
			if resp.Error == nil {
				t.Fatal("expected error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_SprocketAlign(t *testing.T) {
	s := New()
	dir := t.TempDir()
	path := createFrameFile(t, dir, "frame.png", 64, 1000, 400, 460)
	out := filepath.Join(dir, "out", "aligned.png")

	var outcome align.Outcome
	decodeToolResult(t, callTool(t, s, "sprocket_align", map[string]interface{}{
		"path":        path,
		"output_path": out,
	}), &outcome)

	if !outcome.Detected {
		t.Error("Detected: got false")
	}
	if outcome.Output != out {
		t.Errorf("Output: got %s, want %s", outcome.Output, out)
	}

	// The aligned frame should need no further correction.
	var res sprocket.Result
	decodeToolResult(t, callTool(t, s, "sprocket_detect", map[string]interface{}{"path": out}), &res)
	if absInt(res.YShift) > 1 {
		t.Errorf("YShift after alignment: got %d, want 0±1", res.YShift)
	}
}

func TestHandleToolsCall_SprocketAlign_MissingOutput(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 64, 200, 80, 100)

	resp := callTool(t, s, "sprocket_align", map[string]interface{}{"path": path})
	if resp.Error == nil {
		t.Fatal("expected error without output_path")
	}
}

func TestHandleToolsCall_SprocketAlignBatch(t *testing.T) {
	s := New()
	dir := t.TempDir()
	paths := []string{
		createFrameFile(t, dir, "f1.png", 64, 1000, 400, 460),
		createFrameFile(t, dir, "f2.png", 64, 1000, 470, 530),
		createFrameFile(t, dir, "f3.png", 64, 1000, 0, 0),
	}
	outDir := filepath.Join(dir, "aligned")

	var res alignBatchResult
	decodeToolResult(t, callTool(t, s, "sprocket_align_batch", map[string]interface{}{
		"paths":      paths,
		"output_dir": outDir,
		"workers":    2,
	}), &res)

	if res.Count != 3 {
		t.Fatalf("Count: got %d, want 3", res.Count)
	}
	// The blank frame has no sprocket.
	if res.Detected != 2 {
		t.Errorf("Detected: got %d, want 2", res.Detected)
	}
	for i, o := range res.Outcomes {
		if o.Input != paths[i] {
			t.Errorf("outcome %d: input %s, want %s", i, o.Input, paths[i])
		}
		if _, err := os.Stat(o.Output); err != nil {
			t.Errorf("outcome %d: output not written: %v", i, err)
		}
	}
	if res.Outcomes[2].YShift != 0 {
		t.Errorf("blank frame YShift: got %d, want 0", res.Outcomes[2].YShift)
	}
}

func TestHandleToolsCall_SprocketOverlay(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 64, 1000, 400, 460)

	var enc imaging.EncodedImage
	decodeToolResult(t, callTool(t, s, "sprocket_overlay", map[string]interface{}{"path": path}), &enc)

	img := decodeInlinePNG(t, enc)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 1000 {
		t.Errorf("overlay dimensions: got %dx%d, want 64x1000", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestHandleToolsCall_SprocketOverlay_BadColor(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 64, 1000, 400, 460)

	resp := callTool(t, s, "sprocket_overlay", map[string]interface{}{
		"path":   path,
		"colors": map[string]interface{}{"roi": "not-a-color"},
	})
	if resp.Error == nil {
		t.Fatal("expected error for invalid color")
	}
}

func TestHandleToolsCall_SprocketStrip(t *testing.T) {
	s := New()
	path := createFrameFile(t, t.TempDir(), "frame.png", 200, 100, 40, 60)

	var enc imaging.EncodedImage
	decodeToolResult(t, callTool(t, s, "sprocket_strip", map[string]interface{}{
		"path":  path,
		"scale": 2.0,
	}), &enc)

	// Default ROI columns: int(0.01*200)=2 to int(0.09*200)=18.
	if enc.Width != 32 || enc.Height != 200 {
		t.Errorf("strip dimensions: got %dx%d, want 32x200", enc.Width, enc.Height)
	}
}

func TestHandleToolsCall_ImageShift(t *testing.T) {
	s := New()
	// Bright top row on a dark frame.
	path := createFrameFile(t, t.TempDir(), "frame.png", 20, 20, 0, 1)

	tests := []struct {
		border   string
		wantRow0 uint32
	}{
		{"constant", 0},
		{"replicate", 255},
	}

	for _, tt := range tests {
		t.Run(tt.border, func(t *testing.T) {
			var enc imaging.EncodedImage
			decodeToolResult(t, callTool(t, s, "image_shift", map[string]interface{}{
				"path":    path,
				"x_shift": 0,
				"y_shift": 3,
				"border":  tt.border,
			}), &enc)

			img := decodeInlinePNG(t, enc)
			if r, _, _, _ := img.At(10, 3).RGBA(); r>>8 != 255 {
				t.Errorf("row 3: got %d, want 255", r>>8)
			}
			if r, _, _, _ := img.At(10, 5).RGBA(); r>>8 != 0 {
				t.Errorf("row 5: got %d, want 0", r>>8)
			}
			if r, _, _, _ := img.At(10, 0).RGBA(); r>>8 != tt.wantRow0 {
				t.Errorf("row 0: got %d, want %d", r>>8, tt.wantRow0)
			}
		})
	}
}

func TestHandleToolsCall_ImageShift_ToFile(t *testing.T) {
	s := New()
	dir := t.TempDir()
	path := createFrameFile(t, dir, "frame.png", 20, 20, 5, 6)
	out := filepath.Join(dir, "shifted.png")

	var saved savedImageResult
	decodeToolResult(t, callTool(t, s, "image_shift", map[string]interface{}{
		"path":        path,
		"x_shift":     2,
		"y_shift":     0,
		"output_path": out,
	}), &saved)

	if saved.OutputPath != out || saved.Width != 20 || saved.Height != 20 {
		t.Errorf("saved result: got %+v", saved)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()
	for _, tool := range []string{"image_load", "sprocket_detect", "sprocket_overlay", "sprocket_strip"} {
		t.Run(tool, func(t *testing.T) {
			resp := callTool(t, s, tool, map[string]interface{}{"path": "/nonexistent/frame.png"})
			if resp.Error == nil {
				t.Fatal("Expected error for non-existent file")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()
	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("Expected error for invalid tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid json}`),
	}

	resp := s.handleRequest(req)
	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()
	if _, err := s.executeTool("sprocket_detect", json.RawMessage(`{invalid}`)); err == nil {
		t.Error("Expected error for invalid JSON arguments")
	}
}
