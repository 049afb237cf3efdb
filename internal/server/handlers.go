package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/sprocket-tools-mcp/internal/align"
	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
	"github.com/ironsheep/sprocket-tools-mcp/internal/sprocket"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sprocket_detect", "sprocket_align").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Overlays the optional "config" argument on the server defaults
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/sprocket/align function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_shift":
		return s.handleImageShift(args)

	case "sprocket_detect":
		return s.handleSprocketDetect(args)
	case "sprocket_align":
		return s.handleSprocketAlign(args)
	case "sprocket_align_batch":
		return s.handleSprocketAlignBatch(args)
	case "sprocket_overlay":
		return s.handleSprocketOverlay(args)
	case "sprocket_strip":
		return s.handleSprocketStrip(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// configFor overlays a "config" argument on the server defaults. Fields the
// argument leaves out keep their default values.
func (s *Server) configFor(raw json.RawMessage) (sprocket.Config, error) {
	cfg := s.defaults
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadFrameInfo(s.cache, a.Path)
}

type imageShiftArgs struct {
	Path       string `json:"path"`
	XShift     int    `json:"x_shift"`
	YShift     int    `json:"y_shift"`
	Border     string `json:"border"`
	OutputPath string `json:"output_path"`
}

type savedImageResult struct {
	OutputPath string `json:"output_path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func (s *Server) handleImageShift(args json.RawMessage) (interface{}, error) {
	var a imageShiftArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	border, err := imaging.ParseBorderMode(a.Border)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var shifted image.Image
	if border == imaging.BorderConstant {
		shifted = imaging.ShiftImage(img, a.XShift, a.YShift)
	} else {
		shifted = imaging.ApplyShift(imaging.FromImage(img), a.XShift, a.YShift, border).ToImage()
	}
	return s.emitImage(shifted, a.OutputPath)
}

// emitImage writes img to outputPath when one is given and otherwise
// returns it inline.
func (s *Server) emitImage(img image.Image, outputPath string) (interface{}, error) {
	if outputPath == "" {
		return imaging.EncodePNG(img)
	}
	if err := imaging.SaveImage(img, outputPath); err != nil {
		return nil, err
	}
	return &savedImageResult{
		OutputPath: outputPath,
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
	}, nil
}

// === Sprocket Handlers ===

type sprocketDetectArgs struct {
	Path   string          `json:"path"`
	Config json.RawMessage `json:"config,omitempty"`
}

func (s *Server) handleSprocketDetect(args json.RawMessage) (interface{}, error) {
	var a sprocketDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.configFor(a.Config)
	if err != nil {
		return nil, err
	}
	f, err := s.cache.LoadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	return sprocket.Detect(f, cfg)
}

type sprocketAlignArgs struct {
	Path       string          `json:"path"`
	OutputPath string          `json:"output_path"`
	Border     string          `json:"border"`
	Config     json.RawMessage `json:"config,omitempty"`
}

func (s *Server) handleSprocketAlign(args json.RawMessage) (interface{}, error) {
	var a sprocketAlignArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	aligner, err := s.aligner(a.Config, a.Border)
	if err != nil {
		return nil, err
	}
	return aligner.AlignFile(context.Background(), a.Path, a.OutputPath)
}

type sprocketAlignBatchArgs struct {
	Paths     []string        `json:"paths"`
	OutputDir string          `json:"output_dir"`
	Workers   int             `json:"workers"`
	Border    string          `json:"border"`
	Config    json.RawMessage `json:"config,omitempty"`
}

type alignBatchResult struct {
	Outcomes []align.Outcome `json:"outcomes"`
	Count    int             `json:"count"`
	Detected int             `json:"detected"`
}

func (s *Server) handleSprocketAlignBatch(args json.RawMessage) (interface{}, error) {
	var a sprocketAlignBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}
	if a.Workers == 0 {
		a.Workers = 4
	}
	aligner, err := s.aligner(a.Config, a.Border)
	if err != nil {
		return nil, err
	}
	jobs, err := align.JobsForDir(a.Paths, a.OutputDir)
	if err != nil {
		return nil, err
	}

	outcomes, err := aligner.AlignAll(context.Background(), jobs, a.Workers)
	if err != nil {
		return nil, err
	}

	res := &alignBatchResult{Outcomes: outcomes, Count: len(outcomes)}
	for _, o := range outcomes {
		if o.Detected {
			res.Detected++
		}
	}
	return res, nil
}

func (s *Server) aligner(rawConfig json.RawMessage, border string) (*align.Aligner, error) {
	cfg, err := s.configFor(rawConfig)
	if err != nil {
		return nil, err
	}
	mode, err := imaging.ParseBorderMode(border)
	if err != nil {
		return nil, err
	}
	a := align.New(cfg)
	a.Border = mode
	a.Debug = s.debug
	return a, nil
}

type sprocketOverlayArgs struct {
	Path       string                  `json:"path"`
	OutputPath string                  `json:"output_path"`
	Colors     *sprocket.OverlayColors `json:"colors,omitempty"`
	Config     json.RawMessage         `json:"config,omitempty"`
}

func (s *Server) handleSprocketOverlay(args json.RawMessage) (interface{}, error) {
	var a sprocketOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.configFor(a.Config)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := sprocket.Detect(imaging.FromImage(img), cfg)
	if err != nil {
		return nil, err
	}

	colors := sprocket.DefaultOverlayColors()
	if a.Colors != nil {
		colors = *a.Colors
	}
	out, err := sprocket.Overlay(img, res, colors)
	if err != nil {
		return nil, err
	}
	return s.emitImage(out, a.OutputPath)
}

type sprocketStripArgs struct {
	Path   string          `json:"path"`
	Scale  float64         `json:"scale"`
	Config json.RawMessage `json:"config,omitempty"`
}

func (s *Server) handleSprocketStrip(args json.RawMessage) (interface{}, error) {
	var a sprocketStripArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	cfg, err := s.configFor(a.Config)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	x0, x1, _, _ := cfg.ROI.Pixels(b.Dx(), b.Dy())
	return imaging.CropRegion(img, image.Rect(x0, 0, x1, b.Dy()), a.Scale)
}
