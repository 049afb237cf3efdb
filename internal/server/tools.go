package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the scanned frame",
	}
}

func outputPathProperty(required bool) map[string]interface{} {
	desc := "Optional path to write the result to; the format follows the extension. When omitted the image is returned as base64 PNG"
	if required {
		desc = "Path to write the aligned frame to; the format follows the extension"
	}
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

func borderProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"constant", "replicate"},
		"description": "How pixels shifted in from outside the frame are filled. Default constant (black)",
		"default":     "constant",
	}
}

// configProperty describes the detection settings accepted by sprocket tools.
// Omitted fields fall back to the server defaults.
func configProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional detection settings overriding the server defaults",
		"properties": map[string]interface{}{
			"roi": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "number"},
				"minItems":    4,
				"maxItems":    4,
				"description": "Fractional search window [x0, x1, y0, y1]. Default [0.01, 0.09, 0.2, 0.8]",
			},
			"thresholds": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"outer": map[string]interface{}{
						"type":        "number",
						"description": "Fraction of the profile peak for the coarse boundaries. Default 0.5",
					},
					"inner": map[string]interface{}{
						"type":        "number",
						"description": "Fraction of the profile peak for the fine boundaries and the horizontal edge. Default 0.2",
					},
				},
			},
			"filter_size": map[string]interface{}{
				"type":        "integer",
				"description": "Odd length of the vertical profile smoothing kernel. Default 25",
			},
			"horizontal_filter_size": map[string]interface{}{
				"type":        "integer",
				"description": "Odd length of the horizontal profile smoothing kernel. Default 5",
			},
			"max_size": map[string]interface{}{
				"type":        "number",
				"description": "Sprocket size sanity value. Default 0.3",
			},
			"horizontal": map[string]interface{}{
				"type":        "boolean",
				"description": "Also search the sprocket's vertical edge and report x_shift. Default false",
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a scanned frame and return its dimensions, channel count and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_shift",
			Description: "Translate a frame by a given pixel offset. Positive x_shift moves content right, positive y_shift moves it down.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x_shift": map[string]interface{}{
						"type":        "integer",
						"description": "Horizontal shift in pixels",
					},
					"y_shift": map[string]interface{}{
						"type":        "integer",
						"description": "Vertical shift in pixels",
					},
					"border":      borderProperty(),
					"output_path": outputPathProperty(false),
				},
				"required": []string{"path", "x_shift", "y_shift"},
			},
		},
		{
			Name:        "sprocket_detect",
			Description: "Locate the sprocket hole in a frame and return the shift that re-centers it, with the intermediate boundaries found by the search.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"config": configProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sprocket_align",
			Description: "Detect the sprocket in a frame, shift the frame into registration and write it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputPathProperty(true),
					"border":      borderProperty(),
					"config":      configProperty(),
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "sprocket_align_batch",
			Description: "Align many frames concurrently. Each input is written to output_dir under its own file name. Frames are aligned independently.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths of the frames to align",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory receiving the aligned frames",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Number of frames processed at once. Default 4",
						"default":     4,
					},
					"border": borderProperty(),
					"config": configProperty(),
				},
				"required": []string{"paths", "output_dir"},
			},
		},
		{
			Name:        "sprocket_overlay",
			Description: "Draw the search window, outer and inner sprocket boundaries and detected center onto the frame for visual inspection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputPathProperty(false),
					"colors": map[string]interface{}{
						"type":        "object",
						"description": "Optional hex colors (#RRGGBB) keyed by roi, outer, inner, center, edge",
					},
					"config": configProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sprocket_strip",
			Description: "Return the full-height edge strip the detector analyzes, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 4.0 to widen a thin strip). Default 1.0",
						"default":     1.0,
					},
					"config": configProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
