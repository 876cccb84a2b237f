package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func coneProperties(props map[string]interface{}) map[string]interface{} {
	props["top_diameter"] = map[string]interface{}{
		"type":        "number",
		"description": "Diameter of the top rim in inches",
	}
	props["bottom_diameter"] = map[string]interface{}{
		"type":        "number",
		"description": "Diameter of the bottom rim in inches (smaller than the top)",
	}
	props["height"] = map[string]interface{}{
		"type":        "number",
		"description": "Vertical height of the printable area in inches",
	}
	props["dpi"] = map[string]interface{}{
		"type":        "number",
		"description": "Print resolution. Default 300",
		"default":     300,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Vessel Geometry
		{
			Name:        "wrap_presets",
			Description: "List the built-in vessel presets with their wrap size and, for tapered vessels, cone dimensions.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "wrap_compute_sector",
			Description: "Unroll a tapered cup (a cone frustum) into the annular sector a flat print must take. Returns radii and canvas size in pixels and the angle span in radians.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": coneProperties(map[string]interface{}{
					"full_width": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep the canvas as wide as the full outer circle instead of trimming it to the sector. Large cups usually exceed the pixel limit this way. Default false",
						"default":     false,
					},
				}),
				"required": []string{"top_diameter", "bottom_diameter", "height"},
			},
		},

		// Wrap Generation
		{
			Name:        "wrap_generate",
			Description: "Render an image into a print-ready tumbler wrap and write it to disk. straight stretches the image over the wrap rectangle, seamless tiles it, tapered tiles it through the unrolled cone sector. Returns the output path, size and a small preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": coneProperties(map[string]interface{}{
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path or http(s) URL of the source image",
					},
					"wrap_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"straight", "seamless", "tapered"},
						"description": "How the image is laid onto the wrap",
					},
					"preset": map[string]interface{}{
						"type":        "string",
						"description": "Vessel preset name (see wrap_presets). Explicit dimensions take precedence",
					},
					"wrap_width": map[string]interface{}{
						"type":        "number",
						"description": "Flat wrap width in inches for straight and seamless wraps",
					},
					"wrap_height": map[string]interface{}{
						"type":        "number",
						"description": "Flat wrap height in inches for straight and seamless wraps",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Canvas color as #RRGGBB, #RRGGBBAA or transparent",
					},
					"guides": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw a one-inch proofing grid over the output",
						"default":     false,
					},
					"full_width": map[string]interface{}{
						"type":        "boolean",
						"description": "For tapered wraps, keep the full outer-circle canvas width instead of trimming it to the sector. Default false",
						"default":     false,
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output file path (.png or .tif). Defaults to a timestamped name in the output directory",
					},
					"preview_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest side of the returned preview. 0 uses 512, -1 disables the preview",
						"default":     0,
					},
				}),
				"required": []string{"source", "wrap_type"},
			},
		},

		// Source Images
		{
			Name:        "image_load",
			Description: "Load an image from a file path or URL and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path or http(s) URL of the image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_search",
			Description: "Search Freepik for stock photos. Returns ids, titles and image URLs usable as wrap_generate sources.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Search terms",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results, up to 100. 0 uses the configured limit",
						"default":     0,
					},
				},
				"required": []string{"query"},
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
