package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
	"github.com/ironsheep/tumbler-wrap/internal/imaging"
	"github.com/ironsheep/tumbler-wrap/internal/search"
	"github.com/ironsheep/tumbler-wrap/internal/wrap"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "wrap_generate").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool done", "tool", params.Name, "elapsed", time.Since(start))

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Vessel Geometry
	case "wrap_presets":
		return s.handleWrapPresets()
	case "wrap_compute_sector":
		return s.handleWrapComputeSector(args)

	// Wrap Generation
	case "wrap_generate":
		return s.handleWrapGenerate(ctx, args)

	// Source Images
	case "image_load":
		return s.handleImageLoad(ctx, args)
	case "image_search":
		return s.handleImageSearch(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Vessel Geometry Handlers ===

type presetsResult struct {
	DPI     float64       `json:"dpi"`
	Presets []wrap.Preset `json:"presets"`
}

func (s *Server) handleWrapPresets() (interface{}, error) {
	return presetsResult{DPI: s.dpi(0), Presets: wrap.Presets()}, nil
}

type coneArgs struct {
	TopDiameter    float64 `json:"top_diameter"`
	BottomDiameter float64 `json:"bottom_diameter"`
	Height         float64 `json:"height"`
	DPI            float64 `json:"dpi"`
}

func (a coneArgs) present() bool {
	return a.TopDiameter != 0 || a.BottomDiameter != 0 || a.Height != 0
}

func (a coneArgs) spec() geometry.ConeSpec {
	return geometry.ConeSpec{TopDiameter: a.TopDiameter, BottomDiameter: a.BottomDiameter, Height: a.Height}
}

type computeSectorArgs struct {
	coneArgs
	FullWidth bool `json:"full_width"`
}

type sectorResult struct {
	DPI          float64                `json:"dpi"`
	Frustum      geometry.Frustum       `json:"frustum"`
	Sector       geometry.AnnularSector `json:"sector"`
	StartAngle   float64                `json:"start_angle"`
	EndAngle     float64                `json:"end_angle"`
	CanvasWidth  int                    `json:"canvas_width"`
	CanvasHeight int                    `json:"canvas_height"`
}

func (s *Server) handleWrapComputeSector(args json.RawMessage) (interface{}, error) {
	var a computeSectorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dpi := s.dpi(a.DPI)

	f, err := geometry.Unroll(a.spec())
	if err != nil {
		return nil, err
	}
	sector, err := geometry.ComputeSector(a.spec(), dpi)
	if err != nil {
		return nil, err
	}
	if !a.FullWidth {
		sector = sector.Trim()
	}
	w, h := sector.CanvasSize()

	return sectorResult{
		DPI:          dpi,
		Frustum:      f,
		Sector:       sector,
		StartAngle:   sector.StartAngle(),
		EndAngle:     sector.EndAngle(),
		CanvasWidth:  w,
		CanvasHeight: h,
	}, nil
}

// === Wrap Generation Handlers ===

type wrapGenerateArgs struct {
	coneArgs
	Source      string  `json:"source"`
	WrapType    string  `json:"wrap_type"`
	Preset      string  `json:"preset"`
	WrapWidth   float64 `json:"wrap_width"`
	WrapHeight  float64 `json:"wrap_height"`
	Background  string  `json:"background"`
	Guides      bool    `json:"guides"`
	FullWidth   bool    `json:"full_width"`
	Output      string  `json:"output"`
	PreviewSize int     `json:"preview_size"`
}

type wrapGenerateResult struct {
	Path     string                 `json:"path"`
	WrapType wrap.Type              `json:"wrap_type"`
	Width    int                    `json:"width"`
	Height   int                    `json:"height"`
	DPI      float64                `json:"dpi"`
	Shape    geometry.Shape         `json:"shape"`
	Preview  *imaging.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleWrapGenerate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a wrapGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" {
		return nil, fmt.Errorf("source is required")
	}

	bgHex := a.Background
	if bgHex == "" {
		bgHex = s.cfg.Background
	}
	bg, err := imaging.ParseColor(bgHex)
	if err != nil {
		return nil, err
	}

	req := wrap.Request{
		WrapType:        wrap.Type(a.WrapType),
		Preset:          a.Preset,
		DPI:             s.dpi(a.DPI),
		Background:      bg,
		Guides:          a.Guides,
		GuideColor:      s.cfg.GuideColor,
		FullWidthSector: a.FullWidth,
		MaxPixels:       s.cfg.MaxPixels,
	}
	if a.present() {
		cone := a.spec()
		req.Cone = &cone
	}
	if a.WrapWidth != 0 || a.WrapHeight != 0 {
		req.Dimensions = &geometry.Dimensions{Width: a.WrapWidth, Height: a.WrapHeight}
	}

	// Fail on bad geometry before loading the source.
	if _, err := wrap.Resolve(req); err != nil {
		return nil, err
	}

	src, err := s.loader.Load(ctx, a.Source)
	if err != nil {
		return nil, err
	}
	req.Source = src

	res, err := wrap.Generate(req)
	if err != nil {
		return nil, err
	}

	path := a.Output
	if path == "" {
		name := wrap.Filename(s.cfg.Product, string(res.WrapType), time.Now(), imaging.FormatPNG)
		path = filepath.Join(s.outputDir(), name)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(path, res.Image); err != nil {
		return nil, err
	}

	w, h := res.Shape.Size()
	out := wrapGenerateResult{
		Path:     path,
		WrapType: res.WrapType,
		Width:    w,
		Height:   h,
		DPI:      res.DPI,
		Shape:    res.Shape,
	}
	if a.PreviewSize >= 0 {
		preview, err := imaging.Preview(res.Image, a.PreviewSize)
		if err != nil {
			return nil, err
		}
		out.Preview = preview
	}

	s.logger.Info("wrap written", "path", path, "wrap", res.WrapType, "width", w, "height", h)
	return out, nil
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(ctx, s.loader, a.Path)
}

type imageSearchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type imageSearchResult struct {
	Query   string                   `json:"query"`
	Count   int                      `json:"count"`
	Results []search.ImageDescriptor `json:"results"`
}

func (s *Server) handleImageSearch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	results, err := s.searcher.Search(ctx, a.Query, a.Limit)
	if err != nil {
		return nil, err
	}
	return imageSearchResult{Query: a.Query, Count: len(results), Results: results}, nil
}

func (s *Server) dpi(requested float64) float64 {
	if requested != 0 {
		return requested
	}
	if s.cfg.DPI > 0 {
		return s.cfg.DPI
	}
	return wrap.DefaultDPI
}

func (s *Server) outputDir() string {
	if s.cfg.OutputDir == "" {
		return "."
	}
	return s.cfg.OutputDir
}
