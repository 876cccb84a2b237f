package wrap

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
	"github.com/ironsheep/tumbler-wrap/internal/imaging"
)

// Type selects how the source image is laid onto the wrap.
type Type string

const (
	TypeStraight Type = "straight"
	TypeSeamless Type = "seamless"
	TypeTapered  Type = "tapered"
)

// DefaultMaxPixels caps the canvas area of a single render (120 megapixels).
const DefaultMaxPixels = 120_000_000

// ParseType accepts a wrap type name in any case.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeStraight, TypeSeamless, TypeTapered:
		return t, nil
	default:
		return "", requestErrorf(ErrUnsupportedWrapType, "%q (want straight, seamless or tapered)", s)
	}
}

// Request describes one wrap to generate.
//
// The vessel comes from Cone or Dimensions when set, falling back to the named Preset.
// Tapered wraps need a cone; straight and seamless wraps need flat dimensions.
type Request struct {
	WrapType   Type
	Preset     string
	Cone       *geometry.ConeSpec
	Dimensions *geometry.Dimensions

	// DPI is the print resolution; zero means DefaultDPI.
	DPI float64

	Source     image.Image
	Background color.Color

	// Guides draws a one-inch proofing grid over the output in GuideColor.
	Guides     bool
	GuideColor string

	// FullWidthSector keeps the tapered canvas as wide as the full outer circle instead
	// of trimming it to the sector.
	FullWidthSector bool

	// MaxPixels bounds the canvas area; zero means DefaultMaxPixels.
	MaxPixels int
}

// Result is a rendered wrap.
type Result struct {
	Image    *image.NRGBA
	WrapType Type
	Shape    geometry.Shape
	DPI      float64
}

// Resolve computes the shape a request renders into without touching its source image.
func Resolve(req Request) (geometry.Shape, error) {
	t, err := ParseType(string(req.WrapType))
	if err != nil {
		return geometry.Shape{}, err
	}
	dpi := req.dpi()

	var preset *Preset
	if req.Preset != "" {
		p, err := LookupPreset(req.Preset)
		if err != nil {
			return geometry.Shape{}, err
		}
		preset = &p
	}

	var shape geometry.Shape
	switch t {
	case TypeTapered:
		cone := req.Cone
		if cone == nil && preset != nil {
			cone = preset.Cone
		}
		if cone == nil {
			return geometry.Shape{}, requestErrorf(geometry.ErrInvalidDimensions, "tapered wrap needs cone dimensions or a tapered preset")
		}
		s, err := geometry.ComputeSector(*cone, dpi)
		if err != nil {
			return geometry.Shape{}, err
		}
		if !req.FullWidthSector {
			s = s.Trim()
		}
		shape = geometry.Shape{Kind: geometry.KindSector, Sector: &s}

	default:
		dims := req.Dimensions
		if dims == nil && preset != nil {
			dims = &preset.Wrap
		}
		if dims == nil {
			return geometry.Shape{}, requestErrorf(geometry.ErrInvalidDimensions, "%s wrap needs width and height or a preset", t)
		}
		r, err := geometry.ComputeRectangle(*dims, dpi)
		if err != nil {
			return geometry.Shape{}, err
		}
		shape = geometry.Shape{Kind: geometry.KindRectangle, Rectangle: &r}
	}

	w, h := shape.Size()
	if limit := req.maxPixels(); float64(w)*float64(h) > float64(limit) {
		if shape.Kind == geometry.KindSector && req.FullWidthSector {
			tw, th := shape.Sector.Trim().CanvasSize()
			return geometry.Shape{}, requestErrorf(geometry.ErrInvalidDimensions,
				"%dx%d full-width canvas exceeds the %d pixel limit; without full width the sector fits %dx%d",
				w, h, limit, tw, th)
		}
		return geometry.Shape{}, requestErrorf(geometry.ErrInvalidDimensions,
			"%dx%d canvas exceeds the %d pixel limit", w, h, limit)
	}
	if req.Guides && guideSpacing(dpi) < 1 {
		return geometry.Shape{}, requestErrorf(geometry.ErrInvalidDimensions,
			"guides need at least 1 pixel per inch, got %g dpi", dpi)
	}
	return shape, nil
}

// guideSpacing is the pixel distance between one-inch guide lines.
func guideSpacing(dpi float64) int { return int(math.Round(dpi)) }

// Generate renders the request's source image into its wrap shape.
func Generate(req Request) (*Result, error) {
	shape, err := Resolve(req)
	if err != nil {
		return nil, err
	}
	t := Type(strings.ToLower(strings.TrimSpace(string(req.WrapType))))

	var img *image.NRGBA
	switch t {
	case TypeStraight:
		img, err = imaging.RenderStraight(req.Source, *shape.Rectangle, req.Background)
	case TypeSeamless:
		img, err = imaging.RenderSeamless(req.Source, *shape.Rectangle, req.Background)
	case TypeTapered:
		img, err = imaging.RenderSector(req.Source, *shape.Sector, req.Background)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s wrap: %w", t, err)
	}

	dpi := req.dpi()
	if req.Guides {
		if err := imaging.DrawGuides(img, guideSpacing(dpi), req.GuideColor); err != nil {
			return nil, fmt.Errorf("draw guides: %w", err)
		}
	}

	return &Result{Image: img, WrapType: t, Shape: shape, DPI: dpi}, nil
}

func (r Request) dpi() float64 {
	if r.DPI == 0 {
		return DefaultDPI
	}
	return r.DPI
}

func (r Request) maxPixels() int {
	if r.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return r.MaxPixels
}
