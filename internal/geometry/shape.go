package geometry

import "math"

// Kind tags the variant held by a Shape.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindSector    Kind = "sector"
)

// Point is a canvas position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions is the physical size of a flat wrap, in inches.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rectangle is the wrap shape of a straight-walled vessel, in pixels.
type Rectangle struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Shape is the tagged union of the wrap shapes. Exactly one of Rectangle and Sector is set,
// as indicated by Kind.
type Shape struct {
	Kind      Kind           `json:"kind"`
	Rectangle *Rectangle     `json:"rectangle,omitempty"`
	Sector    *AnnularSector `json:"sector,omitempty"`
}

// Size returns the integer canvas size of the shape's bounding box.
func (s Shape) Size() (width, height int) {
	switch s.Kind {
	case KindRectangle:
		if s.Rectangle != nil {
			return s.Rectangle.Width, s.Rectangle.Height
		}
	case KindSector:
		if s.Sector != nil {
			return s.Sector.CanvasSize()
		}
	}
	return 0, 0
}

// ComputeRectangle converts physical wrap dimensions into a pixel rectangle.
//
// Each side is rounded to the nearest pixel, so 9.3in x 8.2in at 300 DPI is exactly
// 2790x2460. Non-positive or non-finite inputs, or a side that rounds to zero pixels,
// fail with ErrInvalidDimensions.
func ComputeRectangle(dims Dimensions, dpi float64) (Rectangle, error) {
	if err := checkPositive("dpi", dpi); err != nil {
		return Rectangle{}, err
	}
	if err := checkPositive("width", dims.Width); err != nil {
		return Rectangle{}, err
	}
	if err := checkPositive("height", dims.Height); err != nil {
		return Rectangle{}, err
	}

	w := math.Round(dims.Width * dpi)
	h := math.Round(dims.Height * dpi)
	if w < 1 || h < 1 {
		return Rectangle{}, invalidf("%gx%g in at %g dpi is smaller than one pixel", dims.Width, dims.Height, dpi)
	}
	if w > math.MaxInt32 || h > math.MaxInt32 {
		return Rectangle{}, invalidf("%gx%g in at %g dpi overflows the canvas", dims.Width, dims.Height, dpi)
	}
	return Rectangle{Width: int(w), Height: int(h)}, nil
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidf("%s must be finite, got %g", name, v)
	}
	if v <= 0 {
		return invalidf("%s must be positive, got %g", name, v)
	}
	return nil
}
