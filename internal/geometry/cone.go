package geometry

import "math"

// ConeSpec describes a tapered vessel as a frustum, in inches.
//
// The top rim must be wider than the bottom: TopDiameter > BottomDiameter > 0.
// A vessel with equal diameters is a cylinder and takes the rectangle path instead.
type ConeSpec struct {
	TopDiameter    float64 `json:"top_diameter"`
	BottomDiameter float64 `json:"bottom_diameter"`
	Height         float64 `json:"height"`
}

// Validate reports whether the spec describes a frustum that can be unrolled.
func (c ConeSpec) Validate() error {
	if err := checkPositive("top diameter", c.TopDiameter); err != nil {
		return err
	}
	if err := checkPositive("bottom diameter", c.BottomDiameter); err != nil {
		return err
	}
	if err := checkPositive("height", c.Height); err != nil {
		return err
	}
	if c.TopDiameter == c.BottomDiameter {
		return invalidf("top and bottom diameters are equal (%g): use a straight wrap", c.TopDiameter)
	}
	if c.TopDiameter < c.BottomDiameter {
		return invalidf("top diameter %g must exceed bottom diameter %g", c.TopDiameter, c.BottomDiameter)
	}
	return nil
}

// Frustum holds the physical measurements derived from a ConeSpec, in inches.
type Frustum struct {
	TopRadius    float64 `json:"top_radius"`
	BottomRadius float64 `json:"bottom_radius"`

	// SlantHeight is the distance along the side wall from the top rim to the bottom rim.
	SlantHeight float64 `json:"slant_height"`

	// FullConeSlantHeight is the slant distance from the top rim to the apex of the full
	// cone the frustum is cut from. It is the outer radius of the unrolled shape.
	FullConeSlantHeight float64 `json:"full_cone_slant_height"`
}

// Unroll computes the physical frustum measurements of a validated spec.
func Unroll(c ConeSpec) (Frustum, error) {
	if err := c.Validate(); err != nil {
		return Frustum{}, err
	}

	topR := c.TopDiameter / 2
	bottomR := c.BottomDiameter / 2
	taper := topR - bottomR
	slant := math.Sqrt(c.Height*c.Height + taper*taper)
	full := topR * slant / taper

	if !finite(slant, full) {
		return Frustum{}, invalidf("cone %gx%gx%g overflows", c.TopDiameter, c.BottomDiameter, c.Height)
	}
	return Frustum{
		TopRadius:           topR,
		BottomRadius:        bottomR,
		SlantHeight:         slant,
		FullConeSlantHeight: full,
	}, nil
}

// AnnularSector is the unrolled lateral surface of a frustum, in pixels.
//
// The outer arc is the top rim and the inner arc the bottom rim. Both are centered on
// Center and span AngleSpan radians symmetrically about the upward direction, i.e. the
// angles [-π/2 - AngleSpan/2, -π/2 + AngleSpan/2] in canvas coordinates.
type AnnularSector struct {
	OuterRadius float64 `json:"outer_radius"`
	InnerRadius float64 `json:"inner_radius"`
	AngleSpan   float64 `json:"angle_span"`
	Center      Point   `json:"center"`

	// Width and Height are the bounding box of the canvas the sector is drawn on.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComputeSector unrolls a frustum into the annular sector a flat image must be mapped onto
// at the given resolution.
//
// The outer radius is the full cone slant height and the inner radius is shorter by the
// frustum slant height. The angle span follows from arc length = radius x angle applied to
// the top rim circumference. The bounding box is 2·OuterRadius wide and
// OuterRadius - InnerRadius·cos(AngleSpan/2) tall, with the center at
// (OuterRadius, OuterRadius).
//
// That height only describes the sector while AngleSpan < π, so extremely flared cones
// fail with ErrInvalidDimensions, as do a non-positive DPI and any spec rejected by
// ConeSpec.Validate. The function is pure: identical inputs give bit-identical results.
func ComputeSector(c ConeSpec, dpi float64) (AnnularSector, error) {
	if err := checkPositive("dpi", dpi); err != nil {
		return AnnularSector{}, err
	}
	f, err := Unroll(c)
	if err != nil {
		return AnnularSector{}, err
	}

	outer := f.FullConeSlantHeight * dpi
	inner := outer - f.SlantHeight*dpi
	topCircumference := 2 * math.Pi * f.TopRadius * dpi
	theta := topCircumference / outer

	if !finite(outer, inner, theta) {
		return AnnularSector{}, invalidf("cone %gx%gx%g at %g dpi overflows", c.TopDiameter, c.BottomDiameter, c.Height, dpi)
	}
	if !(inner > 0) || !(theta > 0) {
		return AnnularSector{}, invalidf("cone %gx%gx%g at %g dpi has no area", c.TopDiameter, c.BottomDiameter, c.Height, dpi)
	}
	if theta >= math.Pi {
		return AnnularSector{}, invalidf("cone %gx%gx%g unrolls to %.4f rad, wraps of π rad or more are not supported",
			c.TopDiameter, c.BottomDiameter, c.Height, theta)
	}

	width := 2 * outer
	return AnnularSector{
		OuterRadius: outer,
		InnerRadius: inner,
		AngleSpan:   theta,
		Center:      Point{X: width / 2, Y: outer},
		Width:       width,
		Height:      outer - inner*math.Cos(theta/2),
	}, nil
}

// StartAngle is the angle of the left end of both arcs.
func (s AnnularSector) StartAngle() float64 { return -math.Pi/2 - s.AngleSpan/2 }

// EndAngle is the angle of the right end of both arcs.
func (s AnnularSector) EndAngle() float64 { return -math.Pi/2 + s.AngleSpan/2 }

// Trim returns the same sector on the narrowest canvas that holds it.
//
// ComputeSector sizes the canvas as wide as the full outer circle, which for a gently
// tapered cup is tens of thousands of pixels of empty space. The trimmed canvas is
// 2·OuterRadius·sin(AngleSpan/2) wide and the center moves with it; radii, angle and
// height are unchanged.
func (s AnnularSector) Trim() AnnularSector {
	t := s
	t.Width = 2 * s.OuterRadius * math.Sin(s.AngleSpan/2)
	t.Center.X = t.Width / 2
	return t
}

// CanvasSize rounds the bounding box up to whole pixels.
func (s AnnularSector) CanvasSize() (width, height int) {
	return int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
}

// Contains reports whether the canvas point (x, y) lies inside the sector.
func (s AnnularSector) Contains(x, y float64) bool {
	dx := x - s.Center.X
	dy := y - s.Center.Y
	r := math.Hypot(dx, dy)
	if r < s.InnerRadius || r > s.OuterRadius {
		return false
	}
	// Angle away from straight up, measured in the canvas frame.
	off := math.Atan2(dx, -dy)
	return math.Abs(off) <= s.AngleSpan/2
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
