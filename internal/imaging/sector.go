package imaging

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
)

// maxArcStep is the largest angle approximated by a single cubic Bézier segment.
const maxArcStep = math.Pi / 2

// SectorMask rasterizes the outline of s into a width x height anti-aliased coverage
// mask. Values are 255 inside the sector, 0 outside, and fractional along the arcs and
// the two straight edges.
//
// The outline is the outer arc from StartAngle to EndAngle, a straight edge down to the
// inner arc, the inner arc back from EndAngle to StartAngle, and the closing edge.
func SectorMask(s geometry.AnnularSector, width, height int) *gg.Mask {
	dc := gg.NewContext(width, height)
	defer dc.Close()

	cx, cy := s.Center.X, s.Center.Y
	start, end := s.StartAngle(), s.EndAngle()

	dc.MoveTo(cx+s.OuterRadius*math.Cos(start), cy+s.OuterRadius*math.Sin(start))
	arcTo(dc, cx, cy, s.OuterRadius, start, end)
	dc.LineTo(cx+s.InnerRadius*math.Cos(end), cy+s.InnerRadius*math.Sin(end))
	arcTo(dc, cx, cy, s.InnerRadius, end, start)
	dc.ClosePath()

	return dc.AsMask()
}

// arcTo appends a circular arc from angle a1 to angle a2 to the current path, assuming
// the current point is already at angle a1. Unlike gg's own arc helpers it follows the
// sign of a2-a1, so an arc can be traversed clockwise or counter-clockwise.
func arcTo(dc *gg.Context, cx, cy, r, a1, a2 float64) {
	sweep := a2 - a1
	n := int(math.Ceil(math.Abs(sweep) / maxArcStep))
	if n == 0 {
		return
	}
	step := sweep / float64(n)
	for i := 0; i < n; i++ {
		from := a1 + float64(i)*step
		arcSegment(dc, cx, cy, r, from, from+step)
	}
}

// arcSegment appends one cubic Bézier approximating the arc from a1 to a2 (|a2-a1| ≤ π/2).
func arcSegment(dc *gg.Context, cx, cy, r, a1, a2 float64) {
	d := a2 - a1
	t := math.Tan(d / 2)
	alpha := math.Sin(d) * (math.Sqrt(4+3*t*t) - 1) / 3

	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	cos2, sin2 := math.Cos(a2), math.Sin(a2)

	x1, y1 := cx+r*cos1, cy+r*sin1
	x2, y2 := cx+r*cos2, cy+r*sin2

	dc.CubicTo(
		x1-alpha*r*sin1, y1+alpha*r*cos1,
		x2+alpha*r*sin2, y2-alpha*r*cos2,
		x2, y2,
	)
}
