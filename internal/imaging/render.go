package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
)

// NewCanvas allocates a width x height canvas filled with bg.
func NewCanvas(width, height int, bg color.Color) *image.NRGBA {
	if bg == nil {
		bg = color.Transparent
	}
	return imaging.New(width, height, bg)
}

// RenderStraight stretches src to exactly fill a rectangle canvas.
//
// The source is resampled with a Lanczos filter to rect.Width x rect.Height pixels, so
// its four corners land on the four canvas corners. No tiling and no clipping happen.
// A non-transparent bg shows through wherever src itself is transparent.
func RenderStraight(src image.Image, rect geometry.Rectangle, bg color.Color) (*image.NRGBA, error) {
	if err := checkCanvas(rect.Width, rect.Height); err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	stretched := imaging.Resize(src, rect.Width, rect.Height, imaging.Lanczos)
	if isTransparent(bg) {
		return stretched, nil
	}
	return imaging.Overlay(NewCanvas(rect.Width, rect.Height, bg), stretched, image.Pt(0, 0), 1.0), nil
}

// RenderSeamless repeats src edge to edge across a rectangle canvas.
//
// Tiles are laid out at native resolution starting at the canvas origin (0,0) on both
// axes; the last row and column are cut by the canvas edge.
func RenderSeamless(src image.Image, rect geometry.Rectangle, bg color.Color) (*image.NRGBA, error) {
	if err := checkCanvas(rect.Width, rect.Height); err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	dst := NewCanvas(rect.Width, rect.Height, bg)
	compositeTiled(dst, src, nil)
	return dst, nil
}

// RenderSector repeats src through the annular sector s.
//
// The canvas is the sector's bounding box rounded up to whole pixels and starts filled
// with bg. The tiled pattern has its origin at canvas (0,0) and only pixels covered by the
// sector outline receive it; edge pixels are blended by their anti-aliased coverage.
func RenderSector(src image.Image, s geometry.AnnularSector, bg color.Color) (*image.NRGBA, error) {
	w, h := s.CanvasSize()
	if err := checkCanvas(w, h); err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	mask := SectorMask(s, w, h)
	dst := NewCanvas(w, h, bg)
	compositeTiled(dst, src, mask)
	return dst, nil
}

// coverage is an 8-bit per-pixel coverage source; 0 leaves the destination untouched.
type coverage interface {
	At(x, y int) uint8
}

// compositeTiled draws src repeated from dst's origin over dst, source-over, scaled by
// cov. A nil cov means full coverage. Rows are independent and split across goroutines.
func compositeTiled(dst *image.NRGBA, src image.Image, cov coverage) {
	tile := clone.AsRGBA(src)
	tw, th := tile.Rect.Dx(), tile.Rect.Dy()
	w, h := dst.Rect.Dx(), dst.Rect.Dy()

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			srow := tile.Pix[(y%th)*tile.Stride:]
			drow := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				c := uint32(255)
				if cov != nil {
					c = uint32(cov.At(x, y))
					if c == 0 {
						continue
					}
				}
				si := (x % tw) * 4
				di := x * 4
				blendOver(drow[di:di+4:di+4], srow[si:si+4:si+4], c)
			}
		}
	})
}

// blendOver composites one premultiplied RGBA source pixel, scaled by coverage c, over
// one non-premultiplied NRGBA destination pixel in place.
func blendOver(d, s []uint8, c uint32) {
	sa := uint32(s[3]) * c / 255
	if sa == 0 {
		return
	}
	if sa == 255 {
		// Opaque at full coverage: s is premultiplied by 255, i.e. already straight.
		d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 255
		return
	}

	inv := 255 - sa
	da := uint32(d[3])
	outA := sa + da*inv/255
	if outA == 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	for i := 0; i < 3; i++ {
		sp := uint32(s[i]) * c / 255
		dp := uint32(d[i]) * da / 255
		v := (sp + dp*inv/255) * 255 / outA
		if v > 255 {
			v = 255
		}
		d[i] = uint8(v)
	}
	d[3] = uint8(outA)
}

var errEmptySource = errors.New("source image is empty")

func checkSource(src image.Image) error {
	if src == nil || src.Bounds().Empty() {
		return &LoadError{Source: "<decoded image>", Err: errEmptySource}
	}
	return nil
}

func checkCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d has no pixels", geometry.ErrInvalidDimensions, width, height)
	}
	return nil
}

func isTransparent(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}
