package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// DefaultGuideColor is a semi-transparent magenta that stands out on most artwork.
const DefaultGuideColor = "#FF00FF80"

// DrawGuides overlays a proofing grid on a rendered wrap.
//
// Lines are drawn every spacing pixels (one inch when spacing equals the DPI) in the
// given hex color, blended over the artwork. Guides only land on painted pixels: anything
// the renderer left fully transparent, such as the area outside a tapered sector, stays
// untouched.
func DrawGuides(img *image.NRGBA, spacing int, colorHex string) error {
	if spacing <= 0 {
		return fmt.Errorf("guide spacing must be positive, got %d", spacing)
	}
	if colorHex == "" {
		colorHex = DefaultGuideColor
	}
	c, err := ParseColor(colorHex)
	if err != nil {
		return err
	}
	if c.A == 0 {
		return nil
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Vertical lines
	for x := spacing; x < width; x += spacing {
		for y := 0; y < height; y++ {
			blendGuide(img, x, y, c)
		}
	}

	// Horizontal lines
	for y := spacing; y < height; y += spacing {
		for x := 0; x < width; x++ {
			if x%spacing == 0 {
				continue // already drawn by the vertical pass
			}
			blendGuide(img, x, y, c)
		}
	}
	return nil
}

func blendGuide(img *image.NRGBA, x, y int, c color.NRGBA) {
	i := img.PixOffset(x+img.Rect.Min.X, y+img.Rect.Min.Y)
	px := img.Pix[i : i+4 : i+4]
	if px[3] == 0 {
		return
	}
	a := uint32(c.A)
	inv := 255 - a
	px[0] = uint8((uint32(c.R)*a + uint32(px[0])*inv) / 255)
	px[1] = uint8((uint32(c.G)*a + uint32(px[1])*inv) / 255)
	px[2] = uint8((uint32(c.B)*a + uint32(px[2])*inv) / 255)
}
