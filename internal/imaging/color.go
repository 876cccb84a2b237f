package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a canvas color.
//
// Accepted forms are "#RGB", "#RRGGBB" and "#RRGGBBAA" (the leading '#' is optional),
// plus the keywords "transparent" and "" which both mean fully transparent.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RGB, #RRGGBB or #RRGGBBAA", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// HexOf formats a color as "#RRGGBB", ignoring alpha. Fully transparent colors format
// as "transparent".
func HexOf(c color.Color) string {
	if _, _, _, a := c.RGBA(); a == 0 {
		return "transparent"
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "transparent"
	}
	return strings.ToUpper(cf.Hex())
}
