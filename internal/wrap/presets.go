package wrap

import (
	"sort"
	"strings"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
)

// DefaultDPI is the print resolution used when a request leaves it unset.
const DefaultDPI = 300

// Preset is a named vessel with its printable wrap size and, for tapered vessels, its
// cone dimensions.
type Preset struct {
	Name string              `json:"name"`
	Wrap geometry.Dimensions `json:"wrap"`
	Cone *geometry.ConeSpec  `json:"cone,omitempty"`
}

// Tapered reports whether the preset describes a tapered vessel.
func (p Preset) Tapered() bool { return p.Cone != nil }

var presets = map[string]Preset{
	"20oz Skinny Tapered": {
		Name: "20oz Skinny Tapered",
		Wrap: geometry.Dimensions{Width: 9.3, Height: 8.2},
		Cone: &geometry.ConeSpec{TopDiameter: 2.94, BottomDiameter: 2.78, Height: 8.0},
	},
	"20oz Skinny Straight": {
		Name: "20oz Skinny Straight",
		Wrap: geometry.Dimensions{Width: 9.3, Height: 8.2},
	},
	"11oz Mug": {
		Name: "11oz Mug",
		Wrap: geometry.Dimensions{Width: 8.5, Height: 3.5},
	},
}

// LookupPreset finds a preset by name, ignoring case and surrounding space.
func LookupPreset(name string) (Preset, error) {
	name = strings.TrimSpace(name)
	if p, ok := presets[name]; ok {
		return p.clone(), nil
	}
	for key, p := range presets {
		if strings.EqualFold(key, name) {
			return p.clone(), nil
		}
	}
	return Preset{}, requestErrorf(geometry.ErrInvalidDimensions, "unknown preset %q", name)
}

// Presets returns every preset sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p Preset) clone() Preset {
	if p.Cone != nil {
		cone := *p.Cone
		p.Cone = &cone
	}
	return p
}
