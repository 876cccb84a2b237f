package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestComputeRectangle(t *testing.T) {
	r, err := ComputeRectangle(Dimensions{Width: 9.3, Height: 8.2}, 300)
	if err != nil {
		t.Fatalf("ComputeRectangle failed: %v", err)
	}
	if r.Width != 2790 || r.Height != 2460 {
		t.Errorf("got %dx%d, want 2790x2460", r.Width, r.Height)
	}
}

func TestComputeRectangle_Rejects(t *testing.T) {
	tests := []struct {
		name string
		dims Dimensions
		dpi  float64
	}{
		{"zero width", Dimensions{Width: 0, Height: 8.2}, 300},
		{"negative height", Dimensions{Width: 9.3, Height: -1}, 300},
		{"zero dpi", Dimensions{Width: 9.3, Height: 8.2}, 0},
		{"NaN width", Dimensions{Width: math.NaN(), Height: 8.2}, 300},
		{"sub-pixel", Dimensions{Width: 0.001, Height: 0.001}, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeRectangle(tt.dims, tt.dpi); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("expected ErrInvalidDimensions, got %v", err)
			}
		})
	}
}

func TestShape_Size(t *testing.T) {
	rect := Shape{Kind: KindRectangle, Rectangle: &Rectangle{Width: 10, Height: 20}}
	if w, h := rect.Size(); w != 10 || h != 20 {
		t.Errorf("rectangle Size: got %dx%d", w, h)
	}

	sector := Shape{Kind: KindSector, Sector: &AnnularSector{Width: 10.2, Height: 4.0}}
	if w, h := sector.Size(); w != 11 || h != 4 {
		t.Errorf("sector Size: got %dx%d", w, h)
	}

	if w, h := (Shape{Kind: "bogus"}).Size(); w != 0 || h != 0 {
		t.Errorf("unknown Size: got %dx%d", w, h)
	}
}
