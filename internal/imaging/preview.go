package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultPreviewSize is the longest side, in pixels, of previews returned to tool clients.
const DefaultPreviewSize = 512

// PreviewResult contains a downscaled copy of a rendered wrap.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview scales img to fit within maxSide x maxSide, preserving aspect ratio, and
// returns it as a base64 PNG. Images already small enough are encoded unchanged.
func Preview(img image.Image, maxSide int) (*PreviewResult, error) {
	if maxSide <= 0 {
		maxSide = DefaultPreviewSize
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot preview an empty image")
	}

	small := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       small.Bounds().Dx(),
		Height:      small.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
