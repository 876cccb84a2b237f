package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrImageLoad reports a source image that could not be fetched or decoded.
var ErrImageLoad = errors.New("image load failure")

// LoadError wraps ErrImageLoad with the source that failed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", ErrImageLoad, e.Source, e.Err)
}

func (e *LoadError) Is(target error) bool { return target == ErrImageLoad }

func (e *LoadError) Unwrap() error { return e.Err }

// DefaultMaxSourceBytes bounds how much of a remote image is read.
const DefaultMaxSourceBytes = 64 << 20

// Loader decodes source images from local paths or http(s) URLs.
//
// A Loader holds no decoded images: every Load call fetches and decodes again. It is
// safe for concurrent use as long as its HTTP client is.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// NewLoader creates a loader using client for remote sources. A nil client gets a
// default client with a 30 second timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{
		client:   client,
		maxBytes: DefaultMaxSourceBytes,
	}
}

// IsRemote reports whether source names an http or https URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load fetches and decodes the image named by source.
//
// Parameters:
//   - ctx: Bounds the network fetch for remote sources.
//   - source: A file path, or an http/https URL. Supported formats are PNG, JPEG, GIF
//     and WebP.
//
// Returns:
//   - image.Image: The decoded image, rotated upright according to its EXIF
//     orientation tag when present.
//   - error: A *LoadError wrapping ErrImageLoad if the source cannot be read or decoded.
func (l *Loader) Load(ctx context.Context, source string) (image.Image, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &LoadError{Source: source, Err: errors.New("no source given")}
	}

	var (
		data []byte
		err  error
	)
	if IsRemote(source) {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = fmt.Errorf("failed to open image: %w", err)
		}
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}

// ImageInfo contains metadata about a loaded source image.
type ImageInfo struct {
	// Source is the path or URL the image was loaded from.
	Source string `json:"source"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format guessed from the source extension: "png", "jpeg", "gif",
	// "webp", or "unknown".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`
}

// LoadImageInfo loads a source and returns its dimensions and format metadata.
//
// The format is determined by the extension of the path (or of the URL path, ignoring
// any query string). Alpha detection is based on the decoded Go image type.
func LoadImageInfo(ctx context.Context, l *Loader, source string) (*ImageInfo, error) {
	img, err := l.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	name := source
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	format := "unknown"
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".webp":
		format = "webp"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Source:   source,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
		HasAlpha: hasAlpha,
	}, nil
}
