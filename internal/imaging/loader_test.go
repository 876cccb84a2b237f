package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := createInMemoryImage(width, height, c)

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestNewLoader(t *testing.T) {
	l := NewLoader(nil)
	if l == nil {
		t.Fatal("NewLoader returned nil")
	}
	if l.client == nil {
		t.Fatal("NewLoader did not set a default client")
	}
	if l.maxBytes != DefaultMaxSourceBytes {
		t.Errorf("maxBytes: got %d, want %d", l.maxBytes, DefaultMaxSourceBytes)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})
	defer os.Remove(path)

	img, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", bounds.Dx(), bounds.Dy())
	}
}

func TestLoader_LoadFailures(t *testing.T) {
	badFile, err := os.CreateTemp("", "invalid-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	badFile.WriteString("this is not an image")
	badFile.Close()
	defer os.Remove(badFile.Name())

	tests := []struct {
		name   string
		source string
	}{
		{"empty source", ""},
		{"non-existent file", "/nonexistent/path/image.png"},
		{"invalid image", badFile.Name()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Load(context.Background(), tt.source)
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !errors.Is(err, ErrImageLoad) {
				t.Errorf("error %v does not wrap ErrImageLoad", err)
			}
			var le *LoadError
			if !errors.As(err, &le) || le.Source != tt.source {
				t.Errorf("expected *LoadError for %q, got %#v", tt.source, err)
			}
		})
	}
}

func TestLoader_LoadRemote(t *testing.T) {
	payload := encodePNG(t, createPatternImage(40, 20))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(payload)
		case "/garbage.png":
			w.Write([]byte("<html>blocked</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())

	img, err := l.Load(context.Background(), srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %v", img.Bounds())
	}

	for _, path := range []string{"/missing.png", "/garbage.png"} {
		if _, err := l.Load(context.Background(), srv.URL+path); !errors.Is(err, ErrImageLoad) {
			t.Errorf("%s: expected ErrImageLoad, got %v", path, err)
		}
	}
}

func TestLoader_LoadRemoteTooLarge(t *testing.T) {
	payload := encodePNG(t, createPatternImage(40, 20))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())
	l.maxBytes = 16

	if _, err := l.Load(context.Background(), srv.URL+"/big.png"); !errors.Is(err, ErrImageLoad) {
		t.Errorf("expected ErrImageLoad, got %v", err)
	}
}

func TestLoader_LoadRemoteCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLoader(srv.Client()).Load(ctx, srv.URL+"/slow.png"); !errors.Is(err, ErrImageLoad) {
		t.Errorf("expected ErrImageLoad, got %v", err)
	}
}

func TestLoader_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})
	defer os.Remove(path)

	l := NewLoader(nil)
	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Load(context.Background(), path); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent load error: %v", err)
	}
}

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"https://img.example.com/a.jpg": true,
		"http://localhost/a.png":        true,
		"/tmp/a.png":                    false,
		"file:///tmp/a.png":             false,
		"":                              false,
	}
	for in, want := range tests {
		if got := IsRemote(in); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 200, 150, color.RGBA{255, 0, 0, 255})
	defer os.Remove(path)

	info, err := LoadImageInfo(context.Background(), NewLoader(nil), path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.Source != path {
		t.Errorf("Source: got %s, want %s", info.Source, path)
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	dir := t.TempDir()
	payload := encodePNG(t, createInMemoryImage(10, 10, color.White))

	tests := []struct {
		filename string
		want     string
	}{
		{"test.png", "png"},
		{"test.PNG", "png"},
		{"test.jpg", "jpeg"},
		{"test.jpeg", "jpeg"},
		{"test.gif", "gif"},
		{"test.webp", "webp"},
		{"test.bmp", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			// The decoder sniffs content, so PNG bytes load under any name.
			path := filepath.Join(dir, tt.filename)
			if err := os.WriteFile(path, payload, 0o644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}
			info, err := LoadImageInfo(context.Background(), NewLoader(nil), path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.want {
				t.Errorf("Format: got %s, want %s", info.Format, tt.want)
			}
		})
	}
}

func TestLoadImageInfo_RemoteQueryString(t *testing.T) {
	payload := encodePNG(t, createInMemoryImage(12, 8, color.White))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	info, err := LoadImageInfo(context.Background(), NewLoader(srv.Client()), srv.URL+"/photo.png?w=1200&fm=webp")
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "png" || info.Width != 12 || info.Height != 8 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	if _, err := LoadImageInfo(context.Background(), NewLoader(nil), "/nonexistent/image.png"); err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}
