package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/tumbler-wrap/internal/config"
	"github.com/ironsheep/tumbler-wrap/internal/imaging"
	"github.com/ironsheep/tumbler-wrap/internal/search"
)

type fakeSearcher struct {
	results []search.ImageDescriptor
	err     error
	calls   int
	query   string
	limit   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]search.ImageDescriptor, error) {
	f.calls++
	f.query = query
	f.limit = limit
	return f.results, f.err
}

type fakeLoader struct {
	img   image.Image
	err   error
	calls int
}

func (f *fakeLoader) Load(ctx context.Context, source string) (image.Image, error) {
	f.calls++
	return f.img, f.err
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func newTestServer(s Searcher, l ImageLoader) *Server {
	cfg := config.Default()
	srv := New(cfg, s, l, nil)
	srv.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return srv
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %q", rec.Body.String())
	}
	return body.Error
}

func TestSearch_OK(t *testing.T) {
	fs := &fakeSearcher{results: []search.ImageDescriptor{
		{ID: "1", Title: "Roses", URLs: search.ImageURLs{Regular: "https://img/1.jpg", Thumb: "https://img/1t.jpg"}},
	}}
	h := newTestServer(fs, &fakeLoader{}).Handler()

	rec := do(t, h, "/search?query=red+roses")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if fs.query != "red roses" {
		t.Errorf("query: got %q", fs.query)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header: got %q", got)
	}

	var body struct {
		Data []search.ImageDescriptor `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].URLs.Regular != "https://img/1.jpg" {
		t.Errorf("data: got %+v", body.Data)
	}
}

func TestSearch_Limit(t *testing.T) {
	fs := &fakeSearcher{}
	h := newTestServer(fs, nil).Handler()

	if rec := do(t, h, "/search?query=cats&limit=10"); rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if fs.limit != 10 {
		t.Errorf("limit: got %d, want 10", fs.limit)
	}

	if rec := do(t, h, "/search?query=cats"); rec.Code != http.StatusOK || fs.limit != 0 {
		t.Errorf("no limit: status %d, limit %d", rec.Code, fs.limit)
	}

	for _, bad := range []string{"0", "-3", "ten"} {
		rec := do(t, h, "/search?query=cats&limit="+bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status %d, want 400", bad, rec.Code)
		}
	}
	if fs.calls != 2 {
		t.Errorf("searcher calls: got %d, want 2", fs.calls)
	}
}

func TestSearch_LegacyPath(t *testing.T) {
	fs := &fakeSearcher{}
	rec := do(t, newTestServer(fs, nil).Handler(), "/api/search?query=cats")
	if rec.Code != http.StatusOK || fs.calls != 1 {
		t.Errorf("status %d, calls %d", rec.Code, fs.calls)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	fs := &fakeSearcher{}
	h := newTestServer(fs, nil).Handler()

	for _, target := range []string{"/search", "/search?query=", "/search?query=%20%20"} {
		rec := do(t, h, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", target, rec.Code)
		}
		if msg := decodeError(t, rec); msg != "Search query is required." {
			t.Errorf("%s: message %q", target, msg)
		}
	}
	if fs.calls != 0 {
		t.Errorf("searcher called %d times for empty queries", fs.calls)
	}
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing key", search.ErrMissingAPIKey, 500, "API key is not configured on the server."},
		{"upstream 401", &search.GatewayError{Status: 401, Message: "Invalid API key"}, 401, "Freepik API Error: Invalid API key"},
		{"transport", &search.GatewayError{Message: "request failed", Err: errors.New("dial tcp: refused")}, 502, "Failed to fetch images from Freepik."},
		{"unexpected", errors.New("boom"), 500, "An internal server error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeSearcher{err: tt.err}, nil).Handler()
			rec := do(t, h, "/search?query=x")
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if msg := decodeError(t, rec); msg != tt.wantMsg {
				t.Errorf("message: got %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestGenerate_Straight(t *testing.T) {
	fl := &fakeLoader{img: solidImage(10, 10, color.RGBA{0, 0, 255, 255})}
	h := newTestServer(&fakeSearcher{}, fl).Handler()

	rec := do(t, h, "/generate?url=https://img/1.jpg&wrap=straight&width=2&wrap_height=1&dpi=20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: got %q", ct)
	}
	wantDisp := `attachment; filename="freepik-straight-wrap-1700000000000.png"`
	if got := rec.Header().Get("Content-Disposition"); got != wantDisp {
		t.Errorf("content disposition: got %q, want %q", got, wantDisp)
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("size: got %v, want 40x20", img.Bounds())
	}
}

func TestGenerate_TaperedPresetTIFF(t *testing.T) {
	fl := &fakeLoader{img: solidImage(16, 16, color.RGBA{255, 0, 0, 255})}
	srv := newTestServer(&fakeSearcher{}, fl)
	h := srv.Handler()

	rec := do(t, h, "/generate?url=https://img/1.jpg&wrap=tapered&top=4&bottom=2.5&height=6&dpi=20&format=tiff")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/tiff" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.HasSuffix(rec.Header().Get("Content-Disposition"), `.tif"`) {
		t.Errorf("content disposition: got %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		loader     *fakeLoader
		wantStatus int
		wantLoads  int
	}{
		{"missing url", "/generate?wrap=straight&preset=11oz+Mug", &fakeLoader{}, 400, 0},
		{"local path", "/generate?url=/etc/passwd&preset=11oz+Mug", &fakeLoader{}, 400, 0},
		{"unsupported wrap", "/generate?url=https://img/1.jpg&wrap=spiral&preset=11oz+Mug", &fakeLoader{}, 400, 0},
		{"cylinder cone", "/generate?url=https://img/1.jpg&wrap=tapered&top=3&bottom=3&height=8", &fakeLoader{}, 400, 0},
		{"non-numeric", "/generate?url=https://img/1.jpg&width=wide&wrap_height=2", &fakeLoader{}, 400, 0},
		{"bad format", "/generate?url=https://img/1.jpg&preset=11oz+Mug&format=gif", &fakeLoader{}, 400, 0},
		{"bad background", "/generate?url=https://img/1.jpg&preset=11oz+Mug&background=%23zz", &fakeLoader{}, 400, 0},
		{
			"load failure",
			"/generate?url=https://img/1.jpg&preset=11oz+Mug&dpi=10",
			&fakeLoader{err: &imaging.LoadError{Source: "https://img/1.jpg", Err: errors.New("HTTP 404")}},
			422, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeSearcher{}, tt.loader).Handler()
			rec := do(t, h, tt.target)
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if decodeError(t, rec) == "" {
				t.Error("expected an error message")
			}
			if tt.loader.calls != tt.wantLoads {
				t.Errorf("loader calls: got %d, want %d", tt.loader.calls, tt.wantLoads)
			}
		})
	}
}

func TestPresetsAndHealth(t *testing.T) {
	h := newTestServer(&fakeSearcher{}, nil).Handler()

	rec := do(t, h, "/presets")
	if rec.Code != http.StatusOK {
		t.Fatalf("presets status: %d", rec.Code)
	}
	var body struct {
		DPI     float64 `json:"dpi"`
		Presets []struct {
			Name string `json:"name"`
		} `json:"presets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.DPI != 300 || len(body.Presets) != 3 {
		t.Errorf("presets: got %+v", body)
	}

	rec = do(t, h, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(&fakeSearcher{}, nil).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/search", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on preflight")
	}
}

func TestCertManagerHostPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Domain = "wraps.example.com"
	cfg.CertDir = t.TempDir()
	mgr := New(cfg, nil, nil, nil).certManager()

	for host, ok := range map[string]bool{
		"wraps.example.com":     true,
		"www.wraps.example.com": true,
		"other.example.com":     false,
		"10.0.0.1":              false,
	} {
		err := mgr.HostPolicy(context.Background(), host)
		if (err == nil) != ok {
			t.Errorf("host %q: got err %v, want allowed=%v", host, err, ok)
		}
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Port = 0
	srv := New(cfg, &fakeSearcher{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
