package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ironsheep/tumbler-wrap/internal/geometry"
	"github.com/ironsheep/tumbler-wrap/internal/imaging"
	"github.com/ironsheep/tumbler-wrap/internal/search"
	"github.com/ironsheep/tumbler-wrap/internal/wrap"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Search query is required.")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = n
	}

	results, err := s.searcher.Search(r.Context(), query, limit)
	if err != nil {
		status, msg := searchFailure(err)
		s.logger.Warn("search failed", "query", query, "status", status, "err", err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": results})
}

// searchFailure maps a search error to the status and message returned to the browser.
func searchFailure(err error) (int, string) {
	var gwErr *search.GatewayError
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return http.StatusBadRequest, "Search query is required."
	case errors.Is(err, search.ErrMissingAPIKey):
		return http.StatusInternalServerError, "API key is not configured on the server."
	case errors.As(err, &gwErr) && gwErr.Status != 0:
		return gwErr.Status, "Freepik API Error: " + gwErr.Message
	case errors.Is(err, search.ErrGateway):
		return http.StatusBadGateway, "Failed to fetch images from Freepik."
	default:
		return http.StatusInternalServerError, "An internal server error occurred."
	}
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"dpi":     s.cfg.DPI,
		"presets": wrap.Presets(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source := strings.TrimSpace(q.Get("url"))
	if source == "" {
		writeError(w, http.StatusBadRequest, "Image url is required.")
		return
	}
	if !imaging.IsRemote(source) {
		writeError(w, http.StatusBadRequest, "Image url must be http or https.")
		return
	}
	if err := s.checkSource(source); err != nil {
		s.logger.Warn("source refused", "url", source, "err", err)
		writeError(w, generateStatus(err), err.Error())
		return
	}

	req, format, err := s.parseGenerate(q)
	if err != nil {
		writeError(w, generateStatus(err), err.Error())
		return
	}

	// Reject bad geometry before spending a download on the source.
	if _, err := wrap.Resolve(req); err != nil {
		writeError(w, generateStatus(err), err.Error())
		return
	}

	img, err := s.loader.Load(r.Context(), source)
	if err != nil {
		s.logger.Warn("source load failed", "url", source, "err", err)
		writeError(w, generateStatus(err), err.Error())
		return
	}
	req.Source = img

	res, err := wrap.Generate(req)
	if err != nil {
		s.logger.Warn("generate failed", "url", source, "err", err)
		writeError(w, generateStatus(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, res.Image, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := wrap.Filename(s.cfg.Product, string(res.WrapType), s.now(), format)
	w.Header().Set("Content-Type", format.MimeType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())

	width, height := res.Shape.Size()
	s.logger.Info("wrap generated", "file", name, "wrap", res.WrapType, "width", width, "height", height)
}

// parseGenerate builds a wrap request from query parameters. Vessel dimensions are given
// either as a preset or as top/bottom/height (tapered) or width/wrap_height (flat).
func (s *Server) parseGenerate(q url.Values) (wrap.Request, imaging.Format, error) {
	req := wrap.Request{
		WrapType:   wrap.Type(q.Get("wrap")),
		Preset:     q.Get("preset"),
		DPI:        s.cfg.DPI,
		Guides:     q.Get("guides") == "true" || q.Get("guides") == "1",
		GuideColor: s.cfg.GuideColor,
		MaxPixels:  s.cfg.MaxPixels,
	}
	if req.WrapType == "" {
		req.WrapType = wrap.TypeStraight
	}

	format, err := imaging.ParseFormat(q.Get("format"))
	if err != nil {
		return req, "", badRequest(err)
	}

	nums := map[string]float64{}
	for _, key := range []string{"top", "bottom", "height", "width", "wrap_height", "dpi"} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, "", fmt.Errorf("%w: %s=%q is not a number", geometry.ErrInvalidDimensions, key, v)
		}
		nums[key] = f
	}
	if dpi, ok := nums["dpi"]; ok {
		req.DPI = dpi
	}
	if _, ok := nums["top"]; ok {
		req.Cone = &geometry.ConeSpec{TopDiameter: nums["top"], BottomDiameter: nums["bottom"], Height: nums["height"]}
	}
	if _, ok := nums["width"]; ok {
		req.Dimensions = &geometry.Dimensions{Width: nums["width"], Height: nums["wrap_height"]}
	}

	bg := s.cfg.Background
	if v := q.Get("background"); v != "" {
		bg = v
	}
	c, err := imaging.ParseColor(bg)
	if err != nil {
		return req, "", badRequest(err)
	}
	req.Background = c

	return req, format, nil
}

type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return requestError{err} }

// generateStatus maps a wrap failure to an HTTP status.
func generateStatus(err error) int {
	var re requestError
	switch {
	case errors.Is(err, errPrivateSource), errors.Is(err, errSourceHost):
		return http.StatusForbidden
	case errors.As(err, &re),
		errors.Is(err, geometry.ErrInvalidDimensions),
		errors.Is(err, wrap.ErrUnsupportedWrapType):
		return http.StatusBadRequest
	case errors.Is(err, imaging.ErrImageLoad):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
