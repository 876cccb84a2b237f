package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Freepik public API root.
	DefaultBaseURL = "https://api.freepik.com"

	// DefaultLimit is the number of results requested per search.
	DefaultLimit = 50

	// MaxLimit is the largest page the resources endpoint returns.
	MaxLimit = 100

	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

// ImageURLs holds the fetchable renditions of a result.
type ImageURLs struct {
	Regular string `json:"regular"`
	Thumb   string `json:"thumb"`
}

// ImageDescriptor is one search result.
type ImageDescriptor struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	URLs  ImageURLs `json:"urls"`
}

// ClientOptions configures a Client. Zero values select the defaults.
type ClientOptions struct {
	APIKey     string
	BaseURL    string
	Limit      int
	Locale     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the Freepik resources endpoint.
type Client struct {
	apiKey  string
	baseURL string
	limit   int
	locale  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Freepik client. A missing API key is not an error here; Search
// reports it so a server can still start and answer other requests.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		limit:   opts.Limit,
		locale:  opts.Locale,
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.limit <= 0 {
		c.limit = DefaultLimit
	}
	if c.locale == "" {
		c.locale = "en-US"
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Search runs one query for photos and returns the results that carry at least one URL,
// in the order the API returned them. A limit of zero or less uses the client's limit;
// larger limits are capped at MaxLimit.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ImageDescriptor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if limit <= 0 {
		limit = c.limit
	}
	limit = min(limit, MaxLimit)

	params := url.Values{}
	params.Set("locale", c.locale)
	params.Set("term", query)
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("filters[content_type][photo]", "1")
	endpoint := c.baseURL + "/v1/resources?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.locale)
	req.Header.Set("x-freepik-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("freepik request failed", "query", query, "err", err)
		return nil, &GatewayError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("freepik response", "query", query, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := upstreamMessage(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("freepik api error", "query", query, "status", resp.StatusCode, "message", msg)
		return nil, &GatewayError{Status: resp.StatusCode, Message: msg}
	}

	var payload resourcesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &GatewayError{Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return payload.descriptors(), nil
}

type resourcesResponse struct {
	Data []resource `json:"data"`
}

type resource struct {
	ID    json.RawMessage `json:"id"`
	Title string          `json:"title"`
	Image struct {
		Source struct {
			URL string `json:"url"`
		} `json:"source"`
	} `json:"image"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	URLs *ImageURLs `json:"urls"`
}

func (r resourcesResponse) descriptors() []ImageDescriptor {
	out := make([]ImageDescriptor, 0, len(r.Data))
	for _, item := range r.Data {
		d := ImageDescriptor{
			ID:    rawID(item.ID),
			Title: item.Title,
			URLs:  ImageURLs{Regular: item.Image.Source.URL},
		}
		if item.URLs != nil {
			if d.URLs.Regular == "" {
				d.URLs.Regular = item.URLs.Regular
			}
			d.URLs.Thumb = item.URLs.Thumb
		}
		if d.URLs.Thumb == "" && len(item.Thumbnails) > 0 {
			d.URLs.Thumb = item.Thumbnails[0].URL
		}
		if d.URLs.Regular == "" {
			d.URLs.Regular = d.URLs.Thumb
		}
		if d.URLs.Thumb == "" {
			d.URLs.Thumb = d.URLs.Regular
		}
		if d.URLs.Regular == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

// rawID renders a JSON id, which Freepik sends as a number, as a string.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

// upstreamMessage extracts a human readable message from an error body.
func upstreamMessage(body []byte) string {
	var e struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return strings.TrimSpace(string(body))
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.Error) > 0 {
		var s string
		if err := json.Unmarshal(e.Error, &s); err == nil {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(e.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return ""
}
