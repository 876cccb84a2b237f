// Package config gathers the runtime settings of tumbler-wrap.
//
// Settings are layered: built-in defaults, then environment variables, then command
// line flags. Validate is called once all layers are applied.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ironsheep/tumbler-wrap/internal/imaging"
	"github.com/ironsheep/tumbler-wrap/internal/search"
	"github.com/ironsheep/tumbler-wrap/internal/wrap"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey      = "FREEPIK_API_KEY"
	EnvBaseURL     = "FREEPIK_BASE_URL"
	EnvPort        = "PORT"
	EnvDPI         = "TUMBLER_WRAP_DPI"
	EnvProduct     = "TUMBLER_WRAP_PRODUCT"
	EnvBackground  = "TUMBLER_WRAP_BACKGROUND"
	EnvDomain      = "TUMBLER_WRAP_DOMAIN"
	EnvCertDir     = "TUMBLER_WRAP_CERT_DIR"
	EnvSourceHosts = "TUMBLER_WRAP_SOURCE_HOSTS"
	EnvOutputDir   = "TUMBLER_WRAP_OUTPUT_DIR"
	EnvMaxPixels   = "TUMBLER_WRAP_MAX_PIXELS"
	EnvLogLevel    = "TUMBLER_WRAP_LOG_LEVEL"
)

// Config holds every setting shared by the commands.
type Config struct {
	APIKey      string
	BaseURL     string
	SearchLimit int

	Port    int
	Domain  string
	CertDir string
	// SourceHosts limits the hosts /generate fetches images from. Empty allows any
	// public host.
	SourceHosts []string

	DPI        float64
	Product    string
	Background string
	GuideColor string
	OutputDir  string
	MaxPixels  int

	LogLevel string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:     search.DefaultBaseURL,
		SearchLimit: search.DefaultLimit,
		Port:        3001,
		CertDir:     "certs",
		DPI:         wrap.DefaultDPI,
		Product:     "freepik",
		Background:  "transparent",
		GuideColor:  imaging.DefaultGuideColor,
		OutputDir:   ".",
		MaxPixels:   wrap.DefaultMaxPixels,
		LogLevel:    "info",
	}
}

// Load returns the defaults overlaid with the process environment.
func Load() (Config, error) {
	c := Default()
	if err := c.FromEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromEnv overlays values found through lookup. Unset variables leave the current value.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvAPIKey, &c.APIKey)
	str(EnvBaseURL, &c.BaseURL)
	str(EnvProduct, &c.Product)
	str(EnvBackground, &c.Background)
	str(EnvDomain, &c.Domain)
	str(EnvCertDir, &c.CertDir)
	str(EnvOutputDir, &c.OutputDir)
	str(EnvLogLevel, &c.LogLevel)

	if v, ok := lookup(EnvSourceHosts); ok && strings.TrimSpace(v) != "" {
		c.SourceHosts = nil
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				c.SourceHosts = append(c.SourceHosts, h)
			}
		}
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = p
	}
	if v, ok := lookup(EnvDPI); ok && v != "" {
		d, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDPI, v, err)
		}
		c.DPI = d
	}
	if v, ok := lookup(EnvMaxPixels); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxPixels, v, err)
		}
		c.MaxPixels = n
	}
	return nil
}

// BindFlags registers flags that override the current values. Call it after FromEnv so
// the flag defaults shown in help reflect the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.BaseURL, "freepik-url", c.BaseURL, "Freepik API base URL")
	fs.IntVar(&c.SearchLimit, "limit", c.SearchLimit, "results per search")
	fs.Float64Var(&c.DPI, "dpi", c.DPI, "print resolution in dots per inch")
	fs.StringVar(&c.Product, "product", c.Product, "product name used in output filenames")
	fs.StringVar(&c.Background, "background", c.Background, "canvas color (#RRGGBB, #RRGGBBAA or transparent)")
	fs.StringVar(&c.GuideColor, "guide-color", c.GuideColor, "proofing guide color")
	fs.StringVar(&c.OutputDir, "out-dir", c.OutputDir, "directory for generated wraps")
	fs.IntVar(&c.MaxPixels, "max-pixels", c.MaxPixels, "largest canvas area allowed")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %g", c.DPI)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search limit must be positive, got %d", c.SearchLimit)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("max pixels must be positive, got %d", c.MaxPixels)
	}
	if _, err := imaging.ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := imaging.ParseColor(c.GuideColor); err != nil {
		return fmt.Errorf("guide color: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for plain HTTP.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// SearchClient builds the Freepik client described by the settings.
func (c Config) SearchClient(logger *slog.Logger) *search.Client {
	return search.NewClient(search.ClientOptions{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Limit:   c.SearchLimit,
		Logger:  logger,
	})
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger returns a text logger writing to w at the configured level. Unknown levels
// fall back to info.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
