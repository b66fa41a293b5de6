// Package config provides configuration types and defaults for rosterboard.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/zjrosen/rosterboard/internal/log"
)

// Config holds all configuration options for rosterboard.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	UI       UIConfig       `mapstructure:"ui"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Serve    ServeConfig    `mapstructure:"serve"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig locates the Roster Service.
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedbackConfig controls the message region.
type FeedbackConfig struct {
	DismissAfter time.Duration `mapstructure:"dismiss_after"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Mouse            bool `mapstructure:"mouse"`             // Click delete controls with the mouse
	ShowDescriptions bool `mapstructure:"show_descriptions"` // Show description and schedule on cards
}

// ThemeConfig overrides the painter's colors. Values are hex colors.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/rosterboard/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// ServeConfig configures the development Roster Service.
type ServeConfig struct {
	Addr      string `mapstructure:"addr"`
	SeedFile  string `mapstructure:"seed_file"`  // YAML activities; empty uses the built-in set
	DBPath    string `mapstructure:"db_path"`    // SQLite file; empty keeps everything in memory
	WatchSeed bool   `mapstructure:"watch_seed"` // Reload activities when the seed file changes
}

// CacheConfig tunes in-process caches.
type CacheConfig struct {
	LabelTTL time.Duration `mapstructure:"label_ttl"`
}

// Default values.
const (
	DefaultServerURL    = "http://localhost:8000"
	DefaultTimeout      = 10 * time.Second
	DefaultDismissAfter = 5 * time.Second
	DefaultServeAddr    = "localhost:8000"
	DefaultLabelTTL     = 10 * time.Minute
)

// DefaultConfigPath is where a default config file is written when none is
// found.
const DefaultConfigPath = ".rosterboard/config.yaml"

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/rosterboard/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rosterboard", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: DefaultTimeout,
		},
		Feedback: FeedbackConfig{
			DismissAfter: DefaultDismissAfter,
		},
		UI: UIConfig{
			Mouse:            true,
			ShowDescriptions: true,
		},
		Theme: ThemeConfig{
			Highlight: "#54A0FF",
			Subtle:    "#696969",
			Error:     "#FF8787",
			Success:   "#73F59F",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Serve: ServeConfig{
			Addr: DefaultServeAddr,
		},
		Cache: CacheConfig{
			LabelTTL: DefaultLabelTTL,
		},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateServer(c.Server); err != nil {
		return err
	}
	if c.Feedback.DismissAfter < 0 {
		return fmt.Errorf("feedback.dismiss_after must not be negative, got %s", c.Feedback.DismissAfter)
	}
	if c.Cache.LabelTTL < 0 {
		return fmt.Errorf("cache.label_ttl must not be negative, got %s", c.Cache.LabelTTL)
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateServer checks the Roster Service location.
func ValidateServer(s ServerConfig) error {
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must be an http or https URL, got %q", s.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url must include a host, got %q", s.URL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative, got %s", s.Timeout)
	}
	return nil
}

// ValidateTheme checks that every set color is a hex color.
func ValidateTheme(t ThemeConfig) error {
	for key, val := range map[string]string{
		"highlight": t.Highlight,
		"subtle":    t.Subtle,
		"error":     t.Error,
		"success":   t.Success,
	} {
		if val != "" && !hexColor.MatchString(val) {
			return fmt.Errorf("theme.%s must be a hex color like \"#54A0FF\", got %q", key, val)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Rosterboard Configuration

# Roster Service location
server:
  url: http://localhost:8000   # Base URL of the activities API
  timeout: 10s                 # Per-request timeout

# Message region
feedback:
  dismiss_after: 5s            # Hide success/error messages after this long

# UI settings
ui:
  mouse: true                  # Click the ✖ next to a participant to remove them
  show_descriptions: true      # Show description and schedule on each card

# Theme colors (hex)
theme:
  highlight: "#54A0FF"
  subtle: "#696969"
  error: "#FF8787"
  success: "#73F59F"

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/rosterboard/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Development server (rosterboard serve)
serve:
  addr: localhost:8000
  # seed_file: activities.yaml     # Activities to start with (default: built-in set)
  # db_path: roster.db             # Persist rosters in SQLite (default: in memory)
  # watch_seed: false              # Reload activities when the seed file changes

# Caches
cache:
  label_ttl: 10m                 # How long computed avatar labels are kept
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
