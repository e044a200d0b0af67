// Package config loads LexDesk settings from a TOML file, environment variables and
// command-line overrides, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultBackend       = "gemini"
	defaultGeminiModel   = "gemini-3-pro-preview"
	defaultHistoryWindow = 6
	defaultTimeout       = 3 * time.Minute
	defaultNewsURL       = "https://livelaw.in"
	defaultLogLevel      = "info"
)

// Backends lists the advice backends the application can construct.
var Backends = []string{"gemini", "ollama", "openai", "mock"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration that decodes from TOML strings such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete application configuration.
type Config struct {
	Advice  AdviceConfig  `toml:"advice"`
	Session SessionConfig `toml:"session"`
	News    NewsConfig    `toml:"news"`
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
}

// AdviceConfig selects and tunes the hosted model backend.
type AdviceConfig struct {
	Backend           string   `toml:"backend"`
	Model             string   `toml:"model"`
	Endpoint          string   `toml:"endpoint"`
	APIKey            string   `toml:"api_key"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
	SearchGrounding   bool     `toml:"search_grounding"`
}

// SessionConfig tunes the conversation store.
type SessionConfig struct {
	HistoryWindow int `toml:"history_window"`
}

// NewsConfig tunes the legal news feed.
type NewsConfig struct {
	Prompt      string `toml:"prompt"`
	FallbackURL string `toml:"fallback_url"`
}

// CatalogConfig points at an optional override for the static reference catalog.
type CatalogConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Overrides carries command-line values; empty fields leave the config untouched.
type Overrides struct {
	Backend  string
	Model    string
	Endpoint string
	Verbose  bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Advice: AdviceConfig{
			Backend:         defaultBackend,
			Model:           defaultGeminiModel,
			Timeout:         Duration{defaultTimeout},
			SearchGrounding: true,
		},
		Session: SessionConfig{HistoryWindow: defaultHistoryWindow},
		News:    NewsConfig{FallbackURL: defaultNewsURL},
		Catalog: CatalogConfig{Watch: true},
		Log:     LogConfig{File: defaultLogPath(), Level: defaultLogLevel},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lexdesk/config.toml (or the OS equivalent).
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "lexdesk", "config.toml")
}

func defaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "lexdesk", "lexdesk.log")
}

// Load reads path (DefaultPath when empty), applies environment variables and validates.
// A missing file is not an error; defaults are used instead.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("LEXDESK_BACKEND"); v != "" {
		c.Advice.Backend = strings.ToLower(v)
	}
	if v := getenv("LEXDESK_MODEL"); v != "" {
		c.Advice.Model = v
	}
	if v := getenv("LEXDESK_ENDPOINT"); v != "" {
		c.Advice.Endpoint = strings.TrimRight(v, "/")
	}
	if v := getenv("LEXDESK_API_KEY"); v != "" {
		c.Advice.APIKey = v
	}
	if v := getenv("LEXDESK_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("LEXDESK_HISTORY_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.HistoryWindow = n
		}
	}
}

// Apply merges command-line overrides and re-validates.
func (c *Config) Apply(o Overrides) error {
	if o.Backend != "" {
		c.Advice.Backend = strings.ToLower(o.Backend)
		// a backend switch invalidates the default Gemini model name
		if o.Model == "" && c.Advice.Model == defaultGeminiModel && c.Advice.Backend != defaultBackend {
			c.Advice.Model = ""
		}
	}
	if o.Model != "" {
		c.Advice.Model = o.Model
	}
	if o.Endpoint != "" {
		c.Advice.Endpoint = strings.TrimRight(o.Endpoint, "/")
	}
	if o.Verbose {
		c.Log.Level = "debug"
	}
	return c.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !knownBackend(c.Advice.Backend) {
		return fmt.Errorf("%w: unknown backend %q (want one of %s)", ErrInvalid, c.Advice.Backend, strings.Join(Backends, ", "))
	}
	if c.Session.HistoryWindow <= 0 {
		return fmt.Errorf("%w: session.history_window must be positive, got %d", ErrInvalid, c.Session.HistoryWindow)
	}
	if c.Advice.Timeout.Duration < 0 {
		return fmt.Errorf("%w: advice.timeout must not be negative", ErrInvalid)
	}
	if c.Advice.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: advice.requests_per_minute must not be negative", ErrInvalid)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

func knownBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Save writes the configuration as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
