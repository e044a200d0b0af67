package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEXDESK_BACKEND", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Advice.Backend)
	assert.Equal(t, 6, cfg.Session.HistoryWindow)
	assert.Equal(t, 3*time.Minute, cfg.Advice.Timeout.Duration)
	assert.Equal(t, "https://livelaw.in", cfg.News.FallbackURL)
	assert.True(t, cfg.Advice.SearchGrounding)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[advice]
backend = "ollama"
model = "llama3"
timeout = "45s"
requests_per_minute = 10

[session]
history_window = 4

[news]
fallback_url = "https://example.org/news"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("LEXDESK_MODEL", "qwen3:8b")
	t.Setenv("LEXDESK_ENDPOINT", "http://gpu-box:11434/")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Advice.Backend)
	assert.Equal(t, "qwen3:8b", cfg.Advice.Model)
	assert.Equal(t, "http://gpu-box:11434", cfg.Advice.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.Advice.Timeout.Duration)
	assert.Equal(t, 10, cfg.Advice.RequestsPerMinute)
	assert.Equal(t, 4, cfg.Session.HistoryWindow)
	assert.Equal(t, "https://example.org/news", cfg.News.FallbackURL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "backend", mutate: func(c *Config) { c.Advice.Backend = "bard" }},
		{name: "window", mutate: func(c *Config) { c.Session.HistoryWindow = 0 }},
		{name: "rate", mutate: func(c *Config) { c.Advice.RequestsPerMinute = -1 }},
		{name: "level", mutate: func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestApplyOverridesClearsGeminiModelOnBackendSwitch(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Apply(Overrides{Backend: "OLLAMA", Verbose: true}))
	assert.Equal(t, "ollama", cfg.Advice.Backend)
	assert.Empty(t, cfg.Advice.Model)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg = Default()
	require.NoError(t, cfg.Apply(Overrides{Backend: "openai", Model: "gpt-4o-mini"}))
	assert.Equal(t, "gpt-4o-mini", cfg.Advice.Model)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Advice.Timeout = Duration{90 * time.Second}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, loaded.Advice.Timeout.Duration)
	assert.Equal(t, cfg.Advice.Backend, loaded.Advice.Backend)
}
