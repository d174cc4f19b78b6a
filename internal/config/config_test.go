package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themeflex/internal/theme"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Catalog: CatalogConfig{
			Endpoint:         "https://fakestoreapi.com/products",
			Timeout:          15 * time.Second,
			CircuitThreshold: 5,
		},
		Theme:   ThemeConfig{Default: "2", TransitionWindow: 400 * time.Millisecond},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Server defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	// Catalog defaults
	assert.Equal(t, "https://fakestoreapi.com/products", cfg.Catalog.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, int64(5*1024*1024), cfg.Catalog.MaxResponseSize)
	assert.Equal(t, 5, cfg.Catalog.CircuitThreshold)
	assert.Empty(t, cfg.Catalog.UserAgent)

	// Theme defaults
	assert.Equal(t, "2", cfg.Theme.Default)
	assert.Equal(t, theme.Professional, cfg.Theme.DefaultTheme())
	assert.Equal(t, 400*time.Millisecond, cfg.Theme.TransitionWindow)
	assert.Equal(t, 365*24*time.Hour, cfg.Theme.CookieMaxAge)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.RequestLogging)
	assert.Contains(t, cfg.Logging.RedactFields, "email")

	// Metrics defaults
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s

catalog:
  endpoint: "http://localhost:9999/products"
  timeout: 3s

theme:
  default: "3"

logging:
  level: "debug"
  format: "text"

metrics:
  enabled: false
`
	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "http://localhost:9999/products", cfg.Catalog.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, theme.Creative, cfg.Theme.DefaultTheme())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)

	// Unset keys keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("THEMEFLEX_SERVER_PORT", "3000")
	t.Setenv("THEMEFLEX_CATALOG_ENDPOINT", "https://example.com/api/products")
	t.Setenv("THEMEFLEX_THEME_DEFAULT", "1")
	t.Setenv("THEMEFLEX_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://example.com/api/products", cfg.Catalog.Endpoint)
	assert.Equal(t, theme.Minimalist, cfg.Theme.DefaultTheme())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 8000
`
	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	require.NoError(t, err)

	t.Setenv("THEMEFLEX_SERVER_PORT", "9000")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0o600))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("THEMEFLEX_THEME_DEFAULT", "7")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme.default")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"empty endpoint", func(c *Config) { c.Catalog.Endpoint = "" }, "catalog.endpoint is required"},
		{"relative endpoint", func(c *Config) { c.Catalog.Endpoint = "/products" }, "absolute http(s) URL"},
		{"ftp endpoint", func(c *Config) { c.Catalog.Endpoint = "ftp://example.com/products" }, "absolute http(s) URL"},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, "catalog.timeout"},
		{"negative response size", func(c *Config) { c.Catalog.MaxResponseSize = -1 }, "max_response_size"},
		{"zero circuit threshold", func(c *Config) { c.Catalog.CircuitThreshold = 0 }, "circuit_threshold"},
		{"unknown theme", func(c *Config) { c.Theme.Default = "4" }, "theme.default"},
		{"negative transition", func(c *Config) { c.Theme.TransitionWindow = -time.Second }, "transition_window"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative journal", func(c *Config) { c.Logging.JournalEntries = -1 }, "logging.journal_entries"},
		{"bad metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MetricsPathIgnoredWhenDisabled(t *testing.T) {
	cfg := validTestConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		host     string
		port     int
		expected string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"localhost", 3000, "localhost:3000"},
		{"", 9090, ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			cfg := ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.expected, cfg.Address())
		})
	}
}

func TestThemeConfig_DefaultThemeFallback(t *testing.T) {
	cfg := ThemeConfig{Default: "garbage"}
	assert.Equal(t, theme.Default, cfg.DefaultTheme())
}

func TestLoad_HumanReadableSize(t *testing.T) {
	t.Setenv("THEMEFLEX_CATALOG_MAX_RESPONSE_SIZE", "2MiB")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(2*1024*1024), cfg.Catalog.MaxResponseSize)
}

func TestLoad_InvalidSize(t *testing.T) {
	t.Setenv("THEMEFLEX_CATALOG_MAX_RESPONSE_SIZE", "lots")

	_, err := Load("")
	assert.Error(t, err)
}
