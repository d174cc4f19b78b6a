// Package config provides configuration management for themeflex using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/jmylchreest/themeflex/internal/theme"
)

// Default configuration values.
const (
	defaultServerPort        = 8080
	defaultServerTimeout     = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultCatalogEndpoint   = "https://fakestoreapi.com/products"
	defaultCatalogTimeout    = 15 * time.Second
	defaultMaxResponseSize   = 5 * 1024 * 1024 // 5MB
	defaultCircuitThreshold  = 5
	defaultCircuitTimeout    = 30 * time.Second
	defaultThemeCookieMaxAge = 365 * 24 * time.Hour
	defaultMetricsPath       = "/metrics"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "THEMEFLEX"

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// CatalogConfig holds the upstream product catalog settings.
type CatalogConfig struct {
	Endpoint         string        `mapstructure:"endpoint"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxResponseSize  int64         `mapstructure:"max_response_size"`
	CircuitThreshold int           `mapstructure:"circuit_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout"`
	UserAgent        string        `mapstructure:"user_agent"` // empty = themeflex/<version>
}

// ThemeConfig holds theme preference settings.
type ThemeConfig struct {
	Default          string        `mapstructure:"default"` // "1", "2" or "3"
	CookieMaxAge     time.Duration `mapstructure:"cookie_max_age"`
	TransitionWindow time.Duration `mapstructure:"transition_window"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level          string   `mapstructure:"level"`  // trace, debug, info, warn, error
	Format         string   `mapstructure:"format"` // json, text
	AddSource      bool     `mapstructure:"add_source"`
	TimeFormat     string   `mapstructure:"time_format"`
	RequestLogging bool     `mapstructure:"request_logging"`
	RedactFields   []string `mapstructure:"redact_fields"`
	// JournalEntries is how many recent records the logs API retains.
	JournalEntries int      `mapstructure:"journal_entries"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with THEMEFLEX_ and use underscores for nesting.
// Example: THEMEFLEX_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/themeflex")
		v.AddConfigPath("$HOME/.themeflex")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	hooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		byteSizeHook,
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hooks)); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// byteSizeHook lets size settings be written as "5MB" or "512 KiB".
func byteSizeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Int64 || to == reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	n, err := humanize.ParseBytes(data.(string))
	if err != nil {
		return nil, fmt.Errorf("invalid size %q: %w", data, err)
	}
	return int64(n), nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults are in place.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("catalog.endpoint", defaultCatalogEndpoint)
	v.SetDefault("catalog.timeout", defaultCatalogTimeout)
	v.SetDefault("catalog.max_response_size", defaultMaxResponseSize)
	v.SetDefault("catalog.circuit_threshold", defaultCircuitThreshold)
	v.SetDefault("catalog.circuit_timeout", defaultCircuitTimeout)
	v.SetDefault("catalog.user_agent", "")

	v.SetDefault("theme.default", theme.Default.String())
	v.SetDefault("theme.cookie_max_age", defaultThemeCookieMaxAge)
	v.SetDefault("theme.transition_window", theme.TransitionWindow)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.request_logging", true)
	v.SetDefault("logging.redact_fields", []string{"email", "authorization", "cookie", "password"})
	v.SetDefault("logging.journal_entries", 500)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", defaultMetricsPath)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	if c.Catalog.Endpoint == "" {
		return fmt.Errorf("catalog.endpoint is required")
	}
	u, err := url.Parse(c.Catalog.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog.endpoint must be an absolute http(s) URL")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be greater than 0")
	}
	if c.Catalog.MaxResponseSize < 0 {
		return fmt.Errorf("catalog.max_response_size must not be negative")
	}
	if c.Catalog.CircuitThreshold < 1 {
		return fmt.Errorf("catalog.circuit_threshold must be at least 1")
	}

	if _, ok := theme.Parse(c.Theme.Default); !ok {
		return fmt.Errorf("theme.default must be one of: 1, 2, 3")
	}
	if c.Theme.TransitionWindow < 0 {
		return fmt.Errorf("theme.transition_window must not be negative")
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	if c.Logging.JournalEntries < 0 {
		return fmt.Errorf("logging.journal_entries must not be negative")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DefaultTheme returns the configured fallback theme.
// Validate guarantees the value parses; an unvalidated config falls back to theme.Default.
func (c *ThemeConfig) DefaultTheme() theme.ID {
	if id, ok := theme.Parse(c.Default); ok {
		return id
	}
	return theme.Default
}
