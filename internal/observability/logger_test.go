package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themeflex/internal/config"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggingConfig{Level: "info", Format: "json"}

	logger := NewLoggerWithWriter(cfg, &buf)
	logger.Info("test message", slog.String("key", "value"))

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, `"key":"value"`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &parsed))
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggingConfig{Level: "info", Format: "text"}

	logger := NewLoggerWithWriter(cfg, &buf)
	logger.Info("test message", slog.String("key", "value"))

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    slog.Level
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", slog.LevelDebug, true},
		{"info does not log debug", "info", slog.LevelDebug, false},
		{"info logs at info level", "info", slog.LevelInfo, true},
		{"warn does not log info", "warn", slog.LevelInfo, false},
		{"error does not log warn", "error", slog.LevelWarn, false},
		{"error logs at error level", "error", slog.LevelError, true},
		{"trace logs trace", "trace", LevelTrace, true},
		{"debug does not log trace", "debug", LevelTrace, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(config.LoggingConfig{Level: tt.configLevel, Format: "json"}, &buf)
			logger.Log(context.Background(), tt.logLevel, "test")

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestTraceLevelDisplay(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "trace message")

	output := buf.String()
	assert.Contains(t, output, "trace message")
	assert.Contains(t, output, `"level":"TRACE"`)
	assert.NotContains(t, output, "DEBUG-4")
}

func TestNewLogger_CustomTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json", TimeFormat: "2006"}, &buf)
	logger.Info("tick")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	ts, ok := parsed["time"].(string)
	require.True(t, ok)
	assert.Len(t, ts, 4)
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	enriched := WithComponent(WithRequestID(WithApp(logger, "themeflex"), "req-1"), "catalog")
	enriched.Info("chained test")

	output := buf.String()
	assert.Contains(t, output, `"app":"themeflex"`)
	assert.Contains(t, output, `"request_id":"req-1"`)
	assert.Contains(t, output, `"component":"catalog"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	WithError(logger, errors.New("boom")).Info("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	assert.Same(t, logger, WithError(logger, nil))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Equal(t, slog.Default(), LoggerFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx = ContextWithLogger(ctx, logger)
	assert.Same(t, logger, LoggerFromContext(ctx))
}

func TestTimedOperationWithError(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

		var err error
		done := TimedOperationWithError(context.Background(), logger, "fetch", &err)
		done()

		assert.Contains(t, buf.String(), "operation completed")
		assert.Contains(t, buf.String(), `"operation":"fetch"`)
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

		var err error
		done := TimedOperationWithError(context.Background(), logger, "fetch", &err)
		err = errors.New("upstream down")
		done()

		assert.Contains(t, buf.String(), "operation failed")
		assert.Contains(t, buf.String(), "upstream down")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	original := GetLogLevel()
	t.Cleanup(func() { SetLogLevel(original) })

	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		SetLogLevel(level)
		assert.Equal(t, level, GetLogLevel())
	}

	SetLogLevel("nonsense")
	assert.Equal(t, "info", GetLogLevel())
}

func TestRequestLoggingToggle(t *testing.T) {
	original := IsRequestLoggingEnabled()
	t.Cleanup(func() { SetRequestLogging(original) })

	SetRequestLogging(false)
	assert.False(t, IsRequestLoggingEnabled())
	SetRequestLogging(true)
	assert.True(t, IsRequestLoggingEnabled())
}

func TestSensitiveDataRedaction(t *testing.T) {
	tests := []struct {
		name          string
		fieldName     string
		sensitiveData string
	}{
		{"password lowercase", "password", "secret123"},
		{"password capitalized", "Password", "MyP@ssw0rd"},
		{"token", "token", "jwt-token-abc"},
		{"api_key snake case", "api_key", "api-key-value"},
		{"email", "email", "jane@example.com"},
		{"Email capitalized", "Email", "JANE@EXAMPLE.COM"},
		{"cookie", "cookie", "themeflex-theme=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

			logger.Info("test message", slog.String(tt.fieldName, tt.sensitiveData))

			output := buf.String()
			assert.NotContains(t, output, tt.sensitiveData)
			assert.Contains(t, output, RedactedValue)
		})
	}
}

func TestSensitiveDataRedaction_ConfiguredField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{
		Level:        "info",
		Format:       "json",
		RedactFields: []string{"Phone"},
	}, &buf)

	logger.Info("contact", slog.String("phone", "+1 555 0100"))

	assert.NotContains(t, buf.String(), "+1 555 0100")
}

func TestSensitiveDataRedaction_Group(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("test with group",
		slog.Group("submission",
			slog.String("name", "Jane"),
			slog.String("email", "jane@example.com"),
		),
	)

	output := buf.String()
	assert.Contains(t, output, "Jane")
	assert.NotContains(t, output, "jane@example.com")
}

func TestSensitiveDataRedaction_TaggedStruct(t *testing.T) {
	type record struct {
		Name    string
		Address string `masq:"secret"`
	}

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("record", slog.Any("record", record{Name: "Jane", Address: "1 Hidden Lane"}))

	output := buf.String()
	assert.Contains(t, output, "Jane")
	assert.NotContains(t, output, "1 Hidden Lane")
}

func TestNonSensitiveDataNotRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("test message",
		slog.String("path", "/contact"),
		slog.String("url", "http://example.com/?theme=3"),
		slog.Int("count", 42),
	)

	output := buf.String()
	assert.Contains(t, output, "/contact")
	assert.Contains(t, output, "theme=3")
	assert.Contains(t, output, "42")
	assert.NotContains(t, output, RedactedValue)
}

func TestURLParameterRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	url := "http://example.com/api?username=admin&password=secret123&token=bearer_xyz&APIKEY=ak_test"
	logger.Info("request", slog.String("url", url))

	output := buf.String()
	assert.NotContains(t, output, "secret123")
	assert.NotContains(t, output, "bearer_xyz")
	assert.NotContains(t, output, "ak_test")
	assert.Contains(t, output, "username=admin")
	assert.True(t, strings.Contains(output, "password=[REDACTED]"))
}
