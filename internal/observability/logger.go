// Package observability provides logging and metrics for themeflex.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/masq"

	"github.com/jmylchreest/themeflex/internal/config"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// loggerKey is the context key for the logger.
	loggerKey contextKey = "logger"
)

// LevelTrace is a level below debug for very chatty output.
const LevelTrace = slog.Level(-8)

// RedactedValue replaces sensitive attribute values.
const RedactedValue = "[REDACTED]"

// defaultSensitiveKeys are always redacted, regardless of configuration.
var defaultSensitiveKeys = []string{
	"password", "secret", "token", "apikey", "api_key", "credential",
	"authorization", "cookie", "email",
}

// sensitiveQueryParam matches sensitive query parameters inside URLs.
var sensitiveQueryParam = regexp.MustCompile(`(?i)([?&](?:password|secret|token|apikey|api_key|credential)=)[^&#\s]*`)

var (
	// GlobalLogLevel controls the level of the process logger built by NewLogger.
	// It can be changed at runtime with SetLogLevel.
	GlobalLogLevel = new(slog.LevelVar)

	requestLogging atomic.Bool
)

func init() {
	requestLogging.Store(true)
}

// NewLogger creates the process logger writing to stderr, keeping stdout
// free for command output.
// Its level is bound to GlobalLogLevel.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	GlobalLogLevel.Set(parseLevel(cfg.Level))
	SetRequestLogging(cfg.RequestLogging)
	return newLogger(cfg, os.Stderr, GlobalLogLevel)
}

// NewLoggerWithWriter creates a new slog.Logger that writes to the provided writer.
// The logger has its own fixed level; useful for tests and custom destinations.
func NewLoggerWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	return newLogger(cfg, w, parseLevel(cfg.Level))
}

func newLogger(cfg config.LoggingConfig, w io.Writer, level slog.Leveler) *slog.Logger {
	redact := newRedactor(cfg.RedactFields)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch a.Key {
				case slog.TimeKey:
					if cfg.TimeFormat != "" {
						if t, ok := a.Value.Any().(time.Time); ok {
							return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
						}
					}
					return a
				case slog.LevelKey:
					if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
						return slog.String(slog.LevelKey, "TRACE")
					}
					return a
				case slog.MessageKey, slog.SourceKey:
					return a
				}
			}
			return redact(groups, a)
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// newRedactor builds the attribute redaction chain. Keys are matched
// case-insensitively; struct values are handed to masq, which redacts fields
// tagged `masq:"secret"` and fields named like a sensitive key.
func newRedactor(extra []string) func([]string, slog.Attr) slog.Attr {
	keys := make(map[string]struct{}, len(defaultSensitiveKeys)+len(extra))
	var masqOpts []masq.Option
	add := func(k string) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return
		}
		if _, seen := keys[k]; seen {
			return
		}
		keys[k] = struct{}{}
		masqOpts = append(masqOpts,
			masq.WithFieldName(k),
			masq.WithFieldName(strings.ToUpper(k[:1])+k[1:]),
		)
	}
	for _, k := range defaultSensitiveKeys {
		add(k)
	}
	for _, k := range extra {
		add(k)
	}
	masqOpts = append(masqOpts, masq.WithTag("secret"))
	structs := masq.New(masqOpts...)

	return func(groups []string, a slog.Attr) slog.Attr {
		if _, sensitive := keys[strings.ToLower(a.Key)]; sensitive && a.Value.Kind() != slog.KindGroup {
			return slog.String(a.Key, RedactedValue)
		}
		switch a.Value.Kind() {
		case slog.KindString:
			if s := a.Value.String(); strings.Contains(s, "=") {
				return slog.String(a.Key, sensitiveQueryParam.ReplaceAllString(s, "${1}"+RedactedValue))
			}
			return a
		case slog.KindAny:
			if _, isErr := a.Value.Any().(error); isErr {
				return a
			}
			return structs(groups, a)
		default:
			return a
		}
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// levelName is the inverse of parseLevel.
func levelName(level slog.Level) string {
	switch {
	case level <= LevelTrace:
		return "trace"
	case level <= slog.LevelDebug:
		return "debug"
	case level <= slog.LevelInfo:
		return "info"
	case level <= slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// SetLogLevel changes the level of the process logger at runtime.
// Unknown names fall back to info.
func SetLogLevel(level string) {
	GlobalLogLevel.Set(parseLevel(level))
}

// GetLogLevel returns the current process log level name.
func GetLogLevel() string {
	return levelName(GlobalLogLevel.Level())
}

// SetRequestLogging toggles logging of successful HTTP requests.
// Requests answered with 4xx or 5xx are always logged.
func SetRequestLogging(enabled bool) {
	requestLogging.Store(enabled)
}

// IsRequestLoggingEnabled reports whether successful requests are logged.
func IsRequestLoggingEnabled() bool {
	return requestLogging.Load()
}

// WithApp adds the application name to the logger.
func WithApp(logger *slog.Logger, app string) *slog.Logger {
	return logger.With(slog.String("app", app))
}

// WithRequestID adds a request ID to the logger.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With(slog.String("request_id", requestID))
}

// WithComponent adds a component name to the logger for identifying the source.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithError adds an error to the logger attributes.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}

// LoggerFromContext extracts a logger from the context.
// If no logger is found, returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RequestIDFromContext extracts a request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// SetDefault sets the provided logger as the default slog logger.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// TimedOperationWithError logs the end of an operation with its duration.
// The error pointer is read when the returned function runs, so the caller
// can assign the error after this call.
//
// Usage:
//
//	var err error
//	done := observability.TimedOperationWithError(ctx, logger, "catalog_fetch", &err)
//	defer done()
//	err = doSomething()
//
//nolint:gocritic // errPtr must be a pointer to capture errors set after this call
func TimedOperationWithError(ctx context.Context, logger *slog.Logger, operation string, errPtr *error) func() {
	start := time.Now()
	logger.DebugContext(ctx, "operation started", slog.String("operation", operation))

	return func() {
		duration := time.Since(start)
		if errPtr != nil && *errPtr != nil {
			logger.WarnContext(ctx, "operation failed",
				slog.String("operation", operation),
				slog.Duration("duration", duration),
				slog.String("error", (*errPtr).Error()),
			)
			return
		}
		logger.InfoContext(ctx, "operation completed",
			slog.String("operation", operation),
			slog.Duration("duration", duration),
		)
	}
}
