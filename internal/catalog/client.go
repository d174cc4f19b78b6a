// Package catalog fetches the product list from the upstream catalog
// endpoint and holds the single per-process snapshot of it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jmylchreest/themeflex/internal/config"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/version"
	"github.com/jmylchreest/themeflex/pkg/httpclient"
)

// FailureMessage is the human-readable text shown to visitors for any fetch failure.
const FailureMessage = "Failed to fetch products"

// ClientName is the name the catalog client is registered under for health reporting.
const ClientName = "catalog"

const tracerName = "github.com/jmylchreest/themeflex/internal/catalog"

// FetchError reports a failed catalog fetch. StatusCode is set when the
// upstream answered with a non-2xx status.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching products: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetching products: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to visitors.
func (e *FetchError) Message() string {
	return FailureMessage
}

// MessageFor returns the visitor-facing message for err.
func MessageFor(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return FailureMessage
}

// Fetcher retrieves the full product list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Product, error)
}

// Client fetches products over HTTP.
type Client struct {
	endpoint string
	http     *httpclient.Client
	logger   *slog.Logger
	tracer   trace.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the upstream HTTP client.
func WithHTTPClient(hc *httpclient.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientLogger sets the client logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for fetch spans.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewClient creates a catalog client from cfg. Retries are disabled: a
// failed fetch is only repeated when a visitor asks for it.
func NewClient(cfg config.CatalogConfig, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		userAgent := cfg.UserAgent
		if userAgent == "" {
			userAgent = version.UserAgent()
		}
		hcCfg := httpclient.DefaultConfig()
		hcCfg.Timeout = cfg.Timeout
		hcCfg.RetryAttempts = 0
		hcCfg.CircuitThreshold = cfg.CircuitThreshold
		hcCfg.CircuitTimeout = cfg.CircuitTimeout
		hcCfg.MaxResponseSize = cfg.MaxResponseSize
		hcCfg.UserAgent = userAgent
		hcCfg.Logger = c.logger
		c.http = httpclient.New(hcCfg)
	}

	return c
}

// HTTPClient exposes the upstream client, e.g. for registry reporting.
func (c *Client) HTTPClient() *httpclient.Client {
	return c.http
}

// Endpoint returns the configured catalog URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch issues one GET to the catalog endpoint and decodes the JSON array,
// preserving its order. Every failure is returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context) (products []models.Product, err error) {
	ctx, span := c.tracer.Start(ctx, "catalog.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", c.endpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, FailureMessage)
		} else {
			span.SetAttributes(attribute.Int("catalog.products", len(products)))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decoding products: %w", err)}
	}
	if products == nil {
		products = []models.Product{}
	}

	return products, nil
}
