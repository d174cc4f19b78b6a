package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/themeflex/internal/catalog"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/observability"
)

// ProductsHandler exposes the catalog snapshot as JSON.
type ProductsHandler struct {
	source ProductSource
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(source ProductSource) *ProductsHandler {
	return &ProductsHandler{source: source}
}

// Register registers the product routes with the API.
func (h *ProductsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listProducts",
		Method:      "GET",
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Returns the catalog state and, once loaded, its products",
		Tags:        []string{"Products"},
	}, h.ListProducts)

	huma.Register(api, huma.Operation{
		OperationID:   "retryProducts",
		Method:        "POST",
		Path:          "/api/v1/products/retry",
		Summary:       "Retry product fetch",
		Description:   "Re-issues the catalog fetch after a failure",
		Tags:          []string{"Products"},
		DefaultStatus: http.StatusAccepted,
	}, h.RetryProducts)
}

// ListProductsInput is the input for listing products.
type ListProductsInput struct{}

// ListProductsOutput is the output for listing products.
type ListProductsOutput struct {
	Body catalog.Snapshot
}

// ListProducts returns the current catalog snapshot.
func (h *ProductsHandler) ListProducts(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
	snap := h.source.Snapshot()
	if snap.Products == nil {
		snap.Products = []models.Product{}
	}
	return &ListProductsOutput{Body: snap}, nil
}

// RetryProductsInput is the input for retrying the fetch.
type RetryProductsInput struct{}

// RetryProductsOutput is the output for retrying the fetch.
type RetryProductsOutput struct {
	Body catalog.Snapshot
}

// RetryProducts restarts a failed fetch. It conflicts unless the catalog is
// in the failed state.
func (h *ProductsHandler) RetryProducts(ctx context.Context, input *RetryProductsInput) (*RetryProductsOutput, error) {
	if !h.source.Retry() {
		return nil, huma.Error409Conflict("product fetch is not in a failed state")
	}
	observability.LoggerFromContext(ctx).InfoContext(ctx, "product fetch retried")
	return &RetryProductsOutput{Body: h.source.Snapshot()}, nil
}
