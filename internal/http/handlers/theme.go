package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/observability"
	"github.com/jmylchreest/themeflex/internal/service"
	"github.com/jmylchreest/themeflex/internal/theme"
)

// ThemeHandler handles theme API endpoints.
type ThemeHandler struct {
	themeService *service.ThemeService
	metrics      *observability.Metrics
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(themeService *service.ThemeService) *ThemeHandler {
	return &ThemeHandler{
		themeService: themeService,
	}
}

// WithMetrics sets the metrics recorder for theme changes.
func (h *ThemeHandler) WithMetrics(m *observability.Metrics) *ThemeHandler {
	h.metrics = m
	return h
}

// Register registers the theme routes with the Huma API.
func (h *ThemeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listThemes",
		Method:      "GET",
		Path:        "/api/v1/themes",
		Summary:     "List all themes",
		Description: "Returns every registered theme with the visitor's current one marked active",
		Tags:        []string{"Themes"},
	}, h.ListThemes)

	huma.Register(api, huma.Operation{
		OperationID: "getCurrentTheme",
		Method:      "GET",
		Path:        "/api/v1/theme",
		Summary:     "Get current theme",
		Description: "Returns the visitor's current theme",
		Tags:        []string{"Themes"},
	}, h.GetTheme)

	huma.Register(api, huma.Operation{
		OperationID: "setCurrentTheme",
		Method:      "PUT",
		Path:        "/api/v1/theme",
		Summary:     "Select theme",
		Description: "Selects the visitor's theme and persists the preference in a cookie",
		Tags:        []string{"Themes"},
	}, h.SetTheme)
}

// RegisterChiRoutes registers additional Chi routes for theme CSS serving.
// This is separate because CSS serving needs custom content-type and caching headers.
func (h *ThemeHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/api/v1/themes/{themeId}.css", h.serveThemeCSS)
}

// ListThemesInput is the input for listing themes.
type ListThemesInput struct{}

// ListThemesOutput is the output for listing themes.
type ListThemesOutput struct {
	Body models.ThemeListResponse
}

// ListThemes returns all available themes.
func (h *ThemeHandler) ListThemes(ctx context.Context, input *ListThemesInput) (*ListThemesOutput, error) {
	current := theme.FromContext(ctx).Current()
	return &ListThemesOutput{Body: *h.themeService.ListThemes(ctx, current)}, nil
}

// GetThemeInput is the input for reading the current theme.
type GetThemeInput struct{}

// ThemeSelectionOutput is the output for the current theme endpoints.
type ThemeSelectionOutput struct {
	Body models.ThemeSelection
}

// GetTheme returns the visitor's current theme.
func (h *ThemeHandler) GetTheme(ctx context.Context, input *GetThemeInput) (*ThemeSelectionOutput, error) {
	return &ThemeSelectionOutput{Body: selection(theme.FromContext(ctx))}, nil
}

// SetThemeInput is the input for selecting a theme.
type SetThemeInput struct {
	Body struct {
		Theme string `json:"theme" doc:"Theme identifier" example:"3"`
	}
}

// SetTheme selects a theme. Unknown ids leave the preference untouched.
func (h *ThemeHandler) SetTheme(ctx context.Context, input *SetThemeInput) (*ThemeSelectionOutput, error) {
	store := theme.FromContext(ctx)
	previous := store.Current()

	if !store.SetString(input.Body.Theme) {
		return nil, huma.Error422UnprocessableEntity("unknown theme", &huma.ErrorDetail{
			Message:  "must be one of 1, 2 or 3",
			Location: "body.theme",
			Value:    input.Body.Theme,
		})
	}

	if store.Current() != previous {
		h.metrics.ObserveThemeChange(store.Current().String())
		observability.LoggerFromContext(ctx).DebugContext(ctx, "theme changed",
			"from", previous.String(),
			"to", store.Current().String(),
		)
	}
	return &ThemeSelectionOutput{Body: selection(store)}, nil
}

func selection(store *theme.Store) models.ThemeSelection {
	return models.ThemeSelection{
		Theme:         service.ThemeModel(store.Descriptor(), true),
		Transitioning: store.Transitioning(),
	}
}

// serveThemeCSS serves a theme stylesheet with caching headers. Stylesheets
// are embedded, so the theme id is a stable ETag.
func (h *ThemeHandler) serveThemeCSS(w http.ResponseWriter, r *http.Request) {
	themeID := strings.TrimSuffix(chi.URLParam(r, "themeId"), ".css")
	if themeID == "" {
		http.Error(w, "theme ID required", http.StatusBadRequest)
		return
	}

	css, err := h.themeService.GetThemeCSS(r.Context(), themeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrThemeNotFound):
			http.Error(w, "theme not found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidThemeID):
			http.Error(w, "invalid theme ID format", http.StatusBadRequest)
		default:
			http.Error(w, "failed to load theme", http.StatusInternalServerError)
		}
		return
	}

	etag := fmt.Sprintf(`"theme-%s"`, themeID)
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", etag)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(css)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(css)
}
