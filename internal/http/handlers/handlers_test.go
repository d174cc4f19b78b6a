package handlers_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themeflex/internal/catalog"
	"github.com/jmylchreest/themeflex/internal/contact"
	"github.com/jmylchreest/themeflex/internal/content"
	"github.com/jmylchreest/themeflex/internal/http/handlers"
	"github.com/jmylchreest/themeflex/internal/http/middleware"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/service"
	"github.com/jmylchreest/themeflex/internal/theme"
	"github.com/jmylchreest/themeflex/internal/view"
)

// fakeSource is a ProductSource with a fixed snapshot.
type fakeSource struct {
	mu      sync.Mutex
	snap    catalog.Snapshot
	retries int
}

func (f *fakeSource) Snapshot() catalog.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) Retry() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap.State != catalog.StateFailed {
		return false
	}
	f.retries++
	f.snap = catalog.Snapshot{State: catalog.StatePending}
	return true
}

func products(n int) []models.Product {
	list := make([]models.Product, n)
	for i := range list {
		list[i] = models.Product{
			ID:          i + 1,
			Title:       fmt.Sprintf("Gadget %02d", i+1),
			Price:       1299.5,
			Description: "Useful gadget",
			Category:    "electronics",
			Image:       fmt.Sprintf("https://img.example.com/%d.png", i+1),
			Rating:      models.Rating{Rate: 4.2, Count: 31},
		}
	}
	return list
}

func ready(n int) *fakeSource {
	return &fakeSource{snap: catalog.Snapshot{State: catalog.StateReady, Products: products(n), FetchedAt: time.Now()}}
}

func failed() *fakeSource {
	return &fakeSource{snap: catalog.Snapshot{State: catalog.StateFailed, Message: catalog.FailureMessage}}
}

func pending() *fakeSource {
	return &fakeSource{snap: catalog.Snapshot{State: catalog.StatePending}}
}

func newRouter(t *testing.T, source handlers.ProductSource) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	about, err := content.About()
	require.NoError(t, err)
	contactService := contact.NewService(logger, nil)
	themeService := service.NewThemeService().WithLogger(logger)

	router := chi.NewRouter()
	router.Use(middleware.Theme(middleware.ThemeConfig{Default: theme.Professional, CookieMaxAge: time.Hour}, logger))

	api := humachi.New(router, huma.DefaultConfig("Test API", "1.0.0"))
	handlers.NewThemeHandler(themeService).Register(api)
	handlers.NewProductsHandler(source).Register(api)
	handlers.NewContactHandler(contactService).Register(api)
	handlers.NewSettingsHandler().Register(api)
	handlers.NewHealthHandler("1.0.0").WithProductSource(source).Register(api)

	handlers.NewThemeHandler(themeService).RegisterChiRoutes(router)
	static, err := handlers.NewStaticHandler()
	require.NoError(t, err)
	static.RegisterChiRoutes(router)
	handlers.NewPagesHandler(renderer, source, contactService, about).RegisterChiRoutes(router)

	return router
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(router, req)
}

func postForm(router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(router, req)
}

func sendJSON(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(router, req)
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
