package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/themeflex/internal/assets"
)

// StaticHandler serves the embedded stylesheets under /static/.
type StaticHandler struct {
	staticFS   fs.FS
	fileServer http.Handler
}

// NewStaticHandler creates a new static asset handler.
func NewStaticHandler() (*StaticHandler, error) {
	staticFS, err := assets.GetStaticFS()
	if err != nil {
		return nil, err
	}
	return &StaticHandler{
		staticFS:   staticFS,
		fileServer: http.StripPrefix("/static", http.FileServer(http.FS(staticFS))),
	}, nil
}

// RegisterChiRoutes mounts the handler on /static/.
func (h *StaticHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/static/*", h.ServeHTTP)
}

// ServeHTTP serves one embedded file. Directories are not listed.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(path.Clean(r.URL.Path), "/static/")

	info, err := fs.Stat(h.staticFS, filePath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	h.setHeaders(w, filePath)
	h.fileServer.ServeHTTP(w, r)
}

// setHeaders sets content-type and cache headers.
func (h *StaticHandler) setHeaders(w http.ResponseWriter, filePath string) {
	w.Header().Set("Content-Type", assets.GetContentType(filePath))

	switch {
	case strings.HasSuffix(filePath, ".woff2"):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case strings.HasSuffix(filePath, ".css"), strings.HasSuffix(filePath, ".js"):
		w.Header().Set("Cache-Control", "public, max-age=3600")
	default:
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}
}
