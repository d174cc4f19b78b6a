package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/themeflex/internal/catalog"
	"github.com/jmylchreest/themeflex/internal/contact"
	"github.com/jmylchreest/themeflex/internal/content"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/notify"
	"github.com/jmylchreest/themeflex/internal/observability"
	"github.com/jmylchreest/themeflex/internal/theme"
	"github.com/jmylchreest/themeflex/internal/view"
)

// ProductSource is the read side of the catalog used by the handlers.
type ProductSource interface {
	Snapshot() catalog.Snapshot
	Retry() bool
}

// PagesHandler serves the server-rendered site.
type PagesHandler struct {
	renderer *view.Renderer
	source   ProductSource
	contact  *contact.Service
	about    *content.Page
	metrics  *observability.Metrics
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(renderer *view.Renderer, source ProductSource, contactService *contact.Service, about *content.Page) *PagesHandler {
	return &PagesHandler{
		renderer: renderer,
		source:   source,
		contact:  contactService,
		about:    about,
	}
}

// WithMetrics sets the metrics recorder.
func (h *PagesHandler) WithMetrics(m *observability.Metrics) *PagesHandler {
	h.metrics = m
	return h
}

// RegisterChiRoutes registers the HTML routes and the not-found handler.
func (h *PagesHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/about", h.About)
	r.Get("/contact", h.Contact)
	r.Post("/contact", h.SubmitContact)
	r.Post("/theme", h.SelectTheme)
	r.Post("/products/retry", h.RetryProducts)
	r.NotFound(h.NotFound)
}

// Home renders the landing page. ?view=all expands the product grid.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "Home")
	data.Content = view.NewHomeData(data.Variant, data.Catalog, r.URL.Query().Get("view") == "all")
	h.render(w, r, http.StatusOK, view.PageHome, data)
}

// About renders the about page.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "About")
	about := view.AboutData{Page: h.about}
	if data.Catalog.Ready() {
		about.Featured = firstProducts(data.Catalog, view.AboutFeatured)
	}
	data.Content = about
	h.render(w, r, http.StatusOK, view.PageAbout, data)
}

// Contact renders the empty contact form.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "Contact")
	data.Content = view.NewContactData(contact.Submission{}, nil, data.Catalog)
	h.render(w, r, http.StatusOK, view.PageContact, data)
}

// SubmitContact accepts the contact form. A valid submission redirects back
// with a success notification and a cleared form; an invalid one re-renders
// the form with field errors.
func (h *PagesHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sub := contact.Submission{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}

	_, err := h.contact.Submit(r.Context(), sub)
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		data := h.pageData(w, r, "Contact")
		data.Content = view.NewContactData(sub, verr.Fields, data.Catalog)
		h.render(w, r, http.StatusUnprocessableEntity, view.PageContact, data)
		return
	case err != nil:
		h.log(r).ErrorContext(r.Context(), "contact submission failed", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := notify.SetFlash(w, contact.SuccessNotification()); err != nil {
		h.log(r).WarnContext(r.Context(), "flash not set", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// SelectTheme applies the posted theme and sends the visitor back to the
// page they came from. Unknown theme ids are ignored.
func (h *PagesHandler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	store := theme.FromContext(r.Context())
	previous := store.Current()
	requested := r.PostFormValue("theme")

	if !store.SetString(requested) {
		h.log(r).WarnContext(r.Context(), "ignoring unknown theme", slog.String("theme", requested))
	} else if store.Current() != previous {
		h.metrics.ObserveThemeChange(store.Current().String())
		h.log(r).DebugContext(r.Context(), "theme changed",
			slog.String("from", previous.String()),
			slog.String("to", store.Current().String()),
		)
	}

	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return_to")), http.StatusSeeOther)
}

// RetryProducts re-issues a failed catalog fetch.
func (h *PagesHandler) RetryProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if h.source.Retry() {
		h.log(r).InfoContext(r.Context(), "product fetch retried")
	}
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return_to")), http.StatusSeeOther)
}

// NotFound renders the themed 404 page. Unmatched API paths get a plain 404.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	h.log(r).WarnContext(r.Context(), "page not found", slog.String("path", r.URL.Path))

	data := h.pageData(w, r, "Page Not Found")
	data.Content = view.NotFoundData{Path: r.URL.Path}
	h.render(w, r, http.StatusNotFound, view.PageNotFound, data)
}

// pageData builds the shared model, including pending flash notifications
// and an error notification while the catalog is failed.
func (h *PagesHandler) pageData(w http.ResponseWriter, r *http.Request, title string) *view.PageData {
	snap := h.source.Snapshot()
	data := view.NewPageData(title, r.URL.Path, theme.FromContext(r.Context()), snap)
	data.ReturnTo = r.URL.RequestURI()
	data.Notifications = notify.ConsumeFlash(w, r)
	if snap.Failed() {
		data.Notifications = append(data.Notifications, notify.Error("Error", snap.Message))
	}
	return data
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data *view.PageData) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		h.log(r).ErrorContext(r.Context(), "page render failed",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// log returns the request-scoped logger installed by the logging middleware.
func (h *PagesHandler) log(r *http.Request) *slog.Logger {
	return observability.LoggerFromContext(r.Context())
}

func firstProducts(snap catalog.Snapshot, n int) []models.Product {
	return models.FirstN(snap.Products, n)
}

// safeReturnPath accepts only local absolute paths so redirects cannot leave
// the site.
func safeReturnPath(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return u.RequestURI()
}
