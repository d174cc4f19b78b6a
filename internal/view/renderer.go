// Package view renders the site's pages and components. Every component is
// a function of the active theme's Variant and its own data; theme-specific
// choices live in the Variant table rather than in the templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jmylchreest/themeflex/internal/catalog"
	"github.com/jmylchreest/themeflex/internal/contact"
	"github.com/jmylchreest/themeflex/internal/content"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/notify"
	"github.com/jmylchreest/themeflex/internal/theme"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// Page template names.
const (
	PageHome     = "home"
	PageAbout    = "about"
	PageContact  = "contact"
	PageNotFound = "notfound"
)

// Product counts shown by the secondary pages.
const (
	AboutFeatured  = 4
	ContactRelated = 3
)

var pageNames = []string{PageHome, PageAbout, PageContact, PageNotFound}

// NavLink is a main navigation entry.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// ThemeOption is one entry of the theme picker.
type ThemeOption struct {
	theme.Descriptor
	Active bool
}

// PageData is what every page template receives.
type PageData struct {
	Title         string
	Path          string
	// ReturnTo is where forms on the page send the visitor back to,
	// including the query string.
	ReturnTo      string
	Theme         theme.Descriptor
	Variant       Variant
	Transitioning bool
	Themes        []ThemeOption
	Nav           []NavLink
	Notifications []notify.Notification
	Catalog       catalog.Snapshot

	// Content is the page-specific model: HomeData, AboutData, ContactData
	// or NotFoundData.
	Content any
}

// NewPageData assembles the shared page model for path under store's theme.
func NewPageData(title, path string, store *theme.Store, snap catalog.Snapshot) *PageData {
	desc := store.Descriptor()
	return &PageData{
		Title:         title,
		Path:          path,
		ReturnTo:      path,
		Theme:         desc,
		Variant:       VariantFor(desc.ID),
		Transitioning: store.Transitioning(),
		Themes:        ThemeOptions(desc.ID),
		Nav:           Navigation(path),
		Catalog:       snap,
	}
}

// Sidebar reports whether the active layout has persistent side navigation.
func (p *PageData) Sidebar() bool {
	return p.Theme.Layout == theme.LayoutSidebar
}

// BodyClass is the class list of the document body.
func (p *PageData) BodyClass() string {
	classes := []string{p.Theme.ID.ClassName(), "layout-" + string(p.Theme.Layout)}
	if p.Transitioning {
		classes = append(classes, "theme-fade-in")
	}
	return strings.Join(classes, " ")
}

// Refresh reports whether the page should reload itself while the catalog
// is still loading.
func (p *PageData) Refresh() bool {
	return p.Catalog.Pending()
}

// HomeData is the model of the home page.
type HomeData struct {
	Products []models.Product
	Total    int
	ShowAll  bool
	HasMore  bool
}

// NewHomeData selects the products shown on the home page.
func NewHomeData(v Variant, snap catalog.Snapshot, showAll bool) HomeData {
	data := HomeData{Total: len(snap.Products), ShowAll: showAll}
	data.HasMore = data.Total > v.HomeProducts
	if showAll {
		data.Products = snap.Products
	} else {
		data.Products = models.FirstN(snap.Products, v.HomeProducts)
	}
	return data
}

// AboutData is the model of the about page.
type AboutData struct {
	Page     *content.Page
	Featured []models.Product
}

// ContactData is the model of the contact page.
type ContactData struct {
	Form    contact.Submission
	Errors  map[string]string
	Details []contact.Detail
	Hours   []contact.Hours
	Related []models.Product
}

// NewContactData builds the contact page model. form and errs may be zero.
func NewContactData(form contact.Submission, errs map[string]string, snap catalog.Snapshot) ContactData {
	return ContactData{
		Form:    form,
		Errors:  errs,
		Details: contact.Details(),
		Hours:   contact.BusinessHours(),
		Related: models.FirstN(snap.Products, ContactRelated),
	}
}

// NotFoundData is the model of the not-found page.
type NotFoundData struct {
	Path string
}

// Navigation returns the main navigation with the entry for path marked active.
func Navigation(path string) []NavLink {
	links := []NavLink{
		{Label: "Home", Href: "/"},
		{Label: "About", Href: "/about"},
		{Label: "Contact", Href: "/contact"},
	}
	for i := range links {
		links[i].Active = links[i].Href == path
	}
	return links
}

// ThemeOptions lists every registered theme with current marked active.
func ThemeOptions(current theme.ID) []ThemeOption {
	all := theme.All()
	opts := make([]ThemeOption, len(all))
	for i, d := range all {
		opts[i] = ThemeOption{Descriptor: d, Active: d.ID == current}
	}
	return opts
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the shared layout
// and partials.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.gohtml",
			"templates/partials.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page. Output is buffered so a template failure
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, data *PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderPartial executes a single shared component, such as "product-grid",
// against data.
func (r *Renderer) RenderPartial(w io.Writer, name string, data any) error {
	return r.pages[PageHome].ExecuteTemplate(w, name, data)
}

var funcs = template.FuncMap{
	"price":  FormatPrice,
	"rating": FormatRating,
	"dict":   dict,
	"link":   link,
}

// link marks a contact detail link as trusted. The details are compiled in,
// and tel: links would otherwise be rejected by the URL sanitizer.
func link(s string) template.URL {
	//nolint:gosec // fixed, compiled-in values
	return template.URL(s)
}

// dict builds a map from alternating keys and values so templates can pass
// several arguments to a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
