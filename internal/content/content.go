// Package content holds the site copy that is authored as Markdown with
// YAML front matter and embedded in the binary.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Stat is one headline figure on the About page.
type Stat struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Page is a rendered content page.
type Page struct {
	Title         string `yaml:"title"`
	Lead          string `yaml:"lead"`
	CTA           string `yaml:"cta"`
	Stats         []Stat `yaml:"stats"`
	StoryTitle    string `yaml:"story_title"`
	FeaturedTitle string `yaml:"featured_title"`
	FeaturedLead  string `yaml:"featured_lead"`

	// Body is the Markdown body rendered to HTML. Raw HTML in the source is
	// not passed through.
	Body template.HTML `yaml:"-"`
}

// md is safe for concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Parse splits source into front matter and body and renders the body.
func Parse(source []byte) (*Page, error) {
	var page Page
	body, err := frontmatter.Parse(bytes.NewReader(source), &page)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	//nolint:gosec // rendered from embedded Markdown with raw HTML disabled
	page.Body = template.HTML(buf.String())
	return &page, nil
}

// Load parses the embedded page called name (without the .md suffix).
func Load(name string) (*Page, error) {
	source, err := pagesFS.ReadFile("pages/" + name + ".md")
	if err != nil {
		return nil, fmt.Errorf("loading page %q: %w", name, err)
	}
	return Parse(source)
}

var about = sync.OnceValues(func() (*Page, error) {
	return Load("about")
})

// About returns the About page. It is parsed once.
func About() (*Page, error) {
	return about()
}
