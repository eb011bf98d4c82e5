package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/s0up4200/ghiblidex/catalog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer turns view models into HTML
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Results renders the results region
func (r *Renderer) Results(w io.Writer, region *Region) error {
	return r.tmpl.ExecuteTemplate(w, "results", NewResultsView(region))
}

// Overlay renders the detail overlay content for one movie
func (r *Renderer) Overlay(w io.Writer, movie catalog.Movie) error {
	return r.tmpl.ExecuteTemplate(w, "overlay", NewOverlayView(movie))
}

// Page renders the whole document around the region
func (r *Renderer) Page(w io.Writer, query string, region *Region) error {
	return r.tmpl.ExecuteTemplate(w, "page", PageView{
		Title:   "Studio Ghibli Films",
		Query:   query,
		Results: NewResultsView(region),
	})
}
