// Package web renders capture snapshots as the single HTML status page.
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/user/reqcatcher/internal/capture"
)

//go:embed page.html.tmpl
var pageFS embed.FS

// PageData is the input to the page template.
type PageData struct {
	BaseURL string
	Records []capture.Record
}

// Renderer turns a capture snapshot into the HTML page. All interpolated
// values pass through html/template's contextual escaping, so
// attacker-controlled request content is displayed, never executed.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(pageFS, "page.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for the given snapshot and externally visible
// base URL.
func (r *Renderer) Render(w io.Writer, data PageData) error {
	return r.tmpl.Execute(w, data)
}
