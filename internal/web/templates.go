// Package web holds the embedded HTML templates for all pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates. Each page is named by
// its filename; shared partials live in partials.html.
func Templates() (*template.Template, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return t, nil
}

// Static returns the embedded stylesheet filesystem with the
// "static" prefix stripped.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
