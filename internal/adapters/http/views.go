package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed views/templates/*.html
var templateFS embed.FS

//go:embed views/static
var staticFS embed.FS

var pages = []string{"index.html", "recycle.html", "report.html", "transaction.html"}

// TemplateRenderer implements echo.Renderer over the embedded page templates.
// Each page is parsed together with the layout so that every page can
// define its own "content" block.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer parses every page template
func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{templates: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "views/templates/layout.html", "views/templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

// Render executes the layout of the named page
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// StaticHandler serves the embedded assets with the /static prefix stripped
func StaticHandler() echo.HandlerFunc {
	sub, err := fs.Sub(staticFS, "views/static")
	if err != nil {
		panic(err)
	}
	return echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}
