// Package views provides the site pages as templ components. Page markup
// lives in embedded html/template files sharing the base layout.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eugenenazirov/website/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	homeTemplate     = parsePage("index.html")
	notFoundTemplate = parsePage("404.html")
)

// pageData is what every page template receives.
type pageData struct {
	Site *config.Site
	URI  string
}

// Home renders the landing page of site.
func Home(site *config.Site) templ.Component {
	return page(homeTemplate, pageData{Site: site})
}

// NotFound renders the 404 page echoing the requested uri.
func NotFound(site *config.Site, uri string) templ.Component {
	return page(notFoundTemplate, pageData{Site: site, URI: uri})
}

func page(tmpl *template.Template, data pageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, "base", data)
	})
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).ParseFS(templateFS, "templates/base.html", "templates/"+name))
}
