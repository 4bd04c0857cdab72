package folio_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"camacho.design/folio"
)

type StudioSite struct {
	// anonymously embedding a *CachedSite makes StudioSite a Site, an
	// AssetResolver and a Clock
	*folio.CachedSite

	Title string
}

type StudioProjectsPage struct {
	Layout StudioLayout
	Nav    StudioNav
}

func (StudioProjectsPage) Templates(_ context.Context) []string {
	return []string{"projects.html.tmpl"}
}

func (p StudioProjectsPage) UseComponents(_ context.Context) []folio.Component {
	return []folio.Component{p.Layout, p.Nav}
}

func (StudioProjectsPage) Key(_ context.Context) string {
	return "projects"
}

func (p StudioProjectsPage) ExecutedTemplate(_ context.Context) string {
	return p.Layout.BaseTemplate()
}

type StudioLayout struct{}

func (l StudioLayout) Templates(_ context.Context) []string {
	return []string{l.BaseTemplate()}
}

func (StudioLayout) BaseTemplate() string {
	return "layout.html.tmpl"
}

func (StudioLayout) LinkCSS(_ context.Context) []folio.CSSLink {
	return []folio.CSSLink{
		{Asset: "css/site.css", Rel: "stylesheet"},
	}
}

func (StudioLayout) LinkJS(_ context.Context) []folio.JSLink {
	return []folio.JSLink{
		{Asset: "js/menu.js", PlaceInFooter: true},
	}
}

type StudioNav struct{}

func (StudioNav) Templates(_ context.Context) []string {
	return []string{"navbar.html.tmpl"}
}

var studioTemplates = templateFS(map[string]string{
	"layout.html.tmpl": `<!DOCTYPE html>
<html lang="en">
<head>
<title>{{ .Site.Title }}</title>
{{ .CSS }}</head>
<body>
{{ .Include "navbar" }}
{{ block "body" . }}{{ end }}
<footer>Studio © {{ .Year }}</footer>
{{ .FooterJS }}</body>
</html>`,
	"navbar.html.tmpl":   `{{ define "navbar" }}<nav><a href="/">Home</a></nav>{{ end }}`,
	"projects.html.tmpl": `{{ define "body" }}<h1>Projects</h1>{{ end }}`,
})

func ExampleCompose() {
	// usually the context comes from the request, but here we're building it from scratch and adding a logger
	ctx := folio.LoggingContext(context.Background(), slog.Default())

	site := StudioSite{
		CachedSite: folio.NewCachedSite(studioTemplates,
			folio.WithAssets(folio.AssetMap{
				"css/site.css": "/static/css/site.5f3c.css",
				"js/menu.js":   "/static/js/menu.5f3c.js",
			}),
			folio.WithClock(folio.FixedYear(2030)),
		),
		Title: "Studio",
	}
	doc, err := folio.Compose(ctx, site, StudioProjectsPage{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(doc)

	//Output:
	// <!DOCTYPE html>
	// <html lang="en">
	// <head>
	// <title>Studio</title>
	// <link rel="stylesheet" href="/static/css/site.5f3c.css">
	// </head>
	// <body>
	// <nav><a href="/">Home</a></nav>
	// <h1>Projects</h1>
	// <footer>Studio © 2030</footer>
	// <script src="/static/js/menu.5f3c.js"></script>
	// </body>
	// </html>
}

func ExampleCompose_missingAsset() {
	ctx := context.Background()

	site := StudioSite{
		CachedSite: folio.NewCachedSite(studioTemplates,
			// js/menu.js was never built
			folio.WithAssets(folio.AssetMap{
				"css/site.css": "/static/css/site.5f3c.css",
			}),
		),
		Title: "Studio",
	}
	doc, err := folio.Compose(ctx, site, StudioProjectsPage{})

	var missing *folio.MissingAssetError
	if errors.As(err, &missing) {
		fmt.Printf("missing %s, rendered %d bytes\n", missing.Name, len(doc))
	}

	//Output:
	// missing js/menu.js, rendered 0 bytes
}
