package folio_test

import (
	"context"
	"os"

	"camacho.design/folio"
)

type GalleryPage struct {
	Columns int
}

func (GalleryPage) Templates(_ context.Context) []string {
	return []string{"gallery_page.html.tmpl"}
}

func (GalleryPage) UseComponents(_ context.Context) []folio.Component {
	// the same component twice only contributes its resources once
	return []folio.Component{GalleryLayout{}, Gallery{}, Gallery{}}
}

func (GalleryPage) Key(_ context.Context) string {
	return "gallery"
}

func (GalleryPage) ExecutedTemplate(_ context.Context) string {
	return "gallery_layout.html.tmpl"
}

func (GalleryPage) LinkCSS(_ context.Context) []folio.CSSLink {
	return []folio.CSSLink{
		{
			Asset: "css/projects.css",
			Rel:   "stylesheet",
			CSSLinkRelationCalculator: func(_ context.Context, other folio.CSSLink) folio.ResourceRelationship {
				if other.Asset == "css/site.css" {
					return folio.ResourceRelationshipAfter
				}
				return folio.ResourceRelationshipNeutral
			},
		},
	}
}

type GalleryLayout struct{}

func (GalleryLayout) Templates(_ context.Context) []string {
	return []string{"gallery_layout.html.tmpl"}
}

func (GalleryLayout) LinkCSS(_ context.Context) []folio.CSSLink {
	// declared in the order they need to load in
	return []folio.CSSLink{
		{Href: "https://cdn.example.com/reset.css", Rel: "stylesheet"},
		{Asset: "css/site.css", Rel: "stylesheet"},
	}
}

func (GalleryLayout) LinkJS(_ context.Context) []folio.JSLink {
	return []folio.JSLink{
		{Src: "https://cdn.example.com/analytics.js", Type: "module"},
	}
}

type Gallery struct{}

func (Gallery) Templates(_ context.Context) []string {
	return nil
}

func (Gallery) EmbedCSS(_ context.Context) []folio.CSSInline {
	return []folio.CSSInline{
		{TemplatePath: "gallery.css.tmpl"},
	}
}

func (Gallery) LinkJS(_ context.Context) []folio.JSLink {
	return []folio.JSLink{
		{Asset: "js/gallery.js", PlaceInFooter: true},
	}
}

func (Gallery) EmbedJS(_ context.Context) []folio.JSInline {
	return []folio.JSInline{
		{TemplatePath: "gallery.js.tmpl", PlaceInFooter: true},
	}
}

func ExampleRender_resources() {
	templates := templateFS(map[string]string{
		"gallery_layout.html.tmpl": `<!DOCTYPE html>
<html lang="en">
<head>
{{ .CSS }}{{ .HeaderJS }}</head>
<body>
{{ block "body" . }}{{ end }}
{{ .FooterJS }}</body>
</html>`,
		"gallery_page.html.tmpl": `{{ define "body" }}<div class="gallery"></div>{{ end }}`,
		"gallery.css.tmpl":       `.gallery { columns: {{ .Page.Columns }}; }`,
		"gallery.js.tmpl":        `window.galleryReady = true;`,
	})

	site := folio.NewCachedSite(templates, folio.WithAssets(folio.AssetMap{
		"css/site.css":     "/static/css/site.a1b2.css",
		"css/projects.css": "/static/css/projects.a1b2.css",
		"js/gallery.js":    "/static/js/gallery.a1b2.js",
	}))
	folio.Render(context.Background(), os.Stdout, site, GalleryPage{Columns: 3})

	//Output:
	// <!DOCTYPE html>
	// <html lang="en">
	// <head>
	// <link rel="stylesheet" href="https://cdn.example.com/reset.css">
	// <link rel="stylesheet" href="/static/css/site.a1b2.css">
	// <link rel="stylesheet" href="/static/css/projects.a1b2.css">
	// <style>
	// .gallery { columns: 3; }
	// </style>
	// <script type="module" src="https://cdn.example.com/analytics.js"></script>
	// </head>
	// <body>
	// <div class="gallery"></div>
	// <script src="/static/js/gallery.a1b2.js"></script>
	// <script>
	// window.galleryReady = true;
	// </script>
	// </body>
	// </html>
}
