// Package portfolio is the design portfolio site: the projects page, its
// layout, the navigation bar it includes and the catalogue of projects it
// lists.
package portfolio

import (
	"context"
	"embed"
	"io/fs"

	"camacho.design/folio"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

// Templates returns the site's templates, rooted so the paths match what the
// site's Components list.
func Templates() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		// the embedded directory always exists
		panic(err)
	}
	return sub
}

var (
	_ folio.Site             = &Site{}
	_ folio.ServerErrorPager = &Site{}
	_ folio.AssetResolver    = &Site{}
	_ folio.Clock            = &Site{}
)

// Site renders the portfolio. It resolves assets and reads the year through
// whatever was passed to NewSite, and is safe to share between requests.
type Site struct {
	*folio.CachedSite

	Catalogue Catalogue
}

// NewSite returns a Site listing catalogue. The options are passed through to
// folio.NewCachedSite, and should at least set an asset resolver.
func NewSite(catalogue Catalogue, opts ...folio.SiteOption) *Site {
	return &Site{
		CachedSite: folio.NewCachedSite(Templates(), opts...),
		Catalogue:  catalogue,
	}
}

// ProjectsPage returns the page listing the Site's catalogue.
func (s *Site) ProjectsPage() ProjectsPage {
	return ProjectsPage{Catalogue: s.Catalogue}
}

// RenderProjects composes the projects page. It fails with a
// *folio.MissingAssetError if the stylesheet or script can't be resolved,
// and with a *folio.IncludeRenderError if the navigation bar can't be
// rendered; either way, no document is returned.
func (s *Site) RenderProjects(ctx context.Context) (string, error) {
	return folio.Compose(ctx, s, s.ProjectsPage())
}

// ServerErrorPage is rendered by folio.Render when a page fails.
func (s *Site) ServerErrorPage(_ context.Context) folio.Page {
	return ServerErrorPage{}
}
