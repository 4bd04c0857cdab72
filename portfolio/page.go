package portfolio

import (
	"context"

	"camacho.design/folio"
)

// ProjectsPage lists every project in Catalogue, grouped by category.
type ProjectsPage struct {
	Layout    Layout
	Catalogue Catalogue
}

func (ProjectsPage) Templates(_ context.Context) []string {
	return []string{"projects.html.tmpl"}
}

func (p ProjectsPage) UseComponents(_ context.Context) []folio.Component {
	return []folio.Component{p.Layout}
}

func (ProjectsPage) Key(_ context.Context) string {
	return "projects"
}

func (p ProjectsPage) ExecutedTemplate(_ context.Context) string {
	return p.Layout.BaseTemplate()
}

// Layout is the skeleton every portfolio page fills in: the head, the hero,
// the navigation bar and the footer.
type Layout struct {
	Nav NavBar
}

func (l Layout) Templates(_ context.Context) []string {
	return []string{l.BaseTemplate()}
}

func (l Layout) UseComponents(_ context.Context) []folio.Component {
	return []folio.Component{l.Nav}
}

// BaseTemplate is the template pages using the Layout execute.
func (Layout) BaseTemplate() string {
	return "layout.html.tmpl"
}

func (Layout) LinkCSS(_ context.Context) []folio.CSSLink {
	return []folio.CSSLink{
		{Asset: "css/globals.css", Rel: "stylesheet"},
	}
}

func (Layout) LinkJS(_ context.Context) []folio.JSLink {
	return []folio.JSLink{
		{Asset: "js/fitText.js", PlaceInFooter: true},
	}
}

// NavBar is the site navigation. Layout pulls it in with
// {{ .Include "navbar" }}.
type NavBar struct{}

func (NavBar) Templates(_ context.Context) []string {
	return []string{"navbar.html.tmpl"}
}

// ServerErrorPage is a standalone page shown when another page fails to
// render. It references no assets, so it can't fail the same way.
type ServerErrorPage struct{}

func (ServerErrorPage) Templates(_ context.Context) []string {
	return []string{"server_error.html.tmpl"}
}

func (ServerErrorPage) Key(_ context.Context) string {
	return "server_error"
}

func (ServerErrorPage) ExecutedTemplate(_ context.Context) string {
	return "server_error.html.tmpl"
}
