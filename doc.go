// Package folio provides an HTML page composition framework built on top of
// the html/template package.
//
// folio is organized around Components and Pages. A Component is some piece
// of the HTML document that you want included in the page's output. A Page is
// a Component that gets rendered itself rather than being included in another
// Component. A portfolio's projects listing is a Page; the navbar it includes
// and the layout every page shares are Components.
//
// Each server should have a Site. The Site is a singleton that provides the
// fs.FS holding the templates Components use, and it is where the render-time
// dependencies are injected: an AssetResolver that turns logical asset names
// like "css/globals.css" into servable, possibly fingerprinted URLs, and a
// Clock that supplies the current year. The Site is available at render time
// as .Site, the Page as .Page.
//
// Templates can use a small surface on the render data:
//
//	{{ .CSS }}                        linked and inline stylesheets
//	{{ .HeaderJS }} / {{ .FooterJS }} linked and inline scripts
//	{{ .Asset "img/logo.svg" }}       a resolved asset URL
//	{{ .Year }}                       the current year
//	{{ .Include "navbar" }}           the output of another named template
//
// Compose renders a Page to a string and returns any error unmodified; a
// *MissingAssetError when an asset can't be resolved, an *IncludeRenderError
// when an included template fails. Nothing is returned on failure. Render is
// the variant for HTTP handlers: it writes the page or, on failure, the Site's
// server error page.
//
// When a Component relies on another Component, a good practice is to make an
// instance of it a property on the parent struct and return it from
// UseComponents, so its templates, resources and FuncMap are all picked up
// whenever the parent is rendered.
package folio
