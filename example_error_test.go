package folio_test

import (
	"context"
	"log/slog"
	"os"

	"camacho.design/folio"
)

type ErrorSite struct {
	*folio.CachedSite
}

func (ErrorSite) ServerErrorPage(_ context.Context) folio.Page {
	return ServerErrorPage{}
}

type BrokenPage struct{}

func (BrokenPage) Templates(_ context.Context) []string {
	return []string{"broken.html.tmpl"}
}

func (BrokenPage) Key(_ context.Context) string {
	return "broken"
}

func (BrokenPage) ExecutedTemplate(_ context.Context) string {
	return "broken.html.tmpl"
}

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

func ExampleRender_serverErrorPage() {
	templates := templateFS(map[string]string{
		// there is no "sidebar" template, so the include fails
		"broken.html.tmpl": `<!DOCTYPE html>
<html lang="en">
<body>
<p>This never gets sent.</p>
{{ .Include "sidebar" }}
</body>
</html>`,
		"server_error.html.tmpl": `<!DOCTYPE html>
<html lang="en">
<head>
<title>Server Error</title>
</head>
<body>
<h1>Server error</h1>
<p>Something went wrong, sorry about that.</p>
</body>
</html>`,
	})

	// usually the context comes from the request, but here we're building it from scratch and adding a logger
	ctx := folio.LoggingContext(context.Background(), slog.New(slog.NewTextHandler(os.Stderr, nil)))

	site := ErrorSite{CachedSite: folio.NewCachedSite(templates)}
	folio.Render(ctx, os.Stdout, site, BrokenPage{})

	//Output:
	// <!DOCTYPE html>
	// <html lang="en">
	// <head>
	// <title>Server Error</title>
	// </head>
	// <body>
	// <h1>Server error</h1>
	// <p>Something went wrong, sorry about that.</p>
	// </body>
	// </html>
}
