package folio

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoTemplateSet is wrapped by an *IncludeRenderError when Include is
// called on RenderData that didn't come from a render.
var ErrNoTemplateSet = errors.New("render data has no template set")

// IncludeRenderError is returned when a template pulled in with {{ .Include }}
// fails to render, including when no template by that name was parsed.
type IncludeRenderError struct {
	Name string
	Err  error
}

func (e *IncludeRenderError) Error() string {
	return fmt.Sprintf("error rendering include %q: %s", e.Name, e.Err)
}

func (e *IncludeRenderError) Unwrap() error {
	return e.Err
}

// Include executes the template called name, one of the templates parsed for
// the Page, with the same data and returns its output as opaque markup.
//
// Templates use it as {{ .Include "navbar" }}. Unlike {{ template "navbar" . }}
// a failure is reported as an *IncludeRenderError naming the include.
func (d RenderData[SiteType, PageType]) Include(name string) (template.HTML, error) {
	ctx, span := tracer.Start(d.context(), "folio.Include", trace.WithAttributes(
		attribute.String("folio.include", name),
	))
	defer span.End()

	if d.tmpl == nil {
		err := &IncludeRenderError{Name: name, Err: ErrNoTemplateSet}
		recordError(span, err)
		return "", err
	}
	d.ctx = ctx

	var buf bytes.Buffer
	if err := d.tmpl.ExecuteTemplate(&buf, name, d); err != nil {
		wrapped := &IncludeRenderError{Name: name, Err: err}
		recordError(span, wrapped)
		logger(ctx).DebugContext(ctx, "include failed", "include", name, "error", err)
		return "", wrapped
	}
	return template.HTML(buf.String()), nil // #nosec G203
}
