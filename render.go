package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNoTemplatePath is returned when a template path is needed, but
	// none are supplied.
	ErrNoTemplatePath = errors.New("need at least one template path")

	// ErrTemplatePatternMatchesNoFiles is returned when a template path is
	// a pattern, but that pattern doesn't match any files.
	ErrTemplatePatternMatchesNoFiles = errors.New("pattern matches no files")
)

// Component is an interface for a UI component that can be rendered to HTML.
type Component interface {
	// Templates returns a list of filepaths to html/template contents
	// that need to be parsed before the component can be rendered. Paths
	// may be fs.Glob patterns.
	Templates(context.Context) []string
}

// ComponentUser is an interface that a Component can optionally implement to
// list the Components that it relies upon. These Components will automatically
// have the appropriate methods called if they implement any of the optional
// interfaces. A Component that uses other Components but doesn't return them
// with this interface is responsible for including their templates and
// resources in its own.
type ComponentUser interface {
	// UseComponents returns the Components that this Component relies on.
	UseComponents(context.Context) []Component
}

// FuncMapExtender is an interface that Components and Sites can fulfill to add
// to the map of functions available to them when rendering.
type FuncMapExtender interface {
	// FuncMap returns an html/template.FuncMap containing all the
	// functions that the Component is adding to the FuncMap.
	FuncMap(context.Context) template.FuncMap
}

// Page is an interface for a page that can be passed to Render or Compose.
// It defines a single logical page of the application, composed of one or
// more Components. It should contain all the information needed to render
// the Components to HTML.
type Page interface {
	Component

	// Key is a unique key to use when caching this page so it doesn't need
	// to be re-parsed. A good key is consistent, but unique per Page.
	Key(context.Context) string

	// ExecutedTemplate is the template that needs to actually be executed
	// when rendering the page.
	//
	// This is usually not the template for the Component defining the
	// page; it's usually the "base" template that Component defining the
	// page fills blocks in.
	ExecutedTemplate(context.Context) string
}

// RenderData is the data that is passed to a page when rendering it.
type RenderData[SiteType Site, PageType Page] struct {
	// Site is an instance of the Site type, containing all the
	// configuration and information about a Site.
	Site SiteType

	// Page is the information for a specific page.
	Page PageType

	// CSS holds the <link> and <style> elements for every stylesheet
	// the Page and its Components use, in dependency order.
	CSS template.HTML

	// HeaderJS holds the <script> elements that belong in the <head>.
	HeaderJS template.HTML

	// FooterJS holds the <script> elements that belong at the end of the
	// <body>.
	FooterJS template.HTML

	// Year is the current year according to the Site's Clock, read once
	// per render.
	Year int

	ctx  context.Context
	tmpl *template.Template
}

// Asset resolves a logical asset name through the Site. Any failure is a
// *MissingAssetError, and stops the render.
func (d RenderData[SiteType, PageType]) Asset(name string) (string, error) {
	return resolveAsset(d.context(), d.Site, name)
}

func (d RenderData[SiteType, PageType]) context() context.Context {
	if d.ctx == nil {
		return context.Background()
	}
	return d.ctx
}

// Render renders the passed Page to the Writer. If it can't, a server error
// page is written instead. If the Site implements ServerErrorPager, that will
// be rendered; if not, a simple text page indicating a server error will be
// written.
//
// Because the page is composed in memory first, a failed render never leaves
// a partial page in out.
func Render[SiteType Site, PageType Page](ctx context.Context, out io.Writer, site SiteType, page PageType) {
	ctx, span := tracer.Start(ctx, "folio.Render", trace.WithAttributes(
		attribute.String("folio.page", fmt.Sprintf("%T", page)),
	))
	defer span.End()

	defer func() {
		// if the ResponseWriter can be closed, let's try to close it
		if closer, ok := out.(io.Closer); ok {
			err := closer.Close()
			if err != nil {
				logger(ctx).ErrorContext(ctx, "error closing response writer", "error", err)
			}
		}
	}()

	doc, err := compose(ctx, site, page)
	if err == nil {
		writeDocument(ctx, out, doc)
		return
	}

	recordError(span, err)
	logger(ctx).ErrorContext(ctx, "error rendering page", "page", fmt.Sprintf("%T", page), "error", err)

	if pager, ok := Site(site).(ServerErrorPager); ok {
		errorPage := pager.ServerErrorPage(ctx)
		doc, err = compose(ctx, site, errorPage)
		if err == nil {
			writeDocument(ctx, out, doc)
			return
		}
		// if we can't do that, everything's doomed, fall back to the
		// plain text message
		logger(ctx).ErrorContext(ctx, "error rendering server error page", "page", fmt.Sprintf("%T", errorPage), "error", err)
	}

	_, err = out.Write([]byte("Server error."))
	if err != nil {
		logger(ctx).ErrorContext(ctx, "error writing server error message", "error", err)
	}
}

// Compose renders the passed Page and returns the whole document. Errors are
// returned as they happened: a *MissingAssetError for an asset that couldn't
// be resolved, an *IncludeRenderError for an included template that failed.
// On error the returned string is always empty.
//
// Compose holds no state between calls; the same Site and Page always
// produce the same output for the same injected assets and clock.
func Compose[SiteType Site, PageType Page](ctx context.Context, site SiteType, page PageType) (string, error) {
	ctx, span := tracer.Start(ctx, "folio.Compose", trace.WithAttributes(
		attribute.String("folio.page", fmt.Sprintf("%T", page)),
	))
	defer span.End()

	doc, err := compose(ctx, site, page)
	if err != nil {
		recordError(span, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("folio.bytes", len(doc)))
	return doc, nil
}

func writeDocument(ctx context.Context, out io.Writer, doc string) {
	if _, err := io.WriteString(out, doc); err != nil {
		logger(ctx).ErrorContext(ctx, "error writing rendered page", "error", err)
	}
}

func compose[SiteType Site, PageType Page](ctx context.Context, site SiteType, page PageType) (string, error) {
	tmpl, err := getTemplate(ctx, site, page)
	if err != nil {
		return "", err
	}

	data := RenderData[SiteType, PageType]{
		Site: site,
		Page: page,
		Year: currentYear(site),
		ctx:  ctx,
		tmpl: tmpl,
	}

	renderer := &resourceRenderer{
		site:  site,
		funcs: getComponentFuncMap(ctx, site, page),
		data:  data,
	}
	graphs := buildGraphs(ctx, getRecursiveComponents(ctx, page))
	data.CSS, err = renderGraph(ctx, graphs.css, renderer)
	if err != nil {
		return "", renderError(fmt.Errorf("error rendering CSS for %T: %w", page, err))
	}
	data.HeaderJS, err = renderGraph(ctx, graphs.headJS, renderer)
	if err != nil {
		return "", renderError(fmt.Errorf("error rendering header JavaScript for %T: %w", page, err))
	}
	data.FooterJS, err = renderGraph(ctx, graphs.footJS, renderer)
	if err != nil {
		return "", renderError(fmt.Errorf("error rendering footer JavaScript for %T: %w", page, err))
	}

	var buf bytes.Buffer
	executed := page.ExecutedTemplate(ctx)
	err = tmpl.ExecuteTemplate(&buf, executed, data)
	if err != nil {
		return "", renderError(fmt.Errorf("error executing template %q for %T: %w", executed, page, err))
	}
	return buf.String(), nil
}

// renderError digs the failure callers act on out of the template execution
// wrappers around it. Anything else is returned as is.
func renderError(err error) error {
	var include *IncludeRenderError
	if errors.As(err, &include) {
		return include
	}
	var missing *MissingAssetError
	if errors.As(err, &missing) {
		return missing
	}
	return err
}

type renderable[Node any] interface {
	orderable[Node]
	render(context.Context, *resourceRenderer) (string, error)
}

func renderGraph[Node renderable[Node]](ctx context.Context, resources graph[Node], renderer *resourceRenderer) (template.HTML, error) {
	nodes, err := walkGraph(ctx, resources)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, node := range nodes {
		rendered, err := node.render(ctx, renderer)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
		out.WriteString("\n")
	}
	// every piece was produced by an html/template execution
	return template.HTML(out.String()), nil // #nosec G203
}

// resourceRenderer carries what resources need to render themselves.
type resourceRenderer struct {
	site  Site
	funcs template.FuncMap
	data  any
}

// inline executes the template at path wrapped in opening and closing, with the
// page's data.
func (r *resourceRenderer) inline(ctx context.Context, path, opening, closing string) (string, error) {
	source, err := resourceSource(ctx, r.site, path)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(path).Funcs(r.funcs).Parse(opening + source + closing)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	var out strings.Builder
	err = tmpl.Execute(&out, r.data)
	if err != nil {
		return "", fmt.Errorf("error executing %q: %w", path, err)
	}
	return out.String(), nil
}

func resourceSource(ctx context.Context, site Site, path string) (string, error) {
	cache, cacheable := site.(ResourceCacher)
	if cacheable {
		if cached := cache.GetCachedResource(ctx, path); cached != nil {
			return *cached, nil
		}
	}
	contents, err := fs.ReadFile(site.TemplateDir(ctx), path)
	if err != nil {
		return "", fmt.Errorf("error reading %q: %w", path, err)
	}
	if cacheable {
		cache.SetCachedResource(ctx, path, string(contents))
	}
	return string(contents), nil
}

func getTemplate(ctx context.Context, site Site, page Page) (*template.Template, error) {
	key := page.Key(ctx)
	if cache, ok := site.(TemplateCacher); ok {
		cached := cache.GetCachedTemplate(ctx, key)
		if cached != nil {
			return cached, nil
		}
	}
	tmplPaths := getComponentTemplatePaths(ctx, page)
	if len(tmplPaths) < 1 {
		return nil, fmt.Errorf("error rendering %T: %w", page, ErrNoTemplatePath)
	}
	funcMap := getComponentFuncMap(ctx, site, page)

	ctx, span := tracer.Start(ctx, "folio.parseTemplates", trace.WithAttributes(
		attribute.String("folio.key", key),
		attribute.StringSlice("folio.templates", tmplPaths),
	))
	defer span.End()
	logger(ctx).DebugContext(ctx, "parsing templates", "key", key, "templates", tmplPaths)

	parsed, err := parseTemplates(site.TemplateDir(ctx), funcMap, tmplPaths...)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("error parsing templates %v for page %T: %w", tmplPaths, page, err)
	}
	if cache, ok := site.(TemplateCacher); ok {
		cache.SetCachedTemplate(ctx, key, parsed)
	}
	return parsed, nil
}

func getRecursiveComponents(ctx context.Context, component Component) []Component {
	results := []Component{component}

	if uses, ok := component.(ComponentUser); ok {
		children := uses.UseComponents(ctx)
		for _, child := range children {
			results = append(results, getRecursiveComponents(ctx, child)...)
		}
	}
	return results
}

func getComponentTemplatePaths(ctx context.Context, component Component) []string {
	var results []string
	seen := map[string]struct{}{}
	components := getRecursiveComponents(ctx, component)
	for _, comp := range components {
		paths := comp.Templates(ctx)
		for _, path := range paths {
			if _, ok := seen[path]; !ok {
				results = append(results, path)
				seen[path] = struct{}{}
			}
		}
	}
	return results
}

func getComponentFuncMap(ctx context.Context, site Site, component Component) template.FuncMap {
	results := template.FuncMap{}
	if fm, ok := site.(FuncMapExtender); ok {
		results = mergeFuncMaps(results, fm.FuncMap(ctx))
	}
	components := getRecursiveComponents(ctx, component)
	for _, comp := range components {
		fm, ok := comp.(FuncMapExtender)
		if !ok {
			continue
		}
		results = mergeFuncMaps(results, fm.FuncMap(ctx))
	}
	return results
}

func parseTemplates(fsys fs.FS, funcs template.FuncMap, patterns ...string) (*template.Template, error) {
	var files []string
	for _, pattern := range patterns {
		list, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("error listing files for %q: %w", pattern, err)
		}
		if len(list) < 1 {
			return nil, fmt.Errorf("error parsing %q: %w", pattern, ErrTemplatePatternMatchesNoFiles)
		}
		files = append(files, list...)
	}
	if len(files) < 1 {
		return nil, ErrNoTemplatePath
	}
	tmpl := template.New("").Funcs(funcs)
	for _, file := range files {
		sub := tmpl.New(file)
		contents, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error reading %q: %w", file, err)
		}
		_, err = sub.Parse(string(contents))
		if err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", file, err)
		}
	}
	return tmpl, nil
}

// mergeFuncMaps flattens two FuncMaps into one, with the values in `page`
// overriding the values in `in` if they have the same keys.
func mergeFuncMaps(in template.FuncMap, page template.FuncMap) template.FuncMap {
	res := template.FuncMap{}
	for k, v := range in {
		res[k] = v
	}
	for k, v := range page {
		res[k] = v
	}
	return res
}
