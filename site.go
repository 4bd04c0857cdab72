package folio

import (
	"context"
	"html/template"
	"io/fs"
	"sync"
	"time"
)

// Site is an interface for the singleton that will be used to render HTML.
// Consumers should use it to store any clients or cross-request state they
// need, and use it to render Pages.
//
// A Site needs to be able to surface the templates it relies on as an fs.FS.
type Site interface {
	// TemplateDir returns an fs.FS containing all the templates needed to
	// render every Page on the Site.
	//
	// The path to templates within the fs.FS should match the output of
	// Templates for Components.
	TemplateDir(ctx context.Context) fs.FS
}

// TemplateCacher is an optional interface for Sites. Those fulfilling it can
// cache their template parsing using the output of Key from each Page to save
// on the overhead of parsing the template each time. The templates being
// parsed for a given key should be the same every time, as should the template
// getting executed, but the data may still be different, so the output HTML
// cannot be safely presumed to be cacheable.
type TemplateCacher interface {
	// GetCachedTemplate returns the *template.Template specified by the
	// passed key. It should return nil if the template hasn't been cached
	// yet.
	GetCachedTemplate(ctx context.Context, key string) *template.Template

	// SetCachedTemplate stores the passed *template.Template under the
	// passed key, for later retrieval with GetCachedTemplate.
	SetCachedTemplate(ctx context.Context, key string, tmpl *template.Template)
}

// ResourceCacher is an optional interface for Sites. Those fulfilling it can
// cache the template sources of their inline resources, keyed by template
// path, to save reading them from the fs.FS on every render.
type ResourceCacher interface {
	// GetCachedResource returns the *string specified by the passed key.
	// It should return nil if the resource hasn't been cached yet.
	GetCachedResource(ctx context.Context, key string) *string

	// SetCachedResource stores the passed string under the passed key, for
	// later retrieval with GetCachedResource.
	SetCachedResource(ctx context.Context, key, resource string)
}

// ServerErrorPager defines an interface that Sites can optionally implement.
// If a Site implements ServerErrorPager and Render encounters an error,
// the output of ServerErrorPage will be rendered.
type ServerErrorPager interface {
	ServerErrorPage(ctx context.Context) Page
}

var (
	_ Site           = &CachedSite{}
	_ TemplateCacher = &CachedSite{}
	_ ResourceCacher = &CachedSite{}
	_ AssetResolver  = &CachedSite{}
	_ Clock          = &CachedSite{}
)

// CachedSite is an implementation of the Site interface that can be embedded
// in other Site implementations. It caches templates and resources in memory,
// exposes the template fs.FS passed to NewCachedSite, and resolves assets and
// the current time through whatever was injected with SiteOptions. A
// CachedSite must be instantiated through NewCachedSite, its empty value is
// not usable.
type CachedSite struct {
	templateCache   map[string]*template.Template
	templateCacheMu sync.RWMutex

	resourceCache   map[string]string
	resourceCacheMu sync.RWMutex

	// templateDir is where rendering will look for the templates
	// required by Components.
	templateDir fs.FS

	assets AssetResolver
	clock  Clock
}

// SiteOption configures a CachedSite.
type SiteOption func(*CachedSite)

// WithAssets sets the AssetResolver used for logical asset names. Without
// one, every asset lookup fails with a *MissingAssetError.
func WithAssets(resolver AssetResolver) SiteOption {
	return func(s *CachedSite) {
		s.assets = resolver
	}
}

// WithClock sets the Clock the current year is read from. Without one, the
// system clock is used.
func WithClock(clock Clock) SiteOption {
	return func(s *CachedSite) {
		s.clock = clock
	}
}

// NewCachedSite returns a CachedSite instance that is ready to be used.
func NewCachedSite(templates fs.FS, opts ...SiteOption) *CachedSite {
	site := &CachedSite{
		templateCache: map[string]*template.Template{},
		templateDir:   templates,
		resourceCache: map[string]string{},
		clock:         SystemClock,
	}
	for _, opt := range opts {
		opt(site)
	}
	return site
}

// GetCachedTemplate returns the cached template associated with the passed
// key, if one exists. If no template is cached for that key, it returns nil.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) GetCachedTemplate(_ context.Context, key string) *template.Template {
	s.templateCacheMu.RLock()
	defer s.templateCacheMu.RUnlock()
	res, ok := s.templateCache[key]
	if !ok {
		return nil
	}
	return res
}

// SetCachedTemplate caches a template for the given key.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) SetCachedTemplate(_ context.Context, key string, tmpl *template.Template) {
	s.templateCacheMu.Lock()
	defer s.templateCacheMu.Unlock()
	s.templateCache[key] = tmpl
}

// GetCachedResource returns the cached resource associated with the passed
// key, if one exists. If no resource is cached for that key, it returns nil.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) GetCachedResource(_ context.Context, key string) *string {
	s.resourceCacheMu.RLock()
	defer s.resourceCacheMu.RUnlock()
	res, ok := s.resourceCache[key]
	if !ok {
		return nil
	}
	return &res
}

// SetCachedResource caches a resource for the given key.
//
// It can safely be used by multiple goroutines.
func (s *CachedSite) SetCachedResource(_ context.Context, key, resource string) {
	s.resourceCacheMu.Lock()
	defer s.resourceCacheMu.Unlock()
	s.resourceCache[key] = resource
}

// ResetCache drops every cached template and resource, forcing the next
// render to re-read the template fs.FS.
func (s *CachedSite) ResetCache() {
	s.templateCacheMu.Lock()
	s.templateCache = map[string]*template.Template{}
	s.templateCacheMu.Unlock()

	s.resourceCacheMu.Lock()
	s.resourceCache = map[string]string{}
	s.resourceCacheMu.Unlock()
}

// TemplateDir returns an fs.FS containing all the templates needed to render a
// Site's Components. In this case, we just pass back what the consumer passed
// in.
func (s *CachedSite) TemplateDir(_ context.Context) fs.FS {
	return s.templateDir
}

// ResolveAsset resolves a logical asset name through the AssetResolver set
// with WithAssets.
func (s *CachedSite) ResolveAsset(ctx context.Context, name string) (string, error) {
	if s.assets == nil {
		return "", &MissingAssetError{Name: name, Err: ErrNoAssetResolver}
	}
	return s.assets.ResolveAsset(ctx, name)
}

// Now returns the current time according to the Clock set with WithClock.
func (s *CachedSite) Now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
