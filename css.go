package folio

import (
	"context"
	"html/template"
	"strings"
)

// CSSEmbedder is an interface that Components can fulfill to include some CSS
// that should be embedded directly into the rendered HTML. The contents will
// be made available to the template as part of .CSS.
type CSSEmbedder interface {
	// EmbedCSS returns the CSS templates, without <style> tags, that
	// should be embedded directly in the output HTML.
	EmbedCSS(context.Context) []CSSInline
}

// CSSLinker is an interface that Components can fulfill to include some CSS
// that should be loaded through a <link> element in the template. The
// contents will be made available to the template as part of .CSS.
type CSSLinker interface {
	// LinkCSS returns the stylesheets that should be linked to from the
	// output HTML.
	LinkCSS(context.Context) []CSSLink
}

// CSSLink is a stylesheet loaded with a <link> element.
type CSSLink struct {
	// Href is the URL of the stylesheet. It's ignored if Asset is set.
	Href string

	// Asset is a logical asset name resolved through the Site's
	// AssetResolver at render time.
	Asset string

	// Rel is the rel attribute of the <link> element, usually
	// "stylesheet". It's omitted when empty.
	Rel string

	// Type is the optional type attribute of the <link> element.
	Type string

	// CSSLinkRelationCalculator, if set, is called with every other
	// CSSLink on the page to decide which side of it this one renders on.
	CSSLinkRelationCalculator func(context.Context, CSSLink) ResourceRelationship

	// CSSInlineRelationCalculator, if set, is called with every CSSInline
	// on the page to decide which side of it this one renders on.
	CSSInlineRelationCalculator func(context.Context, CSSInline) ResourceRelationship

	// DisableImplicitOrdering stops this link from being kept in the
	// order its Component declared it in.
	DisableImplicitOrdering bool
}

// CSSInline is a stylesheet template rendered inside a <style> element.
type CSSInline struct {
	// TemplatePath is the path of the template, within the Site's
	// TemplateDir, holding the CSS. It's executed with the same data as
	// the page.
	TemplatePath string

	CSSLinkRelationCalculator   func(context.Context, CSSLink) ResourceRelationship
	CSSInlineRelationCalculator func(context.Context, CSSInline) ResourceRelationship
	DisableImplicitOrdering     bool
}

type cssResource interface {
	resourceKey() string
	sortRank() int
	explicitlyOrdered() bool
	implicitlyOrdered() bool
	relationTo(context.Context, cssResource) ResourceRelationship
	render(context.Context, *resourceRenderer) (string, error)
}

var (
	_ cssResource = CSSLink{}
	_ cssResource = CSSInline{}
)

var cssLinkTemplate = template.Must(template.New("css_link").Parse(
	`<link{{ with .Rel }} rel="{{ . }}"{{ end }} href="{{ .Href }}"{{ with .Type }} type="{{ . }}"{{ end }}>`,
))

func (l CSSLink) target() string {
	if l.Asset != "" {
		return l.Asset
	}
	return l.Href
}

func (l CSSLink) resourceKey() string { return l.target() }

func (CSSLink) sortRank() int { return 0 }

func (l CSSLink) explicitlyOrdered() bool {
	return l.CSSLinkRelationCalculator != nil || l.CSSInlineRelationCalculator != nil
}

func (l CSSLink) implicitlyOrdered() bool {
	return !l.explicitlyOrdered() && !l.DisableImplicitOrdering
}

func (l CSSLink) relationTo(ctx context.Context, other cssResource) ResourceRelationship {
	switch res := other.(type) {
	case CSSLink:
		if l.CSSLinkRelationCalculator != nil {
			return l.CSSLinkRelationCalculator(ctx, res)
		}
	case CSSInline:
		if l.CSSInlineRelationCalculator != nil {
			return l.CSSInlineRelationCalculator(ctx, res)
		}
	}
	return ResourceRelationshipNeutral
}

func (l CSSLink) render(ctx context.Context, r *resourceRenderer) (string, error) {
	href := l.Href
	if l.Asset != "" {
		resolved, err := resolveAsset(ctx, r.site, l.Asset)
		if err != nil {
			return "", err
		}
		href = resolved
	}
	var out strings.Builder
	err := cssLinkTemplate.Execute(&out, struct{ Rel, Href, Type string }{Rel: l.Rel, Href: href, Type: l.Type})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func (i CSSInline) resourceKey() string { return i.TemplatePath }

func (CSSInline) sortRank() int { return 1 }

func (i CSSInline) explicitlyOrdered() bool {
	return i.CSSLinkRelationCalculator != nil || i.CSSInlineRelationCalculator != nil
}

func (i CSSInline) implicitlyOrdered() bool {
	return !i.explicitlyOrdered() && !i.DisableImplicitOrdering
}

func (i CSSInline) relationTo(ctx context.Context, other cssResource) ResourceRelationship {
	switch res := other.(type) {
	case CSSLink:
		if i.CSSLinkRelationCalculator != nil {
			return i.CSSLinkRelationCalculator(ctx, res)
		}
	case CSSInline:
		if i.CSSInlineRelationCalculator != nil {
			return i.CSSInlineRelationCalculator(ctx, res)
		}
	}
	return ResourceRelationshipNeutral
}

func (i CSSInline) render(ctx context.Context, r *resourceRenderer) (string, error) {
	return r.inline(ctx, i.TemplatePath, "<style>\n", "\n</style>")
}
