package folio

import (
	"context"
	"html/template"
	"strings"
)

// JSEmbedder is an interface that Components can fulfill to include some
// JavaScript that should be embedded directly into the rendered HTML. The
// contents will be made available to the template as part of .HeaderJS or
// .FooterJS.
type JSEmbedder interface {
	// EmbedJS returns the JavaScript templates, without <script> tags,
	// that should be embedded directly in the output HTML.
	EmbedJS(context.Context) []JSInline
}

// JSLinker is an interface that Components can fulfill to include some
// JavaScript that should be loaded separately from the HTML document, using a
// <script> tag with a src attribute. The contents will be made available to
// the template as part of .HeaderJS or .FooterJS.
type JSLinker interface {
	// LinkJS returns the scripts that should be linked to from the output
	// HTML.
	LinkJS(context.Context) []JSLink
}

// JSLink is a script loaded through the src attribute of a <script> element.
type JSLink struct {
	// Src is the URL of the script. It's ignored if Asset is set.
	Src string

	// Asset is a logical asset name resolved through the Site's
	// AssetResolver at render time.
	Asset string

	// Type is the optional type attribute of the <script> element, e.g.
	// "module".
	Type string

	// PlaceInFooter moves the script from .HeaderJS to .FooterJS.
	PlaceInFooter bool

	JSLinkRelationCalculator   func(context.Context, JSLink) ResourceRelationship
	JSInlineRelationCalculator func(context.Context, JSInline) ResourceRelationship
	DisableImplicitOrdering    bool
}

// JSInline is a JavaScript template rendered inside a <script> element.
type JSInline struct {
	// TemplatePath is the path of the template, within the Site's
	// TemplateDir, holding the JavaScript.
	TemplatePath string

	// PlaceInFooter moves the script from .HeaderJS to .FooterJS.
	PlaceInFooter bool

	JSLinkRelationCalculator   func(context.Context, JSLink) ResourceRelationship
	JSInlineRelationCalculator func(context.Context, JSInline) ResourceRelationship
	DisableImplicitOrdering    bool
}

type jsResource interface {
	resourceKey() string
	sortRank() int
	explicitlyOrdered() bool
	implicitlyOrdered() bool
	relationTo(context.Context, jsResource) ResourceRelationship
	render(context.Context, *resourceRenderer) (string, error)
	inFooter() bool
}

var (
	_ jsResource = JSLink{}
	_ jsResource = JSInline{}
)

// a type attribute changes the context of the script element's body, so each
// branch closes its own element
var jsLinkTemplate = template.Must(template.New("js_link").Parse(
	`{{ if .Type }}<script type="{{ .Type }}" src="{{ .Src }}"></script>` +
		`{{ else }}<script src="{{ .Src }}"></script>{{ end }}`,
))

func (l JSLink) target() string {
	if l.Asset != "" {
		return l.Asset
	}
	return l.Src
}

func (l JSLink) resourceKey() string { return l.target() }

func (JSLink) sortRank() int { return 0 }

func (l JSLink) inFooter() bool { return l.PlaceInFooter }

func (l JSLink) explicitlyOrdered() bool {
	return l.JSLinkRelationCalculator != nil || l.JSInlineRelationCalculator != nil
}

func (l JSLink) implicitlyOrdered() bool {
	return !l.explicitlyOrdered() && !l.DisableImplicitOrdering
}

func (l JSLink) relationTo(ctx context.Context, other jsResource) ResourceRelationship {
	switch res := other.(type) {
	case JSLink:
		if l.JSLinkRelationCalculator != nil {
			return l.JSLinkRelationCalculator(ctx, res)
		}
	case JSInline:
		if l.JSInlineRelationCalculator != nil {
			return l.JSInlineRelationCalculator(ctx, res)
		}
	}
	return ResourceRelationshipNeutral
}

func (l JSLink) render(ctx context.Context, r *resourceRenderer) (string, error) {
	src := l.Src
	if l.Asset != "" {
		resolved, err := resolveAsset(ctx, r.site, l.Asset)
		if err != nil {
			return "", err
		}
		src = resolved
	}
	var out strings.Builder
	if err := jsLinkTemplate.Execute(&out, struct{ Type, Src string }{Type: l.Type, Src: src}); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (i JSInline) resourceKey() string { return i.TemplatePath }

func (JSInline) sortRank() int { return 1 }

func (i JSInline) inFooter() bool { return i.PlaceInFooter }

func (i JSInline) explicitlyOrdered() bool {
	return i.JSLinkRelationCalculator != nil || i.JSInlineRelationCalculator != nil
}

func (i JSInline) implicitlyOrdered() bool {
	return !i.explicitlyOrdered() && !i.DisableImplicitOrdering
}

func (i JSInline) relationTo(ctx context.Context, other jsResource) ResourceRelationship {
	switch res := other.(type) {
	case JSLink:
		if i.JSLinkRelationCalculator != nil {
			return i.JSLinkRelationCalculator(ctx, res)
		}
	case JSInline:
		if i.JSInlineRelationCalculator != nil {
			return i.JSInlineRelationCalculator(ctx, res)
		}
	}
	return ResourceRelationshipNeutral
}

func (i JSInline) render(ctx context.Context, r *resourceRenderer) (string, error) {
	return r.inline(ctx, i.TemplatePath, "<script>\n", "\n</script>")
}
