package folio_test

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"camacho.design/folio"
)

type cachedSiteAbout struct{}

func (cachedSiteAbout) Templates(_ context.Context) []string {
	return []string{"base.tmpl", "about.tmpl"}
}

func (cachedSiteAbout) Key(_ context.Context) string {
	return "about.tmpl"
}

func (cachedSiteAbout) ExecutedTemplate(_ context.Context) string {
	return "base.tmpl"
}

type cachedSiteContact struct {
	IncludeMap bool
}

func (contact cachedSiteContact) Templates(_ context.Context) []string {
	templates := []string{"base.tmpl", "contact.tmpl"}
	if contact.IncludeMap {
		templates = append(templates, "map.tmpl")
	}
	return templates
}

func (cachedSiteContact) Key(_ context.Context) string {
	return "contact.tmpl"
}

func (cachedSiteContact) ExecutedTemplate(_ context.Context) string {
	return "base.tmpl"
}

type cachedSiteStyled struct{}

func (cachedSiteStyled) Templates(_ context.Context) []string {
	return []string{"styled.tmpl"}
}

func (cachedSiteStyled) Key(_ context.Context) string {
	return "styled.tmpl"
}

func (cachedSiteStyled) ExecutedTemplate(_ context.Context) string {
	return "styled.tmpl"
}

func (cachedSiteStyled) EmbedCSS(_ context.Context) []folio.CSSInline {
	return []folio.CSSInline{{TemplatePath: "styled.css"}}
}

func TestCachedSite(t *testing.T) {
	t.Parallel()

	ctx := folio.LoggingContext(context.Background(), slog.Default())
	templateFS := fstest.MapFS(map[string]*fstest.MapFile{
		"about.tmpl": {
			Data:    []byte(`{{ define "template_name" }}about.tmpl{{ end }}`),
			Mode:    0o444,
			ModTime: time.Now(),
		},
		"contact.tmpl": {
			Data:    []byte(`{{ define "template_name" }}contact.tmpl{{ if .Page.IncludeMap }} {{ block "variable_include" . }}{{ end }}{{ end }}{{ end }}`),
			Mode:    0o444,
			ModTime: time.Now(),
		},
		"map.tmpl": {
			Data:    []byte(`{{ define "variable_include" }}included map.tmpl{{ end }}`),
			Mode:    0o444,
			ModTime: time.Now(),
		},
		"base.tmpl": {
			Data:    []byte(`{{ block "template_name" . }}base.tmpl{{ end }}`),
			Mode:    0o444,
			ModTime: time.Now(),
		},
		"styled.tmpl": {
			Data:    []byte(`{{ .CSS }}`),
			Mode:    0o444,
			ModTime: time.Now(),
		},
		"styled.css": {
			Data:    []byte(`p { color: pink; }`),
			Mode:    0o444,
			ModTime: time.Now(),
		},
	})
	site := folio.NewCachedSite(templateFS)
	composeChangeAndRecompose(t, ctx, templateFS, cachedSiteAbout{}, site, "about.tmpl", "about.tmpl", "about.tmpl")
	composeChangeAndRecompose(t, ctx, templateFS, cachedSiteContact{}, site, "contact.tmpl", "contact.tmpl", "contact.tmpl")
	// the key is the same, so the cached templates without map.tmpl are used
	composeChangeAndRecompose(t, ctx, templateFS, cachedSiteContact{IncludeMap: true}, site, "contact.tmpl", "contact.tmpl", "contact.tmpl ")
	composeChangeAndRecompose(t, ctx, templateFS, cachedSiteStyled{}, site, "styled.css", "pink", "<style>\np { color: pink; }\n</style>\n")

	site.ResetCache()
	out, err := folio.Compose(ctx, site, cachedSiteContact{IncludeMap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expected := "contact.tmpl included map.tmpl"; out != expected {
		t.Errorf("Expected to get %q after resetting the cache, got %q", expected, out)
	}
}

// composeChangeAndRecompose renders page, replaces search in file with
// something else, and checks the second render still comes from the cache.
func composeChangeAndRecompose(t *testing.T, ctx context.Context, fs fstest.MapFS, page folio.Page, site folio.Site, file, search, expected string) {
	t.Helper()

	output, err := folio.Compose(ctx, site, page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != expected {
		t.Errorf("Expected to get %q, got %q", expected, output)
	}
	oldData := slices.Clone(fs[file].Data)
	fs[file].Data = []byte(strings.ReplaceAll(string(fs[file].Data), search, "changed-"+search))
	output, err = folio.Compose(ctx, site, page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != expected {
		t.Errorf("Expected to get %q after modifying underlying data, got %q", expected, output)
	}
	fs[file].Data = oldData
}
