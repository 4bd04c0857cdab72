package portfolio

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyHeading is returned when a catalogue category has no
	// heading.
	ErrEmptyHeading = errors.New("category heading is empty")

	// ErrEmptyProjectName is returned when a catalogue project has no
	// name.
	ErrEmptyProjectName = errors.New("project name is empty")
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// Catalogue is the ordered list of project categories the projects page
// shows.
type Catalogue struct {
	Categories []Category
}

// Category is a heading and the projects listed under it, in order.
type Category struct {
	Heading  string
	Projects []Project
}

// Project is a single entry in a Category. Summary is already rendered and
// sanitised, and is empty when the catalogue had none.
type Project struct {
	Name    string
	Href    string
	Summary template.HTML
}

type catalogueFile struct {
	Categories []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	Heading  string        `yaml:"heading"`
	Projects []projectFile `yaml:"projects"`
}

type projectFile struct {
	Name    string `yaml:"name"`
	Href    string `yaml:"href"`
	Summary string `yaml:"summary"`
}

// DefaultCatalogue returns the catalogue the site ships with.
func DefaultCatalogue() Catalogue {
	catalogue, err := LoadCatalogue(bytes.NewReader(defaultCatalogue))
	if err != nil {
		// the embedded catalogue is covered by tests
		panic(err)
	}
	return catalogue
}

// LoadCatalogue parses a YAML catalogue. Project summaries are markdown; they
// are rendered to HTML and sanitised before being returned.
func LoadCatalogue(r io.Reader) (Catalogue, error) {
	var file catalogueFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Catalogue{}, fmt.Errorf("error decoding catalogue: %w", err)
	}

	policy := summaryPolicy()
	catalogue := Catalogue{Categories: make([]Category, 0, len(file.Categories))}
	for i, cat := range file.Categories {
		heading := strings.TrimSpace(cat.Heading)
		if heading == "" {
			return Catalogue{}, fmt.Errorf("category %d: %w", i, ErrEmptyHeading)
		}
		category := Category{Heading: heading, Projects: make([]Project, 0, len(cat.Projects))}
		for j, proj := range cat.Projects {
			name := strings.TrimSpace(proj.Name)
			if name == "" {
				return Catalogue{}, fmt.Errorf("category %q project %d: %w", heading, j, ErrEmptyProjectName)
			}
			summary, err := renderSummary(policy, proj.Summary)
			if err != nil {
				return Catalogue{}, fmt.Errorf("category %q project %q: %w", heading, name, err)
			}
			category.Projects = append(category.Projects, Project{
				Name:    name,
				Href:    strings.TrimSpace(proj.Href),
				Summary: summary,
			})
		}
		catalogue.Categories = append(catalogue.Categories, category)
	}
	return catalogue, nil
}

func summaryPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

func renderSummary(policy *bluemonday.Policy, markdown string) (template.HTML, error) {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("error rendering summary: %w", err)
	}
	sanitized := strings.TrimSpace(policy.Sanitize(buf.String()))
	return template.HTML(sanitized), nil // #nosec G203
}
