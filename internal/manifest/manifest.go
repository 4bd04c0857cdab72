// Package manifest maps logical asset names like "css/globals.css" to
// fingerprinted URLs like "/static/css/globals.3f2a9c1e.css", and serves the
// files behind those URLs.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"camacho.design/folio"
)

// DefaultPrefix is the URL path static assets are served under.
const DefaultPrefix = "/static"

var _ folio.AssetResolver = &Manifest{}

// Manifest is a folio.AssetResolver backed by a set of logical name to
// fingerprinted file name pairs. It is safe for concurrent use, and its
// contents can be swapped with Replace while it's being used.
type Manifest struct {
	mu     sync.RWMutex
	prefix string

	// files maps logical names to fingerprinted names, both relative to
	// the static directory.
	files map[string]string

	// logical maps fingerprinted names back to logical names.
	logical map[string]string
}

// New returns a Manifest serving files under prefix. If files is nil, the
// Manifest starts out empty.
func New(prefix string, files map[string]string) *Manifest {
	m := &Manifest{prefix: normalizePrefix(prefix)}
	m.set(files)
	return m
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "/"
	}
	return "/" + strings.Trim(prefix, "/")
}

func (m *Manifest) set(files map[string]string) {
	logical := make(map[string]string, len(files))
	for name, fingerprinted := range files {
		logical[fingerprinted] = name
	}
	m.files = maps.Clone(files)
	if m.files == nil {
		m.files = map[string]string{}
	}
	m.logical = logical
}

// Fingerprint returns the short content hash used in fingerprinted file
// names.
func Fingerprint(contents []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(contents))[:8]
}

// FingerprintedName inserts hash before the extension of name, so
// "css/globals.css" becomes "css/globals.<hash>.css".
func FingerprintedName(name, hash string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hash + ext
}

// Build fingerprints every file in fsys. Hidden files and directories are
// skipped.
func Build(fsys fs.FS, prefix string) (*Manifest, error) {
	files := map[string]string{}
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		contents, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("error reading %q: %w", name, err)
		}
		files[name] = FingerprintedName(name, Fingerprint(contents))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error building manifest: %w", err)
	}
	return New(prefix, files), nil
}

// Load reads a JSON manifest of logical names to fingerprinted names, as
// written by WriteJSON.
func Load(r io.Reader, prefix string) (*Manifest, error) {
	var files map[string]string
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, fmt.Errorf("error decoding manifest: %w", err)
	}
	for name, fingerprinted := range files {
		if name == "" || fingerprinted == "" {
			return nil, fmt.Errorf("error decoding manifest: empty entry %q: %q", name, fingerprinted)
		}
	}
	return New(prefix, files), nil
}

// WriteJSON writes the manifest in the format Load reads.
func (m *Manifest) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(m.Files())
}

// Files returns a copy of the logical name to fingerprinted name pairs.
func (m *Manifest) Files() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.files)
}

// Prefix returns the URL path the manifest's files are served under.
func (m *Manifest) Prefix() string {
	return m.prefix
}

// ResolveAsset returns the public URL of the fingerprinted file for name.
// Names the manifest doesn't know fail with a *folio.MissingAssetError.
func (m *Manifest) ResolveAsset(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	fingerprinted, ok := m.files[strings.TrimPrefix(name, "/")]
	m.mu.RUnlock()
	if !ok {
		return "", &folio.MissingAssetError{Name: name, Err: folio.ErrUnknownAsset}
	}
	return m.url(fingerprinted), nil
}

func (m *Manifest) url(name string) string {
	if m.prefix == "/" {
		return "/" + name
	}
	return m.prefix + "/" + name
}

// Replace swaps the manifest's contents for other's. The prefix is kept.
func (m *Manifest) Replace(other *Manifest) {
	files := other.Files()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(files)
}

// lookup returns the logical name for a request path relative to the prefix,
// and whether the path was a fingerprinted name.
func (m *Manifest) lookup(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if logical, ok := m.logical[name]; ok {
		return logical, true
	}
	return name, false
}
