package manifest

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
)

const (
	immutableCacheControl  = "public, max-age=31536000, immutable"
	revalidateCacheControl = "public, max-age=300, stale-while-revalidate=86400"
)

// Handler serves the files in fsys. Requests are expected to have had the
// manifest's prefix stripped already.
//
// Fingerprinted names are served with a year-long immutable Cache-Control
// and an ETag naming the fingerprint. Logical names are still served, but
// browsers are told to revalidate them after a few minutes.
func (m *Manifest) Handler(fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" || !fs.ValidPath(name) {
			http.NotFound(w, r)
			return
		}

		logical, fingerprinted := m.lookup(name)
		contents, err := fs.ReadFile(fsys, logical)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Vary", "Accept-Encoding")
		etag := strconv.Quote(Fingerprint(contents))
		w.Header().Set("ETag", etag)
		if fingerprinted {
			w.Header().Set("Cache-Control", immutableCacheControl)
		} else {
			w.Header().Set("Cache-Control", revalidateCacheControl)
		}
		if matchesETag(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		// the logical name carries the extension the content type is
		// detected from
		http.ServeContent(w, r, logical, time.Time{}, bytes.NewReader(contents))
	})
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "*" || trimmed == etag || strings.TrimPrefix(trimmed, "W/") == etag {
			return true
		}
	}
	return false
}
