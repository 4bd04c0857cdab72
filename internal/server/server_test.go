package server_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"camacho.design/folio"
	"camacho.design/folio/internal/manifest"
	"camacho.design/folio/internal/server"
	"camacho.design/folio/portfolio"
)

func staticFS() fstest.MapFS {
	return fstest.MapFS{
		"css/globals.css": {Data: []byte("body { cursor: none; }")},
		"js/fitText.js":   {Data: []byte("window.fitText = function () {};")},
	}
}

// logBuffer collects the server's log lines while requests are in flight.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	*httptest.Server
	assets *manifest.Manifest
	logs   *logBuffer
}

func newTestServer(t *testing.T, static fstest.MapFS) testServer {
	t.Helper()

	assets, err := manifest.Build(static, manifest.DefaultPrefix)
	require.NoError(t, err)
	logs := &logBuffer{}
	site := portfolio.NewSite(portfolio.DefaultCatalogue(),
		folio.WithAssets(assets),
		folio.WithClock(folio.FixedYear(2030)),
	)
	ts := httptest.NewServer(server.NewRouter(server.Config{
		Site:   site,
		Assets: assets,
		Static: static,
		Logger: slog.New(slog.NewJSONHandler(logs, nil)),
	}))
	t.Cleanup(ts.Close)
	return testServer{Server: ts, assets: assets, logs: logs}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestProjectsPage(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticFS())
	css, err := ts.assets.ResolveAsset(context.Background(), "css/globals.css")
	require.NoError(t, err)
	js, err := ts.assets.ResolveAsset(context.Background(), "js/fitText.js")
	require.NoError(t, err)

	for _, path := range []string{"/", "/projects"} {
		resp, body := get(t, ts.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		require.NoError(t, err)
		require.Equal(t, "AFONSO CAMACHO - PROJECTS", doc.Find("title").First().Text())
		href, _ := doc.Find(`link[rel="stylesheet"]`).Attr("href")
		require.Equal(t, css, href)
		src, _ := doc.Find("script[src]").Attr("src")
		require.Equal(t, js, src)
		require.Contains(t, string(body), "Afonso Camacho © 2030")
	}

	// the URLs the page links to are served
	resp, body := get(t, ts.URL+css)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "body { cursor: none; }", string(body))
	require.Contains(t, resp.Header.Get("Cache-Control"), "immutable")
}

func TestProjectsPageMissingAsset(t *testing.T) {
	t.Parallel()

	static := staticFS()
	delete(static, "js/fitText.js")
	ts := newTestServer(t, static)

	resp, body := get(t, ts.URL+"/projects")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, string(body), "<title>AFONSO CAMACHO - SERVER ERROR</title>")
	require.NotContains(t, string(body), "Pink October")
	require.Contains(t, ts.logs.String(), "error rendering projects page")
	require.Contains(t, ts.logs.String(), "js/fitText.js")
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticFS())
	resp, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	logs := ts.logs.String()
	require.Contains(t, logs, `"path":"/healthz"`)
	require.Contains(t, logs, `"status":200`)
	require.Contains(t, logs, `"request_id"`)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticFS())
	resp, _ := get(t, ts.URL+"/about")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/static/css/nope.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	static := staticFS()
	assets, err := manifest.Build(static, manifest.DefaultPrefix)
	require.NoError(t, err)
	srv := server.New(server.Config{
		Address: addr,
		Site:    portfolio.NewSite(portfolio.DefaultCatalogue(), folio.WithAssets(assets)),
		Assets:  assets,
		Static:  static,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, srv)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
	_, err = http.Get("http://" + addr + "/healthz")
	require.Error(t, err)
}
