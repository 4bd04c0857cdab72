// Package server serves the portfolio over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"camacho.design/folio"
	"camacho.design/folio/internal/manifest"
	"camacho.design/folio/portfolio"
)

// Config holds what the HTTP server needs.
type Config struct {
	Address string

	// Site renders the pages.
	Site *portfolio.Site

	// Assets resolves logical asset names for Site, and decides which
	// static files get immutable caching.
	Assets *manifest.Manifest

	// Static holds the files Assets was built from.
	Static fs.FS

	Logger *slog.Logger
}

// New constructs the HTTP server with its middleware stack and routes.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// NewRouter returns the handler New serves.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = folio.Logger(context.Background())
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	prefix := cfg.Assets.Prefix()
	router.Handle(prefix+"/*", http.StripPrefix(prefix, cfg.Assets.Handler(cfg.Static)))

	projects := projectsHandler(cfg.Site)
	router.Get("/", projects)
	router.Get("/projects", projects)

	return router
}

// projectsHandler composes the projects page before writing anything, so a
// failed render can still be answered with a 500 and the error page.
func projectsHandler(site *portfolio.Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		doc, err := site.RenderProjects(ctx)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			folio.Logger(ctx).ErrorContext(ctx, "error rendering projects page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			folio.Render(ctx, w, site, site.ServerErrorPage(ctx))
			return
		}
		_, _ = w.Write([]byte(doc))
	}
}

// Run serves srv until ctx is done, then shuts it down, giving in-flight
// requests up to ten seconds to finish.
func Run(ctx context.Context, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	folio.Logger(ctx).InfoContext(ctx, "listening", "addr", srv.Addr)

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
