package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"camacho.design/folio"
	"camacho.design/folio/internal/config"
	"camacho.design/folio/internal/manifest"
	"camacho.design/folio/portfolio"
)

// rootOptions is shared by every command: the persistent flags, and the
// config and logger built from them before a command runs.
type rootOptions struct {
	cfgFile   string
	logLevel  string
	staticDir string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "Serve and render the design portfolio",
		Long: "folio renders the AFONSO CAMACHO design portfolio, either as an HTTP\n" +
			"server or as a single document written to a file.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// version doesn't need any configuration
			if cmd.Name() == "version" {
				return nil
			}
			return opts.load(cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: none)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&opts.staticDir, "static-dir", "", "directory holding the static assets")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newManifestCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func (o *rootOptions) load(logOutput io.Writer) error {
	cfg, err := config.Load(o.cfgFile, nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.staticDir != "" {
		cfg.StaticDir = o.staticDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(logOutput, handlerOpts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(logOutput, handlerOpts)
	}
	o.cfg = cfg
	o.logger = slog.New(handler)
	return nil
}

// context returns ctx carrying the configured logger.
func (o *rootOptions) context(ctx context.Context) context.Context {
	return folio.LoggingContext(ctx, o.logger)
}

// loadAssets loads the manifest named in the config, or fingerprints the
// static directory if there isn't one.
func (o *rootOptions) loadAssets() (*manifest.Manifest, error) {
	if o.cfg.ManifestPath == "" {
		return manifest.Build(os.DirFS(o.cfg.StaticDir), o.cfg.AssetPrefix)
	}
	f, err := os.Open(o.cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return manifest.Load(f, o.cfg.AssetPrefix)
}

func (o *rootOptions) loadCatalogue() (portfolio.Catalogue, error) {
	if o.cfg.CataloguePath == "" {
		return portfolio.DefaultCatalogue(), nil
	}
	f, err := os.Open(o.cfg.CataloguePath)
	if err != nil {
		return portfolio.Catalogue{}, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()
	return portfolio.LoadCatalogue(f)
}

// newSite builds the portfolio site from the config. A year of zero means
// the system clock is used.
func (o *rootOptions) newSite(assets *manifest.Manifest, year int) (*portfolio.Site, error) {
	catalogue, err := o.loadCatalogue()
	if err != nil {
		return nil, err
	}
	siteOpts := []folio.SiteOption{folio.WithAssets(assets)}
	if year != 0 {
		siteOpts = append(siteOpts, folio.WithClock(folio.FixedYear(year)))
	}
	return portfolio.NewSite(catalogue, siteOpts...), nil
}
