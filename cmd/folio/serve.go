package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"camacho.design/folio/internal/manifest"
	"camacho.design/folio/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over HTTP",
		Long: "Serve the projects page and the static assets it references. In dev\n" +
			"mode the asset manifest is rebuilt whenever the static directory changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				opts.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(opts.context(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			assets, err := opts.loadAssets()
			if err != nil {
				return err
			}
			site, err := opts.newSite(assets, opts.cfg.Year)
			if err != nil {
				return err
			}
			srv := server.New(server.Config{
				Address: opts.cfg.Addr,
				Site:    site,
				Assets:  assets,
				Static:  os.DirFS(opts.cfg.StaticDir),
				Logger:  opts.logger,
			})

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return server.Run(ctx, srv)
			})
			// a loaded manifest names files that were built elsewhere, so
			// there's nothing to rebuild. Asset URLs are resolved on every
			// render, so swapping the manifest is all a change needs.
			if opts.cfg.Dev && opts.cfg.ManifestPath == "" {
				group.Go(func() error {
					return manifest.Watch(ctx, opts.cfg.StaticDir, assets, nil)
				})
			}
			return group.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overriding the config")
	return cmd
}
