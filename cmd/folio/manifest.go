package main

import (
	"os"

	"github.com/spf13/cobra"

	"camacho.design/folio/internal/manifest"
)

func newManifestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print the fingerprinted asset manifest",
		Long: "Fingerprint every file in the static directory and print the manifest\n" +
			"as JSON, ready to be loaded with manifest_path.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assets, err := manifest.Build(os.DirFS(opts.cfg.StaticDir), opts.cfg.AssetPrefix)
			if err != nil {
				return err
			}
			return assets.WriteJSON(cmd.OutOrStdout())
		},
	}
}
