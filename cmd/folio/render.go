package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		out  string
		year int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the projects page to a file",
		Long: "Render the projects page once and write the document to --out, or to\n" +
			"stdout. Nothing is written if an asset can't be resolved or the\n" +
			"navigation bar fails to render.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = opts.cfg.Year
			}
			if year != 0 && (year < 1000 || year > 9999) {
				return fmt.Errorf("invalid --year %d: must have four digits", year)
			}
			assets, err := opts.loadAssets()
			if err != nil {
				return err
			}
			site, err := opts.newSite(assets, year)
			if err != nil {
				return err
			}
			doc, err := site.RenderProjects(opts.context(cmd.Context()))
			if err != nil {
				return fmt.Errorf("rendering projects page: %w", err)
			}

			if out == "" {
				if _, err := io.WriteString(cmd.OutOrStdout(), doc); err != nil {
					return fmt.Errorf("writing document: %w", err)
				}
				return nil
			}
			return writeFile(out, doc)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write the document to (default: stdout)")
	cmd.Flags().IntVar(&year, "year", 0, "year to show instead of the current one")
	return cmd
}

// writeFile writes doc to a temporary file next to path and renames it into
// place, so path holds either the whole document or whatever it held before.
func writeFile(path, doc string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".folio-render-*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err := io.WriteString(f, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
