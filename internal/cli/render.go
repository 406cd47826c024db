package cli

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/motoruniversal-backend/internal/export"
	"github.com/yungbote/motoruniversal-backend/internal/overlay"
	"github.com/yungbote/motoruniversal-backend/internal/platform/imageload"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		fixturePath string
		outDir      string
		concurrency int
		imageHosts  []string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a fixture file into an archive without touching the database",
		Long: "Render reads a YAML or JSON exercise fixture. Relative image paths resolve " +
			"against the fixture's directory; http(s) references are fetched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fixturePath == "" {
				return errors.New("--fixture is required")
			}
			log, err := root.logger()
			if err != nil {
				return err
			}
			defer log.Sync()

			in, err := readFixture(fixturePath)
			if err != nil {
				return err
			}
			compositor, err := overlay.NewCompositor(log)
			if err != nil {
				return err
			}
			loader := imageload.NewRouter(log, imageload.Options{
				HTTPClient:   &http.Client{Timeout: 30 * time.Second},
				AllowFiles:   true,
				FileRoot:     filepath.Dir(fixturePath),
				AllowedHosts: imageHosts,
			})
			packager := export.NewPackager(log, loader, compositor, export.Options{FetchConcurrency: concurrency})

			res, err := packager.Package(cmd.Context(), in.Meta(), in.Steps)
			if err != nil {
				return err
			}
			if _, err := writeFileAtomic(outDir, res.ArchiveName, res.Archive); err != nil {
				return err
			}
			printExported(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "exercise fixture (.yaml or .json)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringSliceVar(&imageHosts, "image-hosts", []string{"*"}, "hosts step images may be fetched from")
	cmd.Flags().IntVar(&concurrency, "concurrency", export.DefaultFetchConcurrency, "images fetched ahead of the compositor")
	return cmd
}
