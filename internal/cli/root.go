// Package cli implements exportctl, the offline and DB-backed export tool.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/motoruniversal-backend/internal/app"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

// AppFactory builds the DB-backed application used by import and export.
type AppFactory func(ctx context.Context, log *logger.Logger) (*app.App, error)

type rootOptions struct {
	verbose bool
}

func (o *rootOptions) logger() (*logger.Logger, error) {
	if !o.verbose {
		return logger.Nop(), nil
	}
	return app.NewLogger()
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(app.New)
}

func newRootCommand(newApp AppFactory) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "exportctl",
		Short: "Render interactive exercise steps into downloadable ZIP archives",
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newRenderCmd(opts),
		newImportCmd(opts, newApp),
		newExportCmd(opts, newApp),
	)
	return rootCmd
}
