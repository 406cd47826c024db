package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newImportCmd(root *rootOptions, newApp AppFactory) *cobra.Command {
	var fixturePath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Persist a fixture file as an exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fixturePath == "" {
				return errors.New("--fixture is required")
			}
			in, err := readFixture(fixturePath)
			if err != nil {
				return err
			}
			log, err := root.logger()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer a.Close()

			ex, err := a.Services.Content.ImportBundle(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "exercise %s imported (%d steps)", ex.ID, len(in.Steps))
			return nil
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "exercise fixture (.yaml or .json)")
	return cmd
}

func newExportCmd(root *rootOptions, newApp AppFactory) *cobra.Command {
	var (
		exerciseID string
		outDir     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored exercise into an archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(exerciseID)
			if err != nil {
				return fmt.Errorf("invalid --exercise %q: %w", exerciseID, err)
			}
			log, err := root.logger()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Services.Export.Export(cmd.Context(), id)
			if err != nil {
				return err
			}
			if _, err := writeFileAtomic(outDir, out.ArchiveName, out.Archive); err != nil {
				return err
			}
			printExported(cmd.OutOrStdout(), out.Result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&exerciseID, "exercise", "e", "", "exercise id")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
