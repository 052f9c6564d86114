package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getcohort/cohort/internal/cli"
	"github.com/getcohort/cohort/internal/importer"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import customer profiles from a CSV extract",
		Long: `Import reads a customer profile extract and stores the profiles for
segmentation. Rows with malformed values are skipped and logged; columns
outside the recognized attribute set are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Warn("Failed to close storage", "error", closeErr)
				}
			}()

			source := importer.NewCSV(args[0])
			profiles, err := source.Load(ctx)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			if err := store.SaveProfiles(ctx, profiles); err != nil {
				return fmt.Errorf("failed to save profiles: %w", err)
			}

			total, err := store.CountProfiles(ctx)
			if err != nil {
				return fmt.Errorf("failed to count profiles: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Imported %d profiles (%d total in store)", len(profiles), total)))
			return nil
		},
	}
}
