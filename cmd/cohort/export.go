package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getcohort/cohort/internal/cli"
	"github.com/getcohort/cohort/internal/sheets"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the latest segmentation run to Google Sheets",
		Long: `Export writes the latest run's segment summary and per-method counts
to a Google Sheets spreadsheet. Authentication comes from the
GOOGLE_SHEETS_* environment variables (service account file or OAuth2
client credentials plus refresh token).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			run, err := store.GetLatestSegmentRun(ctx)
			if err != nil {
				return fmt.Errorf("failed to load latest run: %w", err)
			}

			cfg := sheets.DefaultConfig()
			if err := cfg.LoadFromEnv(); err != nil {
				return fmt.Errorf("sheets configuration: %w", err)
			}

			writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			if err := writer.Write(ctx, run); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Exported %d segments from run %s", len(run.Segments), run.ID)))
			return nil
		},
	}
}
