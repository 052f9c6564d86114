package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/getcohort/cohort/internal/cli"
	"github.com/getcohort/cohort/internal/engine"
	"github.com/getcohort/cohort/internal/model"
)

func segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Run segmentation over the stored profile population",
		Long: `Segment runs the full pipeline: feature encoding, clustering with
automatic cluster-count selection, business rules, RFM scoring, and value
bands, then prunes the merged result and attaches strategy
recommendations. The run is persisted and printed.`,
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

			profiles, err := store.GetProfiles(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profiles: %w", err)
			}
			if len(profiles) == 0 {
				return fmt.Errorf("no profiles in store - run 'cohort import' first")
			}

			cfg := engineConfig()
			orchestrator := engine.New(cfg)

			segments, err := orchestrator.SegmentPopulation(ctx, profiles)
			if err != nil {
				return fmt.Errorf("segmentation failed: %w", err)
			}

			run := &model.SegmentRun{
				ID:           uuid.NewString(),
				Seed:         cfg.RandomSeed,
				ProfileCount: len(profiles),
				CreatedAt:    time.Now(),
				Segments:     segments,
			}

			if err := store.SaveSegmentRun(ctx, run); err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}

			fmt.Print(cli.RenderSegments(segments))
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("run %s saved", run.ID)))
			return nil
		},
	}

	return cmd
}
