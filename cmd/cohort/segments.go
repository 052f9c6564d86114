package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/getcohort/cohort/internal/cli"
	"github.com/getcohort/cohort/internal/common"
)

func segmentsCmd() *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Show the latest segmentation run",
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
				if errors.Is(err, common.ErrNotFound) {
					fmt.Println(cli.SubtleStyle.Render("No segmentation runs yet - run 'cohort segment' first."))
					return nil
				}
				return fmt.Errorf("failed to load latest run: %w", err)
			}

			fmt.Print(cli.RenderSegments(run.Segments))

			if detail {
				ids := make([]string, 0, len(run.Segments))
				for id := range run.Segments {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Println()
					fmt.Print(cli.RenderSegmentDetail(run.Segments[id]))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "print descriptions and strategies per segment")

	return cmd
}
