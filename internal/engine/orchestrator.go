// Package engine orchestrates the segmentation pipeline: feature encoding,
// clustering, the deterministic segmenters, optimization, and strategy
// inference.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/getcohort/cohort/internal/cluster"
	"github.com/getcohort/cohort/internal/feature"
	"github.com/getcohort/cohort/internal/model"
	"github.com/getcohort/cohort/internal/segment"
)

// Orchestrator sequences the segmentation methods and post-processing
// stages over one immutable profile set.
type Orchestrator struct {
	cfg Config
}

// New creates an orchestrator. Config validation happens at run time so
// a zero-value Orchestrator fails loudly rather than quietly misbehaving.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{cfg: cfg}
}

// SegmentPopulation runs the full pipeline and returns the final segment
// collection keyed by segment ID. The four methods read the same immutable
// profile slice and run in parallel workers; their outputs are merged,
// pruned, and annotated with strategies. Identical (profiles, config)
// inputs produce identical results.
func (o *Orchestrator) SegmentPopulation(ctx context.Context, profiles []model.CustomerProfile) (map[string]model.AudienceSegment, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Starting segmentation run",
		"profiles", len(profiles),
		"min_segment_size", o.cfg.MinSegmentSize,
		"max_segments", o.cfg.MaxSegments,
		"seed", o.cfg.RandomSeed)

	if len(profiles) < o.cfg.MinSegmentSize {
		slog.Info("Population below minimum segment size, no segments possible",
			"profiles", len(profiles))
		return map[string]model.AudienceSegment{}, nil
	}

	derived := model.ComputeAllDerived(profiles)
	profilesByID := make(map[string]model.CustomerProfile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID] = p
	}

	// The four methods have no data dependency on one another; each gets
	// a read-only view and writes only its own output slot.
	var (
		mu     sync.Mutex
		merged = make(map[string]model.AudienceSegment)
	)
	collect := func(segments map[string]model.AudienceSegment) {
		mu.Lock()
		defer mu.Unlock()
		for id, seg := range segments {
			merged[id] = seg
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		collect(o.runClustering(gctx, profiles, profilesByID, derived))
		return nil
	})
	g.Go(func() error {
		segmenter := segment.NewRuleSegmenter(nil, o.cfg.MinSegmentSize)
		collect(segmenter.Apply(profiles, derived))
		return nil
	})
	g.Go(func() error {
		segmenter := segment.NewRFMSegmenter(o.cfg.MinSegmentSize)
		collect(segmenter.Apply(profiles, derived))
		return nil
	})
	g.Go(func() error {
		segmenter := segment.NewValueSegmenter(o.cfg.MinSegmentSize)
		collect(segmenter.Apply(profiles, derived))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("segmentation methods failed: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	optimizer := segment.NewOptimizer(o.cfg.MinSegmentSize, o.cfg.MaxSegments)
	final := optimizer.Optimize(merged)

	recommender := segment.NewRecommender()
	for id, seg := range final {
		seg.Strategies = recommender.Recommend(seg)
		final[id] = seg
	}

	slog.Info("Segmentation run complete",
		"candidate_segments", len(merged),
		"final_segments", len(final))

	return final, nil
}

// runClustering executes the ML method: fit encoding tables, encode the
// population, and cluster. Profiles that cannot be encoded are excluded
// here but remain eligible for the rule-based methods.
func (o *Orchestrator) runClustering(ctx context.Context, profiles []model.CustomerProfile, profilesByID map[string]model.CustomerProfile, derived map[string]model.DerivedMetrics) map[string]model.AudienceSegment {
	state := feature.Fit(profiles)
	encoder := feature.NewEncoder(state, o.cfg.Weights)

	matrix, skipped := encoder.Encode(profiles, derived)
	for _, err := range skipped {
		slog.Debug("Profile excluded from clustering", "error", err)
	}

	clusterer := cluster.New(cluster.Config{
		KMin:                o.cfg.KMin,
		KMax:                o.cfg.KMax,
		MinClusterSize:      o.cfg.MinSegmentSize,
		SilhouetteThreshold: o.cfg.SilhouetteThreshold,
		RandomSeed:          o.cfg.RandomSeed,
	})

	return clusterer.Segment(ctx, matrix, profilesByID, derived)
}
