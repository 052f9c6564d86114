// Package cluster implements the ML segmentation method: feature scaling,
// automatic cluster-count selection, k-means partitioning, and cluster
// characterization.
package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/getcohort/cohort/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Config holds the clustering engine options.
type Config struct {
	KMin                int
	KMax                int
	MinClusterSize      int
	MaxIterations       int
	SilhouetteThreshold float64
	RandomSeed          int64
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{
		KMin:                3,
		KMax:                12,
		MinClusterSize:      100,
		MaxIterations:       100,
		SilhouetteThreshold: 0.3,
		RandomSeed:          42,
	}
}

// Engine runs the cluster-based segmentation method.
type Engine struct {
	cfg Config
}

// New creates a clustering engine.
func New(cfg Config) *Engine {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	return &Engine{cfg: cfg}
}

// Segment scales the feature matrix, selects a cluster count, partitions
// the population, and characterizes each resulting cluster. It never
// returns an error: when clustering cannot produce viable clusters the
// result is simply empty and the orchestrator proceeds with the
// rule-based methods.
func (e *Engine) Segment(ctx context.Context, matrix model.FeatureMatrix, profilesByID map[string]model.CustomerProfile, derived map[string]model.DerivedMetrics) map[string]model.AudienceSegment {
	n := matrix.Len()
	if n < e.cfg.MinClusterSize || n < e.cfg.KMin {
		slog.Info("Population too small for clustering, skipping ML segments",
			"population", n,
			"min_cluster_size", e.cfg.MinClusterSize)
		return map[string]model.AudienceSegment{}
	}

	rows := make([][]float64, n)
	for i, row := range matrix.Rows {
		rows[i] = row
	}

	scaler := &StandardScaler{}
	scaled := scaler.FitTransform(rows)

	k, err := e.selectK(ctx, scaled)
	if err != nil {
		slog.Warn("Cluster count selection failed, skipping ML segments", "error", err)
		return map[string]model.AudienceSegment{}
	}

	// Final partition at the chosen k with the configured seed.
	result := runKMeans(scaled, k, e.cfg.MaxIterations, rand.New(rand.NewSource(e.cfg.RandomSeed)))
	if len(result.assignments) == 0 {
		slog.Warn("Clustering produced no assignments, skipping ML segments", "k", k)
		return map[string]model.AudienceSegment{}
	}
	if !result.converged {
		slog.Warn("Clustering did not converge, skipping ML segments",
			"k", k,
			"max_iterations", e.cfg.MaxIterations)
		return map[string]model.AudienceSegment{}
	}

	clusters := make(map[int][]model.CustomerProfile, k)
	for i, c := range result.assignments {
		p, ok := profilesByID[matrix.ProfileIDs[i]]
		if !ok {
			continue
		}
		clusters[c] = append(clusters[c], p)
	}

	segments := make(map[string]model.AudienceSegment)
	emitted := 0
	for c := 0; c < k; c++ {
		members := clusters[c]
		if len(members) < e.cfg.MinClusterSize {
			slog.Debug("Dropping undersized cluster",
				"cluster", c,
				"size", len(members),
				"min_cluster_size", e.cfg.MinClusterSize)
			continue
		}

		emitted++
		seg := e.characterize(emitted, members, derived)
		segments[seg.ID] = seg
	}

	slog.Info("Clustering complete",
		"k", k,
		"segments", len(segments),
		"population", n)

	return segments
}

// selectK evaluates candidate cluster counts and picks one. The silhouette
// winner is preferred when its score clears the configured threshold;
// otherwise the elbow of the inertia curve decides. A degenerate range
// (KMin == KMax) skips the search entirely.
func (e *Engine) selectK(ctx context.Context, points [][]float64) (int, error) {
	kMin, kMax := e.cfg.KMin, e.cfg.KMax
	if kMax > len(points) {
		kMax = len(points)
	}
	if kMin > kMax {
		return 0, fmt.Errorf("no viable cluster count in range [%d, %d] for %d points", e.cfg.KMin, e.cfg.KMax, len(points))
	}
	if kMin == kMax {
		return kMin, nil
	}

	bar := progressbar.NewOptions(kMax-kMin+1,
		progressbar.OptionSetDescription("Searching cluster count"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	inertias := make([]float64, 0, kMax-kMin+1)
	silhouettes := make([]float64, 0, kMax-kMin+1)

	for k := kMin; k <= kMax; k++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		// Each candidate k gets its own rng stream so adding or removing
		// candidates never perturbs the others.
		rng := rand.New(rand.NewSource(e.cfg.RandomSeed + int64(k)))
		result := runKMeans(points, k, e.cfg.MaxIterations, rng)
		if len(result.assignments) == 0 {
			return 0, fmt.Errorf("k-means failed at k=%d", k)
		}

		inertias = append(inertias, result.inertia)
		silhouettes = append(silhouettes, silhouetteScore(points, result.assignments, k, rng))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	elbowK := kMin + elbowIndex(inertias)

	bestSilK := kMin
	bestSil := silhouettes[0]
	for i, s := range silhouettes {
		if s > bestSil {
			bestSil = s
			bestSilK = kMin + i
		}
	}

	chosen := elbowK
	if bestSil > e.cfg.SilhouetteThreshold {
		chosen = bestSilK
	}

	slog.Debug("Selected cluster count",
		"elbow_k", elbowK,
		"silhouette_k", bestSilK,
		"best_silhouette", bestSil,
		"chosen_k", chosen)

	return chosen, nil
}

// elbowIndex finds the point of maximum curvature in an inertia curve:
// normalize to [0,1], take first and second discrete differences, and
// return the curve index with the largest |second difference|.
func elbowIndex(inertias []float64) int {
	if len(inertias) < 3 {
		return 0
	}

	lo, hi := inertias[0], inertias[0]
	for _, v := range inertias[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return 0
	}

	norm := make([]float64, len(inertias))
	for i, v := range inertias {
		norm[i] = (v - lo) / (hi - lo)
	}

	first := make([]float64, len(norm)-1)
	for i := range first {
		first[i] = norm[i+1] - norm[i]
	}

	best := 0
	bestCurvature := -1.0
	for i := 0; i < len(first)-1; i++ {
		curvature := math.Abs(first[i+1] - first[i])
		if curvature > bestCurvature {
			bestCurvature = curvature
			best = i + 1 // curvature is measured at the interior point
		}
	}

	return best
}
