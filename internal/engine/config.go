package engine

import (
	"fmt"

	"github.com/getcohort/cohort/internal/common"
	"github.com/getcohort/cohort/internal/feature"
)

// Config holds the orchestrator options. Every knob of the segmentation
// run lives here; a run is a pure function of (profiles, Config).
type Config struct {
	Weights             feature.Weights
	MinSegmentSize      int
	MaxSegments         int
	KMin                int
	KMax                int
	SilhouetteThreshold float64
	RandomSeed          int64
}

// DefaultConfig returns the default orchestration configuration.
func DefaultConfig() Config {
	return Config{
		MinSegmentSize:      100,
		MaxSegments:         20,
		KMin:                3,
		KMax:                12,
		SilhouetteThreshold: 0.3,
		RandomSeed:          42,
		Weights:             feature.DefaultWeights(),
	}
}

// Validate rejects malformed configuration. These are caller programming
// errors, so they are fatal to the run rather than degraded around.
func (c Config) Validate() error {
	if c.MinSegmentSize <= 0 {
		return fmt.Errorf("%w: min_segment_size must be positive, got %d", common.ErrInvalidConfig, c.MinSegmentSize)
	}
	if c.MaxSegments <= 0 {
		return fmt.Errorf("%w: max_segments must be positive, got %d", common.ErrInvalidConfig, c.MaxSegments)
	}
	if c.KMin < 1 {
		return fmt.Errorf("%w: cluster_k_range minimum must be at least 1, got %d", common.ErrInvalidConfig, c.KMin)
	}
	if c.KMax < c.KMin {
		return fmt.Errorf("%w: cluster_k_range [%d, %d] is inverted", common.ErrInvalidConfig, c.KMin, c.KMax)
	}
	if c.SilhouetteThreshold < -1 || c.SilhouetteThreshold > 1 {
		return fmt.Errorf("%w: silhouette_threshold must be within [-1, 1], got %g", common.ErrInvalidConfig, c.SilhouetteThreshold)
	}
	for group, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("%w: weight for feature group %q is negative", common.ErrInvalidConfig, group)
		}
	}
	return nil
}
