package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/getcohort/cohort/internal/config"
	"github.com/getcohort/cohort/internal/engine"
	"github.com/getcohort/cohort/internal/feature"
	"github.com/getcohort/cohort/internal/service"
	"github.com/getcohort/cohort/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/cohort/cohort.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// engineConfig builds the orchestrator configuration from viper, falling
// back to the defaults for anything unset.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	if viper.IsSet("segmentation.min_segment_size") {
		cfg.MinSegmentSize = viper.GetInt("segmentation.min_segment_size")
	}
	if viper.IsSet("segmentation.max_segments") {
		cfg.MaxSegments = viper.GetInt("segmentation.max_segments")
	}
	if viper.IsSet("segmentation.silhouette_threshold") {
		cfg.SilhouetteThreshold = viper.GetFloat64("segmentation.silhouette_threshold")
	}
	if viper.IsSet("segmentation.cluster_k_min") {
		cfg.KMin = viper.GetInt("segmentation.cluster_k_min")
	}
	if viper.IsSet("segmentation.cluster_k_max") {
		cfg.KMax = viper.GetInt("segmentation.cluster_k_max")
	}
	if viper.IsSet("segmentation.random_seed") {
		cfg.RandomSeed = viper.GetInt64("segmentation.random_seed")
	}

	for _, group := range feature.Groups {
		key := fmt.Sprintf("segmentation.weights.%s", group)
		if viper.IsSet(key) {
			cfg.Weights[group] = viper.GetFloat64(key)
		}
	}

	return cfg
}
