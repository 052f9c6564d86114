// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/getcohort/cohort/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Profile operations
	SaveProfiles(ctx context.Context, profiles []model.CustomerProfile) error
	GetProfiles(ctx context.Context) ([]model.CustomerProfile, error)
	GetProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error)
	CountProfiles(ctx context.Context) (int, error)

	// Segment run operations
	SaveSegmentRun(ctx context.Context, run *model.SegmentRun) error
	GetLatestSegmentRun(ctx context.Context) (*model.SegmentRun, error)
	GetSegmentRun(ctx context.Context, id string) (*model.SegmentRun, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ProfileSource supplies customer profiles from an external source of truth
// (CRM extract, warehouse query, file). The segmentation core only ever
// sees the resulting slice.
type ProfileSource interface {
	Load(ctx context.Context) ([]model.CustomerProfile, error)
}

// SegmentWriter delivers a finished segment run to a downstream consumer
// such as a spreadsheet or CRM sync.
type SegmentWriter interface {
	Write(ctx context.Context, run *model.SegmentRun) error
}

// RetryOptions configures retry behavior for external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
