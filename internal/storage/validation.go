package storage

import (
	"context"
	"fmt"

	"github.com/getcohort/cohort/internal/common"
	"github.com/getcohort/cohort/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("%w: nil context", common.ErrInvalidConfig)
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%w: %s must not be empty", common.ErrInvalidConfig, name)
	}
	return nil
}

func validateProfiles(profiles []model.CustomerProfile) error {
	for i, p := range profiles {
		if p.ID == "" {
			return fmt.Errorf("%w: profile at index %d has no ID", common.ErrInvalidConfig, i)
		}
	}
	return nil
}

func validateRun(run *model.SegmentRun) error {
	if run == nil {
		return fmt.Errorf("%w: nil segment run", common.ErrInvalidConfig)
	}
	if run.ID == "" {
		return fmt.Errorf("%w: segment run has no ID", common.ErrInvalidConfig)
	}
	return nil
}
