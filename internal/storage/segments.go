package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getcohort/cohort/internal/common"
	"github.com/getcohort/cohort/internal/model"
)

// SaveSegmentRun persists a completed run with its segments and
// memberships in one transaction.
func (s *SQLiteStorage) SaveSegmentRun(ctx context.Context, run *model.SegmentRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO segment_runs (id, seed, profile_count, created_at)
		VALUES (?, ?, ?, ?)`,
		run.ID, run.Seed, run.ProfileCount, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	segStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (run_id, id, name, description, method, characteristics, strategies, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment statement: %w", err)
	}
	defer func() { _ = segStmt.Close() }()

	memberStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segment_members (run_id, segment_id, profile_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare member statement: %w", err)
	}
	defer func() { _ = memberStmt.Close() }()

	for id, seg := range run.Segments {
		characteristics, err := json.Marshal(seg.Characteristics)
		if err != nil {
			return fmt.Errorf("failed to marshal characteristics for %s: %w", id, err)
		}
		strategies, err := json.Marshal(seg.Strategies)
		if err != nil {
			return fmt.Errorf("failed to marshal strategies for %s: %w", id, err)
		}

		if _, err := segStmt.ExecContext(ctx,
			run.ID, seg.ID, seg.Name, seg.Description, string(seg.Method),
			string(characteristics), string(strategies), seg.CreatedAt); err != nil {
			return fmt.Errorf("failed to save segment %s: %w", id, err)
		}

		for _, profileID := range seg.MemberIDs {
			if _, err := memberStmt.ExecContext(ctx, run.ID, seg.ID, profileID); err != nil {
				return fmt.Errorf("failed to save member %s of %s: %w", profileID, id, err)
			}
		}
	}

	return tx.Commit()
}

// GetLatestSegmentRun returns the most recent run, or common.ErrNotFound.
func (s *SQLiteStorage) GetLatestSegmentRun(ctx context.Context) (*model.SegmentRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM segment_runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no segment runs: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}

	return s.GetSegmentRun(ctx, id)
}

// GetSegmentRun loads one run with all its segments and memberships.
func (s *SQLiteStorage) GetSegmentRun(ctx context.Context, id string) (*model.SegmentRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	run := &model.SegmentRun{ID: id, Segments: make(map[string]model.AudienceSegment)}
	err := s.db.QueryRowContext(ctx, `
		SELECT seed, profile_count, created_at FROM segment_runs WHERE id = ?`, id).
		Scan(&run.Seed, &run.ProfileCount, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("segment run %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, method, characteristics, strategies, created_at
		FROM segments WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var seg model.AudienceSegment
		var method, characteristics, strategies string

		if err := rows.Scan(&seg.ID, &seg.Name, &seg.Description, &method,
			&characteristics, &strategies, &seg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}

		seg.Method = model.SegmentMethod(method)
		if err := json.Unmarshal([]byte(characteristics), &seg.Characteristics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal characteristics for %s: %w", seg.ID, err)
		}
		if err := json.Unmarshal([]byte(strategies), &seg.Strategies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strategies for %s: %w", seg.ID, err)
		}

		run.Segments[seg.ID] = seg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := s.db.QueryContext(ctx, `
		SELECT segment_id, profile_id FROM segment_members
		WHERE run_id = ? ORDER BY segment_id, profile_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer func() { _ = memberRows.Close() }()

	for memberRows.Next() {
		var segmentID, profileID string
		if err := memberRows.Scan(&segmentID, &profileID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		seg, ok := run.Segments[segmentID]
		if !ok {
			continue
		}
		seg.MemberIDs = append(seg.MemberIDs, profileID)
		run.Segments[segmentID] = seg
	}

	return run, memberRows.Err()
}
