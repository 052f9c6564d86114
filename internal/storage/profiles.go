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

// SaveProfiles upserts a batch of customer profiles in one transaction.
func (s *SQLiteStorage) SaveProfiles(ctx context.Context, profiles []model.CustomerProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfiles(profiles); err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profiles (id, hash, numeric_attrs, categorical_attrs)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hash = excluded.hash,
			numeric_attrs = excluded.numeric_attrs,
			categorical_attrs = excluded.categorical_attrs`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range profiles {
		numeric, err := json.Marshal(p.Numeric)
		if err != nil {
			return fmt.Errorf("failed to marshal numeric attributes for %s: %w", p.ID, err)
		}
		categorical, err := json.Marshal(p.Categorical)
		if err != nil {
			return fmt.Errorf("failed to marshal categorical attributes for %s: %w", p.ID, err)
		}

		if _, err := stmt.ExecContext(ctx, p.ID, p.GenerateHash(), string(numeric), string(categorical)); err != nil {
			return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProfiles returns every stored profile, ordered by ID.
func (s *SQLiteStorage) GetProfiles(ctx context.Context) ([]model.CustomerProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, numeric_attrs, categorical_attrs FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []model.CustomerProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// GetProfileByID returns one profile, or common.ErrNotFound.
func (s *SQLiteStorage) GetProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, numeric_attrs, categorical_attrs FROM profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, common.ErrNotFound)
		}
		return nil, err
	}

	return &p, nil
}

// CountProfiles returns the number of stored profiles.
func (s *SQLiteStorage) CountProfiles(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (model.CustomerProfile, error) {
	var p model.CustomerProfile
	var numeric, categorical string

	if err := row.Scan(&p.ID, &numeric, &categorical); err != nil {
		return p, err
	}

	if err := json.Unmarshal([]byte(numeric), &p.Numeric); err != nil {
		return p, fmt.Errorf("failed to unmarshal numeric attributes for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(categorical), &p.Categorical); err != nil {
		return p, fmt.Errorf("failed to unmarshal categorical attributes for %s: %w", p.ID, err)
	}

	return p, nil
}
