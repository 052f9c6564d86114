// Package importer ingests customer profiles from CSV extracts.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"

	"github.com/getcohort/cohort/internal/model"
)

// idColumn is the required identifier column in profile extracts.
const idColumn = "customer_id"

// CSVImporter reads a profile extract from a CSV file. Columns outside the
// recognized attribute set are ignored; rows with malformed values are
// skipped and logged, never fatal.
type CSVImporter struct {
	path string
}

// NewCSV creates an importer for the given file path.
func NewCSV(path string) *CSVImporter {
	return &CSVImporter{path: path}
}

// Load implements service.ProfileSource.
func (i *CSVImporter) Load(ctx context.Context) ([]model.CustomerProfile, error) {
	f, err := os.Open(i.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", i.path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	numericSet := make(map[string]bool, len(model.NumericAttributes))
	for _, attr := range model.NumericAttributes {
		numericSet[attr] = true
	}
	categoricalSet := make(map[string]bool, len(model.CategoricalAttributes))
	for _, attr := range model.CategoricalAttributes {
		categoricalSet[attr] = true
	}

	bar := progressbar.Default(-1, "Importing profiles")
	defer func() { _ = bar.Finish() }()

	var profiles []model.CustomerProfile
	skipped := 0
	line := 1

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			slog.Warn("Skipping malformed CSV row", "line", line, "error", err)
			skipped++
			continue
		}

		profile, err := parseRecord(record, columns, numericSet, categoricalSet)
		if err != nil {
			slog.Warn("Skipping invalid profile row", "line", line, "error", err)
			skipped++
			continue
		}

		profiles = append(profiles, profile)
		_ = bar.Add(1)
	}

	slog.Info("Profile import complete",
		"file", i.path,
		"imported", len(profiles),
		"skipped", skipped)

	return profiles, nil
}

// mapColumns resolves header names to indices and requires the ID column.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[name] = idx
	}
	if _, ok := columns[idColumn]; !ok {
		return nil, fmt.Errorf("extract has no %q column", idColumn)
	}
	return columns, nil
}

// parseRecord builds one profile from a CSV row. Empty cells mean the
// attribute is absent; a present but unparseable numeric cell invalidates
// the row.
func parseRecord(record []string, columns map[string]int, numericSet, categoricalSet map[string]bool) (model.CustomerProfile, error) {
	cell := func(name string) (string, bool) {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return "", false
		}
		v := record[idx]
		return v, v != ""
	}

	id, ok := cell(idColumn)
	if !ok {
		return model.CustomerProfile{}, fmt.Errorf("row has no %s", idColumn)
	}

	profile := model.CustomerProfile{
		ID:          id,
		Numeric:     make(map[string]float64),
		Categorical: make(map[string]string),
	}

	for name := range columns {
		if name == idColumn {
			continue
		}
		value, present := cell(name)
		if !present {
			continue
		}

		switch {
		case numericSet[name]:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return model.CustomerProfile{}, fmt.Errorf("attribute %q is not numeric: %q", name, value)
			}
			profile.Numeric[name] = v
		case categoricalSet[name]:
			profile.Categorical[name] = value
		default:
			// Attributes outside the recognized set are ignored.
		}
	}

	return profile, nil
}
