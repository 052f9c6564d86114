// Package feature converts raw customer attributes into normalized numeric
// feature vectors for the clustering engine.
package feature

import (
	"log/slog"
	"sort"

	"github.com/getcohort/cohort/internal/model"
)

// EncodingState holds the categorical label tables for one run. It is
// built once by Fit and passed explicitly into the encoder so that
// identical categorical values always map to the same index within a run.
// It carries no ambient package state and is read-only after Fit.
type EncodingState struct {
	labels map[string]map[string]int
}

// Fit builds the label tables from the full population. Values are indexed
// in sorted order so the mapping is deterministic regardless of profile
// order.
func Fit(profiles []model.CustomerProfile) *EncodingState {
	values := make(map[string]map[string]struct{})
	for _, attr := range model.CategoricalAttributes {
		values[attr] = make(map[string]struct{})
	}

	for _, p := range profiles {
		for _, attr := range model.CategoricalAttributes {
			if v, ok := p.Cat(attr); ok {
				values[attr][v] = struct{}{}
			}
		}
	}

	labels := make(map[string]map[string]int, len(values))
	for attr, set := range values {
		sorted := make([]string, 0, len(set))
		for v := range set {
			sorted = append(sorted, v)
		}
		sort.Strings(sorted)

		table := make(map[string]int, len(sorted))
		for i, v := range sorted {
			table[v] = i
		}
		labels[attr] = table
	}

	return &EncodingState{labels: labels}
}

// Index returns the label index for a categorical value, if fitted.
func (s *EncodingState) Index(attr, value string) (int, bool) {
	table, ok := s.labels[attr]
	if !ok {
		return 0, false
	}
	idx, ok := table[value]
	return idx, ok
}

// Encoder turns profiles into weighted feature vectors using a fitted
// EncodingState.
type Encoder struct {
	state   *EncodingState
	weights Weights
}

// NewEncoder creates an encoder bound to a fitted state and group weights.
func NewEncoder(state *EncodingState, weights Weights) *Encoder {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Encoder{state: state, weights: weights}
}

// Encode emits one feature vector per encodable profile. Profiles missing
// a required attribute are excluded and their errors returned alongside
// the matrix; the run continues without them.
func (e *Encoder) Encode(profiles []model.CustomerProfile, derived map[string]model.DerivedMetrics) (model.FeatureMatrix, []error) {
	procs := processors()

	columns := make([]string, 0, 16)
	for _, proc := range procs {
		columns = append(columns, proc.columns()...)
	}

	matrix := model.FeatureMatrix{
		Columns:    columns,
		ProfileIDs: make([]string, 0, len(profiles)),
		Rows:       make([]model.FeatureVector, 0, len(profiles)),
	}

	var skipped []error
	for _, p := range profiles {
		row, err := e.encodeProfile(p, derived[p.ID], procs)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		matrix.ProfileIDs = append(matrix.ProfileIDs, p.ID)
		matrix.Rows = append(matrix.Rows, row)
	}

	if len(skipped) > 0 {
		slog.Info("Excluded profiles from feature encoding",
			"excluded", len(skipped),
			"encoded", matrix.Len())
	}

	return matrix, skipped
}

// encodeProfile concatenates the weighted group encodings for one profile.
func (e *Encoder) encodeProfile(p model.CustomerProfile, d model.DerivedMetrics, procs []groupProcessor) (model.FeatureVector, error) {
	row := make(model.FeatureVector, 0, 16)

	for _, proc := range procs {
		values, err := proc.encode(p, d, e.state)
		if err != nil {
			return nil, err
		}

		w := e.weights.weight(proc.group())
		for _, v := range values {
			row = append(row, v*w)
		}
	}

	return row, nil
}
