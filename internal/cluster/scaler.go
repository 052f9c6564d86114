package cluster

import (
	"github.com/getcohort/cohort/internal/stats"
)

// StandardScaler z-score standardizes feature columns using statistics
// computed from the current matrix only. Fit once per run, then transform;
// the scaler never mutates its input.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		s.means = nil
		s.stds = nil
		return
	}

	cols := len(rows[0])
	s.means = make([]float64, cols)
	s.stds = make([]float64, cols)

	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r, row := range rows {
			column[r] = row[c]
		}
		s.means[c] = stats.Mean(column)
		s.stds[c] = stats.StdDev(column)
	}
}

// Transform returns a standardized copy of rows. Constant columns (zero
// standard deviation) map to zero.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for r, row := range rows {
		scaled := make([]float64, len(row))
		for c, v := range row {
			if s.stds[c] == 0 {
				scaled[c] = 0
				continue
			}
			scaled[c] = (v - s.means[c]) / s.stds[c]
		}
		out[r] = scaled
	}
	return out
}

// FitTransform fits the scaler and returns the standardized copy.
func (s *StandardScaler) FitTransform(rows [][]float64) [][]float64 {
	s.Fit(rows)
	return s.Transform(rows)
}
