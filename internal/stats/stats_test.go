package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{5}, want: 5},
		{name: "several", values: []float64{1, 2, 3, 4}, want: 2.5},
		{name: "negatives", values: []float64{-2, 2}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Mean(tt.values), 1e-9)
		})
	}
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 0, StdDev([]float64{3, 3, 3}), 1e-9)
	assert.InDelta(t, 2, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.InDelta(t, 0, StdDev(nil), 1e-9)
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{name: "minimum", p: 0, want: 1},
		{name: "median interpolates", p: 50, want: 2.5},
		{name: "maximum", p: 100, want: 4},
		{name: "75th", p: 75, want: 3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(values, tt.p), 1e-9)
		})
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5}
	_ = Percentile(values, 50)
	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestQuintileScore(t *testing.T) {
	population := make([]float64, 100)
	for i := range population {
		population[i] = float64(i + 1)
	}

	assert.Equal(t, 1, QuintileScore(population, 1))
	assert.Equal(t, 1, QuintileScore(population, 0))
	assert.Equal(t, 5, QuintileScore(population, 99))
	assert.Equal(t, 5, QuintileScore(population, 1000))
	assert.Equal(t, 3, QuintileScore(population, 50))
	assert.Equal(t, 1, QuintileScore(nil, 50))
}
