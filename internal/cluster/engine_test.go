package cluster

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcohort/cohort/internal/model"
)

// blobMatrix builds three well-separated 2-D blobs of 20 points each with
// a small deterministic jitter, plus the profiles and derived metrics the
// engine expects.
func blobMatrix() (model.FeatureMatrix, map[string]model.CustomerProfile, map[string]model.DerivedMetrics) {
	centers := [][2]float64{{0, 0}, {10, 10}, {20, 0}}

	matrix := model.FeatureMatrix{Columns: []string{"x", "y"}}
	profiles := make(map[string]model.CustomerProfile)

	for b, center := range centers {
		for i := 0; i < 20; i++ {
			id := fmt.Sprintf("p%d_%d", b, i)
			jitter := float64(i) * 0.01
			matrix.ProfileIDs = append(matrix.ProfileIDs, id)
			matrix.Rows = append(matrix.Rows, model.FeatureVector{
				center[0] + jitter,
				center[1] - jitter,
			})
			profiles[id] = model.CustomerProfile{ID: id}
		}
	}

	return matrix, profiles, map[string]model.DerivedMetrics{}
}

func TestKMeansDeterministicForSeed(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	points := make([][]float64, 200)
	for i := range points {
		points[i] = []float64{src.NormFloat64(), src.NormFloat64(), src.NormFloat64()}
	}

	first := runKMeans(points, 4, 100, rand.New(rand.NewSource(42)))
	second := runKMeans(points, 4, 100, rand.New(rand.NewSource(42)))

	require.NotEmpty(t, first.assignments)
	assert.Equal(t, first.assignments, second.assignments)
	assert.Equal(t, first.centroids, second.centroids)
	assert.Equal(t, first.inertia, second.inertia)
}

func TestKMeansDegenerateInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Empty(t, runKMeans(nil, 3, 100, rng).assignments)
	assert.Empty(t, runKMeans([][]float64{{1}, {2}}, 3, 100, rng).assignments)
	assert.Empty(t, runKMeans([][]float64{{1}, {2}}, 0, 100, rng).assignments)
}

func TestElbowIndex(t *testing.T) {
	tests := []struct {
		name     string
		inertias []float64
		want     int
	}{
		{
			name:     "sharp elbow after first drop",
			inertias: []float64{100, 50, 45, 42, 40},
			want:     1,
		},
		{
			name:     "too short",
			inertias: []float64{100, 50},
			want:     0,
		},
		{
			name:     "flat curve",
			inertias: []float64{10, 10, 10, 10},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elbowIndex(tt.inertias))
		})
	}
}

func TestEngineSegmentFindsThreeClusters(t *testing.T) {
	matrix, profiles, derived := blobMatrix()

	engine := New(Config{
		KMin:                2,
		KMax:                5,
		MinClusterSize:      5,
		MaxIterations:       100,
		SilhouetteThreshold: 0.3,
		RandomSeed:          42,
	})

	segments := engine.Segment(context.Background(), matrix, profiles, derived)
	require.Len(t, segments, 3)

	total := 0
	seen := make(map[string]bool)
	for id, seg := range segments {
		assert.Equal(t, id, seg.ID)
		assert.Equal(t, model.MethodClustering, seg.Method)
		assert.Equal(t, 20, seg.Size())
		total += seg.Size()
		for _, member := range seg.MemberIDs {
			assert.False(t, seen[member], "member %s assigned twice", member)
			seen[member] = true
		}
	}
	assert.Equal(t, 60, total)

	assert.Contains(t, segments, "clustering:cluster_1")
	assert.Contains(t, segments, "clustering:cluster_2")
	assert.Contains(t, segments, "clustering:cluster_3")
}

func TestEngineSegmentFixedK(t *testing.T) {
	matrix, profiles, derived := blobMatrix()

	engine := New(Config{
		KMin:           3,
		KMax:           3,
		MinClusterSize: 5,
		MaxIterations:  100,
		RandomSeed:     42,
	})

	segments := engine.Segment(context.Background(), matrix, profiles, derived)
	assert.Len(t, segments, 3)
}

func TestEngineSegmentDeterministic(t *testing.T) {
	matrix, profiles, derived := blobMatrix()
	cfg := Config{
		KMin:                2,
		KMax:                5,
		MinClusterSize:      5,
		MaxIterations:       100,
		SilhouetteThreshold: 0.3,
		RandomSeed:          42,
	}

	first := New(cfg).Segment(context.Background(), matrix, profiles, derived)
	second := New(cfg).Segment(context.Background(), matrix, profiles, derived)

	require.Equal(t, len(first), len(second))
	for id, seg := range first {
		other, ok := second[id]
		require.True(t, ok, "segment %s missing from second run", id)
		assert.ElementsMatch(t, seg.MemberIDs, other.MemberIDs)
	}
}

func TestEngineSegmentPopulationTooSmall(t *testing.T) {
	matrix := model.FeatureMatrix{
		ProfileIDs: []string{"a", "b"},
		Columns:    []string{"x"},
		Rows:       []model.FeatureVector{{1}, {2}},
	}

	engine := New(Config{KMin: 2, KMax: 4, MinClusterSize: 100, MaxIterations: 100})
	segments := engine.Segment(context.Background(), matrix, map[string]model.CustomerProfile{}, nil)

	assert.Empty(t, segments)
}

func TestSilhouetteDegenerate(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {1, 0}}
	rng := rand.New(rand.NewSource(1))

	// Every point in one cluster: silhouette undefined, reported as -1.
	assert.Equal(t, -1.0, silhouetteScore(points, []int{0, 0, 0}, 2, rng))
}

func TestSilhouetteSeparatedClusters(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1},
	}
	assignments := []int{0, 0, 0, 1, 1, 1}
	rng := rand.New(rand.NewSource(1))

	score := silhouetteScore(points, assignments, 2, rng)
	assert.Greater(t, score, 0.9)
}
