package cluster

import (
	"math"
	"math/rand"
)

// kmeansResult is one finished k-means partition.
type kmeansResult struct {
	assignments []int
	centroids   [][]float64
	inertia     float64
	converged   bool
}

// runKMeans partitions points into k clusters. Initialization is
// k-means++ driven entirely by rng, so identical seeds give identical
// partitions.
func runKMeans(points [][]float64, k, maxIter int, rng *rand.Rand) kmeansResult {
	n := len(points)
	if n == 0 || k <= 0 || k > n {
		return kmeansResult{}
	}

	centroids := seedCentroids(points, k, rng)
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	converged := false
	for iter := 0; iter < maxIter; iter++ {
		changed := 0
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed++
			}
		}

		if changed == 0 {
			converged = true
			break
		}

		recomputeCentroids(points, assignments, centroids, rng)
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assignments[i]])
	}

	return kmeansResult{
		assignments: assignments,
		centroids:   centroids,
		inertia:     inertia,
		converged:   converged,
	}
}

// seedCentroids picks initial centroids with k-means++: the first at
// random, each subsequent one weighted by squared distance to the nearest
// chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, cloneVector(first))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := squaredDistance(p, centroids[0])
			for _, c := range centroids[1:] {
				if dc := squaredDistance(p, c); dc < d {
					d = dc
				}
			}
			dists[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid; fall back to
			// uniform choice to keep the requested k.
			centroids = append(centroids, cloneVector(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		var cumulative float64
		chosen := len(points) - 1
		for i, d := range dists {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, cloneVector(points[chosen]))
	}

	return centroids
}

// recomputeCentroids moves each centroid to the mean of its members.
// Empty clusters are reseeded to a random point so k is preserved.
func recomputeCentroids(points [][]float64, assignments []int, centroids [][]float64, rng *rand.Rand) {
	dims := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range centroids {
		sums[c] = make([]float64, dims)
	}

	for i, p := range points {
		c := assignments[i]
		counts[c]++
		for d, v := range p {
			sums[c][d] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			centroids[c] = cloneVector(points[rng.Intn(len(points))])
			continue
		}
		for d := range centroids[c] {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := squaredDistance(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := squaredDistance(p, centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func euclideanDistance(a, b []float64) float64 {
	return math.Sqrt(squaredDistance(a, b))
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
