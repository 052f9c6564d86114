package cluster

import "math/rand"

// silhouetteSampleCap bounds the O(n²) silhouette computation; larger
// populations are scored on a seeded sample.
const silhouetteSampleCap = 1000

// silhouetteScore returns the mean silhouette coefficient of a partition,
// in [-1, 1]. Degenerate partitions (a single occupied cluster) score -1
// so they can never win the silhouette vote.
func silhouetteScore(points [][]float64, assignments []int, k int, rng *rand.Rand) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return -1
	}

	occupied := make(map[int]int, k)
	for _, a := range assignments {
		occupied[a]++
	}
	if len(occupied) < 2 {
		return -1
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if n > silhouetteSampleCap {
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		indices = indices[:silhouetteSampleCap]
	}

	var total float64
	var counted int
	for _, i := range indices {
		own := assignments[i]
		if occupied[own] < 2 {
			// Singleton clusters contribute 0 by convention.
			counted++
			continue
		}

		// Mean distance to own cluster (a) and to the nearest other
		// cluster (b), over the full population.
		sums := make(map[int]float64, k)
		for j, p := range points {
			if j == i {
				continue
			}
			sums[assignments[j]] += euclideanDistance(points[i], p)
		}

		a := sums[own] / float64(occupied[own]-1)
		b := -1.0
		for c, sum := range sums {
			if c == own {
				continue
			}
			mean := sum / float64(occupied[c])
			if b < 0 || mean < b {
				b = mean
			}
		}
		if b < 0 {
			counted++
			continue
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			total += (b - a) / max
		}
		counted++
	}

	if counted == 0 {
		return -1
	}
	return total / float64(counted)
}
