package analyzer

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kMeansResult is the outcome of one Lloyd's-algorithm run.
type kMeansResult struct {
	assignments []int
	sse         float64 // sum of squared distances to assigned centroids
	iterations  int
}

// runKMeans clusters the embedded rows into k groups with Lloyd's algorithm,
// seeded with kmeans++ from the given random source. Iterations are capped by
// maxIterations; the run also stops once assignments are stable.
func runKMeans(points [][]float64, k, maxIterations int, rng *rand.Rand) *kMeansResult {
	n := len(points)
	if n == 0 || k <= 0 {
		return &kMeansResult{assignments: make([]int, n)}
	}
	if k > n {
		k = n
	}

	dim := len(points[0])
	centroids := seedCentroids(points, k, rng)
	assignments := make([]int, n)

	iterations := 0
	for ; iterations < maxIterations; iterations++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		// Recompute centroids; an emptied cluster is re-seeded from the point
		// farthest from its centroid to keep k populated.
		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignments[i]
			floats.Add(next[c], p)
			counts[c]++
		}
		for c := range next {
			if counts[c] == 0 {
				copy(next[c], points[farthestPoint(points, centroids, assignments)])
				continue
			}
			floats.Scale(1.0/float64(counts[c]), next[c])
		}
		centroids = next

		if !changed {
			break
		}
	}

	sse := 0.0
	for i, p := range points {
		d := floats.Distance(p, centroids[assignments[i]], 2)
		sse += d * d
	}

	return &kMeansResult{assignments: assignments, sse: sse, iterations: iterations}
}

// seedCentroids picks k initial centroids with kmeans++: the first uniformly,
// each following one with probability proportional to the squared distance
// from the nearest centroid chosen so far.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, copyPoint(points[rng.Intn(n)]))

	dist2 := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := floats.Distance(p, centroids[nearestCentroid(p, centroids)], 2)
			dist2[i] = d * d
			total += dist2[i]
		}

		if total == 0 {
			// All points coincide with existing centroids; fall back to a
			// uniform pick.
			centroids = append(centroids, copyPoint(points[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := n - 1
		for i, d := range dist2 {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, copyPoint(points[chosen]))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestPoint(points [][]float64, centroids [][]float64, assignments []int) int {
	best := 0
	bestDist := -1.0
	for i, p := range points {
		if d := floats.Distance(p, centroids[assignments[i]], 2); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func copyPoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
