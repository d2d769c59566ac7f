package analyzer

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ludo-technologies/simcluster/internal/constants"
)

// trialSeedStride decorrelates the per-trial random sources derived from the
// base seed (Knuth's multiplicative hash constant).
const trialSeedStride = 2654435761

// SpectralClustering embeds the similarity graph through its normalized
// Laplacian and clusters the embedded rows with k-means. The number of
// clusters is not fixed: it is searched by Bayesian optimization over repeated
// k-means trials, using a Gaussian-process surrogate and an
// expected-improvement acquisition function.
type SpectralClustering struct {
	options *ClusteringOptions
}

func NewSpectralClustering(options *ClusteringOptions) *SpectralClustering {
	return &SpectralClustering{options: options}
}

func (s *SpectralClustering) GetName() string { return "Spectral" }

// spectralTrial is one k-means evaluation at a candidate cluster count.
// Quality is sign-adjusted so that higher is uniformly better.
type spectralTrial struct {
	k           int
	quality     float64
	assignments []int
}

func (s *SpectralClustering) Cluster(matrix *SimilarityMatrix) (Partition, error) {
	n := matrix.Size()
	switch {
	case n < 2:
		return identityPartition(n), nil
	case n == 2:
		if matrix.At(0, 1) > 0 {
			return Partition{0, 0}, nil
		}
		return identityPartition(n), nil
	}

	if matrix.IsZero() {
		return identityPartition(n), nil
	}

	eigenvectors, err := laplacianEigenbasis(matrix)
	if err != nil {
		// Spectral embedding failed outright; report the degeneracy and leave
		// every submission unclustered rather than failing the run.
		s.options.warnf(fmt.Sprintf("spectral embedding degenerate, no clusters formed: %v", err))
		return identityPartition(n), nil
	}

	kMin := constants.DefaultMinClusters
	kMax := n - 1

	// Seed the surrogate with exploratory cluster counts spread evenly over
	// the search range, evaluated in parallel: the trials are statistically
	// independent.
	seedKs := exploratoryCounts(kMin, kMax, s.options.MinRuns)
	trials := s.runTrials(matrix, eigenvectors, seedKs, 0)

	best := bestTrial(trials)

	// Acquisition-driven trials. Each choice of the next count depends on the
	// posterior after all prior trials, so this loop is sequential.
	rng := rand.New(rand.NewSource(s.options.Seed))
	for run := len(trials); run < s.options.MaxRuns; run++ {
		xs := make([]float64, len(trials))
		ys := make([]float64, len(trials))
		for i, t := range trials {
			xs[i] = float64(t.k)
			ys[i] = t.quality
		}

		gp := newGaussianProcess(s.options.Bandwidth, s.options.Noise)
		if err := gp.Fit(xs, ys); err != nil {
			s.options.warnf(fmt.Sprintf("cluster-count search stopped early, keeping best of %d runs: %v", len(trials), err))
			break
		}

		x, err := maximizeAcquisition(gp, best.quality, float64(kMin), float64(kMax), constants.DefaultAcquisitionRestarts, rng)
		if err != nil {
			s.options.warnf(fmt.Sprintf("cluster-count search stopped early, keeping best of %d runs: %v", len(trials), err))
			break
		}

		k := clampInt(int(math.Round(x)), kMin, kMax)
		trial := s.runTrial(matrix, eigenvectors, k, run)
		trials = append(trials, trial)
		if trial.quality > best.quality {
			best = trial
		}
	}

	return Partition(best.assignments), nil
}

// runTrials evaluates k-means at each count on a bounded worker pool and
// returns the trials in input order.
func (s *SpectralClustering) runTrials(matrix *SimilarityMatrix, eigenvectors *mat.Dense, ks []int, firstTrialIndex int) []*spectralTrial {
	maxConcurrency := s.options.MaxGoroutines
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}

	semaphore := make(chan struct{}, maxConcurrency)
	results := make([]*spectralTrial, len(ks))

	var wg sync.WaitGroup
	for i, k := range ks {
		wg.Add(1)
		go func(i, k int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			results[i] = s.runTrial(matrix, eigenvectors, k, firstTrialIndex+i)
		}(i, k)
	}
	wg.Wait()

	return results
}

// runTrial embeds into k dimensions and runs one seeded k-means. The trial
// index fixes the random source, so results do not depend on scheduling.
func (s *SpectralClustering) runTrial(matrix *SimilarityMatrix, eigenvectors *mat.Dense, k, trialIndex int) *spectralTrial {
	points := embedRows(eigenvectors, k)
	rng := rand.New(rand.NewSource(s.options.Seed + int64(trialIndex)*trialSeedStride))
	result := runKMeans(points, k, s.options.KMeansIterations, rng)

	// The negated normalized cut of the induced partition on the similarity
	// graph. Unlike the raw k-means objective it does not improve
	// monotonically with k, and the negation keeps higher uniformly better
	// for the optimization machinery.
	quality := -normalizedCut(matrix, result.assignments)
	s.options.tick()
	return &spectralTrial{k: k, quality: quality, assignments: result.assignments}
}

// normalizedCut sums cut(C, V\C)/vol(C) over the clusters of the partition.
// Zero-volume clusters (isolated submissions) contribute nothing.
func normalizedCut(matrix *SimilarityMatrix, assignments []int) float64 {
	n := matrix.Size()
	cut := make(map[int]float64)
	vol := make(map[int]float64)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			w := matrix.At(i, j)
			vol[assignments[i]] += w
			if assignments[i] != assignments[j] {
				cut[assignments[i]] += w
			}
		}
	}

	total := 0.0
	for c, v := range vol {
		if v > 0 {
			total += cut[c] / v
		}
	}
	return total
}

// laplacianEigenbasis computes the eigenvectors of the symmetric normalized
// Laplacian I - D^{-1/2} W D^{-1/2}, ordered by ascending eigenvalue.
func laplacianEigenbasis(matrix *SimilarityMatrix) (*mat.Dense, error) {
	n := matrix.Size()

	degrees := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				degrees[i] += matrix.At(i, j)
			}
		}
	}

	invSqrt := make([]float64, n)
	for i, d := range degrees {
		if d > 0 {
			invSqrt[i] = 1 / math.Sqrt(d)
		}
	}

	laplacian := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		laplacian.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			w := matrix.At(i, j)
			if w != 0 {
				laplacian.SetSym(i, j, -w*invSqrt[i]*invSqrt[j])
			}
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(laplacian, true); !ok {
		return nil, fmt.Errorf("laplacian eigendecomposition did not converge")
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	return &vectors, nil
}

// embedRows takes the eigenvectors of the k smallest eigenvalues as columns
// and normalizes each row to unit length, leaving zero rows (isolated
// submissions) untouched.
func embedRows(eigenvectors *mat.Dense, k int) [][]float64 {
	n, cols := eigenvectors.Dims()
	if k > cols {
		k = cols
	}

	points := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, k)
		for j := 0; j < k; j++ {
			row[j] = eigenvectors.At(i, j)
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		points[i] = row
	}
	return points
}

// exploratoryCounts spreads count candidates evenly over [kMin, kMax].
func exploratoryCounts(kMin, kMax, runs int) []int {
	ks := make([]int, runs)
	if runs == 1 {
		ks[0] = kMin
		return ks
	}
	step := float64(kMax-kMin) / float64(runs-1)
	for i := range ks {
		ks[i] = clampInt(kMin+int(math.Round(float64(i)*step)), kMin, kMax)
	}
	return ks
}

func bestTrial(trials []*spectralTrial) *spectralTrial {
	best := trials[0]
	for _, t := range trials[1:] {
		if t.quality > best.quality {
			best = t
		}
	}
	return best
}

// identityPartition puts every submission in its own cluster; the strength
// scorer drops singletons, so this reads as "nothing suspicious".
func identityPartition(n int) Partition {
	p := make(Partition, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
