package constants

// Default clustering parameters.
//
// The agglomerative threshold and the spectral search budgets follow the values
// commonly used for similarity-based submission clustering: a merge threshold of
// 0.2 keeps weakly connected submissions apart, and 15-25 optimization runs are
// enough for the cluster-count search to stabilize on cohorts of a few hundred
// submissions.
const (
	// DefaultAgglomerativeThreshold is the inter-cluster similarity below which
	// two clusters are never merged.
	DefaultAgglomerativeThreshold = 0.2

	// DefaultSpectralBandwidth is the length-scale of the Gaussian-process
	// kernel used in the cluster-count search. Larger values assume a good
	// result at one cluster count generalizes to counts further away.
	DefaultSpectralBandwidth = 20.0

	// DefaultSpectralNoise models the run-to-run variance of k-means restarts
	// as observation noise in the Gaussian process.
	DefaultSpectralNoise = 0.0025

	// DefaultSpectralMinRuns is the number of exploratory k-means trials used
	// to seed the Gaussian process before acquisition-driven trials start.
	DefaultSpectralMinRuns = 5

	// DefaultSpectralMaxRuns bounds the total number of k-means trials.
	DefaultSpectralMaxRuns = 25

	// DefaultKMeansIterations caps Lloyd's-algorithm iterations per trial.
	DefaultKMeansIterations = 200

	// DefaultSpectralSeed seeds the random source so repeated runs over the
	// same input produce identical partitions.
	DefaultSpectralSeed = 1

	// DefaultPreprocessorPercentile is the percentile below which entries are
	// suppressed by the percentile preprocessor.
	DefaultPreprocessorPercentile = 0.75

	// DefaultPreprocessorThreshold is the cutoff used by the fixed-threshold
	// preprocessor.
	DefaultPreprocessorThreshold = 0.15
)

// Acquisition-optimization parameters for the cluster-count search.
const (
	// DefaultAcquisitionRestarts is the number of L-BFGS restarts used when
	// maximizing expected improvement over the surrogate posterior.
	DefaultAcquisitionRestarts = 8

	// DefaultMinClusters is the smallest cluster count the spectral search
	// will ever evaluate.
	DefaultMinClusters = 2
)
