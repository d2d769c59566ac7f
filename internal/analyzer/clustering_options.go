package analyzer

import (
	"github.com/ludo-technologies/simcluster/internal/constants"
)

// Metric selects how a pairwise similarity is computed from token-set sizes.
type Metric string

const (
	MetricAvg          Metric = "avg"
	MetricMax          Metric = "max"
	MetricMin          Metric = "min"
	MetricIntersection Metric = "intersection"
)

// AlgorithmMode selects the clustering algorithm.
type AlgorithmMode string

const (
	AlgorithmModeAgglomerative AlgorithmMode = "agglomerative"
	AlgorithmModeSpectral      AlgorithmMode = "spectral"
)

// LinkageMethod is the rule for deriving an inter-cluster similarity from the
// pairwise similarities of the clusters' members.
type LinkageMethod string

const (
	// LinkageMin uses the minimum member-pair similarity (complete linkage).
	LinkageMin LinkageMethod = "min"
	// LinkageMax uses the maximum member-pair similarity (single linkage).
	LinkageMax LinkageMethod = "max"
	// LinkageAverage uses the mean over all member pairs.
	LinkageAverage LinkageMethod = "average"
)

// PreprocessorMode selects the similarity-matrix transform applied before
// clustering.
type PreprocessorMode string

const (
	PreprocessorModeNone       PreprocessorMode = "none"
	PreprocessorModeCDF        PreprocessorMode = "cdf"
	PreprocessorModePercentile PreprocessorMode = "percentile"
	PreprocessorModeThreshold  PreprocessorMode = "threshold"
)

// ClusteringOptions holds the full configuration for one clustering run.
// It is created once per run and never mutated by the engine.
type ClusteringOptions struct {
	Metric       Metric
	Algorithm    AlgorithmMode
	Preprocessor PreprocessorMode

	// Preprocessor parameters
	PercentileCutoff float64 // percentile preprocessor, in [0,1]
	ThresholdCutoff  float64 // threshold preprocessor

	// Agglomerative parameters
	AgglomerativeThreshold float64
	Linkage                LinkageMethod

	// Spectral parameters
	Bandwidth        float64 // GP kernel length-scale over candidate cluster counts
	Noise            float64 // GP observation noise
	MinRuns          int     // exploratory k-means trials seeding the GP
	MaxRuns          int     // total k-means trial budget
	KMeansIterations int     // Lloyd's iteration cap per trial
	Seed             int64   // random seed for reproducibility

	// Performance
	MaxGoroutines int // bound on parallel k-means trials; 0 means NumCPU

	// Warn receives non-fatal numerical-recovery notices. May be nil.
	Warn func(message string)

	// Progress is called after each completed spectral trial. May be nil.
	Progress func()
}

// DefaultClusteringOptions returns options populated with the package defaults.
func DefaultClusteringOptions() *ClusteringOptions {
	return &ClusteringOptions{
		Metric:                 MetricAvg,
		Algorithm:              AlgorithmModeSpectral,
		Preprocessor:           PreprocessorModeCDF,
		PercentileCutoff:       constants.DefaultPreprocessorPercentile,
		ThresholdCutoff:        constants.DefaultPreprocessorThreshold,
		AgglomerativeThreshold: constants.DefaultAgglomerativeThreshold,
		Linkage:                LinkageAverage,
		Bandwidth:              constants.DefaultSpectralBandwidth,
		Noise:                  constants.DefaultSpectralNoise,
		MinRuns:                constants.DefaultSpectralMinRuns,
		MaxRuns:                constants.DefaultSpectralMaxRuns,
		KMeansIterations:       constants.DefaultKMeansIterations,
		Seed:                   constants.DefaultSpectralSeed,
	}
}

// warnf forwards a warning to the configured sink, if any.
func (o *ClusteringOptions) warnf(message string) {
	if o.Warn != nil {
		o.Warn(message)
	}
}

// tick reports one completed trial to the configured sink, if any.
func (o *ClusteringOptions) tick() {
	if o.Progress != nil {
		o.Progress()
	}
}
