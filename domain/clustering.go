package domain

import (
	"context"
	"io"

	"github.com/ludo-technologies/simcluster/internal/constants"
)

// Metric selects how a pairwise similarity is derived from the token-set sizes
// of two submissions and the size of their matched intersection.
type Metric string

const (
	// MetricAvg is 2*|A∩B| / (|A|+|B|), the Sørensen–Dice coefficient.
	MetricAvg Metric = "avg"
	// MetricMax is |A∩B| / min(|A|,|B|), the overlap coefficient.
	MetricMax Metric = "max"
	// MetricMin is |A∩B| / max(|A|,|B|).
	MetricMin Metric = "min"
	// MetricIntersection is the raw matched-token count. Not bounded to [0,1].
	MetricIntersection Metric = "intersection"
)

// Algorithm selects the clustering algorithm applied to the similarity matrix.
type Algorithm string

const (
	AlgorithmAgglomerative Algorithm = "agglomerative"
	AlgorithmSpectral      Algorithm = "spectral"
)

// Linkage is the rule deriving an inter-cluster similarity from member pairs
// during agglomerative merging.
type Linkage string

const (
	// LinkageMin takes the minimum pairwise similarity (complete linkage).
	LinkageMin Linkage = "min"
	// LinkageMax takes the maximum pairwise similarity (single linkage).
	LinkageMax Linkage = "max"
	// LinkageAverage takes the mean over all member pairs.
	LinkageAverage Linkage = "average"
)

// Preprocessor selects the matrix transform applied before clustering.
type Preprocessor string

const (
	PreprocessorNone       Preprocessor = "none"
	PreprocessorCDF        Preprocessor = "cdf"
	PreprocessorPercentile Preprocessor = "percentile"
	PreprocessorThreshold  Preprocessor = "threshold"
)

// ComparisonRecord is one pairwise comparison produced by the upstream
// comparison stage. Token-set sizes refer to the two submissions' tokenized
// forms; MatchedTokens is the size of the matched intersection.
type ComparisonRecord struct {
	SubmissionA   string `json:"submission_a" yaml:"submission_a" csv:"submission_a"`
	SubmissionB   string `json:"submission_b" yaml:"submission_b" csv:"submission_b"`
	SizeA         int    `json:"size_a" yaml:"size_a" csv:"size_a"`
	SizeB         int    `json:"size_b" yaml:"size_b" csv:"size_b"`
	MatchedTokens int    `json:"matched_tokens" yaml:"matched_tokens" csv:"matched_tokens"`
}

// Cluster is a group of mutually similar submissions. Strength measures how
// much more similar members are to each other than to the rest of the
// population; higher means more suspicious.
type Cluster struct {
	ID       int      `json:"id" yaml:"id" csv:"id"`
	Members  []string `json:"members" yaml:"members" csv:"members"`
	Strength float64  `json:"strength" yaml:"strength" csv:"strength"`
}

// Size returns the number of member submissions.
func (c *Cluster) Size() int { return len(c.Members) }

// ClusteringStatistics summarizes a clustering run.
type ClusteringStatistics struct {
	TotalSubmissions     int     `json:"total_submissions" yaml:"total_submissions"`
	TotalClusters        int     `json:"total_clusters" yaml:"total_clusters"`
	ClusteredSubmissions int     `json:"clustered_submissions" yaml:"clustered_submissions"`
	AverageStrength      float64 `json:"average_strength" yaml:"average_strength"`
	MaxStrength          float64 `json:"max_strength" yaml:"max_strength"`
}

// ClusteringRequest carries the comparison records and the full clustering
// configuration for one run. It is immutable from the core's point of view.
type ClusteringRequest struct {
	// Input
	Comparisons []ComparisonRecord `json:"comparisons"`

	// Core configuration
	Enabled      bool         `json:"enabled"`
	Metric       Metric       `json:"metric"`
	Algorithm    Algorithm    `json:"algorithm"`
	Preprocessor Preprocessor `json:"preprocessor"`

	// Preprocessor parameters
	PreprocessorPercentile float64 `json:"preprocessor_percentile"`
	PreprocessorThreshold  float64 `json:"preprocessor_threshold"`

	// Agglomerative parameters
	AgglomerativeThreshold float64 `json:"agglomerative_threshold"`
	AgglomerativeLinkage   Linkage `json:"agglomerative_linkage"`

	// Spectral parameters
	SpectralBandwidth        float64 `json:"spectral_bandwidth"`
	SpectralNoise            float64 `json:"spectral_noise"`
	SpectralMinRuns          int     `json:"spectral_min_runs"`
	SpectralMaxRuns          int     `json:"spectral_max_runs"`
	SpectralKMeansIterations int     `json:"spectral_kmeans_iterations"`
	SpectralSeed             int64   `json:"spectral_seed"`

	// Performance
	MaxGoroutines int `json:"max_goroutines"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowDetails  bool         `json:"show_details"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// ClusteringResponse is the result of a clustering run. Warnings carry
// non-fatal numerical-recovery notices (e.g., a degenerate surrogate model).
type ClusteringResponse struct {
	Clusters   []*Cluster            `json:"clusters" yaml:"clusters"`
	Statistics *ClusteringStatistics `json:"statistics" yaml:"statistics"`
	Warnings   []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	Duration int64 `json:"duration_ms" yaml:"duration_ms"`
}

// IsEmpty reports whether the run produced no clusters.
func (r *ClusteringResponse) IsEmpty() bool { return len(r.Clusters) == 0 }

// ClusteringService runs the clustering pipeline over comparison records.
type ClusteringService interface {
	// Clusterize builds the similarity matrix, applies the configured
	// preprocessor and algorithm, and returns scored clusters in descending
	// strength order. A disabled request yields an empty response.
	Clusterize(ctx context.Context, req *ClusteringRequest) (*ClusteringResponse, error)
}

// ClusteringOutputFormatter renders a clustering response.
type ClusteringOutputFormatter interface {
	// Format writes the response in the given format.
	Format(response *ClusteringResponse, format OutputFormat, writer io.Writer) error
}

// ClusteringConfigurationLoader loads clustering configuration from a file.
type ClusteringConfigurationLoader interface {
	// LoadConfig loads a request template from a configuration file.
	LoadConfig(configPath string) (*ClusteringRequest, error)

	// GetDefaultConfig returns the default request template.
	GetDefaultConfig() *ClusteringRequest
}

// Validate checks the request configuration before any computation starts.
func (req *ClusteringRequest) Validate() error {
	switch req.Metric {
	case MetricAvg, MetricMax, MetricMin, MetricIntersection:
	default:
		return NewConfigurationError("unknown metric: "+string(req.Metric), nil)
	}

	switch req.Algorithm {
	case AlgorithmAgglomerative, AlgorithmSpectral:
	default:
		return NewConfigurationError("unknown algorithm: "+string(req.Algorithm), nil)
	}

	switch req.Preprocessor {
	case PreprocessorNone, PreprocessorCDF, PreprocessorPercentile, PreprocessorThreshold:
	default:
		return NewConfigurationError("unknown preprocessor: "+string(req.Preprocessor), nil)
	}

	if req.AgglomerativeThreshold < 0.0 || req.AgglomerativeThreshold > 1.0 {
		return NewConfigurationError("agglomerative threshold must be between 0.0 and 1.0", nil)
	}

	switch req.AgglomerativeLinkage {
	case LinkageMin, LinkageMax, LinkageAverage:
	default:
		return NewConfigurationError("unknown linkage: "+string(req.AgglomerativeLinkage), nil)
	}

	if req.SpectralBandwidth <= 0 {
		return NewConfigurationError("spectral bandwidth must be positive", nil)
	}

	if req.SpectralNoise < 0 {
		return NewConfigurationError("spectral noise must be non-negative", nil)
	}

	if req.SpectralMinRuns < 1 {
		return NewConfigurationError("spectral min runs must be >= 1", nil)
	}

	if req.SpectralMaxRuns < req.SpectralMinRuns {
		return NewConfigurationError("spectral max runs must be >= min runs", nil)
	}

	if req.SpectralKMeansIterations < 1 {
		return NewConfigurationError("k-means iterations must be >= 1", nil)
	}

	if req.PreprocessorPercentile < 0.0 || req.PreprocessorPercentile > 1.0 {
		return NewConfigurationError("preprocessor percentile must be between 0.0 and 1.0", nil)
	}

	if req.MaxGoroutines < 0 {
		return NewConfigurationError("max goroutines must be >= 0", nil)
	}

	return nil
}

// DefaultClusteringRequest returns a request populated with the default
// configuration. Comparisons and output writer are left for the caller.
func DefaultClusteringRequest() *ClusteringRequest {
	return &ClusteringRequest{
		Enabled:                  true,
		Metric:                   MetricAvg,
		Algorithm:                AlgorithmSpectral,
		Preprocessor:             PreprocessorCDF,
		PreprocessorPercentile:   constants.DefaultPreprocessorPercentile,
		PreprocessorThreshold:    constants.DefaultPreprocessorThreshold,
		AgglomerativeThreshold:   constants.DefaultAgglomerativeThreshold,
		AgglomerativeLinkage:     LinkageAverage,
		SpectralBandwidth:        constants.DefaultSpectralBandwidth,
		SpectralNoise:            constants.DefaultSpectralNoise,
		SpectralMinRuns:          constants.DefaultSpectralMinRuns,
		SpectralMaxRuns:          constants.DefaultSpectralMaxRuns,
		SpectralKMeansIterations: constants.DefaultKMeansIterations,
		SpectralSeed:             constants.DefaultSpectralSeed,
		OutputFormat:             OutputFormatText,
		ShowDetails:              false,
	}
}
