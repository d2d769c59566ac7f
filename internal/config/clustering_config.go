package config

import (
	"fmt"

	"github.com/ludo-technologies/simcluster/internal/constants"
)

// ClusteringConfig is the unified clustering configuration shared by the CLI,
// the config file loader and the service layer.
type ClusteringConfig struct {
	// Clustering holds the core algorithm selection
	Clustering CoreConfig `mapstructure:"clustering" yaml:"clustering" json:"clustering"`

	// Agglomerative holds the hierarchical-clustering parameters
	Agglomerative AgglomerativeConfig `mapstructure:"agglomerative" yaml:"agglomerative" json:"agglomerative"`

	// Spectral holds the spectral-clustering and search parameters
	Spectral SpectralConfig `mapstructure:"spectral" yaml:"spectral" json:"spectral"`

	// Preprocessing holds the similarity-matrix transform parameters
	Preprocessing PreprocessingConfig `mapstructure:"preprocessing" yaml:"preprocessing" json:"preprocessing"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Performance holds parallelism settings
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance" json:"performance"`
}

// CoreConfig selects metric and algorithm.
type CoreConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Metric    string `mapstructure:"metric" yaml:"metric" json:"metric"`
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
}

// AgglomerativeConfig holds the hierarchical-clustering parameters.
type AgglomerativeConfig struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	Linkage   string  `mapstructure:"linkage" yaml:"linkage" json:"linkage"`
}

// SpectralConfig holds the spectral-clustering and cluster-count search
// parameters.
type SpectralConfig struct {
	Bandwidth        float64 `mapstructure:"bandwidth" yaml:"bandwidth" json:"bandwidth"`
	Noise            float64 `mapstructure:"noise" yaml:"noise" json:"noise"`
	MinRuns          int     `mapstructure:"min_runs" yaml:"min_runs" json:"min_runs"`
	MaxRuns          int     `mapstructure:"max_runs" yaml:"max_runs" json:"max_runs"`
	KMeansIterations int     `mapstructure:"kmeans_iterations" yaml:"kmeans_iterations" json:"kmeans_iterations"`
	Seed             int64   `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// PreprocessingConfig holds the matrix-transform parameters.
type PreprocessingConfig struct {
	Mode       string  `mapstructure:"mode" yaml:"mode" json:"mode"`
	Percentile float64 `mapstructure:"percentile" yaml:"percentile" json:"percentile"`
	Threshold  float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
}

// OutputConfig holds output formatting configuration.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format" json:"format"`
	ShowDetails bool   `mapstructure:"show_details" yaml:"show_details" json:"show_details"`
}

// PerformanceConfig holds parallelism settings.
type PerformanceConfig struct {
	MaxGoroutines int `mapstructure:"max_goroutines" yaml:"max_goroutines" json:"max_goroutines"`
}

// DefaultClusteringConfig returns the default configuration.
func DefaultClusteringConfig() *ClusteringConfig {
	return &ClusteringConfig{
		Clustering: CoreConfig{
			Enabled:   true,
			Metric:    "avg",
			Algorithm: "spectral",
		},
		Agglomerative: AgglomerativeConfig{
			Threshold: constants.DefaultAgglomerativeThreshold,
			Linkage:   "average",
		},
		Spectral: SpectralConfig{
			Bandwidth:        constants.DefaultSpectralBandwidth,
			Noise:            constants.DefaultSpectralNoise,
			MinRuns:          constants.DefaultSpectralMinRuns,
			MaxRuns:          constants.DefaultSpectralMaxRuns,
			KMeansIterations: constants.DefaultKMeansIterations,
			Seed:             constants.DefaultSpectralSeed,
		},
		Preprocessing: PreprocessingConfig{
			Mode:       "cdf",
			Percentile: constants.DefaultPreprocessorPercentile,
			Threshold:  constants.DefaultPreprocessorThreshold,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Performance: PerformanceConfig{
			MaxGoroutines: 0, // NumCPU
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *ClusteringConfig) Validate() error {
	switch c.Clustering.Metric {
	case "avg", "max", "min", "intersection":
	default:
		return fmt.Errorf("invalid metric: %q", c.Clustering.Metric)
	}

	switch c.Clustering.Algorithm {
	case "agglomerative", "spectral":
	default:
		return fmt.Errorf("invalid algorithm: %q", c.Clustering.Algorithm)
	}

	if c.Agglomerative.Threshold < 0.0 || c.Agglomerative.Threshold > 1.0 {
		return fmt.Errorf("agglomerative threshold must be between 0.0 and 1.0, got %g", c.Agglomerative.Threshold)
	}

	switch c.Agglomerative.Linkage {
	case "min", "max", "average":
	default:
		return fmt.Errorf("invalid linkage: %q", c.Agglomerative.Linkage)
	}

	if c.Spectral.Bandwidth <= 0 {
		return fmt.Errorf("spectral bandwidth must be positive, got %g", c.Spectral.Bandwidth)
	}

	if c.Spectral.Noise < 0 {
		return fmt.Errorf("spectral noise must be non-negative, got %g", c.Spectral.Noise)
	}

	if c.Spectral.MinRuns < 1 {
		return fmt.Errorf("spectral min_runs must be >= 1, got %d", c.Spectral.MinRuns)
	}

	if c.Spectral.MaxRuns < c.Spectral.MinRuns {
		return fmt.Errorf("spectral max_runs (%d) must be >= min_runs (%d)", c.Spectral.MaxRuns, c.Spectral.MinRuns)
	}

	if c.Spectral.KMeansIterations < 1 {
		return fmt.Errorf("spectral kmeans_iterations must be >= 1, got %d", c.Spectral.KMeansIterations)
	}

	switch c.Preprocessing.Mode {
	case "none", "cdf", "percentile", "threshold":
	default:
		return fmt.Errorf("invalid preprocessing mode: %q", c.Preprocessing.Mode)
	}

	if c.Preprocessing.Percentile < 0.0 || c.Preprocessing.Percentile > 1.0 {
		return fmt.Errorf("preprocessing percentile must be between 0.0 and 1.0, got %g", c.Preprocessing.Percentile)
	}

	switch c.Output.Format {
	case "text", "json", "yaml", "csv":
	default:
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}

	return nil
}
