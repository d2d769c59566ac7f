package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// SimclusterTomlConfig represents the structure of .simcluster.toml. Numeric
// and boolean fields are pointers so unset values fall through to defaults.
type SimclusterTomlConfig struct {
	Clustering    TomlCoreConfig          `toml:"clustering"`
	Agglomerative TomlAgglomerativeConfig `toml:"agglomerative"`
	Spectral      TomlSpectralConfig      `toml:"spectral"`
	Preprocessing TomlPreprocessingConfig `toml:"preprocessing"`
	Output        TomlOutputConfig        `toml:"output"`
	Performance   TomlPerformanceConfig   `toml:"performance"`
}

type TomlCoreConfig struct {
	Enabled   *bool  `toml:"enabled"` // pointer to detect unset
	Metric    string `toml:"metric"`
	Algorithm string `toml:"algorithm"`
}

type TomlAgglomerativeConfig struct {
	Threshold *float64 `toml:"threshold"` // pointer to detect unset
	Linkage   string   `toml:"linkage"`
}

type TomlSpectralConfig struct {
	Bandwidth        *float64 `toml:"bandwidth"`
	Noise            *float64 `toml:"noise"`
	MinRuns          *int     `toml:"min_runs"`
	MaxRuns          *int     `toml:"max_runs"`
	KMeansIterations *int     `toml:"kmeans_iterations"`
	Seed             *int64   `toml:"seed"`
}

type TomlPreprocessingConfig struct {
	Mode       string   `toml:"mode"`
	Percentile *float64 `toml:"percentile"`
	Threshold  *float64 `toml:"threshold"`
}

type TomlOutputConfig struct {
	Format      string `toml:"format"`
	ShowDetails *bool  `toml:"show_details"` // pointer to detect unset
}

type TomlPerformanceConfig struct {
	MaxGoroutines *int `toml:"max_goroutines"`
}

// TomlConfigLoader handles TOML configuration loading.
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader.
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with the following priority:
// 1. .simcluster.toml found in startDir or any parent
// 2. defaults
func (l *TomlConfigLoader) LoadConfig(startDir string) (*ClusteringConfig, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultClusteringConfig(), nil
	}
	return l.LoadConfigFile(configPath)
}

// LoadConfigFile loads and validates a specific TOML configuration file,
// merged over the defaults.
func (l *TomlConfigLoader) LoadConfigFile(configPath string) (*ClusteringConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var fileConfig SimclusterTomlConfig
	if err := toml.Unmarshal(data, &fileConfig); err != nil {
		return nil, err
	}

	merged := DefaultClusteringConfig()
	l.merge(merged, &fileConfig)

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindConfigFile walks up the directory tree looking for .simcluster.toml.
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".simcluster.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// merge applies explicitly set file values over the defaults.
func (l *TomlConfigLoader) merge(defaults *ClusteringConfig, fileConfig *SimclusterTomlConfig) {
	if fileConfig.Clustering.Enabled != nil {
		defaults.Clustering.Enabled = *fileConfig.Clustering.Enabled
	}
	if fileConfig.Clustering.Metric != "" {
		defaults.Clustering.Metric = fileConfig.Clustering.Metric
	}
	if fileConfig.Clustering.Algorithm != "" {
		defaults.Clustering.Algorithm = fileConfig.Clustering.Algorithm
	}

	if fileConfig.Agglomerative.Threshold != nil {
		defaults.Agglomerative.Threshold = *fileConfig.Agglomerative.Threshold
	}
	if fileConfig.Agglomerative.Linkage != "" {
		defaults.Agglomerative.Linkage = fileConfig.Agglomerative.Linkage
	}

	if fileConfig.Spectral.Bandwidth != nil {
		defaults.Spectral.Bandwidth = *fileConfig.Spectral.Bandwidth
	}
	if fileConfig.Spectral.Noise != nil {
		defaults.Spectral.Noise = *fileConfig.Spectral.Noise
	}
	if fileConfig.Spectral.MinRuns != nil {
		defaults.Spectral.MinRuns = *fileConfig.Spectral.MinRuns
	}
	if fileConfig.Spectral.MaxRuns != nil {
		defaults.Spectral.MaxRuns = *fileConfig.Spectral.MaxRuns
	}
	if fileConfig.Spectral.KMeansIterations != nil {
		defaults.Spectral.KMeansIterations = *fileConfig.Spectral.KMeansIterations
	}
	if fileConfig.Spectral.Seed != nil {
		defaults.Spectral.Seed = *fileConfig.Spectral.Seed
	}

	if fileConfig.Preprocessing.Mode != "" {
		defaults.Preprocessing.Mode = fileConfig.Preprocessing.Mode
	}
	if fileConfig.Preprocessing.Percentile != nil {
		defaults.Preprocessing.Percentile = *fileConfig.Preprocessing.Percentile
	}
	if fileConfig.Preprocessing.Threshold != nil {
		defaults.Preprocessing.Threshold = *fileConfig.Preprocessing.Threshold
	}

	if fileConfig.Output.Format != "" {
		defaults.Output.Format = fileConfig.Output.Format
	}
	if fileConfig.Output.ShowDetails != nil {
		defaults.Output.ShowDetails = *fileConfig.Output.ShowDetails
	}

	if fileConfig.Performance.MaxGoroutines != nil {
		defaults.Performance.MaxGoroutines = *fileConfig.Performance.MaxGoroutines
	}
}
