package service

import (
	"github.com/spf13/viper"

	"github.com/ludo-technologies/simcluster/domain"
	"github.com/ludo-technologies/simcluster/internal/config"
)

// ClusteringConfigurationLoader implements domain.ClusteringConfigurationLoader
// on top of the TOML config loader.
type ClusteringConfigurationLoader struct {
	loader *config.TomlConfigLoader
}

// NewClusteringConfigurationLoader creates a new configuration loader.
func NewClusteringConfigurationLoader() *ClusteringConfigurationLoader {
	return &ClusteringConfigurationLoader{loader: config.NewTomlConfigLoader()}
}

// LoadConfig loads a request template from the given configuration file. An
// empty path searches upward from the current directory for .simcluster.toml
// and falls back to defaults when none exists.
func (l *ClusteringConfigurationLoader) LoadConfig(configPath string) (*domain.ClusteringRequest, error) {
	var cfg *config.ClusteringConfig
	var err error

	if configPath == "" {
		cfg, err = l.loader.LoadConfig(".")
	} else {
		cfg, err = l.loader.LoadConfigFile(configPath)
	}
	if err != nil {
		return nil, domain.NewConfigurationError("loading clustering configuration", err)
	}

	req := requestFromConfig(cfg)
	req.ConfigPath = configPath
	return req, nil
}

// GetDefaultConfig returns the default request template.
func (l *ClusteringConfigurationLoader) GetDefaultConfig() *domain.ClusteringRequest {
	return requestFromConfig(config.DefaultClusteringConfig())
}

// SaveDefaultConfig writes the default configuration to a TOML file at path.
func (l *ClusteringConfigurationLoader) SaveDefaultConfig(path string) error {
	cfg := config.DefaultClusteringConfig()

	v := viper.New()
	v.Set("clustering", map[string]any{
		"enabled":   cfg.Clustering.Enabled,
		"metric":    cfg.Clustering.Metric,
		"algorithm": cfg.Clustering.Algorithm,
	})
	v.Set("agglomerative", map[string]any{
		"threshold": cfg.Agglomerative.Threshold,
		"linkage":   cfg.Agglomerative.Linkage,
	})
	v.Set("spectral", map[string]any{
		"bandwidth":         cfg.Spectral.Bandwidth,
		"noise":             cfg.Spectral.Noise,
		"min_runs":          cfg.Spectral.MinRuns,
		"max_runs":          cfg.Spectral.MaxRuns,
		"kmeans_iterations": cfg.Spectral.KMeansIterations,
		"seed":              cfg.Spectral.Seed,
	})
	v.Set("preprocessing", map[string]any{
		"mode":       cfg.Preprocessing.Mode,
		"percentile": cfg.Preprocessing.Percentile,
		"threshold":  cfg.Preprocessing.Threshold,
	})
	v.Set("output", map[string]any{
		"format":       cfg.Output.Format,
		"show_details": cfg.Output.ShowDetails,
	})
	v.Set("performance", map[string]any{
		"max_goroutines": cfg.Performance.MaxGoroutines,
	})

	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.WriteConfig(); err != nil {
		return domain.NewConfigurationError("writing configuration file", err)
	}
	return nil
}

func requestFromConfig(cfg *config.ClusteringConfig) *domain.ClusteringRequest {
	return &domain.ClusteringRequest{
		Enabled:      cfg.Clustering.Enabled,
		Metric:       domain.Metric(cfg.Clustering.Metric),
		Algorithm:    domain.Algorithm(cfg.Clustering.Algorithm),
		Preprocessor: domain.Preprocessor(cfg.Preprocessing.Mode),

		PreprocessorPercentile: cfg.Preprocessing.Percentile,
		PreprocessorThreshold:  cfg.Preprocessing.Threshold,

		AgglomerativeThreshold: cfg.Agglomerative.Threshold,
		AgglomerativeLinkage:   domain.Linkage(cfg.Agglomerative.Linkage),

		SpectralBandwidth:        cfg.Spectral.Bandwidth,
		SpectralNoise:            cfg.Spectral.Noise,
		SpectralMinRuns:          cfg.Spectral.MinRuns,
		SpectralMaxRuns:          cfg.Spectral.MaxRuns,
		SpectralKMeansIterations: cfg.Spectral.KMeansIterations,
		SpectralSeed:             cfg.Spectral.Seed,

		MaxGoroutines: cfg.Performance.MaxGoroutines,

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
	}
}
