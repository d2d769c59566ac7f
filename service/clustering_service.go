package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ludo-technologies/simcluster/domain"
	"github.com/ludo-technologies/simcluster/internal/analyzer"
)

// ClusteringService implements the domain.ClusteringService interface.
type ClusteringService struct {
	progress domain.ProgressReporter
}

// NewClusteringService creates a new clustering service.
// progress can be nil - the service can work without progress reporting.
func NewClusteringService(progress domain.ProgressReporter) *ClusteringService {
	return &ClusteringService{progress: progress}
}

// Clusterize runs the full pipeline: similarity matrix, preprocessor,
// algorithm, strength scoring. The caller always receives either a well-formed
// (possibly empty) response or a configuration/consistency error; numerical
// best-effort fallbacks surface as warnings on the response, never as errors.
func (s *ClusteringService) Clusterize(ctx context.Context, req *domain.ClusteringRequest) (*domain.ClusteringResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("clustering request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	if !req.Enabled {
		return emptyResponse(0, startTime), nil
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("clustering cancelled: %w", ctx.Err())
	default:
	}

	comparisons := make([]analyzer.Comparison, len(req.Comparisons))
	for i, c := range req.Comparisons {
		comparisons[i] = analyzer.Comparison{
			SubmissionA:   c.SubmissionA,
			SubmissionB:   c.SubmissionB,
			SizeA:         c.SizeA,
			SizeB:         c.SizeB,
			MatchedTokens: c.MatchedTokens,
		}
	}

	matrix, index, err := analyzer.BuildSimilarityMatrix(comparisons, analyzerMetric(req.Metric))
	if err != nil {
		var inconsistency *analyzer.InconsistencyError
		if errors.As(err, &inconsistency) {
			return nil, domain.NewInconsistentInputError(inconsistency.Error(), nil)
		}
		return nil, domain.NewConfigurationError("building similarity matrix", err)
	}

	// Fewer than two submissions or no similarity signal at all: nothing to
	// cluster, by design not an error.
	if index.Len() < 2 || matrix.IsZero() {
		return emptyResponse(index.Len(), startTime), nil
	}

	var warnings []string
	options := s.analyzerOptions(req, func(message string) {
		warnings = append(warnings, message)
		if s.progress != nil {
			s.progress.Warn(message)
		}
	})

	strategy := analyzer.CreateClusteringStrategy(options)

	if s.progress != nil && req.Algorithm == domain.AlgorithmSpectral {
		s.progress.StartProgress(req.SpectralMaxRuns)
		options.Progress = s.progress.UpdateProgress
		defer s.progress.FinishProgress()
	}

	partition, err := strategy.Cluster(matrix)
	if err != nil {
		return nil, domain.NewAnalysisError(fmt.Sprintf("%s clustering failed", strategy.GetName()), err)
	}

	// Strength scores are computed on the original matrix so they stay
	// comparable across algorithm and preprocessor choices.
	scored := analyzer.ScoreClusters(partition, matrix)

	clusters := make([]*domain.Cluster, len(scored))
	for i, sc := range scored {
		members := make([]string, len(sc.Members))
		for j, idx := range sc.Members {
			members[j] = index.ID(idx)
		}
		clusters[i] = &domain.Cluster{ID: i, Members: members, Strength: sc.Strength}
	}

	return &domain.ClusteringResponse{
		Clusters:   clusters,
		Statistics: buildStatistics(index.Len(), clusters),
		Warnings:   warnings,
		Duration:   time.Since(startTime).Milliseconds(),
	}, nil
}

// analyzerOptions maps the domain request onto the engine options.
func (s *ClusteringService) analyzerOptions(req *domain.ClusteringRequest, warn func(string)) *analyzer.ClusteringOptions {
	return &analyzer.ClusteringOptions{
		Metric:                 analyzerMetric(req.Metric),
		Algorithm:              analyzer.AlgorithmMode(req.Algorithm),
		Preprocessor:           analyzer.PreprocessorMode(req.Preprocessor),
		PercentileCutoff:       req.PreprocessorPercentile,
		ThresholdCutoff:        req.PreprocessorThreshold,
		AgglomerativeThreshold: req.AgglomerativeThreshold,
		Linkage:                analyzer.LinkageMethod(req.AgglomerativeLinkage),
		Bandwidth:              req.SpectralBandwidth,
		Noise:                  req.SpectralNoise,
		MinRuns:                req.SpectralMinRuns,
		MaxRuns:                req.SpectralMaxRuns,
		KMeansIterations:       req.SpectralKMeansIterations,
		Seed:                   req.SpectralSeed,
		MaxGoroutines:          req.MaxGoroutines,
		Warn:                   warn,
	}
}

func analyzerMetric(m domain.Metric) analyzer.Metric {
	return analyzer.Metric(m)
}

func buildStatistics(totalSubmissions int, clusters []*domain.Cluster) *domain.ClusteringStatistics {
	stats := &domain.ClusteringStatistics{
		TotalSubmissions: totalSubmissions,
		TotalClusters:    len(clusters),
	}
	if len(clusters) == 0 {
		return stats
	}

	// Clusters arrive sorted by descending strength.
	stats.MaxStrength = clusters[0].Strength
	sum := 0.0
	for _, c := range clusters {
		stats.ClusteredSubmissions += len(c.Members)
		sum += c.Strength
	}
	stats.AverageStrength = sum / float64(len(clusters))
	return stats
}

func emptyResponse(totalSubmissions int, startTime time.Time) *domain.ClusteringResponse {
	return &domain.ClusteringResponse{
		Clusters:   []*domain.Cluster{},
		Statistics: &domain.ClusteringStatistics{TotalSubmissions: totalSubmissions},
		Duration:   time.Since(startTime).Milliseconds(),
	}
}
