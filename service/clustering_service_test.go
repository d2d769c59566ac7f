package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/simcluster/domain"
)

// twoPairComparisons describes four submissions forming two tight pairs
// (a,b) and (c,d) with weak cross-pair similarity.
func twoPairComparisons() []domain.ComparisonRecord {
	pairs := []struct {
		a, b    string
		matched int
	}{
		{"a", "b", 90},
		{"c", "d", 90},
		{"a", "c", 10},
		{"a", "d", 10},
		{"b", "c", 10},
		{"b", "d", 10},
	}

	records := make([]domain.ComparisonRecord, len(pairs))
	for i, p := range pairs {
		records[i] = domain.ComparisonRecord{
			SubmissionA:   p.a,
			SubmissionB:   p.b,
			SizeA:         100,
			SizeB:         100,
			MatchedTokens: p.matched,
		}
	}
	return records
}

func agglomerativeRequest(comparisons []domain.ComparisonRecord) *domain.ClusteringRequest {
	req := domain.DefaultClusteringRequest()
	req.Comparisons = comparisons
	req.Algorithm = domain.AlgorithmAgglomerative
	req.Preprocessor = domain.PreprocessorNone
	req.AgglomerativeThreshold = 0.5
	req.AgglomerativeLinkage = domain.LinkageAverage
	return req
}

func TestClusterizeTwoPairScenario(t *testing.T) {
	svc := NewClusteringService(nil)

	resp, err := svc.Clusterize(context.Background(), agglomerativeRequest(twoPairComparisons()))
	require.NoError(t, err)
	require.Len(t, resp.Clusters, 2)

	assert.Equal(t, []string{"a", "b"}, resp.Clusters[0].Members)
	assert.Equal(t, []string{"c", "d"}, resp.Clusters[1].Members)
	assert.InDelta(t, 0.8, resp.Clusters[0].Strength, 1e-9)
	assert.InDelta(t, 0.8, resp.Clusters[1].Strength, 1e-9)

	stats := resp.Statistics
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.TotalSubmissions)
	assert.Equal(t, 2, stats.TotalClusters)
	assert.Equal(t, 4, stats.ClusteredSubmissions)
	assert.InDelta(t, 0.8, stats.AverageStrength, 1e-9)
	assert.InDelta(t, 0.8, stats.MaxStrength, 1e-9)
}

func TestClusterizeSpectralTwoPairScenario(t *testing.T) {
	req := agglomerativeRequest(twoPairComparisons())
	req.Algorithm = domain.AlgorithmSpectral
	req.SpectralMinRuns = 2
	req.SpectralMaxRuns = 4

	svc := NewClusteringService(NewNoOpProgressReporter())
	resp, err := svc.Clusterize(context.Background(), req)
	require.NoError(t, err)

	// The two tight pairs must never be split across clusters.
	cluster := make(map[string]int)
	for _, c := range resp.Clusters {
		for _, m := range c.Members {
			cluster[m] = c.ID
		}
	}
	if len(cluster) > 0 {
		assert.Equal(t, cluster["a"], cluster["b"])
		assert.Equal(t, cluster["c"], cluster["d"])
	}
}

func TestClusterizeDisabled(t *testing.T) {
	req := agglomerativeRequest(twoPairComparisons())
	req.Enabled = false

	svc := NewClusteringService(nil)
	resp, err := svc.Clusterize(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsEmpty())
	assert.Equal(t, 0, resp.Statistics.TotalSubmissions)
}

func TestClusterizeInconsistentInput(t *testing.T) {
	comparisons := twoPairComparisons()
	// Same pair reported with a contradicting match count.
	comparisons = append(comparisons, domain.ComparisonRecord{
		SubmissionA: "b", SubmissionB: "a", SizeA: 100, SizeB: 100, MatchedTokens: 20,
	})

	svc := NewClusteringService(nil)
	_, err := svc.Clusterize(context.Background(), agglomerativeRequest(comparisons))
	require.Error(t, err)
	assert.True(t, domain.IsInconsistentInputError(err))
}

func TestClusterizeDegenerateInputs(t *testing.T) {
	svc := NewClusteringService(nil)

	t.Run("no comparisons", func(t *testing.T) {
		resp, err := svc.Clusterize(context.Background(), agglomerativeRequest(nil))
		require.NoError(t, err)
		assert.True(t, resp.IsEmpty())
	})

	t.Run("single pair with zero similarity", func(t *testing.T) {
		resp, err := svc.Clusterize(context.Background(), agglomerativeRequest([]domain.ComparisonRecord{
			{SubmissionA: "a", SubmissionB: "b", SizeA: 100, SizeB: 100, MatchedTokens: 0},
		}))
		require.NoError(t, err)
		assert.True(t, resp.IsEmpty())
		assert.Equal(t, 2, resp.Statistics.TotalSubmissions)
	})
}

func TestClusterizeInvalidRequest(t *testing.T) {
	req := agglomerativeRequest(twoPairComparisons())
	req.Metric = domain.Metric("cosine")

	svc := NewClusteringService(nil)
	_, err := svc.Clusterize(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestClusterizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewClusteringService(nil)
	_, err := svc.Clusterize(ctx, agglomerativeRequest(twoPairComparisons()))
	assert.Error(t, err)
}

func TestClusterizeNilArguments(t *testing.T) {
	svc := NewClusteringService(nil)

	_, err := svc.Clusterize(nil, agglomerativeRequest(twoPairComparisons())) //nolint:staticcheck
	assert.Error(t, err)

	_, err = svc.Clusterize(context.Background(), nil)
	assert.Error(t, err)
}
