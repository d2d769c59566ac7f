package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/simcluster/domain"
	"github.com/ludo-technologies/simcluster/service"
)

func pairRequest(out *bytes.Buffer) *domain.ClusteringRequest {
	req := domain.DefaultClusteringRequest()
	req.Algorithm = domain.AlgorithmAgglomerative
	req.Preprocessor = domain.PreprocessorNone
	req.AgglomerativeThreshold = 0.5
	req.OutputFormat = domain.OutputFormatText
	req.OutputWriter = out
	req.Comparisons = []domain.ComparisonRecord{
		{SubmissionA: "a", SubmissionB: "b", SizeA: 100, SizeB: 100, MatchedTokens: 90},
		{SubmissionA: "a", SubmissionB: "c", SizeA: 100, SizeB: 100, MatchedTokens: 5},
		{SubmissionA: "b", SubmissionB: "c", SizeA: 100, SizeB: 100, MatchedTokens: 5},
	}
	return req
}

func newUseCase() *ClusteringUseCase {
	return NewClusteringUseCase(
		service.NewClusteringService(nil),
		service.NewClusteringFormatter(false),
		service.NewNoOpProgressReporter(),
	)
}

func TestUseCaseExecute(t *testing.T) {
	var out bytes.Buffer
	err := newUseCase().Execute(context.Background(), pairRequest(&out))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "a, b")
	assert.Contains(t, out.String(), "Submissions analyzed: 3")
}

func TestUseCaseExecuteInvalidRequest(t *testing.T) {
	var out bytes.Buffer
	req := pairRequest(&out)
	req.Metric = domain.Metric("cosine")

	err := newUseCase().Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestUseCaseExecuteMissingWriter(t *testing.T) {
	req := pairRequest(&bytes.Buffer{})
	req.OutputWriter = nil

	err := newUseCase().Execute(context.Background(), req)
	assert.Error(t, err)
}

func TestUseCaseExecuteNilRequest(t *testing.T) {
	err := newUseCase().Execute(context.Background(), nil)
	assert.Error(t, err)
}
