package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/simcluster/domain"
)

func sampleResponse() *domain.ClusteringResponse {
	return &domain.ClusteringResponse{
		Clusters: []*domain.Cluster{
			{ID: 0, Members: []string{"a", "b"}, Strength: 0.8},
			{ID: 1, Members: []string{"c", "d", "e"}, Strength: 0.55},
		},
		Statistics: &domain.ClusteringStatistics{
			TotalSubmissions:     10,
			TotalClusters:        2,
			ClusteredSubmissions: 5,
			AverageStrength:      0.675,
			MaxStrength:          0.8,
		},
		Warnings: []string{"cluster-count search stopped early, keeping best of 5 runs"},
		Duration: 12,
	}
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(sampleResponse(), domain.OutputFormatText, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Cluster 0 (strength 0.800, 2 submissions)")
	assert.Contains(t, out, "a, b")
	assert.Contains(t, out, "Submissions analyzed: 10")
	assert.Contains(t, out, "Warning: cluster-count search stopped early")
}

func TestFormatTextWithDetails(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(true).Format(sampleResponse(), domain.OutputFormatText, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "  - a\n  - b\n")
}

func TestFormatTextEmpty(t *testing.T) {
	resp := &domain.ClusteringResponse{
		Clusters:   []*domain.Cluster{},
		Statistics: &domain.ClusteringStatistics{TotalSubmissions: 3},
	}

	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(resp, domain.OutputFormatText, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No suspicious clusters found")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(sampleResponse(), domain.OutputFormatJSON, &buf)
	require.NoError(t, err)

	var decoded domain.ClusteringResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Clusters, 2)
	assert.Equal(t, []string{"a", "b"}, decoded.Clusters[0].Members)
	assert.InDelta(t, 0.8, decoded.Statistics.MaxStrength, 1e-9)
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(sampleResponse(), domain.OutputFormatYAML, &buf)
	require.NoError(t, err)

	var decoded domain.ClusteringResponse
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Clusters, 2)
	assert.Equal(t, []string{"c", "d", "e"}, decoded.Clusters[1].Members)
}

func TestFormatCSV(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(sampleResponse(), domain.OutputFormatCSV, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"cluster_id", "strength", "size", "members"}, records[0])
	assert.Equal(t, "a;b", records[1][3])
	assert.Equal(t, "3", records[2][2])
}

func TestFormatUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(sampleResponse(), domain.OutputFormat("xml"), &buf)
	assert.Error(t, err)
}

func TestFormatNilResponse(t *testing.T) {
	var buf bytes.Buffer
	err := NewClusteringFormatter(false).Format(nil, domain.OutputFormatText, &buf)
	assert.Error(t, err)
}
