package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClusteringStrategy(t *testing.T) {
	tests := []struct {
		name         string
		algorithm    AlgorithmMode
		preprocessor PreprocessorMode
		expected     string
	}{
		{"bare agglomerative", AlgorithmModeAgglomerative, PreprocessorModeNone, "Agglomerative"},
		{"bare spectral", AlgorithmModeSpectral, PreprocessorModeNone, "Spectral"},
		{"wrapped agglomerative", AlgorithmModeAgglomerative, PreprocessorModeThreshold, "Agglomerative (Threshold)"},
		{"wrapped spectral", AlgorithmModeSpectral, PreprocessorModeCDF, "Spectral (CDF)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultClusteringOptions()
			opts.Algorithm = tt.algorithm
			opts.Preprocessor = tt.preprocessor
			strategy := CreateClusteringStrategy(opts)
			require.NotNil(t, strategy)
			assert.Equal(t, tt.expected, strategy.GetName())
		})
	}
}

func TestPreprocessedStrategyLeavesInputUntouched(t *testing.T) {
	m := testMatrix(0.9, 0.1, 0.05, 0.1, 0.05, 0.9)
	before := m.Clone()

	opts := DefaultClusteringOptions()
	opts.Algorithm = AlgorithmModeAgglomerative
	opts.AgglomerativeThreshold = 0.5
	opts.Preprocessor = PreprocessorModeThreshold
	opts.ThresholdCutoff = 0.2

	_, err := CreateClusteringStrategy(opts).Cluster(m)
	require.NoError(t, err)

	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			assert.Equal(t, before.At(i, j), m.At(i, j), "input matrix was mutated at (%d,%d)", i, j)
		}
	}
}

func TestPreprocessedStrategySuppressesWeakLinks(t *testing.T) {
	// Single linkage would chain 0-1-2 through the medium 1-2 edge; a
	// threshold preprocessor at 0.6 removes it first.
	m := NewSimilarityMatrix(3)
	m.set(0, 1, 0.9)
	m.set(1, 2, 0.5)
	m.set(0, 2, 0.1)

	opts := DefaultClusteringOptions()
	opts.Algorithm = AlgorithmModeAgglomerative
	opts.Linkage = LinkageMax
	opts.AgglomerativeThreshold = 0.3
	opts.Preprocessor = PreprocessorModeNone

	bare, err := CreateClusteringStrategy(opts).Cluster(m)
	require.NoError(t, err)
	assert.Equal(t, bare[0], bare[2], "without preprocessing the chain links up")

	opts.Preprocessor = PreprocessorModeThreshold
	opts.ThresholdCutoff = 0.6
	wrapped, err := CreateClusteringStrategy(opts).Cluster(m)
	require.NoError(t, err)
	assert.Equal(t, wrapped[0], wrapped[1])
	assert.NotEqual(t, wrapped[0], wrapped[2], "preprocessing should break the weak link")
}

func TestPartitionGroups(t *testing.T) {
	p := Partition{0, 2, 0, 2, 5}
	groups := p.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, []int{0, 2}, groups[0])
	assert.Equal(t, []int{1, 3}, groups[2])
	assert.Equal(t, []int{4}, groups[5])
}
