package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgglomerativeTwoPairs(t *testing.T) {
	// Two tight pairs, weak cross similarities.
	m := testMatrix(0.9, 0.1, 0.05, 0.1, 0.05, 0.9)

	strategy := NewAgglomerativeClustering(0.5, LinkageAverage)
	partition, err := strategy.Cluster(m)
	require.NoError(t, err)
	require.Len(t, partition, 4)

	assert.Equal(t, partition[0], partition[1], "0 and 1 should share a cluster")
	assert.Equal(t, partition[2], partition[3], "2 and 3 should share a cluster")
	assert.NotEqual(t, partition[0], partition[2], "no cluster should contain all four")
}

func TestAgglomerativeDeterminism(t *testing.T) {
	m := testMatrix(0.9, 0.3, 0.2, 0.7, 0.4, 0.8)

	strategy := NewAgglomerativeClustering(0.25, LinkageAverage)
	first, err := strategy.Cluster(m)
	require.NoError(t, err)
	second, err := strategy.Cluster(m)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAgglomerativeThresholdMonotonicity(t *testing.T) {
	m := testMatrix(0.9, 0.3, 0.2, 0.7, 0.4, 0.8)

	countClusters := func(p Partition) int { return len(p.Groups()) }
	maxSize := func(p Partition) int {
		best := 0
		for _, members := range p.Groups() {
			if len(members) > best {
				best = len(members)
			}
		}
		return best
	}

	prevClusters, prevMax := 0, 0
	for i, threshold := range []float64{0.1, 0.35, 0.75, 0.95} {
		partition, err := NewAgglomerativeClustering(threshold, LinkageAverage).Cluster(m)
		require.NoError(t, err)
		if i > 0 {
			assert.GreaterOrEqual(t, countClusters(partition), prevClusters,
				"raising the threshold must not decrease the cluster count")
			assert.LessOrEqual(t, maxSize(partition), prevMax,
				"raising the threshold must not grow any cluster")
		}
		prevClusters = countClusters(partition)
		prevMax = maxSize(partition)
	}
}

func TestAgglomerativeLinkages(t *testing.T) {
	// Chain 0-1-2: adjacent links strong, 0-2 weak. Complete linkage (min)
	// refuses to absorb 2 once {0,1} exists; single linkage (max) chains.
	m := NewSimilarityMatrix(3)
	m.set(0, 1, 0.9)
	m.set(1, 2, 0.85)
	m.set(0, 2, 0.1)

	single, err := NewAgglomerativeClustering(0.5, LinkageMax).Cluster(m)
	require.NoError(t, err)
	assert.Equal(t, single[0], single[2], "single linkage should chain the three")

	complete, err := NewAgglomerativeClustering(0.5, LinkageMin).Cluster(m)
	require.NoError(t, err)
	assert.Equal(t, complete[0], complete[1])
	assert.NotEqual(t, complete[0], complete[2], "complete linkage should reject the chain")
}

func TestAgglomerativeAllZeroMatrix(t *testing.T) {
	partition, err := NewAgglomerativeClustering(0.0, LinkageAverage).Cluster(NewSimilarityMatrix(5))
	require.NoError(t, err)

	// Zero similarity never exceeds the threshold: all singletons.
	assert.Len(t, partition.Groups(), 5)
}

func TestAgglomerativeEmptyMatrix(t *testing.T) {
	partition, err := NewAgglomerativeClustering(0.2, LinkageAverage).Cluster(NewSimilarityMatrix(0))
	require.NoError(t, err)
	assert.Empty(t, partition)
}

func TestAgglomerativePartitionCoversEveryIndexOnce(t *testing.T) {
	m := testMatrix(0.9, 0.3, 0.2, 0.7, 0.4, 0.8)
	partition, err := NewAgglomerativeClustering(0.3, LinkageAverage).Cluster(m)
	require.NoError(t, err)

	require.Len(t, partition, 4)
	total := 0
	for _, members := range partition.Groups() {
		assert.NotEmpty(t, members)
		total += len(members)
	}
	assert.Equal(t, 4, total)
}
