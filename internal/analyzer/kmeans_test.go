package analyzer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKMeansSeparatedGroups(t *testing.T) {
	points := [][]float64{
		{0.0, 0.1}, {0.1, 0.0}, {0.05, 0.05},
		{5.0, 5.1}, {5.1, 5.0}, {5.05, 5.05},
	}

	result := runKMeans(points, 2, 100, rand.New(rand.NewSource(1)))
	require.Len(t, result.assignments, 6)

	assert.Equal(t, result.assignments[0], result.assignments[1])
	assert.Equal(t, result.assignments[1], result.assignments[2])
	assert.Equal(t, result.assignments[3], result.assignments[4])
	assert.Equal(t, result.assignments[4], result.assignments[5])
	assert.NotEqual(t, result.assignments[0], result.assignments[3])
	assert.Less(t, result.sse, 0.1)
}

func TestRunKMeansDeterministicWithSeed(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.2, 0.1}, {1, 1}, {1.1, 0.9}, {5, 5}, {5.2, 5.1},
	}

	first := runKMeans(points, 3, 100, rand.New(rand.NewSource(42)))
	second := runKMeans(points, 3, 100, rand.New(rand.NewSource(42)))

	assert.Equal(t, first.assignments, second.assignments)
	assert.Equal(t, first.sse, second.sse)
}

func TestRunKMeansIterationCap(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}}
	result := runKMeans(points, 2, 1, rand.New(rand.NewSource(1)))
	assert.LessOrEqual(t, result.iterations, 1)
}

func TestRunKMeansMoreClustersThanPoints(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}}
	result := runKMeans(points, 5, 100, rand.New(rand.NewSource(1)))
	require.Len(t, result.assignments, 2)
	assert.InDelta(t, 0.0, result.sse, 1e-12)
}

func TestRunKMeansEmptyInput(t *testing.T) {
	result := runKMeans(nil, 3, 100, rand.New(rand.NewSource(1)))
	assert.Empty(t, result.assignments)
}

func TestRunKMeansIdenticalPoints(t *testing.T) {
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	result := runKMeans(points, 2, 100, rand.New(rand.NewSource(1)))
	require.Len(t, result.assignments, 4)
	assert.InDelta(t, 0.0, result.sse, 1e-12)
}
