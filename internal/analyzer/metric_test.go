package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateMetric(t *testing.T) {
	tests := []struct {
		name     string
		metric   Metric
		sizeA    int
		sizeB    int
		matched  int
		expected float64
	}{
		{"avg identical", MetricAvg, 10, 10, 10, 1.0},
		{"avg half", MetricAvg, 10, 10, 5, 0.5},
		{"avg uneven sizes", MetricAvg, 30, 10, 10, 0.5},
		{"max uses smaller set", MetricMax, 30, 10, 10, 1.0},
		{"min uses larger set", MetricMin, 30, 10, 10, 1.0 / 3.0},
		{"intersection raw count", MetricIntersection, 30, 10, 7, 7.0},
		{"no overlap", MetricAvg, 10, 10, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateMetric(tt.metric, tt.sizeA, tt.sizeB, tt.matched)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestEvaluateMetricOrdering(t *testing.T) {
	// For any input, MIN <= AVG <= MAX.
	cases := [][3]int{{10, 10, 5}, {30, 10, 7}, {100, 3, 2}, {5, 5, 5}}
	for _, c := range cases {
		minV, err := EvaluateMetric(MetricMin, c[0], c[1], c[2])
		require.NoError(t, err)
		avgV, err := EvaluateMetric(MetricAvg, c[0], c[1], c[2])
		require.NoError(t, err)
		maxV, err := EvaluateMetric(MetricMax, c[0], c[1], c[2])
		require.NoError(t, err)

		assert.LessOrEqual(t, minV, avgV, "min should not exceed avg for %v", c)
		assert.LessOrEqual(t, avgV, maxV, "avg should not exceed max for %v", c)
		assert.GreaterOrEqual(t, minV, 0.0)
		assert.LessOrEqual(t, maxV, 1.0)
	}
}

func TestEvaluateMetricDegenerateSizes(t *testing.T) {
	_, err := EvaluateMetric(MetricAvg, 0, 0, 0)
	assert.Error(t, err)

	_, err = EvaluateMetric(MetricMax, 0, 10, 0)
	assert.Error(t, err)

	_, err = EvaluateMetric(MetricMin, 0, 0, 0)
	assert.Error(t, err)

	// Intersection has no size precondition.
	v, err := EvaluateMetric(MetricIntersection, 0, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEvaluateMetricUnknown(t *testing.T) {
	_, err := EvaluateMetric(Metric("cosine"), 10, 10, 5)
	assert.Error(t, err)
}
