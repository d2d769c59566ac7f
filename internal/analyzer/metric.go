package analyzer

import (
	"fmt"
)

// EvaluateMetric computes the similarity of two submissions from their
// token-set sizes and the size of their matched intersection.
//
// AVG, MAX and MIN yield values in [0,1] for well-formed inputs; INTERSECTION
// is the raw matched-token count and is not normalized. Degenerate sizes are
// rejected: empty submissions must be filtered out upstream.
func EvaluateMetric(metric Metric, sizeA, sizeB, matched int) (float64, error) {
	if sizeA < 0 || sizeB < 0 || matched < 0 {
		return 0, fmt.Errorf("negative token counts: |A|=%d |B|=%d |A∩B|=%d", sizeA, sizeB, matched)
	}

	switch metric {
	case MetricAvg:
		if sizeA+sizeB == 0 {
			return 0, fmt.Errorf("avg metric undefined for two empty submissions")
		}
		return 2.0 * float64(matched) / float64(sizeA+sizeB), nil
	case MetricMax:
		if minInt(sizeA, sizeB) == 0 {
			return 0, fmt.Errorf("max metric undefined for an empty submission")
		}
		return float64(matched) / float64(minInt(sizeA, sizeB)), nil
	case MetricMin:
		if maxInt(sizeA, sizeB) == 0 {
			return 0, fmt.Errorf("min metric undefined for two empty submissions")
		}
		return float64(matched) / float64(maxInt(sizeA, sizeB)), nil
	case MetricIntersection:
		return float64(matched), nil
	default:
		return 0, fmt.Errorf("unknown metric: %s", metric)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
