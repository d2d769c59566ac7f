package analyzer

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Preprocessor transforms a similarity matrix before clustering. Transforms
// are pure: the input matrix is never mutated.
type Preprocessor interface {
	// Process returns the transformed matrix.
	Process(matrix *SimilarityMatrix) *SimilarityMatrix
	// GetName returns the preprocessor name.
	GetName() string
}

// CreatePreprocessor creates a preprocessor based on the configured mode.
func CreatePreprocessor(options *ClusteringOptions) Preprocessor {
	switch options.Preprocessor {
	case PreprocessorModeCDF:
		return NewCDFPreprocessor()
	case PreprocessorModePercentile:
		return NewPercentilePreprocessor(options.PercentileCutoff)
	case PreprocessorModeThreshold:
		return NewThresholdPreprocessor(options.ThresholdCutoff)
	case PreprocessorModeNone:
		fallthrough
	default:
		return NewNonePreprocessor()
	}
}

// NonePreprocessor is the identity transform.
type NonePreprocessor struct{}

func NewNonePreprocessor() *NonePreprocessor { return &NonePreprocessor{} }

func (p *NonePreprocessor) GetName() string { return "None" }

func (p *NonePreprocessor) Process(matrix *SimilarityMatrix) *SimilarityMatrix {
	return matrix.Clone()
}

// ThresholdPreprocessor zeroes out every entry below a fixed cutoff.
type ThresholdPreprocessor struct {
	cutoff float64
}

func NewThresholdPreprocessor(cutoff float64) *ThresholdPreprocessor {
	return &ThresholdPreprocessor{cutoff: cutoff}
}

func (p *ThresholdPreprocessor) GetName() string { return "Threshold" }

func (p *ThresholdPreprocessor) Process(matrix *SimilarityMatrix) *SimilarityMatrix {
	return suppressBelow(matrix, p.cutoff)
}

// PercentilePreprocessor zeroes out every entry below the configured
// percentile of all off-diagonal entries.
type PercentilePreprocessor struct {
	percentile float64
}

func NewPercentilePreprocessor(percentile float64) *PercentilePreprocessor {
	return &PercentilePreprocessor{percentile: percentile}
}

func (p *PercentilePreprocessor) GetName() string { return "Percentile" }

func (p *PercentilePreprocessor) Process(matrix *SimilarityMatrix) *SimilarityMatrix {
	values := matrix.OffDiagonal()
	if len(values) == 0 {
		return matrix.Clone()
	}
	sort.Float64s(values)
	cutoff := stat.Quantile(p.percentile, stat.Empirical, values, nil)
	return suppressBelow(matrix, cutoff)
}

// suppressBelow returns a copy of the matrix with entries below cutoff zeroed.
func suppressBelow(matrix *SimilarityMatrix, cutoff float64) *SimilarityMatrix {
	n := matrix.Size()
	out := NewSimilarityMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v := matrix.At(i, j); v >= cutoff {
				out.set(i, j, v)
			}
		}
	}
	return out
}
