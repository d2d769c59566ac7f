package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CDFPreprocessor rescales each entry s to s·F̂(s), where F̂ is a
// kernel-smoothed estimate of the empirical cumulative distribution function
// over all off-diagonal entries. Low similarities sit low in the distribution
// and are suppressed relatively more than high ones, which keeps the long tail
// of spurious small similarities from dominating the spectral embedding.
type CDFPreprocessor struct{}

func NewCDFPreprocessor() *CDFPreprocessor { return &CDFPreprocessor{} }

func (p *CDFPreprocessor) GetName() string { return "CDF" }

func (p *CDFPreprocessor) Process(matrix *SimilarityMatrix) *SimilarityMatrix {
	values := matrix.OffDiagonal()
	if len(values) == 0 {
		return matrix.Clone()
	}

	cdf := newSmoothedCDF(values)

	n := matrix.Size()
	out := NewSimilarityMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := matrix.At(i, j)
			out.set(i, j, v*cdf.At(v))
		}
	}
	return out
}

// smoothedCDF is a Gaussian-kernel estimate of the empirical CDF of a sample.
// With a zero-spread sample the kernel bandwidth collapses, so it degenerates
// to the rank-based empirical CDF.
type smoothedCDF struct {
	sample    []float64 // sorted
	bandwidth float64
}

func newSmoothedCDF(sample []float64) *smoothedCDF {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	// Silverman's rule of thumb.
	sigma := math.Sqrt(stat.Variance(sorted, nil))
	bandwidth := 1.06 * sigma * math.Pow(float64(len(sorted)), -0.2)

	return &smoothedCDF{sample: sorted, bandwidth: bandwidth}
}

// At evaluates the estimated CDF at x.
func (c *smoothedCDF) At(x float64) float64 {
	if c.bandwidth <= 0 {
		// Rank-based fallback for constant samples.
		rank := sort.SearchFloat64s(c.sample, math.Nextafter(x, math.Inf(1)))
		return float64(rank) / float64(len(c.sample))
	}

	normal := distuv.UnitNormal
	sum := 0.0
	for _, s := range c.sample {
		sum += normal.CDF((x - s) / c.bandwidth)
	}
	return sum / float64(len(c.sample))
}
