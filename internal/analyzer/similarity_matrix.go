package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// floatTolerance is used when comparing similarity values for equality.
const floatTolerance = 1e-9

// InconsistencyError reports conflicting similarity values for the same
// submission pair, an upstream invariant violation that aborts the build.
type InconsistencyError struct {
	SubmissionA string
	SubmissionB string
	First       float64
	Second      float64
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("conflicting similarity values for pair %s <-> %s: %g vs %g",
		e.SubmissionA, e.SubmissionB, e.First, e.Second)
}

// Comparison is one pairwise comparison record from the upstream comparison
// stage, naming two submissions and the data needed to evaluate a metric.
type Comparison struct {
	SubmissionA   string
	SubmissionB   string
	SizeA         int
	SizeB         int
	MatchedTokens int
}

// IndexMap is the bijection between opaque submission identifiers and their
// row/column indices in the similarity matrix. It is built once per run in
// first-seen order and immutable afterwards.
type IndexMap struct {
	indices map[string]int
	ids     []string
}

func newIndexMap() *IndexMap {
	return &IndexMap{indices: make(map[string]int)}
}

// add returns the index for id, assigning the next free index on first sight.
func (im *IndexMap) add(id string) int {
	if idx, ok := im.indices[id]; ok {
		return idx
	}
	idx := len(im.ids)
	im.indices[id] = idx
	im.ids = append(im.ids, id)
	return idx
}

// Index returns the matrix index of the given submission identifier.
func (im *IndexMap) Index(id string) (int, bool) {
	idx, ok := im.indices[id]
	return idx, ok
}

// ID returns the submission identifier at the given matrix index.
func (im *IndexMap) ID(index int) string {
	return im.ids[index]
}

// Len returns the number of distinct submissions.
func (im *IndexMap) Len() int {
	return len(im.ids)
}

// SimilarityMatrix is a dense symmetric matrix of pairwise similarities over
// submission indices 0..n-1. The diagonal is unused. Once built it is treated
// as immutable and may be shared read-only across goroutines; transforms
// always produce a fresh matrix.
type SimilarityMatrix struct {
	sym *mat.SymDense
}

// NewSimilarityMatrix allocates an n×n zero matrix. n == 0 is legal: an empty
// comparison set yields an empty matrix, not a panic in the gonum allocator.
func NewSimilarityMatrix(n int) *SimilarityMatrix {
	if n == 0 {
		return &SimilarityMatrix{}
	}
	return &SimilarityMatrix{sym: mat.NewSymDense(n, nil)}
}

// Size returns the number of submissions n.
func (m *SimilarityMatrix) Size() int {
	if m.sym == nil {
		return 0
	}
	n, _ := m.sym.Dims()
	return n
}

// At returns the similarity between submissions i and j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.sym.At(i, j)
}

// set writes a similarity symmetrically.
func (m *SimilarityMatrix) set(i, j int, v float64) {
	m.sym.SetSym(i, j, v)
}

// Clone returns an independent copy of the matrix.
func (m *SimilarityMatrix) Clone() *SimilarityMatrix {
	n := m.Size()
	c := NewSimilarityMatrix(n)
	if n > 0 {
		c.sym.CopySym(m.sym)
	}
	return c
}

// OffDiagonal returns all entries above the diagonal in row-major order,
// one per unordered submission pair.
func (m *SimilarityMatrix) OffDiagonal() []float64 {
	n := m.Size()
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, m.sym.At(i, j))
		}
	}
	return out
}

// IsZero reports whether every off-diagonal entry is zero.
func (m *SimilarityMatrix) IsZero() bool {
	n := m.Size()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m.sym.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// RawSymmetric exposes the underlying gonum matrix for read-only numerical
// work (spectral embedding). Callers must not mutate it.
func (m *SimilarityMatrix) RawSymmetric() *mat.SymDense {
	return m.sym
}

// BuildSimilarityMatrix converts comparison records into a similarity matrix
// under the given metric, together with the identity-index map built in
// first-seen order. Pairs without a comparison record stay at the neutral
// lowest value 0. Conflicting values for the same pair abort the build: they
// indicate an upstream invariant violation that cannot be guessed around.
func BuildSimilarityMatrix(comparisons []Comparison, metric Metric) (*SimilarityMatrix, *IndexMap, error) {
	index := newIndexMap()
	for _, c := range comparisons {
		index.add(c.SubmissionA)
		index.add(c.SubmissionB)
	}

	n := index.Len()
	matrix := NewSimilarityMatrix(n)
	written := make(map[[2]int]float64, len(comparisons))

	for _, c := range comparisons {
		i, _ := index.Index(c.SubmissionA)
		j, _ := index.Index(c.SubmissionB)
		if i == j {
			// Self-comparisons carry no information; the diagonal is unused.
			continue
		}

		value, err := EvaluateMetric(metric, c.SizeA, c.SizeB, c.MatchedTokens)
		if err != nil {
			return nil, nil, fmt.Errorf("comparison %s <-> %s: %w", c.SubmissionA, c.SubmissionB, err)
		}

		key := pairIndexKey(i, j)
		if prev, ok := written[key]; ok {
			if math.Abs(prev-value) > floatTolerance {
				return nil, nil, &InconsistencyError{
					SubmissionA: c.SubmissionA,
					SubmissionB: c.SubmissionB,
					First:       prev,
					Second:      value,
				}
			}
			continue
		}
		written[key] = value
		matrix.set(i, j, value)
	}

	return matrix, index, nil
}

func pairIndexKey(i, j int) [2]int {
	if i < j {
		return [2]int{i, j}
	}
	return [2]int{j, i}
}
