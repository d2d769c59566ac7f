package analyzer

// Partition maps each submission index to a non-negative cluster id. Every
// index appears exactly once; cluster ids need not be contiguous.
type Partition []int

// Groups returns the member indices per cluster id, each group sorted
// ascending by construction.
func (p Partition) Groups() map[int][]int {
	groups := make(map[int][]int)
	for idx, cluster := range p {
		groups[cluster] = append(groups[cluster], idx)
	}
	return groups
}

// ClusteringStrategy produces a partition of the submissions from a similarity
// matrix. Implementations must not mutate the matrix.
type ClusteringStrategy interface {
	// Cluster partitions the submissions in the matrix.
	Cluster(matrix *SimilarityMatrix) (Partition, error)
	// GetName returns the strategy name.
	GetName() string
}

// preprocessedStrategy composes a preprocessor in front of a strategy so that
// callers invoke the algorithm uniformly whether or not a transform is
// attached.
type preprocessedStrategy struct {
	preprocessor Preprocessor
	inner        ClusteringStrategy
}

func (s *preprocessedStrategy) GetName() string {
	return s.inner.GetName() + " (" + s.preprocessor.GetName() + ")"
}

func (s *preprocessedStrategy) Cluster(matrix *SimilarityMatrix) (Partition, error) {
	return s.inner.Cluster(s.preprocessor.Process(matrix))
}

// CreateClusteringStrategy creates the configured algorithm, wrapped by the
// configured preprocessor unless it is the identity. Adding algorithms or
// preprocessors never requires touching callers.
func CreateClusteringStrategy(options *ClusteringOptions) ClusteringStrategy {
	var strategy ClusteringStrategy
	switch options.Algorithm {
	case AlgorithmModeSpectral:
		strategy = NewSpectralClustering(options)
	case AlgorithmModeAgglomerative:
		fallthrough
	default:
		strategy = NewAgglomerativeClustering(options.AgglomerativeThreshold, options.Linkage)
	}

	if options.Preprocessor == PreprocessorModeNone || options.Preprocessor == "" {
		return strategy
	}
	return &preprocessedStrategy{
		preprocessor: CreatePreprocessor(options),
		inner:        strategy,
	}
}
