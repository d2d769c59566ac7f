package analyzer

import (
	"math"
)

// AgglomerativeClustering merges submissions bottom-up, starting from
// singleton clusters, until no pair of clusters exceeds the similarity
// threshold under the configured linkage.
type AgglomerativeClustering struct {
	threshold float64
	linkage   LinkageMethod
}

func NewAgglomerativeClustering(threshold float64, linkage LinkageMethod) *AgglomerativeClustering {
	return &AgglomerativeClustering{threshold: threshold, linkage: linkage}
}

func (a *AgglomerativeClustering) GetName() string { return "Agglomerative" }

func (a *AgglomerativeClustering) Cluster(matrix *SimilarityMatrix) (Partition, error) {
	n := matrix.Size()
	if n == 0 {
		return Partition{}, nil
	}

	// Each submission starts as its own cluster. Member lists stay sorted so
	// the lowest-index tie-break is well defined.
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	// Inter-cluster similarity under the configured linkage.
	clusterSim := func(x, y []int) float64 {
		switch a.linkage {
		case LinkageMin:
			minSim := math.Inf(1)
			for _, i := range x {
				for _, j := range y {
					if s := matrix.At(i, j); s < minSim {
						minSim = s
					}
				}
			}
			return minSim
		case LinkageMax:
			maxSim := math.Inf(-1)
			for _, i := range x {
				for _, j := range y {
					if s := matrix.At(i, j); s > maxSim {
						maxSim = s
					}
				}
			}
			return maxSim
		case LinkageAverage:
			fallthrough
		default:
			sum := 0.0
			for _, i := range x {
				for _, j := range y {
					sum += matrix.At(i, j)
				}
			}
			return sum / float64(len(x)*len(y))
		}
	}

	// Repeatedly merge the most similar pair above the threshold. Scanning
	// pairs in ascending (i,j) order with a strictly-greater comparison makes
	// ties resolve to the lowest combined index, which keeps runs
	// deterministic.
	for len(clusters) > 1 {
		bestI, bestJ := -1, -1
		bestScore := math.Inf(-1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if s := clusterSim(clusters[i], clusters[j]); s > bestScore {
					bestScore = s
					bestI, bestJ = i, j
				}
			}
		}
		if bestScore <= a.threshold {
			break
		}
		clusters[bestI] = mergeSorted(clusters[bestI], clusters[bestJ])
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
	}

	// Read the flat partition off the merge state.
	partition := make(Partition, n)
	for id, members := range clusters {
		for _, idx := range members {
			partition[idx] = id
		}
	}
	return partition, nil
}

// mergeSorted merges two ascending index lists into one.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
