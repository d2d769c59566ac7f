package analyzer

import (
	"sort"
)

// ScoredCluster is a group of submission indices with its strength score.
// Strength is the mean intra-cluster similarity minus the mean similarity from
// members to all non-members; higher means the group stands out more from the
// population.
type ScoredCluster struct {
	Members  []int
	Strength float64
}

// ScoreClusters converts a raw partition into scored clusters, ranked by
// descending strength. Singleton clusters carry no evidence and are dropped.
//
// Scores are computed on the original, non-preprocessed matrix so they stay
// comparable across algorithm and preprocessor choices.
func ScoreClusters(partition Partition, original *SimilarityMatrix) []*ScoredCluster {
	n := original.Size()
	clusters := make([]*ScoredCluster, 0)

	for _, members := range partition.Groups() {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)

		intra := 0.0
		intraPairs := 0
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				intra += original.At(members[a], members[b])
				intraPairs++
			}
		}

		inside := make(map[int]bool, len(members))
		for _, m := range members {
			inside[m] = true
		}
		boundary := 0.0
		boundaryPairs := 0
		for _, m := range members {
			for j := 0; j < n; j++ {
				if !inside[j] {
					boundary += original.At(m, j)
					boundaryPairs++
				}
			}
		}

		strength := intra / float64(intraPairs)
		if boundaryPairs > 0 {
			strength -= boundary / float64(boundaryPairs)
		}

		clusters = append(clusters, &ScoredCluster{Members: members, Strength: strength})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Strength != clusters[j].Strength {
			return clusters[i].Strength > clusters[j].Strength
		}
		return clusters[i].Members[0] < clusters[j].Members[0]
	})

	return clusters
}
