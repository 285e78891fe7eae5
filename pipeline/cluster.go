// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

type pairKey struct {
	a string
	b string
}

func orderedKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}

	return pairKey{a, b}
}

// AssembleClusters groups PTMs into the connected components of the graph
// whose edges are pairs scoring at or above the threshold. Membership is not
// transitive pairwise: two PTMs bridged through a common neighbor share a
// cluster even when their direct score falls below the threshold. Singleton
// components are reported as clusters of one.
func AssembleClusters(ptms []string, scores []PairScore, threshold float64) []Cluster {
	lookup := make(map[pairKey]float64, len(scores))
	for _, s := range scores {
		lookup[orderedKey(s.PTM1, s.PTM2)] = s.Score
	}

	clusters := make([]Cluster, 0, len(ptms))

	visited := make([]bool, len(ptms))

	for i, seed := range ptms {
		if visited[i] {
			continue
		}

		members := []string{seed}
		visited[i] = true

		// Grow the component: every newly added member can pull in further
		// PTMs that clear the threshold against it.
		for k := 0; k < len(members); k++ {
			for j, candidate := range ptms {
				if visited[j] {
					continue
				}

				if lookup[orderedKey(members[k], candidate)] >= threshold {
					members = append(members, candidate)
					visited[j] = true
				}
			}
		}

		clusters = append(clusters, Cluster{ID: len(clusters) + 1, PTMs: members})
	}

	return clusters
}
