package segment

import (
	"sort"

	"github.com/latticelab/grainseg/internal/neighbor"
)

// classifyBoundaries walks every graph edge once and marks both endpoints as
// boundary atoms whenever their grain ids differ. Pair counts are aggregated
// only between crystalline grains; edges touching the unclassified
// pseudo-grain still flag the atoms but produce no BoundaryEdge.
//
// Grain-id comparison is exact integer equality, so this pass involves no
// floating point and is deterministic given deterministic grain ids.
func classifyBoundaries(grainOf []int32, graph *neighbor.Graph) ([]bool, []BoundaryEdge) {
	boundary := make([]bool, len(grainOf))
	pairs := make(map[[2]int32]int)

	for _, e := range graph.Edges() {
		ga := grainOf[e.A]
		gb := grainOf[e.B]
		if ga == gb {
			continue
		}
		boundary[e.A] = true
		boundary[e.B] = true

		if ga == Unclassified || gb == Unclassified {
			continue
		}
		if ga > gb {
			ga, gb = gb, ga
		}
		pairs[[2]int32{ga, gb}]++
	}

	edges := make([]BoundaryEdge, 0, len(pairs))
	for key, count := range pairs {
		edges = append(edges, BoundaryEdge{A: key[0], B: key[1], PairCount: count})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return boundary, edges
}
