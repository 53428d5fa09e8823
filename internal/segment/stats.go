package segment

import (
	"fmt"
	"math"
	"sort"

	"github.com/latticelab/grainseg/internal/atoms"
	"github.com/latticelab/grainseg/internal/orient"
)

// aggregateStats computes per-grain statistics from the final atom
// assignment. Every compacted grain has at least one crystalline member by
// construction, so empty grains cannot occur here.
func aggregateStats(
	snap *atoms.Snapshot,
	grainOf []int32,
	boundaries []BoundaryEdge,
	grainCount int,
	minGrainSize int,
	sym map[atoms.StructureType]orient.Group,
) ([]GrainStats, error) {
	if grainCount == 0 {
		return nil, nil
	}

	grains := make([]GrainStats, grainCount)
	orientations := make([][]orient.Quaternion, grainCount)
	for g := range grains {
		grains[g] = GrainStats{
			ID:        int32(g),
			BoundsMin: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
			BoundsMax: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
		}
	}

	for i, a := range snap.Atoms {
		g := grainOf[i]
		if g == Unclassified {
			continue
		}
		stats := &grains[g]
		stats.AtomCount++
		for c := 0; c < 3; c++ {
			if a.Position[c] < stats.BoundsMin[c] {
				stats.BoundsMin[c] = a.Position[c]
			}
			if a.Position[c] > stats.BoundsMax[c] {
				stats.BoundsMax[c] = a.Position[c]
			}
		}
		// Adopted disordered atoms carry no meaningful orientation; only
		// crystalline members define the grain's type and mean orientation.
		if a.Type.Crystalline() {
			stats.Type = a.Type
			orientations[g] = append(orientations[g], a.Orientation)
		}
	}

	for g := range grains {
		mean, err := orient.Average(orientations[g], sym[grains[g].Type])
		if err != nil {
			return nil, fmt.Errorf("grain %d: %w", g, err)
		}
		grains[g].MeanOrientation = mean
		grains[g].Small = grains[g].AtomCount < minGrainSize
	}

	for _, e := range boundaries {
		grains[e.A].NeighborGrains = append(grains[e.A].NeighborGrains, e.B)
		grains[e.B].NeighborGrains = append(grains[e.B].NeighborGrains, e.A)
	}
	for g := range grains {
		list := grains[g].NeighborGrains
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	}

	return grains, nil
}
