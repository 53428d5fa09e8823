package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticelab/grainseg/internal/atoms"
	"github.com/latticelab/grainseg/internal/neighbor"
	"github.com/latticelab/grainseg/internal/orient"
)

// zRot returns a rotation about the z axis, the workhorse orientation for
// fixtures because misorientations add up along the axis.
func zRot(angle float64) orient.Quaternion {
	return orient.FromAxisAngle([3]float64{0, 0, 1}, angle)
}

// chainSnapshot builds n atoms spaced 1.0 apart along x with the given types
// and orientations.
func chainSnapshot(types []atoms.StructureType, rots []orient.Quaternion) *atoms.Snapshot {
	snap := &atoms.Snapshot{}
	for i := range types {
		snap.Atoms = append(snap.Atoms, atoms.Atom{
			ID:          int64(i),
			Position:    [3]float64{float64(i), 0, 0},
			Type:        types[i],
			Orientation: rots[i],
		})
	}
	return snap
}

func run(t *testing.T, snap *atoms.Snapshot, params Params) *Result {
	t.Helper()
	graph, err := neighbor.Build(snap.Positions(), 1.1)
	require.NoError(t, err)
	res, err := Segment(snap, graph, params)
	require.NoError(t, err)
	return res
}

// =============================================================================
// Tests: basic scenarios
// =============================================================================

func TestSegment_TwoIdenticalAtomsFormOneGrain(t *testing.T) {
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC},
		[]orient.Quaternion{zRot(0.3), zRot(0.3)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1})

	assert.Equal(t, 1, res.GrainCount)
	assert.Equal(t, []int32{0, 0}, res.GrainOf)
	assert.Empty(t, res.Boundaries)
	assert.Equal(t, []bool{false, false}, res.Boundary)
	require.Len(t, res.Grains, 1)
	assert.Equal(t, 2, res.Grains[0].AtomCount)
	assert.Equal(t, atoms.FCC, res.Grains[0].Type)
}

func TestSegment_MisorientedNeighborsSplitIntoTwoGrains(t *testing.T) {
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC},
		[]orient.Quaternion{zRot(0), zRot(0.5)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1})

	assert.Equal(t, 2, res.GrainCount)
	assert.Equal(t, []int32{0, 1}, res.GrainOf)
	assert.Equal(t, []bool{true, true}, res.Boundary)
	require.Len(t, res.Boundaries, 1)
	assert.Equal(t, BoundaryEdge{A: 0, B: 1, PairCount: 1}, res.Boundaries[0])
}

func TestSegment_DisorderedAtomsStayUnclassified(t *testing.T) {
	// A(OTHER) - B(FCC) - C(OTHER): B has no type-compatible neighbor and
	// becomes its own grain; A and C land in the unclassified pseudo-grain.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.Other, atoms.FCC, atoms.Other},
		[]orient.Quaternion{orient.Identity(), zRot(0.2), orient.Identity()},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1})

	assert.Equal(t, 1, res.GrainCount)
	assert.Equal(t, []int32{Unclassified, 0, Unclassified}, res.GrainOf)
	assert.Equal(t, 2, res.UnclassifiedCount)
	// Interface atoms are flagged individually, but no boundary pair is
	// recorded against the pseudo-grain.
	assert.Equal(t, []bool{true, true, true}, res.Boundary)
	assert.Empty(t, res.Boundaries)
}

// =============================================================================
// Tests: structural properties
// =============================================================================

func TestSegment_PartitionCoversEveryAtom(t *testing.T) {
	types := []atoms.StructureType{
		atoms.FCC, atoms.FCC, atoms.Other, atoms.BCC, atoms.BCC, atoms.HCP,
	}
	rots := []orient.Quaternion{
		zRot(0), zRot(0.02), orient.Identity(), zRot(1.0), zRot(1.02), zRot(0.4),
	}
	res := run(t, chainSnapshot(types, rots), Params{MergeThreshold: 0.1})

	for i, g := range res.GrainOf {
		if g == Unclassified {
			continue
		}
		require.GreaterOrEqual(t, g, int32(0), "atom %d", i)
		require.Less(t, int(g), res.GrainCount, "atom %d", i)
	}
	total := res.UnclassifiedCount
	for _, g := range res.Grains {
		total += g.AtomCount
	}
	assert.Equal(t, len(types), total, "grains plus pseudo-grain must partition the atom set")
}

func TestSegment_Deterministic(t *testing.T) {
	types := []atoms.StructureType{
		atoms.FCC, atoms.FCC, atoms.FCC, atoms.BCC, atoms.BCC, atoms.Other, atoms.HCP,
	}
	rots := []orient.Quaternion{
		zRot(0), zRot(0.05), zRot(0.5), zRot(0.1), zRot(0.12), orient.Identity(), zRot(0.9),
	}
	snap := chainSnapshot(types, rots)
	params := Params{MergeThreshold: 0.1, MinGrainSize: 2}

	first := run(t, snap, params)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run(t, snap, params))
	}
}

func TestSegment_ThresholdMonotonic(t *testing.T) {
	// Ten atoms with orientations stepping 0.05 rad apart. Raising the
	// threshold can only coarsen the partition.
	var types []atoms.StructureType
	var rots []orient.Quaternion
	for i := 0; i < 10; i++ {
		types = append(types, atoms.FCC)
		rots = append(rots, zRot(0.05*float64(i)))
	}
	snap := chainSnapshot(types, rots)

	prevCount := math.MaxInt
	prevLargest := 0
	for _, threshold := range []float64{0.01, 0.06, 0.3} {
		res := run(t, snap, Params{MergeThreshold: threshold})
		assert.LessOrEqual(t, res.GrainCount, prevCount,
			"grain count must not grow with threshold %v", threshold)
		largest := 0
		for _, g := range res.Grains {
			if g.AtomCount > largest {
				largest = g.AtomCount
			}
		}
		assert.GreaterOrEqual(t, largest, prevLargest,
			"largest grain must not shrink with threshold %v", threshold)
		prevCount = res.GrainCount
		prevLargest = largest
	}
}

func TestSegment_DifferentTypesNeverMerge(t *testing.T) {
	// Identical orientations, different lattices: still two grains.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.BCC},
		[]orient.Quaternion{zRot(0.2), zRot(0.2)},
	)
	res := run(t, snap, Params{MergeThreshold: 1.0})

	assert.Equal(t, 2, res.GrainCount)
	assert.Equal(t, atoms.FCC, res.Grains[0].Type)
	assert.Equal(t, atoms.BCC, res.Grains[1].Type)
}

func TestSegment_BoundaryEdgesAreOrderedAndSelfEdgeFree(t *testing.T) {
	// Three mutually misoriented grains along a chain.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC, atoms.FCC},
		[]orient.Quaternion{zRot(0), zRot(0.4), zRot(0.8)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1})

	require.Equal(t, 3, res.GrainCount)
	for _, e := range res.Boundaries {
		assert.Less(t, e.A, e.B, "boundary pair must be ordered and self-edge-free")
		assert.Positive(t, e.PairCount)
	}
	assert.Equal(t, []BoundaryEdge{
		{A: 0, B: 1, PairCount: 1},
		{A: 1, B: 2, PairCount: 1},
	}, res.Boundaries)
	assert.Equal(t, []int32{1}, res.Grains[0].NeighborGrains)
	assert.Equal(t, []int32{0, 2}, res.Grains[1].NeighborGrains)
}

func TestSegment_CubicSymmetryMergesEquivalentOrientations(t *testing.T) {
	// A quarter turn about a cube axis is crystallographically identical
	// for FCC; the two atoms must merge despite the 90 degree rotation.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC},
		[]orient.Quaternion{orient.Identity(), zRot(math.Pi / 2)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.05})
	assert.Equal(t, 1, res.GrainCount)
}

// =============================================================================
// Tests: grain statistics
// =============================================================================

func TestSegment_StatsBoundsAndSmallFlag(t *testing.T) {
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC, atoms.FCC},
		[]orient.Quaternion{zRot(0.1), zRot(0.1), zRot(0.1)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1, MinGrainSize: 5})

	require.Len(t, res.Grains, 1)
	g := res.Grains[0]
	assert.Equal(t, 3, g.AtomCount)
	assert.True(t, g.Small, "grain of 3 atoms is below min size 5")
	assert.Equal(t, [3]float64{0, 0, 0}, g.BoundsMin)
	assert.Equal(t, [3]float64{2, 0, 0}, g.BoundsMax)

	angle, err := orient.Misorientation(g.MeanOrientation, zRot(0.1), orient.Cubic())
	require.NoError(t, err)
	assert.InDelta(t, 0, angle, 1e-9, "mean orientation of a uniform grain is that orientation")
}

func TestSegment_MeanOrientationAveragesMembers(t *testing.T) {
	// Orientations tilted to either side of 0.1 rad; the rotation-correct
	// mean lands in the middle.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC},
		[]orient.Quaternion{zRot(0.08), zRot(0.12)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1})

	require.Len(t, res.Grains, 1)
	angle, err := orient.Misorientation(res.Grains[0].MeanOrientation, zRot(0.1), orient.Cubic())
	require.NoError(t, err)
	assert.InDelta(t, 0, angle, 1e-6)
}

// =============================================================================
// Tests: orphan adoption
// =============================================================================

func TestSegment_OrphanAdoptionAbsorbsInteriorDisorder(t *testing.T) {
	// FCC - OTHER - FCC with matching grain orientation on both sides: with
	// adoption on, the disordered atom joins the surrounding grain and the
	// boundary disappears.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.Other, atoms.FCC},
		[]orient.Quaternion{zRot(0.2), orient.Identity(), zRot(0.2)},
	)
	graph, err := neighbor.FromBonds(3, [][2]int32{{0, 1}, {1, 2}, {0, 2}})
	require.NoError(t, err)

	res, err := Segment(snap, graph, Params{MergeThreshold: 0.1, AdoptOrphans: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.GrainCount)
	assert.Equal(t, []int32{0, 0, 0}, res.GrainOf)
	assert.Zero(t, res.UnclassifiedCount)
	assert.Equal(t, 3, res.Grains[0].AtomCount)
	assert.Equal(t, atoms.FCC, res.Grains[0].Type, "adopted atom must not change the grain type")
	assert.Empty(t, res.Boundaries)
}

func TestSegment_OrphanAdoptionReachesDeepPockets(t *testing.T) {
	// FCC - OTHER - OTHER: the second orphan is only adjacent to the first,
	// so adoption needs a second round to reach it.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.Other, atoms.Other},
		[]orient.Quaternion{zRot(0.2), orient.Identity(), orient.Identity()},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1, AdoptOrphans: true})

	assert.Equal(t, []int32{0, 0, 0}, res.GrainOf)
	assert.Zero(t, res.UnclassifiedCount)
}

func TestSegment_OrphanAdoptionTieBreaksTowardLowerGrain(t *testing.T) {
	// An orphan squeezed between two misoriented grains with one vote each
	// goes to the lower grain id.
	snap := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.Other, atoms.FCC},
		[]orient.Quaternion{zRot(0), orient.Identity(), zRot(1.0)},
	)
	res := run(t, snap, Params{MergeThreshold: 0.1, AdoptOrphans: true})

	require.Equal(t, 2, res.GrainCount)
	assert.Equal(t, []int32{0, 0, 1}, res.GrainOf)
}

// =============================================================================
// Tests: validation
// =============================================================================

func TestSegment_InvalidInput(t *testing.T) {
	good := chainSnapshot(
		[]atoms.StructureType{atoms.FCC, atoms.FCC},
		[]orient.Quaternion{zRot(0), zRot(0)},
	)
	graph, err := neighbor.Build(good.Positions(), 1.1)
	require.NoError(t, err)

	t.Run("negative threshold", func(t *testing.T) {
		_, err := Segment(good, graph, Params{MergeThreshold: -0.1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		_, err := Segment(&atoms.Snapshot{}, graph, Params{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("nil graph", func(t *testing.T) {
		_, err := Segment(good, nil, Params{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("size mismatch", func(t *testing.T) {
		small, err := neighbor.Build([][3]float64{{0, 0, 0}}, 1.0)
		require.NoError(t, err)
		_, segErr := Segment(good, small, Params{})
		assert.ErrorIs(t, segErr, ErrInvalidInput)
	})

	t.Run("non-unit orientation", func(t *testing.T) {
		bad := chainSnapshot(
			[]atoms.StructureType{atoms.FCC},
			[]orient.Quaternion{{X: 0.5, W: 0.5}},
		)
		g, err := neighbor.Build(bad.Positions(), 1.0)
		require.NoError(t, err)
		_, segErr := Segment(bad, g, Params{})
		assert.ErrorIs(t, segErr, ErrInvalidInput)
		assert.ErrorIs(t, segErr, orient.ErrNotUnit)
	})

	t.Run("zero edges is a valid degenerate result", func(t *testing.T) {
		sparse := chainSnapshot(
			[]atoms.StructureType{atoms.FCC, atoms.FCC},
			[]orient.Quaternion{zRot(0), zRot(0)},
		)
		sparse.Atoms[1].Position = [3]float64{100, 0, 0}
		g, err := neighbor.Build(sparse.Positions(), 1.0)
		require.NoError(t, err)
		res, err := Segment(sparse, g, Params{MergeThreshold: 0.1})
		require.NoError(t, err)
		assert.Equal(t, 2, res.GrainCount, "isolated atoms become singleton grains")
	})
}
