package segment

import (
	"errors"

	"github.com/latticelab/grainseg/internal/atoms"
	"github.com/latticelab/grainseg/internal/orient"
)

// Unclassified is the pseudo-grain id assigned to disordered atoms that were
// not adopted by any crystalline grain.
const Unclassified int32 = -1

// ErrInvalidInput covers malformed segmentation input: an empty snapshot, a
// graph whose size does not match the snapshot, a negative merge threshold,
// or a crystalline atom with a non-unit orientation.
var ErrInvalidInput = errors.New("invalid segmentation input")

// Params is the configuration surface of one segmentation run.
type Params struct {
	// MergeThreshold is the maximum misorientation angle in radians at which
	// two neighboring atoms of the same structure type still merge.
	MergeThreshold float64

	// MinGrainSize flags grains with fewer atoms as small. Small grains are
	// retained in the output; disposal policy is the caller's.
	MinGrainSize int

	// AdoptOrphans attaches disordered atoms to the surrounding grain after
	// merging, mirroring the upstream engine's adoptOrphanAtoms option.
	// When false (the default), disordered atoms stay unclassified.
	AdoptOrphans bool

	// Symmetry maps each structure type to its point group. Nil selects
	// atoms.DefaultSymmetry. Types absent from the map fall back to the
	// trivial group, i.e. raw misorientation without symmetry reduction.
	Symmetry map[atoms.StructureType]orient.Group
}

// BoundaryEdge is an unordered pair of adjacent crystalline grains with the
// number of boundary atom pairs connecting them. A < B always holds; the
// unclassified pseudo-grain never appears in a BoundaryEdge.
type BoundaryEdge struct {
	A, B      int32
	PairCount int
}

// GrainStats describes one finalized grain.
type GrainStats struct {
	ID        int32
	AtomCount int

	// Type is the structure type shared by the grain's crystalline members.
	// Adopted disordered atoms count toward AtomCount but do not alter Type.
	Type atoms.StructureType

	// MeanOrientation is the rotation-correct average of the crystalline
	// members' orientations.
	MeanOrientation orient.Quaternion

	// BoundsMin and BoundsMax are the corners of the axis-aligned bounding
	// box of all member positions.
	BoundsMin, BoundsMax [3]float64

	// Small is set when AtomCount is below Params.MinGrainSize.
	Small bool

	// NeighborGrains lists the ids of grains sharing a boundary, ascending.
	NeighborGrains []int32
}

// Result is the complete output of one segmentation run.
type Result struct {
	// GrainOf maps each atom index to its grain id, or Unclassified.
	GrainOf []int32

	// Boundary marks atoms adjacent to at least one atom of a different
	// grain (including the unclassified pseudo-grain).
	Boundary []bool

	// GrainCount is the number of crystalline grains; ids are dense in
	// [0, GrainCount).
	GrainCount int

	// UnclassifiedCount is the number of atoms left in the pseudo-grain.
	UnclassifiedCount int

	Grains     []GrainStats
	Boundaries []BoundaryEdge
}
