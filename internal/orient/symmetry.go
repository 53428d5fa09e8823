package orient

import "math"

// Group is a set of point-group symmetry operators expressed as unit
// quaternions. The zero value (no operators) behaves as the trivial group
// containing only the identity, which is the fallback for structure types
// whose symmetry is unspecified.
type Group struct {
	name string
	ops  []Quaternion
}

// Name returns the group's label, or "triclinic" for the trivial group.
func (g Group) Name() string {
	if g.name == "" {
		return "triclinic"
	}
	return g.name
}

// Order returns the number of symmetry operators (1 for the trivial group).
func (g Group) Order() int {
	if len(g.ops) == 0 {
		return 1
	}
	return len(g.ops)
}

// Operators returns the operator set. The trivial group yields the identity.
func (g Group) Operators() []Quaternion {
	if len(g.ops) == 0 {
		return []Quaternion{Identity()}
	}
	return g.ops
}

// Precomputed operator sets. Built once at package init; the builders below
// enumerate the proper rotation subgroups (no inversions, which quaternions
// cannot represent anyway).
var (
	cubicGroup     = Group{name: "cubic", ops: buildCubicOps()}
	hexagonalGroup = Group{name: "hexagonal", ops: buildHexagonalOps()}
)

// Cubic returns the 24-operator proper rotation group of the cubic lattice
// (point group 432), shared by FCC, BCC and simple cubic structures.
func Cubic() Group { return cubicGroup }

// Hexagonal returns the 12-operator proper rotation group of the hexagonal
// lattice (point group 622), used for HCP structures.
func Hexagonal() Group { return hexagonalGroup }

// buildCubicOps enumerates the 24 proper rotations of the cube:
// identity, 9 rotations about the coordinate axes, 6 two-fold rotations
// about face diagonals, and 8 three-fold rotations about body diagonals.
func buildCubicOps() []Quaternion {
	ops := make([]Quaternion, 0, 24)
	ops = append(ops, Identity())

	axes := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for _, a := range axes {
		for _, angle := range []float64{math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
			ops = append(ops, FromAxisAngle(a, angle))
		}
	}

	faceDiagonals := [][3]float64{
		{1, 1, 0}, {1, -1, 0},
		{1, 0, 1}, {1, 0, -1},
		{0, 1, 1}, {0, 1, -1},
	}
	for _, a := range faceDiagonals {
		ops = append(ops, FromAxisAngle(a, math.Pi))
	}

	bodyDiagonals := [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	}
	for _, a := range bodyDiagonals {
		ops = append(ops, FromAxisAngle(a, 2*math.Pi/3))
		ops = append(ops, FromAxisAngle(a, -2*math.Pi/3))
	}

	return ops
}

// buildHexagonalOps enumerates the 12 proper rotations of the hexagonal
// lattice: 6 rotations about the c-axis in 60 degree steps and 6 two-fold
// rotations about axes in the basal plane spaced 30 degrees apart.
func buildHexagonalOps() []Quaternion {
	ops := make([]Quaternion, 0, 12)
	for k := 0; k < 6; k++ {
		ops = append(ops, FromAxisAngle([3]float64{0, 0, 1}, float64(k)*math.Pi/3))
	}
	for k := 0; k < 6; k++ {
		phi := float64(k) * math.Pi / 6
		ops = append(ops, FromAxisAngle([3]float64{math.Cos(phi), math.Sin(phi), 0}, math.Pi))
	}
	return ops
}
