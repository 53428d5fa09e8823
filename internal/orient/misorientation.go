package orient

import "math"

// Misorientation returns the minimum rotation angle in [0, pi] between two
// lattice orientations, minimised over all symmetry-equivalent
// representations under the given point group.
//
// For the relative rotation d = a^-1 * b the angle of d*s is 2*acos(|w|),
// so the minimum angle corresponds to the maximum |w| over the operator set.
// Because the group is closed under inversion and a rotation and its inverse
// share an angle, the result is symmetric in a and b up to floating error.
//
// Returns ErrNotUnit if either orientation fails the unit-norm check.
func Misorientation(a, b Quaternion, sym Group) (float64, error) {
	if err := a.CheckUnit(); err != nil {
		return 0, err
	}
	if err := b.CheckUnit(); err != nil {
		return 0, err
	}

	d := a.Conjugate().Mul(b)

	var best float64
	for _, s := range sym.Operators() {
		w := math.Abs(d.Mul(s).W)
		if w > best {
			best = w
		}
	}
	if best > 1 {
		best = 1 // acos domain guard against rounding
	}
	return 2 * math.Acos(best), nil
}

// nearestEquivalent returns the symmetry variant of q whose rotation is
// closest to ref, used to bring grain members into a common fundamental zone
// before averaging.
func nearestEquivalent(q, ref Quaternion, sym Group) Quaternion {
	best := q
	bestW := -1.0
	d := ref.Conjugate()
	for _, s := range sym.Operators() {
		cand := q.Mul(s)
		if w := math.Abs(d.Mul(cand).W); w > bestW {
			bestW = w
			best = cand
		}
	}
	return best
}
