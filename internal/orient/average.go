package orient

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrEmptyAverage reports an attempt to average an empty orientation set.
var ErrEmptyAverage = errors.New("cannot average an empty orientation set")

// ErrEigenFailed reports a failed eigendecomposition of the accumulation
// matrix. This cannot happen for finite inputs and is surfaced defensively.
var ErrEigenFailed = errors.New("eigendecomposition of orientation accumulation matrix failed")

// Average computes the rotation-correct mean of a set of unit quaternions as
// the eigenvector of the largest eigenvalue of the symmetric accumulation
// matrix M = sum(q_i * q_i^T).
//
// Naive component-wise summation is not rotation-representation-invariant
// (q and -q describe the same rotation but cancel when summed); the
// accumulation matrix is quadratic in q, so the eigenvector method is immune
// to the sign ambiguity.
//
// Each input is first mapped to its symmetry variant nearest the first
// element so that members of a grain straddling a fundamental-zone border
// average into that zone rather than across it. The result is unit norm with
// a non-negative scalar part.
func Average(qs []Quaternion, sym Group) (Quaternion, error) {
	if len(qs) == 0 {
		return Quaternion{}, ErrEmptyAverage
	}
	if len(qs) == 1 {
		return canonical(qs[0].Normalized()), nil
	}

	ref := qs[0]
	acc := mat.NewSymDense(4, nil)
	for _, q := range qs {
		v := nearestEquivalent(q, ref, sym)
		c := [4]float64{v.X, v.Y, v.Z, v.W}
		for i := 0; i < 4; i++ {
			for j := i; j < 4; j++ {
				acc.SetSym(i, j, acc.At(i, j)+c[i]*c[j])
			}
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(acc, true); !ok {
		return Quaternion{}, ErrEigenFailed
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues are in ascending order; the dominant eigenvector is the
	// last column.
	mean := Quaternion{
		X: vecs.At(0, 3),
		Y: vecs.At(1, 3),
		Z: vecs.At(2, 3),
		W: vecs.At(3, 3),
	}
	return canonical(mean.Normalized()), nil
}

// canonical fixes the sign ambiguity by preferring a non-negative scalar
// part, so averages compare stably across runs.
func canonical(q Quaternion) Quaternion {
	if q.W < 0 || (q.W == 0 && (q.X < 0 || (q.X == 0 && (q.Y < 0 || (q.Y == 0 && q.Z < 0))))) {
		return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	}
	return q
}
