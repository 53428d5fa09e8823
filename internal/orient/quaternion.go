package orient

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotUnit reports an orientation whose quaternion norm is not 1 within
// tolerance. Upstream structure identification always emits unit quaternions,
// so a non-unit orientation means corrupted or mismatched input.
var ErrNotUnit = errors.New("orientation is not a unit quaternion")

// unitTolerance is the allowed deviation of the quaternion norm from 1.
const unitTolerance = 1e-6

// Quaternion is a rotation stored in (X, Y, Z, W) component order, W being
// the scalar part. Orientations are expected to be unit quaternions.
type Quaternion struct {
	X, Y, Z, W float64
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// FromAxisAngle builds a rotation of angle radians about the given axis.
// The axis does not need to be normalised; a zero axis yields the identity.
func FromAxisAngle(axis [3]float64, angle float64) Quaternion {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n == 0 {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return Quaternion{
		X: axis[0] * s,
		Y: axis[1] * s,
		Z: axis[2] * s,
		W: math.Cos(angle / 2),
	}
}

// Norm returns the Euclidean norm of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalized returns q scaled to unit norm. A zero quaternion is returned
// unchanged.
func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	if n == 0 {
		return q
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// Conjugate returns the conjugate of q, which for unit quaternions is the
// inverse rotation.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Mul returns the Hamilton product q*r (apply r, then q).
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Dot returns the 4-component dot product of q and r.
func (q Quaternion) Dot(r Quaternion) float64 {
	return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
}

// Angle returns the rotation angle of q in [0, pi]. q and -q describe the
// same rotation, so the scalar part is taken by absolute value.
func (q Quaternion) Angle() float64 {
	w := math.Abs(q.W)
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

// CheckUnit returns ErrNotUnit (wrapped with the offending norm) if q is not
// a unit quaternion within tolerance.
func (q Quaternion) CheckUnit() error {
	if math.Abs(q.Norm()-1) > unitTolerance {
		return fmt.Errorf("%w: norm %g", ErrNotUnit, q.Norm())
	}
	return nil
}
