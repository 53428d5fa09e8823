package orient

import (
	"errors"
	"math"
	"testing"
)

const angleTolerance = 1e-9

// =============================================================================
// Tests: quaternion primitives
// =============================================================================

func TestFromAxisAngle_ProducesUnitQuaternion(t *testing.T) {
	q := FromAxisAngle([3]float64{3, 4, 0}, 1.2)
	if err := q.CheckUnit(); err != nil {
		t.Fatalf("expected unit quaternion, got norm %v", q.Norm())
	}
	if math.Abs(q.Angle()-1.2) > angleTolerance {
		t.Errorf("expected angle 1.2, got %v", q.Angle())
	}
}

func TestFromAxisAngle_ZeroAxisIsIdentity(t *testing.T) {
	q := FromAxisAngle([3]float64{0, 0, 0}, 1.0)
	if q != Identity() {
		t.Errorf("expected identity, got %+v", q)
	}
}

func TestMul_ComposesRotations(t *testing.T) {
	// Two quarter turns about z compose to a half turn.
	quarter := FromAxisAngle([3]float64{0, 0, 1}, math.Pi/2)
	half := quarter.Mul(quarter)
	if math.Abs(half.Angle()-math.Pi) > angleTolerance {
		t.Errorf("expected angle pi, got %v", half.Angle())
	}
}

func TestConjugate_InvertsRotation(t *testing.T) {
	q := FromAxisAngle([3]float64{1, 2, -1}, 0.7)
	d := q.Conjugate().Mul(q)
	if math.Abs(d.Angle()) > angleTolerance {
		t.Errorf("q^-1 * q should be identity, got angle %v", d.Angle())
	}
}

func TestCheckUnit_RejectsNonUnit(t *testing.T) {
	q := Quaternion{X: 1, Y: 1, Z: 0, W: 0}
	if err := q.CheckUnit(); !errors.Is(err, ErrNotUnit) {
		t.Errorf("expected ErrNotUnit, got %v", err)
	}
	if err := Identity().CheckUnit(); err != nil {
		t.Errorf("identity should pass unit check, got %v", err)
	}
}

// =============================================================================
// Tests: symmetry groups
// =============================================================================

func TestSymmetryGroups_OrderAndNormalisation(t *testing.T) {
	cases := []struct {
		group Group
		order int
	}{
		{Cubic(), 24},
		{Hexagonal(), 12},
		{Group{}, 1}, // trivial fallback
	}
	for _, tc := range cases {
		if got := tc.group.Order(); got != tc.order {
			t.Errorf("%s: expected order %d, got %d", tc.group.Name(), tc.order, got)
		}
		for i, op := range tc.group.Operators() {
			if err := op.CheckUnit(); err != nil {
				t.Errorf("%s operator %d is not unit: %v", tc.group.Name(), i, err)
			}
		}
	}
}

func TestCubicGroup_ClosedUnderComposition(t *testing.T) {
	ops := Cubic().Operators()
	for i, a := range ops {
		for j, b := range ops {
			prod := a.Mul(b)
			found := false
			for _, c := range ops {
				// prod and c represent the same rotation when |dot| ~= 1.
				if math.Abs(prod.Dot(c)) > 1-1e-9 {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("product of operators %d and %d is not in the group", i, j)
			}
		}
	}
}

// =============================================================================
// Tests: misorientation
// =============================================================================

func TestMisorientation_IdenticalOrientationsIsZero(t *testing.T) {
	q := FromAxisAngle([3]float64{1, 1, 0}, 0.4)
	angle, err := Misorientation(q, q, Cubic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if angle != 0 {
		t.Errorf("expected exactly 0 for identical orientations, got %v", angle)
	}
}

func TestMisorientation_CubicSymmetryEquivalence(t *testing.T) {
	// A quarter turn about a cube axis is a symmetry operation of the cubic
	// lattice: the misorientation must vanish under the cubic group but not
	// under the trivial group.
	a := Identity()
	b := FromAxisAngle([3]float64{0, 0, 1}, math.Pi/2)

	angle, err := Misorientation(a, b, Cubic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if angle > angleTolerance {
		t.Errorf("expected ~0 under cubic symmetry, got %v", angle)
	}

	raw, err := Misorientation(a, b, Group{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(raw-math.Pi/2) > angleTolerance {
		t.Errorf("expected pi/2 under trivial group, got %v", raw)
	}
}

func TestMisorientation_Symmetric(t *testing.T) {
	a := FromAxisAngle([3]float64{1, 2, 3}, 0.9)
	b := FromAxisAngle([3]float64{-2, 1, 1}, 1.7)

	ab, err := Misorientation(a, b, Cubic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := Misorientation(b, a, Cubic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("misorientation not symmetric: %v vs %v", ab, ba)
	}
}

func TestMisorientation_SmallAngleStability(t *testing.T) {
	a := Identity()
	b := FromAxisAngle([3]float64{1, 0, 0}, 0.01)
	angle, err := Misorientation(a, b, Cubic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(angle-0.01) > 1e-6 {
		t.Errorf("expected ~0.01 rad, got %v", angle)
	}
}

func TestMisorientation_RejectsNonUnitInput(t *testing.T) {
	bad := Quaternion{X: 0.5, W: 0.5}
	if _, err := Misorientation(bad, Identity(), Cubic()); !errors.Is(err, ErrNotUnit) {
		t.Errorf("expected ErrNotUnit for first argument, got %v", err)
	}
	if _, err := Misorientation(Identity(), bad, Cubic()); !errors.Is(err, ErrNotUnit) {
		t.Errorf("expected ErrNotUnit for second argument, got %v", err)
	}
}
