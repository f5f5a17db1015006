package imu

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
)

func TestQuatRotate_Identity(t *testing.T) {
	v := Vec3{X: 1.5, Y: -2.25, Z: 0.75}
	got := Identity().Rotate(v)
	if got != v {
		t.Errorf("identity rotation changed vector: got %v, want %v", got, v)
	}
}

func TestQuatRotate_ZeroQuat(t *testing.T) {
	// A zero quaternion normalizes as if its norm were 1, so it acts
	// like the identity.
	v := Vec3{X: 3, Y: 4, Z: 5}
	got := Quat{}.Rotate(v)
	if got != v {
		t.Errorf("zero quaternion rotation: got %v, want %v", got, v)
	}
}

func TestQuatRotate_KnownRotations(t *testing.T) {
	s := math.Sqrt2 / 2

	tests := []struct {
		name string
		q    Quat
		v    Vec3
		want Vec3
	}{
		{"90deg about Z maps X to Y", Quat{W: s, K: s}, Vec3{X: 1}, Vec3{Y: 1}},
		{"90deg about X maps Y to Z", Quat{W: s, I: s}, Vec3{Y: 1}, Vec3{Z: 1}},
		{"180deg about Y negates X", Quat{J: 1}, Vec3{X: 1}, Vec3{X: -1}},
		{"unnormalized input is normalized", Quat{W: 2 * s, K: 2 * s}, Vec3{X: 1}, Vec3{Y: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.q.Rotate(tc.v)
			if !vecClose(got, tc.want, 1e-12) {
				t.Errorf("Rotate(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestQuatRotate_PreservesNorm(t *testing.T) {
	qs := []Quat{
		{W: 0.9689, I: 0.0276, J: 0.1965, K: -0.1490},
		{W: 0.5, I: 0.5, J: 0.5, K: 0.5},
		{W: -0.7, I: 0.1, J: 0.2, K: 0.3},
	}
	v := Vec3{X: 1.2, Y: -3.4, Z: 5.6}

	for _, q := range qs {
		got := q.Rotate(v)
		if diff := math.Abs(got.Norm() - v.Norm()); diff > 1e-9 {
			t.Errorf("rotation by %v changed norm by %g", q, diff)
		}
	}
}

func TestQuatRotate_MatchesRotationMatrix(t *testing.T) {
	qs := []Quat{
		Identity(),
		{W: 0.9689, I: 0.0276, J: 0.1965, K: -0.1490},
		{W: 0.5, I: 0.5, J: 0.5, K: 0.5},
		{W: 2, I: 0, J: 1, K: 1}, // unnormalized
		{},                       // zero, acts as identity
	}
	vs := []Vec3{
		{X: 1},
		{Y: -2, Z: 3},
		{X: 0.1, Y: 9.81, Z: -0.4},
	}

	for _, q := range qs {
		m := q.RotationMatrix()
		for _, v := range vs {
			direct := q.Rotate(v)
			viaMatrix := m.Apply(v)
			if !vecCloseRel(direct, viaMatrix, 1e-9) {
				t.Errorf("q=%v v=%v: Rotate=%v, RotationMatrix.Apply=%v", q, v, direct, viaMatrix)
			}
		}
	}
}

// TestQuatRotate_MatchesReference cross-checks the double-cross-product
// formula against a full Hamilton sandwich product q v q*.
func TestQuatRotate_MatchesReference(t *testing.T) {
	qs := []Quat{
		{W: 0.9689, I: 0.0276, J: 0.1965, K: -0.1490},
		{W: 0.6, I: -0.3, J: 0.2, K: 0.1},
	}
	v := Vec3{X: 2.5, Y: -1.5, Z: 0.5}

	for _, q := range qs {
		want := referenceRotate(q, v)
		got := q.Rotate(v)
		if !vecCloseRel(got, want, 1e-9) {
			t.Errorf("q=%v: Rotate=%v, reference=%v", q, got, want)
		}
	}
}

func referenceRotate(q Quat, v Vec3) Vec3 {
	n := math.Sqrt(q.W*q.W + q.I*q.I + q.J*q.J + q.K*q.K)
	qn := quat.Number{Real: q.W / n, Imag: q.I / n, Jmag: q.J / n, Kmag: q.K / n}
	vq := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(qn, vq), quat.Conj(qn))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

func vecClose(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func vecCloseRel(a, b Vec3, tol float64) bool {
	scale := math.Max(1, math.Max(a.Norm(), b.Norm()))
	return a.Sub(b).Norm() <= tol*scale
}

func TestVec3_Helpers(t *testing.T) {
	v := Vec3{X: 3, Y: -4, Z: 12}

	if got := v.Norm(); got != 13 {
		t.Errorf("Norm() = %g, want 13", got)
	}
	if got := v.L1(); got != 19 {
		t.Errorf("L1() = %g, want 19", got)
	}
	if got := v.Sub(Vec3{X: 1, Y: 1, Z: 1}); got != (Vec3{X: 2, Y: -5, Z: 11}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := v.Scale(2); got != (Vec3{X: 6, Y: -8, Z: 24}) {
		t.Errorf("Scale() = %v", got)
	}
}
