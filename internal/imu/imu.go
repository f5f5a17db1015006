package imu

import "math"

// Sample is a single fused IMU frame: linear acceleration and angular rate
// in the sensor frame plus the orientation quaternion produced by the
// on-chip fusion (Game Rotation Vector).
type Sample struct {
	T     float64 // Seconds since capture start, strictly non-decreasing expected
	Accel Vec3    // Acceleration in m/s², sensor frame
	Gyro  Vec3    // Angular rate in rad/s
	Quat  Quat    // Sensor-to-world orientation
}

// Vec3 is a 3-component vector (m/s² for acceleration, rad/s for angular
// rate, m/s for velocity increments).
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Norm returns the Euclidean (L2) norm.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// L1 returns the sum of absolute components.
func (v Vec3) L1() float64 {
	return math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)
}

// Sub returns v - u.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z}
}

// Add returns v + u.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Quat is an orientation quaternion, scalar part first. It is not required
// to be normalized; operations that need a unit quaternion normalize on the
// fly and treat a zero norm as 1 to avoid division by zero.
type Quat struct {
	W float64
	I float64
	J float64
	K float64
}

// Identity returns the no-rotation quaternion.
func Identity() Quat {
	return Quat{W: 1}
}

// Rotate rotates v from the sensor frame into the world frame using the
// double-cross-product identity:
//
//	t  = 2 * (u × v)
//	v' = v + w*t + (u × t)
//
// where u is the quaternion's vector part.
func (q Quat) Rotate(v Vec3) Vec3 {
	w, x, y, z := q.unit()

	tx := 2.0 * (y*v.Z - z*v.Y)
	ty := 2.0 * (z*v.X - x*v.Z)
	tz := 2.0 * (x*v.Y - y*v.X)

	return Vec3{
		X: v.X + w*tx + (y*tz - z*ty),
		Y: v.Y + w*ty + (z*tx - x*tz),
		Z: v.Z + w*tz + (x*ty - y*tx),
	}
}

// RotationMatrix is a row-major 3×3 rotation matrix.
type RotationMatrix [3][3]float64

// RotationMatrix expands q into the equivalent rotation matrix. Applying the
// matrix and calling Rotate agree to floating-point tolerance.
func (q Quat) RotationMatrix() RotationMatrix {
	w, x, y, z := q.unit()

	return RotationMatrix{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}

// Apply multiplies the matrix with v.
func (m RotationMatrix) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (q Quat) unit() (w, x, y, z float64) {
	n := math.Sqrt(q.W*q.W + q.I*q.I + q.J*q.J + q.K*q.K)
	if n == 0 {
		n = 1.0
	}
	return q.W / n, q.I / n, q.J / n, q.K / n
}
