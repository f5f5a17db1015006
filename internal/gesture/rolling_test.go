package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

func feedRest(d *RollingDetector, from, to float64, hz float64, rest imu.Vec3) float64 {
	t := from
	for ; t < to; t += 1 / hz {
		d.Add(imu.Sample{T: t, Accel: rest, Quat: imu.Identity()})
	}
	return t
}

func TestRollingDetector_DetectsGesture(t *testing.T) {
	d := NewRollingDetector(DefaultRollingConfig())
	rest := imu.Vec3{Z: 9.81}

	// Rest long enough to freeze the baseline.
	next := feedRest(d, 0, 0.5, 100, rest)

	baseline, ok := d.Baseline()
	require.True(t, ok, "baseline should be frozen after 0.5s of rest")
	assert.InDelta(t, rest.X, baseline.X, 1e-9)
	assert.InDelta(t, rest.Y, baseline.Y, 1e-9)
	assert.InDelta(t, rest.Z, baseline.Z, 1e-9)

	_, ok = d.Poll()
	assert.False(t, ok, "no detection while at rest")

	// A burst of positive X acceleration.
	for i := 0; i < 8; i++ {
		d.Add(imu.Sample{T: next, Accel: imu.Vec3{X: 12, Z: 9.81}, Quat: imu.Identity()})
		next += 0.01
	}
	feedRest(d, next, next+0.1, 100, rest)

	res, ok := d.Poll()
	require.True(t, ok, "expected a detection after the burst")
	assert.Equal(t, AxisX, res.Axis)
	assert.Equal(t, Positive, res.Sign)
	assert.Equal(t, Up, res.Label)
	assert.Greater(t, res.Magnitude, 0.5)

	_, ok = d.Poll()
	assert.False(t, ok, "Poll must clear the pending detection")
}

func TestRollingDetector_WeakPeakIgnored(t *testing.T) {
	d := NewRollingDetector(DefaultRollingConfig())
	rest := imu.Vec3{Z: 9.81}

	next := feedRest(d, 0, 0.5, 100, rest)

	// Dynamic peak below MinPeakMagnitude (1.5 m/s²).
	for i := 0; i < 8; i++ {
		d.Add(imu.Sample{T: next, Accel: imu.Vec3{X: 1.0, Z: 9.81}, Quat: imu.Identity()})
		next += 0.01
	}
	feedRest(d, next, next+0.1, 100, rest)

	_, ok := d.Poll()
	assert.False(t, ok, "peak below the magnitude floor must not detect")
}

func TestRollingDetector_GestureInterval(t *testing.T) {
	cfg := DefaultRollingConfig()
	d := NewRollingDetector(cfg)
	rest := imu.Vec3{Z: 9.81}

	next := feedRest(d, 0, 0.5, 100, rest)

	burst := func(from float64) float64 {
		t := from
		for i := 0; i < 8; i++ {
			d.Add(imu.Sample{T: t, Accel: imu.Vec3{X: 12, Z: 9.81}, Quat: imu.Identity()})
			t += 0.01
		}
		return t
	}

	next = burst(next)
	_, ok := d.Poll()
	require.True(t, ok, "first burst must detect")

	// A second burst inside MinGestureInterval is refractory.
	next = feedRest(d, next, next+0.2, 100, rest)
	next = burst(next)
	_, ok = d.Poll()
	assert.False(t, ok, "burst inside the refractory interval must not detect")

	// After the interval has passed another burst detects again.
	next = feedRest(d, next, next+cfg.MinGestureInterval, 100, rest)
	burst(next)
	_, ok = d.Poll()
	assert.True(t, ok, "burst after the refractory interval must detect")
}

func TestRollingDetector_NoBaselineNoDetection(t *testing.T) {
	d := NewRollingDetector(DefaultRollingConfig())

	// Two samples inside the baseline window are not enough to freeze
	// it, so even a violent burst stays undetected.
	d.Add(imu.Sample{T: 0.00, Accel: imu.Vec3{Z: 9.81}, Quat: imu.Identity()})
	d.Add(imu.Sample{T: 0.30, Accel: imu.Vec3{X: 50, Z: 9.81}, Quat: imu.Identity()})

	_, ok := d.Poll()
	assert.False(t, ok)

	_, ok = d.Baseline()
	assert.False(t, ok)
}

func TestRollingDetector_Reset(t *testing.T) {
	d := NewRollingDetector(DefaultRollingConfig())
	rest := imu.Vec3{Z: 9.81}

	next := feedRest(d, 0, 0.5, 100, rest)
	for i := 0; i < 8; i++ {
		d.Add(imu.Sample{T: next, Accel: imu.Vec3{X: 12, Z: 9.81}, Quat: imu.Identity()})
		next += 0.01
	}
	_, ok := d.Poll()
	require.True(t, ok)

	d.Reset()

	_, ok = d.Baseline()
	assert.False(t, ok, "Reset must drop the frozen baseline")
	_, ok = d.Poll()
	assert.False(t, ok, "Reset must drop any pending detection")
}
