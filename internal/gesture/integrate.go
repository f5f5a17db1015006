package gesture

import (
	"math"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// IntegrateVelocity accumulates dynamic acceleration over the window
// using rectangular integration: for each consecutive pair the dynamic
// acceleration of the later sample is multiplied by the pair's dt.
// Pairs with dt <= 0 are skipped. A pair is also skipped when all three
// axes of its dynamic acceleration fall below minDynamic, which keeps
// sensor noise from drifting the estimate; a single loud axis keeps the
// whole vector.
//
// The returned duration is the timestamp span of the window and is
// reported even when every pair was gated out. Fewer than 2 samples
// integrate to zero over zero duration.
func IntegrateVelocity(samples []WorldSample, a0 imu.Vec3, minDynamic float64) (dv imu.Vec3, duration float64) {
	if len(samples) < 2 {
		return imu.Vec3{}, 0
	}
	duration = samples[len(samples)-1].T - samples[0].T

	for i := 1; i < len(samples); i++ {
		dt := samples[i].T - samples[i-1].T
		if dt <= 0 {
			continue
		}
		d := samples[i].A.Sub(a0)
		if math.Abs(d.X) < minDynamic && math.Abs(d.Y) < minDynamic && math.Abs(d.Z) < minDynamic {
			continue
		}
		dv = dv.Add(d.Scale(dt))
	}
	return dv, duration
}
