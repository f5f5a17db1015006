package gesture

import "github.com/roman-kulish/imu-gestures/internal/imu"

// EstimateBaseline averages world-frame acceleration over the rest-state
// prefix of the trace: every sample within window seconds of the first
// sample's timestamp. The average captures gravity plus any constant
// accelerometer bias. If the prefix selects no samples (non-monotonic
// leading timestamps) the whole trace is averaged instead.
func EstimateBaseline(samples []WorldSample, window float64) imu.Vec3 {
	if len(samples) == 0 {
		return imu.Vec3{}
	}

	t0 := samples[0].T
	var sum imu.Vec3
	var n int
	for _, s := range samples {
		if s.T-t0 > window {
			continue
		}
		sum = sum.Add(s.A)
		n++
	}
	if n == 0 {
		for _, s := range samples {
			sum = sum.Add(s.A)
		}
		n = len(samples)
	}
	return sum.Scale(1 / float64(n))
}
