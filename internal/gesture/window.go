package gesture

import "github.com/roman-kulish/imu-gestures/internal/imu"

// peakIndex returns the index of the sample with the largest dynamic
// acceleration magnitude |a - a0|. The first occurrence wins on exact
// ties.
func peakIndex(samples []WorldSample, a0 imu.Vec3) int {
	best, bestMag := 0, -1.0
	for i, s := range samples {
		if mag := s.A.Sub(a0).Norm(); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	return best
}

// FindWindow locates the gesture window [start, end) around the peak of
// dynamic acceleration: every sample within halfWindow seconds of the
// peak sample's timestamp. A window of fewer than 3 samples (peak at a
// trace edge, sparse sampling) falls back to the whole trace.
func FindWindow(samples []WorldSample, a0 imu.Vec3, halfWindow float64) (start, end int) {
	if len(samples) < 3 {
		return 0, len(samples)
	}

	tPeak := samples[peakIndex(samples, a0)].T
	tStart, tEnd := tPeak-halfWindow, tPeak+halfWindow

	for start < len(samples) && samples[start].T < tStart {
		start++
	}
	end = start
	for end < len(samples) && samples[end].T <= tEnd {
		end++
	}

	if end-start < 3 {
		return 0, len(samples)
	}
	return start, end
}
