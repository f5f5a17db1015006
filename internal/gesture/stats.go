package gesture

import (
	"gonum.org/v1/gonum/stat"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// TraceStats summarises the sampling quality of a recorded trace.
type TraceStats struct {
	Samples       int
	Duration      float64 // seconds, first to last timestamp
	EffectiveRate float64 // Hz observed
	MeanDT        float64 // seconds
	Jitter        float64 // population stddev of dt, seconds
	DropPercent   float64 // vs the expected rate, 0 when unknown
}

// Stats computes sampling statistics for a trace. Non-positive timestamp
// steps are excluded from the dt population. expectHz of 0 disables the
// drop estimate.
func Stats(trace []imu.Sample, expectHz float64) TraceStats {
	st := TraceStats{Samples: len(trace)}
	if len(trace) < 2 {
		return st
	}

	st.Duration = trace[len(trace)-1].T - trace[0].T

	dts := make([]float64, 0, len(trace)-1)
	for i := 1; i < len(trace); i++ {
		if dt := trace[i].T - trace[i-1].T; dt > 0 {
			dts = append(dts, dt)
		}
	}
	if len(dts) > 0 {
		st.MeanDT = stat.Mean(dts, nil)
		st.Jitter = stat.PopStdDev(dts, nil)
	}

	switch {
	case st.Duration > 0:
		st.EffectiveRate = float64(len(trace)-1) / st.Duration
	case st.MeanDT > 0:
		st.EffectiveRate = 1 / st.MeanDT
	}

	if st.Duration > 0 && expectHz > 0 {
		expected := int(st.Duration*expectHz) + 1
		if missed := expected - len(trace); missed > 0 {
			st.DropPercent = float64(missed) / float64(expected) * 100
		}
	}
	return st
}

// PeakDynamic reports the time and magnitude of the largest dynamic
// acceleration in a world-frame trace against a baseline.
func PeakDynamic(samples []WorldSample, a0 imu.Vec3) (t float64, mag float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	i := peakIndex(samples, a0)
	return samples[i].T, samples[i].A.Sub(a0).Norm()
}
