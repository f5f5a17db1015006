package gesture

import (
	"math"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// rollingSpanFactor bounds the rolling buffer to a small multiple of the
// gesture window so memory stays flat on long captures.
const rollingSpanFactor = 2.5

// RollingConfig tunes the online integrating detector.
type RollingConfig struct {
	BaselineWindow     float64 // seconds of leading samples averaged into the baseline
	HalfWindow         float64 // seconds either side of the peak kept for integration
	MinDynamic         float64 // m/s², per-axis integration noise gate
	MinPeakMagnitude   float64 // m/s², dynamic peak below this is not a gesture
	MinGestureInterval float64 // seconds between consecutive detections
	MinVelocity        float64 // m/s, dominant |Δv| below this discards the detection
	Mapping            Mapping
}

// DefaultRollingConfig returns the tuning used during data collection.
func DefaultRollingConfig() RollingConfig {
	return RollingConfig{
		BaselineWindow:     0.2,
		HalfWindow:         0.3,
		MinDynamic:         0.5,
		MinPeakMagnitude:   1.5,
		MinGestureInterval: 0.8,
		MinVelocity:        0.5,
		Mapping:            DefaultMapping(),
	}
}

// RollingDetector runs the velocity-integrating pipeline online over a
// bounded rolling buffer. Unlike Detector it reuses the batch stages:
// a gravity baseline is frozen from the first BaselineWindow seconds,
// then each new sample may trigger a peak search, windowing and
// integration over the buffered history. Detections are held until
// collected with Poll.
//
// RollingDetector is not safe for concurrent use.
type RollingDetector struct {
	cfg RollingConfig

	buf         []WorldSample
	baseline    imu.Vec3
	baselineSet bool
	baselineEnd float64 // peaks before this time belong to the rest state
	lastGesture float64
	pending     *Result
}

func NewRollingDetector(cfg RollingConfig) *RollingDetector {
	return &RollingDetector{cfg: cfg, lastGesture: math.Inf(-1)}
}

// Add feeds one sensor-frame sample.
func (d *RollingDetector) Add(s imu.Sample) {
	d.buf = append(d.buf, WorldSample{T: s.T, A: s.Quat.Rotate(s.Accel)})

	maxSpan := rollingSpanFactor * d.cfg.HalfWindow
	drop := 0
	for drop < len(d.buf) && s.T-d.buf[drop].T > maxSpan {
		drop++
	}
	if drop > 0 {
		d.buf = append(d.buf[:0], d.buf[drop:]...)
	}

	if !d.baselineSet {
		d.freezeBaseline()
	}
	if d.baselineSet {
		d.detect(s.T)
	}
}

// Poll returns the pending detection, if any, and clears it.
func (d *RollingDetector) Poll() (Result, bool) {
	if d.pending == nil {
		return Result{}, false
	}
	r := *d.pending
	d.pending = nil
	return r, true
}

// Baseline reports the frozen gravity baseline once enough rest-state
// samples have been seen.
func (d *RollingDetector) Baseline() (imu.Vec3, bool) {
	return d.baseline, d.baselineSet
}

// Reset drops all buffered state so the detector can be reused on a new
// stream.
func (d *RollingDetector) Reset() {
	d.buf = d.buf[:0]
	d.baseline = imu.Vec3{}
	d.baselineSet = false
	d.baselineEnd = 0
	d.lastGesture = math.Inf(-1)
	d.pending = nil
}

// freezeBaseline averages the buffered samples that fall within
// BaselineWindow seconds of the buffer start. It needs at least 3 such
// samples; until then the detector stays dormant.
func (d *RollingDetector) freezeBaseline() {
	if len(d.buf) == 0 {
		return
	}
	t0 := d.buf[0].T
	var sum imu.Vec3
	var n int
	end := t0
	for _, s := range d.buf {
		if s.T-t0 > d.cfg.BaselineWindow {
			break
		}
		sum = sum.Add(s.A)
		n++
		end = s.T
	}
	if n < 3 {
		return
	}
	d.baseline = sum.Scale(1 / float64(n))
	d.baselineSet = true
	d.baselineEnd = end
}

func (d *RollingDetector) detect(now float64) {
	if len(d.buf) < 3 || now-d.lastGesture < d.cfg.MinGestureInterval {
		return
	}

	// Peak search skips the rest-state samples the baseline was
	// frozen from.
	iPeak, peakMag := -1, 0.0
	for i, s := range d.buf {
		if s.T < d.baselineEnd {
			continue
		}
		if mag := s.A.Sub(d.baseline).Norm(); mag > peakMag {
			iPeak, peakMag = i, mag
		}
	}
	if iPeak < 0 || peakMag < d.cfg.MinPeakMagnitude {
		return
	}

	tPeak := d.buf[iPeak].T
	tStart, tEnd := tPeak-d.cfg.HalfWindow, tPeak+d.cfg.HalfWindow
	start := 0
	for start < len(d.buf) && d.buf[start].T < tStart {
		start++
	}
	end := start
	for end < len(d.buf) && d.buf[end].T <= tEnd {
		end++
	}
	if end <= start+2 {
		return
	}

	dv, duration := IntegrateVelocity(d.buf[start:end], d.baseline, d.cfg.MinDynamic)
	axis, sign, mag := ClassifyVelocity(dv)
	if mag < d.cfg.MinVelocity {
		return
	}

	d.pending = &Result{
		Start:     start,
		End:       end,
		TCenter:   tPeak,
		Duration:  duration,
		Baseline:  d.baseline,
		DeltaV:    dv,
		Axis:      axis,
		Sign:      sign,
		Magnitude: mag,
		Label:     d.cfg.Mapping.Label(axis, sign),
	}
	d.lastGesture = now
}
