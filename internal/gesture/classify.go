package gesture

import (
	"fmt"
	"math"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// Axis identifies a world-frame axis.
type Axis byte

const (
	AxisX Axis = 'X'
	AxisY Axis = 'Y'
	AxisZ Axis = 'Z'
)

func (a Axis) String() string { return string(a) }

// Sign is the direction of travel along an axis.
type Sign byte

const (
	Positive Sign = '+'
	Negative Sign = '-'
)

func (s Sign) String() string { return string(s) }

// Label is a spatial direction name. Detector additionally emits compound
// labels of the form "<vertical>-<horizontal>", e.g. "UP-RIGHT".
type Label string

const (
	Up       Label = "UP"
	Down     Label = "DOWN"
	Left     Label = "LEFT"
	Right    Label = "RIGHT"
	Forward  Label = "FORWARD"
	Backward Label = "BACKWARD"
	Unknown  Label = "UNKNOWN"
)

// Mapping assigns a direction label to each signed world axis. The
// assignment is mount calibration: it depends on how the sensor sits on
// the hand, so it is configuration rather than structure.
type Mapping struct {
	XPos Label `yaml:"x+" json:"x+"`
	XNeg Label `yaml:"x-" json:"x-"`
	YPos Label `yaml:"y+" json:"y+"`
	YNeg Label `yaml:"y-" json:"y-"`
	ZPos Label `yaml:"z+" json:"z+"`
	ZNeg Label `yaml:"z-" json:"z-"`
}

// DefaultMapping is the batch calibration: X vertical, Y
// forward/backward, Z left/right.
func DefaultMapping() Mapping {
	return Mapping{
		XPos: Up, XNeg: Down,
		YPos: Forward, YNeg: Backward,
		ZPos: Right, ZNeg: Left,
	}
}

// StreamMapping is the wrist-mount calibration used by Detector: Z
// vertical, X left/right, Y forward/backward.
func StreamMapping() Mapping {
	return Mapping{
		XPos: Right, XNeg: Left,
		YPos: Forward, YNeg: Backward,
		ZPos: Up, ZNeg: Down,
	}
}

// Label resolves a signed axis to its configured direction name.
func (m Mapping) Label(axis Axis, sign Sign) Label {
	switch {
	case axis == AxisX && sign == Positive:
		return m.XPos
	case axis == AxisX:
		return m.XNeg
	case axis == AxisY && sign == Positive:
		return m.YPos
	case axis == AxisY:
		return m.YNeg
	case sign == Positive:
		return m.ZPos
	default:
		return m.ZNeg
	}
}

// Validate reports the first unassigned entry, if any.
func (m Mapping) Validate() error {
	for _, e := range []struct {
		key   string
		label Label
	}{
		{"x+", m.XPos}, {"x-", m.XNeg},
		{"y+", m.YPos}, {"y-", m.YNeg},
		{"z+", m.ZPos}, {"z-", m.ZNeg},
	} {
		if e.label == "" {
			return fmt.Errorf("mapping: %s has no label", e.key)
		}
	}
	return nil
}

// ClassifyVelocity picks the dominant axis of a velocity change vector
// by absolute value, ties resolved in the fixed order X, Y, Z. The sign
// is positive for a zero component.
func ClassifyVelocity(dv imu.Vec3) (Axis, Sign, float64) {
	ax, ay, az := math.Abs(dv.X), math.Abs(dv.Y), math.Abs(dv.Z)

	axis, val := AxisX, dv.X
	switch {
	case ax >= ay && ax >= az:
	case ay >= az:
		axis, val = AxisY, dv.Y
	default:
		axis, val = AxisZ, dv.Z
	}

	sign := Positive
	if val < 0 {
		sign = Negative
	}
	return axis, sign, math.Abs(val)
}

// diagonalRatio is how loud the second axis must be, relative to the
// loudest, before a peak classifies as a diagonal.
const diagonalRatio = 0.7

// ClassifyPeak maps a raw world-frame acceleration peak to a direction
// label for the streaming detector. Z carries the vertical component; X
// and Y compete for the horizontal one, the louder wins and X keeps
// exact ties. A peak whose loudest component is under thr yields no
// label. When the second-loudest component reaches both thr and
// diagonalRatio of the loudest, and the pair spans vertical and
// horizontal, the result is a compound "<vertical>-<horizontal>" label;
// otherwise the single loudest axis decides, vertical preferred on ties.
func ClassifyPeak(a imu.Vec3, thr float64, m Mapping) (Label, bool) {
	ax, ay, az := math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)

	top := math.Max(ax, math.Max(ay, az))
	if top < thr {
		return "", false
	}
	second := ax + ay + az - top - math.Min(ax, math.Min(ay, az))

	if second >= diagonalRatio*top && second >= thr {
		var vertical Label
		if az >= thr {
			vertical = m.Label(AxisZ, signOfPeak(a.Z))
		}
		var horizontal Label
		hMag := 0.0
		if ax >= thr {
			horizontal, hMag = m.Label(AxisX, signOfPeak(a.X)), ax
		}
		if ay >= thr && ay > hMag {
			horizontal = m.Label(AxisY, signOfPeak(a.Y))
		}
		if vertical != "" && horizontal != "" {
			return vertical + "-" + horizontal, true
		}
	}

	switch {
	case az >= ax && az >= ay:
		return m.Label(AxisZ, signOfPeak(a.Z)), true
	case ax >= ay:
		return m.Label(AxisX, signOfPeak(a.X)), true
	default:
		return m.Label(AxisY, signOfPeak(a.Y)), true
	}
}

func signOfPeak(v float64) Sign {
	if v > 0 {
		return Positive
	}
	return Negative
}
