package render

import (
	"math"
	"testing"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

func TestTimelineRenderer_Render(t *testing.T) {
	r, err := NewTimelineRenderer(Config{})
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}
	defer r.Close()

	trace := make([]imu.Sample, 200)
	for i := range trace {
		tt := float64(i) / 100
		trace[i] = imu.Sample{
			T:     tt,
			Accel: imu.Vec3{X: math.Sin(tt * 10), Z: 9.81},
			Gyro:  imu.Vec3{Y: 0.5 * math.Cos(tt * 5)},
			Quat:  imu.Identity(),
		}
	}
	marks := []Mark{{T: 1.0, Label: "UP"}}

	img, err := r.Render(trace, marks)
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}

	wantWidth := defaultPanelWidth + defaultLeftBorder + defaultRightBorder
	wantHeight := 2*defaultPanelHeight + defaultPanelGap + defaultTopBorder + defaultBottomBorder
	bounds := img.Bounds()
	if bounds.Dx() != wantWidth || bounds.Dy() != wantHeight {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantWidth, wantHeight)
	}

	// The mark at t=1.0 paints a column of the top panel red.
	x := defaultLeftBorder + int(1.0/trace[len(trace)-1].T*float64(defaultPanelWidth-1))
	found := false
	for y := defaultTopBorder; y < defaultTopBorder+defaultPanelHeight; y++ {
		if img.RGBAAt(x, y) == markColor {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no mark pixels found in column %d", x)
	}
}

func TestTimelineRenderer_RejectsShortTrace(t *testing.T) {
	r, err := NewTimelineRenderer(Config{})
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}
	defer r.Close()

	if _, err = r.Render([]imu.Sample{{T: 0}}, nil); err == nil {
		t.Error("expected an error for a single-sample trace")
	}
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		span   float64
		pixels int
		want   float64
	}{
		{10, 1000, 1},
		{1, 900, 0.1},
		{100, 900, 10},
		{2.5, 900, 0.5},
		{0, 900, 1}, // degenerate span
	}

	for _, tc := range tests {
		if got := niceStep(tc.span, tc.pixels, pixelsPerLabel); got != tc.want {
			t.Errorf("niceStep(%g, %d) = %g, want %g", tc.span, tc.pixels, got, tc.want)
		}
	}
}
