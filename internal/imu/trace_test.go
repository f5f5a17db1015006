package imu

import (
	"errors"
	"strings"
	"testing"
)

const canonicalTrace = `t,ax,ay,az,gx,gy,gz,qw,qi,qj,qk
0.00,0.1,0.2,9.8,0,0,0,1,0,0,0
0.01,0.1,0.2,9.8,0,0,0,1,0,0,0
0.02,0.1,0.2,9.8,0,0,0,1,0,0,0
`

func TestReadTrace_CanonicalColumns(t *testing.T) {
	trace, err := ReadTrace(strings.NewReader(canonicalTrace))
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(trace) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(trace))
	}

	s := trace[1]
	if s.T != 0.01 {
		t.Errorf("T = %g, want 0.01", s.T)
	}
	if s.Accel != (Vec3{X: 0.1, Y: 0.2, Z: 9.8}) {
		t.Errorf("Accel = %v", s.Accel)
	}
	if s.Quat != (Quat{W: 1}) {
		t.Errorf("Quat = %v", s.Quat)
	}
}

func TestReadTrace_HeaderRemapsColumns(t *testing.T) {
	// Shuffled columns plus an extra one the reader ignores.
	data := `az,t,label,ax,ay,gx,gy,gz,qw,qi,qj,qk
9.8,0.00,rest,0.1,0.2,0,0,0,1,0,0,0
9.8,0.01,rest,0.1,0.2,0,0,0,1,0,0,0
9.8,0.02,rest,0.1,0.2,0,0,0,1,0,0,0
`
	trace, err := ReadTrace(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(trace) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(trace))
	}
	if trace[0].Accel.Z != 9.8 || trace[0].T != 0 || trace[0].Accel.X != 0.1 {
		t.Errorf("columns not remapped: %+v", trace[0])
	}
}

func TestReadTrace_SkipsMalformedRows(t *testing.T) {
	data := `t,ax,ay,az,gx,gy,gz,qw,qi,qj,qk
0.00,0.1,0.2,9.8,0,0,0,1,0,0,0
not,a,valid,row,x,x,x,x,x,x,x
0.01,0.1,0.2,9.8,0,0,0,1,0,0,0
0.02,0.1,0.2
0.03,0.1,0.2,9.8,0,0,0,1,0,0,0
`
	trace, err := ReadTrace(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(trace) != 3 {
		t.Fatalf("expected 3 samples after skipping malformed rows, got %d", len(trace))
	}
	if trace[2].T != 0.03 {
		t.Errorf("last sample T = %g, want 0.03", trace[2].T)
	}
}

func TestReadTrace_HeaderlessKeepsFirstRow(t *testing.T) {
	data := `0.00,0.1,0.2,9.8,0,0,0,1,0,0,0
0.01,0.1,0.2,9.8,0,0,0,1,0,0,0
0.02,0.1,0.2,9.8,0,0,0,1,0,0,0
`
	trace, err := ReadTrace(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(trace) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(trace))
	}
	if trace[0].T != 0 {
		t.Errorf("first sample lost: T = %g", trace[0].T)
	}
}

func TestReadTrace_InsufficientData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"header only", "t,ax,ay,az,gx,gy,gz,qw,qi,qj,qk\n"},
		{"two samples", "t,ax,ay,az,gx,gy,gz,qw,qi,qj,qk\n0,0,0,0,0,0,0,1,0,0,0\n0.01,0,0,0,0,0,0,1,0,0,0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadTrace(strings.NewReader(tc.data))
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("expected ErrInsufficientData, got %v", err)
			}
		})
	}
}
