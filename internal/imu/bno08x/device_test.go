package bno08x

import (
	"testing"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

func TestHandler_Parse(t *testing.T) {
	h := handler{}
	samples := make(chan imu.Sample, 1)

	tests := []struct {
		name    string
		line    string
		want    *imu.Sample
		wantErr bool
	}{
		{
			name: "data line",
			line: "0.125,0.1,0.2,9.8,0.01,0.02,0.03,1,0,0,0",
			want: &imu.Sample{
				T:     0.125,
				Accel: imu.Vec3{X: 0.1, Y: 0.2, Z: 9.8},
				Gyro:  imu.Vec3{X: 0.01, Y: 0.02, Z: 0.03},
				Quat:  imu.Identity(),
			},
		},
		{
			name: "data line with spaces",
			line: "0.125, 0.1, 0.2, 9.8, 0.01, 0.02, 0.03, 1, 0, 0, 0",
			want: &imu.Sample{
				T:     0.125,
				Accel: imu.Vec3{X: 0.1, Y: 0.2, Z: 9.8},
				Gyro:  imu.Vec3{X: 0.01, Y: 0.02, Z: 0.03},
				Quat:  imu.Identity(),
			},
		},
		{name: "header line is skipped", line: "t,ax,ay,az,gx,gy,gz,qw,qi,qj,qk"},
		{name: "comment line is skipped", line: "# imu-read v1.2 bus=1 addr=0x4a"},
		{name: "too few fields", line: "0.125,0.1,0.2", wantErr: true},
		{name: "non-numeric field", line: "0.125,0.1,x,9.8,0.01,0.02,0.03,1,0,0,0", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := h.Parse(tc.line, samples)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected a parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			select {
			case got := <-samples:
				if tc.want == nil {
					t.Fatalf("unexpected sample %+v", got)
				}
				if got != *tc.want {
					t.Errorf("sample = %+v, want %+v", got, *tc.want)
				}
			default:
				if tc.want != nil {
					t.Error("expected a sample on the channel")
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := NewConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative bus", func(c *Config) { c.Bus = -1 }},
		{"addr out of range", func(c *Config) { c.Addr = 0x100 }},
		{"hz too low", func(c *Config) { c.Hz = 10 }},
		{"hz too high", func(c *Config) { c.Hz = 500 }},
		{"zero timeout", func(c *Config) { c.TimeoutMS = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestConfig_Args(t *testing.T) {
	args, err := NewConfig().Args()
	if err != nil {
		t.Fatalf("Args failed: %v", err)
	}

	want := []string{"--bus", "1", "--addr", "0x4a", "--hz", "100", "--timeout-ms", "50"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}
