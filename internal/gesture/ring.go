package gesture

import "github.com/roman-kulish/imu-gestures/internal/imu"

type streamSample struct {
	t float64
	a imu.Vec3 // world frame
}

// ring is a fixed-capacity window over the most recent stream samples.
// Once full, each push evicts the oldest sample.
type ring struct {
	data []streamSample
	head int // index of the oldest sample
	n    int
}

func newRing(capacity int) *ring {
	return &ring{data: make([]streamSample, capacity)}
}

func (r *ring) push(s streamSample) {
	if r.n < len(r.data) {
		r.data[(r.head+r.n)%len(r.data)] = s
		r.n++
		return
	}
	r.data[r.head] = s
	r.head = (r.head + 1) % len(r.data)
}

func (r *ring) clear() {
	r.head, r.n = 0, 0
}

func (r *ring) full() bool { return r.n == len(r.data) }

func (r *ring) len() int { return r.n }

// maxL1 returns the buffered sample with the largest L1 acceleration
// norm |ax|+|ay|+|az|. The oldest such sample wins on exact ties.
func (r *ring) maxL1() streamSample {
	var best streamSample
	bestL1 := -1.0
	for i := 0; i < r.n; i++ {
		s := r.data[(r.head+i)%len(r.data)]
		if l1 := s.a.L1(); l1 > bestL1 {
			best, bestL1 = s, l1
		}
	}
	return best
}
