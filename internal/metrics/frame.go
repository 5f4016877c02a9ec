package metrics

import "time"

const DefaultWindow = 60

// FrameMonitor keeps a sliding window of recent frame durations.
type FrameMonitor struct {
	samples []time.Duration
	next    int
	full    bool
	total   time.Duration
}

func NewFrameMonitor(window int) *FrameMonitor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &FrameMonitor{samples: make([]time.Duration, window)}
}

func (m *FrameMonitor) Observe(d time.Duration) {
	m.total -= m.samples[m.next]
	m.samples[m.next] = d
	m.total += d
	m.next++
	if m.next == len(m.samples) {
		m.next = 0
		m.full = true
	}
}

func (m *FrameMonitor) Len() int {
	if m.full {
		return len(m.samples)
	}
	return m.next
}

func (m *FrameMonitor) Mean() time.Duration {
	n := m.Len()
	if n == 0 {
		return 0
	}
	return m.total / time.Duration(n)
}

// FPS is the frame rate implied by the window mean. It stays 0 until two
// frames have been observed.
func (m *FrameMonitor) FPS() float64 {
	if m.Len() < 2 {
		return 0
	}
	mean := m.Mean()
	if mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(mean)
}
