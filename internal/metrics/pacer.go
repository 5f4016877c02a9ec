package metrics

import (
	"context"
	"time"
)

// Pacer holds a loop to a target frame rate. A frame that overran its budget
// is not followed by any sleep.
type Pacer struct {
	target time.Duration
	start  time.Time
	prev   time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewPacer(fps int) *Pacer {
	if fps <= 0 {
		fps = 30
	}
	return &Pacer{
		target: time.Second / time.Duration(fps),
		now:    time.Now,
		sleep:  sleepContext,
	}
}

func (p *Pacer) Target() time.Duration { return p.target }

// Begin marks the start of a frame and returns the time since the previous
// Begin, or 0 on the first frame.
func (p *Pacer) Begin() time.Duration {
	p.start = p.now()
	var interval time.Duration
	if !p.prev.IsZero() {
		interval = p.start.Sub(p.prev)
	}
	p.prev = p.start
	return interval
}

// Elapsed is the time since Begin.
func (p *Pacer) Elapsed() time.Duration {
	return p.now().Sub(p.start)
}

// Wait sleeps for whatever is left of the frame budget and returns the
// duration it slept.
func (p *Pacer) Wait(ctx context.Context) time.Duration {
	remaining := p.target - p.Elapsed()
	if remaining <= 0 {
		return 0
	}
	p.sleep(ctx, remaining)
	return remaining
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
