// Package experiment runs the field headless for a fixed number of frames
// along a scripted pointer path and reports timing and cache behavior.
package experiment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/noisefield/internal/cache"
	"github.com/san-kum/noisefield/internal/config"
	"github.com/san-kum/noisefield/internal/noise"
	"github.com/san-kum/noisefield/internal/sim"
)

const (
	DefaultFrames = 100
	DefaultWidth  = 80
	DefaultHeight = 24

	// pathPeriod is the number of frames of one pointer lap.
	pathPeriod = 120
	wheelEvery = 25
)

type Config struct {
	Name   string
	Frames int
	Width  int
	Height int
}

type Sample struct {
	Frame    int
	Duration time.Duration
	// HitRatio is the ratio of this frame's lookups alone.
	HitRatio float64
	CacheLen int
}

type Result struct {
	Name          string
	Source        string
	Width, Height int
	Frames        int
	Precision     int
	MaxSize       int
	EvictFraction float64
	Workers       int

	Elapsed     time.Duration
	Stats       cache.Stats
	CacheLen    int
	MinObserved float64
	MaxObserved float64
	Samples     []Sample
}

func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

func (c Config) normalized() Config {
	if c.Frames <= 0 {
		c.Frames = DefaultFrames
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	return c
}

// PointerInput returns the SGR report that places the pointer for frame i of
// the scripted path: an ellipse around the grid center, with a wheel-down
// notch every few frames.
func PointerInput(dst []byte, cfg *config.Config, frame, width, height int) []byte {
	theta := 2 * math.Pi * float64(frame) / pathPeriod
	col := 1 + int(math.Round(float64(width-1)*(0.5+0.3*math.Cos(theta))))
	row := 1 + int(math.Round(float64(height-1)*(0.5+0.3*math.Sin(theta))))
	dst = fmt.Appendf(dst, "\x1b[<%d;%d;%dM", cfg.Input.MoveCode, col, row)
	if frame > 0 && frame%wheelEvery == 0 {
		dst = fmt.Appendf(dst, "\x1b[<%d;%d;%dM", cfg.Input.WheelDownCode, col, row)
	}
	return dst
}

// Run renders job.Frames frames without a terminal.
func Run(ctx context.Context, cfg *config.Config, src noise.Source, job Config) (*Result, error) {
	job = job.normalized()
	s := sim.NewSession(cfg, src, job.Width, job.Height)

	res := &Result{
		Name:          job.Name,
		Source:        cfg.Noise.Source,
		Width:         job.Width,
		Height:        job.Height,
		Frames:        job.Frames,
		Precision:     cfg.Cache.Precision,
		MaxSize:       cfg.Cache.MaxSize,
		EvictFraction: cfg.Cache.EvictFraction,
		Workers:       cfg.Render.Workers,
		Samples:       make([]Sample, 0, job.Frames),
	}

	var input []byte
	var prev cache.Stats
	for i := 0; i < job.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("experiment: %s stopped at frame %d: %w", job.Name, i, err)
		}
		input = PointerInput(input[:0], cfg, i, job.Width, job.Height)

		start := time.Now()
		s.Feed(input)
		s.Step()
		d := time.Since(start)

		stats := s.CacheStats()
		frame := cache.Stats{Hits: stats.Hits - prev.Hits, Misses: stats.Misses - prev.Misses}
		prev = stats

		res.Elapsed += d
		res.Samples = append(res.Samples, Sample{
			Frame:    i,
			Duration: d,
			HitRatio: frame.HitRatio(),
			CacheLen: s.Status().CacheLen,
		})
	}

	st := s.State()
	res.Stats = s.CacheStats()
	res.CacheLen = s.Status().CacheLen
	res.MinObserved = st.MinObserved
	res.MaxObserved = st.MaxObserved
	return res, nil
}
