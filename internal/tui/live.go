// Package tui runs the noise field directly on a raw terminal, writing each
// frame with one escape-sequence write.
package tui

import (
	"context"
	"fmt"

	"github.com/san-kum/noisefield/internal/config"
	"github.com/san-kum/noisefield/internal/logs"
	"github.com/san-kum/noisefield/internal/metrics"
	"github.com/san-kum/noisefield/internal/noise"
	"github.com/san-kum/noisefield/internal/sim"
	"github.com/san-kum/noisefield/internal/term"
	"github.com/san-kum/noisefield/internal/viz"
)

// Screen is the terminal the loop draws on. term.Terminal implements it.
type Screen interface {
	Size() (cols, rows int)
	ReadAvailable() ([]byte, error)
	Write(p []byte) error
}

type Live struct {
	screen  Screen
	cfg     *config.Config
	session *sim.Session
	pacer   *metrics.Pacer
	termW   int
	out     []byte
}

func NewLive(screen Screen, cfg *config.Config, src noise.Source) *Live {
	cols, rows := screen.Size()
	w, h := sim.GridSize(cfg, cols, rows)
	return &Live{
		screen:  screen,
		cfg:     cfg,
		session: sim.NewSession(cfg, src, w, h),
		pacer:   metrics.NewPacer(cfg.FPS),
		termW:   cols,
	}
}

func (l *Live) Session() *sim.Session { return l.session }

// Run draws frames until a quit key arrives or ctx is done.
func (l *Live) Run(ctx context.Context) error {
	defer l.session.Close()

	interval := l.cfg.SizeCheckInterval
	if interval <= 0 {
		interval = config.DefaultSizeCheckInterval
	}

	for frame := 0; ; frame++ {
		if ctx.Err() != nil {
			return nil
		}
		l.session.Observe(l.pacer.Begin())

		if frame > 0 && frame%interval == 0 {
			cols, rows := l.screen.Size()
			l.termW = cols
			l.session.Resize(sim.GridSize(l.cfg, cols, rows))
		}

		chunk, err := l.screen.ReadAvailable()
		if err != nil {
			return fmt.Errorf("tui: read input: %w", err)
		}
		if l.session.Feed(chunk) {
			logs.LogV("[exit] quit key")
			return nil
		}

		rows := l.session.Step().Rows
		header := viz.Header(l.session.Status(), l.termW, l.cfg.FPS)
		l.out = term.Compose(l.out[:0], header, rows)
		if err := l.screen.Write(l.out); err != nil {
			return fmt.Errorf("tui: write frame: %w", err)
		}

		l.pacer.Wait(ctx)
	}
}

// Run takes over the controlling terminal and runs the field on it.
func Run(ctx context.Context, cfg *config.Config, src noise.Source) error {
	t, err := term.Open()
	if err != nil {
		return err
	}
	defer t.Close()
	return NewLive(t, cfg, src).Run(ctx)
}
