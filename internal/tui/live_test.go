package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/noisefield/internal/config"
	"github.com/san-kum/noisefield/internal/noise"
)

type fakeScreen struct {
	cols, rows int
	inputs     []string
	reads      int
	sizeCalls  int
	frames     [][]byte
	readErr    error
}

func (s *fakeScreen) Size() (int, int) {
	s.sizeCalls++
	return s.cols, s.rows
}

func (s *fakeScreen) ReadAvailable() ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	i := s.reads
	s.reads++
	if i < len(s.inputs) {
		return []byte(s.inputs[i]), nil
	}
	return nil, nil
}

func (s *fakeScreen) Write(p []byte) error {
	s.frames = append(s.frames, bytes.Clone(p))
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.FPS = 1000
	return cfg
}

func flat() noise.Source {
	return noise.Func(func(x, y, z float64) float64 { return 0.1 })
}

func TestLiveQuitsOnKey(t *testing.T) {
	screen := &fakeScreen{cols: 20, rows: 6, inputs: []string{"", "\x1b[<35;3;2M", "", "q"}}
	live := NewLive(screen, testConfig(), flat())
	if err := live.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(screen.frames) != 3 {
		t.Fatalf("wrote %d frames, want 3", len(screen.frames))
	}

	st := live.Session().State()
	if st.MouseX != 3 || st.MouseY != 2 {
		t.Errorf("mouse = (%v, %v), want (3, 2)", st.MouseX, st.MouseY)
	}

	frame := string(screen.frames[0])
	if !strings.HasPrefix(frame, "\x1b[1;1H\x1b[0m") {
		t.Errorf("frame does not start at home: %q", frame[:16])
	}
	if got := strings.Count(frame, "\x1b[1E"); got != 6 {
		t.Errorf("frame has %d line moves, want 6", got)
	}
	if got := strings.Count(frame, "\x1b[48;2;"); got != 20*5 {
		t.Errorf("frame has %d cells, want 100", got)
	}
}

func TestLiveStopsOnCancel(t *testing.T) {
	screen := &fakeScreen{cols: 10, rows: 4}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewLive(screen, testConfig(), flat()).Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run ignored cancellation")
	}
	if len(screen.frames) == 0 {
		t.Error("no frames written before cancellation")
	}
}

func TestLiveChecksSize(t *testing.T) {
	cfg := testConfig()
	cfg.SizeCheckInterval = 2
	inputs := make([]string, 6)
	inputs[5] = "q"
	screen := &fakeScreen{cols: 10, rows: 4, inputs: inputs}
	live := NewLive(screen, cfg, flat())

	screen.cols, screen.rows = 16, 9
	if err := live.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w, h := live.Session().Size(); w != 16 || h != 8 {
		t.Errorf("Size() = %dx%d, want 16x8", w, h)
	}
	if screen.sizeCalls != 3 {
		t.Errorf("Size polled %d times, want 3", screen.sizeCalls)
	}
	if got := strings.Count(string(screen.frames[0]), "\x1b[48;2;"); got != 10*3 {
		t.Errorf("first frame has %d cells, want 30", got)
	}
}

func TestLiveReadError(t *testing.T) {
	boom := errors.New("boom")
	screen := &fakeScreen{cols: 10, rows: 4, readErr: boom}
	err := NewLive(screen, testConfig(), flat()).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}
