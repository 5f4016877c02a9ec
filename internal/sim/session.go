package sim

import (
	"time"

	"github.com/san-kum/noisefield/internal/anim"
	"github.com/san-kum/noisefield/internal/cache"
	"github.com/san-kum/noisefield/internal/config"
	"github.com/san-kum/noisefield/internal/logs"
	"github.com/san-kum/noisefield/internal/metrics"
	"github.com/san-kum/noisefield/internal/mouse"
	"github.com/san-kum/noisefield/internal/noise"
	"github.com/san-kum/noisefield/internal/render"
)

// Status is a read-only summary for the header line.
type Status struct {
	Width, Height int
	Frame         int

	MouseX, MouseY                  float64
	XVelocity, YVelocity, ZVelocity float64
	XOffset, YOffset, ZOffset       float64

	FPS      float64
	HitRatio float64
	CacheLen int
}

// Session owns everything one running field needs between frames. It is not
// safe for concurrent use.
type Session struct {
	renderer *render.Renderer
	state    *anim.State
	decoder  *mouse.Decoder
	monitor  *metrics.FrameMonitor
	cfg      *config.Config
}

func NewSession(cfg *config.Config, src noise.Source, width, height int) *Session {
	return &Session{
		renderer: render.NewRenderer(src, cfg.RenderOptions(width, height)),
		state:    anim.New(width, height, cfg.AnimParams()),
		decoder:  mouse.NewDecoder(cfg.MouseCodes()),
		monitor:  metrics.NewFrameMonitor(metrics.DefaultWindow),
		cfg:      cfg,
	}
}

// GridSize picks the field size for a terminal of termW x termH, keeping the
// top line for the header. Configured sizes are capped to the terminal.
func GridSize(cfg *config.Config, termW, termH int) (int, int) {
	w, h := termW, termH-1
	if cfg.Width > 0 && cfg.Width < w {
		w = cfg.Width
	}
	if cfg.Height > 0 && cfg.Height < h {
		h = cfg.Height
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (s *Session) State() *anim.State { return s.state }

func (s *Session) Size() (int, int) {
	return s.renderer.Width(), s.renderer.Height()
}

// Feed decodes raw input and applies it. It reports whether a quit key was
// pressed. An empty chunk still lets the decoder settle a held Escape.
func (s *Session) Feed(chunk []byte) bool {
	if len(chunk) == 0 && s.decoder.Pending() == 0 {
		return false
	}
	quit := false
	for _, ev := range s.decoder.Decode(chunk) {
		if s.Apply(ev) {
			quit = true
		}
	}
	return quit
}

// Apply folds one event into the state and reports whether it asks to quit.
func (s *Session) Apply(ev mouse.Event) bool {
	switch ev.Kind {
	case mouse.Key:
		return ev.Byte == 'q' || ev.Byte == 'Q' || ev.Byte == 0x03
	case mouse.Unrecognized:
		logs.LogV("[input] %s", ev)
	default:
		s.state.Apply(ev)
	}
	return false
}

// Step advances one frame and renders it.
func (s *Session) Step() render.Frame {
	w, h := s.Size()
	s.state.Advance(w, h)
	frame := s.renderer.Render(s.state)
	if s.state.Calibrate() {
		logs.LogV("[exposure] frame %d range [%.5f, %.5f] slope %.4f intercept %.4f",
			s.state.FrameCount, s.state.MinObserved, s.state.MaxObserved, s.state.Slope, s.state.Intercept)
	}
	return frame
}

// Resize adopts a new grid size. The caches are rebuilt and the pointer is
// recentered so the field comes to rest.
func (s *Session) Resize(width, height int) bool {
	if !s.renderer.Resize(width, height) {
		return false
	}
	s.state.Recenter(width, height)
	s.decoder.Reset()
	logs.LogV("[term] resized to %dx%d", width, height)
	return true
}

// Observe records the wall time of one whole frame.
func (s *Session) Observe(d time.Duration) {
	if d > 0 {
		s.monitor.Observe(d)
	}
}

func (s *Session) CacheStats() cache.Stats { return s.renderer.CacheStats() }

func (s *Session) Status() Status {
	st := s.state
	w, h := s.Size()
	return Status{
		Width:     w,
		Height:    h,
		Frame:     st.FrameCount,
		MouseX:    st.MouseX,
		MouseY:    st.MouseY,
		XVelocity: st.XVelocity,
		YVelocity: st.YVelocity,
		ZVelocity: st.ZVelocity,
		XOffset:   st.XOffset,
		YOffset:   st.YOffset,
		ZOffset:   st.ZOffset,
		FPS:       s.monitor.FPS(),
		HitRatio:  s.renderer.CacheStats().HitRatio(),
		CacheLen:  s.renderer.CacheLen(),
	}
}

// Close logs the final exposure range.
func (s *Session) Close() {
	logs.LogV("[exit] min %.5f max %.5f after %d frames", s.state.MinObserved, s.state.MaxObserved, s.state.FrameCount)
}
