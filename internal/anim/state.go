package anim

import (
	"math"

	"github.com/san-kum/noisefield/internal/mouse"
)

const (
	DefaultSlope        = 127.5
	DefaultIntercept    = 127.5
	DefaultWheelStep    = 0.01
	DefaultVelocityGain = 1.0
	DefaultCadence      = 10
)

type Params struct {
	Slope        float64
	Intercept    float64
	WheelStep    float64
	VelocityGain float64
	// Cadence is the number of frames between exposure refits.
	Cadence int
}

func DefaultParams() Params {
	return Params{
		Slope:        DefaultSlope,
		Intercept:    DefaultIntercept,
		WheelStep:    DefaultWheelStep,
		VelocityGain: DefaultVelocityGain,
		Cadence:      DefaultCadence,
	}
}

type State struct {
	XOffset, YOffset, ZOffset       float64
	XVelocity, YVelocity, ZVelocity float64

	// MouseX and MouseY are in terminal cells; the center of an odd-sized grid
	// falls between cells.
	MouseX, MouseY float64

	Slope     float64
	Intercept float64

	MinObserved float64
	MaxObserved float64

	FrameCount int

	params Params
}

// New returns a state at rest with the pointer at the center of a
// width x height grid.
func New(width, height int, p Params) *State {
	if p.Cadence <= 0 {
		p.Cadence = DefaultCadence
	}
	s := &State{
		Slope:     p.Slope,
		Intercept: p.Intercept,
		params:    p,
	}
	s.Recenter(width, height)
	return s
}

func (s *State) Params() Params { return s.params }

// Recenter moves the pointer to the middle of the grid.
func (s *State) Recenter(width, height int) {
	s.MouseX = float64(width) / 2
	s.MouseY = float64(height) / 2
}

// Apply folds one input event into the state. Non-pointer events are ignored.
func (s *State) Apply(ev mouse.Event) {
	switch ev.Kind {
	case mouse.Move:
		s.MouseX = float64(ev.Col)
		s.MouseY = float64(ev.Row)
	case mouse.WheelUp:
		s.ZVelocity -= s.params.WheelStep
	case mouse.WheelDown:
		s.ZVelocity += s.params.WheelStep
	}
}

func (s *State) ApplyAll(events []mouse.Event) {
	for _, ev := range events {
		s.Apply(ev)
	}
}

// Advance steps one frame: velocities follow the pointer's deviation from the
// grid center, then every offset moves by its velocity.
func (s *State) Advance(width, height int) {
	s.FrameCount++

	s.XVelocity = s.params.VelocityGain * axisVelocity(s.MouseX, width)
	s.YVelocity = s.params.VelocityGain * axisVelocity(s.MouseY, height)

	s.XOffset += s.XVelocity
	s.YOffset += s.YVelocity
	s.ZOffset += s.ZVelocity
}

// axisVelocity maps pointer 0 to -1 and pointer extent to +1.
func axisVelocity(pos float64, extent int) float64 {
	if extent <= 0 {
		return 0
	}
	return Interpolate(-1, 0, 1, float64(extent), pos)
}

// Widen grows the observed extrema to include [lo, hi]. Non-finite bounds are
// ignored.
func (s *State) Widen(lo, hi float64) {
	if isFinite(lo) && lo < s.MinObserved {
		s.MinObserved = lo
	}
	if isFinite(hi) && hi > s.MaxObserved {
		s.MaxObserved = hi
	}
}

// Calibrate refits the exposure on cadence frames so that the observed minimum
// maps to 0 and the observed maximum to 255. It reports whether a refit
// happened.
func (s *State) Calibrate() bool {
	if s.FrameCount%s.params.Cadence != 0 {
		return false
	}
	if !(s.MaxObserved > s.MinObserved) {
		return false
	}
	s.Slope, s.Intercept = LinearFit(0, s.MinObserved, 255, s.MaxObserved)
	return true
}

// LinearFit returns m and b of the line through (act1, exp1) and (act2, exp2).
func LinearFit(exp1, act1, exp2, act2 float64) (m, b float64) {
	m = (exp2 - exp1) / (act2 - act1)
	b = exp1 - m*act1
	return m, b
}

// Interpolate evaluates the line through (act1, exp1) and (act2, exp2) at x.
// The midpoint of act1 and act2 maps exactly onto the midpoint of exp1 and exp2.
func Interpolate(exp1, act1, exp2, act2, x float64) float64 {
	return exp1 + (exp2-exp1)*((x-act1)/(act2-act1))
}

// Snapshot returns a copy safe to read while the original keeps changing.
func (s *State) Snapshot() State { return *s }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
