package anim

import (
	"math"
	"testing"

	"github.com/san-kum/noisefield/internal/mouse"
)

func TestLinearFit(t *testing.T) {
	tests := []struct {
		name                   string
		exp1, act1, exp2, act2 float64
		m, b                   float64
	}{
		{"exposure", 0, -1, 255, 1, 127.5, 127.5},
		{"velocity", -1, 0, 1, 80, 0.025, -1},
		{"identity", 0, 0, 1, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, b := LinearFit(tt.exp1, tt.act1, tt.exp2, tt.act2)
			if math.Abs(m-tt.m) > 1e-12 || math.Abs(b-tt.b) > 1e-12 {
				t.Errorf("LinearFit = (%f, %f), want (%f, %f)", m, b, tt.m, tt.b)
			}
		})
	}
}

func TestVelocitySymmetryAtCenter(t *testing.T) {
	sizes := [][2]int{{80, 24}, {80, 23}, {81, 23}, {211, 57}, {1, 1}}
	for _, sz := range sizes {
		s := New(sz[0], sz[1], DefaultParams())
		s.Advance(sz[0], sz[1])
		if s.XVelocity != 0 || s.YVelocity != 0 {
			t.Errorf("%dx%d: velocity at center = (%g, %g), want (0, 0)", sz[0], sz[1], s.XVelocity, s.YVelocity)
		}
	}
}

func TestVelocityFollowsPointer(t *testing.T) {
	s := New(80, 24, DefaultParams())

	s.Apply(mouse.Event{Kind: mouse.Move, Col: 0, Row: 24})
	s.Advance(80, 24)
	if s.XVelocity != -1 || s.YVelocity != 1 {
		t.Errorf("velocity at corner = (%g, %g), want (-1, 1)", s.XVelocity, s.YVelocity)
	}

	s.Apply(mouse.Event{Kind: mouse.Move, Col: 60, Row: 6})
	s.Advance(80, 24)
	if math.Abs(s.XVelocity-0.5) > 1e-12 || math.Abs(s.YVelocity+0.5) > 1e-12 {
		t.Errorf("velocity = (%g, %g), want (0.5, -0.5)", s.XVelocity, s.YVelocity)
	}
	if math.Abs(s.XOffset-(-0.5)) > 1e-12 || math.Abs(s.YOffset-0.5) > 1e-12 {
		t.Errorf("offsets = (%g, %g), want (-0.5, 0.5)", s.XOffset, s.YOffset)
	}
	if s.FrameCount != 2 {
		t.Errorf("FrameCount = %d, want 2", s.FrameCount)
	}
}

func TestVelocityGain(t *testing.T) {
	p := DefaultParams()
	p.VelocityGain = 0.1
	s := New(100, 50, p)
	s.Apply(mouse.Event{Kind: mouse.Move, Col: 100, Row: 25})
	s.Advance(100, 50)
	if math.Abs(s.XVelocity-0.1) > 1e-12 || s.YVelocity != 0 {
		t.Errorf("velocity = (%g, %g), want (0.1, 0)", s.XVelocity, s.YVelocity)
	}
}

func TestWheelAdjustsZVelocity(t *testing.T) {
	s := New(80, 24, DefaultParams())
	s.ApplyAll([]mouse.Event{
		{Kind: mouse.WheelUp},
		{Kind: mouse.WheelUp},
		{Kind: mouse.WheelDown},
		{Kind: mouse.Key, Byte: 'x'},
		{Kind: mouse.Unrecognized},
	})
	if math.Abs(s.ZVelocity+0.01) > 1e-12 {
		t.Errorf("ZVelocity = %g, want -0.01", s.ZVelocity)
	}

	s.Advance(80, 24)
	s.Advance(80, 24)
	if math.Abs(s.ZOffset+0.02) > 1e-12 {
		t.Errorf("ZOffset = %g, want -0.02", s.ZOffset)
	}
}

func TestWidenNeverNarrows(t *testing.T) {
	s := New(10, 10, DefaultParams())
	s.Widen(-0.4, 0.6)
	s.Widen(-0.1, 0.2)
	s.Widen(math.NaN(), math.Inf(1))
	s.Widen(math.Inf(-1), math.NaN())

	if s.MinObserved != -0.4 || s.MaxObserved != 0.6 {
		t.Errorf("extrema = [%g, %g], want [-0.4, 0.6]", s.MinObserved, s.MaxObserved)
	}
}

func TestCalibrateCadence(t *testing.T) {
	p := DefaultParams()
	p.Cadence = 3
	s := New(10, 10, p)
	s.Widen(-0.5, 0.5)

	for frame := 1; frame <= 6; frame++ {
		s.Advance(10, 10)
		got := s.Calibrate()
		want := frame%3 == 0
		if got != want {
			t.Errorf("frame %d: Calibrate() = %v, want %v", frame, got, want)
		}
	}
	if math.Abs(s.Slope-255) > 1e-9 || math.Abs(s.Intercept-127.5) > 1e-9 {
		t.Errorf("exposure = (%g, %g), want (255, 127.5)", s.Slope, s.Intercept)
	}
}

func TestCalibrateSkipsDegenerateRange(t *testing.T) {
	s := New(10, 10, DefaultParams())
	for i := 0; i < DefaultCadence; i++ {
		s.Advance(10, 10)
	}
	if s.Calibrate() {
		t.Error("Calibrate() refit with an empty observed range")
	}
	if s.Slope != DefaultSlope || s.Intercept != DefaultIntercept {
		t.Errorf("exposure changed to (%g, %g)", s.Slope, s.Intercept)
	}
}

func TestNewNormalizesCadence(t *testing.T) {
	p := DefaultParams()
	p.Cadence = 0
	s := New(10, 10, p)
	if s.Params().Cadence != DefaultCadence {
		t.Errorf("Cadence = %d, want %d", s.Params().Cadence, DefaultCadence)
	}
}
