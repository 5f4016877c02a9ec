package anim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/noisefield/internal/anim"
	"github.com/san-kum/noisefield/internal/mouse"
)

var _ = Describe("State", func() {
	var s *anim.State

	BeforeEach(func() {
		s = anim.New(80, 23, anim.DefaultParams())
	})

	Describe("auto-exposure", func() {
		It("only ever widens the observed extrema", func() {
			samples := [][2]float64{{-0.2, 0.3}, {-0.7, 0.1}, {0, 0}, {-0.1, 0.9}, {-0.05, 0.05}}
			lo, hi := 0.0, 0.0
			for _, smp := range samples {
				s.Widen(smp[0], smp[1])
				Expect(s.MinObserved).To(BeNumerically("<=", lo))
				Expect(s.MaxObserved).To(BeNumerically(">=", hi))
				lo, hi = s.MinObserved, s.MaxObserved
			}
			Expect(s.MinObserved).To(Equal(-0.7))
			Expect(s.MaxObserved).To(Equal(0.9))
		})

		It("maps the observed range onto 0..255 after a refit", func() {
			s.Widen(-0.8, 0.8)
			for i := 0; i < anim.DefaultCadence; i++ {
				s.Advance(80, 23)
			}
			Expect(s.Calibrate()).To(BeTrue())
			Expect(s.MinObserved*s.Slope + s.Intercept).To(BeNumerically("~", 0, 1e-9))
			Expect(s.MaxObserved*s.Slope + s.Intercept).To(BeNumerically("~", 255, 1e-9))
		})

		It("keeps non-finite samples out of the feedback loop", func() {
			s.Widen(math.Inf(-1), math.NaN())
			Expect(s.MinObserved).To(BeZero())
			Expect(s.MaxObserved).To(BeZero())
		})
	})

	Describe("pointer control", func() {
		It("starts at rest in the middle of the grid", func() {
			s.Advance(80, 23)
			Expect(s.XVelocity).To(BeZero())
			Expect(s.YVelocity).To(BeZero())
		})

		DescribeTable("velocity sign follows the pointer side",
			func(col, row int, xSign, ySign float64) {
				s.Apply(mouse.Event{Kind: mouse.Move, Col: col, Row: row})
				s.Advance(80, 23)
				Expect(math.Copysign(1, s.XVelocity)).To(Equal(xSign))
				Expect(math.Copysign(1, s.YVelocity)).To(Equal(ySign))
			},
			Entry("top left", 1, 1, -1.0, -1.0),
			Entry("bottom right", 79, 22, 1.0, 1.0),
			Entry("top right", 70, 2, 1.0, -1.0),
		)

		It("recenters after a resize", func() {
			s.Apply(mouse.Event{Kind: mouse.Move, Col: 3, Row: 4})
			s.Recenter(120, 40)
			s.Advance(120, 40)
			Expect(s.XVelocity).To(BeZero())
			Expect(s.YVelocity).To(BeZero())
		})
	})
})
