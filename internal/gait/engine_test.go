package gait

import (
	"bytes"
	"errors"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/integrators"
)

// lockedHopf runs at 1 Hz with k=20, σ=1 and an even stance share. Its
// anchor biases put legs 0-2 half a cycle from legs 3-5, which is where the
// network starts, so only the amplitude has to settle.
var lockedHopf = []float64{1.0 / 3, 0.5, 1.0 / 3, 0.5, 0, 1, 0, 0, 0, 0}

var _ = Describe("Engine", func() {
	Context("before Configure", func() {
		It("refuses to step", func() {
			eng := New(ClockV4)
			_, err := eng.Step(0)
			Expect(err).To(MatchError(dynamo.ErrNotConfigured))
			Expect(eng.Parameters()).To(BeNil())
			_, ok := eng.Snapshot()
			Expect(ok).To(BeFalse())
		})
	})

	Context("clock/v4 with every parameter at 0.5", func() {
		var eng *Engine

		BeforeEach(func() {
			eng = New(ClockV4)
			Expect(eng.Configure([]float64{0.5, 0.5, 0.5, 0.5})).To(Succeed())
		})

		It("decodes a 1.5 Hz gait", func() {
			d, ok := eng.Decoded()
			Expect(ok).To(BeTrue())
			Expect(d.Frequency).To(BeNumerically("~", 1.5, 1e-12))
			Expect(d.Period).To(BeNumerically("~", 2.0/3, 1e-12))
			Expect(d.Legs[0].DutyTime).To(BeNumerically("~", 1.0/3, 1e-12))
			Expect(d.Legs[0].Stance).To(BeNumerically("~", math.Pi/2, 1e-12))
			Expect(d.Legs[0].Offset).To(BeZero())
		})

		It("starts every leg at the back of its stance", func() {
			angles, err := eng.Step(0)
			Expect(err).NotTo(HaveOccurred())
			for _, a := range angles {
				Expect(a).To(BeNumerically("~", -math.Pi/4, 1e-12))
			}
		})

		It("completes one turn per period", func() {
			_, err := eng.Step(0)
			Expect(err).NotTo(HaveOccurred())
			angles, err := eng.Step(2.0 / 3)
			Expect(err).NotTo(HaveOccurred())
			for _, a := range angles {
				Expect(a).To(BeNumerically("~", -math.Pi/4+2*math.Pi, 1e-9))
			}
		})

		It("returns the same angles for a repeated time", func() {
			first, err := eng.Step(0.25)
			Expect(err).NotTo(HaveOccurred())
			second, err := eng.Step(0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("rejects time moving backwards without touching state", func() {
			before, err := eng.Step(0.5)
			Expect(err).NotTo(HaveOccurred())

			_, err = eng.Step(0.4)
			Expect(err).To(MatchError(dynamo.ErrTimeReversed))
			Expect(eng.Time()).To(Equal(0.5))

			after, err := eng.Step(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("keeps the old configuration when a new one is invalid", func() {
			before, err := eng.Step(0.2)
			Expect(err).NotTo(HaveOccurred())

			err = eng.Configure([]float64{0.5, 1.5, 0.5, 0.5})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			err = eng.Configure([]float64{0.5, 0.5})
			Expect(err).To(MatchError(dynamo.ErrInvalidParameterLength))
			err = eng.Configure([]float64{0.5, 0, 0.5, 0.5})
			Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))

			Expect(eng.Parameters()).To(Equal([]float64{0.5, 0.5, 0.5, 0.5}))
			after, err := eng.Step(0.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("resets time and state on a valid Configure", func() {
			_, err := eng.Step(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.Configure([]float64{0.5, 0.5, 0.5, 0.5})).To(Succeed())
			Expect(eng.Time()).To(BeZero())

			angles, err := eng.Step(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(angles[3]).To(BeNumerically("~", -math.Pi/4, 1e-12))
		})

		It("hands out copies of its parameters", func() {
			p := eng.Parameters()
			p[0] = 0.9
			Expect(eng.Parameters()[0]).To(Equal(0.5))
		})
	})

	Context("clock/v9 with phase offsets", func() {
		It("advances every leg by exactly one turn per period", func() {
			eng := New(ClockV9)
			Expect(eng.Configure([]float64{0.8, 0.6, 0.4, 0.7, 0.1, 0.3, 0.5, 0.7, 0.9})).To(Succeed())
			d, _ := eng.Decoded()

			a, err := eng.Step(0.3)
			Expect(err).NotTo(HaveOccurred())
			b, err := eng.Step(0.3 + d.Period)
			Expect(err).NotTo(HaveOccurred())
			for leg := range a {
				Expect(b[leg] - a[leg]).To(BeNumerically("~", 2*math.Pi, 1e-9))
			}
		})
	})

	Context("kuramoto/v6", func() {
		It("holds its tripod rhythm at one turn per period", func() {
			eng := New(KuramotoV6)
			Expect(eng.Configure([]float64{0.5, 0.5, 0.5, 0.5, 0.5, 1})).To(Succeed())
			d, _ := eng.Decoded()

			const dt = 0.001
			var prev Angles
			for i := 0; i <= 3000; i++ {
				angles, err := eng.Step(float64(i) * dt)
				Expect(err).NotTo(HaveOccurred())
				prev = angles
			}
			next, err := eng.Step(3 + d.Period)
			Expect(err).NotTo(HaveOccurred())
			for leg := range next {
				Expect(next[leg] - prev[leg]).To(BeNumerically("~", 2*math.Pi, 1e-6))
			}
			Expect(next[1] - next[0]).NotTo(BeNumerically("~", 0, 1e-3))
			Expect(next[2] - next[0]).To(BeNumerically("~", 0, 1e-6))
		})
	})

	Context("hopf/v10", func() {
		It("never moves a leg backwards once locked", func() {
			eng := New(HopfV10)
			Expect(eng.Configure(lockedHopf)).To(Succeed())

			const dt = 0.001
			var prev Angles
			for i := 0; i <= 10000; i++ {
				angles, err := eng.Step(float64(i) * dt)
				Expect(err).NotTo(HaveOccurred())
				if i > 2000 {
					for leg := range angles {
						Expect(angles[leg]).To(BeNumerically(">=", prev[leg]-1e-9), "leg %d at step %d", leg, i)
					}
				}
				prev = angles
			}
		})

		It("keeps walking uncoupled on rk4, whose orbit settles inside the amplitude", func() {
			uncoupled := []float64{1.0 / 3, 0.5, 0, 0.5, 0, 1, 0, 0, 0, 0}
			eng := New(HopfV10, WithIntegrator(integrators.NewRK4()))
			Expect(eng.Configure(uncoupled)).To(Succeed())

			const dt = 0.001
			var prev, at10, at20 Angles
			for i := 0; i <= 20000; i++ {
				angles, err := eng.Step(float64(i) * dt)
				Expect(err).NotTo(HaveOccurred())
				if i > 2000 {
					for leg := range angles {
						Expect(angles[leg]).To(BeNumerically(">=", prev[leg]-1e-9), "leg %d at step %d", leg, i)
					}
				}
				prev = angles
				switch i {
				case 10000:
					at10 = angles
				case 20000:
					at20 = angles
				}
			}
			for leg := range at20 {
				turns := (at20[leg] - at10[leg]) / (2 * math.Pi)
				Expect(turns).To(BeNumerically("~", 10, 0.5))
			}
		})

		It("turns about once per oscillator cycle", func() {
			eng := New(HopfV10, WithIntegrator(integrators.NewRK4()))
			Expect(eng.Configure(lockedHopf)).To(Succeed())

			const dt = 0.001
			var at5, at10 Angles
			for i := 0; i <= 10000; i++ {
				angles, err := eng.Step(float64(i) * dt)
				Expect(err).NotTo(HaveOccurred())
				switch i {
				case 5000:
					at5 = angles
				case 10000:
					at10 = angles
				}
			}
			for leg := range at10 {
				turns := (at10[leg] - at5[leg]) / (2 * math.Pi)
				Expect(turns).To(BeNumerically(">", 4))
				Expect(turns).To(BeNumerically("<", 6))
			}
		})

		It("reports divergence as a StepError and does not recover", func() {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			eng := New(HopfV10, WithLogger(logger))
			Expect(eng.Configure([]float64{1, 1, 1, 0.5, 0, 1, 1, 0, 1, 0})).To(Succeed())

			var err error
			var last float64
			for i := 1; i <= 20 && err == nil; i++ {
				last = float64(i) * 10
				_, err = eng.Step(last)
			}
			Expect(err).To(MatchError(dynamo.ErrNumericInstability))

			var stepErr *dynamo.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Time).To(Equal(last))
			Expect(stepErr.State.IsValid()).To(BeTrue())
			Expect(logs.String()).To(ContainSubstring("gait step failed"))

			_, err = eng.Step(last)
			Expect(err).To(MatchError(dynamo.ErrNumericInstability))
		})
	})

	Context("hopf/v5-full", func() {
		It("pulls even and odd legs into antiphase from a side-by-side start", func() {
			eng := New(HopfV5Full, WithIntegrator(integrators.NewRK4()))
			Expect(eng.Configure([]float64{1.0 / 3, 0.5, 1.0 / 3, 0.5, 0})).To(Succeed())

			const dt = 0.001
			var at10, at20 Angles
			for i := 0; i <= 20000; i++ {
				angles, err := eng.Step(float64(i) * dt)
				Expect(err).NotTo(HaveOccurred())
				switch i {
				case 10000:
					at10 = angles
				case 20000:
					at20 = angles
				}
			}

			snap, ok := eng.Snapshot()
			Expect(ok).To(BeTrue())
			s := snap.State
			phase := func(leg int) float64 { return math.Atan2(s[2*leg+1], s[2*leg]) }
			for leg := 1; leg < 6; leg++ {
				c := math.Cos(phase(leg) - phase(0))
				if leg%2 == 0 {
					Expect(c).To(BeNumerically(">", 0.9), "leg %d", leg)
				} else {
					Expect(c).To(BeNumerically("<", -0.9), "leg %d", leg)
				}
			}
			for leg := range at20 {
				// the pull of five neighbours slows the locked cycle a little below 1 Hz
				turns := (at20[leg] - at10[leg]) / (2 * math.Pi)
				Expect(turns).To(BeNumerically(">", 8))
				Expect(turns).To(BeNumerically("<", 11))
			}
		})
	})

	It("leaves network and unwrapper at the last good step when a leg's output is not finite", func() {
		eng := New(HopfV10)
		ref := New(HopfV10)
		Expect(eng.Configure(lockedHopf)).To(Succeed())
		Expect(ref.Configure(lockedHopf)).To(Succeed())

		const dt = 0.001
		for i := 0; i <= 1000; i++ {
			_, err := eng.Step(float64(i) * dt)
			Expect(err).NotTo(HaveOccurred())
			_, err = ref.Step(float64(i) * dt)
			Expect(err).NotTo(HaveOccurred())
		}
		before, _ := eng.Snapshot()
		unwrapBefore := *eng.unwrap

		offset := eng.decoded.Legs[3].Offset
		eng.decoded.Legs[3].Offset = math.NaN()
		_, err := eng.Step(1001 * dt)
		Expect(err).To(MatchError(dynamo.ErrNumericInstability))

		after, _ := eng.Snapshot()
		Expect(after.Time).To(Equal(before.Time))
		Expect(after.Steps).To(Equal(before.Steps))
		Expect(after.State).To(Equal(before.State))
		Expect(*eng.unwrap).To(Equal(unwrapBefore))

		eng.decoded.Legs[3].Offset = offset
		got, err := eng.Step(1001 * dt)
		Expect(err).NotTo(HaveOccurred())
		want, err := ref.Step(1001 * dt)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("rejects non-finite time", func() {
		eng := New(ClockV4)
		Expect(eng.Configure([]float64{0.5, 0.5, 0.5, 0.5})).To(Succeed())
		_, err := eng.Step(math.NaN())
		Expect(err).To(MatchError(dynamo.ErrNumericInstability))
		_, err = eng.Step(math.Inf(1))
		Expect(err).To(MatchError(dynamo.ErrNumericInstability))
	})
})
