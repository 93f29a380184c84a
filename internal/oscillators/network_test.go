package oscillators

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hexcpg/internal/coupling"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/integrators"
)

func run(net Network, integ dynamo.Integrator, dt, duration float64) {
	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		Expect(net.Advance(integ, float64(i)*dt, dt)).To(Succeed())
	}
}

var _ = Describe("Clock", func() {
	var (
		clock   *Clock
		offsets [dynamo.NumLegs]float64
	)

	BeforeEach(func() {
		offsets = [dynamo.NumLegs]float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}
		clock = NewClock(1.0, offsets)
	})

	It("starts every leg at its phase offset", func() {
		for leg := 0; leg < dynamo.NumLegs; leg++ {
			Expect(clock.Sample(leg).Cycle).To(BeNumerically("~", offsets[leg], 1e-12))
			Expect(clock.Sample(leg).Revolutions).To(BeZero())
		}
	})

	It("advances phase by dt independently per leg", func() {
		Expect(clock.Advance(integrators.NewEuler(), 0, 0.25)).To(Succeed())
		state := clock.State()
		for leg := range state {
			Expect(state[leg]).To(BeNumerically("~", offsets[leg]+0.25, 1e-12))
		}
	})

	It("folds the phase into the period and counts revolutions", func() {
		Expect(clock.Advance(integrators.NewEuler(), 0, 2.75)).To(Succeed())
		s := clock.Sample(5)
		Expect(s.Period).To(Equal(1.0))
		Expect(s.Cycle).To(BeNumerically("~", 0.25, 1e-12))
		Expect(s.Revolutions).To(Equal(3.0))
	})

	It("resets to the offsets", func() {
		Expect(clock.Advance(integrators.NewEuler(), 0, 3)).To(Succeed())
		clock.Reset()
		Expect(clock.Sample(2).Cycle).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("rejects a non-finite step without committing it", func() {
		before := clock.State()
		err := clock.Advance(integrators.NewEuler(), 0, math.Inf(1))
		Expect(err).To(MatchError(dynamo.ErrNumericInstability))
		Expect(clock.State()).To(Equal(before))
	})
})

var _ = Describe("Kuramoto", func() {
	const freq = 1.5

	It("reduces to independent oscillators when all weights are zero", func() {
		net := NewKuramoto(freq, coupling.AlternatingTripod(math.Pi, 0))
		start := net.State()
		run(net, integrators.NewEuler(), 0.001, 2)

		end := net.State()
		for leg := range end {
			Expect(end[leg] - start[leg]).To(BeNumerically("~", 2*math.Pi*freq*2, 1e-9))
		}
	})

	It("starts on the pattern encoded by the topology", func() {
		net := NewKuramoto(freq, coupling.AlternatingTripod(math.Pi, 1))
		Expect(math.Abs(net.PhaseLag(0, 1))).To(BeNumerically("~", math.Pi, 1e-12))
		Expect(net.PhaseLag(0, 2)).To(BeNumerically("~", 0, 1e-12))
	})

	It("pulls a perturbed network back into a tripod", func() {
		net := NewKuramoto(freq, coupling.AlternatingTripod(math.Pi, 1))
		net.phase[1] += 0.6
		net.phase[4] -= 0.4
		run(net, integrators.NewEuler(), 0.001, 5)

		for _, leg := range []int{1, 3, 5} {
			Expect(math.Abs(net.PhaseLag(0, leg))).To(BeNumerically("~", math.Pi, 1e-3))
		}
		for _, leg := range []int{2, 4} {
			Expect(net.PhaseLag(0, leg)).To(BeNumerically("~", 0, 1e-3))
		}
	})

	It("samples phase as seconds within a 1/f period", func() {
		net := NewKuramoto(freq, coupling.Uniform(0))
		run(net, integrators.NewEuler(), 0.01, 1)

		s := net.Sample(0)
		Expect(s.Period).To(BeNumerically("~", 1/freq, 1e-12))
		Expect(s.Revolutions).To(Equal(1.0))
		Expect(s.Cycle).To(BeNumerically("~", 1-1/freq, 1e-9))
	})

	It("bounds its rate by frequency plus the strongest coupling row", func() {
		net := NewKuramoto(freq, coupling.Uniform(2))
		Expect(net.MaxRate()).To(BeNumerically("~", freq+10/(2*math.Pi), 1e-12))
	})
})

var _ = Describe("Hopf", func() {
	params := HopfParams{Amplitude: 1, Freq: 1, K: 10, Sigma: 0, Stance: 0.5}

	It("starts the two tripods on opposite sides of the cycle", func() {
		h := NewHopf(params, coupling.Empty())
		s := h.State()
		Expect(s[0]).To(Equal(1.0))
		Expect(s[1]).To(Equal(-1.0))
		Expect(s[6]).To(Equal(-1.0))
		Expect(s[7]).To(Equal(1.0))
		for leg := 0; leg < dynamo.NumLegs; leg++ {
			Expect(h.Swing(leg)).To(BeFalse())
		}
	})

	It("converges onto the limit cycle radius", func() {
		h := NewHopf(params, coupling.Empty())
		run(h, integrators.NewRK4(), 0.001, 3)

		s := h.State()
		for leg := 0; leg < dynamo.NumLegs; leg++ {
			Expect(math.Hypot(s[2*leg], s[2*leg+1])).To(BeNumerically("~", 1, 1e-3))
		}
	})

	It("counts one revolution per cycle", func() {
		h := NewHopf(params, coupling.Empty())
		run(h, integrators.NewEuler(), 0.001, 10)

		for leg := 0; leg < dynamo.NumLegs; leg++ {
			Expect(h.Revolutions(leg)).To(BeNumerically("~", 10, 1))
		}
	})

	It("keeps turning on an orbit that settles inside the amplitude", func() {
		h := NewHopf(HopfParams{Amplitude: 1, Freq: 1, K: 20, Sigma: 0, Stance: 0.5}, coupling.Empty())
		integ := integrators.NewRK4()
		run(h, integ, 0.001, 10)

		var before [dynamo.NumLegs]int
		for leg := range before {
			before[leg] = h.Revolutions(leg)
		}
		for i := 10000; i < 20000; i++ {
			Expect(h.Advance(integ, float64(i)*0.001, 0.001)).To(Succeed())
		}
		for leg := 0; leg < dynamo.NumLegs; leg++ {
			Expect(h.Revolutions(leg) - before[leg]).To(BeNumerically("~", 10, 1))
		}
	})

	It("enters swing when y changes sign at the peak of x", func() {
		h := NewHopf(HopfParams{Amplitude: 1, Freq: 1, K: 20, Stance: 0.5}, coupling.Empty())
		integ := integrators.NewRK4()
		for i := range h.state {
			h.state[i] = 0
		}
		h.state[1] = -0.001
		h.state[0] = 0.999

		Expect(h.Advance(integ, 0, 0.001)).To(Succeed())
		Expect(h.State()[0]).To(BeNumerically("<", 1))
		Expect(h.Swing(0)).To(BeTrue())
		Expect(h.Revolutions(0)).To(Equal(0))
	})

	It("maps x onto the stance and swing arcs", func() {
		h := NewHopf(HopfParams{Amplitude: 2, Freq: 1, K: 1, Stance: 0.25}, coupling.Empty())

		h.state[0] = -2
		Expect(h.LandCouple(0)).To(BeNumerically("~", 0, 1e-12))
		h.state[0] = 2
		Expect(h.LandCouple(0)).To(BeNumerically("~", 0.5*math.Pi, 1e-12))

		h.swing[0] = true
		Expect(h.LandCouple(0)).To(BeNumerically("~", 0.5*math.Pi, 1e-12))
		h.state[0] = -2
		Expect(h.LandCouple(0)).To(BeNumerically("~", 2*math.Pi, 1e-12))

		h.state[0] = -2.5
		Expect(h.LandCouple(0)).To(BeNumerically("~", 2*math.Pi, 1e-12))
	})

	It("reaches the coupled pattern's relative phase through the spanning topology", func() {
		topo := coupling.Spanning(coupling.Anchors{Phi14: math.Pi, Phi12: math.Pi, Phi13: 0, Phi45: math.Pi, Phi46: 0}, 1)
		h := NewHopf(HopfParams{Amplitude: 1, Freq: 1, K: 20, Sigma: 1, Stance: 0.5}, topo)
		run(h, integrators.NewEuler(), 0.001, 10)

		Expect(h.State().IsValid()).To(BeTrue())
		for leg := 0; leg < dynamo.NumLegs; leg++ {
			Expect(h.Revolutions(leg)).To(BeNumerically(">", 5))
		}
	})

	It("reports divergence as numeric instability and keeps the last finite state", func() {
		h := NewHopf(HopfParams{Amplitude: 1, Freq: 1, K: 1e6, Stance: 0.5}, coupling.Empty())
		integ := integrators.NewEuler()

		var err error
		for i := 0; i < 50 && err == nil; i++ {
			err = h.Advance(integ, float64(i), 1)
		}
		Expect(err).To(MatchError(dynamo.ErrNumericInstability))
		Expect(h.State().IsValid()).To(BeTrue())
	})
})
