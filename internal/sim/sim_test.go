package sim_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/georgpou/particlebox/internal/scene"
	"github.com/georgpou/particlebox/internal/sim"
	"github.com/georgpou/particlebox/internal/view"
)

// fakeEngine scripts the backend side of the contract. Positions and
// sizes beyond the scripted values fall back to harmless defaults; an
// operation named in failOn fails.
type fakeEngine struct {
	log       *[]string
	positions []float64
	sizes     []float64
	failOn    string

	count      int
	sizesLen   int
	posLen     int
	initCalls  int
	stepCalls  int
	closeCalls int
}

func (e *fakeEngine) record(op string) {
	if e.log != nil {
		*e.log = append(*e.log, op)
	}
}

func (e *fakeEngine) fail(op string) error {
	if e.failOn == op {
		return fmt.Errorf("fake engine: %s failed", op)
	}
	return nil
}

func (e *fakeEngine) Init(count int, rMin, rMax, vMax float64) error {
	e.record("init")
	if err := e.fail("init"); err != nil {
		return err
	}
	e.count = count
	e.initCalls++
	return nil
}

func (e *fakeEngine) Sizes(dst []float64) error {
	e.record("sizes")
	if err := e.fail("sizes"); err != nil {
		return err
	}
	e.sizesLen = len(dst)
	for i := range dst {
		if i < len(e.sizes) {
			dst[i] = e.sizes[i]
		} else {
			dst[i] = 0.02
		}
	}
	return nil
}

func (e *fakeEngine) Positions(dst []float64) error {
	e.record("positions")
	if err := e.fail("positions"); err != nil {
		return err
	}
	e.posLen = len(dst)
	for i := range dst {
		if i < len(e.positions) {
			dst[i] = e.positions[i]
		} else {
			dst[i] = 0
		}
	}
	return nil
}

func (e *fakeEngine) CollisionCheck() error {
	e.record("collision")
	return e.fail("collision")
}

func (e *fakeEngine) BoundaryCheck() error {
	e.record("boundary")
	return e.fail("boundary")
}

func (e *fakeEngine) Step() error {
	e.record("step")
	if err := e.fail("step"); err != nil {
		return err
	}
	e.stepCalls++
	return nil
}

func (e *fakeEngine) Close() error {
	e.record("close")
	if err := e.fail("close"); err != nil {
		return err
	}
	e.closeCalls++
	return nil
}

type presentCall struct {
	reset bool
	axes  bool
}

// fakeScene records registrations and presentations and requests an
// exit after closeAfter frames.
type fakeScene struct {
	added       []scene.Renderable
	removed     []scene.Renderable
	presents    []presentCall
	closeAfter  int
	failPresent bool
}

func (s *fakeScene) Add(r scene.Renderable) error {
	s.added = append(s.added, r)
	return nil
}

func (s *fakeScene) Remove(r scene.Renderable) {
	s.removed = append(s.removed, r)
}

func (s *fakeScene) Present(reset, axes bool) error {
	if s.failPresent {
		return scene.ErrClosed
	}
	s.presents = append(s.presents, presentCall{reset, axes})
	return nil
}

func (s *fakeScene) ShouldClose() bool {
	return s.closeAfter > 0 && len(s.presents) >= s.closeAfter
}

// bareScene has no exit capability at all.
type bareScene struct {
	presents int
}

func (s *bareScene) Add(r scene.Renderable) error { return nil }

func (s *bareScene) Remove(r scene.Renderable) {}

func (s *bareScene) Present(reset, axes bool) error {
	s.presents++
	return nil
}

func paramsN(n int) sim.Params {
	return sim.Params{Count: n, RadiusMin: 0.015, RadiusMax: 0.045, VelocityMax: 0.009}
}

var _ = Describe("Simulation", func() {
	var (
		eng *fakeEngine
		sc  *fakeScene
	)

	BeforeEach(func() {
		eng = &fakeEngine{
			positions: []float64{0.1, 0.2, 0.3, 0.4},
			sizes:     []float64{0.02, 0.03},
		}
		sc = &fakeScene{}
	})

	Describe("New", func() {
		It("sizes every buffer to the population", func() {
			s, err := sim.New(sc, eng, paramsN(20), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(eng.count).To(Equal(20))
			Expect(eng.sizesLen).To(Equal(20))
			Expect(eng.posLen).To(Equal(40))
			Expect(s.Collection().Len()).To(Equal(20))
			Expect(sc.added).To(HaveLen(20))
		})

		It("rejects parameter sets the contract does not admit", func() {
			bad := []sim.Params{
				{Count: 0, RadiusMin: 0.01, RadiusMax: 0.02, VelocityMax: 0.01},
				{Count: -3, RadiusMin: 0.01, RadiusMax: 0.02, VelocityMax: 0.01},
				{Count: 5, RadiusMin: 0, RadiusMax: 0.02, VelocityMax: 0.01},
				{Count: 5, RadiusMin: 0.03, RadiusMax: 0.02, VelocityMax: 0.01},
				{Count: 5, RadiusMin: 0.01, RadiusMax: 0.02, VelocityMax: 0},
			}
			for _, p := range bad {
				_, err := sim.New(sc, eng, p, view.Config{})
				Expect(err).To(MatchError(sim.ErrBadParams))
			}
			Expect(eng.initCalls).To(BeZero())
		})

		It("propagates an engine allocation failure", func() {
			eng.failOn = "init"
			_, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).To(MatchError(ContainSubstring("engine init")))
		})
	})

	Describe("Step", func() {
		It("mirrors engine positions into the scene with z pinned to zero", func() {
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.Step()).To(Succeed())

			c := s.Collection()
			Expect(c.Particle(0).Center()).To(Equal(scene.Vec3{X: 0.1, Y: 0.2, Z: 0}))
			Expect(c.Particle(1).Center()).To(Equal(scene.Vec3{X: 0.3, Y: 0.4, Z: 0}))
		})

		It("asks the engine for collisions, bounds, step, positions, in that order", func() {
			log := []string{}
			eng.log = &log
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			log = log[:0]
			Expect(s.Step()).To(Succeed())
			Expect(log).To(Equal([]string{"collision", "boundary", "step", "positions"}))
		})

		It("fires observers after each synchronization", func() {
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			var frames []int
			s.AddObserver(sim.ObserverFunc(func(frame int, pos []float64) {
				frames = append(frames, frame)
				Expect(pos).To(HaveLen(4))
			}))

			Expect(s.Step()).To(Succeed())
			Expect(s.Step()).To(Succeed())
			Expect(frames).To(Equal([]int{1, 2}))
		})
	})

	Describe("Run", func() {
		It("resets the camera exactly once, on the first frame", func() {
			sc.closeAfter = 5
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.Run(context.Background())).To(Succeed())

			Expect(sc.presents).To(HaveLen(5))
			Expect(sc.presents[0].reset).To(BeTrue())
			for _, call := range sc.presents[1:] {
				Expect(call.reset).To(BeFalse())
			}
		})

		It("stops after exactly as many cycles as the scene allows", func() {
			sc.closeAfter = 3
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.Run(context.Background())).To(Succeed())

			Expect(eng.stepCalls).To(Equal(3))
			Expect(sc.presents).To(HaveLen(3))
			Expect(s.Frames()).To(Equal(3))
		})

		It("treats a scene without the exit capability as never closing", func() {
			bare := &bareScene{}
			s, err := sim.New(bare, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			Expect(s.Run(ctx)).To(MatchError(context.DeadlineExceeded))
			Expect(bare.presents).To(BeNumerically(">", 0))
		})

		It("propagates a mid-run engine failure", func() {
			eng.failOn = "step"
			sc.closeAfter = 3
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.Run(context.Background())).To(MatchError(ContainSubstring("engine step")))
			Expect(sc.presents).To(BeEmpty())
		})

		It("propagates a presentation failure", func() {
			sc.failPresent = true
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.Run(context.Background())).To(MatchError(scene.ErrClosed))
		})
	})

	Describe("Close", func() {
		It("deallocates the engine exactly once across repeated calls", func() {
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Close()).To(Succeed())
			Expect(s.Close()).To(Succeed())

			Expect(eng.closeCalls).To(Equal(1))
			Expect(sc.removed).To(HaveLen(2))
		})

		It("refuses to run afterwards", func() {
			s, err := sim.New(sc, eng, paramsN(2), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Close()).To(Succeed())

			Expect(s.Step()).To(MatchError(sim.ErrClosed))
			Expect(s.Run(context.Background())).To(MatchError(sim.ErrClosed))
		})
	})

	Describe("Reconfigure", func() {
		It("releases the old population before allocating the new one", func() {
			log := []string{}
			eng.log = &log
			s, err := sim.New(sc, eng, paramsN(3), view.Config{})
			Expect(err).NotTo(HaveOccurred())

			next, err := s.Reconfigure(paramsN(5))
			Expect(err).NotTo(HaveOccurred())
			defer next.Close()

			Expect(log).To(Equal([]string{
				"init", "sizes", "positions",
				"close",
				"init", "sizes", "positions",
			}))
			Expect(next.Collection().Len()).To(Equal(5))
			Expect(sc.removed).To(HaveLen(3))
			Expect(sc.added).To(HaveLen(8))
			Expect(s.Step()).To(MatchError(sim.ErrClosed))
		})

		It("keeps the receiver intact when the new parameters are invalid", func() {
			s, err := sim.New(sc, eng, paramsN(3), view.Config{})
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = s.Reconfigure(sim.Params{})
			Expect(err).To(MatchError(sim.ErrBadParams))

			Expect(eng.closeCalls).To(BeZero())
			Expect(s.Step()).To(Succeed())
		})
	})
})

var _ = Describe("SpeedMeter", func() {
	It("averages per-frame displacement across the population", func() {
		m := sim.NewSpeedMeter(8)
		m.Frame(1, []float64{0, 0, 1, 1})
		m.Frame(2, []float64{0.3, 0.4, 1, 1})
		Expect(m.Last()).To(BeNumerically("~", 0.25, 1e-12))

		m.Frame(3, []float64{0.3, 0.4, 1, 1})
		Expect(m.Last()).To(BeZero())
		Expect(m.Mean()).To(BeNumerically("~", 0.125, 1e-12))
		Expect(m.History()).To(HaveLen(2))
	})

	It("bounds its history", func() {
		m := sim.NewSpeedMeter(3)
		for i := 0; i < 10; i++ {
			m.Frame(i+1, []float64{0, 0})
		}
		Expect(m.History()).To(HaveLen(3))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every member to the frame limit with consecutive seeds", func() {
		var (
			mu    sync.Mutex
			seeds []int64
		)
		ens := &sim.Ensemble{
			NewEngine: func(seed int64) (sim.Engine, error) {
				mu.Lock()
				seeds = append(seeds, seed)
				mu.Unlock()
				return &fakeEngine{
					positions: []float64{0.1, 0.2, 0.3, 0.4},
					sizes:     []float64{0.02, 0.03},
				}, nil
			},
			Params: paramsN(2),
			Frames: 4,
		}

		results, err := ens.Run(context.Background(), 3, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, r := range results {
			Expect(r.Seed).To(Equal(int64(7 + i)))
			Expect(r.Frames).To(Equal(4))
		}
		Expect(seeds).To(ConsistOf(int64(7), int64(8), int64(9)))
	})

	It("surfaces the first member failure", func() {
		ens := &sim.Ensemble{
			NewEngine: func(seed int64) (sim.Engine, error) {
				return &fakeEngine{failOn: "init"}, nil
			},
			Params: paramsN(2),
			Frames: 2,
		}
		_, err := ens.Run(context.Background(), 2, 0)
		Expect(err).To(HaveOccurred())
	})
})
