package sim

import (
	"context"
	"sync"
	"time"

	"github.com/georgpou/particlebox/internal/scene"
	"github.com/georgpou/particlebox/internal/view"
)

// Ensemble runs independent headless simulations in parallel, one
// engine and one surface per member, so nothing is shared between
// goroutines.
type Ensemble struct {
	// NewEngine builds a fresh backend for the given seed.
	NewEngine func(seed int64) (Engine, error)

	// Params is the population every member runs.
	Params Params

	// Frames bounds each member's run.
	Frames int
}

// RunResult summarizes one ensemble member.
type RunResult struct {
	Seed      int64
	Frames    int
	MeanSpeed float64
	Elapsed   time.Duration
}

// Run executes count members with consecutive seeds starting at seed0.
// Results arrive in member order; the first member error wins.
func (e *Ensemble) Run(ctx context.Context, count int, seed0 int64) ([]RunResult, error) {
	results := make([]RunResult, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, seed0+int64(idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, seed int64) (RunResult, error) {
	engine, err := e.NewEngine(seed)
	if err != nil {
		return RunResult{}, err
	}

	s, err := New(scene.NewHeadless(e.Frames), engine, e.Params, view.Config{})
	if err != nil {
		return RunResult{}, err
	}
	defer s.Close()

	meter := NewSpeedMeter(e.Frames)
	s.AddObserver(meter)

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		return RunResult{}, err
	}

	return RunResult{
		Seed:      seed,
		Frames:    s.Frames(),
		MeanSpeed: meter.Mean(),
		Elapsed:   time.Since(start),
	}, nil
}
