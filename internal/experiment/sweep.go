package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/hexcpg/internal/config"
)

// SweepSpec varies one entry of the base parameter vector over Values.
type SweepSpec struct {
	Base    *config.Config
	Index   int
	Values  []float64
	Workers int

	// Score rates a finished trace; lower is better.
	Score func(*Trace) float64
}

type SweepPoint struct {
	Value float64
	Trace *Trace
	Score float64

	// Err holds a configuration error for this value. Such points are
	// skipped, not fatal.
	Err error
}

// Linspace returns n evenly spaced values covering [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Sweep runs one engine per value in parallel. Points come back in the order
// of spec.Values.
func Sweep(ctx context.Context, spec SweepSpec, logger *slog.Logger) ([]SweepPoint, error) {
	if spec.Base == nil {
		return nil, fmt.Errorf("sweep: no base configuration")
	}
	if spec.Index < 0 || spec.Index >= len(spec.Base.Params) {
		return nil, fmt.Errorf("sweep: parameter index %d out of range [0, %d)", spec.Index, len(spec.Base.Params))
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]SweepPoint, len(spec.Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range spec.Values {
		g.Go(func() error {
			cfg := spec.Base.Clone()
			cfg.Params[spec.Index] = v
			points[i] = SweepPoint{Value: v, Score: math.Inf(1)}

			trace, err := Run(ctx, cfg, logger)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				points[i].Err = err
				return nil
			}
			points[i].Trace = trace
			if spec.Score != nil {
				points[i].Score = spec.Score(trace)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Best returns the scored point with the lowest score.
func Best(points []SweepPoint) (SweepPoint, bool) {
	ranked := make([]SweepPoint, 0, len(points))
	for _, p := range points {
		if p.Err == nil && p.Trace != nil && !math.IsNaN(p.Score) {
			ranked = append(ranked, p)
		}
	}
	if len(ranked) == 0 {
		return SweepPoint{}, false
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })
	return ranked[0], true
}
