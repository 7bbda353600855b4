package battery

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"gostrata/domain/core"
	"gostrata/domain/stats"
	"gostrata/internal"
	"gostrata/internal/profiling"
	"gostrata/ports"
)

// Statistic scores a response sample d against a label sample s. It is called
// concurrently with the same s, so it must not modify its inputs.
type Statistic[D, S any] func(d []D, s []S) (float64, error)

// PermutationEngine runs Monte Carlo permutation tests
type PermutationEngine struct {
	rngPort ports.RNGPort
	workers int
	logger  *internal.Logger
}

// Option configures a PermutationEngine
type Option func(*PermutationEngine)

// WithWorkers bounds the number of concurrently running permutations.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *PermutationEngine) {
		e.workers = n
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *internal.Logger) Option {
	return func(e *PermutationEngine) {
		e.logger = logger
	}
}

// NewPermutationEngine creates an engine drawing task streams from rngPort
func NewPermutationEngine(rngPort ports.RNGPort, opts ...Option) *PermutationEngine {
	e := &PermutationEngine{rngPort: rngPort}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.logger == nil {
		e.logger = internal.NewDiscardLogger()
	}
	return e
}

// Workers returns the concurrency limit
func (e *PermutationEngine) Workers() int {
	return e.workers
}

// Test computes stat(d, s), then recomputes it on permutations independently
// shuffled copies of d. The p-value is the right-tailed share of permuted
// values greater than or equal to the observed one.
//
// Task i draws its shuffle from rngPort.TaskStream(seed, i) and writes only
// slot i of the null distribution, so the result is bit-identical for a
// given seed whatever the worker count. Any task failure fails the batch.
func Test[D, S any](ctx context.Context, e *PermutationEngine, stat Statistic[D, S], d []D, s []S, seed uint32, permutations int) (*stats.PermutationResult, error) {
	if e == nil {
		return nil, core.NewInvalidArgumentError("engine", "nil permutation engine")
	}
	if stat == nil {
		return nil, core.NewInvalidArgumentError("statistic", "nil statistic")
	}
	if permutations < 1 {
		return nil, core.NewInvalidArgumentError("permutations", fmt.Sprintf("need at least 1, got %d", permutations))
	}
	if len(d) != len(s) {
		return nil, core.NewLengthMismatchError("d", "s", len(d), len(s))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observed, err := stat(d, s)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("permutation test: n=%d permutations=%d workers=%d seed=%d observed=%.6f",
		len(d), permutations, e.workers, seed, observed)

	null := make([]float64, permutations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < permutations; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rng, err := e.rngPort.TaskStream(gctx, seed, i)
			if err != nil {
				return core.NewPermutationError(i, err)
			}

			shuffled := slices.Clone(d)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})

			value, err := stat(shuffled, s)
			if err != nil {
				return core.NewPermutationError(i, err)
			}
			null[i] = value
			return nil
		})
	}

	waitErr := g.Wait()
	// a cancelled run may have skipped slots; never aggregate it
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}

	extreme := 0
	for _, v := range null {
		if v >= observed {
			extreme++
		}
	}

	summary, err := profiling.Summarize(null)
	if err != nil {
		return nil, fmt.Errorf("summarize null distribution: %w", err)
	}

	result := &stats.PermutationResult{
		Observed:     observed,
		PValue:       float64(extreme) / float64(permutations),
		Permutations: permutations,
		Seed:         seed,
		Extreme:      extreme,
		Null:         null,
		Summary:      summary.Null(),
	}

	e.logger.Debug("permutation test done: p=%.4f extreme=%d null_mean=%.6f null_p95=%.6f",
		result.PValue, extreme, result.Summary.Mean, result.Summary.Percentile95)

	return result, nil
}
