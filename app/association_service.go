package app

import (
	"context"
	"fmt"
	"time"

	"gostrata/adapters/battery"
	"gostrata/adapters/stats/association"
	"gostrata/adapters/stats/entropy"
	"gostrata/domain/core"
	"gostrata/domain/stats"
	"gostrata/internal"
)

// AssociationService scores how strongly a response depends on group labels
// and, on request, permutation-tests the score
type AssociationService struct {
	engine *battery.PermutationEngine
	logger *internal.Logger
}

// ContinuousRequest defines an IC computation
type ContinuousRequest struct {
	Response     []float64
	Labels       []int
	BinMethod    stats.BinMethod // empty selects stats.DefaultBinMethod
	Permutations int             // 0 computes the score only
	Seed         uint32
}

// DiscreteRequest defines an IN computation
type DiscreteRequest struct {
	Response     []int
	Labels       []int
	Permutations int // 0 computes the score only
	Seed         uint32
}

// NewAssociationService creates an association service
func NewAssociationService(engine *battery.PermutationEngine, logger *internal.Logger) *AssociationService {
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &AssociationService{
		engine: engine,
		logger: logger,
	}
}

// Continuous computes the continuous association score of a real response
func (s *AssociationService) Continuous(ctx context.Context, req ContinuousRequest) (*stats.AssociationResult, error) {
	method := req.BinMethod
	if method == "" {
		method = stats.DefaultBinMethod
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownBinMethod, method)
	}

	result := &stats.AssociationResult{
		Kind:       stats.KindContinuous,
		BinMethod:  method,
		SampleSize: len(req.Response),
		Groups:     len(entropy.Frequencies(req.Labels)),
		InputHash: core.NewFingerprint().
			String(string(stats.KindContinuous)).
			String(string(method)).
			Floats(req.Response).
			Ints(req.Labels).
			Uint64(uint64(req.Seed)).
			Uint64(uint64(req.Permutations)).
			Sum(),
	}

	err := score(ctx, s, result, battery.Statistic[float64, int](association.ContinuousStatistic(method)),
		req.Response, req.Labels, req.Seed, req.Permutations)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Discrete computes the discrete association score of a categorical response
func (s *AssociationService) Discrete(ctx context.Context, req DiscreteRequest) (*stats.AssociationResult, error) {
	result := &stats.AssociationResult{
		Kind:       stats.KindDiscrete,
		SampleSize: len(req.Response),
		Groups:     len(entropy.Frequencies(req.Labels)),
		InputHash: core.NewFingerprint().
			String(string(stats.KindDiscrete)).
			Ints(req.Response).
			Ints(req.Labels).
			Uint64(uint64(req.Seed)).
			Uint64(uint64(req.Permutations)).
			Sum(),
	}

	err := score(ctx, s, result, battery.Statistic[int, int](association.Discrete),
		req.Response, req.Labels, req.Seed, req.Permutations)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// score fills result with the statistic value and, when permutations > 0,
// the permutation p-value and null summary
func score[D any](ctx context.Context, s *AssociationService, result *stats.AssociationResult, stat battery.Statistic[D, int], d []D, labels []int, seed uint32, permutations int) error {
	if permutations < 0 {
		return core.NewInvalidArgumentError("permutations", fmt.Sprintf("negative count %d", permutations))
	}

	startTime := time.Now()
	result.RunID = core.NewRunID()
	result.Seed = seed
	log := s.logger.WithFields(map[string]interface{}{
		"run_id": result.RunID.String(),
		"kind":   string(result.Kind),
	})

	if permutations == 0 {
		value, err := stat(d, labels)
		if err != nil {
			return fmt.Errorf("%s score: %w", result.Kind, err)
		}
		result.Score = value
		result.RuntimeMs = time.Since(startTime).Milliseconds()
		log.Info("score=%.6f n=%d groups=%d in %s", value, result.SampleSize, result.Groups, time.Since(startTime))
		return nil
	}

	if s.engine == nil {
		return core.NewInvalidArgumentError("engine", "permutation testing requested without an engine")
	}

	perm, err := battery.Test(ctx, s.engine, stat, d, labels, seed, permutations)
	if err != nil {
		return fmt.Errorf("%s permutation test: %w", result.Kind, err)
	}

	pValue := perm.PValue
	null := perm.Summary
	result.Score = perm.Observed
	result.PValue = &pValue
	result.Permutations = perm.Permutations
	result.Null = &null
	result.RuntimeMs = time.Since(startTime).Milliseconds()

	log.Info("score=%.6f p=%.4f permutations=%d n=%d groups=%d in %s",
		result.Score, pValue, permutations, result.SampleSize, result.Groups, time.Since(startTime))
	return nil
}
