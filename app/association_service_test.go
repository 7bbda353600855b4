package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostrata/adapters/battery"
	"gostrata/adapters/rng"
	"gostrata/adapters/stats/association"
	"gostrata/domain/core"
	"gostrata/domain/stats"
	"gostrata/internal"
	"gostrata/internal/testkit"
)

func newService(t *testing.T) (*AssociationService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := internal.NewLoggerTo(&buf, internal.LogLevelInfo)
	engine := battery.NewPermutationEngine(rng.NewAdapter(), battery.WithWorkers(4), battery.WithLogger(logger))
	return NewAssociationService(engine, logger), &buf
}

func TestAssociationService_ContinuousScoreOnly(t *testing.T) {
	svc, logs := newService(t)
	response := []float64{1.0, 1.1, 5.0, 5.2, 1.05, 5.1}
	labels := []int{0, 1, 0, 1, 0, 1}

	res, err := svc.Continuous(context.Background(), ContinuousRequest{Response: response, Labels: labels})
	require.NoError(t, err)

	want, err := association.Continuous(response, labels, stats.BinSturges)
	require.NoError(t, err)

	assert.Equal(t, stats.KindContinuous, res.Kind)
	assert.Equal(t, stats.BinSturges, res.BinMethod)
	assert.Equal(t, want, res.Score)
	assert.Nil(t, res.PValue)
	assert.Nil(t, res.Null)
	assert.Equal(t, 6, res.SampleSize)
	assert.Equal(t, 2, res.Groups)
	assert.False(t, res.RunID.IsEmpty())
	assert.False(t, res.Significant(0.05))
	assert.Contains(t, logs.String(), "run_id="+res.RunID.String())
}

func TestAssociationService_ContinuousPermutation(t *testing.T) {
	svc, _ := newService(t)
	gs := testkit.NewSampleGenerator(2).SpreadVsPeak(100)

	res, err := svc.Continuous(context.Background(), ContinuousRequest{
		Response:     gs.Response,
		Labels:       gs.Labels,
		BinMethod:    stats.BinSturges,
		Permutations: 200,
		Seed:         42,
	})
	require.NoError(t, err)

	require.NotNil(t, res.PValue)
	require.NotNil(t, res.Null)
	assert.Equal(t, 200, res.Permutations)
	assert.Equal(t, uint32(42), res.Seed)
	assert.True(t, res.Significant(0.05))
}

func TestAssociationService_Discrete(t *testing.T) {
	svc, _ := newService(t)
	labels := testkit.NewSampleGenerator(3).BalancedLabels(45, 3)
	response := testkit.FunctionOf(labels, func(v int) int { return v + 10 })

	res, err := svc.Discrete(context.Background(), DiscreteRequest{Response: response, Labels: labels})
	require.NoError(t, err)
	assert.Equal(t, stats.KindDiscrete, res.Kind)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 3, res.Groups)
	assert.Empty(t, res.BinMethod)

	tested, err := svc.Discrete(context.Background(), DiscreteRequest{Response: response, Labels: labels, Permutations: 500, Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, res.Score, tested.Score)
	assert.True(t, tested.Significant(0.05))
	assert.NotEqual(t, res.RunID, tested.RunID)
}

func TestAssociationService_Reproducible(t *testing.T) {
	svc, _ := newService(t)
	gs := testkit.NewSampleGenerator(5).ShiftedGroups(20, 1, 0, 0.5)
	req := ContinuousRequest{Response: gs.Response, Labels: gs.Labels, BinMethod: stats.BinRice, Permutations: 300, Seed: 77}

	a, err := svc.Continuous(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Continuous(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, *a.PValue, *b.PValue)
	assert.Equal(t, *a.Null, *b.Null)
	assert.Equal(t, a.InputHash, b.InputHash)
	assert.NotEqual(t, a.RunID, b.RunID)

	req.Seed = 78
	c, err := svc.Continuous(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, a.InputHash, c.InputHash)
}

func TestAssociationService_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Continuous(ctx, ContinuousRequest{Response: []float64{1, 2}, Labels: []int{0}})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = svc.Continuous(ctx, ContinuousRequest{Response: []float64{1, 2}, Labels: []int{0, 1}, BinMethod: "Doane"})
	assert.ErrorIs(t, err, core.ErrUnknownBinMethod)

	_, err = svc.Discrete(ctx, DiscreteRequest{Response: []int{1, 2}, Labels: []int{0, 1}, Permutations: -1})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	noEngine := NewAssociationService(nil, nil)
	_, err = noEngine.Discrete(ctx, DiscreteRequest{Response: []int{1, 2}, Labels: []int{0, 1}, Permutations: 10})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	score, err := noEngine.Discrete(ctx, DiscreteRequest{Response: []int{1, 2}, Labels: []int{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, score.Score)
}
