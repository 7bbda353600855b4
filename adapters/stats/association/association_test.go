package association

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostrata/domain/core"
	"gostrata/domain/stats"
	"gostrata/internal/testkit"
)

var (
	separatedResponse = []float64{1.0, 1.1, 5.0, 5.2, 1.05, 5.1}
	separatedLabels   = []int{0, 0, 1, 1, 0, 1}
)

func TestGroups_AscendingLabels(t *testing.T) {
	keys, grouped := Groups([]float64{1, 2, 3, 4}, []int{5, -1, 5, 2})
	assert.Equal(t, []int{-1, 2, 5}, keys)
	assert.Equal(t, []float64{1, 3}, grouped[5])
	assert.Equal(t, []float64{2}, grouped[-1])
}

func TestSquash(t *testing.T) {
	assert.Equal(t, 0.0, Squash(0))
	assert.InDelta(t, 0.5, Squash(1), 1e-12)
	assert.InDelta(t, -0.5, Squash(-1), 1e-12)
	assert.Less(t, Squash(1e12), 1.0)
	assert.Greater(t, Squash(1e12), 0.999)
}

func TestContinuous_SeparatedGroupsHaveNoForeignMass(t *testing.T) {
	// each group's range contains only its own values, so every relative
	// entropy compares a histogram with itself
	ic, err := Continuous(separatedResponse, separatedLabels, stats.BinSturges)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ic, 1e-12)
}

func TestContinuous_InterleavedGroups(t *testing.T) {
	// group 0 = {1.0, 5.0, 1.05}, group 1 = {1.1, 5.2, 5.1}: both span most of the data
	ic, err := Continuous(separatedResponse, []int{0, 1, 0, 1, 0, 1}, stats.BinSturges)
	require.NoError(t, err)
	assert.InDelta(t, 0.0081929, ic, 1e-6)
}

func TestContinuous_ShapeDifference(t *testing.T) {
	gs := testkit.NewSampleGenerator(2).SpreadVsPeak(100)

	for _, m := range stats.BinMethods() {
		ic, err := Continuous(gs.Response, gs.Labels, m)
		require.NoError(t, err, "method %s", m)
		assert.Greater(t, ic, 0.05, "method %s", m)
		assert.Less(t, ic, 1.0, "method %s", m)
	}
}

func TestContinuous_LabelOrderDoesNotMatter(t *testing.T) {
	gs := testkit.NewSampleGenerator(4).SpreadVsPeak(50)

	relabeled := make([]int, len(gs.Labels))
	for i, l := range gs.Labels {
		relabeled[i] = 10 - l // same partition, reversed label order
	}

	a, err := Continuous(gs.Response, gs.Labels, stats.BinRice)
	require.NoError(t, err)
	b, err := Continuous(gs.Response, relabeled, stats.BinRice)
	require.NoError(t, err)
	assert.InDelta(t, a, b, 1e-12)
}

func TestContinuous_Deterministic(t *testing.T) {
	gs := testkit.NewSampleGenerator(6).ShiftedGroups(40, 1, 0, 0.5, 1, 1.5)

	first, err := Continuous(gs.Response, gs.Labels, stats.BinFreedmanDiaconis)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Continuous(gs.Response, gs.Labels, stats.BinFreedmanDiaconis)
		require.NoError(t, err)
		assert.Equal(t, first, again, "IC must be bit-identical across calls")
	}
}

func TestContinuous_Errors(t *testing.T) {
	_, err := Continuous([]float64{1, 2, 3}, []int{0, 1}, stats.BinSturges)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = Continuous(nil, nil, stats.BinSturges)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = Continuous(separatedResponse, separatedLabels, stats.BinMethod("Doane"))
	assert.ErrorIs(t, err, core.ErrUnknownBinMethod)

	// a singleton group with a unique value cannot be density-estimated
	_, err = Continuous([]float64{1, 2, 3, 4}, []int{0, 0, 0, 1}, stats.BinSturges)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	// finite values whose range overflows
	_, err = Continuous([]float64{-1e308, 1e308, -1e308, 1e308}, []int{0, 0, 1, 1}, stats.BinSturges)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestContinuousStatistic(t *testing.T) {
	stat := ContinuousStatistic(stats.BinSturges)
	got, err := stat(separatedResponse, []int{0, 1, 0, 1, 0, 1})
	require.NoError(t, err)

	want, err := Continuous(separatedResponse, []int{0, 1, 0, 1, 0, 1}, stats.BinSturges)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDiscrete(t *testing.T) {
	tests := []struct {
		name      string
		d, s      []int
		want      float64
		tolerance float64
	}{
		{"deterministic", []int{5, 5, 9, 9}, []int{0, 0, 1, 1}, 1, 0},
		{"independent", []int{5, 9, 5, 9}, []int{0, 0, 1, 1}, 0, 1e-12},
		// H(d) = 1.5 ln2 over {1:1/4, 2:1/4, 3:1/2}, H(d|s) = 0.5 ln2
		{"partial", []int{1, 2, 3, 3}, []int{0, 0, 1, 1}, 2.0 / 3.0, 1e-12},
		{"constant response", []int{4, 4, 4}, []int{0, 1, 2}, 0, 0},
		{"labels unique", []int{1, 2, 3}, []int{7, 8, 9}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discrete(tt.d, tt.s)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestDiscrete_IndependentLargeSample(t *testing.T) {
	gen := testkit.NewSampleGenerator(17)
	d := gen.Labels(20000, 4)
	s := gen.Labels(20000, 3)

	got, err := Discrete(d, s)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.Less(t, got, 0.01)
}

func TestDiscrete_FunctionOfLabels(t *testing.T) {
	gen := testkit.NewSampleGenerator(18)
	s := gen.Labels(500, 6)
	d := testkit.FunctionOf(s, func(v int) int { return v % 3 })

	got, err := Discrete(d, s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	// the reverse direction loses information: knowing d=v%3 leaves two candidates for s
	rev, err := Discrete(s, d)
	require.NoError(t, err)
	assert.Less(t, rev, 1.0)
	assert.Greater(t, rev, 0.0)
}

func TestDiscrete_Bounded(t *testing.T) {
	gen := testkit.NewSampleGenerator(19)
	for i := 0; i < 20; i++ {
		d := gen.Labels(30, 5)
		s := gen.Labels(30, 4)
		got, err := Discrete(d, s)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(got))
		assert.GreaterOrEqual(t, got, -1e-12)
		assert.LessOrEqual(t, got, 1+1e-12)
	}
}

func TestDiscrete_Errors(t *testing.T) {
	_, err := Discrete([]int{1, 2}, []int{1})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = Discrete(nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
