package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{5, 1, 4, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 2.0, s.Q25)
	assert.Equal(t, 4.0, s.Q75)
	assert.Equal(t, 5.0, s.P95)
	assert.InDelta(t, 0.0, s.Skewness, 1e-9)
	assert.Zero(t, s.Outliers)
}

func TestSummarize_Outliers(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 100})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Outliers)
	assert.Greater(t, s.Skewness, 0.0)
}

func TestSummarize_SmallAndConstant(t *testing.T) {
	s, err := Summarize([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Q25)
	assert.Equal(t, 7.0, s.P95)
	assert.Zero(t, s.Skewness)
	assert.Zero(t, s.Kurtosis)

	s, err = Summarize([]float64{2, 2, 2, 2})
	require.NoError(t, err)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.Skewness)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)
}

func TestSummary_Null(t *testing.T) {
	s, err := Summarize([]float64{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)

	null := s.Null()
	assert.Equal(t, s.Mean, null.Mean)
	assert.Equal(t, s.StdDev, null.StdDev)
	assert.Equal(t, 0.1, null.Min)
	assert.Equal(t, 0.4, null.Max)
	assert.Equal(t, 0.4, null.Percentile95)
}
