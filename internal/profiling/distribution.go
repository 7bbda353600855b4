// Package profiling describes a sample's shape: location, spread, quartiles
// and tail behaviour. Used for CLI descriptions and null-distribution summaries.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	domainstats "gostrata/domain/stats"
)

// Summary holds descriptive statistics of one sample
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	P95      float64 `json:"p95"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	Outliers int     `json:"outliers"`
}

// Summarize computes the summary of data. Empty input is an error.
func Summarize(data []float64) (Summary, error) {
	s := Summary{N: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return s, err
	}

	// population standard deviation
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return s, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return s, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return s, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return s, err
	}

	// nearest rank is defined for every n >= 1
	q25, err := stats.PercentileNearestRank(data, 25)
	if err != nil {
		return s, err
	}

	q75, err := stats.PercentileNearestRank(data, 75)
	if err != nil {
		return s, err
	}

	p95, err := stats.PercentileNearestRank(data, 95)
	if err != nil {
		return s, err
	}

	s.Mean = mean
	s.StdDev = stdDev
	s.Min = min
	s.Max = max
	s.Median = median
	s.Q25 = q25
	s.Q75 = q75
	s.P95 = p95
	s.Skewness = calculateSkewness(data, mean, stdDev)
	s.Kurtosis = calculateKurtosis(data, mean, stdDev)
	s.Outliers = detectOutliers(data, q25, q75)

	return s, nil
}

// Null projects the summary onto the fields reported for a permutation null distribution
func (s Summary) Null() domainstats.NullSummary {
	return domainstats.NullSummary{
		Mean:         s.Mean,
		StdDev:       s.StdDev,
		Min:          s.Min,
		Max:          s.Max,
		Percentile95: s.P95,
	}
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n

	// Bias correction for sample skewness
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

// calculateKurtosis computes total (not excess) kurtosis with small-sample correction
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	excessKurtosis := sumFourthDeviations/n - 3

	correction := (n - 1) / ((n - 2) * (n - 3))
	excessKurtosis = excessKurtosis*correction + 6/(n+1)

	return excessKurtosis + 3
}

// detectOutliers counts values outside the 1.5·IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
