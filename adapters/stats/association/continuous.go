package association

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"gostrata/adapters/stats/entropy"
	"gostrata/domain/core"
	"gostrata/domain/stats"
)

// Groups partitions response by label. Keys come back in ascending order so
// every caller sums group contributions in the same order.
func Groups(response []float64, labels []int) ([]int, map[int][]float64) {
	grouped := make(map[int][]float64)
	for i, s := range labels {
		grouped[s] = append(grouped[s], response[i])
	}
	return slices.Sorted(maps.Keys(grouped)), grouped
}

// Squash maps a divergence into (-1, 1) with atan(x)/(pi/2)
func Squash(x float64) float64 {
	return math.Atan(x) / (math.Pi / 2)
}

// Continuous computes IC: the frequency-weighted squashed relative entropy of
// each group's response against the whole response.
//
//	IC = sum_g p(g) * atan(RE(d|g, d)) / (pi/2)
func Continuous(response []float64, labels []int, method stats.BinMethod) (float64, error) {
	if len(response) != len(labels) {
		return 0, core.NewLengthMismatchError("response", "labels", len(response), len(labels))
	}
	if len(response) == 0 {
		return 0, core.NewInsufficientDataError("response", 0, 1)
	}

	keys, grouped := Groups(response, labels)
	n := float64(len(labels))

	ic := 0.0
	for _, s := range keys {
		group := grouped[s]
		re, err := entropy.RelativeEntropy(group, response, method)
		if err != nil {
			return 0, fmt.Errorf("group %d: %w", s, err)
		}
		ic += float64(len(group)) / n * Squash(re)
	}
	return ic, nil
}

// ContinuousStatistic binds a bin method so IC fits the permutation engine
func ContinuousStatistic(method stats.BinMethod) func(response []float64, labels []int) (float64, error) {
	return func(response []float64, labels []int) (float64, error) {
		return Continuous(response, labels, method)
	}
}
