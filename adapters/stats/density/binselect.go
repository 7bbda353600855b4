package density

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"gostrata/domain/core"
	"gostrata/domain/stats"
)

const (
	// MinSampleSize is the smallest sample any bin rule or estimator accepts
	MinSampleSize = 2

	// MaxBins bounds width-derived rules when the spread estimate is tiny
	// compared to the range (e.g. a zero IQR with a few outliers).
	MaxBins = 1 << 16
)

// SelectBinCount maps a sample to a bin count using the named rule.
// The result is always >= 1; rules that derive a bin width clamp degenerate
// (zero, negative or non-finite) widths to a single bin.
func SelectBinCount(sample []float64, method stats.BinMethod) (int, error) {
	if len(sample) < MinSampleSize {
		return 0, core.NewInsufficientDataError("sample", len(sample), MinSampleSize)
	}
	if !method.Valid() {
		return 0, fmt.Errorf("%w: %q", core.ErrUnknownBinMethod, method)
	}

	sorted := slices.Clone(sample)
	slices.Sort(sorted)
	return binCount(sorted, method), nil
}

// binCount expects a sorted sample with len >= MinSampleSize and a valid method
func binCount(sorted []float64, method stats.BinMethod) int {
	n := float64(len(sorted))
	span := sorted[len(sorted)-1] - sorted[0]

	var bins float64
	switch method {
	case stats.BinSquareRoot:
		bins = math.Ceil(math.Sqrt(n))
	case stats.BinSturges:
		bins = math.Ceil(math.Log2(n) + 1)
	case stats.BinRice:
		bins = math.Ceil(2 * math.Cbrt(n))
	case stats.BinScott:
		width := 3.49 * stat.PopStdDev(sorted, nil) / math.Cbrt(n)
		bins = binsForWidth(span, width)
	case stats.BinFreedmanDiaconis:
		width := 2 * rankIQR(sorted) / math.Cbrt(n)
		bins = binsForWidth(span, width)
	}

	switch {
	case bins < 1 || math.IsNaN(bins):
		return 1
	case bins > MaxBins:
		return MaxBins
	}
	return int(bins)
}

func binsForWidth(span, width float64) float64 {
	if !(width > 0) || math.IsInf(width, 0) || !(span > 0) {
		return 1
	}
	return math.Ceil(span / width)
}

// rankIQR uses the rank positions n/4 and 3n/4 of the sorted sample, not
// interpolated quartiles. Bin counts downstream depend on this exact rule.
func rankIQR(sorted []float64) float64 {
	n := len(sorted)
	return sorted[3*n/4] - sorted[n/4]
}
