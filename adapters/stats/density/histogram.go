package density

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"gostrata/domain/core"
	"gostrata/domain/stats"
)

// DegenerateWidth is the width given to the single bin of a zero-range sample
const DegenerateWidth = 1.0

// DensityAuto estimates a density with an automatically selected bin count
func DensityAuto(sample []float64, method stats.BinMethod) (stats.DensityCurve, error) {
	h, err := Estimate(sample, method)
	if err != nil {
		return nil, err
	}
	return h.Curve(), nil
}

// DensityWithEdges estimates a density over caller-supplied bin edges
func DensityWithEdges(sample []float64, edges []float64) (stats.DensityCurve, error) {
	h, err := EstimateWithEdges(sample, edges)
	if err != nil {
		return nil, err
	}
	return h.Curve(), nil
}

// Estimate bins the sample uniformly over [min, max] with a bin count chosen
// by method. Each value goes to floor((v-min)/width); the index equal to the
// bin count is folded into the last bin so the right edge is closed.
func Estimate(sample []float64, method stats.BinMethod) (*stats.Histogram, error) {
	bins, err := SelectBinCount(sample, method)
	if err != nil {
		return nil, err
	}
	if i, ok := firstNonFinite(sample); ok {
		return nil, core.NewInvalidArgumentError("sample", fmt.Sprintf("value %d is not finite", i))
	}

	lo, hi := floats.Min(sample), floats.Max(sample)
	if hi == lo {
		return &stats.Histogram{
			Edges:  DegenerateEdges(lo),
			Counts: []int{len(sample)},
			N:      len(sample),
		}, nil
	}

	if math.IsInf(hi-lo, 0) {
		return nil, core.NewInvalidArgumentError("sample", fmt.Sprintf("range [%g, %g] overflows float64", lo, hi))
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range sample {
		idx := int(math.Floor((v - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	return &stats.Histogram{
		Edges:  UniformEdges(lo, hi, bins),
		Counts: counts,
		N:      len(sample),
	}, nil
}

// EstimateWithEdges counts values into half-open bins [edges[i], edges[i+1]).
// A value equal to the last edge is credited to the last bin. Values outside
// the edges are not counted but still contribute to n.
func EstimateWithEdges(sample []float64, edges []float64) (*stats.Histogram, error) {
	if len(sample) < MinSampleSize {
		return nil, core.NewInsufficientDataError("sample", len(sample), MinSampleSize)
	}
	if err := ValidateEdges(edges); err != nil {
		return nil, err
	}

	last := len(edges) - 1
	counts := make([]int, last)
	for _, v := range sample {
		if v == edges[last] {
			counts[last-1]++
			continue
		}
		// first edge strictly greater than v, minus one, is v's bin
		idx := sort.Search(len(edges), func(i int) bool { return edges[i] > v }) - 1
		if idx >= 0 && idx < last {
			counts[idx]++
		}
	}

	return &stats.Histogram{
		Edges:  append([]float64(nil), edges...),
		Counts: counts,
		N:      len(sample),
	}, nil
}

// ValidateEdges checks that edges has at least two strictly ascending, finite values
func ValidateEdges(edges []float64) error {
	if len(edges) < 2 {
		return fmt.Errorf("%w: need at least 2 edges, got %d", core.ErrInvalidBinEdges, len(edges))
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return fmt.Errorf("%w: edge %d is not finite", core.ErrInvalidBinEdges, i)
		}
		if i == 0 {
			continue
		}
		if e < edges[i-1] {
			return fmt.Errorf("%w: edges not ascending at %d (%g < %g)", core.ErrInvalidBinEdges, i, e, edges[i-1])
		}
		if e-edges[i-1] <= 0 {
			return fmt.Errorf("%w: bin %d has non-positive width", core.ErrInvalidBinEdges, i-1)
		}
	}
	return nil
}

// UniformEdges returns bins+1 edges spanning [lo, hi]. The last edge is hi
// exactly so a value equal to hi always lands in the last bin.
func UniformEdges(lo, hi float64, bins int) []float64 {
	if hi == lo {
		return DegenerateEdges(lo)
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

// DegenerateEdges is the single unit-width bin centred on v
func DegenerateEdges(v float64) []float64 {
	return []float64{v - DegenerateWidth/2, v + DegenerateWidth/2}
}

func firstNonFinite(sample []float64) (int, bool) {
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, true
		}
	}
	return 0, false
}
