package stats

import (
	"fmt"
	"strings"

	"gostrata/domain/core"
)

// ============================================================================
// BIN METHODS
// ============================================================================

// BinMethod names a rule that maps a sample to a histogram bin count
type BinMethod string

const (
	BinSquareRoot       BinMethod = "SquareRoot"
	BinSturges          BinMethod = "Sturges"
	BinRice             BinMethod = "Rice"
	BinScott            BinMethod = "Scott"
	BinFreedmanDiaconis BinMethod = "FreedmanDiaconis"
)

// DefaultBinMethod is used when callers do not pick a rule
const DefaultBinMethod = BinSturges

// BinMethods lists every supported rule in a stable order
func BinMethods() []BinMethod {
	return []BinMethod{BinSquareRoot, BinSturges, BinRice, BinScott, BinFreedmanDiaconis}
}

// ParseBinMethod resolves a method name. Matching is case-insensitive.
func ParseBinMethod(name string) (BinMethod, error) {
	for _, m := range BinMethods() {
		if strings.EqualFold(string(m), strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownBinMethod, name)
}

// Valid reports whether m is a known rule
func (m BinMethod) Valid() bool {
	for _, known := range BinMethods() {
		if m == known {
			return true
		}
	}
	return false
}

func (m BinMethod) String() string { return string(m) }

// ============================================================================
// DENSITY
// ============================================================================

// DensityPoint is one histogram bin reduced to its center and density
type DensityPoint struct {
	Center  float64 `json:"center"`
	Density float64 `json:"density"`
}

// DensityCurve is ordered by increasing bin center, one point per bin
type DensityCurve []DensityPoint

// Densities returns the density column
func (c DensityCurve) Densities() []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.Density
	}
	return out
}

// Centers returns the bin-center column
func (c DensityCurve) Centers() []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.Center
	}
	return out
}

// Histogram keeps the raw binning behind a DensityCurve.
// INVARIANTS:
// - len(Edges) == len(Counts)+1, edges strictly ascending
// - sum(Counts) <= N (values outside the edges are not counted)
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
	N      int       `json:"n"`
}

// Bins returns the number of bins
func (h *Histogram) Bins() int { return len(h.Counts) }

// Width returns the width of bin i
func (h *Histogram) Width(i int) float64 { return h.Edges[i+1] - h.Edges[i] }

// Curve converts counts into a probability density: count/(n*width) per bin
func (h *Histogram) Curve() DensityCurve {
	curve := make(DensityCurve, len(h.Counts))
	n := float64(h.N)
	for i, c := range h.Counts {
		w := h.Width(i)
		curve[i] = DensityPoint{
			Center:  (h.Edges[i] + h.Edges[i+1]) / 2,
			Density: float64(c) / (n * w),
		}
	}
	return curve
}

// Mass returns sum(density*width), which is 1 when every value fell inside the edges
func (h *Histogram) Mass() float64 {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return float64(total) / float64(h.N)
}

// ============================================================================
// ASSOCIATION
// ============================================================================

// StatisticKind identifies an association statistic
type StatisticKind string

const (
	KindContinuous StatisticKind = "IC" // relative-entropy score for a continuous response
	KindDiscrete   StatisticKind = "IN" // uncertainty coefficient for a discrete response
)

// NullSummary describes the permutation null distribution
type NullSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile95 float64 `json:"percentile_95"`
}

// PermutationResult is the output of one permutation test.
// INVARIANTS:
// - len(Null) == Permutations
// - PValue == (#Null >= Observed) / Permutations
type PermutationResult struct {
	Observed     float64     `json:"observed"`
	PValue       float64     `json:"p_value"`
	Permutations int         `json:"permutations"`
	Seed         uint32      `json:"seed"`
	Extreme      int         `json:"extreme"` // permuted values >= Observed
	Null         []float64   `json:"-"`
	Summary      NullSummary `json:"null_summary"`
}

// AssociationResult is a score plus, when permutation-tested, its p-value
type AssociationResult struct {
	RunID        core.RunID    `json:"run_id"`
	Kind         StatisticKind `json:"kind"`
	Score        float64       `json:"score"`
	PValue       *float64      `json:"p_value,omitempty"`
	Permutations int           `json:"permutations,omitempty"`
	Seed         uint32        `json:"seed"`
	BinMethod    BinMethod     `json:"bin_method,omitempty"`
	SampleSize   int           `json:"sample_size"`
	Groups       int           `json:"groups"`
	Null         *NullSummary  `json:"null_summary,omitempty"`
	InputHash    core.Hash     `json:"input_hash"` // identical inputs, method and seed share a hash
	RuntimeMs    int64         `json:"runtime_ms"`
}

// Significant reports whether the p-value is below alpha. Untested results are never significant.
func (r *AssociationResult) Significant(alpha float64) bool {
	return r.PValue != nil && *r.PValue < alpha
}
