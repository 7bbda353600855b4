package entropy

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gostrata/adapters/stats/density"
	"gostrata/domain/core"
	"gostrata/domain/stats"
)

// RelativeEntropy compares the reference subpopulation against the full
// population restricted to the reference's value range.
//
// The restricted population is auto-binned with method; the reference is then
// binned over its own range with the same bin count. The result is
// sum FDI*ln(FDI/FD) over bins where both densities are positive. It is
// asymmetric and, because of the discretization, not guaranteed non-negative.
func RelativeEntropy(reference, full []float64, method stats.BinMethod) (float64, error) {
	if len(reference) == 0 {
		return 0, core.NewInvalidArgumentError("reference", "must not be empty")
	}
	if len(full) == 0 {
		return 0, core.NewInvalidArgumentError("full", "must not be empty")
	}

	lo, hi := floats.Min(reference), floats.Max(reference)
	restricted := make([]float64, 0, len(full))
	for _, v := range full {
		if v >= lo && v <= hi {
			restricted = append(restricted, v)
		}
	}
	if len(restricted) == 0 {
		return 0, fmt.Errorf("%w: reference range [%g, %g]", core.ErrNoOverlap, lo, hi)
	}

	fd, err := density.Estimate(restricted, method)
	if err != nil {
		return 0, fmt.Errorf("population density: %w", err)
	}

	fdi, err := density.EstimateWithEdges(reference, density.UniformEdges(lo, hi, fd.Bins()))
	if err != nil {
		return 0, fmt.Errorf("reference density: %w", err)
	}

	return divergence(fdi.Curve().Densities(), fd.Curve().Densities()), nil
}

// divergence sums p*ln(p/q) over indices where both p and q are positive
func divergence(p, q []float64) float64 {
	pp := make([]float64, 0, len(p))
	qq := make([]float64, 0, len(q))
	for i := range p {
		if p[i] > 0 && q[i] > 0 {
			pp = append(pp, p[i])
			qq = append(qq, q[i])
		}
	}
	if len(pp) == 0 {
		return 0
	}
	return stat.KullbackLeibler(pp, qq)
}
