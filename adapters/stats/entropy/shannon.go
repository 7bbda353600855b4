package entropy

import (
	"gonum.org/v1/gonum/stat"
)

// Shannon returns -sum p*ln(p) over the table; zero probabilities contribute nothing
func Shannon(p ProbabilityTable) float64 {
	return stat.Entropy(p.Values())
}

// ConditionalShannon returns H(d|s) = sum_s p(s) * H(d|s=s), natural log throughout.
// Groups are visited in ascending s order.
func ConditionalShannon(marginal ProbabilityTable, joint map[int]ProbabilityTable) float64 {
	h := 0.0
	for _, s := range marginal.Keys() {
		ps := marginal[s]
		if ps == 0 {
			continue
		}
		h += ps * Shannon(Conditional(joint, marginal, s))
	}
	return h
}
