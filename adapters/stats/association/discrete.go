package association

import (
	"gostrata/adapters/stats/entropy"
	"gostrata/domain/core"
)

// Discrete computes IN, the uncertainty coefficient of response given labels:
//
//	IN = 1 - H(d|s) / H(d)
//
// Both entropies use the natural log, so IN lies in [0, 1]: 1 when the
// response is a function of the labels, near 0 when they are independent.
// A constant response has no uncertainty to explain and scores 0.
func Discrete(response, labels []int) (float64, error) {
	if len(response) != len(labels) {
		return 0, core.NewLengthMismatchError("response", "labels", len(response), len(labels))
	}
	if len(response) == 0 {
		return 0, core.NewInsufficientDataError("response", 0, 1)
	}

	n := len(response)
	pd := entropy.Frequencies(response).Probabilities(n)
	ps := entropy.Frequencies(labels).Probabilities(n)
	joint := entropy.JointFrequencies(labels, response).Probabilities(n)

	hd := entropy.Shannon(pd)
	if hd == 0 {
		return 0, nil
	}
	return 1 - entropy.ConditionalShannon(ps, joint)/hd, nil
}
