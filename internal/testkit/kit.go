package testkit

import (
	"math/rand"
)

// SampleGenerator produces deterministic synthetic samples for tests
type SampleGenerator struct {
	rng *rand.Rand
}

// NewSampleGenerator creates a generator; the same seed always yields the same samples
func NewSampleGenerator(seed int64) *SampleGenerator {
	return &SampleGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Normal draws n values from N(mu, sigma^2)
func (g *SampleGenerator) Normal(n int, mu, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*g.rng.NormFloat64()
	}
	return out
}

// Uniform draws n values from [lo, hi)
func (g *SampleGenerator) Uniform(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*g.rng.Float64()
	}
	return out
}

// Labels draws n labels uniformly from [0, k)
func (g *SampleGenerator) Labels(n, k int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.rng.Intn(k)
	}
	return out
}

// BalancedLabels returns n labels cycling through [0, k), shuffled
func (g *SampleGenerator) BalancedLabels(n, k int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i % k
	}
	g.rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// GroupedSample is a continuous response paired with group labels
type GroupedSample struct {
	Response []float64
	Labels   []int
}

// ShiftedGroups draws perGroup normal values for each of the given means.
// Group g gets label g. Rows are interleaved so labels are not sorted.
func (g *SampleGenerator) ShiftedGroups(perGroup int, sigma float64, means ...float64) GroupedSample {
	n := perGroup * len(means)
	out := GroupedSample{
		Response: make([]float64, 0, n),
		Labels:   make([]int, 0, n),
	}
	for i := 0; i < perGroup; i++ {
		for label, mu := range means {
			out.Response = append(out.Response, mu+sigma*g.rng.NormFloat64())
			out.Labels = append(out.Labels, label)
		}
	}
	return out
}

// SpreadVsPeak pairs a uniform group on [0, 10) (label 0) with a tight normal
// group around 5 (label 1). Both groups share the same centre, so only the
// shape of the response differs between them.
func (g *SampleGenerator) SpreadVsPeak(perGroup int) GroupedSample {
	out := GroupedSample{
		Response: make([]float64, 0, 2*perGroup),
		Labels:   make([]int, 0, 2*perGroup),
	}
	for i := 0; i < perGroup; i++ {
		out.Response = append(out.Response, 10*g.rng.Float64(), 5+0.5*g.rng.NormFloat64())
		out.Labels = append(out.Labels, 0, 1)
	}
	return out
}

// FunctionOf maps every label through f, producing a response fully determined by labels
func FunctionOf(labels []int, f func(int) int) []int {
	out := make([]int, len(labels))
	for i, s := range labels {
		out[i] = f(s)
	}
	return out
}

// Floats converts integer labels to float64
func Floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
