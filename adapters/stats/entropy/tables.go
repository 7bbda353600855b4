package entropy

import (
	"maps"
	"slices"
)

// FrequencyTable counts occurrences of each discrete value
type FrequencyTable map[int]int

// ProbabilityTable maps each discrete value to its probability
type ProbabilityTable map[int]float64

// JointFrequencyTable counts (s, d) pairs, keyed by s then d
type JointFrequencyTable map[int]FrequencyTable

// Frequencies builds the frequency table of values
func Frequencies(values []int) FrequencyTable {
	freq := make(FrequencyTable)
	for _, v := range values {
		freq[v]++
	}
	return freq
}

// JointFrequencies builds the joint table of aligned pairs (s[i], d[i]).
// Callers guarantee len(s) == len(d).
func JointFrequencies(s, d []int) JointFrequencyTable {
	joint := make(JointFrequencyTable)
	for i := range s {
		row, ok := joint[s[i]]
		if !ok {
			row = make(FrequencyTable)
			joint[s[i]] = row
		}
		row[d[i]]++
	}
	return joint
}

// Keys returns the table keys in ascending order
func (t FrequencyTable) Keys() []int {
	return slices.Sorted(maps.Keys(t))
}

// Total returns the sum of all counts
func (t FrequencyTable) Total() int {
	total := 0
	for _, c := range t {
		total += c
	}
	return total
}

// Probabilities divides every count by n
func (t FrequencyTable) Probabilities(n int) ProbabilityTable {
	prob := make(ProbabilityTable, len(t))
	for k, c := range t {
		prob[k] = float64(c) / float64(n)
	}
	return prob
}

// Keys returns the table keys in ascending order
func (p ProbabilityTable) Keys() []int {
	return slices.Sorted(maps.Keys(p))
}

// Values returns the probabilities in ascending key order, so sums over them
// are reproducible bit for bit.
func (p ProbabilityTable) Values() []float64 {
	keys := p.Keys()
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = p[k]
	}
	return out
}

// Probabilities divides every joint count by n
func (j JointFrequencyTable) Probabilities(n int) map[int]ProbabilityTable {
	out := make(map[int]ProbabilityTable, len(j))
	for s, row := range j {
		out[s] = row.Probabilities(n)
	}
	return out
}

// Conditional returns p(d|s) = p(s,d)/p(s) for one value of s
func Conditional(joint map[int]ProbabilityTable, marginal ProbabilityTable, s int) ProbabilityTable {
	row := joint[s]
	ps := marginal[s]
	cond := make(ProbabilityTable, len(row))
	if ps == 0 {
		return cond
	}
	for d, p := range row {
		cond[d] = p / ps
	}
	return cond
}
