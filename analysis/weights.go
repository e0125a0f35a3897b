package analysis

import "math"

// DefaultDaysBack is how far the model looks behind the current day.
const DefaultDaysBack = 7

// decayFactor controls the exponential time decay: each step back in
// time keeps 80% of the weight of the day after it.
const decayFactor = 0.8

// keyFields are the inputs that count toward a day's completeness.
var keyFields = [...]string{FieldRecoveryScore, FieldMoodRating, FieldHRV, FieldStrain}

// timeDecayWeights returns weights for a window ordered newest to
// oldest, normalized to sum to 1.0. The newest day carries the most.
func timeDecayWeights(n int, decay float64) []float64 {
	if n <= 0 {
		return nil
	}
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = math.Pow(decay, float64(i))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// completenessWeights scores each day 0..1 by how many of the key
// fields it carries. Entirely missing days score 0. Not normalized:
// the per-day ratio is what discounts sparse days.
func completenessWeights(days []DayRecord) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		if d == nil {
			continue
		}
		present := 0
		for _, f := range keyFields {
			if _, ok := d.Metric(f); ok {
				present++
			}
		}
		out[i] = float64(present) / float64(len(keyFields))
	}
	return out
}

// combinedWeights multiplies time decay by completeness and
// renormalizes to 1.0. If every day is empty, the current day takes
// the full weight.
func combinedWeights(days []DayRecord) []float64 {
	tw := timeDecayWeights(len(days), decayFactor)
	cw := completenessWeights(days)

	out := make([]float64, len(days))
	sum := 0.0
	for i := range out {
		out[i] = tw[i] * cw[i]
		sum += out[i]
	}
	if sum == 0 {
		for i := range out {
			out[i] = 0
		}
		out[0] = 1.0
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
