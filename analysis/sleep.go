package analysis

import "math"

// Sub-metric weights for the blended sleep quality score. The stage
// scores only enter when total sleep time is known and positive.
const (
	sleepQualityWeight     = 0.4
	sleepEfficiencyWeight  = 0.3
	sleepConsistencyWeight = 0.3
	sleepStageWeight       = 0.1

	idealDeepSleepPct = 20
	idealREMSleepPct  = 23
)

// SleepQualityScore blends a day's sleep sub-metrics into one 0-100
// quality number, weighted by whichever sub-metrics are present. When
// none are computable it falls back to the raw reported quality, which
// may itself be absent.
func SleepQualityScore(r DayRecord) (float64, bool) {
	if r == nil {
		return 0, false
	}

	var scores, weights []float64
	add := func(score, weight float64) {
		scores = append(scores, score)
		weights = append(weights, weight)
	}

	if v, ok := r.Metric(FieldSleepQuality); ok {
		add(v, sleepQualityWeight)
	}
	if v, ok := r.Metric(FieldSleepEfficiency); ok {
		add(v, sleepEfficiencyWeight)
	}
	if v, ok := r.Metric(FieldSleepConsistency); ok {
		add(v, sleepConsistencyWeight)
	}

	if total, ok := r.Metric(FieldTotalSleepTime); ok && total > 0 {
		if deep, ok := r.Metric(FieldDeepSleepTime); ok {
			pct := deep / total * 100
			add(100-math.Min(100, math.Abs(pct-idealDeepSleepPct)*5), sleepStageWeight)
		}
		if rem, ok := r.Metric(FieldREMSleepTime); ok {
			pct := rem / total * 100
			add(100-math.Min(100, math.Abs(pct-idealREMSleepPct)*5), sleepStageWeight)
		}
	}

	if len(scores) == 0 {
		return r.Metric(FieldSleepQuality)
	}

	var weighted, totalWeight float64
	for i, s := range scores {
		weighted += s * weights[i]
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return r.Metric(FieldSleepQuality)
	}
	return clamp(weighted/totalWeight, 0, 100), true
}
