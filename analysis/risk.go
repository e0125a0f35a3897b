package analysis

import (
	"errors"
	"math"
)

// Component weights of the five-factor model. Mood carries the most;
// the physiological signals split the rest.
const (
	recoveryWeight      = 0.25
	hrvWeight           = 0.15
	sleepWeight         = 0.15
	strainBalanceWeight = 0.15
	moodWeight          = 0.30
)

// Factor names used as keys in Assessment.RiskFactors.
const (
	FactorRecovery      = "recovery"
	FactorHRV           = "hrv"
	FactorSleep         = "sleep"
	FactorStrainBalance = "strain_balance"
	FactorMood          = "mood"
)

// neutralRisk stands in for a component whose inputs are absent across
// the whole window.
const neutralRisk = 50.0

// Short-term trend shaping for HRV and mood.
const (
	hrvTrendClamp  = 20.0
	hrvTrendScale  = 2.5
	moodTrendClamp = 4.0
	moodTrendScale = 12.5
)

// ErrInsufficientData marks a day that cannot be scored yet: the model
// requires the current day's recovery score as its minimum input.
var ErrInsufficientData = errors.New("recovery score required to assess burnout risk")

// Assessment is the full model output for one day.
type Assessment struct {
	OverallRisk    float64               `json:"overall_risk_score"`
	RiskLevel      RiskLevel             `json:"risk_level"`
	Trend          float64               `json:"trend"`
	Confidence     float64               `json:"confidence_score"`
	DataPointsUsed int                   `json:"data_points_used"`
	RiskFactors    map[string]RiskFactor `json:"risk_factors"`
}

// RiskFactor is one component's contribution.
type RiskFactor struct {
	RiskScore float64        `json:"risk_score"`
	Weight    float64        `json:"weight"`
	Analysis  FactorAnalysis `json:"analysis"`
}

// FactorAnalysis carries the intermediate numbers behind a component
// score. Fields apply per factor; unused ones are omitted.
type FactorAnalysis struct {
	DataPoints           int     `json:"data_points"`
	Reason               string  `json:"reason,omitempty"`
	Average              float64 `json:"average,omitempty"`
	Trend                string  `json:"trend,omitempty"`
	TrendValue           float64 `json:"trend_value,omitempty"`
	Variance             float64 `json:"variance,omitempty"`
	LowMoodDays          int     `json:"low_mood_days,omitempty"`
	AverageStrain        float64 `json:"average_strain,omitempty"`
	AverageRecovery      float64 `json:"average_recovery,omitempty"`
	AverageDurationHours float64 `json:"average_duration_hours,omitempty"`
}

// Assess scores the current day against up to daysBack prior days.
// daysBack <= 0 means DefaultDaysBack. Returns ErrInsufficientData when
// the current day has no recovery score; every other gap degrades to a
// neutral component instead of failing.
func Assess(current DayRecord, history History, daysBack int) (*Assessment, error) {
	if current == nil {
		return nil, ErrInsufficientData
	}
	if _, ok := current.Metric(FieldRecoveryScore); !ok {
		return nil, ErrInsufficientData
	}
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}

	days := window(current, history, daysBack)
	weights := combinedWeights(days)

	recovery, recoveryFA := recoveryRisk(days, weights)
	hrv, hrvFA := hrvRisk(days, weights)
	sleep, sleepFA := sleepRisk(days, weights)
	strain, strainFA := strainBalanceRisk(days, weights)
	mood, moodFA := moodRisk(days, weights)

	overall := clamp(
		recovery*recoveryWeight+
			hrv*hrvWeight+
			sleep*sleepWeight+
			strain*strainBalanceWeight+
			mood*moodWeight,
		0, 100)

	points := recoveryFA.DataPoints + hrvFA.DataPoints + sleepFA.DataPoints +
		strainFA.DataPoints + moodFA.DataPoints

	return &Assessment{
		OverallRisk:    overall,
		RiskLevel:      LevelFor(overall),
		Trend:          burnoutTrend(days, overall),
		Confidence:     math.Min(100, float64(points)/30*100),
		DataPointsUsed: points,
		RiskFactors: map[string]RiskFactor{
			FactorRecovery:      {RiskScore: recovery, Weight: recoveryWeight, Analysis: recoveryFA},
			FactorHRV:           {RiskScore: hrv, Weight: hrvWeight, Analysis: hrvFA},
			FactorSleep:         {RiskScore: sleep, Weight: sleepWeight, Analysis: sleepFA},
			FactorStrainBalance: {RiskScore: strain, Weight: strainBalanceWeight, Analysis: strainFA},
			FactorMood:          {RiskScore: mood, Weight: moodWeight, Analysis: moodFA},
		},
	}, nil
}

// Score runs the model and returns just the overall 0-100 risk.
func Score(current DayRecord, history History, daysBack int) (float64, error) {
	a, err := Assess(current, history, daysBack)
	if err != nil {
		return 0, err
	}
	return a.OverallRisk, nil
}

// ---------- Components ----------

// recoveryRisk inverts recovery (low recovery means high risk) and sums
// it over the days that report one, using the combined weights as
// given.
func recoveryRisk(days []DayRecord, weights []float64) (float64, FactorAnalysis) {
	var vals []float64
	risk := 0.0
	for i, d := range days {
		v, ok := metric(d, FieldRecoveryScore)
		if !ok {
			continue
		}
		risk += (100 - v) * weights[i]
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return neutralRisk, FactorAnalysis{Reason: "no_data"}
	}
	return risk, FactorAnalysis{
		DataPoints: len(vals),
		Average:    round1(mean(vals)),
		Trend:      trendLabel(vals),
	}
}

// hrvRisk maps HRV (roughly 20-100ms) onto inverted risk and blends in
// a short-term decline signal when one exists.
func hrvRisk(days []DayRecord, weights []float64) (float64, FactorAnalysis) {
	var vals []float64
	risk := 0.0
	for i, d := range days {
		v, ok := metric(d, FieldHRV)
		if !ok {
			continue
		}
		risk += clamp(100-((v-20)/80*100), 0, 100) * weights[i]
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return neutralRisk, FactorAnalysis{Reason: "no_data"}
	}

	trend := recentDeclineTrend(days, FieldHRV, len(vals), hrvTrendClamp, hrvTrendScale)
	if trend > 0 {
		// 80% level, 20% short-term decline
		risk = risk*0.8 + trend*0.2
	}
	return risk, FactorAnalysis{
		DataPoints: len(vals),
		Average:    round1(mean(vals)),
		Trend:      trendLabel(vals),
		TrendValue: trend,
	}
}

// sleepRisk inverts the per-day blended sleep quality sub-score.
func sleepRisk(days []DayRecord, weights []float64) (float64, FactorAnalysis) {
	var scores, durations []float64
	risk := 0.0
	for i, d := range days {
		sq, ok := SleepQualityScore(d)
		if !ok {
			continue
		}
		risk += (100 - sq) * weights[i]
		scores = append(scores, sq)
	}
	for _, d := range days {
		if v, ok := metric(d, FieldTotalSleepTime); ok {
			durations = append(durations, v)
		}
	}
	if len(scores) == 0 {
		return neutralRisk, FactorAnalysis{Reason: "no_data"}
	}

	fa := FactorAnalysis{
		DataPoints: len(scores),
		Average:    round1(mean(scores)),
	}
	if len(durations) > 0 {
		fa.AverageDurationHours = round1(mean(durations) / 60)
	}
	return risk, fa
}

// strainBalanceRisk scores days where both strain and recovery are
// known: strain outpacing recovery capacity drives the risk up.
func strainBalanceRisk(days []DayRecord, weights []float64) (float64, FactorAnalysis) {
	var strains, recoveries []float64
	risk := 0.0
	for i, d := range days {
		strain, ok := metric(d, FieldStrain)
		if !ok {
			continue
		}
		recovery, ok := metric(d, FieldRecoveryScore)
		if !ok {
			continue
		}
		risk += strainRatioRisk(strain, recovery) * weights[i]
		strains = append(strains, strain)
		recoveries = append(recoveries, recovery)
	}
	if len(strains) == 0 {
		return neutralRisk, FactorAnalysis{Reason: "no_data"}
	}
	return risk, FactorAnalysis{
		DataPoints:      len(strains),
		AverageStrain:   round1(mean(strains)),
		AverageRecovery: round1(mean(recoveries)),
	}
}

// strainRatioRisk maps one day's strain-to-recovery ratio onto 0-100.
// Strain arrives on WHOOP's 0-21 scale and is normalized to 0-100
// first; a recovery of zero counts as extreme imbalance.
func strainRatioRisk(strain, recovery float64) float64 {
	normalized := math.Min(100, strain/21*100)
	ratio := 2.0
	if recovery > 0 {
		ratio = normalized / recovery
	}
	switch {
	case ratio < 0.7:
		return 20 // undertraining
	case ratio < 1.0:
		return 30 + (ratio-0.7)*100 // optimal zone: 30-60
	case ratio < 1.5:
		return 60 + (ratio-1.0)*80 // increasing risk: 60-100
	default:
		return 100
	}
}

// moodRisk inverts the 1-10 mood rating onto 0-100 and blends in a
// short-term decline signal, like hrvRisk.
func moodRisk(days []DayRecord, weights []float64) (float64, FactorAnalysis) {
	var ratings []float64
	risk := 0.0
	for i, d := range days {
		v, ok := metric(d, FieldMoodRating)
		if !ok {
			continue
		}
		risk += (100 - (v-1)/9*100) * weights[i]
		ratings = append(ratings, v)
	}
	if len(ratings) == 0 {
		return neutralRisk, FactorAnalysis{Reason: "no_data"}
	}

	trend := recentDeclineTrend(days, FieldMoodRating, len(ratings), moodTrendClamp, moodTrendScale)
	if trend > 0 {
		risk = risk*0.8 + trend*0.2
	}

	lowDays := 0
	for _, r := range ratings {
		if r <= 4 {
			lowDays++
		}
	}
	return risk, FactorAnalysis{
		DataPoints:  len(ratings),
		Average:     round1(mean(ratings)),
		Variance:    round2(stddev(ratings)),
		LowMoodDays: lowDays,
		TrendValue:  trend,
	}
}

// ---------- Trends ----------

// recentDeclineTrend compares the newest reading among the three most
// recent days against the mean of the older ones there. A falling
// metric yields a positive value (rising risk); a rising one is
// negative and the caller ignores it. Needs at least three readings in
// the window and two among the three newest days.
func recentDeclineTrend(days []DayRecord, field string, windowCount int, clampAt, scale float64) float64 {
	if windowCount < 3 {
		return 0
	}
	var recent []float64
	for _, d := range days[:min(3, len(days))] {
		if v, ok := metric(d, field); ok {
			recent = append(recent, v)
		}
	}
	if len(recent) < 2 {
		return 0
	}
	return clamp(mean(recent[1:])-recent[0], -clampAt, clampAt) * scale
}

// trendLabel flags a series (newest first) as declining when it has
// more than three readings and the newest sits below the oldest.
func trendLabel(newestFirst []float64) string {
	if len(newestFirst) > 3 && newestFirst[0] < newestFirst[len(newestFirst)-1] {
		return "declining"
	}
	return "stable"
}

// burnoutTrend compares today's score against the average of the prior
// days' stored scores. Positive means risk is rising. Zero when the
// window is too short or no prior day has a stored score.
func burnoutTrend(days []DayRecord, overall float64) float64 {
	if len(days) < 4 {
		return 0
	}
	var prior []float64
	for _, d := range days[1:] {
		if v, ok := metric(d, FieldBurnoutScore); ok {
			prior = append(prior, v)
		}
	}
	if len(prior) == 0 {
		return 0
	}
	return overall - mean(prior)
}

// ---------- internals ----------

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the sample standard deviation; 0 for fewer than two values.
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
