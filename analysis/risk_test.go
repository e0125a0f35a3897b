package analysis

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestAssessRequiresRecovery(t *testing.T) {
	tests := []struct {
		name    string
		current DayRecord
		wantErr bool
	}{
		{name: "nil current day", current: nil, wantErr: true},
		{name: "empty record", current: rec(0, map[string]float64{}), wantErr: true},
		{
			name:    "other metrics but no recovery",
			current: rec(0, map[string]float64{FieldHRV: 55, FieldMoodRating: 6}),
			wantErr: true,
		},
		{
			name:    "zero recovery still counts as present",
			current: rec(0, map[string]float64{FieldRecoveryScore: 0}),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assess(tt.current, nil, DefaultDaysBack)
			if tt.wantErr {
				if !errors.Is(err, ErrInsufficientData) {
					t.Errorf("Assess() error = %v, want ErrInsufficientData", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Assess() error = %v, want nil", err)
			}
		})
	}
}

func TestScoreNeutralFallback(t *testing.T) {
	// Recovery alone: inverted recovery counts for 25%, the other four
	// components sit at the neutral 50.
	// 30*0.25 + 50*0.15 + 50*0.15 + 50*0.15 + 50*0.30 = 45.0
	current := rec(0, map[string]float64{FieldRecoveryScore: 70})

	a, err := Assess(current, nil, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if math.Abs(a.OverallRisk-45.0) > 1e-9 {
		t.Errorf("OverallRisk = %v, want 45.0", a.OverallRisk)
	}
	if a.RiskLevel != LevelModerate {
		t.Errorf("RiskLevel = %v, want %v", a.RiskLevel, LevelModerate)
	}
	if a.DataPointsUsed != 1 {
		t.Errorf("DataPointsUsed = %d, want 1", a.DataPointsUsed)
	}
	if math.Abs(a.Confidence-100.0/30) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", a.Confidence, 100.0/30)
	}
	for _, factor := range []string{FactorHRV, FactorSleep, FactorStrainBalance, FactorMood} {
		rf := a.RiskFactors[factor]
		if rf.RiskScore != neutralRisk {
			t.Errorf("%s RiskScore = %v, want %v", factor, rf.RiskScore, neutralRisk)
		}
		if rf.Analysis.Reason != "no_data" {
			t.Errorf("%s Reason = %q, want %q", factor, rf.Analysis.Reason, "no_data")
		}
	}
}

func TestScoreSingleDay(t *testing.T) {
	// recovery 50        -> 50
	// hrv 60             -> 100 - (60-20)/80*100            = 50
	// sleep quality 70   -> 100 - 70                         = 30
	// strain 10, rec 50  -> ratio 0.952..., 30 + 0.252*100   = 55.238095...
	// mood 5             -> 100 - (5-1)/9*100                = 55.555...
	// overall = 12.5 + 7.5 + 4.5 + 8.285714... + 16.666...   = 49.452380...
	current := rec(0, map[string]float64{
		FieldRecoveryScore: 50,
		FieldMoodRating:    5,
		FieldHRV:           60,
		FieldStrain:        10,
		FieldSleepQuality:  70,
	})

	a, err := Assess(current, nil, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	wantFactors := map[string]float64{
		FactorRecovery:      50,
		FactorHRV:           50,
		FactorSleep:         30,
		FactorStrainBalance: 30 + (10.0/21*100/50-0.7)*100,
		FactorMood:          100 - 4.0/9*100,
	}
	for name, want := range wantFactors {
		got := a.RiskFactors[name].RiskScore
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s RiskScore = %v, want %v", name, got, want)
		}
	}

	if math.Abs(a.OverallRisk-49.45238095238095) > 1e-9 {
		t.Errorf("OverallRisk = %v, want 49.45238095238095", a.OverallRisk)
	}
	if a.RiskLevel != LevelModerate {
		t.Errorf("RiskLevel = %v, want %v", a.RiskLevel, LevelModerate)
	}
	if a.DataPointsUsed != 5 {
		t.Errorf("DataPointsUsed = %d, want 5", a.DataPointsUsed)
	}
	if math.Abs(a.Confidence-5.0/30*100) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", a.Confidence, 5.0/30*100)
	}
	if a.Trend != 0 {
		t.Errorf("Trend = %v, want 0 with no stored history", a.Trend)
	}
}

func TestRecentDayOutweighsOlder(t *testing.T) {
	// Perfect recovery today, zero recovery yesterday. With decay 0.8 the
	// two recovery weights renormalize to 5/9 and 4/9, so yesterday's 100
	// risk contributes 400/9 and the overall lands below the midpoint.
	current := rec(0, map[string]float64{FieldRecoveryScore: 100})
	history := Records{rec(1, map[string]float64{FieldRecoveryScore: 0})}

	a, err := Assess(current, history, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	wantRecovery := 400.0 / 9
	got := a.RiskFactors[FactorRecovery].RiskScore
	if math.Abs(got-wantRecovery) > 1e-9 {
		t.Errorf("recovery RiskScore = %v, want %v", got, wantRecovery)
	}

	want := wantRecovery*recoveryWeight + 3*neutralRisk*hrvWeight + neutralRisk*moodWeight
	if math.Abs(a.OverallRisk-want) > 1e-9 {
		t.Errorf("OverallRisk = %v, want %v", a.OverallRisk, want)
	}
	if got >= 50 {
		t.Errorf("recovery RiskScore = %v, want today's perfect score to dominate (< 50)", got)
	}
}

func TestStrainRatioRisk(t *testing.T) {
	tests := []struct {
		name     string
		strain   float64
		recovery float64
		want     float64
	}{
		{name: "undertraining", strain: 21, recovery: 200, want: 20},
		{name: "optimal zone", strain: 21, recovery: 128, want: 30 + (100.0/128-0.7)*100},
		{name: "ratio one", strain: 21, recovery: 100, want: 60},
		{name: "elevated", strain: 21, recovery: 80, want: 80},
		{name: "past the cliff", strain: 21, recovery: 64, want: 100},
		{name: "double the capacity", strain: 21, recovery: 50, want: 100},
		{name: "half scale strain", strain: 10.5, recovery: 100, want: 20},
		{name: "no strain", strain: 0, recovery: 80, want: 20},
		{name: "strain above scale is capped", strain: 30, recovery: 100, want: 60},
		{name: "zero recovery is extreme imbalance", strain: 15, recovery: 0, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strainRatioRisk(tt.strain, tt.recovery)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("strainRatioRisk(%v, %v) = %v, want %v", tt.strain, tt.recovery, got, tt.want)
			}
		})
	}
}

func TestRecentDeclineTrend(t *testing.T) {
	tests := []struct {
		name        string
		days        []DayRecord
		field       string
		windowCount int
		clampAt     float64
		scale       float64
		want        float64
	}{
		{
			name: "steep hrv drop clamps at 20",
			days: []DayRecord{
				rec(0, map[string]float64{FieldHRV: 40}),
				rec(1, map[string]float64{FieldHRV: 60}),
				rec(2, map[string]float64{FieldHRV: 65}),
			},
			field: FieldHRV, windowCount: 3, clampAt: hrvTrendClamp, scale: hrvTrendScale,
			want: 50,
		},
		{
			name: "mild hrv drop",
			days: []DayRecord{
				rec(0, map[string]float64{FieldHRV: 50}),
				rec(1, map[string]float64{FieldHRV: 55}),
				rec(2, map[string]float64{FieldHRV: 55}),
			},
			field: FieldHRV, windowCount: 3, clampAt: hrvTrendClamp, scale: hrvTrendScale,
			want: 12.5,
		},
		{
			name: "improving hrv goes negative",
			days: []DayRecord{
				rec(0, map[string]float64{FieldHRV: 70}),
				rec(1, map[string]float64{FieldHRV: 60}),
				rec(2, map[string]float64{FieldHRV: 60}),
			},
			field: FieldHRV, windowCount: 3, clampAt: hrvTrendClamp, scale: hrvTrendScale,
			want: -25,
		},
		{
			name: "too few readings in window",
			days: []DayRecord{
				rec(0, map[string]float64{FieldHRV: 40}),
				rec(1, map[string]float64{FieldHRV: 60}),
			},
			field: FieldHRV, windowCount: 2, clampAt: hrvTrendClamp, scale: hrvTrendScale,
			want: 0,
		},
		{
			name: "readings exist but not among recent days",
			days: []DayRecord{
				rec(0, map[string]float64{FieldHRV: 50}),
				nil,
				nil,
				rec(3, map[string]float64{FieldHRV: 60}),
				rec(4, map[string]float64{FieldHRV: 70}),
			},
			field: FieldHRV, windowCount: 3, clampAt: hrvTrendClamp, scale: hrvTrendScale,
			want: 0,
		},
		{
			name: "mood drop clamps at 4",
			days: []DayRecord{
				rec(0, map[string]float64{FieldMoodRating: 3}),
				rec(1, map[string]float64{FieldMoodRating: 7}),
				rec(2, map[string]float64{FieldMoodRating: 7}),
			},
			field: FieldMoodRating, windowCount: 3, clampAt: moodTrendClamp, scale: moodTrendScale,
			want: 50,
		},
		{
			name: "one point mood drop",
			days: []DayRecord{
				rec(0, map[string]float64{FieldMoodRating: 6}),
				rec(1, map[string]float64{FieldMoodRating: 7}),
				rec(2, map[string]float64{FieldMoodRating: 7}),
			},
			field: FieldMoodRating, windowCount: 3, clampAt: moodTrendClamp, scale: moodTrendScale,
			want: 12.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recentDeclineTrend(tt.days, tt.field, tt.windowCount, tt.clampAt, tt.scale)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("recentDeclineTrend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHRVRiskBlendsDecline(t *testing.T) {
	days := []DayRecord{
		rec(0, map[string]float64{FieldHRV: 40}),
		rec(1, map[string]float64{FieldHRV: 60}),
		rec(2, map[string]float64{FieldHRV: 65}),
	}
	weights := []float64{0.5, 0.3, 0.2}

	// base = 75*0.5 + 50*0.3 + 43.75*0.2 = 61.25, trend clamps to 50,
	// blended = 61.25*0.8 + 50*0.2 = 59
	got, fa := hrvRisk(days, weights)
	if math.Abs(got-59) > 1e-9 {
		t.Errorf("hrvRisk() = %v, want 59", got)
	}
	if fa.DataPoints != 3 {
		t.Errorf("DataPoints = %d, want 3", fa.DataPoints)
	}
	if math.Abs(fa.TrendValue-50) > 1e-9 {
		t.Errorf("TrendValue = %v, want 50", fa.TrendValue)
	}
}

func TestMoodRiskCountsLowDays(t *testing.T) {
	days := []DayRecord{
		rec(0, map[string]float64{FieldMoodRating: 4}),
		rec(1, map[string]float64{FieldMoodRating: 8}),
		rec(2, map[string]float64{FieldMoodRating: 3}),
		rec(3, map[string]float64{FieldMoodRating: 7}),
	}
	weights := []float64{0.4, 0.3, 0.2, 0.1}

	_, fa := moodRisk(days, weights)
	if fa.LowMoodDays != 2 {
		t.Errorf("LowMoodDays = %d, want 2", fa.LowMoodDays)
	}
	if fa.DataPoints != 4 {
		t.Errorf("DataPoints = %d, want 4", fa.DataPoints)
	}
	if fa.Variance <= 0 {
		t.Errorf("Variance = %v, want positive spread", fa.Variance)
	}
}

func TestBurnoutTrend(t *testing.T) {
	t.Run("rising against stored history", func(t *testing.T) {
		current := rec(0, map[string]float64{FieldRecoveryScore: 50})
		history := Records{
			rec(1, map[string]float64{FieldBurnoutScore: 40}),
			rec(2, map[string]float64{FieldBurnoutScore: 40}),
		}

		a, err := Assess(current, history, DefaultDaysBack)
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}
		// overall is exactly 50 here, prior average is 40
		if math.Abs(a.Trend-10) > 1e-9 {
			t.Errorf("Trend = %v, want 10", a.Trend)
		}
	})

	t.Run("no stored scores", func(t *testing.T) {
		current := rec(0, map[string]float64{FieldRecoveryScore: 50})
		history := Records{rec(1, map[string]float64{FieldRecoveryScore: 60})}

		a, err := Assess(current, history, DefaultDaysBack)
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}
		if a.Trend != 0 {
			t.Errorf("Trend = %v, want 0", a.Trend)
		}
	})

	t.Run("window too short", func(t *testing.T) {
		current := rec(0, map[string]float64{FieldRecoveryScore: 50})
		history := Records{
			rec(1, map[string]float64{FieldBurnoutScore: 40}),
			rec(2, map[string]float64{FieldBurnoutScore: 40}),
		}

		a, err := Assess(current, history, 2)
		if err != nil {
			t.Fatalf("Assess() error = %v", err)
		}
		if a.Trend != 0 {
			t.Errorf("Trend = %v, want 0 for a 3-day window", a.Trend)
		}
	})
}

func TestScoreBounds(t *testing.T) {
	worstHistory := make(Records, 0, 7)
	for i := 1; i <= 7; i++ {
		worstHistory = append(worstHistory, rec(i, map[string]float64{
			FieldRecoveryScore: 1,
			FieldHRV:           20,
			FieldStrain:        21,
			FieldMoodRating:    1,
			FieldSleepQuality:  0,
			FieldBurnoutScore:  100,
		}))
	}

	tests := []struct {
		name    string
		current DayRecord
		history History
	}{
		{
			name: "everything terrible",
			current: rec(0, map[string]float64{
				FieldRecoveryScore: 1,
				FieldHRV:           20,
				FieldStrain:        21,
				FieldMoodRating:    1,
				FieldSleepQuality:  0,
			}),
			history: worstHistory,
		},
		{
			name: "everything ideal",
			current: rec(0, map[string]float64{
				FieldRecoveryScore: 100,
				FieldHRV:           100,
				FieldStrain:        0,
				FieldMoodRating:    10,
				FieldSleepQuality:  100,
			}),
			history: nil,
		},
		{
			name:    "zero recovery",
			current: rec(0, map[string]float64{FieldRecoveryScore: 0, FieldStrain: 21}),
			history: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Score(tt.current, tt.history, DefaultDaysBack)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if score < 0 || score > 100 {
				t.Errorf("Score() = %v, out of range [0, 100]", score)
			}
		})
	}
}

func TestLowerRecoveryRaisesRisk(t *testing.T) {
	metrics := func(recovery float64) map[string]float64 {
		return map[string]float64{
			FieldRecoveryScore: recovery,
			FieldHRV:           55,
			FieldStrain:        12,
			FieldMoodRating:    6,
			FieldSleepQuality:  75,
		}
	}

	rested, err := Score(rec(0, metrics(80)), nil, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	depleted, err := Score(rec(0, metrics(40)), nil, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if depleted <= rested {
		t.Errorf("Score(recovery=40) = %v, want above Score(recovery=80) = %v", depleted, rested)
	}
}

func TestAssessIsDeterministic(t *testing.T) {
	current := rec(0, map[string]float64{
		FieldRecoveryScore: 55,
		FieldHRV:           48,
		FieldStrain:        14,
		FieldMoodRating:    5,
		FieldSleepQuality:  62,
	})
	history := Records{
		rec(1, map[string]float64{FieldRecoveryScore: 60, FieldMoodRating: 6, FieldBurnoutScore: 42}),
		rec(3, map[string]float64{FieldRecoveryScore: 70, FieldHRV: 52}),
	}

	first, err := Assess(current, history, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	second, err := Assess(current, history, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Assess() not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestWindowKeepsGaps(t *testing.T) {
	current := rec(0, map[string]float64{FieldRecoveryScore: 70})
	history := Records{
		rec(1, map[string]float64{FieldRecoveryScore: 60}),
		rec(3, map[string]float64{FieldRecoveryScore: 50}),
	}

	a, err := Assess(current, history, DefaultDaysBack)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	fa := a.RiskFactors[FactorRecovery].Analysis
	if fa.DataPoints != 3 {
		t.Errorf("recovery DataPoints = %d, want 3", fa.DataPoints)
	}
	if a.DataPointsUsed != 3 {
		t.Errorf("DataPointsUsed = %d, want 3", a.DataPointsUsed)
	}
	if want := round1((70.0 + 60 + 50) / 3); fa.Average != want {
		t.Errorf("recovery Average = %v, want %v", fa.Average, want)
	}
}

func TestComponentWeightsSumToOne(t *testing.T) {
	sum := recoveryWeight + hrvWeight + sleepWeight + strainBalanceWeight + moodWeight
	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("component weights sum = %v, want 1.0", sum)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{score: 0, want: LevelLow},
		{score: 29.9, want: LevelLow},
		{score: 30, want: LevelModerate},
		{score: 59.9, want: LevelModerate},
		{score: 60, want: LevelHigh},
		{score: 79.9, want: LevelHigh},
		{score: 80, want: LevelCritical},
		{score: 100, want: LevelCritical},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestRiskLevelAtLeast(t *testing.T) {
	tests := []struct {
		level RiskLevel
		floor RiskLevel
		want  bool
	}{
		{LevelLow, LevelHigh, false},
		{LevelModerate, LevelHigh, false},
		{LevelHigh, LevelHigh, true},
		{LevelCritical, LevelHigh, true},
		{LevelCritical, LevelCritical, true},
		{LevelHigh, LevelCritical, false},
	}

	for _, tt := range tests {
		if got := tt.level.AtLeast(tt.floor); got != tt.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", tt.level, tt.floor, got, tt.want)
		}
	}
}
