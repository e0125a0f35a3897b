package analysis

import (
	"strings"
	"testing"
)

func hasAdvice(recs []string, substr string) bool {
	for _, r := range recs {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		a       *Assessment
		want    []string
		notWant []string
	}{
		{
			name: "all clear",
			a: &Assessment{
				OverallRisk: 20,
				RiskFactors: map[string]RiskFactor{
					FactorRecovery:      {RiskScore: 20},
					FactorMood:          {RiskScore: 20},
					FactorHRV:           {RiskScore: 20},
					FactorSleep:         {RiskScore: 20},
					FactorStrainBalance: {RiskScore: 20},
				},
			},
			want:    []string{"Great job"},
			notWant: []string{"burnout risk"},
		},
		{
			name: "poor recovery",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorRecovery: {RiskScore: 70},
				},
			},
			want:    []string{"reducing training intensity"},
			notWant: []string{"Great job", "burnout risk"},
		},
		{
			name: "volatile mood",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorMood: {RiskScore: 50, Analysis: FactorAnalysis{Variance: 3.1}},
				},
			},
			want:    []string{"fluctuating significantly"},
			notWant: []string{"mood has been low"},
		},
		{
			name: "low mood and suppressed hrv",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorMood: {RiskScore: 65},
					FactorHRV:  {RiskScore: 61},
				},
			},
			want: []string{"mood has been low", "HRV is low"},
		},
		{
			name: "short sleeper",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorSleep: {RiskScore: 30, Analysis: FactorAnalysis{AverageDurationHours: 6.2}},
				},
			},
			want:    []string{"not getting enough sleep"},
			notWant: []string{"sleep hygiene", "sleeping more than usual"},
		},
		{
			name: "oversleeping",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorSleep: {RiskScore: 30, Analysis: FactorAnalysis{AverageDurationHours: 9.5}},
				},
			},
			want: []string{"sleeping more than usual"},
		},
		{
			name: "poor quality with unknown duration",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorSleep: {RiskScore: 70},
				},
			},
			want:    []string{"sleep hygiene"},
			notWant: []string{"not getting enough sleep", "sleeping more than usual"},
		},
		{
			name: "strain outrunning recovery",
			a: &Assessment{
				OverallRisk: 40,
				RiskFactors: map[string]RiskFactor{
					FactorStrainBalance: {RiskScore: 80},
				},
			},
			want: []string{"exceeding your recovery capacity"},
		},
		{
			name: "high overall risk",
			a: &Assessment{
				OverallRisk: 75,
				RiskFactors: map[string]RiskFactor{},
			},
			want:    []string{"High burnout risk"},
			notWant: []string{"Moderate burnout risk"},
		},
		{
			name: "moderate overall risk",
			a: &Assessment{
				OverallRisk: 55,
				RiskFactors: map[string]RiskFactor{},
			},
			want:    []string{"Moderate burnout risk"},
			notWant: []string{"High burnout risk", "Great job"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(tt.a)
			for _, want := range tt.want {
				if !hasAdvice(recs, want) {
					t.Errorf("Recommend() = %v, missing %q", recs, want)
				}
			}
			for _, notWant := range tt.notWant {
				if hasAdvice(recs, notWant) {
					t.Errorf("Recommend() = %v, should not contain %q", recs, notWant)
				}
			}
		})
	}

	t.Run("nil assessment", func(t *testing.T) {
		if recs := Recommend(nil); recs != nil {
			t.Errorf("Recommend(nil) = %v, want nil", recs)
		}
	})

	t.Run("all clear yields exactly one line", func(t *testing.T) {
		a := &Assessment{OverallRisk: 10, RiskFactors: map[string]RiskFactor{}}
		if recs := Recommend(a); len(recs) != 1 {
			t.Errorf("Recommend() = %v, want a single entry", recs)
		}
	})
}
