package analysis

import (
	"math"
	"testing"
)

func TestSleepQualityScore(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		want   float64
		wantOK bool
	}{
		{
			name:   "quality alone",
			values: map[string]float64{FieldSleepQuality: 70},
			want:   70,
			wantOK: true,
		},
		{
			name: "quality efficiency consistency",
			values: map[string]float64{
				FieldSleepQuality:     80,
				FieldSleepEfficiency:  90,
				FieldSleepConsistency: 70,
			},
			want:   80, // 80*0.4 + 90*0.3 + 70*0.3
			wantOK: true,
		},
		{
			name: "ideal stage percentages",
			values: map[string]float64{
				FieldSleepQuality:  50,
				FieldTotalSleepTime: 500,
				FieldDeepSleepTime:  100, // 20%
				FieldREMSleepTime:   115, // 23%
			},
			want:   (50*sleepQualityWeight + 100*sleepStageWeight + 100*sleepStageWeight) / (sleepQualityWeight + 2*sleepStageWeight),
			wantOK: true,
		},
		{
			name: "deep sleep far from ideal",
			values: map[string]float64{
				FieldTotalSleepTime: 400,
				FieldDeepSleepTime:  40, // 10%, penalty 50
			},
			want:   50,
			wantOK: true,
		},
		{
			name: "zero total sleep skips stage scores",
			values: map[string]float64{
				FieldTotalSleepTime: 0,
				FieldDeepSleepTime:  30,
			},
			want:   0,
			wantOK: false,
		},
		{
			name:   "no sleep data at all",
			values: map[string]float64{FieldRecoveryScore: 80},
			want:   0,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SleepQualityScore(rec(0, tt.values))
			if ok != tt.wantOK {
				t.Fatalf("SleepQualityScore() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("SleepQualityScore() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil record", func(t *testing.T) {
		if _, ok := SleepQualityScore(nil); ok {
			t.Error("SleepQualityScore(nil) ok = true, want false")
		}
	})

	t.Run("result stays in range", func(t *testing.T) {
		extremes := []map[string]float64{
			{FieldSleepQuality: 0, FieldSleepEfficiency: 0, FieldSleepConsistency: 0},
			{FieldSleepQuality: 100, FieldSleepEfficiency: 100, FieldSleepConsistency: 100},
			{FieldTotalSleepTime: 600, FieldDeepSleepTime: 600, FieldREMSleepTime: 0},
		}
		for _, values := range extremes {
			got, ok := SleepQualityScore(rec(0, values))
			if !ok {
				t.Fatalf("SleepQualityScore(%v) not ok", values)
			}
			if got < 0 || got > 100 {
				t.Errorf("SleepQualityScore(%v) = %v, out of range", values, got)
			}
		}
	})
}
