package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/wesdalton/Respire/analysis"
)

// DailyMetric is one user-day of health data. Every measurement is a
// pointer: nil means the source never reported it, which the risk
// model treats differently from a reported zero.
type DailyMetric struct {
	gorm.Model
	UserID uint      `gorm:"index;not null;uniqueIndex:idx_user_day" json:"user_id"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_user_day" json:"date"`

	// Recovery
	RecoveryScore   *float64 `json:"recovery_score,omitempty"`
	HRV             *float64 `json:"hrv,omitempty"`
	RestingHR       *float64 `json:"resting_hr,omitempty"`
	SpO2Percentage  *float64 `json:"spo2_percentage,omitempty"`
	SkinTempCelsius *float64 `json:"skin_temp_celsius,omitempty"`

	// Strain
	Strain     *float64 `json:"strain,omitempty"`
	MaxHR      *float64 `json:"max_hr,omitempty"`
	AvgHR      *float64 `json:"avg_hr,omitempty"`
	Kilojoules *float64 `json:"kilojoules,omitempty"`

	// Sleep, durations in minutes
	SleepQuality     *float64 `json:"sleep_quality,omitempty"`
	SleepConsistency *float64 `json:"sleep_consistency,omitempty"`
	SleepEfficiency  *float64 `json:"sleep_efficiency,omitempty"`
	TotalSleepTime   *float64 `json:"total_sleep_time,omitempty"`
	DeepSleepTime    *float64 `json:"deep_sleep_time,omitempty"`
	REMSleepTime     *float64 `json:"rem_sleep_time,omitempty"`
	RespiratoryRate  *float64 `json:"respiratory_rate,omitempty"`

	// Workouts
	WorkoutCount  *int     `json:"workout_count,omitempty"`
	WorkoutStrain *float64 `json:"workout_strain,omitempty"`

	// Self-reported
	MoodRating  *int    `json:"mood_rating,omitempty"`
	EnergyLevel *int    `json:"energy_level,omitempty"`
	StressLevel *int    `json:"stress_level,omitempty"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`

	// Computed by the risk engine
	BurnoutCurrent *float64 `json:"burnout_current,omitempty"`
	BurnoutTrend   *float64 `json:"burnout_trend,omitempty"`
}

// Day implements analysis.DayRecord.
func (m *DailyMetric) Day() time.Time { return m.Date }

// Metric implements analysis.DayRecord, mapping stored columns onto
// the engine's field names.
func (m *DailyMetric) Metric(name string) (float64, bool) {
	switch name {
	case analysis.FieldRecoveryScore:
		return deref(m.RecoveryScore)
	case analysis.FieldHRV:
		return deref(m.HRV)
	case analysis.FieldStrain:
		return deref(m.Strain)
	case analysis.FieldMoodRating:
		return derefInt(m.MoodRating)
	case analysis.FieldSleepQuality:
		return deref(m.SleepQuality)
	case analysis.FieldSleepEfficiency:
		return deref(m.SleepEfficiency)
	case analysis.FieldSleepConsistency:
		return deref(m.SleepConsistency)
	case analysis.FieldTotalSleepTime:
		return deref(m.TotalSleepTime)
	case analysis.FieldDeepSleepTime:
		return deref(m.DeepSleepTime)
	case analysis.FieldREMSleepTime:
		return deref(m.REMSleepTime)
	case analysis.FieldBurnoutScore:
		return deref(m.BurnoutCurrent)
	}
	return 0, false
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefInt(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}
