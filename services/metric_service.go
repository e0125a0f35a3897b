package services

import (
	"context"
	"errors"
	"time"

	"github.com/wesdalton/Respire/analysis"
	"github.com/wesdalton/Respire/models"

	"gorm.io/gorm"
)

type MetricService struct{ db *gorm.DB }

func NewMetricService(db *gorm.DB) *MetricService { return &MetricService{db: db} }

// ErrNoMetrics marks a day with no stored row at all.
var ErrNoMetrics = errors.New("no metrics recorded for that day")

// ---------- Ingestion ----------

// MetricPatch is a partial day of metrics. Nil fields are left alone on
// merge, so device syncs and manual entry can land on the same row
// without clobbering each other.
type MetricPatch struct {
	RecoveryScore   *float64 `json:"recovery_score"`
	HRV             *float64 `json:"hrv"`
	RestingHR       *float64 `json:"resting_hr"`
	SpO2Percentage  *float64 `json:"spo2_percentage"`
	SkinTempCelsius *float64 `json:"skin_temp_celsius"`

	Strain     *float64 `json:"strain"`
	MaxHR      *float64 `json:"max_hr"`
	AvgHR      *float64 `json:"avg_hr"`
	Kilojoules *float64 `json:"kilojoules"`

	SleepQuality     *float64 `json:"sleep_quality"`
	SleepConsistency *float64 `json:"sleep_consistency"`
	SleepEfficiency  *float64 `json:"sleep_efficiency"`
	TotalSleepTime   *float64 `json:"total_sleep_time"`
	DeepSleepTime    *float64 `json:"deep_sleep_time"`
	REMSleepTime     *float64 `json:"rem_sleep_time"`
	RespiratoryRate  *float64 `json:"respiratory_rate"`

	WorkoutCount  *int     `json:"workout_count"`
	WorkoutStrain *float64 `json:"workout_strain"`

	MoodRating  *int    `json:"mood_rating"`
	EnergyLevel *int    `json:"energy_level"`
	StressLevel *int    `json:"stress_level"`
	Notes       *string `json:"notes"`
}

func (p *MetricPatch) apply(m *models.DailyMetric) {
	if p.RecoveryScore != nil {
		m.RecoveryScore = p.RecoveryScore
	}
	if p.HRV != nil {
		m.HRV = p.HRV
	}
	if p.RestingHR != nil {
		m.RestingHR = p.RestingHR
	}
	if p.SpO2Percentage != nil {
		m.SpO2Percentage = p.SpO2Percentage
	}
	if p.SkinTempCelsius != nil {
		m.SkinTempCelsius = p.SkinTempCelsius
	}
	if p.Strain != nil {
		m.Strain = p.Strain
	}
	if p.MaxHR != nil {
		m.MaxHR = p.MaxHR
	}
	if p.AvgHR != nil {
		m.AvgHR = p.AvgHR
	}
	if p.Kilojoules != nil {
		m.Kilojoules = p.Kilojoules
	}
	if p.SleepQuality != nil {
		m.SleepQuality = p.SleepQuality
	}
	if p.SleepConsistency != nil {
		m.SleepConsistency = p.SleepConsistency
	}
	if p.SleepEfficiency != nil {
		m.SleepEfficiency = p.SleepEfficiency
	}
	if p.TotalSleepTime != nil {
		m.TotalSleepTime = p.TotalSleepTime
	}
	if p.DeepSleepTime != nil {
		m.DeepSleepTime = p.DeepSleepTime
	}
	if p.REMSleepTime != nil {
		m.REMSleepTime = p.REMSleepTime
	}
	if p.RespiratoryRate != nil {
		m.RespiratoryRate = p.RespiratoryRate
	}
	if p.WorkoutCount != nil {
		m.WorkoutCount = p.WorkoutCount
	}
	if p.WorkoutStrain != nil {
		m.WorkoutStrain = p.WorkoutStrain
	}
	if p.MoodRating != nil {
		m.MoodRating = p.MoodRating
	}
	if p.EnergyLevel != nil {
		m.EnergyLevel = p.EnergyLevel
	}
	if p.StressLevel != nil {
		m.StressLevel = p.StressLevel
	}
	if p.Notes != nil {
		m.Notes = p.Notes
	}
}

// Upsert merges a patch into the user's row for that day, creating the
// row if it does not exist yet.
func (s *MetricService) Upsert(ctx context.Context, userID uint, day time.Time, patch *MetricPatch) (*models.DailyMetric, error) {
	if patch != nil && patch.MoodRating != nil {
		if r := *patch.MoodRating; r < 1 || r > 10 {
			return nil, errors.New("mood rating must be between 1 and 10")
		}
	}

	day = dayStart(day)

	var m models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.DailyMetric{UserID: userID, Date: day}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if patch != nil {
		patch.apply(&m)
	}
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertMood records the self-reported fields for a day.
func (s *MetricService) UpsertMood(ctx context.Context, userID uint, day time.Time, rating int, energy, stress *int, notes *string) (*models.DailyMetric, error) {
	return s.Upsert(ctx, userID, day, &MetricPatch{
		MoodRating:  &rating,
		EnergyLevel: energy,
		StressLevel: stress,
		Notes:       notes,
	})
}

// ---------- Queries ----------

func (s *MetricService) ByDate(ctx context.Context, userID uint, day time.Time) (*models.DailyMetric, error) {
	var m models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(day)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoMetrics
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Range returns rows between from and to inclusive, oldest first.
func (s *MetricService) Range(ctx context.Context, userID uint, from, to time.Time) ([]models.DailyMetric, error) {
	var rows []models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HistoryFor loads the daysBack days before day as engine records.
func (s *MetricService) HistoryFor(ctx context.Context, userID uint, day time.Time, daysBack int) (analysis.Records, error) {
	from := dayStart(day).AddDate(0, 0, -daysBack)
	to := dayStart(day).AddDate(0, 0, -1)

	var rows []models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, dayEnd(to)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make(analysis.Records, 0, len(rows))
	for i := range rows {
		records = append(records, &rows[i])
	}
	return records, nil
}
