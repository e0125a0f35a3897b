package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wesdalton/Respire/analysis"
	"github.com/wesdalton/Respire/models"

	"gorm.io/gorm"
)

type BurnoutService struct {
	db      *gorm.DB
	metrics *MetricService
}

func NewBurnoutService(db *gorm.DB, metrics *MetricService) *BurnoutService {
	return &BurnoutService{db: db, metrics: metrics}
}

// ---------- Calculate ----------

// BurnoutResult is the assessment for one day plus the guidance rules
// that fired on it.
type BurnoutResult struct {
	Date            string               `json:"date"`
	Assessment      *analysis.Assessment `json:"assessment"`
	Recommendations []string             `json:"recommendations"`
}

// Calculate scores one day, stores the result on the metric row, and
// raises an alert when the risk level reaches high. Sparse days come
// back wrapped around analysis.ErrInsufficientData.
func (s *BurnoutService) Calculate(ctx context.Context, userID uint, day time.Time, daysBack int) (*BurnoutResult, error) {
	result, err := s.score(ctx, userID, day, daysBack)
	if err != nil {
		return nil, err
	}

	EmitScoredEvent(userID, result)

	a := result.Assessment
	if a.RiskLevel.AtLeast(analysis.LevelHigh) {
		EmitRiskAlert(userID, a.RiskLevel, a.OverallRisk,
			fmt.Sprintf("Burnout risk for %s is %s (%.1f/100).", result.Date, a.RiskLevel, a.OverallRisk))
	}
	return result, nil
}

// score runs the engine over the stored rows and persists the outcome.
// Backfill uses it directly so historical recalculation stays silent.
func (s *BurnoutService) score(ctx context.Context, userID uint, day time.Time, daysBack int) (*BurnoutResult, error) {
	day = dayStart(day)

	var current models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, analysis.ErrInsufficientData
	}
	if err != nil {
		return nil, err
	}

	if daysBack <= 0 {
		daysBack = analysis.DefaultDaysBack
	}
	history, err := s.metrics.HistoryFor(ctx, userID, day, daysBack)
	if err != nil {
		return nil, err
	}

	a, err := analysis.Assess(&current, history, daysBack)
	if err != nil {
		return nil, err
	}

	current.BurnoutCurrent = &a.OverallRisk
	current.BurnoutTrend = &a.Trend
	if err := s.db.WithContext(ctx).Save(&current).Error; err != nil {
		return nil, err
	}

	return &BurnoutResult{
		Date:            day.Format("2006-01-02"),
		Assessment:      a,
		Recommendations: analysis.Recommend(a),
	}, nil
}

// ---------- History ----------

type HistoryPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Trend float64 `json:"trend"`
	Level string  `json:"level"`
}

// History lists stored scores between from and to, oldest first. Days
// that were never scored are left out.
func (s *BurnoutService) History(ctx context.Context, userID uint, from, to time.Time) ([]HistoryPoint, error) {
	var rows []models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ? AND burnout_current IS NOT NULL",
			userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	points := make([]HistoryPoint, 0, len(rows))
	for _, r := range rows {
		p := HistoryPoint{
			Date:  r.Date.Format("2006-01-02"),
			Score: *r.BurnoutCurrent,
			Level: analysis.LevelFor(*r.BurnoutCurrent).String(),
		}
		if r.BurnoutTrend != nil {
			p.Trend = *r.BurnoutTrend
		}
		points = append(points, p)
	}
	return points, nil
}

// ---------- Backfill ----------

type BackfillSummary struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Scored  int    `json:"scored"`
	Skipped int    `json:"skipped"`
}

// Backfill recalculates every day in the range in ascending order, so
// each day's trend sees the freshly stored scores before it. Days
// without enough data are counted and skipped, not failed.
func (s *BurnoutService) Backfill(ctx context.Context, userID uint, from, to time.Time, daysBack int) (*BackfillSummary, error) {
	from, to = dayStart(from), dayStart(to)
	if to.Before(from) {
		return nil, errors.New("backfill range is reversed")
	}

	out := &BackfillSummary{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := s.score(ctx, userID, day, daysBack)
		if errors.Is(err, analysis.ErrInsufficientData) {
			out.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Scored++
	}
	return out, nil
}
