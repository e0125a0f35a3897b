package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/wesdalton/Respire/analysis"
	"github.com/wesdalton/Respire/models"

	"gorm.io/gorm"
)

type DashboardService struct{ db *gorm.DB }

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{db: db} }

// ---------- Summary ----------

// seriesDays is how far back the dashboard chart reaches.
const seriesDays = 30

type MetricAvg struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Days    int     `json:"days"` // days in the window with a stored value
	Unit    string  `json:"unit,omitempty"`
}

type SeriesPoint struct {
	Date       string   `json:"date"`
	Recovery   *float64 `json:"recovery,omitempty"`
	HRV        *float64 `json:"hrv,omitempty"`
	Strain     *float64 `json:"strain,omitempty"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
	Mood       *int     `json:"mood,omitempty"`
	Burnout    *float64 `json:"burnout,omitempty"`
}

type DashboardSummary struct {
	Selected *models.DailyMetric `json:"selected,omitempty"` // requested day, or latest day with data

	Series   []SeriesPoint        `json:"series"` // oldest first
	Averages map[string]MetricAvg `json:"averages"`

	Burnout struct {
		Score *float64 `json:"score,omitempty"`
		Trend *float64 `json:"trend,omitempty"`
		Level string   `json:"level,omitempty"`
		Date  string   `json:"date,omitempty"`
	} `json:"burnout"`

	Metadata struct {
		From        string `json:"from"`
		To          string `json:"to"`
		DaysTracked int64  `json:"days_tracked"`
	} `json:"metadata"`
}

func (s *DashboardService) Summary(ctx context.Context, userID uint, selected *time.Time) (*DashboardSummary, error) {
	out := &DashboardSummary{}

	var sel models.DailyMetric
	var err error
	if selected != nil {
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND date = ?", userID, dayStart(*selected)).
			First(&sel).Error
	} else {
		err = s.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("date DESC").
			First(&sel).Error
	}
	switch {
	case err == nil:
		out.Selected = &sel
	case errors.Is(err, gorm.ErrRecordNotFound):
		// dashboard still renders, just empty
	default:
		return nil, err
	}

	anchor := time.Now()
	if selected != nil {
		anchor = *selected
	} else if out.Selected != nil {
		anchor = out.Selected.Date
	}
	to := dayStart(anchor)
	from := to.AddDate(0, 0, -(seriesDays - 1))

	var rows []models.DailyMetric
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	type acc struct {
		sum, min, max float64
		n             int
	}
	add := func(a *acc, v float64) {
		if a.n == 0 || v < a.min {
			a.min = v
		}
		if a.n == 0 || v > a.max {
			a.max = v
		}
		a.sum += v
		a.n++
	}
	m := map[string]*acc{
		"recovery": {}, "hrv": {}, "strain": {}, "sleep_hours": {}, "mood": {},
	}

	out.Series = make([]SeriesPoint, 0, len(rows))
	for i := range rows {
		r := rows[i]
		point := SeriesPoint{Date: r.Date.Format("2006-01-02")}
		if r.RecoveryScore != nil {
			point.Recovery = r.RecoveryScore
			add(m["recovery"], *r.RecoveryScore)
		}
		if r.HRV != nil {
			point.HRV = r.HRV
			add(m["hrv"], *r.HRV)
		}
		if r.Strain != nil {
			point.Strain = r.Strain
			add(m["strain"], *r.Strain)
		}
		if r.TotalSleepTime != nil {
			hours := round2(*r.TotalSleepTime / 60.0)
			point.SleepHours = &hours
			add(m["sleep_hours"], hours)
		}
		if r.MoodRating != nil {
			point.Mood = r.MoodRating
			add(m["mood"], float64(*r.MoodRating))
		}
		if r.BurnoutCurrent != nil {
			point.Burnout = r.BurnoutCurrent
			// newest scored day in the window wins
			out.Burnout.Score = r.BurnoutCurrent
			out.Burnout.Trend = r.BurnoutTrend
			out.Burnout.Level = analysis.LevelFor(*r.BurnoutCurrent).String()
			out.Burnout.Date = point.Date
		}
		out.Series = append(out.Series, point)
	}

	units := map[string]string{
		"recovery":    "%",
		"hrv":         "ms",
		"strain":      "",
		"sleep_hours": "hours",
		"mood":        "/10",
	}
	out.Averages = map[string]MetricAvg{}
	for name, a := range m {
		out.Averages[name] = MetricAvg{
			Average: avg(a.sum, a.n),
			Min:     round2(a.min),
			Max:     round2(a.max),
			Days:    a.n,
			Unit:    units[name],
		}
	}

	out.Metadata.From = from.Format("2006-01-02")
	out.Metadata.To = to.Format("2006-01-02")
	if err := s.db.WithContext(ctx).
		Model(&models.DailyMetric{}).
		Where("user_id = ?", userID).
		Count(&out.Metadata.DaysTracked).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// ---------- Calendar ----------

type CalendarDay struct {
	Date     string   `json:"date"`
	Recovery *float64 `json:"recovery,omitempty"`
	Mood     *int     `json:"mood,omitempty"`
	Burnout  *float64 `json:"burnout,omitempty"`
	Level    string   `json:"level,omitempty"`
	HasData  bool     `json:"has_data"`
}

type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

func (s *DashboardService) Calendar(ctx context.Context, userID uint, year, month int) (*CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var rows []models.DailyMetric
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, dayEnd(to)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	idx := map[string]models.DailyMetric{}
	for _, r := range rows {
		idx[r.Date.Format("2006-01-02")] = r
	}

	out := &CalendarMonth{Year: year, Month: month}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		day := CalendarDay{Date: key}
		if r, ok := idx[key]; ok {
			day.HasData = true
			day.Recovery = r.RecoveryScore
			day.Mood = r.MoodRating
			day.Burnout = r.BurnoutCurrent
			if r.BurnoutCurrent != nil {
				day.Level = analysis.LevelFor(*r.BurnoutCurrent).String()
			}
		}
		out.Days = append(out.Days, day)
	}
	return out, nil
}

// ---------- Correlation ----------

// correlatable lists the metric names the correlation endpoint accepts,
// matching what DailyMetric exposes to the engine.
var correlatable = map[string]bool{
	analysis.FieldRecoveryScore:    true,
	analysis.FieldHRV:              true,
	analysis.FieldStrain:           true,
	analysis.FieldMoodRating:       true,
	analysis.FieldSleepQuality:     true,
	analysis.FieldSleepEfficiency:  true,
	analysis.FieldSleepConsistency: true,
	analysis.FieldTotalSleepTime:   true,
	analysis.FieldDeepSleepTime:    true,
	analysis.FieldREMSleepTime:     true,
	analysis.FieldBurnoutScore:     true,
}

type CorrelationResult struct {
	MetricX     string  `json:"metric_x"`
	MetricY     string  `json:"metric_y"`
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
	From        string  `json:"from"`
	To          string  `json:"to"`
}

// Correlation pairs the two metrics across every day in the range where
// both have values and runs a Pearson test over the pairs.
func (s *DashboardService) Correlation(ctx context.Context, userID uint, metricX, metricY string, from, to time.Time) (*CorrelationResult, error) {
	if !correlatable[metricX] || !correlatable[metricY] {
		return nil, errors.New("unsupported metric name for correlation")
	}
	if metricX == metricY {
		return nil, errors.New("pick two different metrics")
	}

	var rows []models.DailyMetric
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var xs, ys []float64
	for i := range rows {
		x, okX := rows[i].Metric(metricX)
		y, okY := rows[i].Metric(metricY)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	c, err := analysis.PearsonCorrelation(xs, ys)
	if err != nil {
		return nil, err
	}
	return &CorrelationResult{
		MetricX:     metricX,
		MetricY:     metricY,
		Correlation: c.R,
		PValue:      c.PValue,
		SampleSize:  c.SampleSize,
		From:        dayStart(from).Format("2006-01-02"),
		To:          dayStart(to).Format("2006-01-02"),
	}, nil
}

// ---------- internals ----------

func avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dayStart(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()) }
func dayEnd(t time.Time) time.Time   { return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location()) }
