package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/wesdalton/Respire/models"

	"gorm.io/gorm"
)

const (
	whoopScored      = "SCORED"
	metricDateLayout = "2006-01-02"
)

// ErrWhoopNotLinked means neither the user row nor the environment
// carries a WHOOP access token.
var ErrWhoopNotLinked = errors.New("no whoop access token configured for this account")

// ErrWhoopTokenExpired means the stored token's expiry has passed and
// the account has to be linked again with a fresh token.
var ErrWhoopTokenExpired = errors.New("whoop access token has expired, link the account again")

// WhoopService pulls wearable data for a user and folds it into their
// daily metric rows.
type WhoopService struct {
	db      *gorm.DB
	metrics *MetricService
}

func NewWhoopService(db *gorm.DB, metrics *MetricService) *WhoopService {
	return &WhoopService{db: db, metrics: metrics}
}

type SyncSummary struct {
	From       string `json:"from"`
	To         string `json:"to"`
	DaysStored int    `json:"days_stored"`
	Recoveries int    `json:"recoveries"`
	Sleeps     int    `json:"sleeps"`
	Cycles     int    `json:"cycles"`
	Workouts   int    `json:"workouts"`
}

// SyncRange fetches recovery, sleep, cycle, and workout records for the
// date range and upserts one metric row per calendar day. The token is
// the one stored on the user, falling back to WHOOP_ACCESS_TOKEN for
// single-user deployments.
func (s *WhoopService) SyncRange(ctx context.Context, userID uint, from, to time.Time) (*SyncSummary, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	token := user.WhoopAccessToken
	if token != "" && user.WhoopTokenExpiresAt != nil && user.WhoopTokenExpiresAt.Before(time.Now()) {
		return nil, ErrWhoopTokenExpired
	}
	if token == "" {
		token = os.Getenv("WHOOP_ACCESS_TOKEN")
	}
	if token == "" {
		return nil, ErrWhoopNotLinked
	}

	start := dayStart(from)
	end := dayEnd(to)
	client := NewWhoopClient(token)

	recoveries, err := client.Recoveries(ctx, start, end)
	if err != nil {
		return nil, err
	}
	sleeps, err := client.Sleeps(ctx, start, end)
	if err != nil {
		return nil, err
	}
	cycles, err := client.Cycles(ctx, start, end)
	if err != nil {
		return nil, err
	}
	workouts, err := client.Workouts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	patches := buildDailyPatches(recoveries, sleeps, cycles, workouts)

	dates := make([]string, 0, len(patches))
	for date := range patches {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		day, err := time.Parse(metricDateLayout, date)
		if err != nil {
			continue
		}
		if _, err := s.metrics.Upsert(ctx, userID, day, patches[date]); err != nil {
			return nil, err
		}
	}

	summary := &SyncSummary{
		From:       start.Format(metricDateLayout),
		To:         dayStart(to).Format(metricDateLayout),
		DaysStored: len(dates),
		Recoveries: len(recoveries),
		Sleeps:     len(sleeps),
		Cycles:     len(cycles),
		Workouts:   len(workouts),
	}

	if summary.DaysStored > 0 {
		EmitInfoAlert(userID, "whoop_sync",
			fmt.Sprintf("Synced %d days of WHOOP data (%s to %s).", summary.DaysStored, summary.From, summary.To))
	}
	return summary, nil
}

// ---------- Transformer ----------

// buildDailyPatches maps raw WHOOP records onto per-date metric patches.
// Only SCORED records count. Sleeps land on the calendar date the sleep
// ended in the user's timezone and naps are skipped; a recovery lands on
// the date of the sleep it is attached to; cycles and workouts land on
// their UTC start date.
func buildDailyPatches(recoveries []WhoopRecovery, sleeps []WhoopSleep, cycles []WhoopCycle, workouts []WhoopWorkout) map[string]*MetricPatch {
	patches := map[string]*MetricPatch{}
	at := func(date string) *MetricPatch {
		p, ok := patches[date]
		if !ok {
			p = &MetricPatch{}
			patches[date] = p
		}
		return p
	}

	sleepDates := make(map[int64]string, len(sleeps))
	for _, sl := range sleeps {
		sleepDates[sl.ID] = sleepLocalDate(sl)
	}

	for _, sl := range sleeps {
		if sl.ScoreState != whoopScored || sl.Nap {
			continue
		}
		p := at(sleepLocalDate(sl))
		p.SleepQuality = fptr(sl.Score.SleepPerformancePercentage)
		p.SleepConsistency = fptr(sl.Score.SleepConsistencyPercentage)
		p.SleepEfficiency = fptr(sl.Score.SleepEfficiencyPercentage)
		p.TotalSleepTime = fptr(float64(sl.Score.StageSummary.TotalInBedTimeMilli) / 60000.0)
		p.DeepSleepTime = fptr(float64(sl.Score.StageSummary.TotalSlowWaveSleepTimeMilli) / 60000.0)
		p.REMSleepTime = fptr(float64(sl.Score.StageSummary.TotalRemSleepTimeMilli) / 60000.0)
		p.RespiratoryRate = fptr(sl.Score.RespiratoryRate)
	}

	for _, r := range recoveries {
		if r.ScoreState != whoopScored {
			continue
		}
		date, ok := sleepDates[r.SleepID]
		if !ok {
			date = r.CreatedAt.UTC().Format(metricDateLayout)
		}
		p := at(date)
		p.RecoveryScore = fptr(r.Score.RecoveryScore)
		p.HRV = fptr(r.Score.HRVRmssd)
		p.RestingHR = fptr(r.Score.RestingHeartRate)
		p.SpO2Percentage = fptr(r.Score.SpO2Percentage)
		p.SkinTempCelsius = fptr(r.Score.SkinTempCelsius)
	}

	for _, c := range cycles {
		if c.ScoreState != whoopScored {
			continue
		}
		p := at(c.Start.UTC().Format(metricDateLayout))
		p.Strain = fptr(c.Score.Strain)
		p.AvgHR = fptr(c.Score.AverageHeartRate)
		p.MaxHR = fptr(c.Score.MaxHeartRate)
		p.Kilojoules = fptr(c.Score.Kilojoule)
	}

	for _, w := range workouts {
		if w.ScoreState != whoopScored {
			continue
		}
		p := at(w.Start.UTC().Format(metricDateLayout))
		count := 1
		strain := w.Score.Strain
		if p.WorkoutCount != nil {
			count += *p.WorkoutCount
		}
		if p.WorkoutStrain != nil {
			strain += *p.WorkoutStrain
		}
		p.WorkoutCount = &count
		p.WorkoutStrain = &strain
	}

	return patches
}

// sleepLocalDate shifts the sleep's end instant by the recorded
// timezone offset so the row lands on the user's wall-clock date.
func sleepLocalDate(sl WhoopSleep) string {
	return sl.End.UTC().Add(tzOffsetDuration(sl.TimezoneOffset)).Format(metricDateLayout)
}

// tzOffsetDuration parses offsets like "+05:30" or "-08:00". Anything
// malformed is treated as UTC.
func tzOffsetDuration(offset string) time.Duration {
	if len(offset) < 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return 0
	}
	hours, err := strconv.Atoi(offset[1:3])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(offset[4:6])
	if err != nil {
		return 0
	}
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if offset[0] == '-' {
		return -d
	}
	return d
}

func fptr(v float64) *float64 { return &v }
