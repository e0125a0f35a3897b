package services

import (
	"sort"
	"testing"
	"time"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func patchDates(patches map[string]*MetricPatch) []string {
	dates := make([]string, 0, len(patches))
	for date := range patches {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func TestTZOffsetDuration(t *testing.T) {
	cases := []struct {
		offset string
		want   time.Duration
	}{
		{"+05:00", 5 * time.Hour},
		{"-08:00", -8 * time.Hour},
		{"+05:30", 5*time.Hour + 30*time.Minute},
		{"-09:30", -(9*time.Hour + 30*time.Minute)},
		{"+00:00", 0},
		{"", 0},
		{"05:00", 0},
		{"+5:00", 0},
		{"+aa:00", 0},
		{"+05-00", 0},
	}
	for _, tc := range cases {
		if got := tzOffsetDuration(tc.offset); got != tc.want {
			t.Errorf("tzOffsetDuration(%q) = %v, want %v", tc.offset, got, tc.want)
		}
	}
}

// A sleep that crosses midnight UTC still lands on the wall-clock date
// it ended, and everything attached to that day assembles on one patch.
func TestBuildDailyPatchesFullDay(t *testing.T) {
	sleep := WhoopSleep{
		ID:             901,
		Start:          utc(2025, 3, 10, 21, 0),
		End:            utc(2025, 3, 11, 2, 30), // 21:30 on Mar 10 in -05:00
		TimezoneOffset: "-05:00",
		ScoreState:     whoopScored,
	}
	sleep.Score.SleepPerformancePercentage = 85
	sleep.Score.SleepConsistencyPercentage = 72
	sleep.Score.SleepEfficiencyPercentage = 91
	sleep.Score.RespiratoryRate = 14.25
	sleep.Score.StageSummary.TotalInBedTimeMilli = 27000000
	sleep.Score.StageSummary.TotalSlowWaveSleepTimeMilli = 5400000
	sleep.Score.StageSummary.TotalRemSleepTimeMilli = 6600000

	recovery := WhoopRecovery{CycleID: 51, SleepID: 901, ScoreState: whoopScored}
	recovery.Score.RecoveryScore = 67
	recovery.Score.HRVRmssd = 55.5
	recovery.Score.RestingHeartRate = 48
	recovery.Score.SpO2Percentage = 96.5
	recovery.Score.SkinTempCelsius = 33.75

	cycle := WhoopCycle{ID: 51, Start: utc(2025, 3, 10, 4, 0), ScoreState: whoopScored}
	cycle.Score.Strain = 14.5
	cycle.Score.AverageHeartRate = 72
	cycle.Score.MaxHeartRate = 158
	cycle.Score.Kilojoule = 8500

	morning := WhoopWorkout{ID: 1, Start: utc(2025, 3, 10, 7, 0), ScoreState: whoopScored}
	morning.Score.Strain = 8.5
	evening := WhoopWorkout{ID: 2, Start: utc(2025, 3, 10, 17, 0), ScoreState: whoopScored}
	evening.Score.Strain = 4.25

	patches := buildDailyPatches(
		[]WhoopRecovery{recovery},
		[]WhoopSleep{sleep},
		[]WhoopCycle{cycle},
		[]WhoopWorkout{morning, evening},
	)

	if len(patches) != 1 {
		t.Fatalf("got dates %v, want just 2025-03-10", patchDates(patches))
	}
	p, ok := patches["2025-03-10"]
	if !ok {
		t.Fatalf("no patch for 2025-03-10, got %v", patchDates(patches))
	}

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"recovery_score", p.RecoveryScore, 67},
		{"hrv", p.HRV, 55.5},
		{"resting_hr", p.RestingHR, 48},
		{"spo2_percentage", p.SpO2Percentage, 96.5},
		{"skin_temp_celsius", p.SkinTempCelsius, 33.75},
		{"sleep_quality", p.SleepQuality, 85},
		{"sleep_consistency", p.SleepConsistency, 72},
		{"sleep_efficiency", p.SleepEfficiency, 91},
		{"total_sleep_time", p.TotalSleepTime, 450},
		{"deep_sleep_time", p.DeepSleepTime, 90},
		{"rem_sleep_time", p.REMSleepTime, 110},
		{"respiratory_rate", p.RespiratoryRate, 14.25},
		{"strain", p.Strain, 14.5},
		{"avg_hr", p.AvgHR, 72},
		{"max_hr", p.MaxHR, 158},
		{"kilojoules", p.Kilojoules, 8500},
		{"workout_strain", p.WorkoutStrain, 12.75},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s is nil, want %v", c.name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, *c.got, c.want)
		}
	}
	if p.WorkoutCount == nil || *p.WorkoutCount != 2 {
		t.Errorf("workout_count = %v, want 2", p.WorkoutCount)
	}
}

func TestBuildDailyPatchesSkipsUnscored(t *testing.T) {
	sleep := WhoopSleep{ID: 1, End: utc(2025, 3, 10, 6, 0), TimezoneOffset: "+00:00", ScoreState: "PENDING_SCORE"}
	recovery := WhoopRecovery{SleepID: 1, ScoreState: "PENDING_SCORE", CreatedAt: utc(2025, 3, 10, 6, 5)}
	cycle := WhoopCycle{Start: utc(2025, 3, 10, 4, 0), ScoreState: "UNSCORABLE"}
	workout := WhoopWorkout{Start: utc(2025, 3, 10, 8, 0), ScoreState: "PENDING_SCORE"}

	patches := buildDailyPatches(
		[]WhoopRecovery{recovery},
		[]WhoopSleep{sleep},
		[]WhoopCycle{cycle},
		[]WhoopWorkout{workout},
	)
	if len(patches) != 0 {
		t.Fatalf("got dates %v, want none", patchDates(patches))
	}
}

func TestBuildDailyPatchesSkipsNaps(t *testing.T) {
	main := WhoopSleep{ID: 1, End: utc(2025, 3, 10, 6, 30), TimezoneOffset: "+00:00", ScoreState: whoopScored}
	main.Score.SleepPerformancePercentage = 80
	nap := WhoopSleep{ID: 2, End: utc(2025, 3, 10, 19, 0), TimezoneOffset: "+00:00", Nap: true, ScoreState: whoopScored}
	nap.Score.SleepPerformancePercentage = 99

	patches := buildDailyPatches(nil, []WhoopSleep{main, nap}, nil, nil)
	if len(patches) != 1 {
		t.Fatalf("got dates %v, want just 2025-03-10", patchDates(patches))
	}
	p := patches["2025-03-10"]
	if p == nil || p.SleepQuality == nil || *p.SleepQuality != 80 {
		t.Fatalf("sleep_quality = %v, want 80 from the main sleep", p.SleepQuality)
	}
}

// The recovery belongs to the day its sleep ended locally, even when
// that differs from the recovery's own UTC creation date.
func TestRecoveryFollowsSleepDate(t *testing.T) {
	sleep := WhoopSleep{ID: 42, End: utc(2025, 3, 10, 16, 0), TimezoneOffset: "+10:00", ScoreState: whoopScored}
	recovery := WhoopRecovery{SleepID: 42, ScoreState: whoopScored, CreatedAt: utc(2025, 3, 10, 16, 5)}
	recovery.Score.RecoveryScore = 61

	patches := buildDailyPatches([]WhoopRecovery{recovery}, []WhoopSleep{sleep}, nil, nil)
	if len(patches) != 1 {
		t.Fatalf("got dates %v, want just 2025-03-11", patchDates(patches))
	}
	p := patches["2025-03-11"]
	if p == nil || p.RecoveryScore == nil || *p.RecoveryScore != 61 {
		t.Fatalf("recovery_score on 2025-03-11 = %v, want 61", p)
	}
}

func TestRecoveryFallsBackToCreatedDate(t *testing.T) {
	recovery := WhoopRecovery{SleepID: 777, ScoreState: whoopScored, CreatedAt: utc(2025, 3, 12, 9, 15)}
	recovery.Score.RecoveryScore = 55

	patches := buildDailyPatches([]WhoopRecovery{recovery}, nil, nil, nil)
	p := patches["2025-03-12"]
	if p == nil || p.RecoveryScore == nil || *p.RecoveryScore != 55 {
		t.Fatalf("recovery_score on 2025-03-12 = %v, want 55", p)
	}
}

func TestBuildDailyPatchesSplitsByDate(t *testing.T) {
	first := WhoopCycle{ID: 1, Start: utc(2025, 3, 9, 22, 0), ScoreState: whoopScored}
	first.Score.Strain = 12
	second := WhoopCycle{ID: 2, Start: utc(2025, 3, 10, 3, 0), ScoreState: whoopScored}
	second.Score.Strain = 9

	patches := buildDailyPatches(nil, nil, []WhoopCycle{first, second}, nil)
	if len(patches) != 2 {
		t.Fatalf("got dates %v, want two", patchDates(patches))
	}
	if p := patches["2025-03-09"]; p == nil || p.Strain == nil || *p.Strain != 12 {
		t.Errorf("strain on 2025-03-09 = %v, want 12", p)
	}
	if p := patches["2025-03-10"]; p == nil || p.Strain == nil || *p.Strain != 9 {
		t.Errorf("strain on 2025-03-10 = %v, want 9", p)
	}
}
