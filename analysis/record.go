package analysis

import "time"

// Metric names understood by the risk model. Stores map their columns
// onto these keys in their DayRecord implementation.
const (
	FieldRecoveryScore    = "recovery_score"
	FieldHRV              = "hrv"
	FieldStrain           = "strain"
	FieldMoodRating       = "mood_rating"
	FieldSleepQuality     = "sleep_quality"
	FieldSleepEfficiency  = "sleep_efficiency"
	FieldSleepConsistency = "sleep_consistency"
	FieldTotalSleepTime   = "total_sleep_time"
	FieldDeepSleepTime    = "deep_sleep_time"
	FieldREMSleepTime     = "rem_sleep_time"
	FieldBurnoutScore     = "burnout_current"
)

// DayRecord is one calendar day of tracked metrics. Metric returns the
// value for one of the Field names and whether it is present.
type DayRecord interface {
	Day() time.Time
	Metric(name string) (float64, bool)
}

// History resolves prior days for a scoring window. On returns nil when
// no record exists for that day; gaps stay in the window so the weight
// positions line up.
type History interface {
	On(day time.Time) DayRecord
}

// HistoryFunc adapts a lookup function to History.
type HistoryFunc func(day time.Time) DayRecord

func (f HistoryFunc) On(day time.Time) DayRecord { return f(day) }

// Records is a bulk history; the engine picks entries by calendar date.
type Records []DayRecord

func (rs Records) On(day time.Time) DayRecord {
	for _, r := range rs {
		if r != nil && sameDay(r.Day(), day) {
			return r
		}
	}
	return nil
}

// MapRecord is a map-backed DayRecord for ad-hoc inputs and tests.
type MapRecord struct {
	Date   time.Time
	Values map[string]float64
}

func (m MapRecord) Day() time.Time { return m.Date }

func (m MapRecord) Metric(name string) (float64, bool) {
	v, ok := m.Values[name]
	return v, ok
}

// window assembles the current day plus daysBack prior days, newest
// first. Missing days stay nil.
func window(current DayRecord, history History, daysBack int) []DayRecord {
	days := make([]DayRecord, 0, daysBack+1)
	days = append(days, current)
	for i := 1; i <= daysBack; i++ {
		var prior DayRecord
		if history != nil {
			prior = history.On(current.Day().AddDate(0, 0, -i))
		}
		days = append(days, prior)
	}
	return days
}

// metric reads a field off a possibly missing day.
func metric(d DayRecord, name string) (float64, bool) {
	if d == nil {
		return 0, false
	}
	return d.Metric(name)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
