package analysis

// RiskLevel buckets an overall risk score for display and alerting.
type RiskLevel string

const (
	LevelLow      RiskLevel = "low"      // [0, 30)
	LevelModerate RiskLevel = "moderate" // [30, 60)
	LevelHigh     RiskLevel = "high"     // [60, 80)
	LevelCritical RiskLevel = "critical" // [80, 100]
)

// LevelFor maps a 0-100 risk score onto its bucket.
func LevelFor(score float64) RiskLevel {
	switch {
	case score < 30:
		return LevelLow
	case score < 60:
		return LevelModerate
	case score < 80:
		return LevelHigh
	default:
		return LevelCritical
	}
}

func (l RiskLevel) String() string { return string(l) }

// IsValid reports whether l is one of the defined buckets.
func (l RiskLevel) IsValid() bool { return l.rank() >= 0 }

// AtLeast reports whether l is at or above the given severity.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.rank() >= other.rank() && other.rank() >= 0
}

func (l RiskLevel) rank() int {
	switch l {
	case LevelLow:
		return 0
	case LevelModerate:
		return 1
	case LevelHigh:
		return 2
	case LevelCritical:
		return 3
	default:
		return -1
	}
}
