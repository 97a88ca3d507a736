package types

import "github.com/m-mizutani/goerr/v2"

// RiskLevel is the categorical outcome of a risk evaluation
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// Thresholds on the normalized score
const (
	RiskLevelHighThreshold   = 3.5
	RiskLevelMediumThreshold = 2.0
)

// AllRiskLevels returns all risk levels from lowest to highest
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh}
}

// RiskLevelFromScore classifies a normalized score
func RiskLevelFromScore(normalized float64) RiskLevel {
	switch {
	case normalized >= RiskLevelHighThreshold:
		return RiskLevelHigh
	case normalized >= RiskLevelMediumThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// IsValid checks if the risk level is valid
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// Rank orders levels: Low=1, Medium=2, High=3, unknown=0
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether l is the same as or above other
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Rank() >= other.Rank()
}

func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	l := RiskLevel(s)
	if !l.IsValid() {
		return "", goerr.New("invalid risk level", goerr.V("level", s))
	}
	return l, nil
}
