package types

// Confidence is the label an LLM attaches to an identified risk
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// DefaultConfidenceScore is used for missing or unrecognized labels
const DefaultConfidenceScore = 0.7

// Score maps the label to a numeric confidence in [0,1]. Matching is exact
// (the Japanese labels 高/中/低 are accepted as well); anything else yields
// DefaultConfidenceScore.
func (c Confidence) Score() float64 {
	switch c {
	case ConfidenceHigh, "高":
		return 0.9
	case ConfidenceMedium, "中":
		return 0.7
	case ConfidenceLow, "低":
		return 0.5
	default:
		return DefaultConfidenceScore
	}
}

func (c Confidence) String() string {
	return string(c)
}
