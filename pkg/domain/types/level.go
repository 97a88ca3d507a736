package types

// Level is a three-step qualitative rating used for countermeasure
// feasibility and meta-countermeasure applicability
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Weight returns High=3, Medium=2, Low=1 and 0 for anything else
func (l Level) Weight() int {
	switch l {
	case LevelHigh:
		return 3
	case LevelMedium:
		return 2
	case LevelLow:
		return 1
	default:
		return 0
	}
}

// IsValid checks if the level is valid
func (l Level) IsValid() bool {
	return l.Weight() > 0
}

func (l Level) String() string {
	return string(l)
}
