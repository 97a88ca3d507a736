package types

// TargetAxis names the risk axis a meta-countermeasure tries to lower
type TargetAxis string

const (
	TargetAxisFrequencyReduction      TargetAxis = "FrequencyReduction"
	TargetAxisAvoidabilityImprovement TargetAxis = "AvoidabilityImprovement"
	TargetAxisSeverityReduction       TargetAxis = "SeverityReduction"
)

// AllTargetAxes returns axes in the order meta-countermeasures are generated
func AllTargetAxes() []TargetAxis {
	return []TargetAxis{
		TargetAxisFrequencyReduction,
		TargetAxisAvoidabilityImprovement,
		TargetAxisSeverityReduction,
	}
}

// IsValid checks if the axis is valid
func (a TargetAxis) IsValid() bool {
	switch a {
	case TargetAxisFrequencyReduction, TargetAxisAvoidabilityImprovement, TargetAxisSeverityReduction:
		return true
	default:
		return false
	}
}

func (a TargetAxis) String() string {
	return string(a)
}

// StrategyType is the emphasis chosen when generating countermeasures
type StrategyType string

const (
	StrategySeverityReduction       StrategyType = "SeverityReduction"
	StrategyFrequencyReduction      StrategyType = "FrequencyReduction"
	StrategyAvoidabilityImprovement StrategyType = "AvoidabilityImprovement"
	StrategyBalanced                StrategyType = "Balanced"
)

func (s StrategyType) String() string {
	return string(s)
}
