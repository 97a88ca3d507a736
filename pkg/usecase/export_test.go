package usecase

// Exported for testing
var (
	ParseAxisScore       = parseAxisScore
	DeduplicateRisks     = deduplicateRisks
	PrioritizeRisks      = prioritizeRisks
	ParseCountermeasures = parseCountermeasures
)
