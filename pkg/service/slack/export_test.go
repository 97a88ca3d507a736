package slack

var (
	BuildEvaluationBlocks = buildEvaluationBlocks
	TruncateToMaxBytes    = truncateToMaxBytes
)
