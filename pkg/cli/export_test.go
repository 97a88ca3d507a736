package cli

var (
	PrintReport     = printReport
	PrintGuidewords = printGuidewords
	RunAssessment   = runAssessment
	EnvFileArg      = envFileArg
)
