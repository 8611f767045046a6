package compose

var (
	BuildUserPrompt = buildUserPrompt
	CandidateJSON   = candidateJSON
)
