package llm

import "context"

type BriefingInput struct {
	Topic    string
	Passages string // citation-tagged source block
	Insight  string
}

type BriefingResult struct {
	ReportZH  string
	ReportEN  string
	ModelUsed string
}

type Analyst interface {
	WriteBriefing(ctx context.Context, input BriefingInput) (*BriefingResult, error)
}
