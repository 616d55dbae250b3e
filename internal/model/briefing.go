package model

import "time"

type Briefing struct {
	ID          int64
	RunID       string
	Topic       string
	ReportZH    string
	ReportEN    string
	SourceCount int
	ModelUsed   string
	CreatedAt   time.Time
}

type BriefingSource struct {
	ID         int64
	BriefingID int64
	SourceID   int
	Title      string
	URL        string
}
