package pipeline

// Source is one retrieval result normalized for citation. IDs are assigned
// per run, starting at 1 in encounter order, and URLs are unique within a run.
type Source struct {
	ID    int
	Title string
	URL   string
}

// State is the record threaded through the stages of one run. A fresh State
// is created per request and discarded with the response; nothing in it is
// shared across runs. Query is set once and never rewritten; Log is
// append-only in stage-execution order.
type State struct {
	RunID     string
	Query     string
	Passages  []string
	Sources   []Source
	Insight   string
	ReportZH  string
	ReportEN  string
	ModelUsed string
	AudioZH   []byte
	AudioEN   []byte
	Deck      []byte
	Log       []string
}
