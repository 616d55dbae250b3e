package handler

type ReportRequest struct {
	Topic string `json:"topic"`
}

type SourceResponse struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ReportResponse struct {
	RunID           string           `json:"run_id"`
	Topic           string           `json:"topic"`
	ReportChinese   string           `json:"report_chinese"`
	ReportEnglish   string           `json:"report_english"`
	Sources         []SourceResponse `json:"sources"`
	Logs            []string         `json:"logs"`
	AudioChineseB64 string           `json:"audio_chinese_b64"`
	AudioEnglishB64 string           `json:"audio_english_b64"`
	PptB64          string           `json:"ppt_b64"`
}

type BriefingResponse struct {
	ID            int64  `json:"id"`
	RunID         string `json:"run_id"`
	Topic         string `json:"topic"`
	ReportChinese string `json:"report_chinese"`
	ReportEnglish string `json:"report_english"`
	SourceCount   int    `json:"source_count"`
	ModelUsed     string `json:"model_used"`
	CreatedAt     string `json:"created_at"`
}

type BriefingsResponse struct {
	Latest  *BriefingResponse  `json:"latest"`
	History []BriefingResponse `json:"history"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}
