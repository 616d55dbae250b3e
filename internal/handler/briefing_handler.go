package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"finbrief/internal/model"

	"github.com/gin-gonic/gin"
)

type BriefingStore interface {
	GetBriefings(limit, offset int) ([]model.Briefing, error)
	GetBriefingTotal() (int, error)
	GetLatestBriefing() (*model.Briefing, error)
	GetSourcesByBriefingID(briefingID int64) ([]model.BriefingSource, error)
}

type BriefingHandler struct {
	repository BriefingStore
}

func NewBriefingHandler(repository BriefingStore) *BriefingHandler {
	return &BriefingHandler{repository: repository}
}

func toBriefingResponse(b model.Briefing) BriefingResponse {
	return BriefingResponse{
		ID:            b.ID,
		RunID:         b.RunID,
		Topic:         b.Topic,
		ReportChinese: b.ReportZH,
		ReportEnglish: b.ReportEN,
		SourceCount:   b.SourceCount,
		ModelUsed:     b.ModelUsed,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *BriefingHandler) GetBriefings(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	briefings, err := h.repository.GetBriefings(limit, offset)
	if err != nil {
		slog.Error("error fetching briefings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetBriefingTotal()
	if err != nil {
		slog.Error("error fetching briefing total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := BriefingsResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		History: []BriefingResponse{},
	}

	if len(briefings) > 0 {
		latest := toBriefingResponse(briefings[0])
		res.Latest = &latest
		for _, b := range briefings[1:] {
			res.History = append(res.History, toBriefingResponse(b))
		}
	}

	c.JSON(http.StatusOK, res)
}

func (h *BriefingHandler) GetLatestBriefing(c *gin.Context) {
	briefing, err := h.repository.GetLatestBriefing()
	if err != nil {
		slog.Error("error fetching latest briefing", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if briefing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No briefing available"})
		return
	}

	sources, err := h.repository.GetSourcesByBriefingID(briefing.ID)
	if err != nil {
		slog.Error("error fetching briefing sources", "briefing_id", briefing.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	sourceRes := make([]SourceResponse, 0, len(sources))
	for _, s := range sources {
		sourceRes = append(sourceRes, SourceResponse{ID: s.SourceID, Title: s.Title, URL: s.URL})
	}

	res := toBriefingResponse(*briefing)
	c.JSON(http.StatusOK, gin.H{
		"briefing": res,
		"sources":  sourceRes,
	})
}

func (h *BriefingHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetBriefingTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
