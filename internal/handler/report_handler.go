package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finbrief/internal/model"
	"finbrief/internal/pipeline"

	"github.com/gin-gonic/gin"
)

const (
	maxDeckBytes = 10 << 20
	pptxMIME     = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

type ReportGenerator interface {
	Run(ctx context.Context, topic string) (*pipeline.State, error)
}

type BriefingArchive interface {
	SaveBriefing(briefing *model.Briefing, sources []model.BriefingSource) error
}

type ReportCache interface {
	Get(ctx context.Context, topic string) (string, error)
	Set(ctx context.Context, topic, payload string, ttl time.Duration) error
}

type ReportHandler struct {
	pipeline ReportGenerator
	archive  BriefingArchive // nil disables archival
	cache    ReportCache     // nil disables caching
	cacheTTL time.Duration
}

func NewReportHandler(pipeline ReportGenerator, archive BriefingArchive, cache ReportCache, cacheTTL time.Duration) *ReportHandler {
	return &ReportHandler{
		pipeline: pipeline,
		archive:  archive,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	topic := strings.TrimSpace(req.Topic)
	cacheKey := topic
	if cacheKey == "" {
		cacheKey = "_default"
	}

	if h.cache != nil {
		payload, err := h.cache.Get(c.Request.Context(), cacheKey)
		if err != nil {
			slog.Warn("report cache lookup failed", "topic", cacheKey, "error", err)
		} else if payload != "" {
			slog.Info("report served from cache", "topic", cacheKey)
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
			return
		}
	}

	st, err := h.pipeline.Run(c.Request.Context(), topic)
	if err != nil {
		slog.Error("report generation failed", "topic", topic, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	res := toReportResponse(st)

	if h.archive != nil {
		if err := h.archiveBriefing(st); err != nil {
			slog.Error("error archiving briefing", "run_id", st.RunID, "error", err)
		}
	}

	if h.cache != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := h.cache.Set(c.Request.Context(), cacheKey, string(payload), h.cacheTTL); err != nil {
				slog.Warn("report cache store failed", "topic", cacheKey, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, res)
}

func toReportResponse(st *pipeline.State) ReportResponse {
	sources := make([]SourceResponse, 0, len(st.Sources))
	for _, src := range st.Sources {
		sources = append(sources, SourceResponse{ID: src.ID, Title: src.Title, URL: src.URL})
	}

	return ReportResponse{
		RunID:           st.RunID,
		Topic:           st.Query,
		ReportChinese:   st.ReportZH,
		ReportEnglish:   st.ReportEN,
		Sources:         sources,
		Logs:            st.Log,
		AudioChineseB64: encodeOrEmpty(st.AudioZH),
		AudioEnglishB64: encodeOrEmpty(st.AudioEN),
		PptB64:          encodeOrEmpty(st.Deck),
	}
}

// encodeOrEmpty keeps the degraded-stage contract visible on the wire: an
// empty string means the corresponding rendering failed or was skipped.
func encodeOrEmpty(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

func (h *ReportHandler) archiveBriefing(st *pipeline.State) error {
	briefing := &model.Briefing{
		RunID:       st.RunID,
		Topic:       st.Query,
		ReportZH:    st.ReportZH,
		ReportEN:    st.ReportEN,
		SourceCount: len(st.Sources),
		ModelUsed:   st.ModelUsed,
	}

	sources := make([]model.BriefingSource, 0, len(st.Sources))
	for _, src := range st.Sources {
		sources = append(sources, model.BriefingSource{
			SourceID: src.ID,
			Title:    src.Title,
			URL:      src.URL,
		})
	}

	return h.archive.SaveBriefing(briefing, sources)
}

// DownloadPPT decodes a caller-supplied base64 deck and relays it as an
// attachment. The payload is capped and must look like a zip container;
// beyond that no validation happens, matching the upstream contract.
func (h *ReportHandler) DownloadPPT(c *gin.Context) {
	encoded := c.Query("ppt_b64")
	if encoded == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing ppt_b64 parameter"})
		return
	}

	if len(encoded) > maxDeckBytes*4/3+4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deck too large"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 payload"})
		return
	}

	if len(data) > maxDeckBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deck too large"})
		return
	}

	if !bytes.HasPrefix(data, []byte("PK")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload is not a deck file"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="briefing.pptx"`)
	c.Data(http.StatusOK, pptxMIME, data)
}
