package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finbrief/internal/model"
	"finbrief/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeGenerator struct {
	state *pipeline.State
	err   error
	topic string
	calls int
}

func (f *fakeGenerator) Run(ctx context.Context, topic string) (*pipeline.State, error) {
	f.topic = topic
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

type fakeArchive struct {
	saved   *model.Briefing
	sources []model.BriefingSource
	err     error
}

func (f *fakeArchive) SaveBriefing(b *model.Briefing, sources []model.BriefingSource) error {
	f.saved = b
	f.sources = sources
	return f.err
}

type fakeCache struct {
	entries map[string]string
	getErr  error
}

func (f *fakeCache) Get(ctx context.Context, topic string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.entries[topic], nil
}

func (f *fakeCache) Set(ctx context.Context, topic, payload string, ttl time.Duration) error {
	f.entries[topic] = payload
	return nil
}

func completedState() *pipeline.State {
	return &pipeline.State{
		RunID:    "run-1",
		Query:    "test",
		Passages: []string{"[1] Fed Holds — Rates unchanged. (https://example.com/fed)"},
		Sources:  []pipeline.Source{{ID: 1, Title: "Fed Holds", URL: "https://example.com/fed"}},
		Insight:  "播客观点",
		ReportZH: "中文晨报",
		ReportEN: "English briefing",
		AudioZH:  []byte("zh-mp3"),
		AudioEN:  []byte("en-mp3"),
		Deck:     []byte("PK\x03\x04deck"),
		Log: []string{
			"news agent: 1 unique sources from 1 queries",
			"podcast agent: insight gathered",
			"analyst agent: bilingual briefing written with gpt-4o-mini",
			"audio agent: chinese audio rendered (6 bytes)",
			"audio agent: english audio rendered (6 bytes)",
			"deck agent: deck rendered (10 bytes)",
		},
	}
}

func newReportRouter(h *ReportHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/generate_report", h.GenerateReport)
	r.GET("/download_ppt", h.DownloadPPT)
	return r
}

func TestGenerateReport_Success(t *testing.T) {
	gen := &fakeGenerator{state: completedState()}
	h := NewReportHandler(gen, nil, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", gen.topic)

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, "中文晨报", res.ReportChinese)
	assert.Equal(t, "English briefing", res.ReportEnglish)
	assert.Equal(t, 1, len(res.Sources))
	assert.Equal(t, "Fed Holds", res.Sources[0].Title)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("zh-mp3")), res.AudioChineseB64)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("en-mp3")), res.AudioEnglishB64)
	assert.NotEqual(t, "", res.PptB64)
	assert.Equal(t, 6, len(res.Logs))
}

func TestGenerateReport_EmptyBodyUsesDefaultTopic(t *testing.T) {
	gen := &fakeGenerator{state: completedState()}
	h := NewReportHandler(gen, nil, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "", gen.topic)
}

func TestGenerateReport_DegradedAudioStillOK(t *testing.T) {
	st := completedState()
	st.AudioZH = nil // chinese synthesis failed upstream
	gen := &fakeGenerator{state: st}
	h := NewReportHandler(gen, nil, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "", res.AudioChineseB64)
	assert.NotEqual(t, "", res.AudioEnglishB64)
}

func TestGenerateReport_SynthesisFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("synthesis stage: model unavailable")}
	h := NewReportHandler(gen, nil, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "report generation failed", res["error"])
}

func TestGenerateReport_ArchivesBriefing(t *testing.T) {
	gen := &fakeGenerator{state: completedState()}
	archive := &fakeArchive{}
	h := NewReportHandler(gen, archive, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, nil, archive.saved)
	assert.Equal(t, "run-1", archive.saved.RunID)
	assert.Equal(t, 1, archive.saved.SourceCount)
	assert.Equal(t, 1, len(archive.sources))
	assert.Equal(t, "https://example.com/fed", archive.sources[0].URL)
}

func TestGenerateReport_ArchiveErrorDoesNotFailRequest(t *testing.T) {
	gen := &fakeGenerator{state: completedState()}
	archive := &fakeArchive{err: errors.New("db down")}
	h := NewReportHandler(gen, archive, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateReport_CacheHitSkipsPipeline(t *testing.T) {
	gen := &fakeGenerator{state: completedState()}
	cache := &fakeCache{entries: map[string]string{"test": `{"run_id":"cached"}`}}
	h := NewReportHandler(gen, nil, cache, time.Minute)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, gen.calls) // pipeline never ran

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "cached", res.RunID)
}

func TestGenerateReport_CacheMissStoresResult(t *testing.T) {
	gen := &fakeGenerator{state: completedState()}
	cache := &fakeCache{entries: map[string]string{}}
	h := NewReportHandler(gen, nil, cache, time.Minute)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/generate_report", strings.NewReader(`{"topic":"test"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "", cache.entries["test"])
}

func TestDownloadPPT_RelaysDeck(t *testing.T) {
	h := NewReportHandler(&fakeGenerator{}, nil, nil, 0)
	r := newReportRouter(h)

	deckBytes := []byte("PK\x03\x04fake-deck-content")
	encoded := base64.StdEncoding.EncodeToString(deckBytes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/download_ppt?ppt_b64="+encoded, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pptxMIME, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="briefing.pptx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, true, bytes.Equal(deckBytes, w.Body.Bytes()))
}

func TestDownloadPPT_MissingParam(t *testing.T) {
	h := NewReportHandler(&fakeGenerator{}, nil, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/download_ppt", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadPPT_InvalidBase64(t *testing.T) {
	h := NewReportHandler(&fakeGenerator{}, nil, nil, 0)
	r := newReportRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/download_ppt?ppt_b64=%21not-base64%21", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadPPT_RejectsNonZipPayload(t *testing.T) {
	h := NewReportHandler(&fakeGenerator{}, nil, nil, 0)
	r := newReportRouter(h)

	encoded := base64.StdEncoding.EncodeToString([]byte("plain text, not a deck"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/download_ppt?ppt_b64="+encoded, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
