package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"golang.org/x/time/rate"
)

func newTestTavilyClient(baseURL string) *TavilyClient {
	return &TavilyClient{
		apiKey:     "test-key",
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func TestTavilySearch(t *testing.T) {
	payload := map[string]interface{}{
		"results": []map[string]interface{}{
			{
				"title":   "Fed Holds Rates Steady",
				"url":     "https://example.com/fed-rates",
				"content": "The Federal Reserve kept interest rates unchanged.",
			},
			{
				"title":   "Bitcoin ETF Inflows Continue",
				"url":     "https://example.com/btc-etf",
				"content": "Spot bitcoin ETFs saw another week of inflows.",
			},
		},
	}

	var gotBody tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := newTestTavilyClient(srv.URL)

	results, err := client.Search(context.Background(), "fed rates", 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, "fed rates", gotBody.Query)
	assert.Equal(t, 2, gotBody.MaxResults)
	assert.Equal(t, "test-key", gotBody.APIKey)

	assert.Equal(t, 2, len(results))
	assert.Equal(t, "Fed Holds Rates Steady", results[0].Title)
	assert.Equal(t, "https://example.com/fed-rates", results[0].URL)
	assert.Equal(t, "The Federal Reserve kept interest rates unchanged.", results[0].Content)
	assert.Equal(t, "Tavily", results[0].Source)
}

func TestTavilySearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestTavilyClient(srv.URL)

	results, err := client.Search(context.Background(), "anything", 3)

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(results))
}

func TestTavilySearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	}))
	defer srv.Close()

	client := newTestTavilyClient(srv.URL)

	results, err := client.Search(context.Background(), "quiet day", 3)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(results))
}
