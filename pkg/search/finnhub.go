package search

import (
	"context"
	"strings"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

// Search pulls the general market-news feed and keeps the entries most
// relevant to the query. FinnHub has no query parameter, so relevance is a
// token match against headline and summary; when nothing matches, the newest
// entries are returned so the stage still gets market coverage.
func (c *FinnHubClient) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(strings.ToLower(query))

	var matched, newest []Result
	for _, news := range res {
		r := Result{Source: c.Name()}
		if news.Headline != nil {
			r.Title = *news.Headline
		}
		if news.Summary != nil {
			r.Content = *news.Summary
		}
		if news.Url != nil {
			r.URL = *news.Url
		}
		if r.URL == "" {
			continue
		}

		if len(newest) < limit {
			newest = append(newest, r)
		}
		if len(matched) < limit && matchesAny(r, tokens) {
			matched = append(matched, r)
		}
	}

	if len(matched) > 0 {
		return matched, nil
	}
	return newest, nil
}

func matchesAny(r Result, tokens []string) bool {
	haystack := strings.ToLower(r.Title + " " + r.Content)
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}
