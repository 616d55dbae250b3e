package podcast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"
)

// MockInsight is the canned auxiliary insight used when no podcast feeds are
// configured or every feed fetch fails. The stage never fails outright.
const MockInsight = `在最新的 All-In Podcast 中，Chamath 提到 AI 基础设施投资周期可能接近尾声，资金将流向应用层。Sacks 认为美国债务问题将在 2025 年成为核心议题。`

const (
	maxEpisodesPerFeed  = 2
	maxDescriptionChars = 300
)

type Fetcher struct {
	feedURLs []string
	parser   *gofeed.Parser
}

func NewFetcher(feedURLs []string) *Fetcher {
	return &Fetcher{
		feedURLs: feedURLs,
		parser:   gofeed.NewParser(),
	}
}

// LatestInsight builds an auxiliary text block from the newest episodes of
// the configured podcast feeds. Any feed error is logged and skipped; if
// nothing usable comes back, the canned insight is returned instead.
func (f *Fetcher) LatestInsight(ctx context.Context) string {
	var sb strings.Builder

	for _, feedURL := range f.feedURLs {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			slog.Warn("podcast feed fetch failed", "url", feedURL, "error", err)
			continue
		}

		count := 0
		for _, item := range feed.Items {
			if count >= maxEpisodesPerFeed {
				break
			}
			if item.Title == "" {
				continue
			}

			sb.WriteString(fmt.Sprintf("《%s》最新一期：%s", feed.Title, item.Title))
			if desc := strings.TrimSpace(item.Description); desc != "" {
				sb.WriteString(" — ")
				sb.WriteString(truncateRunes(desc, maxDescriptionChars))
			}
			sb.WriteString("\n")
			count++
		}
	}

	insight := strings.TrimSpace(sb.String())
	if insight == "" {
		return MockInsight
	}
	return insight
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
