package llm

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestBuildUserPrompt(t *testing.T) {
	input := BriefingInput{
		Topic:    "今日市场动态",
		Passages: "[1] Fed Holds Rates — The Fed kept rates unchanged. (https://example.com/fed)",
		Insight:  "在最新的播客中，嘉宾讨论了AI投资周期。",
	}

	prompt := buildUserPrompt(input)

	assert.Equal(t, true, strings.Contains(prompt, "今日市场动态"))
	assert.Equal(t, true, strings.Contains(prompt, "[1] Fed Holds Rates"))
	assert.Equal(t, true, strings.Contains(prompt, "https://example.com/fed"))
	assert.Equal(t, true, strings.Contains(prompt, "AI投资周期"))

	// News block must come before the podcast block.
	newsIdx := strings.Index(prompt, "【最新新闻】")
	podcastIdx := strings.Index(prompt, "【播客观点】")
	assert.Equal(t, true, newsIdx >= 0)
	assert.Equal(t, true, podcastIdx > newsIdx)
}
