// Package deck builds a small slide deck from a briefing narrative and
// serializes it as a .pptx container: a title slide followed by one content
// slide holding the narrative's paragraphs.
package deck

import "strings"

const (
	maxTitleChars       = 80
	maxAttributionChars = 200
	maxParagraphChars   = 600
)

type Slide struct {
	Paragraphs []string
}

type Deck struct {
	Title       string
	Attribution string
	Slides      []Slide // content slides, title slide not included
}

// SplitParagraphs splits a narrative on blank lines. Paragraphs that contain
// only whitespace are dropped; internal single newlines are kept as spaces.
func SplitParagraphs(narrative string) []string {
	blocks := strings.Split(strings.ReplaceAll(narrative, "\r\n", "\n"), "\n\n")

	var paragraphs []string
	for _, block := range blocks {
		lines := strings.Fields(strings.ReplaceAll(block, "\n", " "))
		text := strings.Join(lines, " ")
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, truncateRunes(text, maxParagraphChars))
	}

	return paragraphs
}

// Build assembles the deck structure: a title slide carrying the briefing
// title and source attribution, plus one content slide with every non-blank
// paragraph of the narrative. An empty narrative still yields a content slide
// so the deck always has at least two slides.
func Build(title, attribution, narrative string) *Deck {
	paragraphs := SplitParagraphs(narrative)
	if len(paragraphs) == 0 {
		paragraphs = []string{"（暂无内容）"}
	}

	return &Deck{
		Title:       truncateRunes(title, maxTitleChars),
		Attribution: truncateRunes(attribution, maxAttributionChars),
		Slides:      []Slide{{Paragraphs: paragraphs}},
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
