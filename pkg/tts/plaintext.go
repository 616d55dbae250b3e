package tts

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// MaxSpeechChars is the per-narrative character budget sent to the speech
// provider. Keeps the clip short and stays under provider input limits.
const MaxSpeechChars = 2000

// Plaintext strips markdown structure from a narrative and returns the bare
// text, one line per block. Link targets, heading markers, emphasis and code
// fences all disappear; only the readable words survive for speech.
func Plaintext(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var sb strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem:
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// PrepareSpeechText converts a markdown narrative into the exact string sent
// to the speech provider: plain text truncated to MaxSpeechChars runes.
func PrepareSpeechText(markdown string) string {
	return truncateRunes(Plaintext(markdown), MaxSpeechChars)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
