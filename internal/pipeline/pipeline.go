// Package pipeline runs the five-stage briefing flow: retrieval, podcast
// insight, LLM synthesis, speech rendering and deck rendering. Stages run
// strictly in order; each one reads the fields earlier stages produced and
// returns only its own, which the orchestrator merges into the State.
//
// Failure policy: retrieval, audio and deck degrade in place (placeholder or
// empty payload plus a log entry) and the run continues. Only synthesis is
// fatal. Every external call is attempted at most once; the only guard is
// one overall deadline per run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finbrief/pkg/deck"
	"finbrief/pkg/llm"
	"finbrief/pkg/podcast"
	"finbrief/pkg/search"
	"finbrief/pkg/tts"

	"github.com/google/uuid"
)

// FallbackLogEntry is appended when retrieval fell back to the canned
// sources. Callers can look for it to detect a degraded run.
const FallbackLogEntry = "news agent: search unavailable, using fallback sources"

const defaultTimeout = 120 * time.Second

type Options struct {
	SearchClients   []search.Client
	Podcasts        *podcast.Fetcher
	Analyst         llm.Analyst
	Speech          tts.SpeechClient // nil skips audio rendering
	DefaultTopic    string
	Themes          []string
	ResultsPerQuery int
	Timeout         time.Duration
}

type Pipeline struct {
	opts Options
}

func New(opts Options) *Pipeline {
	if opts.DefaultTopic == "" {
		opts.DefaultTopic = "今日市场动态"
	}
	if opts.ResultsPerQuery <= 0 {
		opts.ResultsPerQuery = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Pipeline{opts: opts}
}

// Run executes one full pipeline pass for the topic. The returned State is
// complete even when individual stages degraded; the error is non-nil only
// when synthesis failed, and the State then holds everything produced up to
// that point.
func (p *Pipeline) Run(ctx context.Context, topic string) (*State, error) {
	if strings.TrimSpace(topic) == "" {
		topic = p.opts.DefaultTopic
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	st := &State{
		RunID: uuid.NewString(),
		Query: topic,
	}

	passages, sources, logs := p.retrieve(ctx, st.Query)
	st.Passages = passages
	st.Sources = sources
	st.Log = append(st.Log, logs...)

	insight, logs := p.gatherInsight(ctx)
	st.Insight = insight
	st.Log = append(st.Log, logs...)

	briefing, logs, err := p.synthesize(ctx, st.Query, st.Passages, st.Insight)
	st.Log = append(st.Log, logs...)
	if err != nil {
		return st, fmt.Errorf("synthesis stage: %w", err)
	}
	st.ReportZH = briefing.ReportZH
	st.ReportEN = briefing.ReportEN
	st.ModelUsed = briefing.ModelUsed

	audioZH, audioEN, logs := p.renderAudio(ctx, st.ReportZH, st.ReportEN)
	st.AudioZH = audioZH
	st.AudioEN = audioEN
	st.Log = append(st.Log, logs...)

	deckBytes, logs := p.renderDeck(st.Query, st.ReportZH, st.Sources)
	st.Deck = deckBytes
	st.Log = append(st.Log, logs...)

	return st, nil
}

func (p *Pipeline) buildQueries(topic string) []string {
	queries := []string{topic + " financial news bloomberg wsj"}
	for _, theme := range p.opts.Themes {
		queries = append(queries, theme+" latest news")
	}
	return queries
}

// retrieve fans the topic out over the configured queries and sources,
// deduplicates by URL and assigns citation IDs in encounter order. Per-query
// failures are logged and skipped; only a run with zero unique results falls
// back to the canned source list.
func (p *Pipeline) retrieve(ctx context.Context, topic string) ([]string, []Source, []string) {
	queries := p.buildQueries(topic)

	var (
		logs     []string
		passages []string
		sources  []Source
	)
	seen := map[string]bool{}
	nextID := 1

	for _, query := range queries {
		for _, client := range p.opts.SearchClients {
			results, err := client.Search(ctx, query, p.opts.ResultsPerQuery)
			if err != nil {
				logs = append(logs, fmt.Sprintf("news agent: %s query %q failed: %v", client.Name(), query, err))
				continue
			}
			for _, r := range results {
				if r.URL == "" || seen[r.URL] {
					continue
				}
				seen[r.URL] = true
				sources = append(sources, Source{ID: nextID, Title: r.Title, URL: r.URL})
				passages = append(passages, formatPassage(nextID, r))
				nextID++
			}
		}
	}

	if len(sources) == 0 {
		passages, sources = fallbackRetrieval()
		logs = append(logs, FallbackLogEntry)
		return passages, sources, logs
	}

	logs = append(logs, fmt.Sprintf("news agent: %d unique sources from %d queries", len(sources), len(queries)))
	return passages, sources, logs
}

func formatPassage(id int, r search.Result) string {
	return fmt.Sprintf("[%d] %s — %s (%s)", id, r.Title, r.Content, r.URL)
}

func fallbackRetrieval() ([]string, []Source) {
	passages := make([]string, 0, len(search.FallbackResults))
	sources := make([]Source, 0, len(search.FallbackResults))
	for i, r := range search.FallbackResults {
		id := i + 1
		sources = append(sources, Source{ID: id, Title: r.Title, URL: r.URL})
		passages = append(passages, formatPassage(id, r))
	}
	return passages, sources
}

func (p *Pipeline) gatherInsight(ctx context.Context) (string, []string) {
	if p.opts.Podcasts == nil {
		return podcast.MockInsight, []string{"podcast agent: no feeds configured, using canned insight"}
	}
	insight := p.opts.Podcasts.LatestInsight(ctx)
	return insight, []string{"podcast agent: insight gathered"}
}

func (p *Pipeline) synthesize(ctx context.Context, topic string, passages []string, insight string) (*llm.BriefingResult, []string, error) {
	input := llm.BriefingInput{
		Topic:    topic,
		Passages: strings.Join(passages, "\n\n"),
		Insight:  insight,
	}

	briefing, err := p.opts.Analyst.WriteBriefing(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	return briefing, []string{fmt.Sprintf("analyst agent: bilingual briefing written with %s", briefing.ModelUsed)}, nil
}

// renderAudio synthesizes each language independently. One language failing
// leaves its field empty and never touches the other; the run continues
// either way.
func (p *Pipeline) renderAudio(ctx context.Context, reportZH, reportEN string) ([]byte, []byte, []string) {
	if p.opts.Speech == nil {
		return nil, nil, []string{"audio agent: no speech client configured, skipping"}
	}

	var logs []string
	synthesize := func(lang, report string) []byte {
		audio, err := p.opts.Speech.Synthesize(ctx, tts.PrepareSpeechText(report))
		if err != nil {
			logs = append(logs, fmt.Sprintf("audio agent: %s synthesis failed: %v", lang, err))
			return nil
		}
		logs = append(logs, fmt.Sprintf("audio agent: %s audio rendered (%d bytes)", lang, len(audio)))
		return audio
	}

	audioZH := synthesize("chinese", reportZH)
	audioEN := synthesize("english", reportEN)
	return audioZH, audioEN, logs
}

func (p *Pipeline) renderDeck(topic, reportZH string, sources []Source) ([]byte, []string) {
	title := "每日金融晨报：" + topic
	attribution := fmt.Sprintf("Sources: %d articles", len(sources))

	raw, err := deck.Build(title, attribution, reportZH).Bytes()
	if err != nil {
		return nil, []string{fmt.Sprintf("deck agent: rendering failed: %v", err)}
	}

	return raw, []string{fmt.Sprintf("deck agent: deck rendered (%d bytes)", len(raw))}
}
