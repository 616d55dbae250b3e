package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finbrief/internal/config"
	"finbrief/internal/pipeline"
	"finbrief/pkg/llm"
	"finbrief/pkg/podcast"
	"finbrief/pkg/search"
	"finbrief/pkg/tts"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	topicFlag  string
	configFlag string
	outFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generate daily market briefings from the command line",
	Long: `brief runs the full briefing pipeline once, without the HTTP server:
web search retrieval, podcast insight, bilingual report synthesis,
text-to-speech audio and a PPTX deck, written to a local directory.`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one briefing pipeline and write the outputs to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		state, err := p.Run(context.Background(), topicFlag)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outFlag, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}

		outputs := []struct {
			name string
			data []byte
		}{
			{"briefing_zh.md", []byte(state.ReportZH)},
			{"briefing_en.md", []byte(state.ReportEN)},
			{"briefing_zh.mp3", state.AudioZH},
			{"briefing_en.mp3", state.AudioEN},
			{"briefing.pptx", state.Deck},
		}
		for _, out := range outputs {
			if len(out.data) == 0 {
				slog.Warn("skipping empty output", "file", out.name)
				continue
			}
			path := filepath.Join(outFlag, out.name)
			if err := os.WriteFile(path, out.data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out.name, err)
			}
			slog.Info("wrote output", "file", path, "bytes", len(out.data))
		}

		for _, entry := range state.Log {
			fmt.Println(entry)
		}
		fmt.Printf("run %s complete: %d sources, model %s\n", state.RunID, len(state.Sources), state.ModelUsed)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("brief " + version)
	},
}

func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	var searchClients []search.Client
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		searchClients = append(searchClients, search.NewTavilyClient(key))
	}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		searchClients = append(searchClients, search.NewFinnHubClient(key))
	}
	if len(searchClients) == 0 {
		slog.Warn("no search API keys configured, retrieval will use fallback sources")
	}

	var analyst llm.Analyst
	switch os.Getenv("LLM_PROVIDER") {
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
		}
		analyst = llm.NewAnthropicAnalyst(key)
	default:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		analyst = llm.NewOpenAIAnalyst(key)
	}

	var speech tts.SpeechClient
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && os.Getenv("TTS_DISABLED") == "" {
		speech = tts.NewOpenAIClient(key)
	} else {
		slog.Warn("speech synthesis disabled, no audio files will be written")
	}

	var podcasts *podcast.Fetcher
	if len(cfg.PodcastFeeds) > 0 {
		podcasts = podcast.NewFetcher(cfg.PodcastFeeds)
	}

	return pipeline.New(pipeline.Options{
		SearchClients:   searchClients,
		Podcasts:        podcasts,
		Analyst:         analyst,
		Speech:          speech,
		DefaultTopic:    cfg.DefaultTopic,
		Themes:          cfg.Themes,
		ResultsPerQuery: cfg.Pipeline.ResultsPerQuery,
		Timeout:         cfg.PipelineTimeout(),
	}), nil
}

func main() {
	generateCmd.Flags().StringVarP(&topicFlag, "topic", "t", "", "briefing topic (default: the configured topic)")
	generateCmd.Flags().StringVarP(&configFlag, "config", "c", "", "path to a YAML config file")
	generateCmd.Flags().StringVarP(&outFlag, "out", "o", ".", "directory for the generated files")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
