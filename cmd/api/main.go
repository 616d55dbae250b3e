package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"finbrief/db"
	"finbrief/internal/config"
	"finbrief/internal/handler"
	"finbrief/internal/pipeline"
	"finbrief/internal/repository"
	"finbrief/pkg/llm"
	"finbrief/pkg/podcast"
	"finbrief/pkg/search"
	"finbrief/pkg/tts"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("error building pipeline: %v", err)
	}

	var archive handler.BriefingArchive
	var store handler.BriefingStore
	if os.Getenv("DATABASE_URL") != "" {
		if err := db.Connect(); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		repo := repository.NewBriefingRepository(db.DB)
		archive = repo
		store = repo
	}

	var cache handler.ReportCache
	if os.Getenv("REDIS_URL") != "" {
		if err := db.ConnectRedis(); err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()

		cache = redisReportCache{}
	}

	reportHandler := handler.NewReportHandler(p, archive, cache, cfg.ReportCacheTTL())

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))

	r.POST("/generate_report", reportHandler.GenerateReport)
	r.GET("/download_ppt", reportHandler.DownloadPPT)

	if store != nil {
		briefingHandler := handler.NewBriefingHandler(store)
		r.GET("/briefings", briefingHandler.GetBriefings)
		r.GET("/briefings/latest", briefingHandler.GetLatestBriefing)
		r.GET("/health", briefingHandler.GetHealth)
	} else {
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
	}

	err = r.Run(fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
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
		slog.Warn("speech synthesis disabled, audio fields will be empty")
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

type redisReportCache struct{}

func (redisReportCache) Get(ctx context.Context, topic string) (string, error) {
	return db.GetCachedReport(ctx, topic)
}

func (redisReportCache) Set(ctx context.Context, topic, payload string, ttl time.Duration) error {
	return db.SetCachedReport(ctx, topic, payload, ttl)
}
