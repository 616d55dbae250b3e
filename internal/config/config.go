package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	DefaultTopic string   `yaml:"default_topic"`
	Themes       []string `yaml:"themes"`
	PodcastFeeds []string `yaml:"podcast_feeds"`
	Server       Server   `yaml:"server"`
	Pipeline     Pipeline `yaml:"pipeline"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Pipeline struct {
	TimeoutSeconds    int `yaml:"timeout_seconds"`
	ResultsPerQuery   int `yaml:"results_per_query"`
	ReportCacheTTLMin int `yaml:"report_cache_ttl_minutes"`
}

// Load reads a config file, or the embedded default when path is empty.
func Load(path string) (*Config, error) {
	data := DefaultConfigYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DefaultTopic == "" {
		c.DefaultTopic = "今日市场动态"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Pipeline.TimeoutSeconds <= 0 {
		c.Pipeline.TimeoutSeconds = 120
	}
	if c.Pipeline.ResultsPerQuery <= 0 {
		c.Pipeline.ResultsPerQuery = 3
	}
	if c.Pipeline.ReportCacheTTLMin <= 0 {
		c.Pipeline.ReportCacheTTLMin = 10
	}
}

func (c *Config) PipelineTimeout() time.Duration {
	return time.Duration(c.Pipeline.TimeoutSeconds) * time.Second
}

func (c *Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.Pipeline.ReportCacheTTLMin) * time.Minute
}
