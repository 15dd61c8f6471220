package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// RefreshDisabled turns off the scheduled dataset refresh.
const RefreshDisabled = "off"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath            string
	DatasetCacheSize       int
	DatasetRefreshSchedule string

	HTTPAddr           string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration

	RankingSize int

	// Kafka publishing is enabled when at least one broker is configured.
	KafkaBrokers      []string
	KafkaSummaryTopic string
}

// PublishEnabled reports whether country summaries should be written to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseIntRange("DATASET_CACHE_SIZE", 8, 1, 1024)
	if err != nil {
		return nil, err
	}

	rankingSize, err := parseIntRange("RANKING_SIZE", 10, 1, 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetPath:            sharedcfg.EnvOrDefault("DATASET_PATH", "data/processed.csv"),
		DatasetCacheSize:       cacheSize,
		DatasetRefreshSchedule: sharedcfg.EnvOrDefault("DATASET_REFRESH_SCHEDULE", "@every 10m"),
		HTTPAddr:               sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:     splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:               sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:        shutdownTimeout,
		RankingSize:            rankingSize,
		KafkaBrokers:           sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")),
		KafkaSummaryTopic:      sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "air-quality-country-summaries"),
	}

	if strings.TrimSpace(cfg.DatasetPath) == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.PublishEnabled() && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parseIntRange(key string, def, lo, hi int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, "")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %q: must be an integer in [%d, %d]", key, s, lo, hi)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
