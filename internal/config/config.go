package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourcePath     string
	SourceSheet    int
	SourceEncoding string

	// SourceReloadSchedule is a standard cron expression; empty disables reloads.
	SourceReloadSchedule string

	HeaderScanWindow       int
	HeaderNumericThreshold int
	HeaderOnFailure        domain.FailurePolicy
	RegionFilterMode       domain.RegionMode
	KeywordsFile           string
	Keywords               domain.Keywords

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka export sink.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sheet, err := parseNonNegative("SOURCE_SHEET", 0)
	if err != nil {
		return nil, err
	}
	window, err := parsePositive("HEADER_SCAN_WINDOW", domain.DefaultScanWindow)
	if err != nil {
		return nil, err
	}
	threshold, err := parsePositive("HEADER_NUMERIC_THRESHOLD", domain.DefaultNumericThreshold)
	if err != nil {
		return nil, err
	}

	onFailure, err := domain.ParseFailurePolicy(sharedcfg.EnvOrDefault("HEADER_ON_FAILURE", string(domain.FailOnMissingHeader)))
	if err != nil {
		return nil, fmt.Errorf("invalid HEADER_ON_FAILURE: %w", err)
	}
	regionMode, err := domain.ParseRegionMode(sharedcfg.EnvOrDefault("REGION_FILTER_MODE", string(domain.RegionSelect)))
	if err != nil {
		return nil, fmt.Errorf("invalid REGION_FILTER_MODE: %w", err)
	}

	reload := os.Getenv("SOURCE_RELOAD_SCHEDULE")
	if reload != "" {
		if _, err := cron.ParseStandard(reload); err != nil {
			return nil, fmt.Errorf("invalid SOURCE_RELOAD_SCHEDULE: %w", err)
		}
	}

	keywordsFile := os.Getenv("KEYWORDS_FILE")
	keywords := domain.DefaultKeywords()
	if keywordsFile != "" {
		keywords, err = LoadKeywords(keywordsFile)
		if err != nil {
			return nil, fmt.Errorf("invalid KEYWORDS_FILE: %w", err)
		}
	}

	cfg := &Config{
		SourcePath:     sharedcfg.EnvOrDefault("SOURCE_PATH", "earthquakes.xlsx"),
		SourceSheet:    sheet,
		SourceEncoding: sharedcfg.EnvOrDefault("SOURCE_ENCODING", "utf-8"),

		SourceReloadSchedule: reload,

		HeaderScanWindow:       window,
		HeaderNumericThreshold: threshold,
		HeaderOnFailure:        onFailure,
		RegionFilterMode:       regionMode,
		KeywordsFile:           keywordsFile,
		Keywords:               keywords,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "normalized-quake-records"),
	}

	if cfg.SourcePath == "" {
		return nil, errors.New("SOURCE_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// HeaderDetector builds the detector described by the configuration.
func (c *Config) HeaderDetector() domain.HeaderDetector {
	return domain.HeaderDetector{
		ScanWindow:       c.HeaderScanWindow,
		NumericThreshold: c.HeaderNumericThreshold,
		OnFailure:        c.HeaderOnFailure,
	}
}

func parsePositive(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseNonNegative(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", key)
	}
	return n, nil
}
