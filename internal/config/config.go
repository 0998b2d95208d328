package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SpoolDir       string
	SpoolDoneDir   string
	SpoolFailedDir string

	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	BatchSize    int
	ScanInterval time.Duration

	// SiteConfigPath points at the optional YAML site-metadata file.
	SiteConfigPath string
	Site           Site
}

// Load reads configuration from environment variables, applying defaults
// where unset, and loads the site metadata file when configured.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	scanInterval, err := parseDuration("SCAN_INTERVAL", "5s")
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}

	spoolDir := os.Getenv("SPOOL_DIR")
	cfg := &Config{
		SpoolDir:        spoolDir,
		SpoolDoneDir:    envOrDefault("SPOOL_DONE_DIR", filepath.Join(spoolDir, "done")),
		SpoolFailedDir:  envOrDefault("SPOOL_FAILED_DIR", filepath.Join(spoolDir, "failed")),
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "screened-ceilo-profiles"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		BatchSize:       batchSize,
		ScanInterval:    scanInterval,
		SiteConfigPath:  os.Getenv("SITE_CONFIG"),
	}

	if cfg.SpoolDir == "" {
		return nil, errors.New("SPOOL_DIR is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	if cfg.SiteConfigPath != "" {
		site, err := LoadSite(cfg.SiteConfigPath)
		if err != nil {
			return nil, err
		}
		cfg.Site = site
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
