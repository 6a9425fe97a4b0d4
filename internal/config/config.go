package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for a scrape run, populated from environment
// variables.
type Config struct {
	BaseURL          string
	HTTPTimeout      time.Duration
	FetchConcurrency int

	SnapshotPath    string
	WorkbookPath    string
	RegionsHTMLPath string

	MetricsAddr     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is merged in first as a
// convenience for local runs; its absence is fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	concurrency, err := parseFetchConcurrency()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:          strings.TrimRight(envOrDefault("SPL_BASE_URL", "https://maps.splonline.com.sa"), "/"),
		HTTPTimeout:      httpTimeout,
		FetchConcurrency: concurrency,
		SnapshotPath:     envOrDefault("SNAPSHOT_PATH", "region_cities_districts.json"),
		WorkbookPath:     envOrDefault("WORKBOOK_PATH", "region_cities_districts.xlsx"),
		RegionsHTMLPath:  os.Getenv("REGIONS_HTML_PATH"),
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout:  shutdownTimeout,
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("SPL_BASE_URL is required")
	}
	if cfg.SnapshotPath == "" {
		return nil, errors.New("SNAPSHOT_PATH is required")
	}
	if cfg.WorkbookPath == "" {
		return nil, errors.New("WORKBOOK_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

// parseFetchConcurrency bounds the district fan-out. The portal tolerates a
// handful of parallel requests; past that it starts shedding connections.
func parseFetchConcurrency() (int, error) {
	raw := envOrDefault("FETCH_CONCURRENCY", "4")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 32 {
		return 0, fmt.Errorf("invalid FETCH_CONCURRENCY: %q (want 1-32)", raw)
	}
	return n, nil
}
