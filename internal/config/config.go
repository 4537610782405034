package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	HMVAPIBaseURL string
	HMVTimeoutMs  int
	HMVRetryMax   int
	HMVBackoffMs  int
	TreeDepth     int

	CatalogTTLHours    int
	MetadataTTLMinutes int

	// Relevance tuning. Empirically chosen, not correctness requirements.
	RelevanceThreshold int
	RelevanceKeep      int

	DetailWindow       int
	DetailBatchSize    int
	DetailBatchDelayMs int

	DefaultPageSize int

	LogLevel  string
	LogFormat string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		HMVAPIBaseURL: getEnv("HMV_API_BASE_URL", "https://hilfsmittel-api.gkv-spitzenverband.de/api/verzeichnis"),
		HMVTimeoutMs:  getEnvInt("HMV_TIMEOUT_MS", 30000),
		HMVRetryMax:   getEnvInt("HMV_RETRY_MAX", 3),
		HMVBackoffMs:  getEnvInt("HMV_BACKOFF_MS", 500),
		TreeDepth:     getEnvInt("HMV_TREE_DEPTH", 4),

		CatalogTTLHours:    getEnvInt("CATALOG_TTL_HOURS", 24),
		MetadataTTLMinutes: getEnvInt("METADATA_TTL_MINUTES", 720),

		RelevanceThreshold: getEnvInt("RELEVANCE_THRESHOLD", 1000),
		RelevanceKeep:      getEnvInt("RELEVANCE_KEEP", 200),

		DetailWindow:       getEnvInt("DETAIL_WINDOW", 4),
		DetailBatchSize:    getEnvInt("DETAIL_BATCH_SIZE", 10),
		DetailBatchDelayMs: getEnvInt("DETAIL_BATCH_DELAY_MS", 250),

		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 20),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if cfg.DetailWindow < 3 {
		cfg.DetailWindow = 3
	}
	if cfg.DetailWindow > 5 {
		cfg.DetailWindow = 5
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
