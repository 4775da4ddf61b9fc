package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey     string
	CORSOrigin string

	// Unit pool
	WorkerCount  int
	MaxQueueSize int

	// Async jobs
	JobWorkers  int
	MaxJobQueue int
	JobTTL      time.Duration

	// Upload limits
	MaxUploadBytes int64
	MaxFiles       int

	// Parsed document cache
	CacheTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Section extraction
	SectionMaxBlocks int

	// Logging
	LogLevel string
	LogFile  string
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none)
// into the environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() Config {
	cpus := runtime.NumCPU()
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey:     os.Getenv("DOCSCAN_API_KEY"),
		CORSOrigin: envOr("CORS_ORIGIN", "*"),

		WorkerCount:  envInt("WORKER_COUNT", cpus),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 1024),

		JobWorkers:  envInt("JOB_WORKERS", 2),
		MaxJobQueue: envInt("MAX_JOB_QUEUE", 100),
		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxFiles:       envInt("MAX_FILES", 50),

		CacheTTL: envDuration("CACHE_TTL", 10*time.Minute),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		SectionMaxBlocks: envInt("SECTION_MAX_BLOCKS", 3),

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = cpus
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 1024
	}
	if cfg.JobWorkers <= 0 {
		cfg.JobWorkers = 2
	}
	if cfg.MaxJobQueue <= 0 {
		cfg.MaxJobQueue = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 50
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.SectionMaxBlocks <= 0 {
		cfg.SectionMaxBlocks = 3
	}

	return cfg
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if c.CORSOrigin == "" {
		return fmt.Errorf("CORS_ORIGIN must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
