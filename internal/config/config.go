package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-yaml"
)

// MaxFileSize bounds the YAML config file.
const MaxFileSize = 1 << 20

var ErrConfigTooLarge = errors.New("config file exceeds maximum size")

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Page store; publishing is off when StoreURL is empty.
	StoreURL    string `yaml:"store_url"`
	StoreAPIKey string `yaml:"store_api_key"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Conversion
	ConvertTimeout time.Duration `yaml:"-"`
	MaxDepth       int           `yaml:"max_depth"`
	RefTag         string        `yaml:"ref_tag"`

	// Outline chunking
	OutlineChunkSize    int `yaml:"outline_chunk_size"`
	OutlineChunkOverlap int `yaml:"outline_chunk_overlap"`

	// Job state
	JobTTL time.Duration `yaml:"-"`

	LogLevel string `yaml:"log_level"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// fileConfig is the YAML shape. Durations are written as Go duration strings.
type fileConfig struct {
	Config         `yaml:",inline"`
	ConvertTimeout string `yaml:"convert_timeout"`
	JobTTL         string `yaml:"job_ttl"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                 "8090",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		ConvertTimeout:       30 * time.Second,
		MaxDepth:             512,
		RefTag:               "ref",
		OutlineChunkSize:     1500,
		OutlineChunkOverlap:  200,
		JobTTL:               1 * time.Hour,
		LogLevel:             "info",
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// WIKITREE_CONFIG if set, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("WIKITREE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("WIKITREE_API_KEY", cfg.APIKey)

	cfg.StoreURL = envOr("STORE_URL", cfg.StoreURL)
	cfg.StoreAPIKey = envOr("STORE_API_KEY", cfg.StoreAPIKey)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.ConvertTimeout = envDuration("CONVERT_TIMEOUT", cfg.ConvertTimeout)
	cfg.MaxDepth = envInt("MAX_DEPTH", cfg.MaxDepth)
	cfg.RefTag = envOr("REF_TAG", cfg.RefTag)

	cfg.OutlineChunkSize = envInt("OUTLINE_CHUNK_SIZE", cfg.OutlineChunkSize)
	cfg.OutlineChunkOverlap = envInt("OUTLINE_CHUNK_OVERLAP", cfg.OutlineChunkOverlap)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrConfigTooLarge, len(data))
	}

	fc := fileConfig{Config: *c}
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.ConvertTimeout != "" {
		d, err := time.ParseDuration(fc.ConvertTimeout)
		if err != nil {
			return fmt.Errorf("convert_timeout: %w", err)
		}
		fc.Config.ConvertTimeout = d
	}
	if fc.JobTTL != "" {
		d, err := time.ParseDuration(fc.JobTTL)
		if err != nil {
			return fmt.Errorf("job_ttl: %w", err)
		}
		fc.Config.JobTTL = d
	}
	*c = fc.Config
	return nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.WorkerCount, validation.Min(1)),
		validation.Field(&c.MaxQueueSize, validation.Min(1)),
		validation.Field(&c.MaxUploadBytes, validation.Min(int64(1))),
		validation.Field(&c.ConvertTimeout, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxDepth, validation.Min(1)),
		validation.Field(&c.RefTag, validation.Required),
		validation.Field(&c.OutlineChunkSize, validation.Min(1)),
		validation.Field(&c.OutlineChunkOverlap, validation.Min(0), validation.Max(c.OutlineChunkSize-1)),
		validation.Field(&c.JobTTL, validation.Min(time.Second)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.StoreAPIKey, validation.When(c.StoreURL == "", validation.Empty.Error("requires store_url"))),
	)
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
