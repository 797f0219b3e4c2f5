// Package config provides configuration management for the corpus pipeline.
// It follows Uber Go Style Guide conventions for struct organization and error handling.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Common configuration errors
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// CrawlConfig defines parameters for the crawler and its rate limiter.
type CrawlConfig struct {
	Seeds          []string    `mapstructure:"seeds"`
	RefillRate     float64     `mapstructure:"refill_rate" validate:"min=0"`
	BucketLimit    float64     `mapstructure:"bucket_limit" validate:"min=0"`
	UserAgent      string      `mapstructure:"user_agent" validate:"required"`
	ArchiveBackend string      `mapstructure:"archive_backend"`
	MaxPages       int         `mapstructure:"max_pages" validate:"min=0"`
	MinIO          MinIOConfig `mapstructure:"minio"`
}

// MinIOConfig configures the "minio" archive backend (component M),
// used only when archive_backend is set to "minio".
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// DedupConfig defines MinHash/LSH deduplication parameters.
type DedupConfig struct {
	GramLen             int     `mapstructure:"gram_len" validate:"required,min=1"`
	SignatureLen        int     `mapstructure:"signature_len" validate:"required,min=1"`
	BandSize            int     `mapstructure:"band_size" validate:"required,min=1"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" validate:"min=0,max=1"`
}

// Validate checks the dedup configuration's preconditions (§7 of the spec).
func (c *DedupConfig) Validate() error {
	if c.SignatureLen%c.BandSize != 0 {
		return fmt.Errorf("%w: signature_len (%d) must be a multiple of band_size (%d)", ErrInvalidConfig, c.SignatureLen, c.BandSize)
	}
	return nil
}

// NormalizeConfig defines the normalizer's length filter.
type NormalizeConfig struct {
	LenCutoff int `mapstructure:"len_cutoff" validate:"required,min=1"`
}

// BPEConfig defines BPE vocabulary induction parameters.
type BPEConfig struct {
	TargetVocabSize int `mapstructure:"target_vocab_size" validate:"required,min=1"`
}

// PipelineConfig defines worker-pool sizing shared by every stage.
type PipelineConfig struct {
	Processes int `mapstructure:"processes" validate:"min=1"`
}

// CacheConfig selects and configures the optional distributed cache
// (component N): "none" (default, in-process only) or "redis".
type CacheConfig struct {
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// Config represents the complete application configuration.
// Structs are organized by functional domain with clear separation.
type Config struct {
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	Dedup     DedupConfig     `mapstructure:"dedup"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	BPE       BPEConfig       `mapstructure:"bpe"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// Validate performs configuration validation and cross-field checks.
func (c *Config) Validate() error {
	if err := c.Dedup.Validate(); err != nil {
		return fmt.Errorf("dedup config: %w", err)
	}
	if c.Normalize.LenCutoff <= c.Dedup.GramLen {
		return fmt.Errorf("%w: normalize.len_cutoff (%d) must exceed dedup.gram_len (%d), or paragraphs shorter than a gram will violate the MinHash precondition",
			ErrInvalidConfig, c.Normalize.LenCutoff, c.Dedup.GramLen)
	}
	return nil
}

// LoadConfig loads configuration from file and environment variables.
// It follows Uber Go Style Guide error handling patterns.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures sensible default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.refill_rate", 1.0)
	v.SetDefault("crawl.bucket_limit", 10.0)
	v.SetDefault("crawl.user_agent", "CorpusForgeBot/1.0 (educational; contact@example.com)")
	v.SetDefault("crawl.archive_backend", "local")
	v.SetDefault("crawl.max_pages", 100)

	v.SetDefault("dedup.gram_len", 5)
	v.SetDefault("dedup.signature_len", 128)
	v.SetDefault("dedup.band_size", 16)
	v.SetDefault("dedup.similarity_threshold", 0.85)

	v.SetDefault("normalize.len_cutoff", 32)

	v.SetDefault("bpe.target_vocab_size", 8000)

	v.SetDefault("pipeline.processes", 4)

	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.redis_addr", "localhost:6379")
}

// MustLoadConfig loads configuration and panics on failure.
// Use this only in main() or init() functions where failure should be fatal.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
