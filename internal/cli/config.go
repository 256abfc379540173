package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tailscale/hujson"
)

// Config holds defaults for every command. It is read from a JSONC file and
// then overridden by explicitly set flags.
type Config struct {
	PageSize    int    `json:"page_size"`
	Policy      string `json:"policy"`
	Threshold   int    `json:"threshold"`
	MemoryLimit int64  `json:"memory_limit"`
	IOLimit     int64  `json:"io_limit"`
	CacheBytes  int64  `json:"cache_bytes"`
	BlockSize   int64  `json:"block_size"`
	LogLevel    string `json:"log_level"`
	LogJSON     bool   `json:"log_json"`

	S3    S3Config    `json:"s3"`
	MinIO MinIOConfig `json:"minio"`
}

// S3Config configures s3:// locations.
type S3Config struct {
	Region string `json:"region,omitempty"`
}

// MinIOConfig configures minio:// locations.
type MinIOConfig struct {
	Endpoint  string `json:"endpoint,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Secure    bool   `json:"secure,omitempty"`
}

// Policy names.
const (
	PolicyThreshold = "threshold"
	PolicyPrefetch  = "prefetch"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:   10,
		Policy:     PolicyThreshold,
		Threshold:  -1,
		CacheBytes: 64 << 20,
		BlockSize:  64 << 10,
		LogLevel:   "warn",
	}
}

// LoadConfig reads the JSONC file at path over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := parseConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, validateConfig(cfg)
}

func parseConfig(data []byte, cfg *Config) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validateConfig(cfg Config) error {
	var errs []error
	if cfg.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", cfg.PageSize))
	}
	switch cfg.Policy {
	case PolicyThreshold, PolicyPrefetch:
	default:
		errs = append(errs, fmt.Errorf("unknown policy %q", cfg.Policy))
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.MemoryLimit < 0 || cfg.IOLimit < 0 || cfg.CacheBytes < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
