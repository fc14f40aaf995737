package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"codect/internal/parse"
	"codect/internal/scoring"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "codect.yaml"

type Config struct {
	Server  ServerConfig   `yaml:"server" toml:"server"`
	Limits  parse.Limits   `yaml:"limits" toml:"limits"`
	Scoring scoring.Policy `yaml:"scoring" toml:"scoring"`
	Scan    ScanConfig     `yaml:"scan" toml:"scan"`
	Log     LogConfig      `yaml:"log" toml:"log"`
}

type ServerConfig struct {
	Port      int    `yaml:"port" toml:"port"`
	CacheSize int    `yaml:"cache_size" toml:"cache_size"` // result cache entries; 0 disables
	BodyLimit string `yaml:"body_limit" toml:"body_limit"`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `yaml:"shutdown_seconds" toml:"shutdown_seconds"`
}

type ScanConfig struct {
	Jobs    int      `yaml:"jobs" toml:"jobs"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

type LogConfig struct {
	Debug bool `yaml:"debug" toml:"debug"`
	JSON  bool `yaml:"json" toml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			CacheSize:       1024,
			BodyLimit:       "2M",
			ShutdownSeconds: 10,
		},
		Limits:  parse.DefaultLimits(),
		Scoring: scoring.DefaultPolicy(),
		Scan: ScanConfig{
			Jobs: runtime.GOMAXPROCS(0),
		},
	}
}

// LoadConfig reads .env, then the YAML or TOML file at path, then CODECT_* environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"CODECT_PORT", &cfg.Server.Port},
		{"CODECT_CACHE_SIZE", &cfg.Server.CacheSize},
		{"CODECT_MAX_BYTES", &cfg.Limits.MaxBytes},
		{"CODECT_JOBS", &cfg.Scan.Jobs},
	}
	for _, e := range ints {
		raw := strings.TrimSpace(os.Getenv(e.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"CODECT_DEBUG", &cfg.Log.Debug},
		{"CODECT_LOG_JSON", &cfg.Log.JSON},
	}
	for _, e := range bools {
		raw := strings.TrimSpace(os.Getenv(e.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = v
	}
	return nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("server.cache_size %d is negative", c.Server.CacheSize))
	}
	if c.Limits.MaxBytes < 0 || c.Limits.MaxTokens < 0 || c.Limits.MaxDepth < 0 || c.Limits.MaxNodes < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	if c.Scan.Jobs < 0 {
		errs = append(errs, fmt.Errorf("scan.jobs %d is negative", c.Scan.Jobs))
	}
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}
	return errors.Join(errs...)
}
