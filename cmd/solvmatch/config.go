package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/codec"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "solvmatch"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Config is the CLI configuration file. Flags override its values.
type Config struct {
	Nearest          int          `yaml:"nearest,omitempty"`
	MaxResults       int          `yaml:"max_results,omitempty"`
	Workers          int          `yaml:"workers,omitempty"`
	DispersionWeight float64      `yaml:"dispersion_weight,omitempty"`
	MemoryLimit      int64        `yaml:"memory_limit,omitempty"`
	RatioPolicy      string       `yaml:"ratio_policy,omitempty"`
	Codec            string       `yaml:"codec,omitempty"`
	ZstdLevel        int          `yaml:"zstd_level,omitempty"`
	MetricsTextfile  string       `yaml:"metrics_textfile,omitempty"`
	Solver           SolverConfig `yaml:"solver,omitempty"`
	Log              LogConfig    `yaml:"log,omitempty"`
	S3               S3Config     `yaml:"s3,omitempty"`
	MinIO            MinIOConfig  `yaml:"minio,omitempty"`
}

// SolverConfig tunes the ratio grid.
type SolverConfig struct {
	Step      float64 `yaml:"step,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `yaml:"format,omitempty"` // text or json
	Level  string `yaml:"level,omitempty"`
}

// S3Config configures s3:// locations. Credentials come from the standard AWS chain.
type S3Config struct {
	Region       string `yaml:"region,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty"`
}

// MinIOConfig configures minio:// locations. Empty fields fall back to
// MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_SECURE.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Secure    bool   `yaml:"secure,omitempty"`
	Region    string `yaml:"region,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Nearest:          solvmatch.DefaultNearest,
		MaxResults:       solvmatch.DefaultMaxResults,
		DispersionWeight: 1,
		RatioPolicy:      solvmatch.RatioSkipRow.String(),
		Codec:            "go-json",
		ZstdLevel:        3,
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// ConfigPath returns the path to the default config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/solvmatch/config.yml.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// LoadConfig reads the config file at path over the defaults.
// With an empty path the default location is tried and a missing file
// is not an error. An explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = ConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that flags and the file can both set.
func (c Config) Validate() error {
	if c.Nearest < 1 {
		return fmt.Errorf("nearest must be at least 1, got %d", c.Nearest)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be at least 1, got %d", c.MaxResults)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.DispersionWeight <= 0 {
		return fmt.Errorf("dispersion_weight must be positive, got %g", c.DispersionWeight)
	}
	if _, err := solvmatch.ParseRatioFailurePolicy(c.RatioPolicy); err != nil {
		return err
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("unknown codec %q", c.Codec)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// Logger builds the logger described by c, writing to w.
func (c Config) Logger(w io.Writer) *solvmatch.Logger {
	level, _ := parseLevel(c.Log.Level)
	hopts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return solvmatch.NewLogger(slog.NewJSONHandler(w, hopts))
	}
	return solvmatch.NewLogger(slog.NewTextHandler(w, hopts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
