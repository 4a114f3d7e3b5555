// Package config handles loading and managing segap configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/segap/segap/internal/source"
	"github.com/segap/segap/pkg/survey"
	"github.com/segap/segap/pkg/weights"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = goerr.New("invalid configuration")

// Config is the top-level configuration for segap.
type Config struct {
	Survey  SurveyConfig  `yaml:"survey"`
	Inputs  InputsConfig  `yaml:"inputs"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// SurveyConfig controls pagination.
type SurveyConfig struct {
	PageSize int `yaml:"page_size"`
}

// InputsConfig locates the question list and weight matrix. Locations are
// local paths or s3:// and gs:// URIs.
type InputsConfig struct {
	Questions    string          `yaml:"questions"`
	Weights      string          `yaml:"weights"`
	WeightsSheet string          `yaml:"weights_sheet"`
	S3           source.S3Config `yaml:"s3"`
}

// LoggingConfig controls the log file and its rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`        // empty: LogFile() default
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxBackups int    `yaml:"max_backups"` // rotated files kept
	MaxAge     int    `yaml:"max_age"`     // days
	Compress   bool   `yaml:"compress"`
}

// ServerConfig controls the local HTTP front end.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"` // empty: no X-API-Key check
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Survey: SurveyConfig{
			PageSize: survey.DefaultPageSize,
		},
		Inputs: InputsConfig{
			Questions:    "questions.txt",
			Weights:      "weight_matrix.xlsx",
			WeightsSheet: weights.DefaultSheet,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7700",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config", goerr.V("path", path))
	}

	return cfg, nil
}

// ApplyEnv overrides settings from SEGAP_* environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SEGAP_QUESTIONS"); ok && v != "" {
		c.Inputs.Questions = v
	}
	if v, ok := lookup("SEGAP_WEIGHTS"); ok && v != "" {
		c.Inputs.Weights = v
	}
	if v, ok := lookup("SEGAP_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("SEGAP_API_KEY"); ok && v != "" {
		c.Server.APIKey = v
	}
	if v, ok := lookup("SEGAP_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return goerr.Wrap(ErrInvalidConfig, "SEGAP_PAGE_SIZE is not an integer", goerr.V("value", v))
		}
		c.Survey.PageSize = n
	}
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Survey.PageSize < 1 {
		return goerr.Wrap(ErrInvalidConfig, "survey.page_size must be at least 1",
			goerr.V("page_size", c.Survey.PageSize))
	}
	if strings.TrimSpace(c.Inputs.Questions) == "" {
		return goerr.Wrap(ErrInvalidConfig, "inputs.questions is required")
	}
	if strings.TrimSpace(c.Inputs.Weights) == "" {
		return goerr.Wrap(ErrInvalidConfig, "inputs.weights is required")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return goerr.Wrap(ErrInvalidConfig, "unknown logging.level", goerr.V("level", c.Logging.Level))
	}
	return nil
}

// LogFile returns the configured log file or the default under CacheDir.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(CacheDir(), "logs", "segap.log")
}

// FindConfigFile looks for .segap/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".segap", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns ~/.cache/segap, or a temp dir fallback without HOME.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "segap")
}
