package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Survey.PageSize != 5 {
		t.Errorf("expected default page size 5, got %d", cfg.Survey.PageSize)
	}
	if cfg.Inputs.Questions != "questions.txt" {
		t.Errorf("expected default questions 'questions.txt', got %q", cfg.Inputs.Questions)
	}
	if cfg.Inputs.Weights != "weight_matrix.xlsx" {
		t.Errorf("expected default weights 'weight_matrix.xlsx', got %q", cfg.Inputs.Weights)
	}
	if cfg.Inputs.WeightsSheet != "norm_weight_matrix" {
		t.Errorf("expected default sheet 'norm_weight_matrix', got %q", cfg.Inputs.WeightsSheet)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		noFile  bool
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:   "non-existent file returns defaults",
			noFile: true,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Survey.PageSize != 5 {
					t.Errorf("expected default page size, got %d", cfg.Survey.PageSize)
				}
				if cfg.Inputs.Questions != "questions.txt" {
					t.Errorf("expected default questions, got %q", cfg.Inputs.Questions)
				}
			},
		},
		{
			name: "valid YAML overrides defaults",
			yaml: `
survey:
  page_size: 3
inputs:
  questions: s3://bucket/questions.txt
  weights: gs://bucket/weights.csv
  s3:
    region: eu-central-1
    endpoint: http://localhost:9000
logging:
  level: debug
  max_backups: 1
server:
  addr: ":8080"
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Survey.PageSize != 3 {
					t.Errorf("expected page size 3, got %d", cfg.Survey.PageSize)
				}
				if cfg.Inputs.Questions != "s3://bucket/questions.txt" {
					t.Errorf("unexpected questions %q", cfg.Inputs.Questions)
				}
				if cfg.Inputs.Weights != "gs://bucket/weights.csv" {
					t.Errorf("unexpected weights %q", cfg.Inputs.Weights)
				}
				if cfg.Inputs.WeightsSheet != "norm_weight_matrix" {
					t.Errorf("unset keys keep defaults, got sheet %q", cfg.Inputs.WeightsSheet)
				}
				if cfg.Inputs.S3.Region != "eu-central-1" || cfg.Inputs.S3.Endpoint != "http://localhost:9000" {
					t.Errorf("unexpected s3 settings %+v", cfg.Inputs.S3)
				}
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected level debug, got %q", cfg.Logging.Level)
				}
				if cfg.Logging.MaxBackups != 1 {
					t.Errorf("expected max_backups 1, got %d", cfg.Logging.MaxBackups)
				}
				if cfg.Logging.MaxSize != 10 {
					t.Errorf("expected default max_size 10, got %d", cfg.Logging.MaxSize)
				}
				if cfg.Server.Addr != ":8080" {
					t.Errorf("expected addr :8080, got %q", cfg.Server.Addr)
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if !tc.noFile {
				if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SEGAP_QUESTIONS": "/data/q.txt",
		"SEGAP_WEIGHTS":   "/data/w.csv",
		"SEGAP_PAGE_SIZE": "7",
		"SEGAP_LOG_LEVEL": "warn",
		"SEGAP_API_KEY":   "k3y",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Inputs.Questions != "/data/q.txt" {
		t.Errorf("questions = %q", cfg.Inputs.Questions)
	}
	if cfg.Inputs.Weights != "/data/w.csv" {
		t.Errorf("weights = %q", cfg.Inputs.Weights)
	}
	if cfg.Survey.PageSize != 7 {
		t.Errorf("page size = %d", cfg.Survey.PageSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Server.APIKey != "k3y" {
		t.Errorf("api key = %q", cfg.Server.APIKey)
	}

	env["SEGAP_PAGE_SIZE"] = "seven"
	if err := DefaultConfig().ApplyEnv(lookup); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "zero page size", mutate: func(c *Config) { c.Survey.PageSize = 0 }},
		{name: "no questions", mutate: func(c *Config) { c.Inputs.Questions = " " }},
		{name: "no weights", mutate: func(c *Config) { c.Inputs.Weights = "" }},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLogFile(t *testing.T) {
	cfg := DefaultConfig()
	if !strings.HasSuffix(cfg.LogFile(), filepath.Join("segap", "logs", "segap.log")) {
		t.Errorf("unexpected default log file %q", cfg.LogFile())
	}

	cfg.Logging.File = "/var/log/segap.log"
	if cfg.LogFile() != "/var/log/segap.log" {
		t.Errorf("expected configured log file, got %q", cfg.LogFile())
	}
}

func TestFindConfigFile(t *testing.T) {
	writeConfig := func(t *testing.T, root string) string {
		t.Helper()
		dir := filepath.Join(root, ".segap")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("found in current directory", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root)
		if got := FindConfigFile(root); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("found in parent directory", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root)
		sub := filepath.Join(root, "a", "b", "c")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(sub); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if got := FindConfigFile(t.TempDir()); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
