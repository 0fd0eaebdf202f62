package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if cfg.Vocabulary.MaxSparsity != 0.99 {
		t.Errorf("expected max sparsity 0.99, got %v", cfg.Vocabulary.MaxSparsity)
	}
	if cfg.Split.TrainRatio != 0.8 {
		t.Errorf("expected train ratio 0.8, got %v", cfg.Split.TrainRatio)
	}
	if len(cfg.Preprocess.CustomStopwords) != 3 {
		t.Errorf("expected 3 custom stopwords, got %v", cfg.Preprocess.CustomStopwords)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"ratio zero", func(c *Config) { c.Split.TrainRatio = 0 }, true},
		{"ratio one", func(c *Config) { c.Split.TrainRatio = 1 }, true},
		{"sparsity one", func(c *Config) { c.Vocabulary.MaxSparsity = 1 }, true},
		{"negative sparsity", func(c *Config) { c.Vocabulary.MaxSparsity = -0.1 }, true},
		{"zero cost", func(c *Config) { c.SVM.Cost = 0 }, true},
		{"no top terms", func(c *Config) { c.Report.TopTerms = 0 }, true},
		{"unknown stopwords", func(c *Config) { c.Preprocess.StopwordSource = "french" }, true},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.Redis.RedisURL = "" }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"empty label column", func(c *Config) { c.Dataset.LabelColumn = "" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Split.Seed = 42
	cfg.Features.IncludeSentiment = true
	cfg.Preprocess.CustomStopwords = []string{"foo"}

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Split.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Split.Seed)
	}
	if !loaded.Features.IncludeSentiment {
		t.Error("expected include_sentiment to round trip")
	}
	if len(loaded.Preprocess.CustomStopwords) != 1 || loaded.Preprocess.CustomStopwords[0] != "foo" {
		t.Errorf("unexpected custom stopwords: %v", loaded.Preprocess.CustomStopwords)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("split:\n  seed: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Split.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Split.Seed)
	}
	if cfg.Split.TrainRatio != 0.8 {
		t.Errorf("expected default train ratio to survive, got %v", cfg.Split.TrainRatio)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if cfg, err := LoadConfig(""); err != nil || cfg == nil {
		t.Fatalf("empty path should return defaults, got %v", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("split:\n  train_ratio: 2\n"), 0644)
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected validation error for train_ratio 2")
	}
}

func TestNewLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")
	logger, closer, err := LoggingConfig{Level: "debug", Format: "json", File: logFile}.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("stage finished", "stage", "load")
	closer.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected debug line in log file")
	}
}
