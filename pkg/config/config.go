package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents zpam-svm configuration
type Config struct {
	// Input dataset settings
	Dataset DatasetConfig `yaml:"dataset"`

	// Text normalization settings
	Preprocess PreprocessConfig `yaml:"preprocess"`

	// Vocabulary pruning settings
	Vocabulary VocabularyConfig `yaml:"vocabulary"`

	// Train/test partition settings
	Split SplitConfig `yaml:"split"`

	// Classifier settings
	SVM SVMConfig `yaml:"svm"`

	// Sentiment scoring settings
	Sentiment SentimentConfig `yaml:"sentiment"`

	// Feature table settings
	Features FeaturesConfig `yaml:"features"`

	// Report output settings
	Report ReportConfig `yaml:"report"`

	// Normalized text cache settings
	Cache CacheConfig `yaml:"cache"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig describes the input CSV
type DatasetConfig struct {
	Path        string `yaml:"path"`
	LabelColumn string `yaml:"label_column"`
	TextColumn  string `yaml:"text_column"`
}

// PreprocessConfig controls the normalization pipeline
type PreprocessConfig struct {
	CustomStopwords []string `yaml:"custom_stopwords"`
	StopwordSource  string   `yaml:"stopword_source"` // english, extended
	Stem            bool     `yaml:"stem"`
}

// VocabularyConfig controls document-term matrix pruning
type VocabularyConfig struct {
	MaxSparsity float64 `yaml:"max_sparsity"` // drop terms absent from more than this fraction of documents
}

// SplitConfig controls the stratified partition
type SplitConfig struct {
	TrainRatio float64 `yaml:"train_ratio"`
	Seed       uint64  `yaml:"seed"`
}

// SVMConfig contains linear SVM parameters
type SVMConfig struct {
	Cost      float64 `yaml:"cost"`
	Scale     bool    `yaml:"scale"`
	Tolerance float64 `yaml:"tolerance"`
	CacheMB   float64 `yaml:"cache_mb"`
}

// SentimentConfig toggles sentiment scoring
type SentimentConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FeaturesConfig controls which columns reach the classifier
type FeaturesConfig struct {
	// Append polarity and emotion columns to the term columns
	IncludeSentiment bool `yaml:"include_sentiment"`
}

// ReportConfig contains report rendering settings
type ReportConfig struct {
	OutputDir     string `yaml:"output_dir"`
	Charts        bool   `yaml:"charts"`
	TopTerms      int    `yaml:"top_terms"`
	WordCloudSeed uint64 `yaml:"wordcloud_seed"`
	WordCloudMax  int    `yaml:"wordcloud_max_words"`
	WordCloudMin  int    `yaml:"wordcloud_min_freq"`
	Profile       bool   `yaml:"profile"`
}

// CacheConfig selects the normalized text cache backend
type CacheConfig struct {
	// Backend selection: "none", "memory" or "redis"
	Backend string `yaml:"backend"`

	Redis RedisCacheConfig `yaml:"redis"`
}

// RedisCacheConfig contains Redis cache settings
type RedisCacheConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
	TTL         string `yaml:"ttl"` // Duration string like "720h"
	BatchSize   int    `yaml:"batch_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	File   string `yaml:"file"`   // log file path, empty = stderr
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns zpam-svm default configuration
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:        "spam.csv",
			LabelColumn: "Category",
			TextColumn:  "Message",
		},
		Preprocess: PreprocessConfig{
			CustomStopwords: []string{"s", "company", "team"},
			StopwordSource:  "english",
			Stem:            true,
		},
		Vocabulary: VocabularyConfig{
			MaxSparsity: 0.99,
		},
		Split: SplitConfig{
			TrainRatio: 0.8,
			Seed:       1234,
		},
		SVM: SVMConfig{
			Cost:      1.0,
			Scale:     true,
			Tolerance: 0.001,
			CacheMB:   100,
		},
		Sentiment: SentimentConfig{
			Enabled: true,
		},
		Features: FeaturesConfig{
			IncludeSentiment: false,
		},
		Report: ReportConfig{
			OutputDir:     "report",
			Charts:        true,
			TopTerms:      20,
			WordCloudSeed: 1234,
			WordCloudMax:  100,
			WordCloudMin:  5,
			Profile:       false,
		},
		Cache: CacheConfig{
			Backend: "none",
			Redis: RedisCacheConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "zpam:svm:norm",
				DatabaseNum: 0,
				TTL:         "720h",
				BatchSize:   500,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Dataset.LabelColumn == "" || c.Dataset.TextColumn == "" {
		return fmt.Errorf("dataset label_column and text_column cannot be empty")
	}

	if c.Split.TrainRatio <= 0 || c.Split.TrainRatio >= 1 {
		return fmt.Errorf("split train_ratio must be between 0 and 1 (exclusive)")
	}

	if c.Vocabulary.MaxSparsity < 0 || c.Vocabulary.MaxSparsity >= 1 {
		return fmt.Errorf("vocabulary max_sparsity must be in [0, 1)")
	}

	if c.SVM.Cost <= 0 {
		return fmt.Errorf("svm cost must be > 0")
	}

	if c.SVM.Tolerance <= 0 {
		return fmt.Errorf("svm tolerance must be > 0")
	}

	if c.Report.TopTerms < 1 {
		return fmt.Errorf("report top_terms must be >= 1")
	}

	if !contains([]string{"english", "extended"}, c.Preprocess.StopwordSource) {
		return fmt.Errorf("invalid stopword_source: %s", c.Preprocess.StopwordSource)
	}

	if !contains([]string{"none", "memory", "redis"}, c.Cache.Backend) {
		return fmt.Errorf("invalid cache backend: %s", c.Cache.Backend)
	}

	if c.Cache.Backend == "redis" && c.Cache.Redis.RedisURL == "" {
		return fmt.Errorf("cache redis_url cannot be empty when backend is redis")
	}

	if !contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if !contains([]string{"text", "json"}, c.Logging.Format) {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
