// Package config loads and validates the engine configuration from a YAML file
// with IRE_* environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
)

// Config is the top-level engine configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Indexing   IndexingConfig   `yaml:"indexing"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CorpusConfig selects the collection to index.
type CorpusConfig struct {
	Kind        string `yaml:"kind"`        // cisi, reuters or reuters-sgml
	Path        string `yaml:"path"`        // directory holding the collection files
	SampleSize  int    `yaml:"sampleSize"`  // Reuters only; 0 loads everything
	MaxQueries  int    `yaml:"maxQueries"`  // CISI evaluation queries
	PerCategory int    `yaml:"perCategory"` // Reuters relevant documents per category query
}

// RankingConfig holds the model parameters and request defaults.
type RankingConfig struct {
	K1              float64 `yaml:"k1"`
	B               float64 `yaml:"b"`
	DefaultMethod   string  `yaml:"defaultMethod"`
	DefaultOperator string  `yaml:"defaultOperator"`
	DefaultTopK     int     `yaml:"defaultTopK"`
	MaxTopK         int     `yaml:"maxTopK"`
}

// IndexingConfig controls the parallel text processing of an index build.
type IndexingConfig struct {
	Workers   int  `yaml:"workers"` // 0 uses every CPU
	BatchSize int  `yaml:"batchSize"`
	Stemming  bool `yaml:"stemming"`
}

// EvaluationConfig controls evaluation runs.
type EvaluationConfig struct {
	TopN    int `yaml:"topN"`
	Workers int `yaml:"workers"`
}

// AnalyticsConfig bounds the in-memory search event log.
type AnalyticsConfig struct {
	MaxEvents int `yaml:"maxEvents"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Env   string `yaml:"env"` // prod or dev
	Level string `yaml:"level"`
}

var (
	validCorpusKinds = []string{"cisi", "reuters", "reuters-sgml"}
	validMethods     = []string{"boolean", "vsm", "bm25"}
	validOperators   = []string{"AND", "OR", "NOT"}
)

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Corpus: CorpusConfig{
			Kind:        "cisi",
			Path:        "data/cisi",
			SampleSize:  1000,
			MaxQueries:  5,
			PerCategory: 100,
		},
		Ranking: RankingConfig{
			K1:              1.5,
			B:               0.75,
			DefaultMethod:   "bm25",
			DefaultOperator: "AND",
			DefaultTopK:     10,
			MaxTopK:         1000,
		},
		Indexing: IndexingConfig{
			BatchSize: 250,
			Stemming:  true,
		},
		Evaluation: EvaluationConfig{
			TopN:    10,
			Workers: 4,
		},
		Analytics: AnalyticsConfig{
			MaxEvents: 10000,
		},
		Logging: LoggingConfig{
			Env:   "prod",
			Level: "info",
		},
	}
}

// Validate checks the configuration and returns every problem found as a single error.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !contains(validCorpusKinds, strings.ToLower(c.Corpus.Kind)) {
		problems = append(problems, fmt.Sprintf("corpus.kind must be one of %s, got '%s'", strings.Join(validCorpusKinds, ", "), c.Corpus.Kind))
	}
	if strings.TrimSpace(c.Corpus.Path) == "" {
		problems = append(problems, "corpus.path cannot be empty")
	}
	if c.Corpus.SampleSize < 0 {
		problems = append(problems, "corpus.sampleSize cannot be negative")
	}
	if c.Ranking.K1 < 0 {
		problems = append(problems, fmt.Sprintf("ranking.k1 cannot be negative, got %g", c.Ranking.K1))
	}
	if c.Ranking.B < 0 || c.Ranking.B > 1 {
		problems = append(problems, fmt.Sprintf("ranking.b must be between 0 and 1, got %g", c.Ranking.B))
	}
	if !contains(validMethods, strings.ToLower(c.Ranking.DefaultMethod)) {
		problems = append(problems, fmt.Sprintf("ranking.defaultMethod must be one of %s, got '%s'", strings.Join(validMethods, ", "), c.Ranking.DefaultMethod))
	}
	if !contains(validOperators, strings.ToUpper(c.Ranking.DefaultOperator)) {
		problems = append(problems, fmt.Sprintf("ranking.defaultOperator must be one of %s, got '%s'", strings.Join(validOperators, ", "), c.Ranking.DefaultOperator))
	}
	if c.Ranking.DefaultTopK < 1 {
		problems = append(problems, "ranking.defaultTopK must be positive")
	}
	if c.Ranking.MaxTopK < c.Ranking.DefaultTopK {
		problems = append(problems, "ranking.maxTopK cannot be smaller than ranking.defaultTopK")
	}
	if c.Indexing.Workers < 0 {
		problems = append(problems, "indexing.workers cannot be negative")
	}
	if c.Evaluation.TopN < 1 {
		problems = append(problems, "evaluation.topN must be positive")
	}
	if c.Analytics.MaxEvents < 1 {
		problems = append(problems, "analytics.maxEvents must be positive")
	}

	if len(problems) > 0 {
		return errors.NewValidationError("config", strings.Join(problems, "; "))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// applyEnvOverrides reads IRE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IRE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IRE_CORPUS_KIND"); v != "" {
		cfg.Corpus.Kind = v
	}
	if v := os.Getenv("IRE_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("IRE_CORPUS_SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Corpus.SampleSize = n
		}
	}
	if v := os.Getenv("IRE_RANKING_K1"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.K1 = f
		}
	}
	if v := os.Getenv("IRE_RANKING_B"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.B = f
		}
	}
	if v := os.Getenv("IRE_INDEXING_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexing.Workers = n
		}
	}
	if v := os.Getenv("IRE_LOGGING_ENV"); v != "" {
		cfg.Logging.Env = v
	}
	if v := os.Getenv("IRE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
