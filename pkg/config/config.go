// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Corpus, Index, Emotion, Search, Eval, Postgres, Redis, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Index    IndexConfig    `yaml:"index"`
	Emotion  EmotionConfig  `yaml:"emotion"`
	Search   SearchConfig   `yaml:"search"`
	Eval     EvalConfig     `yaml:"eval"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings for the searcher service.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CorpusConfig selects where the tokenized corpus is read from.
// Source is "file" (JSON lines) or "postgres".
type CorpusConfig struct {
	Source   string `yaml:"source"`
	Path     string `yaml:"path"`
	Stemming bool   `yaml:"stemming"`
}

// IndexConfig controls the index build and artifact locations.
type IndexConfig struct {
	DataDir     string `yaml:"dataDir"`
	IndexFile   string `yaml:"indexFile"`
	EmotionFile string `yaml:"emotionFile"`
	StatsFile   string `yaml:"statsFile"`
	Workers     int    `yaml:"workers"`
}

// EmotionConfig controls the lexicon source and negation handling.
type EmotionConfig struct {
	LexiconPath    string `yaml:"lexiconPath"`
	LookbackWindow int    `yaml:"lookbackWindow"`
}

// SearchConfig holds query-time scoring parameters. Weights and thresholds
// are explicit configuration rather than package-level constants so the
// weight sweep and tests can construct engines with arbitrary values.
type SearchConfig struct {
	SynonymsPath  string        `yaml:"synonymsPath"`
	Normalization string        `yaml:"normalization"`
	TextWeight    float64       `yaml:"textWeight"`
	EmotionWeight float64       `yaml:"emotionWeight"`
	MinCount      int           `yaml:"minCount"`
	DefaultLimit  int           `yaml:"defaultLimit"`
	MaxResults    int           `yaml:"maxResults"`
	CacheEnabled  bool          `yaml:"cacheEnabled"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
}

// EvalConfig holds evaluation harness settings.
type EvalConfig struct {
	CasesPath string `yaml:"casesPath"`
	CutoffK   int    `yaml:"cutoffK"`
}

// PostgresConfig holds PostgreSQL connection parameters for the corpus store.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig holds Redis connection parameters for the query-result cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"poolSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// defaultConfig returns a Config with defaults for local development.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Corpus: CorpusConfig{
			Source:   "file",
			Path:     "data/processed_corpus.jsonl",
			Stemming: false,
		},
		Index: IndexConfig{
			DataDir:     "data",
			IndexFile:   "search_index.gsa",
			EmotionFile: "emotion_results.gsa",
			StatsFile:   "emotion_stats.gsa",
			Workers:     8,
		},
		Emotion: EmotionConfig{
			LexiconPath:    "data/nrc_lexicon.txt",
			LookbackWindow: 3,
		},
		Search: SearchConfig{
			SynonymsPath:  "data/synonyms.json",
			Normalization: "sqrt",
			TextWeight:    0.5,
			EmotionWeight: 1.0,
			MinCount:      0,
			DefaultLimit:  10,
			MaxResults:    100,
			CacheEnabled:  false,
			CacheTTL:      60 * time.Second,
		},
		Eval: EvalConfig{
			CasesPath: "data/test_cases.json",
			CutoffK:   10,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "gutensearch",
			User:            "gutensearch",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads GS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GS_CORPUS_SOURCE"); v != "" {
		cfg.Corpus.Source = v
	}
	if v := os.Getenv("GS_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("GS_INDEX_DATA_DIR"); v != "" {
		cfg.Index.DataDir = v
	}
	if v := os.Getenv("GS_LEXICON_PATH"); v != "" {
		cfg.Emotion.LexiconPath = v
	}
	if v := os.Getenv("GS_SYNONYMS_PATH"); v != "" {
		cfg.Search.SynonymsPath = v
	}
	if v := os.Getenv("GS_SEARCH_NORMALIZATION"); v != "" {
		cfg.Search.Normalization = v
	}
	if v := os.Getenv("GS_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("GS_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("GS_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("GS_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("GS_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("GS_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("GS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("GS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
	if v := strings.ToLower(os.Getenv("GS_SEARCH_CACHE_ENABLED")); v != "" {
		cfg.Search.CacheEnabled = v == "true" || v == "1"
	}
}
