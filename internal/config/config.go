package config

import (
	"time"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Frequency FrequencyConfig `yaml:"frequency"`
	Zdic      ZdicConfig      `yaml:"zdic"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds the per-IP limit of the public API.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"true"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" env-default:"60"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"5m"`
}

// CorpusConfig lists the persisted note streams loaded at startup.
type CorpusConfig struct {
	TextbookNotes []string `yaml:"textbook_notes" env:"CORPUS_TEXTBOOK_NOTES" env-separator:","`
	DatasetNotes  []string `yaml:"dataset_notes"  env:"CORPUS_DATASET_NOTES"  env-separator:","`
	QueryNotes    []string `yaml:"query_notes"    env:"CORPUS_QUERY_NOTES"    env-separator:","`
	PageSize      int      `yaml:"page_size"      env:"CORPUS_PAGE_SIZE"      env-default:"30"`
}

// FrequencyConfig holds the ranking weights per corpus kind.
type FrequencyConfig struct {
	TextbookWeight int `yaml:"textbook_weight" env:"FREQ_TEXTBOOK_WEIGHT" env-default:"3"`
	DatasetWeight  int `yaml:"dataset_weight"  env:"FREQ_DATASET_WEIGHT"  env-default:"1"`
	QueryWeight    int `yaml:"query_weight"    env:"FREQ_QUERY_WEIGHT"    env-default:"2"`
}

// Weights converts the section into ranking weights.
func (f FrequencyConfig) Weights() domain.FreqWeights {
	return domain.FreqWeights{
		Textbook: f.TextbookWeight,
		Dataset:  f.DatasetWeight,
		Query:    f.QueryWeight,
	}
}

// ZdicConfig holds the dictionary site scraper settings.
type ZdicConfig struct {
	Enabled    bool          `yaml:"enabled"     env:"ZDIC_ENABLED"     env-default:"true"`
	BaseURL    string        `yaml:"base_url"    env:"ZDIC_BASE_URL"    env-default:"https://www.zdic.net/hans"`
	Timeout    time.Duration `yaml:"timeout"     env:"ZDIC_TIMEOUT"     env-default:"10s"`
	Cache      string        `yaml:"cache"       env:"ZDIC_CACHE"       env-default:"postgres"`
	SQLitePath string        `yaml:"sqlite_path" env:"ZDIC_SQLITE_PATH" env-default:"./zdic_cache.db"`
}

// Definition cache backends.
const (
	CachePostgres = "postgres"
	CacheSQLite   = "sqlite"
)
