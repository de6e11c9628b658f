// Package config loads the bridge configuration from the environment.
//
// Fields declare their mapping via struct tags:
//
//	`env:"VAR_NAME" default:"value" min:"0"`
//
// Load() fills the struct through pkg/util.LoadFromEnv reflection.
package config

import (
	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

// Config holds all bridge settings, one field per env variable.
type Config struct {
	// HTTP / WebSocket surface
	ListenAddr string `env:"BRIDGE_LISTEN_ADDR" default:":8080"`

	// PostgreSQL (empty conn string → in-memory session log store)
	PostgresConnStr     string `env:"POSTGRES_CONNECTION_STRING"`
	PostgresSchema      string `env:"POSTGRES_SCHEMA" default:"public"`
	PostgresPoolMinSize int    `env:"POSTGRES_POOL_MIN_SIZE" default:"1" min:"1"`
	PostgresPoolMaxSize int    `env:"POSTGRES_POOL_MAX_SIZE" default:"10" min:"1"`

	// Classification pipeline
	CacheCapacity   int `env:"CLASSIFY_CACHE_CAPACITY" default:"512" min:"16"`
	SummaryMaxChars int `env:"SUMMARY_MAX_CHARS" default:"200" min:"40"`

	// Optional LLM enrichment (best-effort, off when key is empty)
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	EnrichModel   string `env:"ENRICH_MODEL" default:"gpt-4o-mini"`
	EnrichTimeout int    `env:"ENRICH_TIMEOUT_SEC" default:"30" min:"1"`
	EnrichEnabled bool   `env:"ENRICH_ENABLED" default:"false"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" default:"INFO"`
	LogEnv   string `env:"LOG_ENV" default:"production"`
	LogDir   string `env:"LOG_DIR"` // when set, mirror logs to a dated file
}

// Load reads the configuration from environment variables.
func Load() *Config {
	var cfg Config
	util.LoadFromEnv(&cfg)
	return &cfg
}
