package model

import "time"

// Config is the complete service configuration. It is constructed once
// (defaults, then config file, env, and flags layered on top) and passed
// by reference into components; there are no process-wide settings.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	News   NewsConfig   `yaml:"news" mapstructure:"news"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Verify VerifyConfig `yaml:"verify" mapstructure:"verify"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig controls the HTTP API listener
type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// NewsConfig controls the corroboration search provider. An empty APIKey
// disables search entirely; that is a soft state, not an error.
type NewsConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Language string `yaml:"language" mapstructure:"language"`
	// WindowDays bounds how far back articles may date.
	WindowDays int `yaml:"window_days" mapstructure:"window_days"`
	// Limit caps how many corroborating items a verdict keeps.
	Limit             int           `yaml:"limit" mapstructure:"limit"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// RankSources orders results by source authority before capping.
	RankSources bool         `yaml:"rank_sources" mapstructure:"rank_sources"`
	Enrich      EnrichConfig `yaml:"enrich" mapstructure:"enrich"`
}

// EnrichConfig controls optional article snippet enrichment
type EnrichConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Workers      int           `yaml:"workers" mapstructure:"workers"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LLMConfig controls the generative-model provider. An empty Provider
// disables fallback analysis.
type LLMConfig struct {
	// Provider is one of openai, anthropic, ollama, or empty.
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig controls the verdict cache backend
type CacheConfig struct {
	// Backend is one of memory, redis, layered.
	Backend       string        `yaml:"backend" mapstructure:"backend"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db"`
}

// VerifyConfig controls orchestrator policy knobs
type VerifyConfig struct {
	// AnalyzeTimeout is the hard bound on one fallback analysis call.
	AnalyzeTimeout time.Duration `yaml:"analyze_timeout" mapstructure:"analyze_timeout"`
	// ExpandQuery asks the model for search keyphrases before searching.
	ExpandQuery bool `yaml:"expand_query" mapstructure:"expand_query"`
}

// LogConfig controls logging behavior
type LogConfig struct {
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns the baseline configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		News: NewsConfig{
			BaseURL:           "https://newsapi.org/v2",
			Language:          "en",
			WindowDays:        7,
			Limit:             5,
			Timeout:           5 * time.Second,
			RequestsPerMinute: 60,
			RankSources:       true,
			Enrich: EnrichConfig{
				Enabled:      false,
				Timeout:      8 * time.Second,
				Workers:      3,
				UserAgent:    "Aletheia/0.2 (+https://github.com/ppiankov/aletheia)",
				MaxBodyBytes: 1_000_000,
			},
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default
			MaxTokens:   600,
			Temperature: 0.2,
			Timeout:     30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			TTL:       24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Verify: VerifyConfig{
			AnalyzeTimeout: 10 * time.Second,
			ExpandQuery:    false,
		},
		Log: LogConfig{
			Debug: false,
		},
	}
}
