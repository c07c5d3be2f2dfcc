package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Trends    TrendsConfig    `mapstructure:"trends"    validate:"required"`
	Media     MediaConfig     `mapstructure:"media"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory stores, which is the development
// default; production deployments set a PostgreSQL URL.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// TrendsConfig controls the trend aggregation pipeline.
type TrendsConfig struct {
	// FetchTimeoutSeconds bounds each network fetch.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" validate:"gt=0"`

	// MaxTrends caps the ranked result set returned by the aggregator.
	MaxTrends int `mapstructure:"max_trends" validate:"gt=0"`

	// WorkerCount and QueueSize size the background task runner.
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gt=0"`

	// FeedURLs overrides the default RSS feed list when non-empty.
	FeedURLs []string `mapstructure:"feed_urls"`
}

// MediaConfig points at the audio and video synthesis engines. Both are
// external sidecar services invoked over HTTP.
type MediaConfig struct {
	TTSBaseURL   string `mapstructure:"tts_base_url"   validate:"omitempty,url"`
	VideoBaseURL string `mapstructure:"video_base_url" validate:"omitempty,url"`
}

// LLMConfig contains script generation settings. When the API key is empty
// the template-based generator is used instead of Gemini.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// SchedulerConfig controls the periodic trend monitoring dispatch.
type SchedulerConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	IntervalSeconds int      `mapstructure:"interval_seconds" validate:"gt=0"`
	Sources         []string `mapstructure:"sources"`
}
