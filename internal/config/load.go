package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults and environment apply.
	}

	// Environment variables with PULSE_ prefix, e.g. PULSE_SERVER_PORT,
	// PULSE_DATABASE_URL, PULSE_LLM_GEMINI_API_KEY.
	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for all settings that have one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("trends.fetch_timeout_seconds", 30)
	v.SetDefault("trends.max_trends", 30)
	v.SetDefault("trends.worker_count", 2)
	v.SetDefault("trends.queue_size", 100)

	v.SetDefault("media.tts_base_url", "http://localhost:8091")
	v.SetDefault("media.video_base_url", "http://localhost:8092")

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval_seconds", 3600)
	v.SetDefault("scheduler.sources", []string{"youtube", "google_trends", "rss_feeds"})
}
