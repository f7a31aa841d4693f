package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultOpenRouterBaseURL is the API root used when llm.base_url is unset.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	CORS   CORSConfig
	Upload UploadConfig
	LLM    LLMConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds limits applied to uploaded files.
type UploadConfig struct {
	MaxFileSizeMB    int64 `mapstructure:"max_file_size_mb"`
	MaxRequestSizeMB int64 `mapstructure:"max_request_size_mb"`
}

// MaxFileSizeBytes returns the per-file upload limit in bytes.
func (u *UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// MaxRequestSizeBytes returns the limit on a whole upload request body in bytes.
func (u *UploadConfig) MaxRequestSizeBytes() int64 {
	return u.MaxRequestSizeMB * 1024 * 1024
}

// LLMConfig holds settings for the chat-completion provider used to infer
// field mappings.
type LLMConfig struct {
	Provider      string  `mapstructure:"provider"`
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	Model         string  `mapstructure:"model"`
	Temperature   float32 `mapstructure:"temperature"`
	TimeoutSecs   int     `mapstructure:"timeout_secs"`
	Referer       string  `mapstructure:"referer"`
	Title         string  `mapstructure:"title"`
	RequireFields bool    `mapstructure:"require_fields"`
}

// Timeout returns the HTTP timeout for one completion call. Zero means none.
func (l *LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSecs) * time.Second
}

// Load reads configuration from environment variables with the GLRFILL_ prefix.
// The LLM credential is also accepted from OPENROUTER_API_KEY.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GLRFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8080,http://127.0.0.1:8080")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 50)
	v.SetDefault("upload.max_request_size_mb", 200)

	// LLM defaults
	v.SetDefault("llm.provider", "openrouter")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", DefaultOpenRouterBaseURL)
	v.SetDefault("llm.model", "mistralai/mistral-7b-instruct:free")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.referer", "https://openrouter.ai")
	v.SetDefault("llm.title", "Insurance-GLR-Filler")
	v.SetDefault("llm.require_fields", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string][]string{
		"server.port":                {"GLRFILL_SERVER_PORT"},
		"server.read_timeout":        {"GLRFILL_SERVER_READ_TIMEOUT"},
		"server.write_timeout":       {"GLRFILL_SERVER_WRITE_TIMEOUT"},
		"server.environment":         {"GLRFILL_SERVER_ENVIRONMENT"},
		"log.level":                  {"GLRFILL_LOG_LEVEL"},
		"log.format":                 {"GLRFILL_LOG_FORMAT"},
		"cors.allowed_origins":       {"GLRFILL_CORS_ALLOWED_ORIGINS"},
		"upload.max_file_size_mb":    {"GLRFILL_UPLOAD_MAX_FILE_SIZE_MB"},
		"upload.max_request_size_mb": {"GLRFILL_UPLOAD_MAX_REQUEST_SIZE_MB"},
		"llm.provider":               {"GLRFILL_LLM_PROVIDER"},
		"llm.api_key":                {"GLRFILL_LLM_API_KEY", "OPENROUTER_API_KEY"},
		"llm.base_url":               {"GLRFILL_LLM_BASE_URL"},
		"llm.model":                  {"GLRFILL_LLM_MODEL"},
		"llm.temperature":            {"GLRFILL_LLM_TEMPERATURE"},
		"llm.timeout_secs":           {"GLRFILL_LLM_TIMEOUT_SECS"},
		"llm.referer":                {"GLRFILL_LLM_REFERER"},
		"llm.title":                  {"GLRFILL_LLM_TITLE"},
		"llm.require_fields":         {"GLRFILL_LLM_REQUIRE_FIELDS"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GLRFILL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GLRFILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("invalid log format %q: want console or json", cfg.Log.Format)
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB:    v.GetInt64("upload.max_file_size_mb"),
		MaxRequestSizeMB: v.GetInt64("upload.max_request_size_mb"),
	}
	if cfg.Upload.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("invalid upload.max_file_size_mb %d: must be positive", cfg.Upload.MaxFileSizeMB)
	}
	if cfg.Upload.MaxRequestSizeMB < cfg.Upload.MaxFileSizeMB {
		return nil, fmt.Errorf("invalid upload.max_request_size_mb %d: must be at least upload.max_file_size_mb (%d)",
			cfg.Upload.MaxRequestSizeMB, cfg.Upload.MaxFileSizeMB)
	}

	cfg.LLM = LLMConfig{
		Provider:      v.GetString("llm.provider"),
		APIKey:        v.GetString("llm.api_key"),
		BaseURL:       v.GetString("llm.base_url"),
		Model:         v.GetString("llm.model"),
		Temperature:   float32(v.GetFloat64("llm.temperature")),
		TimeoutSecs:   v.GetInt("llm.timeout_secs"),
		Referer:       v.GetString("llm.referer"),
		Title:         v.GetString("llm.title"),
		RequireFields: v.GetBool("llm.require_fields"),
	}

	return cfg, nil
}
