package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Credential CredentialConfig
	Inference  InferenceConfig
	Batch      BatchConfig
	Image      ImageConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the per-file upload limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB * 1024 * 1024
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

// CredentialConfig locates the versioned API key files.
type CredentialConfig struct {
	Dir         string `mapstructure:"dir"`
	Prefix      string `mapstructure:"prefix"`
	FallbackKey string `mapstructure:"fallback_key"`
}

// InferenceConfig holds settings for the generative model provider.
type InferenceConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"-"`
	TextModel   string `mapstructure:"text_model"`
	VisionModel string `mapstructure:"vision_model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	BaseURL     string `mapstructure:"base_url"`
}

// Timeout returns the per-call timeout, defaulting to 120s.
func (i *InferenceConfig) Timeout() time.Duration {
	if i.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(i.TimeoutSecs) * time.Second
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	EntryMarker string `mapstructure:"entry_marker"`
	ArchiveName string `mapstructure:"archive_name"`
}

// ImageConfig holds settings for preparing uploads before inference.
type ImageConfig struct {
	MaxDimension int `mapstructure:"max_dimension"`
	JPEGQuality  int `mapstructure:"jpeg_quality"`
}

// Load reads configuration from environment variables with the LABELSCAN_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("LABELSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501,http://127.0.0.1:8501")

	// Credential defaults
	v.SetDefault("credential.dir", ".")
	v.SetDefault("credential.prefix", ".env_")
	v.SetDefault("credential.fallback_key", "")

	// Inference defaults
	v.SetDefault("inference.provider", "gemini")
	v.SetDefault("inference.text_model", "gemini-2.0-flash-exp")
	v.SetDefault("inference.vision_model", "gemini-2.0-flash-thinking-exp-01-21")
	v.SetDefault("inference.timeout_secs", 120)
	v.SetDefault("inference.base_url", "")

	// Batch defaults
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.entry_marker", "__Text")
	v.SetDefault("batch.archive_name", "ocr_results.zip")

	// Image defaults
	v.SetDefault("image.max_dimension", 0)
	v.SetDefault("image.jpeg_quality", 95)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "LABELSCAN_SERVER_PORT",
		"server.read_timeout":     "LABELSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "LABELSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":      "LABELSCAN_SERVER_ENVIRONMENT",
		"server.max_upload_mb":    "LABELSCAN_SERVER_MAX_UPLOAD_MB",
		"log.level":               "LABELSCAN_LOG_LEVEL",
		"log.format":              "LABELSCAN_LOG_FORMAT",
		"cors.allowed_origins":    "LABELSCAN_CORS_ALLOWED_ORIGINS",
		"credential.dir":          "LABELSCAN_CREDENTIAL_DIR",
		"credential.prefix":       "LABELSCAN_CREDENTIAL_PREFIX",
		"credential.fallback_key": "LABELSCAN_CREDENTIAL_FALLBACK_KEY",
		"inference.provider":      "LABELSCAN_INFERENCE_PROVIDER",
		"inference.text_model":    "LABELSCAN_INFERENCE_TEXT_MODEL",
		"inference.vision_model":  "LABELSCAN_INFERENCE_VISION_MODEL",
		"inference.timeout_secs":  "LABELSCAN_INFERENCE_TIMEOUT_SECS",
		"inference.base_url":      "LABELSCAN_INFERENCE_BASE_URL",
		"batch.concurrency":       "LABELSCAN_BATCH_CONCURRENCY",
		"batch.entry_marker":      "LABELSCAN_BATCH_ENTRY_MARKER",
		"batch.archive_name":      "LABELSCAN_BATCH_ARCHIVE_NAME",
		"image.max_dimension":     "LABELSCAN_IMAGE_MAX_DIMENSION",
		"image.jpeg_quality":      "LABELSCAN_IMAGE_JPEG_QUALITY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LABELSCAN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LABELSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Credential = CredentialConfig{
		Dir:         v.GetString("credential.dir"),
		Prefix:      v.GetString("credential.prefix"),
		FallbackKey: v.GetString("credential.fallback_key"),
	}
	cfg.Inference = InferenceConfig{
		Provider:    v.GetString("inference.provider"),
		TextModel:   v.GetString("inference.text_model"),
		VisionModel: v.GetString("inference.vision_model"),
		TimeoutSecs: v.GetInt("inference.timeout_secs"),
		BaseURL:     v.GetString("inference.base_url"),
	}

	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
		EntryMarker: v.GetString("batch.entry_marker"),
		ArchiveName: v.GetString("batch.archive_name"),
	}
	if cfg.Batch.Concurrency < 1 {
		cfg.Batch.Concurrency = 1
	}

	cfg.Image = ImageConfig{
		MaxDimension: v.GetInt("image.max_dimension"),
		JPEGQuality:  v.GetInt("image.jpeg_quality"),
	}
	if cfg.Image.JPEGQuality <= 0 || cfg.Image.JPEGQuality > 100 {
		return nil, fmt.Errorf("image.jpeg_quality must be between 1 and 100, got %d", cfg.Image.JPEGQuality)
	}
	if cfg.Credential.Prefix == "" {
		return nil, fmt.Errorf("credential.prefix must not be empty")
	}

	return cfg, nil
}
