package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultModel is the chat-completion model used when none is configured.
const DefaultModel = "gpt-4o-2024-08-06"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Upload    UploadConfig
	PDF       PDFConfig
	Inference InferenceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	BasePath     string        `mapstructure:"base_path"`
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

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes, or 0 when uploads are unbounded.
func (u *UploadConfig) MaxBytes() int64 {
	if u.MaxFileSizeMB <= 0 {
		return 0
	}
	return u.MaxFileSizeMB << 20
}

// PDFConfig selects the PDF text extraction backend.
type PDFConfig struct {
	Extractor string `mapstructure:"extractor"`
}

// InferenceConfig holds settings for the hosted chat-completion API.
type InferenceConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	Model           string `mapstructure:"model"`
	MaxTokens       int    `mapstructure:"max_tokens"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
	DetectImageMIME bool   `mapstructure:"detect_image_mime"`
}

// Load reads configuration from environment variables with the PIE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,https://pie.initia.cloud,https://api.pie.initia.cloud")

	v.SetDefault("upload.max_file_size_mb", 20)

	v.SetDefault("pdf.extractor", "plain")

	// Inference defaults
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.base_url", "")
	v.SetDefault("inference.model", DefaultModel)
	v.SetDefault("inference.max_tokens", 400)
	v.SetDefault("inference.timeout_secs", 0)
	v.SetDefault("inference.detect_image_mime", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string][]string{
		"server.port":                 {"PIE_SERVER_PORT"},
		"server.base_path":            {"PIE_SERVER_BASE_PATH"},
		"server.read_timeout":         {"PIE_SERVER_READ_TIMEOUT"},
		"server.write_timeout":        {"PIE_SERVER_WRITE_TIMEOUT"},
		"server.environment":          {"PIE_SERVER_ENVIRONMENT"},
		"log.level":                   {"PIE_LOG_LEVEL"},
		"log.format":                  {"PIE_LOG_FORMAT"},
		"cors.allowed_origins":        {"PIE_CORS_ALLOWED_ORIGINS"},
		"upload.max_file_size_mb":     {"PIE_UPLOAD_MAX_FILE_SIZE_MB"},
		"pdf.extractor":               {"PIE_PDF_EXTRACTOR"},
		"inference.api_key":           {"PIE_INFERENCE_API_KEY", "OPENAI_API_KEY"},
		"inference.base_url":          {"PIE_INFERENCE_BASE_URL"},
		"inference.model":             {"PIE_INFERENCE_MODEL"},
		"inference.max_tokens":        {"PIE_INFERENCE_MAX_TOKENS"},
		"inference.timeout_secs":      {"PIE_INFERENCE_TIMEOUT_SECS"},
		"inference.detect_image_mime": {"PIE_INFERENCE_DETECT_IMAGE_MIME"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PIE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PIE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		BasePath:     normalizeBasePath(v.GetString("server.base_path")),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
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
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.PDF = PDFConfig{
		Extractor: strings.ToLower(strings.TrimSpace(v.GetString("pdf.extractor"))),
	}

	model := strings.TrimSpace(v.GetString("inference.model"))
	if model == "" {
		model = DefaultModel
	}
	cfg.Inference = InferenceConfig{
		APIKey:          strings.TrimSpace(v.GetString("inference.api_key")),
		BaseURL:         v.GetString("inference.base_url"),
		Model:           model,
		MaxTokens:       v.GetInt("inference.max_tokens"),
		TimeoutSecs:     v.GetInt("inference.timeout_secs"),
		DetectImageMIME: v.GetBool("inference.detect_image_mime"),
	}

	return cfg, nil
}

// normalizeBasePath turns "prod", "/prod/" and "/prod" into "/prod"; "/" and "" become "".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
