package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Auth         AuthConfig
	Logger       LoggerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicBaseURL         string
	RequestTimeoutSeconds int
}

// StoreConfig locates the durable ticket collection.
type StoreConfig struct {
	FilePath       string
	AttachmentsDir string
}

// AuthConfig defines the shared secret and download-link signing parameters.
type AuthConfig struct {
	APIKey                  string
	DownloadTokenSecret     string
	DownloadTokenTTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig holds the outbound channel endpoints.
type NotificationConfig struct {
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFrom            string
	WhatsAppGatewayURL   string
	WhatsAppGatewayToken string
	TimeoutSeconds       int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "atendimento-certidoes"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicBaseURL:         getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			FilePath:       getEnv("STORE_FILE", "data/tickets.json"),
			AttachmentsDir: getEnv("STORE_ATTACHMENTS_DIR", "data/anexos"),
		},
		Auth: AuthConfig{
			APIKey:                  getEnv("AUTH_API_KEY", "dev-secret"),
			DownloadTokenSecret:     getEnv("AUTH_DOWNLOAD_TOKEN_SECRET", "dev-download-secret"),
			DownloadTokenTTLMinutes: getEnvAsInt("AUTH_DOWNLOAD_TOKEN_TTL_MINUTES", 7*24*60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			SMTPHost:             getEnv("SMTP_HOST", "localhost"),
			SMTPPort:             smtpPort,
			SMTPUsername:         os.Getenv("SMTP_USERNAME"),
			SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
			EmailFrom:            getEnv("NOTIFY_EMAIL_FROM", "certidoes@example.com"),
			WhatsAppGatewayURL:   os.Getenv("WHATSAPP_GATEWAY_URL"),
			WhatsAppGatewayToken: os.Getenv("WHATSAPP_GATEWAY_TOKEN"),
			TimeoutSeconds:       getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-channel notification timeout.
func (n NotificationConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// DownloadTokenTTL returns the signed download link lifetime.
func (a AuthConfig) DownloadTokenTTL() time.Duration {
	if a.DownloadTokenTTLMinutes <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.DownloadTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
