package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	BaseURL    string
	JWTSecret  string
	Mongo      MongoConfig
	SMTP       SMTPConfig
	Assistant  AssistantConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AppEnv != "local" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in %s environment", c.AppEnv)
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP_PORT %d", c.SMTP.Port)
	}
	return nil
}

type MongoConfig struct {
	URI      string
	Database string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func Load() Config {
	return Config{
		ServerPort: envOrDefault("SERVER_PORT", "8080"),
		AppEnv:     envOrDefault("APP_ENV", "local"),
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		BaseURL:    envOrDefault("APP_BASE_URL", "http://localhost:3000"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Mongo: MongoConfig{
			URI:      envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database: envOrDefault("MONGO_DB", "beconsistent"),
		},
		SMTP: SMTPConfig{
			Host:     envOrDefault("SMTP_HOST", "smtp.gmail.com"),
			Port:     envIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOrDefault("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
		},
		Assistant: AssistantConfig{
			APIKey:  os.Getenv("ASSISTANT_API_KEY"),
			BaseURL: os.Getenv("ASSISTANT_BASE_URL"),
			Model:   envOrDefault("ASSISTANT_MODEL", "gpt-4o-mini"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
