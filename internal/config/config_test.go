package config_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/beconsistent/consistent-api/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "APP_ENV", "LOG_LEVEL", "APP_BASE_URL", "JWT_SECRET",
		"MONGO_URI", "MONGO_DB",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
		"ASSISTANT_API_KEY", "ASSISTANT_BASE_URL", "ASSISTANT_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "8080"},
		{"AppEnv", cfg.AppEnv, "local"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"BaseURL", cfg.BaseURL, "http://localhost:3000"},
		{"Mongo.URI", cfg.Mongo.URI, "mongodb://localhost:27017"},
		{"Mongo.Database", cfg.Mongo.Database, "beconsistent"},
		{"SMTP.Host", cfg.SMTP.Host, "smtp.gmail.com"},
		{"Assistant.Model", cfg.Assistant.Model, "gpt-4o-mini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	t.Run("SMTP.Port", func(t *testing.T) {
		if cfg.SMTP.Port != 587 {
			t.Errorf("got SMTP.Port=%d, want 587", cfg.SMTP.Port)
		}
	})
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "alpha")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_BASE_URL", "https://app.example.com")
	t.Setenv("JWT_SECRET", "topsecret")
	t.Setenv("MONGO_URI", "mongodb://db.example.com:27017")
	t.Setenv("MONGO_DB", "consistent_alpha")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "robot@example.com")
	t.Setenv("SMTP_PASSWORD", "hunter2")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("ASSISTANT_API_KEY", "sk-test")
	t.Setenv("ASSISTANT_MODEL", "gpt-4o")

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "9090"},
		{"AppEnv", cfg.AppEnv, "alpha"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"BaseURL", cfg.BaseURL, "https://app.example.com"},
		{"JWTSecret", cfg.JWTSecret, "topsecret"},
		{"Mongo.URI", cfg.Mongo.URI, "mongodb://db.example.com:27017"},
		{"Mongo.Database", cfg.Mongo.Database, "consistent_alpha"},
		{"SMTP.Host", cfg.SMTP.Host, "mail.example.com"},
		{"SMTP.Username", cfg.SMTP.Username, "robot@example.com"},
		{"SMTP.Password", cfg.SMTP.Password, "hunter2"},
		{"SMTP.From", cfg.SMTP.From, "noreply@example.com"},
		{"Assistant.APIKey", cfg.Assistant.APIKey, "sk-test"},
		{"Assistant.Model", cfg.Assistant.Model, "gpt-4o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	t.Run("SMTP.Port", func(t *testing.T) {
		if cfg.SMTP.Port != 2525 {
			t.Errorf("got SMTP.Port=%d, want 2525", cfg.SMTP.Port)
		}
	})
}

func TestLoad_FromDefaultsToUsername(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_USERNAME", "robot@example.com")

	cfg := config.Load()
	if cfg.SMTP.From != "robot@example.com" {
		t.Errorf("got SMTP.From=%q, want username fallback", cfg.SMTP.From)
	}
}

func TestConfig_ParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"mixed case Warn", "Warn", slog.LevelWarn},
		{"empty defaults to info", "", slog.LevelInfo},
		{"invalid defaults to info", "verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LOG_LEVEL", tt.value)

			cfg := config.Load()
			got := cfg.ParseLogLevel()

			if got != tt.want {
				t.Errorf("LOG_LEVEL=%q: got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		port      string
		env       string
		jwtSecret string
		smtpPort  string
		wantErr   string
	}{
		{"valid local without secret", "8080", "local", "", "", ""},
		{"valid alpha", "8080", "alpha", "s3cret", "", ""},
		{"valid prod", "80", "prod", "s3cret", "465", ""},
		{"invalid port", "abc", "local", "", "", "invalid SERVER_PORT"},
		{"invalid env", "8080", "staging", "", "", "invalid APP_ENV"},
		{"missing secret in alpha", "8080", "alpha", "", "", "JWT_SECRET is required"},
		{"missing secret in prod", "8080", "prod", "", "", "JWT_SECRET is required"},
		{"invalid smtp port", "8080", "local", "", "99999", "invalid SMTP_PORT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SERVER_PORT", tt.port)
			t.Setenv("APP_ENV", tt.env)
			if tt.jwtSecret != "" {
				t.Setenv("JWT_SECRET", tt.jwtSecret)
			}
			if tt.smtpPort != "" {
				t.Setenv("SMTP_PORT", tt.smtpPort)
			}

			cfg := config.Load()
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}
