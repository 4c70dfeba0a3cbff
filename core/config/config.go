package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dealflow.app/hub/internal/model"
)

type Config struct {
	Env     string
	Port    string
	BaseURL string // public base for share links
	Redis   RedisConfig
	OTel    OTelConfig
	Auth    AuthConfig
	Share   ShareConfig
	Hub     HubConfig
}

type RedisConfig struct {
	URL string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type AuthConfig struct {
	Secret string
}

type ShareConfig struct {
	Secret string
	TTL    time.Duration
}

type HubConfig struct {
	IdleTimeout  time.Duration
	PingInterval time.Duration
	// ICVoterRoles limits the required IC voter set to these roles.
	// Empty means every workspace member must vote.
	ICVoterRoles string
}

// Load loads configuration from environment variables. In development a
// local .env is read first.
func Load() (Config, error) {
	if getEnv("HUB_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:     getEnv("HUB_ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "https://dealflow.app"),
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hub"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Auth: AuthConfig{
			Secret: getEnv("AUTH_TOKEN_SECRET", ""),
		},
		Share: ShareConfig{
			Secret: getEnv("SHARE_TOKEN_SECRET", ""),
			TTL:    getEnvDuration("SHARE_TOKEN_TTL", 7*24*time.Hour),
		},
		Hub: HubConfig{
			IdleTimeout:  getEnvDuration("HUB_IDLE_TIMEOUT", 90*time.Second),
			PingInterval: getEnvDuration("HUB_PING_INTERVAL", 30*time.Second),
			ICVoterRoles: getEnv("IC_VOTER_ROLES", ""),
		},
	}

	if cfg.Auth.Secret == "" {
		return Config{}, fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	if cfg.Share.Secret == "" {
		return Config{}, fmt.Errorf("SHARE_TOKEN_SECRET is required")
	}
	if cfg.Hub.PingInterval >= cfg.Hub.IdleTimeout {
		return Config{}, fmt.Errorf("HUB_PING_INTERVAL must be shorter than HUB_IDLE_TIMEOUT")
	}
	for _, role := range cfg.Hub.VoterRoles() {
		if !role.IsValid() {
			return Config{}, fmt.Errorf("IC_VOTER_ROLES contains unknown role %q", role)
		}
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// VoterRoles parses the comma-separated IC_VOTER_ROLES value.
func (c HubConfig) VoterRoles() []model.UserRole {
	if c.ICVoterRoles == "" {
		return nil
	}
	parts := strings.Split(c.ICVoterRoles, ",")
	roles := make([]model.UserRole, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			roles = append(roles, model.UserRole(p))
		}
	}
	return roles
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
