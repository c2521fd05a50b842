package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// OpenRouter (NLP extraction)
	OpenRouterAPIKey string
	OpenRouterAPIURL string
	OpenRouterModel  string
	LLMTimeout       time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "subscription_manager"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),

		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterAPIURL: getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.3-70b-instruct"),
		LLMTimeout:       parseDuration(getEnv("LLM_TIMEOUT", "30s")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// Auth0Configured reports whether real token verification is possible. When
// false, the auth gate falls back to a fixed development identity.
func (c *Config) Auth0Configured() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

func (c *Config) Auth0Issuer() string {
	return "https://" + c.Auth0Domain + "/"
}

func (c *Config) Auth0JWKSURL() string {
	return "https://" + c.Auth0Domain + "/.well-known/jwks.json"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
