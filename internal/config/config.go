package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	GinMode       string
	OpenAIAPIKey  string

	// Retry budget for the onboarding status check. Clamped to [1,5] by the
	// poller.
	OnboardingMaxRetries int
}

func Load() *Config {
	return &Config{
		DBDriver:             getEnv("DB_DRIVER", "mysql"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBUser:               getEnv("DB_USER", "todouser"),
		DBPassword:           getEnv("DB_PASSWORD", "todopassword"),
		DBName:               getEnv("DB_NAME", "todo_platform"),
		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		SessionSecret:        getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:            getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OnboardingMaxRetries: getEnvInt("ONBOARDING_MAX_RETRIES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
