package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv reads .env into the process environment. A missing file is not
// fatal because containers pass configuration through the real environment.
func LoadEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		Logger.Warn("No .env file loaded, using process environment", zap.Error(err))
	}
}

func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvOrDefault(key, fallback string) string {
	if value := GetEnv(key); value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	value := GetEnv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		Logger.Warn("Invalid integer in environment, using default",
			zap.String("key", key), zap.String("value", value), zap.Int("default", fallback))
		return fallback
	}
	return n
}

func GetEnvBool(key string, fallback bool) bool {
	value := GetEnv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		Logger.Warn("Invalid boolean in environment, using default",
			zap.String("key", key), zap.String("value", value), zap.Bool("default", fallback))
		return fallback
	}
	return b
}
