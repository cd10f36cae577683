package main

import (
	"os"
	"strconv"
)

// Config holds the runtime settings, filled from flags with environment
// fallbacks.
type Config struct {
	Addr      string
	DiagAddr  string
	RedisURL  string
	JWTSecret string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

// nolint
func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return b
}
