package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	DBPath        string
	MigrationsDir string
	JWTSecret     string
	PairingCode   string
	TokenTTL      time.Duration
	CORSOrigins   []string

	// TickInterval is overridable so tests and demos can run the
	// countdown faster than wall-clock seconds.
	TickInterval          time.Duration
	ScheduleCheckInterval time.Duration
}

func Load() Config {
	return Config{
		Port:                  getEnv("PORT", "8787"),
		DBPath:                getEnv("DB_PATH", "./data/monotaskr.db"),
		MigrationsDir:         getEnv("MIGRATIONS_DIR", "./migrations"),
		JWTSecret:             getEnv("JWT_SECRET", "change-this-secret"),
		PairingCode:           getEnv("PAIRING_CODE", "monotaskr"),
		TokenTTL:              time.Duration(getEnvInt("TOKEN_TTL_HOURS", 720)) * time.Hour,
		CORSOrigins:           getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		TickInterval:          time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
		ScheduleCheckInterval: time.Duration(getEnvInt("SCHEDULE_CHECK_INTERVAL_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
