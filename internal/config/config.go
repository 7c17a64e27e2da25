package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all env-driven settings.
type Config struct {
	DBPath         string
	ConversationID string
	Title          string

	Model        string
	AgentTimeout time.Duration

	LogLevel  string
	LogPretty bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() *Config {
	return &Config{
		DBPath:         getEnv("TASKLINE_DB_PATH", "taskline.db"),
		ConversationID: getEnv("TASKLINE_CONVERSATION", "conv1"),
		Title:          getEnv("TASKLINE_TITLE", "Shared task chat"),

		Model:        getEnv("TASKLINE_MODEL", ""),
		AgentTimeout: time.Duration(getIntEnv("TASKLINE_AGENT_TIMEOUT", 60)) * time.Second,

		LogLevel:  getEnv("TASKLINE_LOG_LEVEL", "info"),
		LogPretty: getBoolEnv("TASKLINE_LOG_PRETTY", false),
	}
}
