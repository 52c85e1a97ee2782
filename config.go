package main

import (
	"os"
	"strconv"
	"time"
)

// config is everything the server reads from the environment.
type config struct {
	Port             string
	LogLevel         string
	WordPicker       string // "random" | "daily"
	DailySalt        string
	SessionSecret    string
	SessionTTL       time.Duration
	ClientOrigin     string
	Production       bool
	AllowFixedAnswer bool
	MaxGames         int
}

func loadConfig() config {
	return config{
		Port:             envStr("PORT", "5175"),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		WordPicker:       envStr("WORD_PICKER", "random"),
		DailySalt:        envStr("DAILY_SALT", "local_dev_salt"),
		SessionSecret:    envStr("SESSION_SECRET", "dev_secret_change_me"),
		SessionTTL:       time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		ClientOrigin:     envStr("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:       os.Getenv("NODE_ENV") == "production",
		AllowFixedAnswer: envBool("ALLOW_FIXED_ANSWER", false),
		MaxGames:         envInt("MAX_GAMES", 10000),
	}
}

// envStr returns the value of k or def if unset/empty.
func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt returns k parsed as an int, or def if unset or malformed.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envBool returns k parsed as a bool, or def if unset or malformed.
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
