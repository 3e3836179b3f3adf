package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	BaseURL           string
	SessionCookie     string
	Env               string
	LogLevel          string
	HTTPTimeout       time.Duration
	BrowserHeadless   bool
	BrowserTimeout    time.Duration
	AlertDismissDelay time.Duration
	AlertFadeDelay    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		BaseURL:           strings.TrimRight(getEnv("HEALCARD_BASE_URL", "http://localhost:5000"), "/"),
		SessionCookie:     getEnv("HEALCARD_COOKIE", ""),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HTTPTimeout:       getEnvAsDuration("HEALCARD_HTTP_TIMEOUT", 30*time.Second),
		BrowserHeadless:   getEnvAsBool("HEALCARD_BROWSER_HEADLESS", true),
		BrowserTimeout:    getEnvAsDuration("HEALCARD_BROWSER_TIMEOUT", 120*time.Second),
		AlertDismissDelay: getEnvAsDuration("HEALCARD_ALERT_DISMISS_DELAY", 1500*time.Millisecond),
		AlertFadeDelay:    getEnvAsDuration("HEALCARD_ALERT_FADE_DELAY", 500*time.Millisecond),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
