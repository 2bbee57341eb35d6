package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	HTTP  ServerConfig
	Log   LogConfig
	Whop  WhopConfig
	Fetch FetchConfig
	Jobs  JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type LogConfig struct {
	Level string
}

// WhopConfig scopes access to the Whop API. CompanyID may be empty here; the
// metrics service rejects requests until it is configured, so a missing scope
// surfaces as a per-request configuration error rather than a startup crash.
type WhopConfig struct {
	BaseURL            string
	APIKey             string
	CompanyID          string
	PageSize           int
	RequestTimeout     time.Duration
	RateLimitPerSecond int
}

type FetchConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

type JobsConfig struct {
	SnapshotInterval time.Duration
}

const defaultAPIURL = "https://api.whop.com/api/v2"

func Load() (*Config, error) {
	_ = godotenv.Load()

	baseURL := getEnv("WHOP_API_URL", defaultAPIURL)
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid WHOP_API_URL %q: %w", baseURL, err)
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "analytics-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Log: LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		Whop: WhopConfig{
			BaseURL:            baseURL,
			APIKey:             getEnv("WHOP_API_KEY", ""),
			CompanyID:          getEnv("WHOP_COMPANY_ID", ""),
			PageSize:           getIntEnv("WHOP_PAGE_SIZE", 100),
			RequestTimeout:     getSecondsEnv("WHOP_TIMEOUT_SECONDS", 30*time.Second),
			RateLimitPerSecond: getIntEnv("WHOP_RATE_LIMIT_PER_SECOND", 10),
		},
		Fetch: FetchConfig{
			MaxAttempts:  getIntEnv("FETCH_MAX_ATTEMPTS", 3),
			InitialDelay: getMillisEnv("FETCH_RETRY_DELAY_MS", time.Second),
		},
		Jobs: JobsConfig{
			SnapshotInterval: getMinutesEnv("SNAPSHOT_INTERVAL_MINUTES", time.Hour),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getMillisEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if millis, err := strconv.Atoi(value); err == nil {
			return time.Duration(millis) * time.Millisecond
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
