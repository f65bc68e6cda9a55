package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	// CookieSecure marks the session cookie Secure; off for local http.
	CookieSecure bool

	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaBaseURL string
	AdzunaCountry string
	JobsPerPage   int
	JobAPITimeout time.Duration

	AIEndpoint   string
	AIAPIKey     string
	AIModel      string
	AITimeout    time.Duration
	AISampleSize int
	AIAuthStyle  string

	RedisURL       string
	SearchCacheTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/jobsight?parseTime=true"),
		JWTSecret:    getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:    getDuration("JWT_EXPIRY", time.Hour),
		CookieSecure: getBool("COOKIE_SECURE", false),

		AdzunaAppID:   os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:  os.Getenv("ADZUNA_APP_KEY"),
		AdzunaBaseURL: getEnv("ADZUNA_BASE_URL", "https://api.adzuna.com/v1/api/jobs"),
		AdzunaCountry: getEnv("ADZUNA_COUNTRY", "gb"),
		JobsPerPage:   getInt("JOBS_PER_PAGE", 20),
		JobAPITimeout: getDuration("JOB_API_TIMEOUT", 10*time.Second),

		AIEndpoint:   os.Getenv("AI_ENDPOINT"),
		AIAPIKey:     os.Getenv("AI_API_KEY"),
		AIModel:      getEnv("AI_MODEL", "gpt-4o"),
		AITimeout:    getDuration("AI_TIMEOUT", 10*time.Second),
		AISampleSize: getInt("AI_SAMPLE_SIZE", 10),
		AIAuthStyle:  strings.ToLower(getEnv("AI_AUTH_STYLE", "azure")),

		RedisURL:       os.Getenv("REDIS_URL"),
		SearchCacheTTL: getDuration("SEARCH_CACHE_TTL", 10*time.Minute),
	}

	if cfg.IsProduction() && cfg.JWTSecret == devJWTSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	if cfg.AdzunaAppID == "" || cfg.AdzunaAppKey == "" {
		slog.Warn("ADZUNA_APP_ID / ADZUNA_APP_KEY not set, job search will report unavailable")
	}
	if cfg.AIEndpoint == "" || cfg.AIAPIKey == "" {
		slog.Warn("AI_ENDPOINT / AI_API_KEY not set, market summaries disabled")
	}

	return cfg
}

// AIBearerAuth reports whether AI_AUTH_STYLE asks for an OpenAI-style
// Authorization: Bearer header in addition to api-key.
func (c Config) AIBearerAuth() bool {
	return c.AIAuthStyle == "openai"
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration setting", "key", key, "value", v)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
