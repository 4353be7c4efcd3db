package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RateLimitPolicy struct {
	Window time.Duration
	Max    int64
}

type MailjetConfig struct {
	APIKeyPublic  string
	APIKeyPrivate string
	SenderEmail   string
	SenderName    string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	// AppURL is the frontend base used to build password reset links.
	AppURL string

	RateLimitUseRedis bool
	RateLimitLogin    RateLimitPolicy
	RateLimitForgot   RateLimitPolicy
	RateLimitAPI      RateLimitPolicy

	PaginationDefaultLimit int
	PaginationMaxLimit     int

	Mailjet MailjetConfig

	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads the environment (plus an optional .env file). The signing
// secret is the one hard requirement: without it the process must not start.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg := &Config{
		Port:        envString("PORT", "9000"),
		Environment: envString("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(os.Getenv("LOG_LEVEL")),

		DatabaseURL: envString("DATABASE_URL", ""),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: secret,
		JWTTTL:    envDuration("JWT_EXPIRES_IN", 24*time.Hour),

		AppURL: envString("APP_URL", "http://localhost:9000"),

		RateLimitUseRedis: envBool("RATE_LIMIT_USE_REDIS", false),
		RateLimitLogin: RateLimitPolicy{
			Window: time.Duration(envNumber("RATE_LIMIT_LOGIN_WINDOW_MIN", 15)) * time.Minute,
			Max:    int64(envNumber("RATE_LIMIT_LOGIN_MAX", 5)),
		},
		RateLimitForgot: RateLimitPolicy{
			Window: time.Duration(envNumber("RATE_LIMIT_FORGOT_WINDOW_MIN", 15)) * time.Minute,
			Max:    int64(envNumber("RATE_LIMIT_FORGOT_MAX", 3)),
		},
		RateLimitAPI: RateLimitPolicy{
			Window: time.Duration(envNumber("RATE_LIMIT_API_WINDOW_MIN", 15)) * time.Minute,
			Max:    int64(envNumber("RATE_LIMIT_API_MAX", 300)),
		},

		PaginationDefaultLimit: envNumber("PAGINATION_DEFAULT_LIMIT", 10),
		PaginationMaxLimit:     envNumber("PAGINATION_MAX_LIMIT", 50),

		Mailjet: MailjetConfig{
			APIKeyPublic:  os.Getenv("MJ_APIKEY_PUBLIC"),
			APIKeyPrivate: os.Getenv("MJ_APIKEY_PRIVATE"),
			SenderEmail:   os.Getenv("MJ_SENDER_EMAIL"),
			SenderName:    envString("MJ_SENDER_NAME", "Sistema"),
		},

		KafkaBrokers: envList("KAFKA_BROKERS"),
		KafkaTopic:   envString("KAFKA_TOPIC", "proposal-events"),
	}

	if cfg.RateLimitUseRedis && cfg.RedisURL == "" {
		return nil, errors.New("RATE_LIMIT_USE_REDIS=true requires REDIS_URL")
	}

	return cfg, nil
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envNumber(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	return strings.EqualFold(v, "true")
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(name string) []string {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
