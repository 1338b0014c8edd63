// internal/config/config.go
//
// Environment-backed configuration, read once at startup (after godotenv has
// loaded any .env file).
//
// Environment variables:
//   PORT              HTTP port (default 5175)
//   LOG_LEVEL         zerolog level (default info)
//   DB_PATH           SQLite file, or ":memory:" (default ./data/gridchase.db)
//   JWT_SECRET        HS256 signing secret (default dev_secret_change_me)
//   JWT_EXPIRES_DAYS  token lifetime in days (default 14)
//   COOKIE_NAME       auth cookie name (default gridchase_token)
//   CLIENT_ORIGIN     allowed CORS origin (default http://localhost:5173)
//   NODE_ENV          "production" enables Secure/SameSite=None cookies
//   DAILY_SALT        HMAC salt for daily seeds (default local_dev_salt)
//   SESSION_IDLE_TTL  close sessions idle this long (default 10m)

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every tunable of the server.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string
	SessionIdleTTL time.Duration
}

// Load reads the process environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/gridchase.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "gridchase_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		SessionIdleTTL: envDuration("SESSION_IDLE_TTL", 10*time.Minute),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
