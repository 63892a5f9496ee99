// internal/config/config.go
//
// Process configuration read from the environment. Values may come from a
// .env file; main loads it with godotenv before calling Load.
//
// Environment variables:
//   PORT                 HTTP port (default 5175)
//   LOG_LEVEL            zerolog level (default info)
//   DB_PATH              SQLite file for the stats cache; empty keeps it in memory
//   WORDS_ANSWERS_FILE   answer list, one word per line
//   WORDS_ALLOWED_FILE   guess list, one word per line
//   STATS_CACHE_FILE     prebuilt ranking artifact (default gen/statsCache.json)
//   JWT_SECRET           HS256 secret for session tokens
//   ADMIN_PASSWORD_HASH  bcrypt hash guarding /admin routes; empty disables them
//   DAILY_SALT           salt for the daily answer
//   RANK_WORKERS         goroutines per ranking (default NumCPU)
//   CLIENT_ORIGIN        CORS origin (default http://localhost:5173)
//   REQUEST_TIMEOUT      handler timeout (default 30s)

package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config collects every setting of the server and CLI.
type Config struct {
	Port              string
	LogLevel          string
	DBPath            string
	AnswersFile       string
	AllowedFile       string
	StatsCacheFile    string
	JWTSecret         string
	AdminPasswordHash string
	DailySalt         string
	RankWorkers       int
	ClientOrigin      string
	RequestTimeout    time.Duration
}

// Load reads the environment, applying defaults for unset values.
func Load() Config {
	return Config{
		Port:              getEnv("PORT", "5175"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBPath:            os.Getenv("DB_PATH"),
		AnswersFile:       os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:       os.Getenv("WORDS_ALLOWED_FILE"),
		StatsCacheFile:    getEnv("STATS_CACHE_FILE", "gen/statsCache.json"),
		JWTSecret:         getEnv("JWT_SECRET", "dev_secret_change_me"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		DailySalt:         getEnv("DAILY_SALT", "local_dev_salt"),
		RankWorkers:       getEnvInt("RANK_WORKERS", runtime.NumCPU()),
		ClientOrigin:      getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring invalid integer")
		return def
	}
	return n
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring invalid duration")
		return def
	}
	return d
}
