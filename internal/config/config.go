package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	APIPrefix  string

	DBDriver        string
	MySQLDSN        string
	SQLitePath      string
	DBDebug         bool
	DBWaitAttempts  int
	DBWaitInterval  time.Duration
	ShutdownTimeout time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string

	SecretKey                string
	AccessTokenExpireMinutes int
	LoginRatePerSecond       float64

	FirstSuperuserEmail    string
	FirstSuperuserPassword string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:               getEnv("SERVER_PORT", "8080"),
		APIPrefix:                getEnv("API_PREFIX", "/api/v1"),
		DBDriver:                 getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:                 getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=UTC"),
		SQLitePath:               getEnv("SQLITE_PATH", "tasktracker.db"),
		DBDebug:                  os.Getenv("DB_DEBUG") == "true",
		DBWaitAttempts:           getEnvInt("DB_WAIT_ATTEMPTS", 60*5),
		DBWaitInterval:           time.Duration(getEnvInt("DB_WAIT_INTERVAL_SECONDS", 1)) * time.Second,
		ShutdownTimeout:          time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisDB:                  getEnvInt("REDIS_DB", 0),
		RedisPass:                os.Getenv("REDIS_PASSWORD"),
		SecretKey:                getEnv("SECRET_KEY", "change-me"),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*8),
		LoginRatePerSecond:       getEnvFloat("LOGIN_RATE_PER_SECOND", 5),
		FirstSuperuserEmail:      getEnv("FIRST_SUPERUSER_EMAIL", "admin@example.com"),
		FirstSuperuserPassword:   getEnv("FIRST_SUPERUSER_PASSWORD", "changethis"),
		SwaggerHost:              os.Getenv("SWAGGER_HOST"),
	}
}

// AccessTokenTTL is the lifetime of issued access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}
